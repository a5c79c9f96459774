// Copyright 2025 AeroFusion
// SPDX-License-Identifier: BUSL-1.1
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"aerofusion/platform/llm"
)

// mockHTTPClient captures the outgoing request and serves a canned response.
type mockHTTPClient struct {
	statusCode int
	body       string
	err        error
	lastReq    *http.Request
	lastBody   []byte
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.lastReq = req
	if req.Body != nil {
		m.lastBody, _ = io.ReadAll(req.Body)
	}
	if m.err != nil {
		return nil, m.err
	}
	return &http.Response{
		StatusCode: m.statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(m.body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}, nil
}

func testProvider(t *testing.T, client HTTPClient) *Provider {
	t.Helper()
	p, err := NewProvider(Config{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}
	p.client = client
	return p
}

func TestNewProviderRequiresAPIKey(t *testing.T) {
	if _, err := NewProvider(Config{}); err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestNewProviderDefaults(t *testing.T) {
	p, err := NewProvider(Config{APIKey: "k"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.baseURL != DefaultBaseURL {
		t.Errorf("expected default base URL, got %s", p.baseURL)
	}
	if p.model != DefaultModel {
		t.Errorf("expected default model, got %s", p.model)
	}
	if p.Type() != llm.ProviderTypeGroq {
		t.Errorf("unexpected type %s", p.Type())
	}
}

func TestCompleteSuccess(t *testing.T) {
	mock := &mockHTTPClient{
		statusCode: http.StatusOK,
		body: `{
			"model": "llama-3.1-8b-instant",
			"choices": [{"message": {"content": "  {\"notes\": \"hi\"}  "}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`,
	}
	p := testProvider(t, mock)

	resp, err := p.Complete(context.Background(), llm.CompletionRequest{
		Prompt:       "summarize",
		SystemPrompt: "be brief",
		MaxTokens:    64,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if resp.Content != `{"notes": "hi"}` {
		t.Errorf("unexpected content %q", resp.Content)
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("expected 15 total tokens, got %d", resp.Usage.TotalTokens)
	}
	if resp.Raw == nil {
		t.Error("expected raw payload to be preserved")
	}

	if got := mock.lastReq.Header.Get("Authorization"); got != "Bearer test-key" {
		t.Errorf("unexpected auth header %q", got)
	}
	if mock.lastReq.URL.Path != "/v1/chat/completions" {
		t.Errorf("unexpected path %s", mock.lastReq.URL.Path)
	}

	var sent chatRequest
	if err := json.Unmarshal(mock.lastBody, &sent); err != nil {
		t.Fatalf("request body was not JSON: %v", err)
	}
	if len(sent.Messages) != 2 || sent.Messages[0].Role != "system" || sent.Messages[1].Content != "summarize" {
		t.Errorf("unexpected messages: %+v", sent.Messages)
	}
	if sent.MaxTokens != 64 {
		t.Errorf("expected max_tokens 64, got %d", sent.MaxTokens)
	}
}

func TestCompleteModelOverride(t *testing.T) {
	mock := &mockHTTPClient{statusCode: http.StatusOK, body: `{"choices": [{"message": {"content": "x"}}]}`}
	p := testProvider(t, mock)

	if _, err := p.Complete(context.Background(), llm.CompletionRequest{Prompt: "p", Model: "other-model"}); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	var sent chatRequest
	_ = json.Unmarshal(mock.lastBody, &sent)
	if sent.Model != "other-model" {
		t.Errorf("expected model override, got %s", sent.Model)
	}
}

func TestCompleteRateLimited(t *testing.T) {
	mock := &mockHTTPClient{statusCode: http.StatusTooManyRequests, body: `{"error": "rate limit"}`}
	p := testProvider(t, mock)

	_, err := p.Complete(context.Background(), llm.CompletionRequest{Prompt: "p"})
	var perr *llm.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if perr.Code != llm.ErrCodeRateLimit {
		t.Errorf("expected rate_limit, got %s", perr.Code)
	}
	if !perr.Retryable {
		t.Error("rate limit errors should be retryable")
	}
}

func TestCompleteAuthError(t *testing.T) {
	mock := &mockHTTPClient{statusCode: http.StatusUnauthorized, body: `{"error": "bad key"}`}
	p := testProvider(t, mock)

	_, err := p.Complete(context.Background(), llm.CompletionRequest{Prompt: "p"})
	var perr *llm.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if perr.Code != llm.ErrCodeAuth {
		t.Errorf("expected authentication_error, got %s", perr.Code)
	}
	if perr.Retryable {
		t.Error("auth errors should not be retryable")
	}
}

func TestCompleteServerError(t *testing.T) {
	mock := &mockHTTPClient{statusCode: http.StatusBadGateway, body: "upstream down"}
	p := testProvider(t, mock)

	_, err := p.Complete(context.Background(), llm.CompletionRequest{Prompt: "p"})
	var perr *llm.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if perr.Code != llm.ErrCodeServerError || !perr.Retryable {
		t.Errorf("expected retryable server_error, got %+v", perr)
	}
}

func TestCompleteTransportFailure(t *testing.T) {
	mock := &mockHTTPClient{err: errors.New("dial tcp: connection refused")}
	p := testProvider(t, mock)

	_, err := p.Complete(context.Background(), llm.CompletionRequest{Prompt: "p"})
	var perr *llm.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if perr.Code != llm.ErrCodeUnavailable {
		t.Errorf("expected unavailable, got %s", perr.Code)
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	mock := &mockHTTPClient{statusCode: http.StatusOK, body: `{"choices": []}`}
	p := testProvider(t, mock)

	_, err := p.Complete(context.Background(), llm.CompletionRequest{Prompt: "p"})
	var provErr *llm.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if provErr.Code != llm.ErrCodeEmptyResponse {
		t.Errorf("expected code %q, got %q", llm.ErrCodeEmptyResponse, provErr.Code)
	}
	if provErr.Retryable {
		t.Error("empty response should not be retryable")
	}
}

func TestCompleteBlankContent(t *testing.T) {
	mock := &mockHTTPClient{statusCode: http.StatusOK,
		body: `{"choices": [{"message": {"content": "   "}}]}`}
	p := testProvider(t, mock)

	_, err := p.Complete(context.Background(), llm.CompletionRequest{Prompt: "p"})
	var provErr *llm.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if provErr.Code != llm.ErrCodeEmptyResponse {
		t.Errorf("expected code %q, got %q", llm.ErrCodeEmptyResponse, provErr.Code)
	}
}
