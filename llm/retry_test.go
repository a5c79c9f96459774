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

package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetryConfig() RetryConfig {
	cfg := DefaultRetryConfig()
	cfg.InitialBackoff = time.Millisecond
	cfg.MaxBackoff = 5 * time.Millisecond
	cfg.Jitter = 0
	return cfg
}

func TestRetrySucceedsFirstAttempt(t *testing.T) {
	calls := 0
	got, err := RetryWithBackoff(context.Background(), fastRetryConfig(), func(ctx context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("expected ok, got %q", got)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetryRecoverFromRetryableError(t *testing.T) {
	calls := 0
	got, err := RetryWithBackoff(context.Background(), fastRetryConfig(), func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", NewProviderError("test", ErrCodeRateLimit, "slow down")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("expected ok, got %q", got)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetryStopsOnNonRetryableError(t *testing.T) {
	calls := 0
	_, err := RetryWithBackoff(context.Background(), fastRetryConfig(), func(ctx context.Context) (string, error) {
		calls++
		return "", NewProviderError("test", ErrCodeAuth, "bad key")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := RetryWithBackoff(context.Background(), fastRetryConfig(), func(ctx context.Context) (string, error) {
		calls++
		return "", NewProviderError("test", ErrCodeServerError, "boom")
	})
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Errorf("expected ProviderError, got %T", err)
	}
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	cfg := fastRetryConfig()
	cfg.InitialBackoff = time.Second

	_, err := RetryWithBackoff(ctx, cfg, func(ctx context.Context) (string, error) {
		calls++
		cancel()
		return "", NewProviderError("test", ErrCodeServerError, "boom")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call before cancellation, got %d", calls)
	}
}

func TestDefaultRetryable(t *testing.T) {
	if !DefaultRetryable(NewProviderError("p", ErrCodeRateLimit, "m")) {
		t.Error("rate limit should be retryable")
	}
	if DefaultRetryable(NewProviderError("p", ErrCodeInvalidRequest, "m")) {
		t.Error("invalid request should not be retryable")
	}
	if !DefaultRetryable(context.DeadlineExceeded) {
		t.Error("deadline exceeded should be retryable")
	}
	if DefaultRetryable(errors.New("plain")) {
		t.Error("plain errors should not be retryable")
	}
}
