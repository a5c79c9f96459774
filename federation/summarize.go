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

package federation

import (
	"context"
	"fmt"
	"strings"

	"aerofusion/platform/llm"
	"aerofusion/platform/shared/logger"
	"aerofusion/platform/shared/metrics"
)

// SummarySource records whether a summary came from the model or the
// deterministic fallback.
type SummarySource string

const (
	SummaryFromModel    SummarySource = "LLM"
	SummaryFromFallback SummarySource = "FALLBACK"
)

// Summary is the human-readable closing of a federated query. Parsed holds
// the model's structured payload when one could be recovered; it is nil for
// fallback summaries and for model replies that were not valid JSON.
type Summary struct {
	Text   string                 `json:"text"`
	Parsed map[string]interface{} `json:"parsed,omitempty"`
	Source SummarySource          `json:"source"`
	Raw    map[string]interface{} `json:"raw,omitempty"`
}

// Summarizer produces the final summary for a result set. It degrades, never
// fails: no provider, provider errors, and unparseable replies all land on
// the deterministic fallback.
type Summarizer struct {
	provider llm.Provider // nil means fallback-only
	retry    llm.RetryConfig
	log      *logger.Logger
}

// NewSummarizer builds a Summarizer. provider may be nil.
func NewSummarizer(provider llm.Provider, log *logger.Logger) *Summarizer {
	return &Summarizer{
		provider: provider,
		retry:    llm.DefaultRetryConfig(),
		log:      log,
	}
}

// Summarize returns a summary for the merged rows along with the prompt that
// was (or would have been) sent to the model.
func (s *Summarizer) Summarize(ctx context.Context, queryID string, intent Intent, rows []CanonicalRow) (Summary, string) {
	prompt := BuildSummaryPrompt(intent, rows)

	if s.provider == nil {
		metrics.SummaryFallbacks.Inc()
		return Summary{
			Text:   fallbackText(rows),
			Source: SummaryFromFallback,
			Raw:    map[string]interface{}{"note": "model collaborator not configured"},
		}, prompt
	}

	resp, err := llm.RetryWithBackoff(ctx, s.retry, func(ctx context.Context) (*llm.CompletionResponse, error) {
		return s.provider.Complete(ctx, llm.CompletionRequest{
			Prompt:      prompt,
			MaxTokens:   512,
			Temperature: 0.2,
		})
	})
	if err != nil {
		s.log.Warn(queryID, "model summary failed, using fallback", map[string]interface{}{
			"provider": s.provider.Name(),
			"error":    err.Error(),
		})
		metrics.SummaryFallbacks.Inc()
		return Summary{
			Text:   fallbackText(rows),
			Source: SummaryFromFallback,
			Raw:    map[string]interface{}{"error": err.Error()},
		}, prompt
	}

	text := StripCodeFences(resp.Content)
	if strings.TrimSpace(text) == "" {
		s.log.Warn(queryID, "model returned empty summary, using fallback", map[string]interface{}{
			"provider": s.provider.Name(),
		})
		metrics.SummaryFallbacks.Inc()
		return Summary{
			Text:   fallbackText(rows),
			Source: SummaryFromFallback,
			Raw:    map[string]interface{}{"error": "model returned no text"},
		}, prompt
	}
	parsed, perr := ExtractJSONObject(resp.Content)
	if perr != nil {
		s.log.Debug(queryID, "model summary was not valid JSON, keeping raw text", map[string]interface{}{
			"error": perr.Error(),
		})
		parsed = nil
	}
	return Summary{
		Text:   text,
		Parsed: parsed,
		Source: SummaryFromModel,
		Raw:    resp.Raw,
	}, prompt
}

// fallbackText renders a deterministic summary: the three cheapest priced
// flights, or an explicit statement that no price information is available.
func fallbackText(rows []CanonicalRow) string {
	var priced []CanonicalRow
	for _, r := range rows {
		if r.Price != nil {
			priced = append(priced, r)
		}
	}
	if len(priced) == 0 {
		return "No model summary available and no price information in the results."
	}
	if len(priced) > 3 {
		priced = priced[:3]
	}
	parts := make([]string, len(priced))
	for i, r := range priced {
		parts[i] = fmt.Sprintf("%s(%.2f)", r.FlightNo, *r.Price)
	}
	return "No model summary available. Cheapest flights: " + strings.Join(parts, ", ")
}
