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
	"regexp"
	"strconv"
	"strings"
	"time"

	"aerofusion/platform/llm"
	"aerofusion/platform/shared/logger"
)

var (
	reFromTo  = regexp.MustCompile(`(?i)\bfrom\s+([a-zA-Z ]+?)\s+to\s+([a-zA-Z ]+?)(?:[\s,.?!]|$)`)
	reBareTo  = regexp.MustCompile(`(?i)\b([a-zA-Z ]+?)\s+to\s+([a-zA-Z ]+?)(?:[\s,.?!]|$)`)
	rePrice   = regexp.MustCompile(`(?i)(?:under|below|less than|cheaper than|<)\s*(?:rs\.?|inr|₹)?\s*([0-9][0-9,]*)`)
	reSeats   = regexp.MustCompile(`(?i)(?:at least\s+|minimum\s+|more than\s+|over\s+)?([0-9]{1,3})\s*seats?\b`)
	reISODate = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	reDayMon  = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)(?:\s+(\d{4}))?\b`)
	reMonDay  = regexp.MustCompile(`(?i)\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?\b`)

	reAirlineTrigger = regexp.MustCompile(`(?i)\b(?:by|on|via)\s+([a-zA-Z ]+?)(?:\s+(?:from|to|for|flight|flights|tomorrow|today)\b|[,.?!]|$)`)
	reAirlineKnown   = regexp.MustCompile(`(?i)\b(air india|jet airways|spice jet|go first|air asia|indi go|airindia|indigo|spicejet|vistara|gofirst|airasia|jet)\b`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// Extractor turns a free-text flight query into a structured Intent. When a
// model provider is configured it is consulted first; any provider or parse
// failure falls back to the deterministic regex parser, so Extract never
// fails.
type Extractor struct {
	provider llm.Provider // nil means deterministic-only
	retry    llm.RetryConfig
	log      *logger.Logger
	now      func() time.Time
}

// NewExtractor builds an Extractor. provider may be nil.
func NewExtractor(provider llm.Provider, log *logger.Logger) *Extractor {
	return &Extractor{
		provider: provider,
		retry:    llm.DefaultRetryConfig(),
		log:      log,
		now:      time.Now,
	}
}

// Extract parses the query text into an Intent.
func (e *Extractor) Extract(ctx context.Context, queryID, text string) Intent {
	if e.provider != nil {
		intent, err := e.extractWithModel(ctx, text)
		if err == nil {
			return intent
		}
		e.log.Warn(queryID, "model extraction failed, using deterministic parser", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return e.parseDeterministic(text)
}

// parseDeterministic applies the regex ruleset to the raw text.
func (e *Extractor) parseDeterministic(text string) Intent {
	intent := Intent{Kind: e.classify(text)}

	if m := reFromTo.FindStringSubmatch(text); m != nil {
		intent.Origin = strPtr(titleCase(m[1]))
		intent.Destination = strPtr(titleCase(m[2]))
	} else if m := reBareTo.FindStringSubmatch(text); m != nil {
		intent.Origin = strPtr(titleCase(m[1]))
		intent.Destination = strPtr(titleCase(m[2]))
	}

	if m := rePrice.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
			intent.PriceLimit = &v
		}
	}
	if m := reSeats.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			intent.SeatCount = &v
		}
	}

	intent.Date = e.resolveDate(text)
	intent.Airline = e.detectAirline(text)
	return intent
}

func (e *Extractor) classify(text string) IntentKind {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "average") || strings.Contains(lower, "avg") || strings.Contains(lower, "mean price"):
		return IntentAvg
	case strings.Contains(lower, "cheapest") || strings.Contains(lower, "lowest") ||
		strings.Contains(lower, "minimum price") || strings.Contains(lower, "min price"):
		return IntentMin
	default:
		return IntentList
	}
}

// resolveDate turns relative and partial date mentions into YYYY-MM-DD.
func (e *Extractor) resolveDate(text string) *string {
	lower := strings.ToLower(text)
	today := e.now()
	switch {
	case strings.Contains(lower, "day after tomorrow"):
		return strPtr(today.AddDate(0, 0, 2).Format("2006-01-02"))
	case strings.Contains(lower, "tomorrow"):
		return strPtr(today.AddDate(0, 0, 1).Format("2006-01-02"))
	case strings.Contains(lower, "today"):
		return strPtr(today.Format("2006-01-02"))
	}
	if m := reISODate.FindStringSubmatch(text); m != nil {
		return strPtr(m[1])
	}
	if m := reDayMon.FindStringSubmatch(text); m != nil {
		return e.buildDate(m[1], m[2], m[3])
	}
	if m := reMonDay.FindStringSubmatch(text); m != nil {
		return e.buildDate(m[2], m[1], m[3])
	}
	return nil
}

// buildDate assembles a date from a day, a month-name prefix, and an optional
// year. A missing year resolves to the current year.
func (e *Extractor) buildDate(dayStr, monthStr, yearStr string) *string {
	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 1 || day > 31 {
		return nil
	}
	month, ok := monthsByPrefix[strings.ToLower(monthStr)[:3]]
	if !ok {
		return nil
	}
	year := e.now().Year()
	if yearStr != "" {
		if y, err := strconv.Atoi(yearStr); err == nil {
			year = y
		}
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day {
		// Rolled over, e.g. 31 Feb.
		return nil
	}
	return strPtr(d.Format("2006-01-02"))
}

// detectAirline prefers an explicitly introduced carrier ("by X", "on X",
// "via X") over a known name mentioned anywhere else in the text.
func (e *Extractor) detectAirline(text string) *string {
	if m := reAirlineTrigger.FindStringSubmatch(text); m != nil {
		return NormalizeAirline(&m[1])
	}
	if m := reAirlineKnown.FindStringSubmatch(text); m != nil {
		return NormalizeAirline(&m[1])
	}
	return nil
}

const extractSystemPrompt = "You extract structured flight-search parameters. " +
	"Respond with a single JSON object and nothing else."

// extractWithModel asks the configured provider for a structured parse and
// coerces the response into an Intent.
func (e *Extractor) extractWithModel(ctx context.Context, text string) (Intent, error) {
	prompt := fmt.Sprintf(`Extract flight search parameters from this query.

Query: %q

Return JSON with exactly these keys (use null for anything absent):
  "airline": string or null
  "origin": city string or null
  "destination": city string or null
  "date": "YYYY-MM-DD" or null (today is %s)
  "price_limit": number or null
  "seat_count": integer or null
  "intent": "LIST", "MIN" or "AVG"`, text, e.now().Format("2006-01-02"))

	resp, err := llm.RetryWithBackoff(ctx, e.retry, func(ctx context.Context) (*llm.CompletionResponse, error) {
		return e.provider.Complete(ctx, llm.CompletionRequest{
			Prompt:       prompt,
			SystemPrompt: extractSystemPrompt,
			MaxTokens:    256,
			Temperature:  0,
		})
	})
	if err != nil {
		return Intent{}, err
	}
	obj, err := ExtractJSONObject(resp.Content)
	if err != nil {
		return Intent{}, fmt.Errorf("parsing model extraction: %w", err)
	}
	return intentFromMap(obj), nil
}

// intentFromMap coerces loosely typed model output into an Intent. Cities are
// title-cased here; fuzzy normalization happens later in the pipeline.
func intentFromMap(obj map[string]interface{}) Intent {
	intent := Intent{Kind: IntentList}
	if s := stringField(obj, "airline"); s != "" {
		intent.Airline = NormalizeAirline(&s)
	}
	if s := stringField(obj, "origin"); s != "" {
		intent.Origin = strPtr(titleCase(s))
	}
	if s := stringField(obj, "destination"); s != "" {
		intent.Destination = strPtr(titleCase(s))
	}
	if s := stringField(obj, "date"); s != "" {
		intent.Date = &s
	}
	if v := coerceFloat(obj["price_limit"]); v != nil {
		intent.PriceLimit = v
	}
	if v := coerceInt(obj["seat_count"]); v != nil {
		intent.SeatCount = v
	}
	if s := stringField(obj, "intent"); s != "" {
		intent.Kind = NormalizeKind(s)
	}
	return intent
}
