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
	"fmt"
	"strings"
)

// promptRowCap bounds how many rows are inlined into the summary prompt.
const promptRowCap = 30

// BuildSummaryPrompt renders the intent and the merged rows into the prompt
// sent to the model for summarization. The task line is conditioned on the
// intent kind so MIN and AVG queries get pointed questions instead of a
// generic listing request.
func BuildSummaryPrompt(intent Intent, rows []CanonicalRow) string {
	var b strings.Builder
	b.WriteString("You are a flight search assistant. A user asked for flights with these constraints:\n")
	fmt.Fprintf(&b, "- airline: %s\n", orAny(deref(intent.Airline)))
	fmt.Fprintf(&b, "- origin: %s\n", orAny(deref(intent.Origin)))
	fmt.Fprintf(&b, "- destination: %s\n", orAny(deref(intent.Destination)))
	fmt.Fprintf(&b, "- date: %s\n", orAny(deref(intent.Date)))
	if intent.PriceLimit != nil {
		fmt.Fprintf(&b, "- price under: %.2f\n", *intent.PriceLimit)
	}
	if intent.SeatCount != nil {
		fmt.Fprintf(&b, "- more than %d seats\n", *intent.SeatCount)
	}

	b.WriteString("\n")
	b.WriteString(taskLine(intent.Kind))
	b.WriteString("\n\nIntegrated results across all sources:\n")

	if len(rows) == 0 {
		b.WriteString("(no matching flights)\n")
	}
	for i, r := range rows {
		if i >= promptRowCap {
			fmt.Fprintf(&b, "... and %d more rows\n", len(rows)-promptRowCap)
			break
		}
		price := "unknown"
		if r.Price != nil {
			price = fmt.Sprintf("%.2f", *r.Price)
		}
		fmt.Fprintf(&b, "- %s | %s | %s -> %s | %s %s | price=%s\n",
			r.FlightNo, r.Airline, r.Origin, r.Destination, r.Date, r.DepartureTime, price)
	}

	b.WriteString("\nRespond with valid JSON only, with exactly these keys:\n")
	b.WriteString(`  "top_flights": list of up to 5 flights as short strings` + "\n")
	b.WriteString(`  "notes": one or two sentences for the user` + "\n")
	return b.String()
}

func taskLine(kind IntentKind) string {
	switch kind {
	case IntentMin:
		return "Task: identify the single cheapest flight and say why it is the best choice."
	case IntentAvg:
		return "Task: report the average price on this route and how the sources compare."
	default:
		return "Task: summarize the top 5 cheapest matching flights for the user."
	}
}

func orAny(s string) string {
	if s == "" {
		return "any"
	}
	return s
}
