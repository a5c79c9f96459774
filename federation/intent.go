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

// Package federation implements the core query pipeline: intent extraction,
// per-source query generation, execution fan-out, row normalization, the
// conflict-resolving merge, and model-backed summarization with deterministic
// fallbacks.
package federation

import "strings"

// IntentKind classifies what the user is asking for.
type IntentKind string

const (
	// IntentList asks for matching flights.
	IntentList IntentKind = "LIST"
	// IntentMin asks for the single cheapest flight.
	IntentMin IntentKind = "MIN"
	// IntentAvg asks for the average price on a route.
	IntentAvg IntentKind = "AVG"
)

// NormalizeKind upper-cases and validates a kind token. Anything outside the
// enum collapses to LIST.
func NormalizeKind(s string) IntentKind {
	switch IntentKind(strings.ToUpper(strings.TrimSpace(s))) {
	case IntentMin:
		return IntentMin
	case IntentAvg:
		return IntentAvg
	default:
		return IntentList
	}
}

// Intent is the structured form of a user's flight-search request. Nil
// pointer fields mean the user did not constrain that dimension. An Intent is
// immutable after extraction except for the one-time city normalization pass.
type Intent struct {
	Airline     *string    `json:"airline"`
	Origin      *string    `json:"origin"`
	Destination *string    `json:"destination"`
	Date        *string    `json:"date"` // ISO-8601 (YYYY-MM-DD)
	PriceLimit  *float64   `json:"price_limit"`
	SeatCount   *int       `json:"seat_count"`
	Kind        IntentKind `json:"intent"`
}

// strPtr returns a pointer to s, or nil when s is empty.
func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// deref returns the pointed-to string or "" for nil.
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
