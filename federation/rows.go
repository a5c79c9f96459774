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
	"strconv"
	"strings"
	"time"
)

// Source names as they appear in canonical rows and merge priority.
const (
	SourceDWH      = "DWH"
	SourceIndiGo   = "IndiGo"
	SourceAirIndia = "AirIndia"
)

// CanonicalRow is the source-independent flight record every store's output
// is normalized into before filtering and merging. Price and SeatCount are
// pointers: nil means the source did not report that field, which is distinct
// from zero and drives the fill-only-null merge.
type CanonicalRow struct {
	FlightNo      string   `json:"flight_no"`
	Airline       string   `json:"airline,omitempty"`
	Origin        string   `json:"origin,omitempty"`
	Destination   string   `json:"destination,omitempty"`
	Date          string   `json:"date,omitempty"`
	DepartureTime string   `json:"departure_time,omitempty"`
	Price         *float64 `json:"price"`
	SeatCount     *int     `json:"seat_count"`
	Source        string   `json:"source"`

	// syntheticKey is set when FlightNo was fabricated for display; merge
	// identity then falls back to origin-destination-date.
	syntheticKey bool
}

// MergeKey is the identity under which rows from different sources are
// considered the same flight. Rows without a real flight number key on
// origin-destination-date, which two sources can independently produce; such
// a collision merges them (a known limitation of the key scheme).
func (r CanonicalRow) MergeKey() string {
	if r.FlightNo != "" && !r.syntheticKey {
		return r.FlightNo
	}
	return fmt.Sprintf("%s-%s-%s", r.Origin, r.Destination, r.Date)
}

// NormalizeSQLRow converts one relational result row into canonical form.
// Aggregate rows (AVG output) have no flight identity and return ok=false.
func NormalizeSQLRow(row map[string]interface{}, source string) (CanonicalRow, bool) {
	if _, isAgg := row["avg_price"]; isAgg {
		return CanonicalRow{}, false
	}
	r := CanonicalRow{
		FlightNo:    stringField(row, "flight_no"),
		Airline:     stringField(row, "airline"),
		Origin:      stringField(row, "origin"),
		Destination: stringField(row, "destination"),
		Date:        dateField(row, "date"),
		Price:       coerceFloat(row["price"]),
		SeatCount:   coerceInt(row["seat_count"]),
		Source:      stringField(row, "source"),
	}
	if r.Source == "" {
		r.Source = source
	}
	r.DepartureTime = departureField(row)
	if r.FlightNo == "" {
		r.FlightNo = syntheticFlightNo(r)
		r.syntheticKey = true
	}
	return r, true
}

// NormalizeMongoDoc flattens one nested flight document into canonical form.
// The effective price applies the best available percentage discount to the
// base price; offer discounts win over the flat discount field.
func NormalizeMongoDoc(doc map[string]interface{}) CanonicalRow {
	r := CanonicalRow{
		Airline: stringField(doc, "airline_name"),
		Source:  SourceAirIndia,
	}
	if r.Airline == "" {
		r.Airline = "Air India"
	}
	if route, ok := doc["route"].(map[string]interface{}); ok {
		r.Origin = stringField(route, "origin")
		r.Destination = stringField(route, "destination")
	}
	if sched, ok := doc["schedule"].(map[string]interface{}); ok {
		r.Date = dateField(sched, "date")
		r.DepartureTime = stringField(sched, "departure_time")
	}
	if avail, ok := doc["availability"].(map[string]interface{}); ok {
		r.SeatCount = coerceInt(avail["seats_count"])
	}
	if pricing, ok := doc["pricing"].(map[string]interface{}); ok {
		r.Price = effectivePrice(pricing)
	}

	r.FlightNo = stringField(doc, "flight_no")
	if r.FlightNo == "" {
		r.FlightNo = stringField(doc, "_id")
	}
	if r.FlightNo == "" {
		r.FlightNo = syntheticFlightNo(r)
		r.syntheticKey = true
	}
	return r
}

// effectivePrice computes base_price less the applicable percentage discount.
func effectivePrice(pricing map[string]interface{}) *float64 {
	base := coerceFloat(pricing["base_price"])
	if base == nil {
		return nil
	}
	discount := coerceFloat(pricing["discount_percent"])
	if offer, ok := pricing["offer"].(map[string]interface{}); ok {
		if d := coerceFloat(offer["discount"]); d != nil {
			discount = d
		}
	}
	price := *base
	if discount != nil && *discount > 0 {
		price = price * (1 - *discount/100)
	}
	return &price
}

func syntheticFlightNo(r CanonicalRow) string {
	return fmt.Sprintf("%s_%s_%s_%s", r.Source, r.Origin, r.Destination, r.Date)
}

// departureField resolves the departure time from the field names the
// schemas variously use.
func departureField(row map[string]interface{}) string {
	for _, k := range []string{"departure_time", "dep_time", "time"} {
		if s := stringField(row, k); s != "" {
			return s
		}
	}
	return ""
}

// stringField fetches a key as a trimmed string, tolerating []byte and
// numeric driver types.
func stringField(m map[string]interface{}, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []byte:
		return strings.TrimSpace(string(t))
	case fmt.Stringer:
		return strings.TrimSpace(t.String())
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

// dateField fetches a key as an ISO date string, formatting driver time
// values and truncating timestamp strings.
func dateField(m map[string]interface{}, key string) string {
	switch t := m[key].(type) {
	case time.Time:
		return t.Format("2006-01-02")
	case nil:
		return ""
	}
	s := stringField(m, key)
	if len(s) > 10 && (s[10] == 'T' || s[10] == ' ') {
		return s[:10]
	}
	return s
}

// coerceFloat converts the numeric shapes drivers and JSON hand back,
// including strings with thousands separators. Unparseable values become nil.
func coerceFloat(v interface{}) *float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case []byte:
		return parseFloatString(string(t))
	case string:
		return parseFloatString(t)
	default:
		return nil
	}
	return &f
}

func parseFloatString(s string) *float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// coerceInt converts driver and JSON integer shapes. Fractional floats are
// truncated toward zero.
func coerceInt(v interface{}) *int {
	var n int
	switch t := v.(type) {
	case int:
		n = t
	case int32:
		n = int(t)
	case int64:
		n = int(t)
	case float64:
		n = int(t)
	case []byte:
		return parseIntString(string(t))
	case string:
		return parseIntString(t)
	default:
		return nil
	}
	return &n
}

func parseIntString(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		if f := parseFloatString(s); f != nil {
			n = int(*f)
			return &n
		}
		return nil
	}
	return &n
}
