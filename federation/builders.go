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

// SQLSpec is a parameterized statement for one relational source. Params is
// ordered to match the statement's placeholders; user terms never appear in
// the SQL text itself.
type SQLSpec struct {
	SQL    string        `json:"sql"`
	Params []interface{} `json:"params"`
}

// DocFilter is the filter document sent to the document store.
type DocFilter map[string]interface{}

// BuildDWHQuery generates the warehouse query for an intent. The warehouse
// keeps seats as an array, so seat availability is its length. Airline is
// deliberately absent here: the canonical post-filter applies it uniformly
// after normalization.
func BuildDWHQuery(intent Intent) SQLSpec {
	if intent.Kind == IntentAvg {
		return SQLSpec{
			SQL:    "SELECT AVG(price) AS avg_price FROM flights_dwh WHERE origin = $1 AND destination = $2",
			Params: []interface{}{nilable(intent.Origin), nilable(intent.Destination)},
		}
	}

	var b strings.Builder
	b.WriteString("SELECT flight_no, airline, origin, destination, flight_date AS date, price, " +
		"array_length(seats, 1) AS seat_count, 'DWH' AS source FROM flights_dwh WHERE 1=1")
	var params []interface{}
	next := func() string { return fmt.Sprintf("$%d", len(params)) }

	if intent.Origin != nil {
		params = append(params, *intent.Origin)
		fmt.Fprintf(&b, " AND origin = %s", next())
	}
	if intent.Destination != nil {
		params = append(params, *intent.Destination)
		fmt.Fprintf(&b, " AND destination = %s", next())
	}
	if intent.Date != nil {
		params = append(params, *intent.Date)
		fmt.Fprintf(&b, " AND flight_date = %s", next())
	}
	if intent.PriceLimit != nil {
		params = append(params, *intent.PriceLimit)
		fmt.Fprintf(&b, " AND price < %s", next())
	}
	if intent.SeatCount != nil {
		params = append(params, *intent.SeatCount)
		fmt.Fprintf(&b, " AND array_length(seats, 1) > %s", next())
	}
	if intent.Kind == IntentMin {
		b.WriteString(" ORDER BY price ASC LIMIT 1")
	}
	return SQLSpec{SQL: b.String(), Params: params}
}

// BuildIndigoQuery generates the airline-feed query. The feed names its
// columns differently (from_city, to_city, journey_date, fare) and keeps
// seats as a plain count; the statement aliases everything back to canonical
// names so the normalizer sees one shape.
func BuildIndigoQuery(intent Intent) SQLSpec {
	if intent.Kind == IntentAvg {
		return SQLSpec{
			SQL:    "SELECT AVG(fare) AS avg_price FROM indigo_src WHERE from_city = ? AND to_city = ?",
			Params: []interface{}{nilable(intent.Origin), nilable(intent.Destination)},
		}
	}

	var b strings.Builder
	b.WriteString("SELECT flight_no, airline, from_city AS origin, to_city AS destination, " +
		"journey_date AS date, departure_time, fare AS price, NULL AS seat_count, " +
		"'IndiGo' AS source FROM indigo_src WHERE 1=1")
	var params []interface{}

	if intent.Origin != nil {
		params = append(params, *intent.Origin)
		b.WriteString(" AND from_city = ?")
	}
	if intent.Destination != nil {
		params = append(params, *intent.Destination)
		b.WriteString(" AND to_city = ?")
	}
	if intent.Date != nil {
		params = append(params, *intent.Date)
		b.WriteString(" AND journey_date = ?")
	}
	if intent.PriceLimit != nil {
		params = append(params, *intent.PriceLimit)
		b.WriteString(" AND fare < ?")
	}
	if intent.SeatCount != nil {
		params = append(params, *intent.SeatCount)
		b.WriteString(" AND seats > ?")
	}
	if intent.Kind == IntentMin {
		b.WriteString(" ORDER BY fare ASC LIMIT 1")
	}
	return SQLSpec{SQL: b.String(), Params: params}
}

// BuildAirIndiaFilter generates the document-store filter. Price and seat
// bounds use operator documents; absent intent fields contribute nothing, so
// an unconstrained intent yields an empty filter that matches everything.
func BuildAirIndiaFilter(intent Intent) DocFilter {
	filter := DocFilter{}
	if intent.Origin != nil {
		filter["route.origin"] = *intent.Origin
	}
	if intent.Destination != nil {
		filter["route.destination"] = *intent.Destination
	}
	if intent.Date != nil {
		filter["schedule.date"] = *intent.Date
	}
	if intent.PriceLimit != nil {
		filter["pricing.base_price"] = map[string]interface{}{"$lt": *intent.PriceLimit}
	}
	if intent.SeatCount != nil {
		filter["availability.seats_count"] = map[string]interface{}{"$gt": *intent.SeatCount}
	}
	if intent.Airline != nil {
		filter["airline_name"] = *intent.Airline
	}
	return filter
}

// nilable lifts an optional string into a driver-friendly value: nil for
// absent, the string otherwise.
func nilable(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
