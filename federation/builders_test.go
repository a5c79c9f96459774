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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDWHQueryAllConstraints(t *testing.T) {
	intent := Intent{
		Kind:        IntentList,
		Origin:      sptr("Delhi"),
		Destination: sptr("Mumbai"),
		Date:        sptr("2026-08-31"),
		PriceLimit:  fptr(5000),
		SeatCount:   iptr(2),
	}
	spec := BuildDWHQuery(intent)

	assert.Contains(t, spec.SQL, "FROM flights_dwh WHERE 1=1")
	assert.Contains(t, spec.SQL, "origin = $1")
	assert.Contains(t, spec.SQL, "destination = $2")
	assert.Contains(t, spec.SQL, "flight_date = $3")
	assert.Contains(t, spec.SQL, "price < $4")
	assert.Contains(t, spec.SQL, "array_length(seats, 1) > $5")
	assert.Equal(t, []interface{}{"Delhi", "Mumbai", "2026-08-31", 5000.0, 2}, spec.Params)

	// Literals never leak into the statement.
	assert.NotContains(t, spec.SQL, "Delhi")
	assert.NotContains(t, spec.SQL, "5000")
}

func TestBuildDWHQueryNoOptionalPredicates(t *testing.T) {
	spec := BuildDWHQuery(Intent{Kind: IntentList})
	assert.NotContains(t, spec.SQL, "price <")
	assert.NotContains(t, spec.SQL, "origin =")
	assert.NotContains(t, spec.SQL, "ORDER BY")
	assert.Empty(t, spec.Params)
}

func TestBuildDWHQueryMin(t *testing.T) {
	spec := BuildDWHQuery(Intent{Kind: IntentMin, Origin: sptr("Delhi"), Destination: sptr("Bangalore")})
	assert.True(t, strings.HasSuffix(spec.SQL, "ORDER BY price ASC LIMIT 1"), spec.SQL)
	assert.Equal(t, []interface{}{"Delhi", "Bangalore"}, spec.Params)
}

func TestBuildDWHQueryAvg(t *testing.T) {
	spec := BuildDWHQuery(Intent{Kind: IntentAvg, Origin: sptr("Mumbai"), Destination: sptr("Pune")})
	assert.Equal(t, "SELECT AVG(price) AS avg_price FROM flights_dwh WHERE origin = $1 AND destination = $2", spec.SQL)
	assert.Equal(t, []interface{}{"Mumbai", "Pune"}, spec.Params)
}

func TestBuildDWHQueryAvgMissingCities(t *testing.T) {
	spec := BuildDWHQuery(Intent{Kind: IntentAvg})
	require.Len(t, spec.Params, 2)
	assert.Nil(t, spec.Params[0])
	assert.Nil(t, spec.Params[1])
}

func TestBuildIndigoQueryColumns(t *testing.T) {
	intent := Intent{
		Kind:        IntentList,
		Origin:      sptr("Delhi"),
		Destination: sptr("Mumbai"),
		Date:        sptr("2026-08-31"),
		PriceLimit:  fptr(5000),
		SeatCount:   iptr(2),
	}
	spec := BuildIndigoQuery(intent)

	assert.Contains(t, spec.SQL, "FROM indigo_src WHERE 1=1")
	assert.Contains(t, spec.SQL, "from_city AS origin")
	assert.Contains(t, spec.SQL, "journey_date AS date")
	assert.Contains(t, spec.SQL, "fare AS price")
	assert.Contains(t, spec.SQL, "NULL AS seat_count")
	assert.Contains(t, spec.SQL, "from_city = ?")
	assert.Contains(t, spec.SQL, "fare < ?")
	assert.Contains(t, spec.SQL, "seats > ?")
	assert.NotContains(t, spec.SQL, "$1")
	assert.Equal(t, []interface{}{"Delhi", "Mumbai", "2026-08-31", 5000.0, 2}, spec.Params)
}

func TestBuildIndigoQueryMin(t *testing.T) {
	spec := BuildIndigoQuery(Intent{Kind: IntentMin})
	assert.True(t, strings.HasSuffix(spec.SQL, "ORDER BY fare ASC LIMIT 1"), spec.SQL)
}

func TestBuildIndigoQueryAvg(t *testing.T) {
	spec := BuildIndigoQuery(Intent{Kind: IntentAvg, Origin: sptr("Delhi"), Destination: sptr("Chennai")})
	assert.Equal(t, "SELECT AVG(fare) AS avg_price FROM indigo_src WHERE from_city = ? AND to_city = ?", spec.SQL)
}

func TestBuildAirIndiaFilterFull(t *testing.T) {
	intent := Intent{
		Kind:        IntentList,
		Airline:     sptr("Air India"),
		Origin:      sptr("Delhi"),
		Destination: sptr("Mumbai"),
		Date:        sptr("2026-08-31"),
		PriceLimit:  fptr(5000),
		SeatCount:   iptr(2),
	}
	filter := BuildAirIndiaFilter(intent)

	assert.Equal(t, "Delhi", filter["route.origin"])
	assert.Equal(t, "Mumbai", filter["route.destination"])
	assert.Equal(t, "2026-08-31", filter["schedule.date"])
	assert.Equal(t, "Air India", filter["airline_name"])
	assert.Equal(t, map[string]interface{}{"$lt": 5000.0}, filter["pricing.base_price"])
	assert.Equal(t, map[string]interface{}{"$gt": 2}, filter["availability.seats_count"])
}

func TestBuildAirIndiaFilterEmpty(t *testing.T) {
	filter := BuildAirIndiaFilter(Intent{Kind: IntentList})
	assert.Empty(t, filter)
}
