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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSQLRow(t *testing.T) {
	row := map[string]interface{}{
		"flight_no":   "6E201",
		"airline":     "IndiGo",
		"origin":      "Delhi",
		"destination": "Mumbai",
		"date":        "2026-08-31",
		"price":       []byte("4,500.50"),
		"seat_count":  int64(12),
		"source":      "IndiGo",
	}
	r, ok := NormalizeSQLRow(row, SourceIndiGo)
	require.True(t, ok)
	assert.Equal(t, "6E201", r.FlightNo)
	assert.Equal(t, "2026-08-31", r.Date)
	require.NotNil(t, r.Price)
	assert.Equal(t, 4500.50, *r.Price)
	require.NotNil(t, r.SeatCount)
	assert.Equal(t, 12, *r.SeatCount)
	assert.Equal(t, SourceIndiGo, r.Source)
}

func TestNormalizeSQLRowDriverDate(t *testing.T) {
	row := map[string]interface{}{
		"flight_no": "DW1",
		"date":      time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		"price":     6200.0,
	}
	r, ok := NormalizeSQLRow(row, SourceDWH)
	require.True(t, ok)
	assert.Equal(t, "2026-08-31", r.Date)
	assert.Equal(t, SourceDWH, r.Source)
}

func TestNormalizeSQLRowTimestampString(t *testing.T) {
	row := map[string]interface{}{
		"flight_no": "DW2",
		"date":      "2026-08-31T00:00:00Z",
	}
	r, ok := NormalizeSQLRow(row, SourceDWH)
	require.True(t, ok)
	assert.Equal(t, "2026-08-31", r.Date)
}

func TestNormalizeSQLRowNullsStayNull(t *testing.T) {
	row := map[string]interface{}{
		"flight_no":  "6E300",
		"price":      nil,
		"seat_count": nil,
	}
	r, ok := NormalizeSQLRow(row, SourceIndiGo)
	require.True(t, ok)
	assert.Nil(t, r.Price)
	assert.Nil(t, r.SeatCount)
}

func TestNormalizeSQLRowAggregateSkipped(t *testing.T) {
	_, ok := NormalizeSQLRow(map[string]interface{}{"avg_price": 5123.4}, SourceDWH)
	assert.False(t, ok)
}

func TestNormalizeSQLRowSyntheticKey(t *testing.T) {
	row := map[string]interface{}{
		"origin":      "Delhi",
		"destination": "Mumbai",
		"date":        "2026-08-31",
	}
	r, ok := NormalizeSQLRow(row, SourceDWH)
	require.True(t, ok)
	assert.Equal(t, "DWH_Delhi_Mumbai_2026-08-31", r.FlightNo)
	// Synthetic identities merge on route and date, not the fabricated
	// flight number.
	assert.Equal(t, "Delhi-Mumbai-2026-08-31", r.MergeKey())
}

func TestNormalizeMongoDocOfferDiscount(t *testing.T) {
	doc := map[string]interface{}{
		"flight_no":    "AI450",
		"airline_name": "Air India",
		"route":        map[string]interface{}{"origin": "Delhi", "destination": "Mumbai"},
		"schedule":     map[string]interface{}{"date": "2026-08-31", "departure_time": "09:40"},
		"availability": map[string]interface{}{"seats_count": 30},
		"pricing": map[string]interface{}{
			"base_price":       10000.0,
			"discount_percent": 5.0,
			"offer":            map[string]interface{}{"discount": 20.0},
		},
	}
	r := NormalizeMongoDoc(doc)
	assert.Equal(t, "AI450", r.FlightNo)
	assert.Equal(t, SourceAirIndia, r.Source)
	assert.Equal(t, "09:40", r.DepartureTime)
	require.NotNil(t, r.Price)
	// Offer discount wins over the flat discount field.
	assert.Equal(t, 8000.0, *r.Price)
	require.NotNil(t, r.SeatCount)
	assert.Equal(t, 30, *r.SeatCount)
}

func TestNormalizeMongoDocFlatDiscount(t *testing.T) {
	doc := map[string]interface{}{
		"flight_no": "AI451",
		"pricing": map[string]interface{}{
			"base_price":       10000.0,
			"discount_percent": 10.0,
		},
	}
	r := NormalizeMongoDoc(doc)
	require.NotNil(t, r.Price)
	assert.Equal(t, 9000.0, *r.Price)
}

func TestNormalizeMongoDocNoDiscount(t *testing.T) {
	doc := map[string]interface{}{
		"flight_no": "AI452",
		"pricing":   map[string]interface{}{"base_price": 7500.0},
	}
	r := NormalizeMongoDoc(doc)
	require.NotNil(t, r.Price)
	assert.Equal(t, 7500.0, *r.Price)
}

func TestNormalizeMongoDocDefaults(t *testing.T) {
	doc := map[string]interface{}{"_id": "66f2ab01c4"}
	r := NormalizeMongoDoc(doc)
	assert.Equal(t, "Air India", r.Airline)
	assert.Equal(t, "66f2ab01c4", r.FlightNo)
	assert.Nil(t, r.Price)
	assert.Nil(t, r.SeatCount)
}

func TestCoerceFloat(t *testing.T) {
	cases := []struct {
		in   interface{}
		want float64
	}{
		{4500.5, 4500.5},
		{int64(4500), 4500},
		{int32(7), 7},
		{"1,234.5", 1234.5},
		{[]byte("99"), 99},
	}
	for _, tc := range cases {
		got := coerceFloat(tc.in)
		require.NotNil(t, got, tc.in)
		assert.Equal(t, tc.want, *got, tc.in)
	}
	assert.Nil(t, coerceFloat(nil))
	assert.Nil(t, coerceFloat("not a number"))
	assert.Nil(t, coerceFloat(""))
}

func TestCoerceInt(t *testing.T) {
	cases := []struct {
		in   interface{}
		want int
	}{
		{3, 3},
		{int64(12), 12},
		{12.0, 12},
		{"42", 42},
		{[]byte("8"), 8},
		{"7.9", 7},
	}
	for _, tc := range cases {
		got := coerceInt(tc.in)
		require.NotNil(t, got, tc.in)
		assert.Equal(t, tc.want, *got, tc.in)
	}
	assert.Nil(t, coerceInt(nil))
	assert.Nil(t, coerceInt("seats"))
}
