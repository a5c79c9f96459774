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

import "sort"

// Merge integrates per-source row lists into one deduplicated, ranked list.
//
// Sources are applied in priority order (warehouse, then the airline feed,
// then the document store). The first source to produce a key owns the row;
// lower-priority duplicates only back-fill fields the owner left null or
// empty, never overwrite. The result is sorted by price ascending with
// unpriced rows last; ties keep priority-insertion order, which makes the
// merge idempotent.
func Merge(dwh, indigo, airindia []CanonicalRow) []CanonicalRow {
	index := make(map[string]int)
	var merged []CanonicalRow

	for _, batch := range [][]CanonicalRow{dwh, indigo, airindia} {
		for _, row := range batch {
			key := row.MergeKey()
			if i, seen := index[key]; seen {
				fillMissing(&merged[i], row)
				continue
			}
			index[key] = len(merged)
			merged = append(merged, row)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		pi, pj := merged[i].Price, merged[j].Price
		switch {
		case pi == nil && pj == nil:
			return false
		case pi == nil:
			return false
		case pj == nil:
			return true
		default:
			return *pi < *pj
		}
	})
	return merged
}

// fillMissing copies fields from donor into dst only where dst has no value.
func fillMissing(dst *CanonicalRow, donor CanonicalRow) {
	if dst.Airline == "" {
		dst.Airline = donor.Airline
	}
	if dst.Origin == "" {
		dst.Origin = donor.Origin
	}
	if dst.Destination == "" {
		dst.Destination = donor.Destination
	}
	if dst.Date == "" {
		dst.Date = donor.Date
	}
	if dst.DepartureTime == "" {
		dst.DepartureTime = donor.DepartureTime
	}
	if dst.Price == nil {
		dst.Price = donor.Price
	}
	if dst.SeatCount == nil {
		dst.SeatCount = donor.SeatCount
	}
}
