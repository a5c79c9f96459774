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

import "strings"

// FilterByAirline keeps rows whose airline or source mentions the requested
// carrier, case-insensitively on substrings. The relational builders do not
// push the airline term down, so this is where it is enforced uniformly; it
// also guards against stores that ignored the term. A nil airline keeps
// everything.
func FilterByAirline(rows []CanonicalRow, airline *string) []CanonicalRow {
	if airline == nil {
		return rows
	}
	needle := strings.ToLower(strings.TrimSpace(*airline))
	if needle == "" {
		return rows
	}
	// Matching also tries the compact form so "Air India" finds the
	// "AirIndia" source tag.
	compact := strings.ReplaceAll(needle, " ", "")

	out := make([]CanonicalRow, 0, len(rows))
	for _, r := range rows {
		a := strings.ToLower(r.Airline)
		s := strings.ToLower(r.Source)
		if strings.Contains(a, needle) || strings.Contains(s, needle) ||
			strings.Contains(a, compact) || strings.Contains(s, compact) {
			out = append(out, r)
		}
	}
	return out
}
