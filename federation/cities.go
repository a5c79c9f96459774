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

	"github.com/agnivade/levenshtein"
)

// DefaultFuzzyThreshold is the minimum similarity score (0-100) for a fuzzy
// city match to be accepted.
const DefaultFuzzyThreshold = 70

// canonicalCities is the closed set of cities the federated schemas use.
var canonicalCities = []string{
	"Delhi", "Chennai", "Mumbai", "Bangalore",
	"Kolkata", "Hyderabad", "Pune", "Ahmedabad",
}

// cityAliases catches frequent misspellings before the fuzzy pass runs.
var cityAliases = map[string]string{
	"delgi":     "Delhi",
	"delh":      "Delhi",
	"chenai":    "Chennai",
	"banglore":  "Bangalore",
	"bengaluru": "Bangalore",
}

// CityNormalizer resolves free-text city mentions onto the canonical city
// list: alias table first, then exact match, then an edit-distance similarity
// pass. Inputs that resolve to nothing are title-cased and passed through
// unchanged so downstream filters still see the user's term.
type CityNormalizer struct {
	threshold int
}

// NewCityNormalizer builds a normalizer with the given similarity threshold.
// Non-positive thresholds fall back to DefaultFuzzyThreshold.
func NewCityNormalizer(threshold int) *CityNormalizer {
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	return &CityNormalizer{threshold: threshold}
}

// Normalize maps a city mention to its canonical spelling. Nil and blank
// inputs return nil. Normalize is idempotent: canonical output feeds back to
// itself.
func (n *CityNormalizer) Normalize(city *string) *string {
	if city == nil {
		return nil
	}
	raw := strings.TrimSpace(*city)
	if raw == "" {
		return nil
	}
	lower := strings.ToLower(raw)

	if canonical, ok := cityAliases[lower]; ok {
		return &canonical
	}
	for _, c := range canonicalCities {
		if strings.EqualFold(c, raw) {
			canonical := c
			return &canonical
		}
	}

	if best, score := n.closest(lower); score >= n.threshold {
		if strings.EqualFold(best, "bengaluru") {
			best = "Bangalore"
		}
		return &best
	}

	t := titleCase(raw)
	return &t
}

// closest returns the canonical city with the highest similarity to the
// lowercase input, along with its 0-100 score.
func (n *CityNormalizer) closest(lower string) (string, int) {
	best, bestScore := "", -1
	for _, c := range canonicalCities {
		if s := similarity(lower, strings.ToLower(c)); s > bestScore {
			best, bestScore = c, s
		}
	}
	return best, bestScore
}

// similarity scores two strings on a 0-100 scale from their edit distance
// relative to the longer string.
func similarity(a, b string) int {
	if a == b {
		return 100
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	score := 100 - (100*dist)/longest
	if score < 0 {
		score = 0
	}
	return score
}
