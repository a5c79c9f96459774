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

// airlineAliases maps lowercase spoken forms to canonical carrier names.
var airlineAliases = map[string]string{
	"air india":   "Air India",
	"airindia":    "Air India",
	"ai":          "Air India",
	"indigo":      "IndiGo",
	"indi go":     "IndiGo",
	"6e":          "IndiGo",
	"spicejet":    "SpiceJet",
	"spice jet":   "SpiceJet",
	"sg":          "SpiceJet",
	"vistara":     "Vistara",
	"uk":          "Vistara",
	"jet airways": "Jet Airways",
	"jet":         "Jet Airways",
	"gofirst":     "GoFirst",
	"go first":    "GoFirst",
	"airasia":     "AirAsia",
	"air asia":    "AirAsia",
}

// NormalizeAirline maps an airline mention to its canonical name. Unknown
// carriers are passed through title-cased so the post-filter can still match
// on substrings.
func NormalizeAirline(name *string) *string {
	if name == nil {
		return nil
	}
	key := strings.ToLower(strings.TrimSpace(*name))
	if key == "" {
		return nil
	}
	if canonical, ok := airlineAliases[key]; ok {
		return &canonical
	}
	t := titleCase(key)
	return &t
}

// titleCase upper-cases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
