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
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSONObject reports that no {...} span could be located in model output.
var ErrNoJSONObject = errors.New("no JSON object found in text")

// StripCodeFences removes a markdown code fence wrapping, including an
// optional language tag on the opening fence. Text without fences is returned
// trimmed but otherwise untouched.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		// Drop the language tag line ("json", "JSON", ...).
		first := strings.TrimSpace(s[:idx])
		if first == "" || isFenceTag(first) {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func isFenceTag(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return len(s) <= 16
}

// ExtractJSONObject locates the outermost {...} span in free-form text and
// unmarshals it. Models routinely wrap JSON in commentary or fences; this
// tolerates both. Truncated or malformed spans return an error rather than a
// partial map.
func ExtractJSONObject(text string) (map[string]interface{}, error) {
	text = StripCodeFences(text)
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return nil, ErrNoJSONObject
	}
	span := text[start : end+1]
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(span), &out); err != nil {
		return nil, err
	}
	return out, nil
}
