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
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FederationResult is the complete, auditable record of one federated query:
// the generated per-source queries, the raw rows each source returned, the
// integrated list, and the summary with its provenance.
type FederationResult struct {
	ID     string `json:"id"`
	Query  string `json:"query"`
	Parsed Intent `json:"parsed"`

	DWHSQL      SQLSpec   `json:"dwh_sql"`
	IndigoSQL   SQLSpec   `json:"indigo_sql"`
	MongoFilter DocFilter `json:"mongo_filter"`

	DWHResults    []map[string]interface{} `json:"dwh_results"`
	IndigoResults []map[string]interface{} `json:"indigo_results"`
	MongoResults  []map[string]interface{} `json:"mongo_results"`

	// AvgPrices carries per-source aggregates for AVG intents; aggregate
	// rows never enter the integrated list.
	AvgPrices map[string]float64 `json:"avg_prices,omitempty"`

	IntegratedResults []CanonicalRow `json:"integrated_results"`

	RewrittenPrompt string                 `json:"rewritten_prompt"`
	LLMSummary      string                 `json:"llm_summary"`
	LLMParsed       map[string]interface{} `json:"llm_parsed,omitempty"`
	LLMRaw          map[string]interface{} `json:"llm_raw,omitempty"`
	SummarySource   SummarySource          `json:"summary_source"`

	GeneratedAt time.Time `json:"generated_at"`
}

// outputTimestamp formats t the way output filenames expect.
func outputTimestamp(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// WriteResult persists one result as pretty-printed JSON under dir, creating
// the directory if needed. It returns the path written.
func WriteResult(dir string, result *FederationResult) (string, error) {
	name := fmt.Sprintf("output_%s.json", outputTimestamp(result.GeneratedAt))
	return writeJSON(dir, name, result)
}

// WriteBatch persists a batch run as a single JSON array.
func WriteBatch(dir string, results []*FederationResult) (string, error) {
	ts := time.Now()
	if len(results) > 0 {
		ts = results[0].GeneratedAt
	}
	name := fmt.Sprintf("batch_output_%s.json", outputTimestamp(ts))
	return writeJSON(dir, name, results)
}

func writeJSON(dir, name string, v interface{}) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
