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

package logger

import (
	"bytes"
	"encoding/json"
	"log"
	"strings"
	"testing"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(orig)
	fn()
	return buf.String()
}

func parseEntry(t *testing.T, line string) LogEntry {
	t.Helper()
	start := strings.IndexByte(line, '{')
	if start < 0 {
		t.Fatalf("no JSON in log line: %q", line)
	}
	var entry LogEntry
	if err := json.Unmarshal([]byte(strings.TrimSpace(line[start:])), &entry); err != nil {
		t.Fatalf("log line was not JSON: %v", err)
	}
	return entry
}

func TestLogEntryShape(t *testing.T) {
	l := New("federator")
	out := captureOutput(t, func() {
		l.Info("query-123", "parsed query", map[string]interface{}{"intent": "MIN"})
	})

	entry := parseEntry(t, out)
	if entry.Level != INFO {
		t.Errorf("unexpected level %s", entry.Level)
	}
	if entry.Component != "federator" {
		t.Errorf("unexpected component %s", entry.Component)
	}
	if entry.QueryID != "query-123" {
		t.Errorf("unexpected query id %s", entry.QueryID)
	}
	if entry.Fields["intent"] != "MIN" {
		t.Errorf("unexpected fields %v", entry.Fields)
	}
}

func TestErrorWithErr(t *testing.T) {
	l := New("test")
	out := captureOutput(t, func() {
		l.ErrorWithErr("q1", "source failed", errTest{}, nil)
	})

	entry := parseEntry(t, out)
	if entry.Level != ERROR {
		t.Errorf("unexpected level %s", entry.Level)
	}
	if entry.Fields["error"] != "boom" {
		t.Errorf("expected error field, got %v", entry.Fields)
	}
}

type errTest struct{}

func (errTest) Error() string { return "boom" }
