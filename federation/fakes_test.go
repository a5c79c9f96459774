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
	"context"
	"time"

	"aerofusion/platform/connectors/base"
	"aerofusion/platform/llm"
)

// fakeProvider returns canned completions for extractor and summarizer tests.
type fakeProvider struct {
	content string
	err     error
	calls   int
}

func (f *fakeProvider) Name() string           { return "fake" }
func (f *fakeProvider) Type() llm.ProviderType { return llm.ProviderTypeCustom }

func (f *fakeProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{
		Content: f.content,
		Model:   "fake-model",
		Raw:     map[string]interface{}{"content": f.content},
	}, nil
}

// fakeConnector serves canned rows, or fails every query when err is set.
type fakeConnector struct {
	name string
	rows []map[string]interface{}
	err  error

	lastQuery *base.Query
}

func (f *fakeConnector) Connect(ctx context.Context, config *base.ConnectorConfig) error { return nil }
func (f *fakeConnector) Disconnect(ctx context.Context) error                            { return nil }
func (f *fakeConnector) Name() string                                                    { return f.name }
func (f *fakeConnector) Type() string                                                    { return "fake" }

func (f *fakeConnector) HealthCheck(ctx context.Context) (*base.HealthStatus, error) {
	return &base.HealthStatus{Healthy: f.err == nil, Timestamp: time.Now()}, nil
}

func (f *fakeConnector) Query(ctx context.Context, query *base.Query) (*base.QueryResult, error) {
	f.lastQuery = query
	if f.err != nil {
		return nil, f.err
	}
	return &base.QueryResult{
		Rows:      f.rows,
		RowCount:  len(f.rows),
		Connector: f.name,
	}, nil
}

func fptr(f float64) *float64 { return &f }
func iptr(n int) *int         { return &n }
func sptr(s string) *string   { return &s }
