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

package base

import (
	"context"
	"time"
)

// Connector is the read-side interface every flight source implements.
// The federation pipeline only reads; seeding and ETL are external.
type Connector interface {
	// Lifecycle Management
	Connect(ctx context.Context, config *ConnectorConfig) error
	Disconnect(ctx context.Context) error
	HealthCheck(ctx context.Context) (*HealthStatus, error)

	// Data Operations
	Query(ctx context.Context, query *Query) (*QueryResult, error)

	// Metadata
	Name() string // Unique connector instance name
	Type() string // Connector type (postgres, mysql, mongodb)
}

// ConnectorConfig holds the configuration for a connector instance
type ConnectorConfig struct {
	Name          string                 `json:"name"`           // Unique name for this connector
	Type          string                 `json:"type"`           // Type: postgres, mysql, mongodb
	ConnectionURL string                 `json:"connection_url"` // Connection string (DSN)
	Options       map[string]interface{} `json:"options"`        // Connector-specific options
	Timeout       time.Duration          `json:"timeout"`        // Operation timeout (default: 15s)
}

// Query represents one read against a source. Relational sources use
// Statement plus the ordered Args slice; the document source uses Filter.
type Query struct {
	Statement string                 `json:"statement,omitempty"` // SQL template with placeholders
	Args      []interface{}          `json:"args,omitempty"`      // Positional parameters, in order
	Filter    map[string]interface{} `json:"filter,omitempty"`    // Document filter (field path -> constraint)
	Timeout   time.Duration          `json:"timeout,omitempty"`   // Override default timeout
	Limit     int                    `json:"limit,omitempty"`     // Result cap (optional)
}

// QueryResult contains the results of a Query operation
type QueryResult struct {
	Rows      []map[string]interface{} `json:"rows"`      // Result rows (field-name -> value maps)
	RowCount  int                      `json:"row_count"` // Number of rows returned
	Duration  time.Duration            `json:"duration"`  // Query execution time
	Connector string                   `json:"connector"` // Connector name that executed the query
}

// HealthStatus represents the health of a connector
type HealthStatus struct {
	Healthy   bool              `json:"healthy"`
	Latency   time.Duration     `json:"latency"`
	Details   map[string]string `json:"details,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Error     string            `json:"error,omitempty"`
}

// ConnectorError represents errors specific to connector operations
type ConnectorError struct {
	ConnectorName string
	Operation     string
	Message       string
	Cause         error
}

func (e *ConnectorError) Error() string {
	if e.Cause != nil {
		return e.ConnectorName + "." + e.Operation + ": " + e.Message + " (cause: " + e.Cause.Error() + ")"
	}
	return e.ConnectorName + "." + e.Operation + ": " + e.Message
}

func (e *ConnectorError) Unwrap() error {
	return e.Cause
}

// NewConnectorError creates a new ConnectorError
func NewConnectorError(connectorName, operation, message string, cause error) *ConnectorError {
	return &ConnectorError{
		ConnectorName: connectorName,
		Operation:     operation,
		Message:       message,
		Cause:         cause,
	}
}
