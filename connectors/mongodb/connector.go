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

// Package mongodb provides the connector for the semi-structured airline
// source (airindia_flights collection). Connection follows a two-tier TLS
// policy: a verified-certificate connect is attempted first, and an insecure
// retry happens only when the allow_invalid_certs option is set.
package mongodb

import (
	"context"
	"crypto/tls"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"aerofusion/platform/connectors/base"
)

const (
	// DefaultTimeout is the default operation timeout
	DefaultTimeout = 15 * time.Second
	// DefaultConnectTimeout is the default connection timeout
	DefaultConnectTimeout = 15 * time.Second
	// DefaultResultCap bounds how many documents one query may return
	DefaultResultCap = 100
)

// MongoDBConnector implements the source Connector interface for MongoDB
type MongoDBConnector struct {
	config     *base.ConnectorConfig
	client     *mongo.Client
	database   *mongo.Database
	logger     *log.Logger
	dbName     string
	collection string
	insecure   bool // true when the insecure retry was taken
}

// NewMongoDBConnector creates a new MongoDB connector instance
func NewMongoDBConnector() *MongoDBConnector {
	return &MongoDBConnector{
		logger: log.New(os.Stdout, "[SRC_MONGODB] ", log.LstdFlags),
	}
}

// Connect establishes a connection to MongoDB. A verified-certificate
// connection is tried first; if that fails and allow_invalid_certs is set in
// the options, one insecure retry is made. Without the opt-in the first
// failure is final.
func (c *MongoDBConnector) Connect(ctx context.Context, config *base.ConnectorConfig) error {
	c.config = config

	if config.ConnectionURL == "" {
		return base.NewConnectorError(config.Name, "Connect", "connection URL is required", nil)
	}

	dbName, ok := config.Options["database"].(string)
	if !ok || dbName == "" {
		return base.NewConnectorError(config.Name, "Connect", "database name is required", nil)
	}

	connectTimeout := DefaultConnectTimeout
	if val, ok := config.Options["connect_timeout"].(string); ok {
		if duration, err := time.ParseDuration(val); err == nil {
			connectTimeout = duration
		}
	}

	client, err := c.tryConnect(ctx, config.ConnectionURL, connectTimeout, false)
	if err != nil {
		allowInvalid, _ := config.Options["allow_invalid_certs"].(bool)
		if !allowInvalid {
			return base.NewConnectorError(config.Name, "Connect", "secure connection failed", err)
		}

		c.logger.Printf("Secure connection failed (%v); retrying with certificate verification disabled", err)
		client, err = c.tryConnect(ctx, config.ConnectionURL, connectTimeout, true)
		if err != nil {
			return base.NewConnectorError(config.Name, "Connect", "insecure retry failed", err)
		}
		c.insecure = true
		c.logger.Printf("Connected with certificate verification DISABLED: %s", config.Name)
	}

	c.client = client
	c.dbName = dbName
	c.database = client.Database(dbName)

	if collection, ok := config.Options["collection"].(string); ok {
		c.collection = collection
	}

	c.logger.Printf("Connected to MongoDB: %s (database=%s)", config.Name, c.dbName)
	return nil
}

// tryConnect dials and pings once with the given TLS posture
func (c *MongoDBConnector) tryConnect(ctx context.Context, uri string, connectTimeout time.Duration, insecure bool) (*mongo.Client, error) {
	clientOpts := options.Client().ApplyURI(uri)
	clientOpts.SetConnectTimeout(connectTimeout)
	clientOpts.SetServerSelectionTimeout(connectTimeout)
	clientOpts.SetRetryReads(true)
	clientOpts.SetAppName("AeroFusion-Federator")

	if insecure {
		clientOpts.SetTLSConfig(&tls.Config{InsecureSkipVerify: true})
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOpts)
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, connectTimeout)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return client, nil
}

// Disconnect closes the MongoDB client connection
func (c *MongoDBConnector) Disconnect(ctx context.Context) error {
	if c.client == nil {
		return nil
	}

	disconnectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := c.client.Disconnect(disconnectCtx); err != nil {
		return base.NewConnectorError(c.Name(), "Disconnect", "failed to disconnect", err)
	}

	c.logger.Printf("Disconnected from MongoDB: %s", c.Name())
	return nil
}

// HealthCheck verifies the MongoDB connection is healthy
func (c *MongoDBConnector) HealthCheck(ctx context.Context) (*base.HealthStatus, error) {
	if c.client == nil {
		return &base.HealthStatus{
			Healthy:   false,
			Error:     "client not connected",
			Timestamp: time.Now(),
		}, nil
	}

	start := time.Now()
	err := c.client.Ping(ctx, readpref.Primary())
	latency := time.Since(start)

	if err != nil {
		return &base.HealthStatus{
			Healthy:   false,
			Latency:   latency,
			Timestamp: time.Now(),
			Error:     err.Error(),
		}, nil
	}

	details := map[string]string{
		"database": c.dbName,
	}
	if c.insecure {
		details["tls"] = "certificate verification disabled"
	}

	return &base.HealthStatus{
		Healthy:   true,
		Latency:   latency,
		Details:   details,
		Timestamp: time.Now(),
	}, nil
}

// Query runs a find against the configured collection using query.Filter.
// The result set is always capped (DefaultResultCap when no limit is given).
func (c *MongoDBConnector) Query(ctx context.Context, query *base.Query) (*base.QueryResult, error) {
	if c.client == nil {
		return nil, base.NewConnectorError(c.Name(), "Query", "client not connected", nil)
	}
	if c.collection == "" {
		return nil, base.NewConnectorError(c.Name(), "Query", "collection not configured", nil)
	}

	timeout := query.Timeout
	if timeout == 0 && c.config != nil {
		timeout = c.config.Timeout
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	queryCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	filter := bson.M{}
	for k, v := range query.Filter {
		filter[k] = c.toBSONValue(v)
	}

	limit := query.Limit
	if limit <= 0 {
		limit = DefaultResultCap
	}

	opts := options.Find().SetLimit(int64(limit))

	collection := c.database.Collection(c.collection)

	start := time.Now()
	cursor, err := collection.Find(queryCtx, filter, opts)
	if err != nil {
		return nil, base.NewConnectorError(c.Name(), "Query", "find failed", err)
	}
	defer func() { _ = cursor.Close(queryCtx) }()

	results, err := c.decodeCursor(queryCtx, cursor)
	if err != nil {
		return nil, base.NewConnectorError(c.Name(), "Query", "cursor decode failed", err)
	}

	duration := time.Since(start)

	c.logger.Printf("Query executed (%s): %d documents in %v", c.collection, len(results), duration)

	return &base.QueryResult{
		Rows:      results,
		RowCount:  len(results),
		Duration:  duration,
		Connector: c.Name(),
	}, nil
}

// Name returns the connector name
func (c *MongoDBConnector) Name() string {
	if c.config == nil {
		return "mongodb"
	}
	return c.config.Name
}

// Type returns the connector type
func (c *MongoDBConnector) Type() string {
	return "mongodb"
}

// toBSONValue converts filter values to BSON-compatible types. Nested maps
// carry comparison operators ($lt, $gt) straight through.
func (c *MongoDBConnector) toBSONValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		result := bson.M{}
		for k, inner := range val {
			result[k] = c.toBSONValue(inner)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(val))
		for i, inner := range val {
			result[i] = c.toBSONValue(inner)
		}
		return result
	default:
		return val
	}
}

// decodeCursor decodes all documents from a cursor into plain maps
func (c *MongoDBConnector) decodeCursor(ctx context.Context, cursor *mongo.Cursor) ([]map[string]interface{}, error) {
	results := make([]map[string]interface{}, 0)

	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		results = append(results, c.bsonToMap(doc))
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// bsonToMap converts a BSON document to a Go map with proper type handling
func (c *MongoDBConnector) bsonToMap(doc bson.M) map[string]interface{} {
	result := make(map[string]interface{})
	for k, v := range doc {
		result[k] = c.convertFromBSON(v)
	}
	return result
}

// convertFromBSON converts BSON types to JSON-serializable Go types
func (c *MongoDBConnector) convertFromBSON(v interface{}) interface{} {
	switch val := v.(type) {
	case primitive.ObjectID:
		return val.Hex()
	case primitive.DateTime:
		return val.Time()
	case primitive.Decimal128:
		return val.String()
	case bson.M:
		return c.bsonToMap(val)
	case bson.A:
		result := make([]interface{}, len(val))
		for i, item := range val {
			result[i] = c.convertFromBSON(item)
		}
		return result
	case primitive.D:
		result := make(map[string]interface{})
		for _, elem := range val {
			result[elem.Key] = c.convertFromBSON(elem.Value)
		}
		return result
	default:
		return val
	}
}
