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
	"sync"
	"time"

	"github.com/google/uuid"

	"aerofusion/platform/connectors/base"
	"aerofusion/platform/shared/logger"
	"aerofusion/platform/shared/metrics"
)

const (
	// DefaultSourceTimeout bounds each store execution.
	DefaultSourceTimeout = 15 * time.Second
	// DefaultResultCap bounds rows fetched per source.
	DefaultResultCap = 100
)

// Sources holds the connector for each federated store. A nil connector means
// that source is not configured and is skipped with an empty result list.
type Sources struct {
	DWH      base.Connector
	Indigo   base.Connector
	AirIndia base.Connector
}

// FederatorOptions configures a Federator. Zero values get defaults.
type FederatorOptions struct {
	Sources       Sources
	Extractor     *Extractor
	Cities        *CityNormalizer
	Summarizer    *Summarizer
	Logger        *logger.Logger
	SourceTimeout time.Duration
	ResultCap     int
}

// Federator runs the full pipeline for one query: extract, build, fan out,
// normalize, filter, merge, summarize. Source failures are absorbed; only
// context cancellation aborts a run.
type Federator struct {
	sources    Sources
	extractor  *Extractor
	cities     *CityNormalizer
	summarizer *Summarizer
	log        *logger.Logger
	timeout    time.Duration
	resultCap  int
}

// NewFederator builds a Federator from options.
func NewFederator(opts FederatorOptions) *Federator {
	f := &Federator{
		sources:    opts.Sources,
		extractor:  opts.Extractor,
		cities:     opts.Cities,
		summarizer: opts.Summarizer,
		log:        opts.Logger,
		timeout:    opts.SourceTimeout,
		resultCap:  opts.ResultCap,
	}
	if f.cities == nil {
		f.cities = NewCityNormalizer(0)
	}
	if f.log == nil {
		f.log = logger.New("federator")
	}
	if f.extractor == nil {
		f.extractor = NewExtractor(nil, f.log)
	}
	if f.summarizer == nil {
		f.summarizer = NewSummarizer(nil, f.log)
	}
	if f.timeout <= 0 {
		f.timeout = DefaultSourceTimeout
	}
	if f.resultCap <= 0 {
		f.resultCap = DefaultResultCap
	}
	return f
}

// Run executes one federated query end to end. The returned error is non-nil
// only when ctx was canceled before the pipeline finished; everything else
// degrades into the result itself.
func (f *Federator) Run(ctx context.Context, query string) (*FederationResult, error) {
	start := time.Now()
	queryID := uuid.New().String()

	intent := f.extractor.Extract(ctx, queryID, query)
	intent.Origin = f.cities.Normalize(intent.Origin)
	intent.Destination = f.cities.Normalize(intent.Destination)

	f.log.Info(queryID, "parsed query", map[string]interface{}{
		"intent":      string(intent.Kind),
		"origin":      deref(intent.Origin),
		"destination": deref(intent.Destination),
		"airline":     deref(intent.Airline),
	})

	dwhSpec := BuildDWHQuery(intent)
	indigoSpec := BuildIndigoQuery(intent)
	mongoFilter := BuildAirIndiaFilter(intent)

	tasks := []struct {
		name  string
		conn  base.Connector
		query base.Query
	}{
		{SourceDWH, f.sources.DWH, base.Query{Statement: dwhSpec.SQL, Args: dwhSpec.Params, Limit: f.resultCap, Timeout: f.timeout}},
		{SourceIndiGo, f.sources.Indigo, base.Query{Statement: indigoSpec.SQL, Args: indigoSpec.Params, Limit: f.resultCap, Timeout: f.timeout}},
		{SourceAirIndia, f.sources.AirIndia, base.Query{Filter: mongoFilter, Limit: f.resultCap, Timeout: f.timeout}},
	}

	raw := make([][]map[string]interface{}, len(tasks))
	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func(slot int, name string, conn base.Connector, q base.Query) {
			defer wg.Done()
			raw[slot] = f.executeSource(ctx, queryID, name, conn, q)
		}(i, task.name, task.conn, task.query)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		metrics.QueriesTotal.WithLabelValues("canceled").Inc()
		return nil, err
	}

	dwhRows := normalizeSQLRows(raw[0], SourceDWH)
	indigoRows := normalizeSQLRows(raw[1], SourceIndiGo)
	mongoRows := make([]CanonicalRow, 0, len(raw[2]))
	for _, doc := range raw[2] {
		mongoRows = append(mongoRows, NormalizeMongoDoc(doc))
	}

	dwhRows = FilterByAirline(dwhRows, intent.Airline)
	indigoRows = FilterByAirline(indigoRows, intent.Airline)
	mongoRows = FilterByAirline(mongoRows, intent.Airline)

	merged := Merge(dwhRows, indigoRows, mongoRows)

	summary, prompt := f.summarizer.Summarize(ctx, queryID, intent, merged)

	result := &FederationResult{
		ID:                queryID,
		Query:             query,
		Parsed:            intent,
		DWHSQL:            dwhSpec,
		IndigoSQL:         indigoSpec,
		MongoFilter:       mongoFilter,
		DWHResults:        raw[0],
		IndigoResults:     raw[1],
		MongoResults:      raw[2],
		IntegratedResults: merged,
		RewrittenPrompt:   prompt,
		LLMSummary:        summary.Text,
		LLMParsed:         summary.Parsed,
		LLMRaw:            summary.Raw,
		SummarySource:     summary.Source,
		GeneratedAt:       time.Now().UTC(),
	}
	if intent.Kind == IntentAvg {
		result.AvgPrices = collectAverages(raw[:2], []string{SourceDWH, SourceIndiGo})
	}

	metrics.QueriesTotal.WithLabelValues("ok").Inc()
	metrics.QueryDuration.Observe(time.Since(start).Seconds())
	f.log.Info(queryID, "query complete", map[string]interface{}{
		"rows":           len(merged),
		"summary_source": string(summary.Source),
		"duration_ms":    time.Since(start).Milliseconds(),
	})
	return result, nil
}

// executeSource runs one store query, absorbing failures into an empty list.
func (f *Federator) executeSource(ctx context.Context, queryID, name string, conn base.Connector, q base.Query) []map[string]interface{} {
	if conn == nil {
		f.log.Debug(queryID, "source not configured, skipping", map[string]interface{}{"source": name})
		return []map[string]interface{}{}
	}
	sctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	res, err := conn.Query(sctx, &q)
	metrics.SourceDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SourceFailures.WithLabelValues(name).Inc()
		f.log.Warn(queryID, "source query failed, continuing with empty results", map[string]interface{}{
			"source": name,
			"error":  err.Error(),
		})
		return []map[string]interface{}{}
	}
	if res.Rows == nil {
		return []map[string]interface{}{}
	}
	return res.Rows
}

// Health reports per-source connector health for the serving surface.
func (f *Federator) Health(ctx context.Context) map[string]*base.HealthStatus {
	out := make(map[string]*base.HealthStatus)
	for name, conn := range map[string]base.Connector{
		SourceDWH:      f.sources.DWH,
		SourceIndiGo:   f.sources.Indigo,
		SourceAirIndia: f.sources.AirIndia,
	} {
		if conn == nil {
			out[name] = &base.HealthStatus{Healthy: false, Error: "not configured", Timestamp: time.Now()}
			continue
		}
		status, err := conn.HealthCheck(ctx)
		if err != nil {
			status = &base.HealthStatus{Healthy: false, Error: err.Error(), Timestamp: time.Now()}
		}
		out[name] = status
	}
	return out
}

func normalizeSQLRows(rows []map[string]interface{}, source string) []CanonicalRow {
	out := make([]CanonicalRow, 0, len(rows))
	for _, row := range rows {
		if r, ok := NormalizeSQLRow(row, source); ok {
			out = append(out, r)
		}
	}
	return out
}

// collectAverages lifts avg_price aggregate rows into a per-source map.
func collectAverages(raw [][]map[string]interface{}, names []string) map[string]float64 {
	out := make(map[string]float64)
	for i, rows := range raw {
		for _, row := range rows {
			if v := coerceFloat(row["avg_price"]); v != nil {
				out[names[i]] = *v
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
