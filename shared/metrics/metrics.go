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

// Package metrics exposes the Prometheus instrumentation for the federation
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QueriesTotal counts federated queries by final outcome ("ok",
	// "canceled").
	QueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aerofusion",
		Name:      "queries_total",
		Help:      "Federated queries processed, by outcome.",
	}, []string{"outcome"})

	// SourceFailures counts per-source execution failures that were
	// absorbed as empty result lists.
	SourceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aerofusion",
		Name:      "source_failures_total",
		Help:      "Source executions that failed and degraded to empty results.",
	}, []string{"source"})

	// QueryDuration observes end-to-end federated query latency.
	QueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "aerofusion",
		Name:      "query_duration_seconds",
		Help:      "End-to-end federated query duration.",
		Buckets:   prometheus.DefBuckets,
	})

	// SourceDuration observes per-source execution latency.
	SourceDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "aerofusion",
		Name:      "source_duration_seconds",
		Help:      "Per-source query execution duration.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})

	// SummaryFallbacks counts summaries served by the deterministic
	// fallback instead of the model.
	SummaryFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "aerofusion",
		Name:      "summary_fallbacks_total",
		Help:      "Summaries produced by the deterministic fallback.",
	})
)
