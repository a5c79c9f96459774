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

	"aerofusion/platform/config"
	"aerofusion/platform/connectors/base"
	"aerofusion/platform/connectors/mongodb"
	"aerofusion/platform/connectors/mysql"
	"aerofusion/platform/connectors/postgres"
	"aerofusion/platform/llm"
	"aerofusion/platform/llm/groq"
	"aerofusion/platform/shared/logger"
)

// Bootstrap wires a Federator from configuration: it connects whichever
// sources have a URL, builds the model provider when one is enabled, and
// returns a cleanup func that disconnects everything. A source that fails to
// connect is reported once and skipped; the pipeline then runs without it.
func Bootstrap(ctx context.Context, cfg *config.Config) (*Federator, func(), error) {
	log := logger.New("federator")

	var sources Sources
	var connected []base.Connector

	if cfg.DWH.URL != "" {
		conn := postgres.NewPostgresConnector()
		err := conn.Connect(ctx, &base.ConnectorConfig{
			Name:          "dwh",
			Type:          "postgres",
			ConnectionURL: cfg.DWH.URL,
			Timeout:       cfg.SourceTimeout(),
			Options:       storeOptions(cfg.DWH),
		})
		if err != nil {
			log.Warn("", "warehouse source unavailable, continuing without it", map[string]interface{}{"error": err.Error()})
		} else {
			sources.DWH = conn
			connected = append(connected, conn)
		}
	}

	if cfg.Indigo.URL != "" {
		conn := mysql.NewMySQLConnector()
		err := conn.Connect(ctx, &base.ConnectorConfig{
			Name:          "indigo",
			Type:          "mysql",
			ConnectionURL: cfg.Indigo.URL,
			Timeout:       cfg.SourceTimeout(),
			Options:       storeOptions(cfg.Indigo),
		})
		if err != nil {
			log.Warn("", "airline feed unavailable, continuing without it", map[string]interface{}{"error": err.Error()})
		} else {
			sources.Indigo = conn
			connected = append(connected, conn)
		}
	}

	if cfg.AirIndia.URI != "" {
		conn := mongodb.NewMongoDBConnector()
		err := conn.Connect(ctx, &base.ConnectorConfig{
			Name:          "airindia",
			Type:          "mongodb",
			ConnectionURL: cfg.AirIndia.URI,
			Timeout:       cfg.SourceTimeout(),
			Options: map[string]interface{}{
				"database":            cfg.AirIndia.Database,
				"collection":          cfg.AirIndia.Collection,
				"allow_invalid_certs": cfg.AirIndia.AllowInvalidCerts,
			},
		})
		if err != nil {
			log.Warn("", "document source unavailable, continuing without it", map[string]interface{}{"error": err.Error()})
		} else {
			sources.AirIndia = conn
			connected = append(connected, conn)
		}
	}

	var provider llm.Provider
	if cfg.Model.Enabled {
		p, err := groq.NewProvider(groq.Config{
			APIKey:  cfg.Model.APIKey,
			BaseURL: cfg.Model.BaseURL,
			Model:   cfg.Model.Model,
			Timeout: cfg.ModelTimeout(),
		})
		if err != nil {
			log.Warn("", "model provider misconfigured, running deterministic-only", map[string]interface{}{"error": err.Error()})
		} else {
			provider = p
		}
	}

	federator := NewFederator(FederatorOptions{
		Sources:       sources,
		Extractor:     NewExtractor(provider, log),
		Cities:        NewCityNormalizer(cfg.Matching.FuzzyThreshold),
		Summarizer:    NewSummarizer(provider, log),
		Logger:        log,
		SourceTimeout: cfg.SourceTimeout(),
		ResultCap:     cfg.ResultCap,
	})

	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for _, conn := range connected {
			if err := conn.Disconnect(shutdownCtx); err != nil {
				log.Warn("", "disconnect failed", map[string]interface{}{
					"connector": conn.Name(),
					"error":     err.Error(),
				})
			}
		}
	}
	return federator, cleanup, nil
}

func storeOptions(s config.StoreConfig) map[string]interface{} {
	opts := map[string]interface{}{}
	if s.MaxOpenConns > 0 {
		opts["max_open_conns"] = s.MaxOpenConns
	}
	return opts
}
