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

// Package config loads federation configuration from a YAML file with
// environment overrides. Components never read the environment themselves;
// everything they need arrives through this package.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// StoreConfig configures one relational source.
type StoreConfig struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxOpenConns   int    `yaml:"max_open_conns"`
}

// MongoConfig configures the document source.
type MongoConfig struct {
	URI               string `yaml:"uri"`
	Database          string `yaml:"database"`
	Collection        string `yaml:"collection"`
	AllowInvalidCerts bool   `yaml:"allow_invalid_certs"`
	TimeoutSeconds    int    `yaml:"timeout_seconds"`
	ResultCap         int    `yaml:"result_cap"`
}

// ModelConfig configures the optional model collaborator.
type ModelConfig struct {
	Enabled        bool   `yaml:"enabled"`
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// MatchingConfig tunes the fuzzy city matcher.
type MatchingConfig struct {
	FuzzyThreshold int `yaml:"fuzzy_threshold"`
}

// HTTPConfig configures the serving surface.
type HTTPConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Config is the root federation configuration.
type Config struct {
	DWH      StoreConfig    `yaml:"dwh"`
	Indigo   StoreConfig    `yaml:"indigo"`
	AirIndia MongoConfig    `yaml:"airindia"`
	Model    ModelConfig    `yaml:"model"`
	Matching MatchingConfig `yaml:"matching"`
	HTTP     HTTPConfig     `yaml:"http"`

	OutputDir      string `yaml:"output_dir"`
	ResultCap      int    `yaml:"result_cap"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Load reads the YAML file at path (skipped when path is empty), applies
// environment overrides, then defaults. A missing file with overrides set is
// a valid configuration; sources left without a URL are skipped at wiring
// time rather than failing the load.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setStr(&c.DWH.URL, "DWH_PG_URL")
	setStr(&c.Indigo.URL, "INDIGO_MYSQL_URL")
	setStr(&c.AirIndia.URI, "MONGO_URI")
	setStr(&c.AirIndia.Database, "MONGO_DATABASE")
	setStr(&c.AirIndia.Collection, "MONGO_COLLECTION")
	setBool(&c.AirIndia.AllowInvalidCerts, "MONGO_ALLOW_INVALID_CERTS")
	setStr(&c.Model.APIKey, "GROQ_API_KEY")
	setStr(&c.Model.BaseURL, "GROQ_BASE_URL")
	setStr(&c.Model.Model, "GROQ_MODEL")
	setBool(&c.Model.Enabled, "USE_LLM")
	setInt(&c.Matching.FuzzyThreshold, "FUZZY_MATCH_THRESHOLD")
	setStr(&c.OutputDir, "OUTPUT_DIR")
	setInt(&c.HTTP.Port, "HTTP_PORT")
}

func (c *Config) applyDefaults() {
	if c.AirIndia.Database == "" {
		c.AirIndia.Database = "aerofusion"
	}
	if c.AirIndia.Collection == "" {
		c.AirIndia.Collection = "airindia_flights"
	}
	if c.Matching.FuzzyThreshold == 0 {
		c.Matching.FuzzyThreshold = 70
	}
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
	if c.ResultCap == 0 {
		c.ResultCap = 100
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 15
	}
	if c.Model.TimeoutSeconds == 0 {
		c.Model.TimeoutSeconds = 30
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if len(c.HTTP.AllowedOrigins) == 0 {
		c.HTTP.AllowedOrigins = []string{"*"}
	}
	// Model mode needs a key; without one the pipeline stays deterministic.
	if c.Model.APIKey == "" {
		c.Model.Enabled = false
	}
}

// SourceTimeout returns the per-source execution timeout.
func (c *Config) SourceTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ModelTimeout returns the model call timeout.
func (c *Config) ModelTimeout() time.Duration {
	return time.Duration(c.Model.TimeoutSeconds) * time.Second
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
