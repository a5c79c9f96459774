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

// Command federator runs federated flight queries from the command line.
//
// Single query:
//
//	federator "flights from Delhi to Mumbai tomorrow under 5000"
//
// Batch mode reads one query per line:
//
//	federator -batch queries.txt
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"aerofusion/platform/config"
	"aerofusion/platform/federation"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	batchPath := flag.String("batch", "", "file with one query per line")
	outputDir := flag.String("output", "", "output directory (overrides config)")
	flag.Parse()

	if err := run(*configPath, *batchPath, *outputDir, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(configPath, batchPath, outputDir string, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	federator, cleanup, err := federation.Bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if batchPath != "" {
		return runBatch(ctx, federator, cfg.OutputDir, batchPath)
	}

	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("no query given; pass a query or -batch <file>")
	}
	result, err := federator.Run(ctx, query)
	if err != nil {
		return err
	}
	path, err := federation.WriteResult(cfg.OutputDir, result)
	if err != nil {
		return err
	}
	fmt.Println(result.LLMSummary)
	fmt.Println("result written to", path)
	return nil
}

func runBatch(ctx context.Context, federator *federation.Federator, outputDir, batchPath string) error {
	f, err := os.Open(batchPath)
	if err != nil {
		return fmt.Errorf("opening batch file: %w", err)
	}
	defer f.Close()

	var results []*federation.FederationResult
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		query := strings.TrimSpace(scanner.Text())
		if query == "" || strings.HasPrefix(query, "#") {
			continue
		}
		result, err := federator.Run(ctx, query)
		if err != nil {
			return err
		}
		results = append(results, result)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading batch file: %w", err)
	}

	path, err := federation.WriteBatch(outputDir, results)
	if err != nil {
		return err
	}
	fmt.Printf("%d queries processed, results written to %s\n", len(results), path)
	return nil
}
