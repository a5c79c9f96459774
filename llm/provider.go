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

package llm

import (
	"context"
)

// Provider is the interface for model collaborators.
// Implementations must be safe for concurrent use.
//
// The pipeline holds a Provider as an optional capability: a nil Provider
// means the model path is unconfigured and deterministic fallbacks apply.
// Branching is on presence, never on probing.
type Provider interface {
	// Name returns the unique identifier for this provider instance.
	Name() string

	// Type returns the provider type (e.g., "groq").
	Type() ProviderType

	// Complete generates a completion for the given request.
	// The context should be used for cancellation and timeout.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}
