// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package retry

import "context"

// WithFallback retries an operation under the given policy and, when every
// attempt fails, substitutes the fallback value instead of surfacing the
// error. The returned error is non-nil only when the context is done, so
// callers processing batches can distinguish cancellation from degradation.
func WithFallback[T any](ctx context.Context, policy Policy, operation func() (T, error), fallback func(error) T) (T, error) {
	var result T
	err := WithBackoff(ctx, policy, func() error {
		var opErr error
		result, opErr = operation()
		return opErr
	})
	if err == nil {
		return result, nil
	}
	if ctx.Err() != nil {
		var zero T
		return zero, ctx.Err()
	}
	return fallback(err), nil
}
