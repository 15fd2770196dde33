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


package pinecone

import "errors"

var (
	// ErrHostRequired indicates New was called without an index host.
	ErrHostRequired = errors.New("index host is required")

	// ErrAPIKeyRequired indicates New was called without an API key.
	ErrAPIKeyRequired = errors.New("api key is required")

	// ErrRequestFailed indicates the index returned a non-2xx response.
	ErrRequestFailed = errors.New("pinecone request failed")
)
