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


package enrich

import "errors"

var (
	// ErrGeneratorRequired indicates the Enricher was constructed without a text generator.
	ErrGeneratorRequired = errors.New("text generator is required")

	// ErrUnknownTemplate indicates an unrecognized prompt template name.
	// This is a configuration error; at enrichment time unknown selectors
	// fall back to the default template instead.
	ErrUnknownTemplate = errors.New("unknown prompt template")
)
