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


package postgres

import "errors"

var (
	// ErrConnStringRequired indicates New was called without a connection string.
	ErrConnStringRequired = errors.New("connection string is required")

	// ErrTableRequired indicates an empty table name.
	ErrTableRequired = errors.New("table name is required")

	// ErrIDColumnRequired indicates an empty id column name.
	ErrIDColumnRequired = errors.New("id column name is required")
)
