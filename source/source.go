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


package source

import (
	"context"
	"fmt"
)

// Indexing status values written back to the document table.
const (
	StatusPending = "pending"
	StatusIndexed = "indexed"
	StatusError   = "error"
)

// Record is one document row. ID is the primary key rendered as a string,
// Fields holds every column keyed by lower-case column name.
type Record struct {
	ID     string
	Fields map[string]any
}

// Text returns the named field as a string. Byte slices are converted,
// missing and nil fields yield the empty string, anything else is
// formatted with the fmt defaults.
func (r Record) Text(field string) string {
	value, ok := r.Fields[field]
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Source is the relational origin documents are read from and whose
// per-document indexing status the pipeline reports back to.
//
// FetchMany applies equality filters and returns records ordered by id;
// a limit <= 0 means no limit. FetchByID returns ErrNotFound (wrapped)
// when the id does not exist.
type Source interface {
	FetchByID(ctx context.Context, id string) (*Record, error)
	FetchMany(ctx context.Context, limit int, filters map[string]any) ([]Record, error)
	UpdateStatus(ctx context.Context, id string, status string) error
	Count(ctx context.Context, filters map[string]any) (int, error)
	Close()
}
