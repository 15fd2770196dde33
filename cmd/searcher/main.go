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


package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/indexit"
	"github.com/poiesic/indexit/config"
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

func main() {
	ctx := context.Background()

	settings, err := config.Load("")
	if err != nil {
		panic(err)
	}

	sys, err := indexit.NewSystem(ctx, settings)
	if err != nil {
		panic(err)
	}
	defer sys.Close()

	query := "lighthouse"
	if len(os.Args) > 1 {
		query = strings.Join(os.Args[1:], " ")
	}

	matches, err := sys.Indexer().Search(ctx, query, 5, nil)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Found %d hits\n", len(matches))
	for i, hit := range matches {
		text, _ := hit.Metadata["text"].(string)
		fmt.Printf("%d: '%s' (%s)[%0.3f]\n", i, text, hit.ID, hit.Score)
	}
}
