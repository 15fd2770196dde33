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
	"io"
	"log"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/poiesic/indexit"
	"github.com/poiesic/indexit/config"
	"github.com/poiesic/indexit/indexer"
	"github.com/urfave/cli/v2"
)

const settingsKey = "settings"

func main() {
	app := &cli.App{
		Name:  "indexit",
		Usage: "Chunk, enrich, embed and index documents for semantic retrieval",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Also write logs to this file",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Load environment variables from this file",
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "Vector store backend (pinecone, pgvector, badger)",
			},
			&cli.StringFlag{
				Name:  "provider",
				Usage: "Text generation provider for enrichment (openai, anthropic)",
			},
		},
		Before: setupApp,
		Commands: []*cli.Command{
			{
				Name:   "index",
				Usage:  "Index one or more documents by id",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "doc-id",
						Aliases:  []string{"d"},
						Usage:    "Document id to index (repeatable)",
						Required: true,
					},
				},
			},
			{
				Name:   "index-all",
				Usage:  "Index every document in the source table",
				Action: indexAllCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Index at most N documents (0 means all)",
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "Only index documents with this status (for example pending)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of documents to index concurrently",
					},
					&cli.BoolFlag{
						Name:  "no-context",
						Usage: "Skip LLM context enrichment and embed raw chunk text",
					},
					&cli.BoolFlag{
						Name:  "no-progress",
						Usage: "Suppress the progress line",
					},
				},
			},
			{
				Name:   "search",
				Usage:  "Search indexed documents",
				Action: searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Query text",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of results to return",
						Value: 10,
					},
					&cli.StringFlag{
						Name:  "doc-id",
						Usage: "Restrict results to one document",
					},
				},
			},
			{
				Name:   "delete",
				Usage:  "Delete a document's vectors, or the whole namespace",
				Action: deleteCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "doc-id",
						Aliases: []string{"d"},
						Usage:   "Document id to delete",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Delete every vector in the namespace",
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Show vector store statistics",
				Action: statsCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// setupApp loads settings, lets global flags override them, and installs
// the default logger before any command runs.
func setupApp(c *cli.Context) error {
	settings, err := config.Load(c.String("env-file"))
	if err != nil {
		return err
	}

	if c.IsSet("log-level") {
		settings.Log.Level = strings.ToLower(c.String("log-level"))
	}
	if c.IsSet("log-file") {
		settings.Log.File = c.String("log-file")
	}
	if c.IsSet("store") {
		settings.Store.Backend = c.String("store")
	}
	if c.IsSet("provider") {
		settings.Enrich.Provider = c.String("provider")
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	if err := setupLogger(settings.Log); err != nil {
		return err
	}

	c.App.Metadata[settingsKey] = settings
	return nil
}

func appSettings(c *cli.Context) *config.Settings {
	return c.App.Metadata[settingsKey].(*config.Settings)
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()

	ids := c.StringSlice("doc-id")
	sys, err := indexit.NewSystem(ctx, appSettings(c))
	if err != nil {
		return err
	}
	defer sys.Close()

	failed := 0
	for _, id := range ids {
		result, err := sys.Indexer().IndexDocument(ctx, id)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "failed %s: %v\n", id, err)
			continue
		}
		if result.Skipped {
			fmt.Fprintf(os.Stderr, "skipped %s: content unchanged\n", id)
			continue
		}
		fmt.Fprintf(os.Stderr, "indexed %s: %d chunks, %d vectors\n", id, result.Chunks, result.Vectors)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(ids))
	}
	return nil
}

func indexAllCommand(c *cli.Context) error {
	ctx := context.Background()

	settings := appSettings(c)
	if c.IsSet("workers") {
		settings.Indexer.Workers = c.Int("workers")
	}
	if c.Bool("no-context") {
		settings.Enrich.UseContext = false
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	sys, err := indexit.NewSystem(ctx, settings)
	if err != nil {
		return err
	}
	defer sys.Close()

	var filters map[string]any
	if status := c.String("status"); status != "" {
		filters = map[string]any{"status": status}
	}

	var tracker *indexer.ProgressTracker
	var progress func(done, total int)
	if !c.Bool("no-progress") {
		tracker = indexer.NewProgressTracker(os.Stderr, 0, 1)
		tracker.Start()
		progress = tracker.Callback()
	}

	stats, err := sys.Indexer().IndexAll(ctx, c.Int("limit"), filters, progress)
	if tracker != nil && err == nil {
		tracker.Finish()
	}
	if stats != nil {
		fmt.Fprintf(os.Stderr, "documents: %d total, %d indexed, %d failed, %d skipped\n",
			stats.Total, stats.Successful, stats.Failed, stats.Skipped)
		fmt.Fprintf(os.Stderr, "produced: %d chunks, %d vectors\n",
			stats.TotalChunks, stats.TotalVectors)
		for _, docErr := range stats.Errors {
			fmt.Fprintf(os.Stderr, "  %s: %v\n", docErr.DocID, docErr.Err)
		}
	}
	if err != nil {
		return err
	}
	if stats.Total > 0 && stats.Successful == 0 && stats.Skipped == 0 {
		return fmt.Errorf("no documents were indexed")
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	sys, err := indexit.NewSystem(ctx, appSettings(c))
	if err != nil {
		return err
	}
	defer sys.Close()

	var filters map[string]any
	if docID := c.String("doc-id"); docID != "" {
		filters = map[string]any{"doc_id": docID}
	}

	matches, err := sys.Indexer().Search(ctx, c.String("query"), c.Int("top-k"), filters)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Println("no matches")
		return nil
	}

	for i, match := range matches {
		fmt.Printf("%2d. %s  score=%.4f\n", i+1, match.ID, match.Score)
		if topic, ok := match.Metadata["topic"].(string); ok && topic != "" {
			fmt.Printf("    topic: %s\n", topic)
		}
		if text, ok := match.Metadata["text"].(string); ok && text != "" {
			fmt.Printf("    %s\n", snippet(text, 120))
		}
	}
	return nil
}

func deleteCommand(c *cli.Context) error {
	ctx := context.Background()

	docID := c.String("doc-id")
	all := c.Bool("all")
	if docID == "" && !all {
		return fmt.Errorf("either --doc-id or --all is required")
	}
	if docID != "" && all {
		return fmt.Errorf("--doc-id and --all are mutually exclusive")
	}

	sys, err := indexit.NewSystem(ctx, appSettings(c))
	if err != nil {
		return err
	}
	defer sys.Close()

	if all {
		if err := sys.Indexer().DeleteAll(ctx); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "deleted all vectors in the namespace")
		return nil
	}
	if err := sys.Indexer().Delete(ctx, docID); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "deleted vectors for %s\n", docID)
	return nil
}

func statsCommand(c *cli.Context) error {
	ctx := context.Background()

	sys, err := indexit.NewSystem(ctx, appSettings(c))
	if err != nil {
		return err
	}
	defer sys.Close()

	stats, err := sys.Indexer().Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("dimension: %d\n", stats.Dimension)
	fmt.Printf("total vectors: %d\n", stats.TotalCount)
	if len(stats.Namespaces) > 0 {
		names := make([]string, 0, len(stats.Namespaces))
		for name := range stats.Namespaces {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Println("namespaces:")
		for _, name := range names {
			display := name
			if display == "" {
				display = "(default)"
			}
			fmt.Printf("  %s: %d\n", display, stats.Namespaces[name])
		}
	}
	return nil
}

func setupLogger(logCfg config.LogSettings) error {
	// Map string to slog.Level
	var level slog.Level
	switch logCfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", logCfg.Level)
	}

	var writer io.Writer = os.Stderr
	if logCfg.File != "" {
		file, err := os.OpenFile(logCfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		writer = io.MultiWriter(os.Stderr, file)
	}

	logger := slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func snippet(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
