// Copyright 2025 Halcyon Data
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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/halcyondata/paperdex/ai"
	"github.com/halcyondata/paperdex/ai/openai"
	"github.com/halcyondata/paperdex/core"
	"github.com/halcyondata/paperdex/index"
	"github.com/halcyondata/paperdex/ingest"
	"github.com/halcyondata/paperdex/search"
	"github.com/halcyondata/paperdex/storage/badger"
	"github.com/halcyondata/paperdex/storage/file"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	// Optional: local development overrides for host/model settings.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "paperdex",
		Usage: "Resumable vector indexing and bounded-time retrieval for document sets",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Build a persisted vector index from a JSON document file, resuming from a checkpoint if one exists",
				Action: buildCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "docs",
						Usage:    "Path to JSON file with documents to index",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Usage:    "Destination path for the index file",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "embedding-host",
						Usage:   "Embedding service host URL",
						Value:   ai.DefaultHost,
						EnvVars: []string{"PAPERDEX_EMBEDDING_HOST"},
					},
					&cli.StringFlag{
						Name:    "embedding-model",
						Usage:   "Embedding model name",
						Value:   ai.DefaultEmbeddingModel,
						EnvVars: []string{"PAPERDEX_EMBEDDING_MODEL"},
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of documents to embed and insert per batch",
						Value: ingest.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:  "max-chars",
						Usage: "Truncate document content beyond this many characters",
						Value: ingest.DefaultMaxChars,
					},
					&cli.IntFlag{
						Name:  "max-docs",
						Usage: "Maximum number of documents to index (0 = no limit)",
						Value: ingest.DefaultMaxDocs,
					},
					&cli.DurationFlag{
						Name:  "deadline",
						Usage: "Wall-clock budget for the build",
						Value: ingest.DefaultDeadline,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N documents",
						Value: 50,
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Answer a question from a built index within a hard timeout",
				Action:    queryCommand,
				ArgsUsage: "QUESTION",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "index",
						Aliases:  []string{"i"},
						Usage:    "Path to the index file",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB directory for recording research sessions",
					},
					&cli.StringFlag{
						Name:    "embedding-host",
						Usage:   "Embedding service host URL",
						Value:   ai.DefaultHost,
						EnvVars: []string{"PAPERDEX_EMBEDDING_HOST"},
					},
					&cli.StringFlag{
						Name:    "embedding-model",
						Usage:   "Embedding model name",
						Value:   ai.DefaultEmbeddingModel,
						EnvVars: []string{"PAPERDEX_EMBEDDING_MODEL"},
					},
					&cli.StringFlag{
						Name:    "answer-host",
						Usage:   "Answer generation service host URL (defaults to embedding-host)",
						EnvVars: []string{"PAPERDEX_ANSWER_HOST"},
					},
					&cli.StringFlag{
						Name:    "answer-model",
						Usage:   "Answer generation model name",
						Value:   ai.DefaultAnswerModel,
						EnvVars: []string{"PAPERDEX_ANSWER_MODEL"},
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Hard timeout for the query",
						Value: search.DefaultTimeout,
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of source documents to retrieve",
						Value: search.DefaultTopK,
					},
					&cli.BoolFlag{
						Name:  "sources",
						Usage: "Print the retrieved source documents after the answer",
					},
				},
			},
			{
				Name:  "checkpoint",
				Usage: "Inspect or remove build checkpoints",
				Subcommands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "Show checkpoint status for an index destination",
						Action: checkpointShowCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "out",
								Aliases:  []string{"o"},
								Usage:    "Index destination the checkpoint belongs to",
								Required: true,
							},
						},
					},
					{
						Name:   "clean",
						Usage:  "Delete the checkpoint for an index destination",
						Action: checkpointCleanCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "out",
								Aliases:  []string{"o"},
								Usage:    "Index destination the checkpoint belongs to",
								Required: true,
							},
						},
					},
				},
			},
			{
				Name:  "sessions",
				Usage: "Inspect recorded research sessions",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List all recorded research sessions",
						Action: sessionsListCommand,
						Flags:  []cli.Flag{sessionsDBFlag()},
					},
					{
						Name:   "last",
						Usage:  "Show the most recent research session",
						Action: sessionsLastCommand,
						Flags:  []cli.Flag{sessionsDBFlag()},
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func sessionsDBFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to BadgerDB database directory",
		Required: true,
	}
}

// documentFile is the on-disk input format for the build command: a JSON
// array of documents with free-form metadata. Upstream collectors emit
// non-string values (a paper's year, page counts), so metadata values are
// coerced to strings rather than rejected.
type documentFile []struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

func loadDocuments(path string) ([]core.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document file: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var entries documentFile
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to parse document file: %w", err)
	}

	docs := make([]core.Document, len(entries))
	for i, entry := range entries {
		docs[i] = core.Document{
			Content:  entry.Content,
			Metadata: coerceMetadata(entry.Metadata),
		}
	}
	return docs, nil
}

// coerceMetadata flattens JSON metadata values to strings. Numbers keep
// their source representation (json.Number), structured values are
// re-encoded as compact JSON.
func coerceMetadata(m map[string]any) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch v := v.(type) {
		case string:
			out[k] = v
		case json.Number:
			out[k] = v.String()
		case bool:
			out[k] = strconv.FormatBool(v)
		case nil:
			out[k] = ""
		default:
			encoded, err := json.Marshal(v)
			if err != nil {
				out[k] = fmt.Sprintf("%v", v)
				continue
			}
			out[k] = string(encoded)
		}
	}
	return out
}

func buildCommand(c *cli.Context) error {
	ctx := context.Background()

	docs, err := loadDocuments(c.String("docs"))
	if err != nil {
		return err
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	checkpoints := file.NewCheckpointStore()

	tracker := ingest.NewProgressTracker(os.Stderr, c.Int("report-interval"))

	builder, err := ingest.NewBuilder(embedder, checkpoints,
		ingest.WithBatchSize(c.Int("batch-size")),
		ingest.WithMaxChars(c.Int("max-chars")),
		ingest.WithMaxDocs(c.Int("max-docs")),
		ingest.WithDeadline(c.Duration("deadline")),
		ingest.WithTracker(tracker),
	)
	if err != nil {
		return fmt.Errorf("failed to create builder: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Documents: %d\n", len(docs))
	fmt.Fprintf(os.Stderr, "Destination: %s\n", c.String("out"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	ix, err := builder.Build(ctx, docs, c.String("out"))
	if err != nil {
		if errors.Is(err, ingest.ErrBuildTimeout) {
			fmt.Fprintf(os.Stderr, "\n%v\n", err)
			return cli.Exit("build interrupted; rerun the same command to resume", 1)
		}
		return fmt.Errorf("build failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Indexed %d documents in %s\n", ix.Len(), tracker.Elapsed().Round(time.Second))
	return nil
}

func queryCommand(c *cli.Context) error {
	ctx := context.Background()

	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("question is required")
	}

	ix, err := index.Load(c.String("index"))
	if err != nil {
		return fmt.Errorf("failed to load index: %w", err)
	}

	answerHost := c.String("answer-host")
	if answerHost == "" {
		answerHost = c.String("embedding-host")
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithAnswerHost(answerHost),
		ai.WithAnswerModel(c.String("answer-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	provider, err := openai.NewProvider(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}
	defer provider.Close()

	executor, err := search.NewExecutor(provider,
		search.WithTimeout(c.Duration("timeout")),
		search.WithTopK(c.Int("top-k")),
	)
	if err != nil {
		return fmt.Errorf("failed to create query executor: %w", err)
	}
	defer executor.Release()

	result, err := executor.Query(ctx, ix, question)
	if err != nil {
		if errors.Is(err, search.ErrQueryTimeout) {
			// The deadline is the contract: report no answer rather than
			// blocking on a slow model.
			fmt.Println("No answer available within the time limit.")
			return nil
		}
		return fmt.Errorf("query failed: %w", err)
	}

	fmt.Println(result.Answer)

	if c.Bool("sources") {
		fmt.Println()
		for i, src := range result.Sources {
			fmt.Printf("[%d] (score %.3f) %s\n", i+1, src.Score, snippet(src.Document.Content, 120))
		}
	}

	if dbPath := c.String("db"); dbPath != "" {
		if err := recordSession(ctx, dbPath, question, result); err != nil {
			slog.Warn("failed to record research session", "err", err)
		}
	}

	return nil
}

func recordSession(ctx context.Context, dbPath, question string, result *search.Result) error {
	backend, err := badger.OpenBackend(dbPath, false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewSessionRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create session repository: %w", err)
	}
	defer repo.Close()

	sources := make([]core.Document, len(result.Sources))
	for i, src := range result.Sources {
		sources[i] = src.Document
	}

	session := &core.ResearchSession{
		Goal:    question,
		Answer:  result.Answer,
		Sources: sources,
	}
	if _, err := repo.AddSession(ctx, session); err != nil {
		return err
	}
	return nil
}

func checkpointShowCommand(c *cli.Context) error {
	checkpoints := file.NewCheckpointStore()

	destination := c.String("out")
	progress, err := checkpoints.Load(destination)
	if err != nil {
		return fmt.Errorf("failed to load checkpoint: %w", err)
	}
	if progress == nil {
		fmt.Printf("No checkpoint for %s\n", destination)
		return nil
	}

	fmt.Printf("Checkpoint: %s\n", checkpoints.Path(destination))
	fmt.Printf("  Processed: %d of %d documents\n", progress.ProcessedCount, progress.Fingerprint.Count)
	fmt.Printf("  Saved at:  %s\n", progress.UpdatedAt.Local().Format(time.RFC3339))
	return nil
}

func checkpointCleanCommand(c *cli.Context) error {
	checkpoints := file.NewCheckpointStore()

	destination := c.String("out")
	if err := checkpoints.Clean(destination); err != nil {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}

	fmt.Printf("Checkpoint removed for %s\n", destination)
	return nil
}

func sessionsListCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewSessionRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create session repository: %w", err)
	}
	defer repo.Close()

	sessions, err := repo.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded.")
		return nil
	}
	for _, session := range sessions {
		printSession(session)
	}
	return nil
}

func sessionsLastCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewSessionRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create session repository: %w", err)
	}
	defer repo.Close()

	session, err := repo.LastSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to load last session: %w", err)
	}
	if session == nil {
		fmt.Println("No sessions recorded.")
		return nil
	}

	printSession(session)
	return nil
}

func printSession(session *core.ResearchSession) {
	fmt.Printf("[%d] %s\n", session.Id, session.CreatedAt.Local().Format(time.RFC3339))
	fmt.Printf("  Q: %s\n", session.Goal)
	fmt.Printf("  A: %s\n", snippet(session.Answer, 200))
	fmt.Printf("  Sources: %d\n", len(session.Sources))
}

func snippet(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
