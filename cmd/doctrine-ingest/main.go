package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/torpcore/doctrine/pkg/doctrine"
	"github.com/torpcore/doctrine/pkg/doctrine/config"
	"github.com/torpcore/doctrine/pkg/doctrine/store/sqlite"
)

func main() {
	var (
		dbPath     = flag.String("db", "", "Database path (required)")
		sources    = flag.String("sources", "", "Source catalogue YAML (optional, built-in catalogue when empty)")
		vocabulary = flag.String("vocabulary", "", "Extraction vocabulary YAML (optional)")
		sourceID   = flag.String("source", "", "Source id the files belong to (required)")
		userID     = flag.String("user", "cli", "Uploader id recorded on the documents")
		showStats  = flag.Bool("stats", false, "Print ingestion statistics after the batch")
	)
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("--db required")
	}
	if *sourceID == "" {
		log.Fatal("--source required")
	}
	if flag.NArg() == 0 {
		log.Fatal("usage: doctrine-ingest --db doctrine.db --source dtu-60-11 file.txt [file.txt ...]")
	}

	ctx := context.Background()

	loader := &config.Loader{SourcesPath: *sources, VocabularyPath: *vocabulary}
	comp, err := loader.Load()
	if err != nil {
		log.Fatal(err)
	}

	st, err := sqlite.Open(ctx, *dbPath)
	if err != nil {
		log.Fatal("Failed to open store:", err)
	}

	engine := doctrine.New(doctrine.Options{
		Registry:   comp.Registry,
		Normalizer: comp.Normalizer,
		Store:      st,
	})
	defer engine.Close()

	files := make([]doctrine.File, 0, flag.NArg())
	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", path, err)
		}
		files = append(files, doctrine.File{
			Data:     data,
			Filename: filepath.Base(path),
			SourceID: *sourceID,
		})
	}

	results := engine.BatchIngest(ctx, files, *userID)

	succeeded := 0
	for i, res := range results {
		if res.Success {
			succeeded++
			fmt.Printf("✓ %s → %s (%d obligations, %d thresholds, %d sanctions, confidence %.2f)\n",
				files[i].Filename, res.DocumentID,
				res.Obligations, res.Thresholds, res.Sanctions, res.Normalized.Confidence)
		} else {
			fmt.Printf("✗ %s: %s\n", files[i].Filename, strings.Join(res.Errors, "; "))
		}
		for _, w := range res.Warnings {
			fmt.Printf("  warning: %s\n", w)
		}
	}
	log.Printf("Batch complete: %d/%d successful", succeeded, len(results))

	if *showStats {
		stats, err := engine.Stats(ctx)
		if err != nil {
			log.Fatal("Failed to read stats:", err)
		}
		fmt.Printf("Sources: %d  Documents: %d  Obligations: %d  Thresholds: %d  Sanctions: %d\n",
			stats.Sources, stats.Documents, stats.Obligations, stats.Thresholds, stats.Sanctions)
	}
}
