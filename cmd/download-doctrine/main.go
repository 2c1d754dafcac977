package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/torpcore/doctrine/internal/htmltext"
)

// DoctrineDoc is the JSONL format consumed by the ingestion pipeline.
type DoctrineDoc struct {
	SourceID  string    `json:"source_id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	FetchedAt time.Time `json:"fetched_at"`
	Text      string    `json:"text"`
}

func main() {
	var (
		sourceID = flag.String("source", "", "Source id to record on the downloaded pages (required)")
		outDir   = flag.String("out", "testdata/doctrine", "Output directory")
	)
	flag.Parse()

	if *sourceID == "" {
		log.Fatal("--source required")
	}
	if flag.NArg() == 0 {
		log.Fatal("usage: download-doctrine --source nfc-15-100 URL [URL ...]")
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatal("Failed to create output directory:", err)
	}

	outPath := filepath.Join(*outDir, "docs.jsonl")
	outFile, err := os.Create(outPath)
	if err != nil {
		log.Fatal("Failed to create output file:", err)
	}
	defer outFile.Close()

	encoder := json.NewEncoder(outFile)
	downloaded := 0

	for _, url := range flag.Args() {
		text, err := fetchText(url)
		if err != nil {
			log.Printf("Failed to fetch %s: %v", url, err)
			continue
		}
		if text == "" {
			log.Printf("No text content at %s, skipping", url)
			continue
		}

		doc := DoctrineDoc{
			SourceID:  *sourceID,
			URL:       url,
			Title:     filepath.Base(url),
			FetchedAt: time.Now().UTC(),
			Text:      text,
		}
		if err := encoder.Encode(doc); err != nil {
			log.Printf("Failed to encode doc: %v", err)
			continue
		}
		downloaded++

		// Be nice to the servers
		time.Sleep(200 * time.Millisecond)
	}

	log.Printf("✓ Downloaded %d pages to %s", downloaded, outPath)
}

func fetchText(url string) (string, error) {
	resp, err := http.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", err
	}

	return htmltext.Extract(string(body)), nil
}
