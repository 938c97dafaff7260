package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"collecthub/internal/scraper"
)

// One-shot scrape of a single album page: prints the extracted record and,
// when the page carries an ISBN, saves it under static/scraped/bubblebd/.
func main() {
	var (
		url           = flag.String("url", "", "album page URL to scrape")
		downloadCover = flag.Bool("download-cover", true, "download and archive the cover image")
		staticDir     = flag.String("static-dir", "static", "static files root")
	)
	flag.Parse()

	if *url == "" {
		log.Fatal("usage: scraper -url <album page URL>")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	s := scraper.New(*staticDir)
	album, err := s.ScrapeAlbum(ctx, *url, *downloadCover)
	if err != nil {
		log.Fatalf("scrape failed: %v", err)
	}

	out, err := json.MarshalIndent(album, "", "  ")
	if err != nil {
		log.Fatalf("encode album: %v", err)
	}
	os.Stdout.Write(append(out, '\n'))

	if album.ISBN != "" {
		dir := filepath.Join(*staticDir, "scraped", "bubblebd")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("ensure output dir: %v", err)
		}
		path := filepath.Join(dir, album.ISBN+".json")
		if err := os.WriteFile(path, out, 0o644); err != nil {
			log.Fatalf("write album json: %v", err)
		}
		log.Printf("saved album information to %s", path)
	}

	if album.CoverPath != "" {
		log.Printf("cover image saved to %s", album.CoverPath)
	}
}
