package scraper

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/go-resty/resty/v2"
	_ "golang.org/x/image/webp"
)

const coversSubdir = "covers/books"

// CoverArchiver downloads cover images and persists them as JPEG under the
// static tree.
type CoverArchiver struct {
	client    *resty.Client
	staticDir string
}

func NewCoverArchiver(client *resty.Client, staticDir string) *CoverArchiver {
	return &CoverArchiver{client: client, staticDir: staticDir}
}

// Archive fetches imageURL, re-encodes it as JPEG (quality 85) and writes it
// to {staticDir}/covers/books/{key}_{md5(url)[:8]}.jpg. The URL hash keeps
// the same key scraped from two different sources from overwriting each
// other, while re-archiving the identical URL stays idempotent.
//
// It returns the path relative to the service root and the absolute path.
func (a *CoverArchiver) Archive(ctx context.Context, imageURL, key string) (string, string, error) {
	resp, err := a.client.R().SetContext(ctx).Get(imageURL)
	if err != nil {
		return "", "", &FetchError{URL: imageURL, Err: err}
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return "", "", &FetchError{URL: imageURL, StatusCode: resp.StatusCode()}
	}

	img, _, err := image.Decode(bytes.NewReader(resp.Body()))
	if err != nil {
		return "", "", fmt.Errorf("decode cover image: %w", err)
	}

	// encode in memory; a failed encode must not leave a partial file behind
	var encoded bytes.Buffer
	if err := jpeg.Encode(&encoded, img, &jpeg.Options{Quality: 85}); err != nil {
		return "", "", fmt.Errorf("encode cover jpeg: %w", err)
	}

	filename := CoverFilename(imageURL, key)
	dir := filepath.Join(a.staticDir, filepath.FromSlash(coversSubdir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("ensure covers dir: %w", err)
	}

	absPath := filepath.Join(dir, filename)
	if err := os.WriteFile(absPath, encoded.Bytes(), 0o644); err != nil {
		return "", "", fmt.Errorf("write cover file: %w", err)
	}

	relPath := filepath.ToSlash(filepath.Join("static", coversSubdir, filename))
	log.Printf("[scraper] saved cover image to %s", absPath)
	return relPath, absPath, nil
}

// CoverFilename is deterministic per (url, key) pair.
func CoverFilename(imageURL, key string) string {
	sum := md5.Sum([]byte(imageURL))
	return fmt.Sprintf("%s_%s.jpg", key, hex.EncodeToString(sum[:])[:8])
}
