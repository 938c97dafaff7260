package scraper

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoverFilenameDeterministic(t *testing.T) {
	a := CoverFilename("https://example.com/x.png", "9782756")
	b := CoverFilename("https://example.com/x.png", "9782756")
	assert.Equal(t, a, b)

	c := CoverFilename("https://example.com/y.png", "9782756")
	assert.NotEqual(t, a, c, "different source URLs must not collide on the same key")

	assert.True(t, strings.HasPrefix(a, "9782756_"))
	assert.True(t, strings.HasSuffix(a, ".jpg"))
}

func TestArchiveWritesJPEG(t *testing.T) {
	var buf bytes.Buffer
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	src.Set(3, 3, color.RGBA{G: 200, A: 255})
	require.NoError(t, png.Encode(&buf, src))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	dir := t.TempDir()
	a := NewCoverArchiver(resty.New(), dir)

	relPath, absPath, err := a.Archive(context.Background(), srv.URL+"/cover.png", "9782756")
	require.NoError(t, err)

	assert.Equal(t, "static/covers/books/"+CoverFilename(srv.URL+"/cover.png", "9782756"), relPath)

	f, err := os.Open(absPath)
	require.NoError(t, err)
	defer f.Close()

	decoded, err := jpeg.Decode(f)
	require.NoError(t, err, "archived file must be a JPEG regardless of source encoding")
	assert.Equal(t, 8, decoded.Bounds().Dx())
}

func TestArchiveIdempotentForSameURL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	a := NewCoverArchiver(resty.New(), t.TempDir())

	rel1, abs1, err := a.Archive(context.Background(), srv.URL+"/same.png", "key")
	require.NoError(t, err)
	rel2, abs2, err := a.Archive(context.Background(), srv.URL+"/same.png", "key")
	require.NoError(t, err)

	assert.Equal(t, rel1, rel2)
	assert.Equal(t, abs1, abs2)
}

func TestArchiveHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	a := NewCoverArchiver(resty.New(), t.TempDir())
	_, _, err := a.Archive(context.Background(), srv.URL+"/cover.png", "key")

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusForbidden, fetchErr.StatusCode)
}

func TestArchiveUndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not an image"))
	}))
	defer srv.Close()

	a := NewCoverArchiver(resty.New(), t.TempDir())
	_, _, err := a.Archive(context.Background(), srv.URL+"/cover.png", "key")
	require.Error(t, err)
}

func TestArchiveFailureLeavesNoFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not an image either"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	a := NewCoverArchiver(resty.New(), dir)
	_, _, err := a.Archive(context.Background(), srv.URL+"/cover.png", "key")
	require.Error(t, err)

	// nothing may exist under the target path after a failed archive,
	// not even a truncated file at the deterministic filename
	target := filepath.Join(dir, "covers", "books", CoverFilename(srv.URL+"/cover.png", "key"))
	_, statErr := os.Stat(target)
	assert.True(t, os.IsNotExist(statErr))

	if entries, readErr := os.ReadDir(filepath.Join(dir, "covers", "books")); readErr == nil {
		assert.Empty(t, entries)
	}
}
