package books

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"collecthub/internal/auth"
	"collecthub/internal/scraper"
)

func newBooksRouter(scr AlbumScraper) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(auth.CtxClaimsKey, &auth.Claims{UserID: "user-1", Username: "alice"})
	})

	svc := NewService(newFakeBookStore(), newFakeSeriesStore(), scr)
	NewHandler(nil, svc).RegisterRoutes(router.Group("/books"))
	return router
}

func postScrape(router *gin.Engine, query string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/books/scrape"+query, nil))
	return w
}

func TestScrapeEndpointReturnsPersistedBook(t *testing.T) {
	router := newBooksRouter(&fakeScraper{album: sampleAlbum()})

	w := postScrape(router, "?url=https://example.com/album&download_cover=false")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Arctica Tome 1")
}

func TestScrapeEndpointParseErrorIs400(t *testing.T) {
	router := newBooksRouter(&fakeScraper{err: &scraper.ParseError{
		URL: "https://example.com/album", Field: "title", Reason: "no heading element on page",
	}})

	w := postScrape(router, "?url=https://example.com/album")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "detail")
}

func TestScrapeEndpointFetchErrorIs400(t *testing.T) {
	router := newBooksRouter(&fakeScraper{err: &scraper.FetchError{
		URL: "https://example.com/album", StatusCode: http.StatusBadGateway,
	}})

	w := postScrape(router, "?url=https://example.com/album")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScrapeEndpointRequiresURL(t *testing.T) {
	router := newBooksRouter(&fakeScraper{album: sampleAlbum()})

	w := postScrape(router, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "url")
}

func TestScrapeEndpointRejectsBadDownloadCover(t *testing.T) {
	router := newBooksRouter(&fakeScraper{album: sampleAlbum()})

	w := postScrape(router, "?url=https://example.com/album&download_cover=maybe")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
