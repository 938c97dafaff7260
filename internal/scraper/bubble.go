package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"collecthub/pkg/models"
)

const (
	bubbleBaseURL = "https://www.bubblebd.com"

	// Desktop browser UA; the catalog serves a reduced page to unknown agents.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// Albums on this catalog are French-language editions.
	albumLanguage = "fr"

	defaultPublisher = "Delcourt"
	defaultStatus    = "wanted"
)

// Abbreviated French month names as they appear in the catalog's
// "Date de parution" row.
var frenchMonths = map[string]string{
	"janv.": "01", "févr.": "02", "mars": "03", "avr.": "04",
	"mai": "05", "juin": "06", "juil.": "07", "août": "08",
	"sept.": "09", "oct.": "10", "nov.": "11", "déc.": "12",
}

var (
	tomeTotalRe  = regexp.MustCompile(`Tome \d+/(\d+)`)
	tomeNumberRe = regexp.MustCompile(`Tome (\d+)`)
)

// Scraper extracts album metadata from BubbleBD album pages.
type Scraper struct {
	BaseURL string
	client  *resty.Client
	covers  *CoverArchiver
}

// New builds a Scraper whose cover downloads land under
// {staticDir}/covers/books.
func New(staticDir string) *Scraper {
	client := resty.New().
		SetTimeout(15 * time.Second).
		SetHeader("User-Agent", userAgent).
		SetRetryCount(2).
		SetRetryWaitTime(3 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err == nil && r.StatusCode() == http.StatusTooManyRequests
		})

	return &Scraper{
		BaseURL: bubbleBaseURL,
		client:  client,
		covers:  NewCoverArchiver(client, staticDir),
	}
}

// ScrapeAlbum fetches an album page and extracts its metadata.
//
// The title is mandatory; everything else degrades to an empty or default
// value when the page omits it, except the publication date, whose month
// abbreviation must be one of the twelve known ones once the row is present.
// With downloadCover set, the cover is archived when both the cover URL and
// the ISBN are known; a failed download is logged and the album returned
// without a cover path.
func (s *Scraper) ScrapeAlbum(ctx context.Context, pageURL string, downloadCover bool) (*models.ScrapedAlbum, error) {
	log.Printf("[scraper] scraping album from %s", pageURL)

	resp, err := s.client.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, &FetchError{URL: pageURL, StatusCode: resp.StatusCode()}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, &ParseError{URL: pageURL, Field: "document", Reason: err.Error()}
	}

	titleSel := doc.Find("h1").First()
	if titleSel.Length() == 0 {
		return nil, &ParseError{URL: pageURL, Field: "title", Reason: "no heading element on page"}
	}
	title := strings.TrimSpace(titleSel.Text())
	if title == "" {
		return nil, &ParseError{URL: pageURL, Field: "title", Reason: "heading element is empty"}
	}

	charData := extractCharacteristics(doc)

	isbn := charData["ISBN/EAN"]

	publisher := charData["Editeur"]
	if publisher == "" {
		publisher = defaultPublisher
	}

	publicationDate := ""
	if raw := charData["Date de parution"]; raw != "" {
		publicationDate, err = parseFrenchDate(raw)
		if err != nil {
			return nil, &ParseError{URL: pageURL, Field: "publication_date", Reason: err.Error()}
		}
	}

	pages := 0
	if raw := charData["Nombre de pages"]; raw != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			pages = n
		}
	}

	authors := extractLabeledLinks(doc, "Auteurs")
	genres := extractLabeledLinks(doc, "Thèmes")

	seriesTitle, totalVolumes := extractSeriesInfo(doc)
	seriesNumber := extractSeriesNumber(doc)

	synopsis := extractSynopsis(doc)

	coverURL := ""
	if src, ok := doc.Find("img.cover").First().Attr("src"); ok {
		coverURL = src
		if !strings.HasPrefix(coverURL, "http") {
			coverURL = s.BaseURL + coverURL
		}
	}

	album := &models.ScrapedAlbum{
		Title:           title,
		ISBN:            isbn,
		Authors:         authors,
		Publisher:       publisher,
		PublicationDate: publicationDate,
		Pages:           pages,
		Genre:           genres,
		Language:        albumLanguage,
		SeriesTitle:     seriesTitle,
		SeriesNumber:    seriesNumber,
		TotalVolumes:    totalVolumes,
		Status:          defaultStatus,
		Notes:           volumeNotes(seriesNumber, totalVolumes, seriesTitle),
		Synopsis:        synopsis,
		CoverURL:        coverURL,
	}

	if downloadCover && coverURL != "" && isbn != "" {
		relPath, _, err := s.covers.Archive(ctx, coverURL, isbn)
		if err != nil {
			// a failed cover download never fails the scrape
			log.Printf("[scraper] cover download failed for %s: %v", isbn, err)
		} else {
			album.CoverPath = relPath
		}
	}

	return album, nil
}

// extractCharacteristics projects the labeled key/value table into a map.
// A missing table yields an empty map, never an error.
func extractCharacteristics(doc *goquery.Document) map[string]string {
	data := make(map[string]string)
	doc.Find("table.characteristics tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		key := strings.TrimSpace(cells.Eq(0).Text())
		value := strings.TrimSpace(cells.Eq(1).Text())
		if key != "" {
			data[key] = value
		}
	})
	return data
}

// extractLabeledLinks finds the table cell whose text carries the given
// label and collects the anchor texts of the following cell.
func extractLabeledLinks(doc *goquery.Document, label string) []string {
	var out []string
	doc.Find("td").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		if !strings.Contains(cell.Text(), label) {
			return true
		}
		cell.Next().Find("a").Each(func(_ int, a *goquery.Selection) {
			if t := strings.TrimSpace(a.Text()); t != "" {
				out = append(out, t)
			}
		})
		return false
	})
	return out
}

// extractSeriesInfo reads the series heading and, separately, the
// "Tome X/Y" pattern that carries the declared volume total. The two live
// in different places on the page, so both are scanned independently.
func extractSeriesInfo(doc *goquery.Document) (string, int) {
	heading := doc.Find("h1.series-title").First()
	if heading.Length() == 0 {
		return "", 0
	}

	total := 0
	if m := tomeTotalRe.FindStringSubmatch(doc.Text()); m != nil {
		total, _ = strconv.Atoi(m[1])
	}

	return strings.TrimSpace(heading.Text()), total
}

func extractSeriesNumber(doc *goquery.Document) int {
	if m := tomeNumberRe.FindStringSubmatch(doc.Text()); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	return 0
}

func extractSynopsis(doc *goquery.Document) string {
	synopsis := ""
	doc.Find("h2").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if !strings.Contains(h.Text(), "Résumé") {
			return true
		}
		synopsis = strings.TrimSpace(h.NextAllFiltered("div").First().Text())
		return false
	})
	return synopsis
}

// parseFrenchDate converts "12 mars 2015" into "2015-03-12".
func parseFrenchDate(raw string) (string, error) {
	parts := strings.Fields(raw)
	if len(parts) != 3 {
		return "", fmt.Errorf("unexpected date format %q", raw)
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", fmt.Errorf("unexpected day %q", parts[0])
	}

	month, ok := frenchMonths[parts[1]]
	if !ok {
		return "", fmt.Errorf("unknown month abbreviation %q", parts[1])
	}

	return fmt.Sprintf("%s-%s-%02d", parts[2], month, day), nil
}

func volumeNotes(number, total int, seriesTitle string) string {
	numStr := "?"
	if number > 0 {
		numStr = strconv.Itoa(number)
	}
	totalStr := "?"
	if total > 0 {
		totalStr = strconv.Itoa(total)
	}
	return fmt.Sprintf("Tome %s/%s de la série %s", numStr, totalStr, seriesTitle)
}
