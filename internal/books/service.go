package books

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"collecthub/internal/store"
	"collecthub/pkg/models"
)

// ValidationError reports caller-supplied input that violates a field
// constraint.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string { return "validation error: " + e.Detail }

// AlbumScraper is the page-extraction collaborator the import path consumes.
type AlbumScraper interface {
	ScrapeAlbum(ctx context.Context, url string, downloadCover bool) (*models.ScrapedAlbum, error)
}

// BookStore and SeriesStore are the narrow store handles the service is
// constructed with; the Mongo implementations live in repo.go.
type BookStore interface {
	Insert(ctx context.Context, book *models.Book) (primitive.ObjectID, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Book, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountBySeries(ctx context.Context, seriesID primitive.ObjectID) (int64, error)
	TopOfSeries(ctx context.Context, seriesID primitive.ObjectID) (*models.Book, error)
}

type SeriesStore interface {
	FindByTitle(ctx context.Context, title string) (*models.BookSeries, error)
	Insert(ctx context.Context, series *models.BookSeries) (primitive.ObjectID, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.BookSeries, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Service implements the scrape-and-import pipeline plus the update and
// cascade-delete operations of the books surface.
type Service struct {
	Books   BookStore
	Series  SeriesStore
	Scraper AlbumScraper
}

func NewService(books BookStore, series SeriesStore, scraper AlbumScraper) *Service {
	return &Service{Books: books, Series: series, Scraper: scraper}
}

// ImportFromURL scrapes one album page and persists it: the owning series is
// found or created first, then the book is inserted referencing it, and the
// stored document is re-read so the caller sees exactly what the store holds.
//
// Scrape errors propagate unchanged. The series write and the book insert
// are not one transaction; a failure in between leaves the series behind and
// is logged distinctly.
func (s *Service) ImportFromURL(ctx context.Context, url, userID string, downloadCover bool) (*models.Book, error) {
	album, err := s.Scraper.ScrapeAlbum(ctx, url, downloadCover)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	var seriesID primitive.ObjectID
	seriesCreated := false
	if album.SeriesTitle != "" {
		seriesID, seriesCreated, err = s.resolveSeries(ctx, album, userID, now)
		if err != nil {
			return nil, err
		}
	}

	book := &models.Book{
		Title:           album.Title,
		ISBN:            album.ISBN,
		Author:          strings.Join(album.Authors, ", "),
		Publisher:       album.Publisher,
		PublicationDate: album.PublicationDate,
		Pages:           album.Pages,
		Genre:           album.Genre,
		Language:        album.Language,
		SeriesID:        seriesID,
		SeriesNumber:    album.SeriesNumber,
		Status:          album.Status,
		Notes:           album.Notes,
		CoverURL:        album.CoverURL,
		CoverPath:       album.CoverPath,
		Synopsis:        album.Synopsis,
	}
	book.Stamp(userID, now)

	id, err := s.Books.Insert(ctx, book)
	if err != nil {
		if seriesCreated {
			log.Printf("[books] orphan series %s left behind: book insert failed after series creation: %v", seriesID.Hex(), err)
		}
		return nil, err
	}

	return s.Books.Get(ctx, id)
}

// resolveSeries finds the series by exact title, creating it when absent.
// On a found series whose declared volume total drifted, total_books is
// updated; current_book is only ever set at creation time. A duplicate-key
// failure on insert means a concurrent import won the race, so the series
// is re-read and reused.
func (s *Service) resolveSeries(ctx context.Context, album *models.ScrapedAlbum, userID string, now time.Time) (primitive.ObjectID, bool, error) {
	existing, err := s.Series.FindByTitle(ctx, album.SeriesTitle)
	if err == nil {
		if album.TotalVolumes > 0 && album.TotalVolumes != existing.TotalBooks {
			update := bson.M{
				"total_books": album.TotalVolumes,
				"updated_by":  userID,
				"updated_at":  now,
			}
			if err := s.Series.Update(ctx, existing.ID, update); err != nil {
				return primitive.NilObjectID, false, err
			}
		}
		return existing.ID, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return primitive.NilObjectID, false, err
	}

	series := &models.BookSeries{
		Title:       album.SeriesTitle,
		TotalBooks:  album.TotalVolumes,
		CurrentBook: album.SeriesNumber,
		Genre:       album.Genre,
		Language:    album.Language,
		Status:      models.SeriesOngoing,
		Notes:       "Series imported from BubbleBD",
	}
	series.Stamp(userID, now)

	id, err := s.Series.Insert(ctx, series)
	if err != nil {
		var dbErr *store.DatabaseError
		if errors.As(err, &dbErr) && store.IsDuplicateKey(dbErr.Err) {
			// lost the find-or-create race; the title now exists
			winner, ferr := s.Series.FindByTitle(ctx, album.SeriesTitle)
			if ferr != nil {
				return primitive.NilObjectID, false, ferr
			}
			return winner.ID, false, nil
		}
		return primitive.NilObjectID, false, err
	}
	return id, true, nil
}

// UpdateBook merges the supplied fields into the book and restamps the
// audit fields. Fails with ErrNotFound when no document matched.
func (s *Service) UpdateBook(ctx context.Context, id primitive.ObjectID, fields map[string]any, userID string) (*models.Book, error) {
	update := bson.M{}
	for k, v := range fields {
		switch k {
		case "id", "_id", "created_at", "created_by":
			// immutable
		default:
			update[k] = v
		}
	}

	if raw, ok := update["publication_date"]; ok {
		str, ok := raw.(string)
		if !ok {
			return nil, &ValidationError{Detail: "publication_date must be a string"}
		}
		if _, err := time.Parse("2006-01-02", str); err != nil {
			return nil, &ValidationError{Detail: fmt.Sprintf("publication_date %q is not a valid YYYY-MM-DD date", str)}
		}
	}

	update["updated_by"] = userID
	update["updated_at"] = time.Now().UTC()

	if err := s.Books.Update(ctx, id, update); err != nil {
		return nil, err
	}
	return s.Books.Get(ctx, id)
}

// DeleteBook removes a book and maintains its series: deleting the last
// book of a series deletes the series, and deleting the book the series'
// current_book pointer referenced moves the pointer to the highest
// remaining volume.
func (s *Service) DeleteBook(ctx context.Context, id primitive.ObjectID, userID string) error {
	book, err := s.Books.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.Books.Delete(ctx, id); err != nil {
		return err
	}

	if book.SeriesID.IsZero() {
		return nil
	}

	remaining, err := s.Books.CountBySeries(ctx, book.SeriesID)
	if err != nil {
		return err
	}

	if remaining == 0 {
		if err := s.Series.Delete(ctx, book.SeriesID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		return nil
	}

	series, err := s.Series.Get(ctx, book.SeriesID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}

	if series.CurrentBook != book.SeriesNumber {
		return nil
	}

	top, err := s.Books.TopOfSeries(ctx, book.SeriesID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}

	return s.Series.Update(ctx, book.SeriesID, bson.M{
		"current_book": top.SeriesNumber,
		"updated_by":   userID,
		"updated_at":   time.Now().UTC(),
	})
}
