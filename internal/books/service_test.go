package books

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"collecthub/internal/store"
	"collecthub/pkg/models"
)

type fakeBookStore struct {
	books     map[primitive.ObjectID]*models.Book
	updates   map[primitive.ObjectID]bson.M
	insertErr error
}

func newFakeBookStore() *fakeBookStore {
	return &fakeBookStore{
		books:   map[primitive.ObjectID]*models.Book{},
		updates: map[primitive.ObjectID]bson.M{},
	}
}

func (f *fakeBookStore) Insert(_ context.Context, book *models.Book) (primitive.ObjectID, error) {
	if f.insertErr != nil {
		return primitive.NilObjectID, f.insertErr
	}
	id := primitive.NewObjectID()
	stored := *book
	stored.ID = id
	f.books[id] = &stored
	return id, nil
}

func (f *fakeBookStore) Get(_ context.Context, id primitive.ObjectID) (*models.Book, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := *b
	return &out, nil
}

func (f *fakeBookStore) Update(_ context.Context, id primitive.ObjectID, fields bson.M) error {
	b, ok := f.books[id]
	if !ok {
		return store.ErrNotFound
	}
	f.updates[id] = fields
	if v, ok := fields["status"].(string); ok {
		b.Status = v
	}
	if v, ok := fields["rating"].(int); ok {
		b.Rating = v
	}
	return nil
}

func (f *fakeBookStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.books[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.books, id)
	return nil
}

func (f *fakeBookStore) CountBySeries(_ context.Context, seriesID primitive.ObjectID) (int64, error) {
	var n int64
	for _, b := range f.books {
		if b.SeriesID == seriesID {
			n++
		}
	}
	return n, nil
}

func (f *fakeBookStore) TopOfSeries(_ context.Context, seriesID primitive.ObjectID) (*models.Book, error) {
	var top *models.Book
	for _, b := range f.books {
		if b.SeriesID != seriesID {
			continue
		}
		if top == nil || b.SeriesNumber > top.SeriesNumber {
			top = b
		}
	}
	if top == nil {
		return nil, store.ErrNotFound
	}
	out := *top
	return &out, nil
}

type fakeSeriesStore struct {
	series        map[primitive.ObjectID]*models.BookSeries
	updates       map[primitive.ObjectID]bson.M
	failInsertDup bool
	missFirstFind bool
}

func newFakeSeriesStore() *fakeSeriesStore {
	return &fakeSeriesStore{
		series:  map[primitive.ObjectID]*models.BookSeries{},
		updates: map[primitive.ObjectID]bson.M{},
	}
}

func (f *fakeSeriesStore) add(s *models.BookSeries) primitive.ObjectID {
	id := primitive.NewObjectID()
	stored := *s
	stored.ID = id
	f.series[id] = &stored
	return id
}

func (f *fakeSeriesStore) FindByTitle(_ context.Context, title string) (*models.BookSeries, error) {
	if f.missFirstFind {
		f.missFirstFind = false
		return nil, store.ErrNotFound
	}
	for _, s := range f.series {
		if s.Title == title {
			out := *s
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeSeriesStore) Insert(_ context.Context, series *models.BookSeries) (primitive.ObjectID, error) {
	if f.failInsertDup {
		f.failInsertDup = false
		// what the driver reports when the unique title index rejects the insert
		dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
		return primitive.NilObjectID, &store.DatabaseError{Op: "insert book_series", Err: dup}
	}
	return f.add(series), nil
}

func (f *fakeSeriesStore) Get(_ context.Context, id primitive.ObjectID) (*models.BookSeries, error) {
	s, ok := f.series[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := *s
	return &out, nil
}

func (f *fakeSeriesStore) Update(_ context.Context, id primitive.ObjectID, fields bson.M) error {
	s, ok := f.series[id]
	if !ok {
		return store.ErrNotFound
	}
	f.updates[id] = fields
	if v, ok := fields["total_books"].(int); ok {
		s.TotalBooks = v
	}
	if v, ok := fields["current_book"].(int); ok {
		s.CurrentBook = v
	}
	return nil
}

func (f *fakeSeriesStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.series[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.series, id)
	return nil
}

type fakeScraper struct {
	album *models.ScrapedAlbum
	err   error
}

func (f *fakeScraper) ScrapeAlbum(context.Context, string, bool) (*models.ScrapedAlbum, error) {
	return f.album, f.err
}

func sampleAlbum() *models.ScrapedAlbum {
	return &models.ScrapedAlbum{
		Title:           "Arctica Tome 1",
		ISBN:            "9782756",
		Authors:         []string{"A. Doe", "B. Roe"},
		Publisher:       "Delcourt",
		PublicationDate: "2015-03-12",
		Pages:           48,
		Genre:           []string{"Science-Fiction"},
		Language:        "fr",
		SeriesTitle:     "Arctica",
		SeriesNumber:    1,
		TotalVolumes:    12,
		Status:          "wanted",
		Notes:           "Tome 1/12 de la série Arctica",
		Synopsis:        "Dix mille ans sous les glaces.",
		CoverURL:        "https://www.bubblebd.com/covers/arctica1.jpg",
	}
}

func TestImportCreatesSeriesAndBook(t *testing.T) {
	bookStore := newFakeBookStore()
	seriesStore := newFakeSeriesStore()
	svc := NewService(bookStore, seriesStore, &fakeScraper{album: sampleAlbum()})

	book, err := svc.ImportFromURL(context.Background(), "https://example.com/album", "user-1", false)
	require.NoError(t, err)

	require.Len(t, seriesStore.series, 1)
	var created *models.BookSeries
	for _, s := range seriesStore.series {
		created = s
	}
	assert.Equal(t, "Arctica", created.Title)
	assert.Equal(t, 12, created.TotalBooks)
	assert.Equal(t, 1, created.CurrentBook)
	assert.Equal(t, models.SeriesOngoing, created.Status)
	assert.Equal(t, "user-1", created.CreatedBy)

	require.Len(t, bookStore.books, 1)
	assert.Equal(t, created.ID, book.SeriesID)
	assert.Equal(t, "Arctica Tome 1", book.Title)
	assert.Equal(t, "A. Doe, B. Roe", book.Author)
	assert.Equal(t, "2015-03-12", book.PublicationDate)
	assert.Equal(t, "user-1", book.CreatedBy)
	assert.False(t, book.ID.IsZero(), "caller must observe the persisted document")
}

func TestImportUpdatesExistingSeriesTotal(t *testing.T) {
	bookStore := newFakeBookStore()
	seriesStore := newFakeSeriesStore()
	existingID := seriesStore.add(&models.BookSeries{Title: "Arctica", TotalBooks: 10, CurrentBook: 3})

	album := sampleAlbum()
	album.TotalVolumes = 12
	svc := NewService(bookStore, seriesStore, &fakeScraper{album: album})

	book, err := svc.ImportFromURL(context.Background(), "https://example.com/album", "user-1", false)
	require.NoError(t, err)

	require.Len(t, seriesStore.series, 1, "no second series with the same title")
	assert.Equal(t, existingID, book.SeriesID)
	assert.Equal(t, 12, seriesStore.series[existingID].TotalBooks)
	// current_book is only set at creation, never on update
	assert.Equal(t, 3, seriesStore.series[existingID].CurrentBook)
	assert.NotContains(t, seriesStore.updates[existingID], "current_book")
}

func TestImportUnchangedTotalSkipsSeriesUpdate(t *testing.T) {
	bookStore := newFakeBookStore()
	seriesStore := newFakeSeriesStore()
	existingID := seriesStore.add(&models.BookSeries{Title: "Arctica", TotalBooks: 12})

	svc := NewService(bookStore, seriesStore, &fakeScraper{album: sampleAlbum()})

	_, err := svc.ImportFromURL(context.Background(), "https://example.com/album", "user-1", false)
	require.NoError(t, err)
	assert.Empty(t, seriesStore.updates[existingID])
}

func TestImportStandaloneBook(t *testing.T) {
	bookStore := newFakeBookStore()
	seriesStore := newFakeSeriesStore()

	album := sampleAlbum()
	album.SeriesTitle = ""
	svc := NewService(bookStore, seriesStore, &fakeScraper{album: album})

	book, err := svc.ImportFromURL(context.Background(), "https://example.com/album", "user-1", false)
	require.NoError(t, err)

	assert.Empty(t, seriesStore.series)
	assert.True(t, book.SeriesID.IsZero())
}

func TestImportRecoversFromSeriesInsertRace(t *testing.T) {
	bookStore := newFakeBookStore()
	seriesStore := newFakeSeriesStore()

	// A concurrent import wins the race: the first lookup misses, the
	// insert bounces off the unique title index, and the re-read finds
	// the winner's document.
	winnerID := seriesStore.add(&models.BookSeries{Title: "Arctica", TotalBooks: 12})
	seriesStore.missFirstFind = true
	seriesStore.failInsertDup = true

	svc := NewService(bookStore, seriesStore, &fakeScraper{album: sampleAlbum()})

	book, err := svc.ImportFromURL(context.Background(), "https://example.com/album", "user-1", false)
	require.NoError(t, err)

	assert.Len(t, seriesStore.series, 1)
	assert.Equal(t, winnerID, book.SeriesID)
}

func TestImportScrapeErrorPropagates(t *testing.T) {
	scrapeErr := errors.New("boom")
	svc := NewService(newFakeBookStore(), newFakeSeriesStore(), &fakeScraper{err: scrapeErr})

	_, err := svc.ImportFromURL(context.Background(), "https://example.com/album", "user-1", false)
	assert.ErrorIs(t, err, scrapeErr)
}

func TestUpdateBookMergesAndRestamps(t *testing.T) {
	bookStore := newFakeBookStore()
	id, err := bookStore.Insert(context.Background(), &models.Book{Title: "Arctica Tome 1", Status: "wanted"})
	require.NoError(t, err)

	svc := NewService(bookStore, newFakeSeriesStore(), &fakeScraper{})

	updated, err := svc.UpdateBook(context.Background(), id, map[string]any{
		"status":     "owned",
		"id":         "should-be-dropped",
		"created_by": "mallory",
	}, "user-2")
	require.NoError(t, err)

	assert.Equal(t, "owned", updated.Status)
	fields := bookStore.updates[id]
	assert.NotContains(t, fields, "id")
	assert.NotContains(t, fields, "created_by")
	assert.Equal(t, "user-2", fields["updated_by"])
	assert.WithinDuration(t, time.Now().UTC(), fields["updated_at"].(time.Time), time.Minute)
}

func TestUpdateBookRejectsBadDate(t *testing.T) {
	bookStore := newFakeBookStore()
	id, err := bookStore.Insert(context.Background(), &models.Book{Title: "X"})
	require.NoError(t, err)

	svc := NewService(bookStore, newFakeSeriesStore(), &fakeScraper{})

	_, err = svc.UpdateBook(context.Background(), id, map[string]any{"publication_date": "12 mars 2015"}, "u")
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestUpdateBookNotFound(t *testing.T) {
	svc := NewService(newFakeBookStore(), newFakeSeriesStore(), &fakeScraper{})

	_, err := svc.UpdateBook(context.Background(), primitive.NewObjectID(), map[string]any{"status": "owned"}, "u")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteLastBookRemovesSeries(t *testing.T) {
	bookStore := newFakeBookStore()
	seriesStore := newFakeSeriesStore()
	seriesID := seriesStore.add(&models.BookSeries{Title: "Arctica", CurrentBook: 1})

	bookID, err := bookStore.Insert(context.Background(), &models.Book{Title: "Tome 1", SeriesID: seriesID, SeriesNumber: 1})
	require.NoError(t, err)

	svc := NewService(bookStore, seriesStore, &fakeScraper{})
	require.NoError(t, svc.DeleteBook(context.Background(), bookID, "u"))

	assert.Empty(t, bookStore.books)
	assert.Empty(t, seriesStore.series, "deleting the last book of a series removes the series")
}

func TestDeleteBookMovesCurrentBookPointer(t *testing.T) {
	bookStore := newFakeBookStore()
	seriesStore := newFakeSeriesStore()
	seriesID := seriesStore.add(&models.BookSeries{Title: "Arctica", CurrentBook: 3})

	_, err := bookStore.Insert(context.Background(), &models.Book{Title: "Tome 2", SeriesID: seriesID, SeriesNumber: 2})
	require.NoError(t, err)
	tome3, err := bookStore.Insert(context.Background(), &models.Book{Title: "Tome 3", SeriesID: seriesID, SeriesNumber: 3})
	require.NoError(t, err)

	svc := NewService(bookStore, seriesStore, &fakeScraper{})
	require.NoError(t, svc.DeleteBook(context.Background(), tome3, "u"))

	assert.Len(t, seriesStore.series, 1)
	assert.Equal(t, 2, seriesStore.series[seriesID].CurrentBook)
}

func TestDeleteBookLeavesPointerWhenNotCurrent(t *testing.T) {
	bookStore := newFakeBookStore()
	seriesStore := newFakeSeriesStore()
	seriesID := seriesStore.add(&models.BookSeries{Title: "Arctica", CurrentBook: 3})

	tome2, err := bookStore.Insert(context.Background(), &models.Book{Title: "Tome 2", SeriesID: seriesID, SeriesNumber: 2})
	require.NoError(t, err)
	_, err = bookStore.Insert(context.Background(), &models.Book{Title: "Tome 3", SeriesID: seriesID, SeriesNumber: 3})
	require.NoError(t, err)

	svc := NewService(bookStore, seriesStore, &fakeScraper{})
	require.NoError(t, svc.DeleteBook(context.Background(), tome2, "u"))

	assert.Equal(t, 3, seriesStore.series[seriesID].CurrentBook)
	assert.Empty(t, seriesStore.updates[seriesID])
}

func TestDeleteBookNotFound(t *testing.T) {
	svc := NewService(newFakeBookStore(), newFakeSeriesStore(), &fakeScraper{})
	err := svc.DeleteBook(context.Background(), primitive.NewObjectID(), "u")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
