package models

// ScrapedAlbum is the normalized result of parsing one catalog album page.
//
// It is built once per scrape, handed to the import service, and discarded.
// Optional fields (authors, genres, series info, synopsis, cover) are left
// at their zero value when the page omits them; SeriesNumber and TotalVolumes
// use 0 to mean "not present on the page".
type ScrapedAlbum struct {
	Title           string   `json:"title"`
	ISBN            string   `json:"isbn"`
	Authors         []string `json:"authors"`
	Publisher       string   `json:"publisher"`
	PublicationDate string   `json:"publication_date"` // ISO YYYY-MM-DD
	Pages           int      `json:"pages"`
	Genre           []string `json:"genre"`
	Language        string   `json:"language"`
	SeriesTitle     string   `json:"series_title"`
	SeriesNumber    int      `json:"series_number,omitempty"`
	TotalVolumes    int      `json:"total_volumes,omitempty"`
	Status          string   `json:"status"`
	Notes           string   `json:"notes"`
	Synopsis        string   `json:"synopsis"`
	CoverURL        string   `json:"cover_url"`
	CoverPath       string   `json:"cover_path,omitempty"`
}
