package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Book struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title           string             `bson:"title" json:"title"`
	OriginalTitle   string             `bson:"original_title,omitempty" json:"original_title,omitempty"`
	Author          string             `bson:"author" json:"author"`
	ISBN            string             `bson:"isbn,omitempty" json:"isbn,omitempty"`
	Publisher       string             `bson:"publisher,omitempty" json:"publisher,omitempty"`
	PublicationDate string             `bson:"publication_date,omitempty" json:"publication_date,omitempty"` // ISO YYYY-MM-DD
	Pages           int                `bson:"pages,omitempty" json:"pages,omitempty"`
	Genre           []string           `bson:"genre" json:"genre"`
	Language        string             `bson:"language,omitempty" json:"language,omitempty"`
	SeriesID        primitive.ObjectID `bson:"series_id,omitempty" json:"series_id,omitempty"`
	SeriesNumber    int                `bson:"series_number,omitempty" json:"series_number,omitempty"`
	Status          string             `bson:"status" json:"status"`
	Rating          int                `bson:"rating,omitempty" json:"rating,omitempty"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CoverURL        string             `bson:"cover_url,omitempty" json:"cover_url,omitempty"`
	CoverPath       string             `bson:"cover_path,omitempty" json:"cover_path,omitempty"`
	Synopsis        string             `bson:"synopsis,omitempty" json:"synopsis,omitempty"`
	Audit           `bson:",inline"`
}
