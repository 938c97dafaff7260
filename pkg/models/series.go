package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Series status values.
const (
	SeriesOngoing   = "ongoing"
	SeriesCompleted = "completed"
	SeriesCancelled = "cancelled"
)

type BookSeries struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	TotalBooks  int                `bson:"total_books,omitempty" json:"total_books,omitempty"`
	CurrentBook int                `bson:"current_book,omitempty" json:"current_book,omitempty"`
	Genre       []string           `bson:"genre" json:"genre"`
	Language    string             `bson:"language,omitempty" json:"language,omitempty"`
	Status      string             `bson:"status" json:"status"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Audit       `bson:",inline"`
}
