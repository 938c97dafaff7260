package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Movie struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title         string             `bson:"title" json:"title"`
	OriginalTitle string             `bson:"original_title,omitempty" json:"original_title,omitempty"`
	Year          int                `bson:"year" json:"year"`
	Director      string             `bson:"director" json:"director"`
	Studio        string             `bson:"studio,omitempty" json:"studio,omitempty"`
	Runtime       int                `bson:"runtime,omitempty" json:"runtime,omitempty"`
	Genre         []string           `bson:"genre" json:"genre"`
	Rating        string             `bson:"rating,omitempty" json:"rating,omitempty"`
	Format        string             `bson:"format,omitempty" json:"format,omitempty"`
	Resolution    string             `bson:"resolution,omitempty" json:"resolution,omitempty"`
	Audio         []string           `bson:"audio,omitempty" json:"audio,omitempty"`
	Subtitles     []string           `bson:"subtitles,omitempty" json:"subtitles,omitempty"`
	CollectionID  primitive.ObjectID `bson:"collection_id,omitempty" json:"collection_id,omitempty"`
	Status        string             `bson:"status" json:"status"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Audit         `bson:",inline"`
}

type MovieCollection struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Genre       string               `bson:"genre,omitempty" json:"genre,omitempty"`
	TotalMovies int                  `bson:"total_movies,omitempty" json:"total_movies,omitempty"`
	Status      string               `bson:"status" json:"status"`
	MovieIDs    []primitive.ObjectID `bson:"movie_ids,omitempty" json:"movie_ids,omitempty"`
	Tags        []string             `bson:"tags,omitempty" json:"tags,omitempty"`
	Notes       string               `bson:"notes,omitempty" json:"notes,omitempty"`
	Audit       `bson:",inline"`
}
