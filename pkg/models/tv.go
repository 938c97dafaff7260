package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TVShow struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title         string             `bson:"title" json:"title"`
	OriginalTitle string             `bson:"original_title,omitempty" json:"original_title,omitempty"`
	YearStarted   int                `bson:"year_started" json:"year_started"`
	YearEnded     int                `bson:"year_ended,omitempty" json:"year_ended,omitempty"`
	Creator       string             `bson:"creator" json:"creator"`
	Studio        string             `bson:"studio,omitempty" json:"studio,omitempty"`
	Runtime       int                `bson:"runtime,omitempty" json:"runtime,omitempty"`
	Genre         []string           `bson:"genre" json:"genre"`
	Rating        string             `bson:"rating,omitempty" json:"rating,omitempty"`
	Format        string             `bson:"format,omitempty" json:"format,omitempty"`
	Resolution    string             `bson:"resolution,omitempty" json:"resolution,omitempty"`
	Audio         []string           `bson:"audio,omitempty" json:"audio,omitempty"`
	Subtitles     []string           `bson:"subtitles,omitempty" json:"subtitles,omitempty"`
	Status        string             `bson:"status" json:"status"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Audit         `bson:",inline"`
}

type TVSeason struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ShowID        primitive.ObjectID `bson:"show_id" json:"show_id"`
	SeasonNumber  int                `bson:"season_number" json:"season_number"`
	Title         string             `bson:"title,omitempty" json:"title,omitempty"`
	ReleaseDate   string             `bson:"release_date,omitempty" json:"release_date,omitempty"` // ISO YYYY-MM-DD
	Runtime       int                `bson:"runtime,omitempty" json:"runtime,omitempty"`
	Rating        string             `bson:"rating,omitempty" json:"rating,omitempty"`
	Format        string             `bson:"format,omitempty" json:"format,omitempty"`
	Resolution    string             `bson:"resolution,omitempty" json:"resolution,omitempty"`
	Audio         []string           `bson:"audio,omitempty" json:"audio,omitempty"`
	Subtitles     []string           `bson:"subtitles,omitempty" json:"subtitles,omitempty"`
	TotalEpisodes int                `bson:"total_episodes,omitempty" json:"total_episodes,omitempty"`
	Status        string             `bson:"status" json:"status"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Audit         `bson:",inline"`
}
