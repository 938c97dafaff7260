package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Username     string             `bson:"username" json:"username"`
	Email        string             `bson:"email" json:"email"`
	FullName     string             `bson:"full_name,omitempty" json:"full_name,omitempty"`
	Disabled     bool               `bson:"disabled" json:"disabled"`
	PasswordHash string             `bson:"hashed_password" json:"-"`
	Roles        []string           `bson:"roles,omitempty" json:"roles,omitempty"`
	LastLogin    time.Time          `bson:"last_login,omitempty" json:"last_login,omitempty"`
	Audit        `bson:",inline"`
}
