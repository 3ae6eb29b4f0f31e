package model

import (
	"time"
)

// Note carries no owner field. Ownership lives in the registry
// collection, which is the sole authorization source.
type Note struct {
	UUID      string    `bson:"_id" json:"uuid"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
	Title     string    `bson:"title" json:"title"`
	Body      string    `bson:"body" json:"body"`
}
