package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupIndexes creates the indexes backing the ownership invariants:
// one registry entry per note, fast per-user listing.
func SetupIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	registryCollection := db.Collection("registry")

	registryIndexes := []mongo.IndexModel{
		// Exactly one owner per note
		{
			Keys: bson.D{{Key: "note_id", Value: 1}},
			Options: options.Index().
				SetName("registry_note_id").
				SetUnique(true),
		},
		// Per-user listing
		{
			Keys: bson.D{{Key: "username", Value: 1}},
			Options: options.Index().
				SetName("registry_username"),
		},
	}

	_, err := registryCollection.Indexes().CreateMany(ctx, registryIndexes)
	if err != nil {
		return fmt.Errorf("failed to create registry indexes: %w", err)
	}

	log.Println("Successfully created all indexes")
	return nil
}
