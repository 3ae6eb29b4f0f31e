package repository

import (
	"context"

	"notevault/model"
	"notevault/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// RegistryRepo persists ownership entries. There is no update
// operation, ownership is immutable once recorded.
type RegistryRepo struct {
	MongoCollection *mongo.Collection
}

func GetRegistryRepo(db *mongo.Database) *RegistryRepo {
	return &RegistryRepo{
		MongoCollection: db.Collection("registry"),
	}
}

// Add records the owner link. Called only inside the create-note
// transaction.
func (r *RegistryRepo) Add(ctx context.Context, entry *model.OwnershipEntry) error {
	timer := utils.TrackDBOperation("insert", "registry")
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.InsertOne(ctx, entry)
	if err != nil {
		utils.TrackError("database", "registry_insert_failed")
	}
	return err
}

// ListNoteIDs returns the ids of all notes owned by a user, in no
// particular order.
func (r *RegistryRepo) ListNoteIDs(ctx context.Context, username string) ([]string, error) {
	timer := utils.TrackDBOperation("find", "registry")
	defer timer.ObserveDuration()

	cursor, err := r.MongoCollection.Find(ctx, bson.M{"username": username})
	if err != nil {
		utils.TrackError("database", "registry_list_error")
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []model.OwnershipEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}

	ids := make([]string, len(entries))
	for i, entry := range entries {
		ids[i] = entry.NoteID
	}
	return ids, nil
}

// Owns reports whether the user holds the ownership entry for a note.
func (r *RegistryRepo) Owns(ctx context.Context, username, noteID string) (bool, error) {
	timer := utils.TrackDBOperation("find", "registry")
	defer timer.ObserveDuration()

	count, err := r.MongoCollection.CountDocuments(ctx,
		bson.M{"username": username, "note_id": noteID})
	if err != nil {
		utils.TrackError("database", "registry_lookup_error")
		return false, err
	}
	return count > 0, nil
}

// Remove deletes the owner link. Called only inside the delete-note
// transaction.
func (r *RegistryRepo) Remove(ctx context.Context, noteID string) error {
	timer := utils.TrackDBOperation("delete", "registry")
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.DeleteOne(ctx, bson.M{"note_id": noteID})
	if err != nil {
		utils.TrackError("database", "registry_delete_failed")
	}
	return err
}
