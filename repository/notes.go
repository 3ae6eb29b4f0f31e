package repository

import (
	"context"
	"errors"
	"time"

	"notevault/dto"
	"notevault/model"
	"notevault/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type NoteRepo struct {
	MongoCollection *mongo.Collection
}

func GetNoteRepo(db *mongo.Database) *NoteRepo {
	return &NoteRepo{
		MongoCollection: db.Collection("notes"),
	}
}

// Create inserts a fully populated note. The id is pre-assigned by the
// caller; a collision returns ErrNoteConflict.
func (r *NoteRepo) Create(ctx context.Context, note *model.Note) error {
	timer := utils.TrackDBOperation("insert", "notes")
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.InsertOne(ctx, note)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrNoteConflict
		}
		utils.TrackError("database", "note_creation_failed")
		return err
	}
	return nil
}

// GetByID returns the note or ErrNoteNotFound.
func (r *NoteRepo) GetByID(ctx context.Context, id string) (*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	var note model.Note
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&note)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoteNotFound
		}
		utils.TrackError("database", "note_lookup_error")
		return nil, err
	}
	return &note, nil
}

// ListByIDs fetches the notes for a set of ids. An id present in the
// ownership registry but missing from storage is skipped, not fatal.
func (r *NoteRepo) ListByIDs(ctx context.Context, ids []string) ([]*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	if len(ids) == 0 {
		return []*model.Note{}, nil
	}

	cursor, err := r.MongoCollection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		utils.TrackError("database", "note_list_error")
		return nil, err
	}
	defer cursor.Close(ctx)

	notes := []*model.Note{}
	if err = cursor.All(ctx, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// Replace applies a partial-tolerant full update: only fields carrying
// a value overwrite the stored ones, updated_at is always refreshed.
// Both the full-update and patch endpoints share this merge.
func (r *NoteRepo) Replace(ctx context.Context, id string, patch dto.NotePatch, updatedAt time.Time) (*model.Note, error) {
	timer := utils.TrackDBOperation("update", "notes")
	defer timer.ObserveDuration()

	set := bson.M{"updated_at": updatedAt}
	if patch.Title.Set() {
		set["title"] = patch.Title.Value
	}
	if patch.Body.Set() {
		set["body"] = patch.Body.Value
	}

	result, err := r.MongoCollection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		utils.TrackError("database", "note_update_error")
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, ErrNoteNotFound
	}

	return r.GetByID(ctx, id)
}

// Delete removes the note row. The second return is false when no row
// existed.
func (r *NoteRepo) Delete(ctx context.Context, id string) (bool, error) {
	timer := utils.TrackDBOperation("delete", "notes")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		utils.TrackError("database", "note_delete_error")
		return false, err
	}
	return result.DeletedCount > 0, nil
}
