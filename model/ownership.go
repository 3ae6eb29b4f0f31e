package model

// OwnershipEntry links a note to the user who created it. Exactly one
// entry exists per note; it is inserted in the same transaction as the
// note and removed in the same transaction as the delete. Ownership
// never transfers.
type OwnershipEntry struct {
	Username string `bson:"username" json:"username"`
	NoteID   string `bson:"note_id" json:"note_id"`
}
