package model

// User is an account record. The password is stored only as a salted
// argon2id hash, never raw.
type User struct {
	Username     string `bson:"_id" json:"username"`
	PasswordHash string `bson:"password_hash" json:"-"`
}
