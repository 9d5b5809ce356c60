// Package models defines the bookstore records persisted in the database.
package models

import "time"

// User is a registered account. PasswordHash is never serialized.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Email        string    `db:"email" json:"email"`
	Bio          string    `db:"bio" json:"bio,omitempty"`
	ProfilePic   string    `db:"profile_pic" json:"profile_pic,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ProfileUpdate is a partial update of a user's profile; nil fields are left
// unchanged.
type ProfileUpdate struct {
	Email      *string
	Bio        *string
	ProfilePic *string
}

// Empty reports whether the update changes nothing.
func (p ProfileUpdate) Empty() bool {
	return p.Email == nil && p.Bio == nil && p.ProfilePic == nil
}
