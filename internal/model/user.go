package model

import "time"

// Grade is a single subject result embedded in a User record.
type Grade struct {
	Subject string `json:"subject" bson:"subject"`
	Grade   string `json:"grade" bson:"grade"`
}

type User struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Password    string    `json:"-"` // hashed
	Resume      string    `json:"resume,omitempty"`
	CoverLetter string    `json:"cover_letter,omitempty"`
	Grades      []Grade   `json:"grades"`
	Created     time.Time `json:"created_at"`
}

// DefaultGrades returns the grade rows every new account starts with.
func DefaultGrades() []Grade {
	return []Grade{
		{Subject: "Operating Systems", Grade: "A"},
		{Subject: "Computer Networks", Grade: "B+"},
	}
}

// ProfileUpdate carries the optional fields of a profile change.
// A nil field is left untouched in storage.
type ProfileUpdate struct {
	Username    *string
	Email       *string
	Resume      *string
	CoverLetter *string
}

// Empty reports whether the update would not change anything.
func (u ProfileUpdate) Empty() bool {
	return u.Username == nil && u.Email == nil && u.Resume == nil && u.CoverLetter == nil
}
