package models

import "time"

type UserIdentity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}

// SessionHint mirrors the last known identity for fast-path session
// checks. It is a hint only: the identity provider always supersedes it.
type SessionHint struct {
	IsLoggedIn  bool      `json:"isLoggedIn"`
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	PhotoURL    string    `json:"photoURL"`
	Timestamp   time.Time `json:"timestamp"`
}
