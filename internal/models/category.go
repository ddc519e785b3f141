package models

import "time"

type Category struct {
	ID        string    `firestore:"id" json:"id"`
	Name      string    `firestore:"name" json:"name"`
	Color     string    `firestore:"color" json:"color"`
	OwnerID   string    `firestore:"userId" json:"userId"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}

type CreateCategoryData struct {
	Name  string
	Color string
}

// UpdateCategoryData is a partial patch: nil fields are left untouched.
type UpdateCategoryData struct {
	Name  *string
	Color *string
}
