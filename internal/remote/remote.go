// Package remote implements the document-store ports on Cloud Firestore.
// Both collections are scoped by owner id and ordered by creation time
// descending; document ids are client-generated UUIDs.
package remote

const (
	categoriesCollection = "categories"
	tasksCollection      = "tasks"

	ownerField     = "userId"
	createdAtField = "createdAt"
	updatedAtField = "updatedAt"
	categoryField  = "categoryId"
)
