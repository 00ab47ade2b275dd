package domain

type DocumentID string

// Document is the durable snapshot held by the store. The session layer
// only ever writes Title and Content; Description rides along read-only.
type Document struct {
	ID          DocumentID `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Content     string     `json:"content"`
}

const DefaultTitle = "Untitled Document"
