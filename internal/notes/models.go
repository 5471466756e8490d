package notes

import "time"

type Note struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateNoteRequest is the POST body. Content is a pointer so that a
// missing field and an explicit null are both caught by validation.
type CreateNoteRequest struct {
	Content *string `json:"content" validate:"required,min=1"`
}

type DeleteNoteResponse struct {
	Message string `json:"message"`
	Note    Note   `json:"note"`
}

type errorResponse struct {
	Error string `json:"error"`
}
