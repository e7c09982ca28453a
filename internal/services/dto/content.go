package dto

import "time"

type ContentRequest struct {
	Description string `json:"description" validate:"required"`
}

type ContentResponse struct {
	ID          uint      `json:"id"`
	Description string    `json:"description"`
	LastUpdated time.Time `json:"last_updated"`
}

type ContactQueryRequest struct {
	Name    string `json:"name" validate:"required,max=155"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Message string `json:"message" validate:"required,max=500"`
}

type ContactQueryResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type ThoughtRequest struct {
	Thoughts string `json:"thoughts" validate:"required,max=5000"`
}

type ThoughtResponse struct {
	ID        uint      `json:"id"`
	User      string    `json:"user"`
	Thoughts  string    `json:"thoughts"`
	CreatedAt time.Time `json:"created_at"`
}
