package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/tasknest/tasknest-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// UserResponse is the public shape of a user. The password hash is never
// part of any response.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUserResponse strips a domain user down to its public fields.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// CreateTaskRequest defines the payload for the task creation endpoint.
// Everything but the title is optional and falls back to the task defaults.
type CreateTaskRequest struct {
	Title       string     `json:"title"       validate:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"    validate:"omitempty,oneof=low medium high"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
	DueDate     *time.Time `json:"dueDate"`
}

// UpdateTaskRequest defines the payload for the task update endpoint.
// All fields are pointers so a partial body only touches the fields it
// names: a nil pointer means "leave unchanged" while a present key is
// applied even when it carries a zero value (false, "", empty list).
// For every field except dueDate a JSON null is indistinguishable from an
// absent key and leaves the field unchanged; an explicit "dueDate": null
// clears the due date (the handler detects the raw key).
type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Completed   *bool      `json:"completed"`
	Priority    *string    `json:"priority"    validate:"omitempty,oneof=low medium high"`
	Category    *string    `json:"category"`
	Tags        *[]string  `json:"tags"`
	DueDate     *time.Time `json:"dueDate"`
}

// AckResponse acknowledges an operation that returns no entity.
type AckResponse struct {
	Message string `json:"message"`
}
