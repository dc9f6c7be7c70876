package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/cv-perfecto/internal/contacts"
)

// Role is a user's authorization role.
type Role string

// Roles
const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User represents an account
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize to JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ResumeStatus is the externally visible state of a résumé record.
type ResumeStatus string

// Resume statuses
const (
	StatusProcessing ResumeStatus = "processing"
	StatusCompleted  ResumeStatus = "completed"
	StatusFailed     ResumeStatus = "failed"
)

// Resume is one optimization request and its outputs.
type Resume struct {
	ID                uuid.UUID         `json:"id"`
	UserID            uuid.UUID         `json:"user_id"`
	OriginalFileName  string            `json:"original_file_name"`
	JobDescription    string            `json:"job_description"`
	ExtractedText     string            `json:"extracted_text"`
	ExtractedContacts contacts.Contacts `json:"extracted_contacts"`
	OptimizedLatex    string            `json:"optimized_latex"`
	Status            ResumeStatus      `json:"status"`
	Stage             string            `json:"stage"`
	Error             *string           `json:"error,omitempty"`
	OutputKey         string            `json:"output_key,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}
