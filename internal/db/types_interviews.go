package db

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered candidate with a parsed resume profile.
type User struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Skills     []string  `json:"skills"`
	Projects   []string  `json:"projects"`
	Experience []string  `json:"experience"`
}

// CompletedInterview is the persisted record of one finished interview,
// written exactly once per session at feedback time.
type CompletedInterview struct {
	ID                uuid.UUID `json:"id"`
	CandidateID       string    `json:"candidate_id"`
	Role              string    `json:"role"`
	Mode              string    `json:"mode"`
	Date              time.Time `json:"date"`
	Transcript        string    `json:"transcript"`
	Feedback          []byte    `json:"feedback"`
	AverageConfidence float64   `json:"average_confidence"`
	AverageFocus      float64   `json:"average_focus"`
}
