package history

import (
	"errors"
	"time"
)

// ErrInvalidInput indicates an interaction without an owner or kind.
var ErrInvalidInput = errors.New("invalid input")

// Kind is the event an interaction records.
type Kind string

const (
	KindUpload   Kind = "upload"
	KindQuestion Kind = "question"
	KindReset    Kind = "reset"
)

// Outcome is how the orchestrator resolved the event.
type Outcome string

const (
	OutcomeOK                  Outcome = "ok"
	OutcomeUnsupportedFormat   Outcome = "unsupported_format"
	OutcomeNoDocument          Outcome = "no_document"
	OutcomeEmptyQuestion       Outcome = "empty_question"
	OutcomeExtractionFailed    Outcome = "extraction_failed"
	OutcomeSummarizationFailed Outcome = "summarization_failed"
	OutcomeStorageFailed       Outcome = "storage_failed"
	OutcomeTooLarge            Outcome = "too_large"
)

// Interaction is one audited upload, question or reset.
// It is never used to restore a session.
type Interaction struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Kind        Kind      `json:"kind"`
	DocumentID  string    `json:"documentId,omitempty"`
	FileName    string    `json:"fileName,omitempty"`
	Format      string    `json:"format,omitempty"`
	Question    string    `json:"question,omitempty"`
	Outcome     Outcome   `json:"outcome"`
	AnswerChars int       `json:"answerChars"`
	CreatedAt   time.Time `json:"createdAt"`
}
