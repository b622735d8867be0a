package assistant

import (
	"io"
	"strings"

	"documate/internal/history"
)

// DocumentUploadEvent is a file sent by an owner.
type DocumentUploadEvent struct {
	OwnerID      string
	FileName     string
	DeclaredType string
	Body         io.Reader
}

// QuestionEvent is a question about the owner's active document.
type QuestionEvent struct {
	OwnerID  string
	Question string
}

// ResetEvent asks to forget the owner's active document.
type ResetEvent struct {
	OwnerID string
}

// Kind tells front ends how an event was resolved.
type Kind string

const (
	KindFileReceived        Kind = "file_received"
	KindAnswer              Kind = "answer"
	KindCleared             Kind = "cleared"
	KindNothingToClear      Kind = "nothing_to_clear"
	KindUnsupportedFormat   Kind = "unsupported_format"
	KindTooLarge            Kind = "too_large"
	KindNoDocument          Kind = "no_document"
	KindEmptyQuestion       Kind = "empty_question"
	KindExtractionFailed    Kind = "extraction_failed"
	KindSummarizationFailed Kind = "summarization_failed"
	KindStorageFailed       Kind = "storage_failed"
)

// OutboundMessage is the single reply produced for every event.
type OutboundMessage struct {
	Kind Kind   `json:"kind"`
	Text string `json:"message"`
}

// Failed reports whether the message describes a failure or a refusal.
func (m OutboundMessage) Failed() bool {
	switch m.Kind {
	case KindFileReceived, KindAnswer, KindCleared, KindNothingToClear:
		return false
	default:
		return true
	}
}

const (
	msgUnsupportedFormat = "Unsupported file type. Please upload a PDF, DOCX, or PPTX file."
	msgFileReceived      = "File received! Now, you can ask questions related to this document."
	msgNoDocument        = "Please upload a document first. document should be a PDF, DOCX, or PPTX file."
	msgEmptyQuestion     = "Please enter a question about your document."
	msgStorageFailed     = "Sorry, I could not store your file. Please try again."
	msgTooLarge          = "Sorry, this file is too large. Please upload a smaller PDF, DOCX, or PPTX file."
	msgCleared           = "Your document has been cleared. Upload a new PDF, DOCX, or PPTX file to continue."
	msgNothingToClear    = "There is no active document to clear."
	extractionPrefix     = "An error occurred while processing the file: "
	answerPrefix         = "Answer:\n"
)

func summarizationFailedText(reason string) string {
	return "Sorry, I could not generate an answer (" + reason + "). Please try again later."
}

// MaxExcerptRunes bounds the document text sent with a question.
const MaxExcerptRunes = 3000

// Truncate returns the first limit code points of text.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	n := 0
	for i := range text {
		if n == limit {
			return text[:i]
		}
		n++
	}
	return text
}

// PromptRequest is the question and excerpt submitted for one answer.
type PromptRequest struct {
	OwnerID  string
	Question string
	Excerpt  string
}

// Prompt renders the request with the fixed question/document framing.
func (p PromptRequest) Prompt() string {
	return BuildPrompt(p.Question, p.Excerpt)
}

// BuildPrompt frames a question and document excerpt for the summarizer.
func BuildPrompt(question, excerpt string) string {
	var b strings.Builder
	b.Grow(len(question) + len(excerpt) + 34)
	b.WriteString("User Prompt:\n")
	b.WriteString(question)
	b.WriteString("\n\nDocument Text:\n")
	b.WriteString(excerpt)
	return b.String()
}

var outcomes = map[Kind]history.Outcome{
	KindFileReceived:        history.OutcomeOK,
	KindAnswer:              history.OutcomeOK,
	KindCleared:             history.OutcomeOK,
	KindNothingToClear:      history.OutcomeNoDocument,
	KindUnsupportedFormat:   history.OutcomeUnsupportedFormat,
	KindTooLarge:            history.OutcomeTooLarge,
	KindNoDocument:          history.OutcomeNoDocument,
	KindEmptyQuestion:       history.OutcomeEmptyQuestion,
	KindExtractionFailed:    history.OutcomeExtractionFailed,
	KindSummarizationFailed: history.OutcomeSummarizationFailed,
	KindStorageFailed:       history.OutcomeStorageFailed,
}
