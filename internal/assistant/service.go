// Package assistant sequences uploads, questions and resets through the
// session store, document storage, text extraction and the summarizer.
// Every collaborator failure ends here as one OutboundMessage.
package assistant

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"documate/internal/documents"
	"documate/internal/extract"
	"documate/internal/history"
	"documate/internal/llm"
	"documate/internal/sessions"
	"documate/internal/shared/metrics"
	"documate/internal/shared/telemetry"
)

// DocumentStore persists uploads and releases superseded ones.
type DocumentStore interface {
	Save(ctx context.Context, ownerID, fileName string, format documents.Format, r io.Reader) (documents.Reference, error)
	Release(ctx context.Context, ref documents.Reference) error
}

// TextExtractor returns the plain text behind a document reference.
type TextExtractor interface {
	Extract(ctx context.Context, ref documents.Reference) (string, error)
}

// Service is the orchestrator shared by every front end.
type Service struct {
	Sessions   *sessions.Store
	Docs       DocumentStore
	Extractor  TextExtractor
	Summarizer llm.Summarizer
	// History is optional; nil disables the interaction audit.
	History history.Repo
	// Timeout bounds each summarization call; zero means no bound.
	Timeout time.Duration
}

// HandleUpload stores a new document and makes it the owner's active one.
func (s *Service) HandleUpload(ctx context.Context, ev DocumentUploadEvent) OutboundMessage {
	format := documents.DetectFormat(ev.DeclaredType, ev.FileName)
	fields := map[string]any{
		"owner_id":      ev.OwnerID,
		"file_name":     ev.FileName,
		"declared_type": ev.DeclaredType,
		"format":        string(format),
	}
	entry := history.Interaction{OwnerID: ev.OwnerID, Kind: history.KindUpload, FileName: ev.FileName, Format: string(format)}

	if !format.Supported() {
		metrics.IncUploadsRejected()
		telemetry.Info("assistant.upload_rejected", fields)
		return s.reply(ctx, entry, OutboundMessage{Kind: KindUnsupportedFormat, Text: msgUnsupportedFormat})
	}
	if ev.Body == nil {
		metrics.IncStorageFailed()
		fields["error"] = "missing body"
		telemetry.Error("assistant.upload_store_failed", fields)
		return s.reply(ctx, entry, OutboundMessage{Kind: KindStorageFailed, Text: msgStorageFailed})
	}

	ref, err := s.Docs.Save(ctx, ev.OwnerID, ev.FileName, format, ev.Body)
	if err != nil {
		fields["error"] = err
		if errors.Is(err, documents.ErrTooLarge) {
			metrics.IncUploadsRejected()
			telemetry.Info("assistant.upload_rejected", fields)
			return s.reply(ctx, entry, OutboundMessage{Kind: KindTooLarge, Text: msgTooLarge})
		}
		if errors.Is(err, documents.ErrContentMismatch) {
			metrics.IncUploadsRejected()
			telemetry.Info("assistant.upload_rejected", fields)
			return s.reply(ctx, entry, OutboundMessage{Kind: KindUnsupportedFormat, Text: msgUnsupportedFormat})
		}
		metrics.IncStorageFailed()
		telemetry.Error("assistant.upload_store_failed", fields)
		return s.reply(ctx, entry, OutboundMessage{Kind: KindStorageFailed, Text: msgStorageFailed})
	}

	prev, replaced := s.Sessions.SetActive(ev.OwnerID, ref)
	if replaced {
		s.release(ctx, prev, "replaced")
	}
	metrics.IncUploads()
	metrics.SetActiveSessions(s.Sessions.Len())

	fields["document_id"] = ref.ID
	fields["size_bytes"] = ref.SizeBytes
	fields["replaced"] = replaced
	telemetry.Info("assistant.upload_accepted", fields)

	entry.DocumentID = ref.ID
	return s.reply(ctx, entry, OutboundMessage{Kind: KindFileReceived, Text: msgFileReceived})
}

// HandleQuestion answers a question against the owner's active document.
func (s *Service) HandleQuestion(ctx context.Context, ev QuestionEvent) OutboundMessage {
	question := strings.TrimSpace(ev.Question)
	entry := history.Interaction{OwnerID: ev.OwnerID, Kind: history.KindQuestion, Question: question}
	ref, ok := s.Sessions.Active(ev.OwnerID)
	if !ok {
		telemetry.Info("assistant.question_without_document", map[string]any{"owner_id": ev.OwnerID})
		return s.reply(ctx, entry, OutboundMessage{Kind: KindNoDocument, Text: msgNoDocument})
	}
	if question == "" {
		return s.reply(ctx, entry, OutboundMessage{Kind: KindEmptyQuestion, Text: msgEmptyQuestion})
	}
	metrics.IncQuestions()
	entry.DocumentID = ref.ID
	entry.FileName = ref.FileName
	entry.Format = string(ref.Format)

	fields := map[string]any{
		"owner_id":    ev.OwnerID,
		"document_id": ref.ID,
		"format":      string(ref.Format),
	}

	text, err := s.Extractor.Extract(ctx, ref)
	if err != nil {
		metrics.IncExtractionFailed()
		fields["error"] = err
		telemetry.Error("assistant.extraction_failed", fields)
		return s.reply(ctx, entry, OutboundMessage{Kind: KindExtractionFailed, Text: extractionPrefix + describeExtraction(err)})
	}

	req := PromptRequest{OwnerID: ev.OwnerID, Question: question, Excerpt: Truncate(text, MaxExcerptRunes)}
	fields["text_chars"] = utf8.RuneCountInString(text)
	fields["excerpt_chars"] = utf8.RuneCountInString(req.Excerpt)

	answer, err := s.summarize(ctx, req.Prompt())
	if err != nil {
		metrics.IncSummarizationFailed()
		fields["error"] = err
		var llmErr *llm.Error
		if errors.As(err, &llmErr) {
			fields["error_kind"] = string(llmErr.Kind)
		}
		telemetry.Error("assistant.summarization_failed", fields)
		return s.reply(ctx, entry, OutboundMessage{Kind: KindSummarizationFailed, Text: summarizationFailedText(llm.SafeReason(err))})
	}

	metrics.IncAnswers()
	entry.AnswerChars = utf8.RuneCountInString(answer)
	fields["answer_chars"] = entry.AnswerChars
	telemetry.Info("assistant.answered", fields)
	return s.reply(ctx, entry, OutboundMessage{Kind: KindAnswer, Text: answerPrefix + answer})
}

// HandleReset forgets the owner's active document and releases its storage.
func (s *Service) HandleReset(ctx context.Context, ev ResetEvent) OutboundMessage {
	entry := history.Interaction{OwnerID: ev.OwnerID, Kind: history.KindReset}
	prev, ok := s.Sessions.Clear(ev.OwnerID)
	if !ok {
		return s.reply(ctx, entry, OutboundMessage{Kind: KindNothingToClear, Text: msgNothingToClear})
	}
	s.release(ctx, prev, "reset")
	metrics.IncSessionResets()
	metrics.SetActiveSessions(s.Sessions.Len())
	telemetry.Info("assistant.reset", map[string]any{"owner_id": ev.OwnerID, "document_id": prev.ID})

	entry.DocumentID = prev.ID
	entry.FileName = prev.FileName
	entry.Format = string(prev.Format)
	return s.reply(ctx, entry, OutboundMessage{Kind: KindCleared, Text: msgCleared})
}

// ActiveDocument returns the owner's active document, if any.
func (s *Service) ActiveDocument(ownerID string) (documents.Reference, bool) {
	return s.Sessions.Active(ownerID)
}

// Close drains every session and releases the stored documents.
func (s *Service) Close(ctx context.Context) error {
	refs := s.Sessions.Drain()
	metrics.SetActiveSessions(0)
	var errs []error
	for _, ref := range refs {
		if err := s.Docs.Release(ctx, ref); err != nil {
			errs = append(errs, err)
		}
	}
	telemetry.Info("assistant.closed", map[string]any{"released": len(refs) - len(errs), "failed": len(errs)})
	return errors.Join(errs...)
}

func (s *Service) summarize(ctx context.Context, prompt string) (string, error) {
	callCtx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	start := time.Now()
	answer, err := s.Summarizer.Summarize(callCtx, prompt)
	metrics.ObserveSummarizationDurationMs(float64(time.Since(start).Milliseconds()))
	if err != nil {
		var llmErr *llm.Error
		if !errors.As(err, &llmErr) && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			err = &llm.Error{Kind: llm.KindTimeout, Err: err}
		}
		return "", err
	}
	return answer, nil
}

func (s *Service) release(ctx context.Context, ref documents.Reference, reason string) {
	if err := s.Docs.Release(ctx, ref); err != nil {
		telemetry.Warn("assistant.release_failed", map[string]any{
			"owner_id":    ref.OwnerID,
			"document_id": ref.ID,
			"reason":      reason,
			"error":       err,
		})
	}
}

func (s *Service) reply(ctx context.Context, entry history.Interaction, msg OutboundMessage) OutboundMessage {
	if s.History == nil {
		return msg
	}
	entry.Outcome = outcomes[msg.Kind]
	if err := s.History.Append(ctx, entry); err != nil {
		telemetry.Warn("assistant.history_append_failed", map[string]any{
			"owner_id": entry.OwnerID,
			"kind":     string(entry.Kind),
			"error":    err,
		})
	}
	return msg
}

func describeExtraction(err error) string {
	var extractErr *extract.Error
	if errors.As(err, &extractErr) {
		return extractErr.Description()
	}
	return "the document could not be read"
}
