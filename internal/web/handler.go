// Package web serves the interactive upload form and its JSON API.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"documate/internal/assistant"
	"documate/internal/documents"
	"documate/internal/history"
	"documate/internal/shared/server/middleware"
)

//go:embed templates/*.html
var templateFiles embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFiles, "templates/index.html"))

const (
	defaultQuestion       = "Summarize the main points"
	multipartOverheadSize = 1 << 20
)

// Assistant is the orchestrator surface the web front end drives.
type Assistant interface {
	HandleUpload(ctx context.Context, ev assistant.DocumentUploadEvent) assistant.OutboundMessage
	HandleQuestion(ctx context.Context, ev assistant.QuestionEvent) assistant.OutboundMessage
	HandleReset(ctx context.Context, ev assistant.ResetEvent) assistant.OutboundMessage
	ActiveDocument(ownerID string) (documents.Reference, bool)
}

// Handler wires HTTP handlers to the assistant.
type Handler struct {
	Assistant      Assistant
	History        history.Repo
	MaxUploadBytes int64
}

// NewHandler constructs a Handler. hist may be nil.
func NewHandler(svc Assistant, hist history.Repo, maxUploadBytes int64) *Handler {
	return &Handler{Assistant: svc, History: hist, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches the form and API routes.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.page)
	r.POST("/upload", h.formUpload)
	r.POST("/ask", h.formAsk)
	r.POST("/reset", h.formReset)

	api := r.Group("/api/v1")
	api.POST("/documents", h.apiUpload)
	api.POST("/questions", h.apiAsk)
	api.GET("/session", h.apiSession)
	api.DELETE("/session", h.apiReset)
	api.GET("/history", h.apiHistory)
}

var errUploadTooLarge = errors.New("upload too large")

// readUpload pulls the multipart "file" field into an upload event.
// The returned closer must be called once the event has been handled.
func (h *Handler) readUpload(c *gin.Context) (assistant.DocumentUploadEvent, func(), error) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes+multipartOverheadSize)
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return assistant.DocumentUploadEvent{}, nil, errUploadTooLarge
		}
		return assistant.DocumentUploadEvent{}, nil, err
	}
	if h.MaxUploadBytes > 0 && fileHeader.Size > h.MaxUploadBytes {
		return assistant.DocumentUploadEvent{}, nil, errUploadTooLarge
	}
	file, err := fileHeader.Open()
	if err != nil {
		return assistant.DocumentUploadEvent{}, nil, err
	}
	ev := assistant.DocumentUploadEvent{
		OwnerID:      middleware.OwnerIDFromContext(c),
		FileName:     fileHeader.Filename,
		DeclaredType: fileHeader.Header.Get("Content-Type"),
		Body:         file,
	}
	return ev, func() { _ = file.Close() }, nil
}

func (h *Handler) noteOutcome(c *gin.Context, msg assistant.OutboundMessage) {
	c.Set("outcome", string(msg.Kind))
	if ref, ok := h.Assistant.ActiveDocument(middleware.OwnerIDFromContext(c)); ok {
		c.Set(middleware.DocumentIDKey, ref.ID)
	}
}

type documentResponse struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	Format     string    `json:"format"`
	SizeBytes  int64     `json:"sizeBytes"`
	UploadedAt time.Time `json:"uploadedAt"`
}

func toDocumentResponse(ref documents.Reference) *documentResponse {
	return &documentResponse{
		ID:         ref.ID,
		FileName:   ref.FileName,
		Format:     string(ref.Format),
		SizeBytes:  ref.SizeBytes,
		UploadedAt: ref.UploadedAt,
	}
}
