package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"documate/internal/assistant"
	"documate/internal/history"
	"documate/internal/shared/server/middleware"
	"documate/internal/shared/server/respond"
)

var kindStatus = map[assistant.Kind]int{
	assistant.KindFileReceived:        http.StatusCreated,
	assistant.KindAnswer:              http.StatusOK,
	assistant.KindCleared:             http.StatusOK,
	assistant.KindNothingToClear:      http.StatusNotFound,
	assistant.KindUnsupportedFormat:   http.StatusUnsupportedMediaType,
	assistant.KindTooLarge:            http.StatusRequestEntityTooLarge,
	assistant.KindNoDocument:          http.StatusConflict,
	assistant.KindEmptyQuestion:       http.StatusBadRequest,
	assistant.KindExtractionFailed:    http.StatusUnprocessableEntity,
	assistant.KindSummarizationFailed: http.StatusBadGateway,
	assistant.KindStorageFailed:       http.StatusInternalServerError,
}

func statusFor(kind assistant.Kind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

type messageResponse struct {
	Kind     assistant.Kind    `json:"kind"`
	Message  string            `json:"message"`
	Document *documentResponse `json:"document,omitempty"`
}

func (h *Handler) reply(c *gin.Context, msg assistant.OutboundMessage) {
	h.noteOutcome(c, msg)
	status := statusFor(msg.Kind)
	if msg.Failed() {
		respond.Error(c, status, string(msg.Kind), msg.Text, nil)
		return
	}
	resp := messageResponse{Kind: msg.Kind, Message: msg.Text}
	if ref, ok := h.Assistant.ActiveDocument(middleware.OwnerIDFromContext(c)); ok {
		resp.Document = toDocumentResponse(ref)
	}
	respond.JSON(c, status, resp)
}

func (h *Handler) apiUpload(c *gin.Context) {
	ev, closeFn, err := h.readUpload(c)
	if err != nil {
		if errors.Is(err, errUploadTooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, string(assistant.KindTooLarge), "file too large", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	defer closeFn()

	h.reply(c, h.Assistant.HandleUpload(c.Request.Context(), ev))
}

type questionRequest struct {
	Question string `json:"question"`
}

func (h *Handler) apiAsk(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	h.reply(c, h.Assistant.HandleQuestion(c.Request.Context(), assistant.QuestionEvent{
		OwnerID:  middleware.OwnerIDFromContext(c),
		Question: req.Question,
	}))
}

func (h *Handler) apiReset(c *gin.Context) {
	h.reply(c, h.Assistant.HandleReset(c.Request.Context(), assistant.ResetEvent{
		OwnerID: middleware.OwnerIDFromContext(c),
	}))
}

func (h *Handler) apiSession(c *gin.Context) {
	ref, ok := h.Assistant.ActiveDocument(middleware.OwnerIDFromContext(c))
	if !ok {
		respond.OK(c, gin.H{"active": false})
		return
	}
	c.Set(middleware.DocumentIDKey, ref.ID)
	respond.OK(c, gin.H{"active": true, "document": toDocumentResponse(ref)})
}

func (h *Handler) apiHistory(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be a positive integer", nil)
			return
		}
		limit = parsed
	}
	if h.History == nil {
		respond.OK(c, gin.H{"items": []history.Interaction{}})
		return
	}
	items, err := h.History.ListByOwner(c.Request.Context(), middleware.OwnerIDFromContext(c), limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load history", nil)
		return
	}
	if items == nil {
		items = []history.Interaction{}
	}
	respond.OK(c, gin.H{"items": items})
}
