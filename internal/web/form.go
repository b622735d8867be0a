package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"documate/internal/assistant"
	"documate/internal/shared/server/middleware"
)

type pageData struct {
	Message  string
	Failed   bool
	Document *documentResponse
	Question string
}

func (h *Handler) page(c *gin.Context) {
	h.render(c, http.StatusOK, nil, defaultQuestion)
}

func (h *Handler) formUpload(c *gin.Context) {
	ev, closeFn, err := h.readUpload(c)
	if err != nil {
		msg := assistant.OutboundMessage{Kind: assistant.KindUnsupportedFormat, Text: "Please choose a PDF, DOCX, or PPTX file to upload."}
		status := http.StatusBadRequest
		if errors.Is(err, errUploadTooLarge) {
			msg = assistant.OutboundMessage{Kind: assistant.KindTooLarge, Text: "Sorry, this file is too large. Please upload a smaller PDF, DOCX, or PPTX file."}
			status = http.StatusRequestEntityTooLarge
		}
		h.render(c, status, &msg, defaultQuestion)
		return
	}
	defer closeFn()

	msg := h.Assistant.HandleUpload(c.Request.Context(), ev)
	h.noteOutcome(c, msg)
	h.render(c, pageStatus(msg), &msg, defaultQuestion)
}

func (h *Handler) formAsk(c *gin.Context) {
	question := c.PostForm("question")
	msg := h.Assistant.HandleQuestion(c.Request.Context(), assistant.QuestionEvent{
		OwnerID:  middleware.OwnerIDFromContext(c),
		Question: question,
	})
	h.noteOutcome(c, msg)
	if question == "" {
		question = defaultQuestion
	}
	h.render(c, pageStatus(msg), &msg, question)
}

func (h *Handler) formReset(c *gin.Context) {
	msg := h.Assistant.HandleReset(c.Request.Context(), assistant.ResetEvent{OwnerID: middleware.OwnerIDFromContext(c)})
	h.noteOutcome(c, msg)
	h.render(c, http.StatusOK, &msg, defaultQuestion)
}

// pageStatus keeps successful page renders at 200 while failures carry the API status.
func pageStatus(msg assistant.OutboundMessage) int {
	if !msg.Failed() {
		return http.StatusOK
	}
	return statusFor(msg.Kind)
}

func (h *Handler) render(c *gin.Context, status int, msg *assistant.OutboundMessage, question string) {
	data := pageData{Question: question}
	if msg != nil {
		data.Message = msg.Text
		data.Failed = msg.Failed()
	}
	if ref, ok := h.Assistant.ActiveDocument(middleware.OwnerIDFromContext(c)); ok {
		data.Document = toDocumentResponse(ref)
	}
	c.Render(status, render.HTML{Template: pageTemplate, Name: "index.html", Data: data})
}
