// Package bot is the Telegram front end: files become uploads, text becomes
// questions, and /reset clears the chat's document.
package bot

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"documate/internal/assistant"
	"documate/internal/documents"
	"documate/internal/shared/telemetry"
)

const (
	msgWelcome = "Welcome to DocuMate! Send me a PDF, DOCX, or PPTX file and then ask questions about it."
	msgHelp    = "Send a PDF, DOCX, or PPTX file, then ask a question about it as a normal message.\n" +
		"/reset clears your current document.\n/help shows this message."
	msgDownloadFailed = "Sorry, I could not download your file. Please try again."

	// maxMessageRunes is Telegram's limit for one text message.
	maxMessageRunes = 4096
)

// Assistant is the orchestrator surface the bot drives.
type Assistant interface {
	HandleUpload(ctx context.Context, ev assistant.DocumentUploadEvent) assistant.OutboundMessage
	HandleQuestion(ctx context.Context, ev assistant.QuestionEvent) assistant.OutboundMessage
	HandleReset(ctx context.Context, ev assistant.ResetEvent) assistant.OutboundMessage
}

// Sender delivers outgoing messages; *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// FileFetcher downloads a file attached to a message.
type FileFetcher interface {
	Fetch(ctx context.Context, fileID string) (io.ReadCloser, error)
}

// Bot turns Telegram updates into assistant events.
type Bot struct {
	Assistant Assistant
	Sender    Sender
	Files     FileFetcher
	// Workers is the number of goroutines Run dispatches chats across.
	Workers int
	// DrainTimeout bounds how long queued updates keep running after shutdown.
	DrainTimeout time.Duration
}

// OwnerID is the session owner for a Telegram chat.
func OwnerID(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}

// HandleUpdate processes one update and sends the reply to its chat.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID
	owner := OwnerID(chatID)

	switch {
	case msg.IsCommand():
		b.handleCommand(ctx, chatID, owner, msg.Command())
	case msg.Document != nil:
		b.handleDocument(ctx, chatID, owner, msg.Document)
	case strings.TrimSpace(msg.Text) != "":
		reply := b.Assistant.HandleQuestion(ctx, assistant.QuestionEvent{OwnerID: owner, Question: msg.Text})
		b.send(chatID, reply.Text)
	default:
		b.send(chatID, msgHelp)
	}
}

func (b *Bot) handleCommand(ctx context.Context, chatID int64, owner, command string) {
	switch command {
	case "start":
		b.send(chatID, msgWelcome)
	case "reset":
		reply := b.Assistant.HandleReset(ctx, assistant.ResetEvent{OwnerID: owner})
		b.send(chatID, reply.Text)
	default:
		b.send(chatID, msgHelp)
	}
}

func (b *Bot) handleDocument(ctx context.Context, chatID int64, owner string, doc *tgbotapi.Document) {
	ev := assistant.DocumentUploadEvent{
		OwnerID:      owner,
		FileName:     doc.FileName,
		DeclaredType: doc.MimeType,
	}
	// Unsupported files are rejected by the assistant without being downloaded.
	if !documents.DetectFormat(doc.MimeType, doc.FileName).Supported() {
		b.send(chatID, b.Assistant.HandleUpload(ctx, ev).Text)
		return
	}

	body, err := b.Files.Fetch(ctx, doc.FileID)
	if err != nil {
		telemetry.Error("bot.download_failed", map[string]any{
			"owner_id":  owner,
			"file_name": doc.FileName,
			"error":     err,
		})
		b.send(chatID, msgDownloadFailed)
		return
	}
	defer body.Close()

	ev.Body = body
	b.send(chatID, b.Assistant.HandleUpload(ctx, ev).Text)
}

func (b *Bot) send(chatID int64, text string) {
	for _, part := range splitMessage(text, maxMessageRunes) {
		if _, err := b.Sender.Send(tgbotapi.NewMessage(chatID, part)); err != nil {
			telemetry.Warn("bot.send_failed", map[string]any{
				"owner_id": OwnerID(chatID),
				"error":    err,
			})
			return
		}
	}
}

// splitMessage cuts text into chunks of at most limit runes, preferring line breaks.
func splitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}
	var parts []string
	for utf8.RuneCountInString(text) > limit {
		cut := assistant.Truncate(text, limit)
		if i := strings.LastIndexByte(cut, '\n'); i > 0 {
			cut = cut[:i]
			parts = append(parts, cut)
			text = text[i+1:]
			continue
		}
		parts = append(parts, cut)
		text = text[len(cut):]
	}
	if text != "" {
		parts = append(parts, text)
	}
	return parts
}
