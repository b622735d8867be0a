package assistant

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"documate/internal/documents"
	"documate/internal/extract"
	"documate/internal/sessions"
	"documate/internal/shared/storage/object/local"
)

func docxWithParagraphs(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body bytes.Buffer
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("zip create: %v", err)
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		t.Fatalf("zip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func TestPipelineWithLocalStorage(t *testing.T) {
	dir := t.TempDir()
	docs := &documents.Service{Store: local.New(dir), MaxBytes: 1 << 20}
	summarizer := &fakeSummarizer{answer: "Two paragraphs."}
	svc := &Service{
		Sessions:   sessions.NewStore(),
		Docs:       docs,
		Extractor:  extract.New(docs),
		Summarizer: summarizer,
	}
	ctx := context.Background()

	first := docxWithParagraphs(t, "Alpha", "Beta")
	msg := svc.HandleUpload(ctx, DocumentUploadEvent{
		OwnerID:      "web:1",
		FileName:     "notes.docx",
		DeclaredType: documents.MimeDOCX,
		Body:         bytes.NewReader(first),
	})
	if msg.Kind != KindFileReceived {
		t.Fatalf("unexpected upload reply %+v", msg)
	}
	firstRef, _ := svc.ActiveDocument("web:1")

	msg = svc.HandleQuestion(ctx, QuestionEvent{OwnerID: "web:1", Question: "What is listed?"})
	if msg.Text != "Answer:\nTwo paragraphs." {
		t.Fatalf("unexpected answer %+v", msg)
	}
	if got := summarizer.prompts[0]; got != "User Prompt:\nWhat is listed?\n\nDocument Text:\nAlpha\nBeta" {
		t.Fatalf("unexpected prompt %q", got)
	}

	svc.HandleUpload(ctx, DocumentUploadEvent{
		OwnerID:  "web:1",
		FileName: "more.docx",
		Body:     bytes.NewReader(docxWithParagraphs(t, "Gamma")),
	})
	if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(firstRef.StorageKey))); !os.IsNotExist(err) {
		t.Fatalf("expected replaced document to be deleted, stat err=%v", err)
	}

	if err := svc.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
