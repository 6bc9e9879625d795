package extract

import (
	"bytes"
	"errors"
	"strings"

	"github.com/ledongthuc/pdf"
)

// TextExtractor converts raw binary document content into plain text.
// Implementations must never crash the process on malformed input; an
// unreadable document is reported as an error that callers downgrade to
// empty text.
type TextExtractor interface {
	ExtractText(data []byte) (string, error)
}

// ErrUnreadable is returned when no text could be pulled out of a document.
var ErrUnreadable = errors.New("document is unreadable")

// PDF extracts plain text from PDF content. It is stateless and safe for
// concurrent use.
type PDF struct{}

// NewPDF returns a PDF text extractor.
func NewPDF() *PDF {
	return &PDF{}
}

// ExtractText walks all pages and concatenates their text runs, one line
// per page. The underlying library panics on some malformed documents, so
// every call into it is guarded; a corrupt page is skipped and a corrupt
// document yields ErrUnreadable rather than a crash.
func (e *PDF) ExtractText(data []byte) (string, error) {
	reader, err := newReader(data)
	if err != nil {
		return "", ErrUnreadable
	}

	pages := 0
	func() {
		defer func() { _ = recover() }()
		pages = reader.NumPage()
	}()
	if pages <= 0 {
		return "", ErrUnreadable
	}

	var b strings.Builder
	for i := 1; i <= pages; i++ {
		func() {
			defer func() { _ = recover() }()
			page := reader.Page(i)
			if page.V.IsNull() {
				return
			}
			content := page.Content()
			for _, item := range content.Text {
				b.WriteString(item.S)
				b.WriteString(" ")
			}
			b.WriteString("\n")
		}()
	}

	text := strings.TrimRight(b.String(), " \n")
	if strings.TrimSpace(text) == "" {
		return "", ErrUnreadable
	}
	return text, nil
}

func newReader(data []byte) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r, err = nil, ErrUnreadable
		}
	}()
	return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
}
