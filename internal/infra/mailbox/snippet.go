package mailbox

import (
	"bytes"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/emersion/go-message/mail"
)

// Placeholder strings returned when a message body yields no usable text.
const (
	// SnippetEmpty is returned for messages with a decodable but empty body.
	SnippetEmpty = "No content preview available"

	// SnippetUnavailable is returned for undecodable message content.
	SnippetUnavailable = "Content preview unavailable"

	// snippetEllipsis marks a truncated preview.
	snippetEllipsis = "..."
)

// ExtractSnippet reduces a raw RFC 822 message to a single-line plain-text
// preview of at most maxLen runes (plus the ellipsis marker when
// truncated). The text/plain part is preferred; HTML-only bodies are
// stripped to text. The function never fails: undecodable content degrades
// to a placeholder string.
func ExtractSnippet(raw []byte, maxLen int) string {
	if len(raw) == 0 {
		return SnippetEmpty
	}

	body, err := extractBody(raw)
	if err != nil {
		return SnippetUnavailable
	}

	snippet := strings.Join(strings.Fields(body), " ")
	if snippet == "" {
		return SnippetEmpty
	}

	if runes := []rune(snippet); maxLen > 0 && len(runes) > maxLen {
		return string(runes[:maxLen]) + snippetEllipsis
	}
	return snippet
}

// extractBody walks the MIME structure and returns the best available text
// rendition: the first text/plain part, else the first text/html part
// stripped to text.
func extractBody(raw []byte) (string, error) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return "", err
	}

	var htmlBody string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}

		contentType, _, err := header.ContentType()
		if err != nil {
			continue
		}

		switch contentType {
		case "text/plain":
			data, err := io.ReadAll(part.Body)
			if err != nil {
				return "", err
			}
			return string(data), nil
		case "text/html":
			if htmlBody == "" {
				data, err := io.ReadAll(part.Body)
				if err != nil {
					return "", err
				}
				htmlBody = string(data)
			}
		}
	}

	if htmlBody != "" {
		return htmlToText(htmlBody)
	}
	return "", nil
}

// htmlToText strips markup from an HTML body, keeping only rendered text.
func htmlToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find("script, style").Remove()
	return doc.Text(), nil
}
