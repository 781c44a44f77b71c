package tools

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

var ErrTooLarge = errors.New("tools: document exceeds size limit")

type Document struct {
	Name     string
	MIMEType string
	Data     []byte
}

// ReadDocument loads path for upload. HTML pages are reduced to their
// readable text and sent as text/plain.
func ReadDocument(path string, maxBytes int64) (Document, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Document{}, errors.New("tools: no file selected")
	}
	info, err := os.Stat(path)
	if err != nil {
		return Document{}, fmt.Errorf("stat document: %w", err)
	}
	if info.IsDir() {
		return Document{}, fmt.Errorf("tools: %s is a directory", path)
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return Document{}, fmt.Errorf("%w: %d bytes > %d", ErrTooLarge, info.Size(), maxBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read document: %w", err)
	}

	doc := Document{Name: filepath.Base(path), MIMEType: DetectMIME(path, data), Data: data}
	if doc.MIMEType == "text/html" {
		text, err := readableText(data)
		if err != nil {
			return Document{}, err
		}
		doc.MIMEType = "text/plain"
		doc.Data = []byte(text)
	}
	return doc, nil
}

// DetectMIME prefers the file extension and falls back to content sniffing.
// Parameters such as charset are stripped.
func DetectMIME(path string, data []byte) string {
	mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mt == "" {
		mt = http.DetectContentType(data)
	}
	if base, _, err := mime.ParseMediaType(mt); err == nil {
		mt = base
	}
	return mt
}

func readableText(data []byte) (string, error) {
	article, err := readability.FromReader(bytes.NewReader(data), nil)
	if err != nil {
		return "", fmt.Errorf("extract readable content: %w", err)
	}
	text := strings.TrimSpace(article.TextContent)
	if title := strings.TrimSpace(article.Title); title != "" {
		text = title + "\n\n" + text
	}
	return text, nil
}
