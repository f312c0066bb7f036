// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document extracts plain paragraph text from manuscript files.
// Every loader returns paragraphs joined with "\n", which is the only
// shape the analysis engine relies on.
package document

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupported is returned for file types no loader handles.
var ErrUnsupported = errors.New("unsupported document type")

// Loader turns the raw bytes of one document format into paragraph text.
// Different formats (docx, HTML, plain text) implement this interface.
type Loader interface {
	Load(r io.Reader) (string, error)
}

// loaders maps lowercase file extensions to their loader.
var loaders = map[string]Loader{
	".docx": DocxLoader{},
	".html": HTMLLoader{},
	".htm":  HTMLLoader{},
	".txt":  TextLoader{},
	".md":   TextLoader{},
}

// Supported returns the accepted file extensions.
func Supported() []string {
	return []string{".docx", ".htm", ".html", ".md", ".txt"}
}

// LoaderFor picks the loader for a file name by its extension.
func LoaderFor(name string) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(name))
	l, ok := loaders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
	return l, nil
}

// Load reads the document at path.
func Load(path string) (string, error) {
	l, err := LoaderFor(path)
	if err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return l.Load(f)
}

// LoadReader reads a document whose format is given by name, typically an
// uploaded file's original name.
func LoadReader(name string, r io.Reader) (string, error) {
	l, err := LoaderFor(name)
	if err != nil {
		return "", err
	}
	return l.Load(r)
}

// TextLoader passes plain text and Markdown through, normalizing line
// endings and dropping a UTF-8 byte order mark.
type TextLoader struct{}

// Load implements Loader.
func (TextLoader) Load(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading text: %w", err)
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.TrimPrefix(text, "\ufeff"), nil
}
