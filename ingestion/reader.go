// Package ingestion implements the offline batch job that populates the
// vector store: reading source documents, chunking them, generating
// embeddings, and upserting the records.
package ingestion

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Document is one source document to ingest.
type Document struct {
	// Text is the full document content.
	Text string `json:"text"`
	// Sources is the originating document identifier.
	Sources string `json:"sources"`
	// Section is the sub-document locator, also used to derive chunk IDs.
	Section string `json:"section"`
}

// supportedExtensions lists the file types ReadDir picks up.
var supportedExtensions = map[string]bool{
	".json": true,
	".txt":  true,
	".md":   true,
	".pdf":  true,
}

// ReadDir loads every supported file in dir, non-recursively.
func ReadDir(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var docs []Document
	for _, entry := range entries {
		if entry.IsDir() || !supportedExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}

		doc, err := ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// ReadFile loads a single document. JSON files must carry the corpus format
// {text, sources, section}; plain text, markdown and PDF files use the file
// name for both source and section.
func ReadFile(path string) (Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return readJSON(path)
	case ".txt", ".md":
		return readPlainText(path)
	case ".pdf":
		return readPDF(path)
	default:
		return Document{}, fmt.Errorf("unsupported file type %s", ext)
	}
}

func readJSON(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if doc.Text == "" {
		return Document{}, fmt.Errorf("%s has no text field", path)
	}
	if doc.Sources == "" {
		doc.Sources = filepath.Base(path)
	}
	if doc.Section == "" {
		doc.Section = sectionFromPath(path)
	}
	return doc, nil
}

func readPlainText(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return Document{}, fmt.Errorf("%s is empty", path)
	}
	return Document{
		Text:    text,
		Sources: filepath.Base(path),
		Section: sectionFromPath(path),
	}, nil
}

func readPDF(path string) (Document, error) {
	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	var sb strings.Builder
	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep the rest of the document.
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			if sb.Len() > 0 {
				sb.WriteString("\n\n")
			}
			sb.WriteString(text)
		}
	}

	if sb.Len() == 0 {
		return Document{}, fmt.Errorf("no text content found in %s", path)
	}
	return Document{
		Text:    sb.String(),
		Sources: filepath.Base(path),
		Section: sectionFromPath(path),
	}, nil
}

func sectionFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
