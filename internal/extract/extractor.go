// Package extract provides text extraction from uploaded document formats.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Result is the outcome of extracting an uploaded file: searchable text plus
// format-specific metadata for the document record.
type Result struct {
	Content  string
	Type     string
	Metadata map[string]interface{}
}

// File extracts text and metadata from content based on the filename's
// extension. Returns an error for unreadable content or when extraction
// yields no text, so empty documents never reach the index.
func File(content []byte, filename string) (*Result, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	var res *Result
	var err error
	switch ext {
	case ".json":
		res, err = extractJSON(content)
	case ".md":
		res, err = extractMarkdown(content)
	case ".pdf":
		res, err = extractPDF(content)
	case ".docx":
		res, err = extractDOCX(content)
	case ".xlsx":
		res, err = extractExcel(content)
	default:
		// .txt and anything else: treat as plain text.
		res, err = extractPlain(content)
	}
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(res.Content) == "" {
		return nil, fmt.Errorf("%s: no readable text", filename)
	}
	res.Metadata["filename"] = filename
	res.Metadata["size_bytes"] = len(content)
	return res, nil
}

// Supported reports whether ext (with leading dot) is an allowed upload
// extension per the given list. Matching is case-insensitive.
func Supported(ext string, allowed []string) bool {
	ext = strings.ToLower(ext)
	for _, a := range allowed {
		if strings.ToLower(a) == ext {
			return true
		}
	}
	return false
}
