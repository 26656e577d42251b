// Package fileparse extracts plain text from email attachments so the
// detector can scan them as one flattened blob. Supported formats: plain
// text, PDF, DOCX, XLSX, HTML and archives. Anything else is rejected with
// an error the caller surfaces as a user-visible note.
package fileparse

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/acarl005/stripansi"
	"github.com/h2non/filetype"
	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

var textExtensions = map[string]bool{
	".txt": true,
	".log": true,
	".md":  true,
	".csv": true,
}

// IsSupported reports whether Extract knows how to handle the file name.
// Archives are detected by content, not extension, so this is advisory.
func IsSupported(filename string) bool {
	switch ext := extension(filename); {
	case textExtensions[ext]:
		return true
	case ext == ".pdf", ext == ".docx", ext == ".xlsx", ext == ".html", ext == ".htm", ext == ".zip":
		return true
	default:
		return false
	}
}

// Extract returns the flattened text content of an attachment.
func Extract(filename string, content []byte) (string, error) {
	ext := extension(filename)

	switch {
	case textExtensions[ext]:
		return decodeText(content), nil
	case ext == ".pdf":
		return extractPDF(content)
	// DOCX and XLSX are zip containers themselves, so they must route
	// before the archive sniff.
	case ext == ".docx":
		return extractDOCX(content)
	case ext == ".xlsx":
		return extractXLSX(content)
	case ext == ".html" || ext == ".htm":
		return extractHTML(content)
	case filetype.IsArchive(content):
		return extractArchive(filename, content, 1)
	default:
		return "", fmt.Errorf("unsupported format: %s", ext)
	}
}

func extension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// decodeText interprets raw bytes as UTF-8, falling back to Latin-1 for
// legacy text attachments. ANSI escape sequences are stripped so color codes
// in log attachments cannot split a secret across a rule match.
func decodeText(content []byte) string {
	if utf8.Valid(content) {
		return stripansi.Strip(string(content))
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(content)
	if err != nil {
		return stripansi.Strip(string(content))
	}
	return stripansi.Strip(string(decoded))
}

func extractPDF(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}
	return buf.String(), nil
}

// extractDOCX flattens a Word document to one paragraph per line. The body
// lives in word/document.xml inside the container; iterating w:p elements
// covers table cell content as well, since cells hold their own paragraphs.
func extractDOCX(content []byte) (string, error) {
	container, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("opening docx: %w", err)
	}

	for _, member := range container.File {
		if member.Name != "word/document.xml" {
			continue
		}

		body, err := member.Open()
		if err != nil {
			return "", fmt.Errorf("reading docx body: %w", err)
		}
		defer func() { _ = body.Close() }()

		doc, err := goquery.NewDocumentFromReader(body)
		if err != nil {
			return "", fmt.Errorf("parsing docx body: %w", err)
		}

		var paragraphs []string
		doc.Find("w\\:p").Each(func(_ int, p *goquery.Selection) {
			if text := strings.TrimSpace(p.Text()); text != "" {
				paragraphs = append(paragraphs, text)
			}
		})
		return strings.Join(paragraphs, "\n"), nil
	}

	return "", fmt.Errorf("docx contains no document body")
}

func extractXLSX(content []byte) (string, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("opening xlsx: %w", err)
	}
	defer func() { _ = workbook.Close() }()

	var texts []string
	for _, sheet := range workbook.GetSheetList() {
		texts = append(texts, "[Sheet: "+sheet+"]")
		rows, err := workbook.GetRows(sheet)
		if err != nil {
			log.Debug().Err(err).Str("sheet", sheet).Msg("Skipping unreadable sheet")
			continue
		}
		for _, row := range rows {
			cells := make([]string, 0, len(row))
			for _, cell := range row {
				if strings.TrimSpace(cell) != "" {
					cells = append(cells, cell)
				}
			}
			if len(cells) > 0 {
				texts = append(texts, strings.Join(cells, " | "))
			}
		}
	}

	return strings.Join(texts, "\n"), nil
}

// extractHTML flattens an HTML body to its visible text.
func extractHTML(content []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}

	doc.Find("script, style").Remove()

	var parts []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, "\n"), nil
}
