package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
	log "github.com/sirupsen/logrus"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// FileExtractor turns an uploaded document into plain text. PDF and
// DOCX get real extraction; anything else is read as-is.
type FileExtractor struct{}

func NewFileExtractor() *FileExtractor {
	return &FileExtractor{}
}

func (e *FileExtractor) ExtractText(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("document not readable: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extractPDF(path)
	case ".docx":
		return extractDOCX(path)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read document: %w", err)
		}
		return string(data), nil
	}
}

func extractPDF(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}
	defer f.Close()

	pdfReader, err := model.NewPdfReader(f)
	if err != nil {
		return "", fmt.Errorf("read PDF: %w", err)
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("get page count: %w", err)
	}
	if numPages == 0 {
		return "", fmt.Errorf("PDF has no pages")
	}

	var b strings.Builder
	extractedAny := false
	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			log.WithFields(log.Fields{"page": i, "error": err}).Warn("skipping unreadable PDF page")
			continue
		}
		ex, err := extractor.New(page)
		if err != nil {
			log.WithFields(log.Fields{"page": i, "error": err}).Warn("skipping PDF page without extractor")
			continue
		}
		pageText, err := ex.ExtractText()
		if err != nil {
			log.WithFields(log.Fields{"page": i, "error": err}).Warn("skipping PDF page with extraction error")
			continue
		}
		if pageText != "" {
			extractedAny = true
			b.WriteString(pageText)
			b.WriteString("\n\n")
		}
	}

	text := strings.TrimSpace(b.String())
	if !extractedAny {
		return "", fmt.Errorf("no text could be extracted from any page of the PDF")
	}
	return text, nil
}

var docxTagPattern = regexp.MustCompile(`<[^>]+>`)

func extractDOCX(path string) (string, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", fmt.Errorf("read DOCX: %w", err)
	}
	defer r.Close()

	content := r.Editable().GetContent()
	// Paragraph ends become newlines before the markup is stripped.
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	text := strings.TrimSpace(docxTagPattern.ReplaceAllString(content, ""))
	if text == "" {
		return "", fmt.Errorf("no text could be extracted from the DOCX")
	}
	return text, nil
}
