package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeDOC  = "application/msword"
	MimeText = "text/plain"
)

// ErrExtraction marks a document whose bytes cannot be decoded for the declared type.
var ErrExtraction = errors.New("extraction failed")

// Extractor converts uploaded documents into plain text.
type Extractor struct{}

// New returns a ready Extractor.
func New() Extractor {
	return Extractor{}
}

// Extract decodes document according to mimeType. Every decode failure wraps ErrExtraction.
func (Extractor) Extract(ctx context.Context, document []byte, mimeType string) (string, error) {
	return ExtractTextFromBytes(ctx, document, mimeType, "")
}

// ExtractTextFromBytes extracts text from an in-memory payload. fileName is only a hint used
// when the declared type is a generic zip or octet-stream.
func ExtractTextFromBytes(ctx context.Context, data []byte, mimeType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("extract: %w", err)
	}
	normalized := NormalizeMimeType(mimeType, fileName, data)
	var (
		text string
		err  error
	)
	switch {
	case normalized == MimePDF:
		text, err = extractPDF(data)
	case normalized == MimeDOCX:
		text, err = extractDOCX(data)
	case normalized == MimeDOC, strings.HasPrefix(normalized, "text/"):
		text, err = decodeUTF8(data)
	default:
		err = fmt.Errorf("unsupported mime type: %s", normalized)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrExtraction, normalized, err)
	}
	return text, nil
}

func extractPDF(data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", errors.New("empty pdf data")
	}
	// ledongthuc/pdf panics on some truncated xref tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer doc.Close()
	return stripDocxXML(doc.Editable().GetContent()), nil
}

func decodeUTF8(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return "", errors.New("invalid utf-8 text")
	}
	return string(data), nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.StartElement:
			if t.Name.Local == "tab" {
				buf.WriteString("\t")
			}
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if last := buf.Len(); last > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// NormalizeMimeType lowercases the declared type, drops parameters, and resolves
// generic containers (zip, octet-stream, empty) by sniffing the payload.
func NormalizeMimeType(mimeType string, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	switch clean {
	case "application/zip", "application/x-zip-compressed":
		if mapped := mapOOXMLFromZip(data); mapped != "" {
			return mapped
		}
		if strings.EqualFold(filepath.Ext(fileName), ".docx") {
			return MimeDOCX
		}
		return clean
	case "", "application/octet-stream":
		if byExt := mimeFromExt(fileName); byExt != "" {
			return byExt
		}
		sniffed := strings.Split(http.DetectContentType(data), ";")[0]
		if sniffed == "application/zip" {
			if mapped := mapOOXMLFromZip(data); mapped != "" {
				return mapped
			}
		}
		if clean == "" && sniffed == "application/octet-stream" {
			return MimeText
		}
		return sniffed
	default:
		return clean
	}
}

func mimeFromExt(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return MimePDF
	case ".docx":
		return MimeDOCX
	case ".doc":
		return MimeDOC
	case ".txt", ".md":
		return MimeText
	default:
		return ""
	}
}

func mapOOXMLFromZip(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return ""
	}
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			return MimeDOCX
		}
	}
	return ""
}
