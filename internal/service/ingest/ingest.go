// Package ingest turns pasted text and uploaded files into Documents and
// linearizes Documents back into text for the Gateway.
//
// Every Document carries its payload as a base64 data URI so pasted text and
// uploads share one shape.
package ingest

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"vidhik/internal/config"
	"vidhik/internal/domain"
	"vidhik/internal/domain/models"
)

// PastedName names documents created from pasted text
const PastedName = "Pasted Content"

const dataPrefix = "data:"

// acceptedExtensions mirrors the upload picker (.txt .pdf .docx .json)
var acceptedExtensions = map[string]string{
	".txt":  "text/plain",
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".json": "application/json",
}

// FromText wraps pasted text as a Document
func FromText(text string) (models.Document, error) {
	if strings.TrimSpace(text) == "" {
		return models.Document{}, domain.NewValidation("Please paste some text to analyze.")
	}
	return models.Document{
		Name:    PastedName,
		Content: EncodeDataURI("text/plain", []byte(text)),
	}, nil
}

// FromUpload reads an uploaded file into a Document. mimeType may be empty,
// in which case it is inferred from the extension or sniffed from the bytes.
func FromUpload(name, mimeType string, r io.Reader) (models.Document, error) {
	name = strings.TrimSpace(filepath.Base(name))
	if err := validateName(name); err != nil {
		return models.Document{}, err
	}

	data, err := io.ReadAll(io.LimitReader(r, config.MaxDocumentBytes+1))
	if err != nil {
		return models.Document{}, fmt.Errorf("read upload %q: %w", name, err)
	}
	if len(data) == 0 {
		return models.Document{}, domain.NewValidation("%s is empty", name)
	}
	if len(data) > config.MaxDocumentBytes {
		return models.Document{}, domain.NewValidation("%s exceeds the %d MiB upload limit", name, config.MaxDocumentBytes>>20)
	}

	mimeType, err = resolveMIME(name, mimeType, data)
	if err != nil {
		return models.Document{}, err
	}

	return models.Document{Name: name, Content: EncodeDataURI(mimeType, data)}, nil
}

// FromDataURI validates a Document supplied by a client that already encoded it
func FromDataURI(name, content string) (models.Document, error) {
	doc := models.Document{Name: strings.TrimSpace(name), Content: content}
	if err := Validate(doc); err != nil {
		return models.Document{}, err
	}
	return doc, nil
}

// Validate checks a Document's name and content shape
func Validate(doc models.Document) error {
	err := validation.ValidateStruct(&doc,
		validation.Field(&doc.Name, validation.Required, validation.RuneLength(1, config.MaxDocumentNameLength)),
		validation.Field(&doc.Content, validation.Required, validation.By(wellFormedContent)),
	)
	if err != nil {
		return domain.NewValidation("invalid document: %v", err)
	}
	return nil
}

// Text returns the linearized text sent to the Gateway. text/* and JSON
// payloads are decoded; anything else (PDF, DOCX) is passed through encoded.
func Text(doc models.Document) (string, error) {
	if !strings.HasPrefix(doc.Content, dataPrefix) {
		return doc.Content, nil
	}

	mediaType, payload, err := DecodeDataURI(doc.Content)
	if err != nil {
		return "", domain.NewValidation("document %q: %v", doc.Name, err)
	}
	if !isTextual(mediaType) {
		return doc.Content, nil
	}
	if !utf8.Valid(payload) {
		return "", domain.NewValidation("document %q is not valid UTF-8 text", doc.Name)
	}
	return string(payload), nil
}

// EncodeDataURI builds data:<mime>;base64,<payload>
func EncodeDataURI(mimeType string, data []byte) string {
	return dataPrefix + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI splits a base64 data URI into its media type and decoded payload
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, dataPrefix)
	if !ok {
		return "", nil, fmt.Errorf("not a data URI")
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URI")
	}

	meta, isBase64 := strings.CutSuffix(header, ";base64")
	mediaType := "text/plain"
	if meta != "" {
		mt, _, err := mime.ParseMediaType(meta)
		if err != nil {
			return "", nil, fmt.Errorf("malformed media type %q: %w", meta, err)
		}
		mediaType = mt
	}

	if !isBase64 {
		return mediaType, []byte(payload), nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("malformed base64 payload: %w", err)
	}
	return mediaType, data, nil
}

func wellFormedContent(value interface{}) error {
	s, _ := value.(string)
	if !strings.HasPrefix(s, dataPrefix) {
		return nil
	}
	_, _, err := DecodeDataURI(s)
	return err
}

func resolveMIME(name, declared string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil {
			declared = mt
		}
	}

	if byExt, ok := acceptedExtensions[ext]; ok {
		// browsers often send application/octet-stream for .docx and .json
		if declared == "" || declared == "application/octet-stream" {
			return byExt, nil
		}
		if declared == byExt || strings.HasPrefix(declared, "text/") {
			return declared, nil
		}
		return "", domain.NewValidation("%s was sent as %s, which does not match its %s extension", name, declared, ext)
	}

	if declared == "" {
		declared, _, _ = mime.ParseMediaType(http.DetectContentType(data))
	}
	if strings.HasPrefix(declared, "text/") && utf8.Valid(bytes.TrimSpace(data)) {
		return declared, nil
	}
	return "", domain.NewValidation("unsupported file type for %s: accepted types are .txt, .pdf, .docx and .json", name)
}

func isTextual(mediaType string) bool {
	return strings.HasPrefix(mediaType, "text/") || mediaType == "application/json"
}

func validateName(name string) error {
	err := validation.Validate(name,
		validation.Required.Error("file name is required"),
		validation.RuneLength(1, config.MaxDocumentNameLength),
	)
	if err != nil {
		return domain.NewValidation("invalid file name: %v", err)
	}
	return nil
}
