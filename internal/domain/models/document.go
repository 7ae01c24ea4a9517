package models

import (
	"crypto/sha256"
	"encoding/hex"
)

// Document is an uploaded or pasted legal document.
// Content is text, usually a data URI ("data:<mime>;base64,<payload>") so that
// file uploads and pasted text share one shape.
// Documents are values: never mutate one after it has been stored.
type Document struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// DocumentKey is the de-duplication identity of a document (name + content, by value).
type DocumentKey struct {
	Name    string
	Content string
}

// Key returns the identity used by the document index.
func (d Document) Key() DocumentKey {
	return DocumentKey{Name: d.Name, Content: d.Content}
}

// Fingerprint returns a stable opaque reference to the document identity,
// suitable for URLs and JSON (the raw content can be megabytes).
func (d Document) Fingerprint() string {
	h := sha256.New()
	h.Write([]byte(d.Name))
	h.Write([]byte{0})
	h.Write([]byte(d.Content))
	return hex.EncodeToString(h.Sum(nil))
}
