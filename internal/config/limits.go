package config

const (
	// MaxDocumentNameLength is the maximum length for document names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxDocumentNameLength = 255

	// MaxDocumentBytes caps a single uploaded document (10 MiB).
	MaxDocumentBytes = 10 << 20

	// MaxQuestionLength is the maximum length of one Q&A question.
	MaxQuestionLength = 4000

	// MaxRequestBodyBytes caps JSON request bodies. Uploads arrive base64-encoded
	// inside JSON, so this sits above MaxDocumentBytes * 4/3 for two documents.
	MaxRequestBodyBytes = 32 << 20

	// MaxHistorySearchLength bounds the history/document search query.
	MaxHistorySearchLength = 255
)
