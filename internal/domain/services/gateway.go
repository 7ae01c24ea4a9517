package services

import (
	"context"

	"vidhik/internal/domain/models"
)

// Gateway is the remote analysis boundary. Each call is a single blocking
// request/response; implementations never substitute defaults for an empty
// or invalid result and report every failure as *domain.GatewayError.
type Gateway interface {
	// Analyze demystifies one document's text
	Analyze(ctx context.Context, text string) (*models.Analysis, error)

	// Answer responds to a question about a document. prior is the document's
	// existing analysis, used as extra context when non-nil.
	Answer(ctx context.Context, text, question string, prior *models.Analysis) (string, error)

	// Compare diffs an original document (textA) against a revised one (textB)
	Compare(ctx context.Context, textA, textB string) (*models.Comparison, error)
}
