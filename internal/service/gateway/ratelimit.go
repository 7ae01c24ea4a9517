package gateway

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"vidhik/internal/domain"
	"vidhik/internal/domain/models"
	"vidhik/internal/domain/services"
	"vidhik/internal/prompts"
)

// rateLimited waits on a token bucket before delegating each call
type rateLimited struct {
	next    services.Gateway
	limiter *rate.Limiter
}

// NewRateLimiter returns a limiter allowing perMinute calls with the given burst
func NewRateLimiter(perMinute, burst int) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), burst)
}

// WithRateLimit wraps next so every call first takes a token from limiter.
// A cancelled wait fails the call as a gateway error.
func WithRateLimit(next services.Gateway, limiter *rate.Limiter) services.Gateway {
	return &rateLimited{next: next, limiter: limiter}
}

func (r *rateLimited) Analyze(ctx context.Context, text string) (*models.Analysis, error) {
	if err := r.wait(ctx, prompts.Analyze, AnalyzeFailed); err != nil {
		return nil, err
	}
	return r.next.Analyze(ctx, text)
}

func (r *rateLimited) Answer(ctx context.Context, text, question string, prior *models.Analysis) (string, error) {
	if err := r.wait(ctx, prompts.Answer, AnswerFailed); err != nil {
		return "", err
	}
	return r.next.Answer(ctx, text, question, prior)
}

func (r *rateLimited) Compare(ctx context.Context, textA, textB string) (*models.Comparison, error) {
	if err := r.wait(ctx, prompts.Compare, CompareFailed); err != nil {
		return nil, err
	}
	return r.next.Compare(ctx, textA, textB)
}

func (r *rateLimited) wait(ctx context.Context, operation, prefix string) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return domain.NewGatewayError(operation, prefix, fmt.Errorf("too many requests, please try again shortly: %w", err))
	}
	return nil
}
