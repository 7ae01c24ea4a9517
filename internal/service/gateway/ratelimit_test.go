package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"vidhik/internal/domain"
	"vidhik/internal/domain/models"
)

type countingGateway struct{ calls int }

func (g *countingGateway) Analyze(context.Context, string) (*models.Analysis, error) {
	g.calls++
	return &models.Analysis{Summary: "s"}, nil
}

func (g *countingGateway) Answer(context.Context, string, string, *models.Analysis) (string, error) {
	g.calls++
	return "a", nil
}

func (g *countingGateway) Compare(context.Context, string, string) (*models.Comparison, error) {
	g.calls++
	return &models.Comparison{Summary: "c"}, nil
}

func TestWithRateLimit_PassesWithinBurst(t *testing.T) {
	next := &countingGateway{}
	gw := WithRateLimit(next, NewRateLimiter(60, 3))
	ctx := context.Background()

	_, err := gw.Analyze(ctx, "t")
	require.NoError(t, err)
	_, err = gw.Answer(ctx, "t", "q", nil)
	require.NoError(t, err)
	_, err = gw.Compare(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, 3, next.calls)
}

func TestWithRateLimit_CancelledWaitIsGatewayError(t *testing.T) {
	next := &countingGateway{}
	// one token per hour, burst of one: the second call has to wait
	gw := WithRateLimit(next, rate.NewLimiter(rate.Every(time.Hour), 1))

	_, err := gw.Analyze(context.Background(), "t")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = gw.Compare(ctx, "a", "b")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrGateway))
	assert.Contains(t, err.Error(), CompareFailed)
	assert.Equal(t, 1, next.calls)
}
