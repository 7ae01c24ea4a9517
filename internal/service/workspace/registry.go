package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"vidhik/internal/auth"
	"vidhik/internal/domain"
	"vidhik/internal/domain/repositories"
	"vidhik/internal/domain/services"
	"vidhik/internal/service/controller"
	"vidhik/internal/service/gateway"
)

// StoreFactory returns the History Store backing one workspace
type StoreFactory func(workspaceID string) repositories.HistoryStore

// Config tunes workspace lifetime and per-workspace gateway limits
type Config struct {
	TTL           time.Duration
	RatePerMinute int
	Burst         int
	// Durable is set when stores outlive the cache (postgres). An evicted
	// workspace is then rebuilt from its token instead of being rejected.
	Durable bool
}

// registry implements services.WorkspaceRegistry.
// Workspaces live in a go-cache with a sliding TTL: every resolve extends it.
type registry struct {
	workspaces *cache.Cache
	tokens     auth.Tokens
	gateway    services.Gateway
	newStore   StoreFactory
	cfg        Config
	logger     *slog.Logger
}

// NewRegistry creates a workspace registry. Each workspace gets its own
// controller, history store and gateway rate limiter over the shared gateway.
func NewRegistry(
	tokens auth.Tokens,
	gw services.Gateway,
	newStore StoreFactory,
	cfg Config,
	logger *slog.Logger,
) services.WorkspaceRegistry {
	c := cache.New(cfg.TTL, 10*time.Minute)
	c.OnEvicted(func(id string, _ interface{}) {
		logger.Info("workspace expired", "workspace_id", id)
	})

	return &registry{
		workspaces: c,
		tokens:     tokens,
		gateway:    gw,
		newStore:   newStore,
		cfg:        cfg,
		logger:     logger,
	}
}

// Create starts a fresh workspace and issues its token
func (r *registry) Create(_ context.Context) (*services.WorkspaceToken, error) {
	id := uuid.NewString()
	ws := r.build(id)

	token, expires, err := r.tokens.IssueToken(id)
	if err != nil {
		return nil, fmt.Errorf("issue workspace token: %w", err)
	}
	r.workspaces.Set(id, ws, cache.DefaultExpiration)

	r.logger.Info("workspace created", "workspace_id", id)
	return &services.WorkspaceToken{WorkspaceID: id, Token: token, ExpiresAt: expires}, nil
}

// Resolve verifies token and returns its live workspace, extending its TTL
func (r *registry) Resolve(_ context.Context, token string) (*services.Workspace, error) {
	id, err := r.tokens.VerifyToken(token)
	if err != nil {
		return nil, err
	}

	cached, found := r.workspaces.Get(id)
	if !found {
		if !r.cfg.Durable {
			return nil, &domain.UnauthorizedError{Message: "workspace has expired, please start a new one"}
		}
		// Add rather than Set so concurrent resolves share one controller
		if err := r.workspaces.Add(id, r.build(id), cache.DefaultExpiration); err == nil {
			r.logger.Info("workspace restored", "workspace_id", id)
		}
		if cached, found = r.workspaces.Get(id); !found {
			return nil, &domain.UnauthorizedError{Message: "workspace has expired, please start a new one"}
		}
	}

	ws := cached.(*services.Workspace)
	r.workspaces.Set(id, ws, cache.DefaultExpiration)
	return ws, nil
}

// build wires a controller over the workspace's store and its own rate limiter
func (r *registry) build(id string) *services.Workspace {
	limited := gateway.WithRateLimit(r.gateway, gateway.NewRateLimiter(r.cfg.RatePerMinute, r.cfg.Burst))
	return &services.Workspace{
		ID:         id,
		Controller: controller.NewController(r.newStore(id), limited, r.logger.With("workspace_id", id)),
		CreatedAt:  time.Now(),
	}
}
