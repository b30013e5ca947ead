// Package directory resolves identity lookups against the remote user service.
package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/Zenuu19/Skill-Swap-Platform/internal/domain"
	apperrors "github.com/Zenuu19/Skill-Swap-Platform/pkg/errors"
	"github.com/Zenuu19/Skill-Swap-Platform/pkg/httpclient"
)

const serviceName = "user-service"

// profile is the subset of the user service's profile payload used here.
type profile struct {
	ID            string `json:"id"`
	IsActive      bool   `json:"is_active"`
	IsBanned      bool   `json:"is_banned"`
	OfferedSkills []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"offered_skills"`
}

type envelope struct {
	Data profile `json:"data"`
}

// HTTPDirectory implements repository.IdentityDirectory over the user
// service's REST API, behind a retrying client and a circuit breaker.
type HTTPDirectory struct {
	client  *httpclient.CircuitBreakerClient
	baseURL string
	logger  *slog.Logger
}

// NewHTTPDirectory creates a directory client for the user service at baseURL.
func NewHTTPDirectory(baseURL string, cfg httpclient.Config, logger *slog.Logger) *HTTPDirectory {
	breaker := cfg.Breaker
	breaker.Name = serviceName
	client := httpclient.NewCircuitBreakerClient(httpclient.New(cfg), breaker, logger)
	return &HTTPDirectory{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Exists reports whether the user service knows userID.
func (d *HTTPDirectory) Exists(ctx context.Context, userID string) (bool, error) {
	p, err := d.lookup(ctx, userID)
	if err != nil {
		return false, err
	}
	return p != nil, nil
}

// IsActiveAndNotBanned is false for unknown users.
func (d *HTTPDirectory) IsActiveAndNotBanned(ctx context.Context, userID string) (bool, error) {
	p, err := d.lookup(ctx, userID)
	if err != nil || p == nil {
		return false, err
	}
	return p.IsActive && !p.IsBanned, nil
}

// OfferedSkills returns the approved catalog skills userID offers.
func (d *HTTPDirectory) OfferedSkills(ctx context.Context, userID string) ([]string, error) {
	p, err := d.lookup(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := []string{}
	if p == nil {
		return ids, nil
	}
	for _, s := range p.OfferedSkills {
		if s.Status == domain.SkillStatusApproved {
			ids = append(ids, s.ID)
		}
	}
	return ids, nil
}

type scopeKey struct{}

// profileMemo holds profiles fetched within one scope. A nil entry records
// an unknown user.
type profileMemo struct {
	mu       sync.Mutex
	profiles map[string]*profile
}

// Scope returns a context under which each user's profile is fetched at most
// once, so the answers of Exists, IsActiveAndNotBanned and OfferedSkills for
// one operation agree with each other. Failed fetches are not remembered.
func (d *HTTPDirectory) Scope(ctx context.Context) context.Context {
	if _, ok := ctx.Value(scopeKey{}).(*profileMemo); ok {
		return ctx
	}
	return context.WithValue(ctx, scopeKey{}, &profileMemo{profiles: make(map[string]*profile)})
}

func (d *HTTPDirectory) lookup(ctx context.Context, userID string) (*profile, error) {
	memo, ok := ctx.Value(scopeKey{}).(*profileMemo)
	if !ok {
		return d.fetch(ctx, userID)
	}

	memo.mu.Lock()
	defer memo.mu.Unlock()
	if p, hit := memo.profiles[userID]; hit {
		return p, nil
	}
	p, err := d.fetch(ctx, userID)
	if err != nil {
		return nil, err
	}
	memo.profiles[userID] = p
	return p, nil
}

// fetch returns nil, nil when the user does not exist.
func (d *HTTPDirectory) fetch(ctx context.Context, userID string) (*profile, error) {
	resp, err := d.client.Get(ctx, d.baseURL+"/api/v1/users/"+url.PathEscape(userID))
	if err != nil {
		var serverErr *httpclient.ServerError
		if errors.Is(err, httpclient.ErrCircuitOpen) || errors.As(err, &serverErr) {
			d.logger.WarnContext(ctx, "identity directory unavailable",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
			return nil, apperrors.Unavailable("identity directory temporarily unavailable")
		}
		return nil, fmt.Errorf("fetch user %s: %w", userID, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		return nil, nil
	}

	var env envelope
	if err := httpclient.DecodeJSON(resp, serviceName, &env); err != nil {
		d.logger.WarnContext(ctx, "identity lookup failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	return &env.Data, nil
}
