package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"

	"github.com/yungbote/carbonmatch-backend/internal/clients/matchapi"
	"github.com/yungbote/carbonmatch-backend/internal/data/repos"
	types "github.com/yungbote/carbonmatch-backend/internal/domain"
	"github.com/yungbote/carbonmatch-backend/internal/observability"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/ctxutil"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/carbonmatch-backend/internal/pkg/errors"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/logger"
)

const credentialLockKey = "lock:matchapi:credential"

// CredentialManager owns the single shared bearer token used for the
// matching service.
type CredentialManager interface {
	// Fetch obtains a brand new token and stores it. On failure the returned
	// token is empty and err wraps ErrCredentialFetch.
	Fetch(ctx context.Context) (string, error)
	// Refresh exchanges the stored refresh token for a new token.
	Refresh(ctx context.Context) (string, error)
	IsValid(expiry *time.Time) bool
	// CurrentToken returns the stored token while it is valid and otherwise
	// renews it. Concurrent callers share a single renewal.
	CurrentToken(ctx context.Context) (string, error)
}

// CredentialLocker serializes credential renewal across processes.
type CredentialLocker interface {
	Lock(ctx context.Context, key string) (func(context.Context) error, error)
}

type CredentialConfig struct {
	// TTL is the lifetime given to a freshly obtained token. A JWT whose exp
	// claim is earlier wins.
	TTL time.Duration
	// PreferRefresh tries the refresh endpoint before a full fetch.
	PreferRefresh bool
}

type credentialManager struct {
	log    *logger.Logger
	creds  repos.CredentialRepo
	api    matchapi.Client
	locker CredentialLocker
	cfg    CredentialConfig

	group singleflight.Group
	now   func() time.Time
}

// NewCredentialManager builds the manager. locker may be nil, in which case
// renewal is only serialized within this process.
func NewCredentialManager(
	baseLog *logger.Logger,
	creds repos.CredentialRepo,
	api matchapi.Client,
	locker CredentialLocker,
	cfg CredentialConfig,
) CredentialManager {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	return &credentialManager{
		log:    baseLog.With("service", "CredentialManager"),
		creds:  creds,
		api:    api,
		locker: locker,
		cfg:    cfg,
		now:    time.Now,
	}
}

func (m *credentialManager) IsValid(expiry *time.Time) bool {
	if expiry == nil {
		return false
	}
	return expiry.After(m.now())
}

func (m *credentialManager) Fetch(ctx context.Context) (string, error) {
	ctx = ctxutil.Default(ctx)
	pair, err := m.api.FetchToken(ctx)
	if err != nil {
		m.log.Error("Error occurred while generating token", append(ctxutil.LogFields(ctx), "error", err)...)
		return "", fmt.Errorf("fetch token: %w: %w", pkgerrors.ErrCredentialFetch, err)
	}
	if strings.TrimSpace(pair.APIToken) == "" {
		m.log.Error("Token endpoint returned an empty token", ctxutil.LogFields(ctx)...)
		return "", fmt.Errorf("fetch token: empty api_token: %w", pkgerrors.ErrCredentialFetch)
	}
	if err := m.store(ctx, types.CredentialLabelFetched, pair, ""); err != nil {
		return "", err
	}
	return pair.APIToken, nil
}

func (m *credentialManager) Refresh(ctx context.Context) (string, error) {
	ctx = ctxutil.Default(ctx)
	cred, err := m.creds.Get(dbctx.Context{Ctx: ctx})
	if err != nil {
		return "", fmt.Errorf("load credential: %w", err)
	}
	if cred == nil || strings.TrimSpace(cred.RefreshToken) == "" {
		return "", fmt.Errorf("refresh token: no stored refresh token: %w", pkgerrors.ErrCredentialFetch)
	}
	pair, err := m.api.RefreshToken(ctx, cred.RefreshToken)
	if err != nil {
		m.log.Error("Error occurred while refreshing token", append(ctxutil.LogFields(ctx), "error", err)...)
		return "", fmt.Errorf("refresh token: %w: %w", pkgerrors.ErrCredentialFetch, err)
	}
	if strings.TrimSpace(pair.APIToken) == "" {
		return "", fmt.Errorf("refresh token: empty api_token: %w", pkgerrors.ErrCredentialFetch)
	}
	if err := m.store(ctx, types.CredentialLabelRefreshed, pair, cred.RefreshToken); err != nil {
		return "", err
	}
	return pair.APIToken, nil
}

func (m *credentialManager) CurrentToken(ctx context.Context) (string, error) {
	ctx = ctxutil.Default(ctx)
	cred, err := m.creds.Get(dbctx.Context{Ctx: ctx})
	if err != nil {
		return "", fmt.Errorf("load credential: %w", err)
	}
	if cred != nil && cred.TokenValue != "" && m.IsValid(cred.TokenExpiryTime) {
		return cred.TokenValue, nil
	}

	v, err, shared := m.group.Do(credentialLockKey, func() (interface{}, error) {
		return m.renew(ctx)
	})
	if shared {
		m.log.Debug("Joined in-flight credential renewal", ctxutil.LogFields(ctx)...)
	}
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// renew runs inside the singleflight group. It re-reads the row under the
// cross-process lock so a renewal done elsewhere is reused.
func (m *credentialManager) renew(ctx context.Context) (tok string, err error) {
	ctx, finish := observability.StartSpan(ctx, "credential.renew")
	defer func() { finish(err) }()

	if m.locker != nil {
		unlock, lockErr := m.locker.Lock(ctx, credentialLockKey)
		if lockErr != nil {
			m.log.Warn("Could not lock credential; renewing without lock", append(ctxutil.LogFields(ctx), "error", lockErr)...)
		} else {
			defer func() {
				_ = unlock(context.WithoutCancel(ctx))
			}()
		}
	}

	cred, err := m.creds.Get(dbctx.Context{Ctx: ctx})
	if err != nil {
		return "", fmt.Errorf("load credential: %w", err)
	}
	if cred != nil && cred.TokenValue != "" && m.IsValid(cred.TokenExpiryTime) {
		return cred.TokenValue, nil
	}

	if m.cfg.PreferRefresh && cred != nil && cred.RefreshToken != "" {
		tok, err = m.Refresh(ctx)
		if err == nil {
			return tok, nil
		}
		m.log.Warn("Token refresh failed; fetching a new token", append(ctxutil.LogFields(ctx), "error", err)...)
	}
	return m.Fetch(ctx)
}

// store overwrites the singleton row. An empty refresh token in the response
// keeps previousRefresh so the refresh chain is not broken.
func (m *credentialManager) store(ctx context.Context, label string, pair matchapi.TokenPair, previousRefresh string) error {
	refresh := pair.RefreshToken
	if strings.TrimSpace(refresh) == "" {
		refresh = previousRefresh
	}
	expiry := m.expiryFor(pair.APIToken)
	if _, err := m.creds.Put(dbctx.Context{Ctx: ctx}, &types.Credential{
		TokenName:       label,
		TokenValue:      pair.APIToken,
		RefreshToken:    refresh,
		TokenExpiryTime: &expiry,
	}); err != nil {
		m.log.Error("Failed to store credential", append(ctxutil.LogFields(ctx), "error", err)...)
		return fmt.Errorf("store credential: %w: %w", pkgerrors.ErrCredentialFetch, err)
	}
	m.log.Info("Stored match API credential", append(ctxutil.LogFields(ctx), "token_name", label, "expires_at", expiry)...)
	return nil
}

func (m *credentialManager) expiryFor(token string) time.Time {
	expiry := m.now().Add(m.cfg.TTL).UTC()
	if exp, ok := jwtExpiry(token); ok && exp.Before(expiry) {
		return exp.UTC()
	}
	return expiry
}

// jwtExpiry reads the exp claim without verifying the signature; the token
// is issued to us and only its lifetime matters here.
func jwtExpiry(token string) (time.Time, bool) {
	if strings.Count(token, ".") != 2 {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
