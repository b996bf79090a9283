package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/carbonmatch-backend/internal/clients/matchapi"
	types "github.com/yungbote/carbonmatch-backend/internal/domain"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/carbonmatch-backend/internal/pkg/errors"
)

func TestIsValid(t *testing.T) {
	env := newServiceEnv(t, MatchEnrichmentConfig{}, CredentialConfig{})
	past := time.Now().Add(-time.Second)
	future := time.Now().Add(time.Hour)
	if env.creds.IsValid(nil) {
		t.Fatalf("nil expiry must be invalid")
	}
	if env.creds.IsValid(&past) {
		t.Fatalf("past expiry must be invalid")
	}
	if !env.creds.IsValid(&future) {
		t.Fatalf("future expiry must be valid")
	}
}

func TestCurrentTokenReturnsStoredTokenWhileValid(t *testing.T) {
	env := newServiceEnv(t, MatchEnrichmentConfig{}, CredentialConfig{})
	env.seedValidCredential(t, "stored-token")

	tok, err := env.creds.CurrentToken(context.Background())
	if err != nil {
		t.Fatalf("CurrentToken: %v", err)
	}
	if tok != "stored-token" {
		t.Fatalf("token=%q, want stored-token", tok)
	}
	if n := atomic.LoadInt32(&env.api.fetchCalls) + atomic.LoadInt32(&env.api.refreshCalls); n != 0 {
		t.Fatalf("token endpoints called %d times, want 0", n)
	}
}

func TestCurrentTokenRenewsOnceUnderConcurrency(t *testing.T) {
	env := newServiceEnv(t, MatchEnrichmentConfig{}, CredentialConfig{})
	env.seedExpiredCredential(t)
	env.api.fetchDelay = 50 * time.Millisecond

	const callers = 16
	var wg sync.WaitGroup
	tokens := make([]string, callers)
	errs := make([]error, callers)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			tokens[i], errs[i] = env.creds.CurrentToken(context.Background())
		}(i)
	}
	close(start)
	wg.Wait()

	for i := range tokens {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if tokens[i] != "fetched-token" {
			t.Fatalf("caller %d token=%q", i, tokens[i])
		}
	}
	if n := atomic.LoadInt32(&env.api.fetchCalls); n != 1 {
		t.Fatalf("fetch calls=%d, want 1", n)
	}
	if n := env.count(t, &types.Credential{}); n != 1 {
		t.Fatalf("credential rows=%d, want 1", n)
	}
}

func TestFetchFailureYieldsNoToken(t *testing.T) {
	env := newServiceEnv(t, MatchEnrichmentConfig{}, CredentialConfig{})
	env.api.fetchErr = errors.New("connection refused")

	tok, err := env.creds.CurrentToken(context.Background())
	if tok != "" {
		t.Fatalf("token=%q, want empty", tok)
	}
	if !errors.Is(err, pkgerrors.ErrCredentialFetch) {
		t.Fatalf("want ErrCredentialFetch, got %v", err)
	}
	if n := env.count(t, &types.Credential{}); n != 0 {
		t.Fatalf("credential rows=%d, want 0", n)
	}
}

func TestFetchOverwritesSingletonRow(t *testing.T) {
	env := newServiceEnv(t, MatchEnrichmentConfig{}, CredentialConfig{TTL: 24 * time.Hour})
	env.seedExpiredCredential(t)

	before := time.Now()
	tok, err := env.creds.Fetch(context.Background())
	if err != nil || tok != "fetched-token" {
		t.Fatalf("Fetch: tok=%q err=%v", tok, err)
	}
	cred, err := env.repo.creds.Get(dbctx.Context{Ctx: context.Background()})
	if err != nil || cred == nil {
		t.Fatalf("Get: cred=%v err=%v", cred, err)
	}
	if cred.TokenName != types.CredentialLabelFetched || cred.RefreshToken != "fetched-refresh" {
		t.Fatalf("unexpected credential %+v", cred)
	}
	if cred.TokenExpiryTime == nil || cred.TokenExpiryTime.Before(before.Add(23*time.Hour)) {
		t.Fatalf("expiry=%v, want about 24h ahead", cred.TokenExpiryTime)
	}
	if n := env.count(t, &types.Credential{}); n != 1 {
		t.Fatalf("credential rows=%d, want 1", n)
	}
}

func TestRefreshKeepsChainWhenResponseOmitsRefreshToken(t *testing.T) {
	env := newServiceEnv(t, MatchEnrichmentConfig{}, CredentialConfig{})
	env.seedExpiredCredential(t)
	env.api.refreshPair = matchapi.TokenPair{APIToken: "refreshed-token"}

	tok, err := env.creds.Refresh(context.Background())
	if err != nil || tok != "refreshed-token" {
		t.Fatalf("Refresh: tok=%q err=%v", tok, err)
	}
	if env.api.lastRefresh != "stored-refresh" {
		t.Fatalf("refresh sent %q, want stored-refresh", env.api.lastRefresh)
	}
	cred, _ := env.repo.creds.Get(dbctx.Context{Ctx: context.Background()})
	if cred.RefreshToken != "stored-refresh" || cred.TokenName != types.CredentialLabelRefreshed {
		t.Fatalf("unexpected credential after refresh %+v", cred)
	}
}

func TestRefreshWithoutStoredCredentialFails(t *testing.T) {
	env := newServiceEnv(t, MatchEnrichmentConfig{}, CredentialConfig{})
	if _, err := env.creds.Refresh(context.Background()); !errors.Is(err, pkgerrors.ErrCredentialFetch) {
		t.Fatalf("want ErrCredentialFetch, got %v", err)
	}
	if n := atomic.LoadInt32(&env.api.refreshCalls); n != 0 {
		t.Fatalf("refresh endpoint called %d times", n)
	}
}

func TestPreferRefreshFallsBackToFetch(t *testing.T) {
	env := newServiceEnv(t, MatchEnrichmentConfig{}, CredentialConfig{PreferRefresh: true})
	env.seedExpiredCredential(t)
	env.api.refreshErr = errors.New("refresh rejected")

	tok, err := env.creds.CurrentToken(context.Background())
	if err != nil || tok != "fetched-token" {
		t.Fatalf("CurrentToken: tok=%q err=%v", tok, err)
	}
	if atomic.LoadInt32(&env.api.refreshCalls) != 1 || atomic.LoadInt32(&env.api.fetchCalls) != 1 {
		t.Fatalf("refresh=%d fetch=%d, want 1 and 1", env.api.refreshCalls, env.api.fetchCalls)
	}
}

func TestExpiryCappedByJWTClaim(t *testing.T) {
	env := newServiceEnv(t, MatchEnrichmentConfig{}, CredentialConfig{TTL: 24 * time.Hour})
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	env.api.fetchPair = matchapi.TokenPair{APIToken: signed, RefreshToken: "r"}

	if _, err := env.creds.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	cred, _ := env.repo.creds.Get(dbctx.Context{Ctx: context.Background()})
	if cred.TokenExpiryTime == nil || !cred.TokenExpiryTime.Equal(exp.UTC()) {
		t.Fatalf("expiry=%v, want %v", cred.TokenExpiryTime, exp.UTC())
	}
}
