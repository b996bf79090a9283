package auth

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/carbonmatch-backend/internal/data/repos/testutil"
	types "github.com/yungbote/carbonmatch-backend/internal/domain"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/dbctx"
)

func TestCredentialRepoKeepsSingleRow(t *testing.T) {
	db := testutil.DB(t)
	dbc := dbctx.Context{Ctx: context.Background()}
	repo := NewCredentialRepo(db, testutil.Logger(t))

	if cred, err := repo.Get(dbc); err != nil || cred != nil {
		t.Fatalf("Get(empty): cred=%v err=%v", cred, err)
	}

	exp := time.Now().Add(time.Hour).UTC()
	first, err := repo.Put(dbc, &types.Credential{
		TokenName:       types.CredentialLabelFetched,
		TokenValue:      "a1",
		RefreshToken:    "r1",
		TokenExpiryTime: &exp,
	})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	second, err := repo.Put(dbc, &types.Credential{
		TokenName:       types.CredentialLabelRefreshed,
		TokenValue:      "a2",
		RefreshToken:    "r2",
		TokenExpiryTime: &exp,
	})
	if err != nil {
		t.Fatalf("Put again: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("Put created a second row: %d vs %d", first.ID, second.ID)
	}
	if n, err := repo.Count(dbc); err != nil || n != 1 {
		t.Fatalf("Count: n=%d err=%v", n, err)
	}
	got, err := repo.Get(dbc)
	if err != nil || got == nil {
		t.Fatalf("Get: cred=%v err=%v", got, err)
	}
	if got.TokenValue != "a2" || got.RefreshToken != "r2" || got.TokenName != types.CredentialLabelRefreshed {
		t.Fatalf("Get: unexpected credential %+v", got)
	}
}
