package deliverynote

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yungbote/carbonmatch-backend/internal/data/repos/testutil"
	types "github.com/yungbote/carbonmatch-backend/internal/domain"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/dbctx"
)

func TestChangeLogRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewChangeLogRepo(db, testutil.Logger(t))

	qty := decimal.NewFromInt(12)
	first, err := repo.Create(dbc, &types.ChangeLog{
		ID:                        99,
		DeliveryNoteRefNo:         "DN-1",
		ItemID:                    1,
		ProductDescription:        "Brick",
		RevisedProductDescription: "Clay brick",
		RevisedQuantity:           &qty,
		RevisedUserID:             "u1",
		RevisedDate:               time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := repo.Create(dbc, &types.ChangeLog{DeliveryNoteRefNo: "DN-1", ItemID: 2, RevisedDate: time.Now().UTC()})
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}
	if second.ID <= first.ID {
		t.Fatalf("ids not increasing: first=%d second=%d", first.ID, second.ID)
	}
	if _, err := repo.Create(dbc, &types.ChangeLog{DeliveryNoteRefNo: "DN-2", ItemID: 1, RevisedDate: time.Now().UTC()}); err != nil {
		t.Fatalf("Create third: %v", err)
	}

	rows, err := repo.ListByDeliveryNote(dbc, "DN-1")
	if err != nil || len(rows) != 2 {
		t.Fatalf("ListByDeliveryNote: err=%v len=%d", err, len(rows))
	}
	if rows[0].RevisedQuantity == nil || !rows[0].RevisedQuantity.Equal(qty) {
		t.Fatalf("revised quantity round trip: %v", rows[0].RevisedQuantity)
	}
	if n, err := repo.Count(dbc); err != nil || n != 3 {
		t.Fatalf("Count: n=%d err=%v", n, err)
	}
}
