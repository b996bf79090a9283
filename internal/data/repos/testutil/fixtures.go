package testutil

import (
	"testing"

	"gorm.io/gorm"

	types "github.com/yungbote/carbonmatch-backend/internal/domain"
)

func SeedBuilding(tb testing.TB, tx *gorm.DB, customerRef string, gia float64) *types.Building {
	tb.Helper()
	b := &types.Building{Name: "building", CustomerRef: customerRef, GIA: gia, Status: true}
	if err := tx.Create(b).Error; err != nil {
		tb.Fatalf("seed building: %v", err)
	}
	return b
}

func SeedPhase(tb testing.TB, tx *gorm.DB, name string) *types.Phase {
	tb.Helper()
	p := &types.Phase{Name: name}
	if err := tx.Create(p).Error; err != nil {
		tb.Fatalf("seed phase: %v", err)
	}
	return p
}

func SeedUnits(tb testing.TB, tx *gorm.DB, names ...string) {
	tb.Helper()
	for _, n := range names {
		if err := tx.Create(&types.UnitOfMeasure{Name: n}).Error; err != nil {
			tb.Fatalf("seed unit %q: %v", n, err)
		}
	}
}

func SeedDirectoryUser(tb testing.TB, tx *gorm.DB, userID, customerRef string) *types.DirectoryUser {
	tb.Helper()
	u := &types.DirectoryUser{UserID: userID, CustomerRef: customerRef, VerificationStatus: "verified"}
	if err := tx.Create(u).Error; err != nil {
		tb.Fatalf("seed directory user: %v", err)
	}
	return u
}

// SeedLineItem inserts a captured line item. Zero-valued identifying fields
// get usable defaults.
func SeedLineItem(tb testing.TB, tx *gorm.DB, item *types.LineItem) *types.LineItem {
	tb.Helper()
	if item.DeliveryNoteRefNo == "" {
		item.DeliveryNoteRefNo = "DN-1"
	}
	if item.ItemNo == 0 {
		item.ItemNo = 1
	}
	if item.CustomerRef == "" {
		item.CustomerRef = "C1"
	}
	if err := tx.Create(item).Error; err != nil {
		tb.Fatalf("seed line item: %v", err)
	}
	return item
}
