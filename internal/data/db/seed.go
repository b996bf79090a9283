package db

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/carbonmatch-backend/internal/domain"
)

// UnitSeed is the on-disk shape of UNIT_SEED_FILE:
//
//	units:
//	  - m2
//	  - m3
//	  - kg
type UnitSeed struct {
	Units []string `yaml:"units"`
}

func LoadUnitSeed(path string) (UnitSeed, error) {
	var seed UnitSeed
	raw, err := os.ReadFile(path)
	if err != nil {
		return seed, fmt.Errorf("read unit seed: %w", err)
	}
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return seed, fmt.Errorf("parse unit seed: %w", err)
	}
	return seed, nil
}

// SeedUnits inserts vocabulary entries that are not present yet and returns
// how many rows were added.
func SeedUnits(db *gorm.DB, seed UnitSeed) (int, error) {
	rows := make([]types.UnitOfMeasure, 0, len(seed.Units))
	seen := map[string]bool{}
	for _, name := range seed.Units {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		rows = append(rows, types.UnitOfMeasure{Name: name})
	}
	if len(rows) == 0 {
		return 0, nil
	}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows)
	if res.Error != nil {
		return 0, fmt.Errorf("seed units: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

func (s *DatabaseService) SeedUnitsFromFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	seed, err := LoadUnitSeed(path)
	if err != nil {
		return err
	}
	n, err := SeedUnits(s.db, seed)
	if err != nil {
		return err
	}
	s.log.Info("Seeded unit vocabulary", "path", path, "inserted", n)
	return nil
}
