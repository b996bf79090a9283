package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/carbonmatch-backend/internal/clients/matchapi"
	"github.com/yungbote/carbonmatch-backend/internal/data/repos"
	"github.com/yungbote/carbonmatch-backend/internal/data/repos/testutil"
	types "github.com/yungbote/carbonmatch-backend/internal/domain"
)

type fakeMatchAPI struct {
	mu      sync.Mutex
	results map[string]*matchapi.MatchResult
	queries []string

	matchErr   error
	fetchErr   error
	refreshErr error
	fetchDelay time.Duration

	fetchPair   matchapi.TokenPair
	refreshPair matchapi.TokenPair

	fetchCalls   int32
	refreshCalls int32
	matchCalls   int32
	lastRefresh  string
}

func newFakeMatchAPI() *fakeMatchAPI {
	return &fakeMatchAPI{
		results:     map[string]*matchapi.MatchResult{},
		fetchPair:   matchapi.TokenPair{APIToken: "fetched-token", RefreshToken: "fetched-refresh"},
		refreshPair: matchapi.TokenPair{APIToken: "refreshed-token", RefreshToken: "refreshed-refresh"},
	}
}

func (f *fakeMatchAPI) BestMatch(ctx context.Context, token, query string) (*matchapi.MatchResult, error) {
	atomic.AddInt32(&f.matchCalls, 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.matchErr != nil {
		return nil, f.matchErr
	}
	if token == "" {
		return nil, errors.New("missing token")
	}
	if res, ok := f.results[query]; ok {
		return res, nil
	}
	return &matchapi.MatchResult{}, nil
}

func (f *fakeMatchAPI) FetchToken(ctx context.Context) (matchapi.TokenPair, error) {
	atomic.AddInt32(&f.fetchCalls, 1)
	if f.fetchDelay > 0 {
		time.Sleep(f.fetchDelay)
	}
	if f.fetchErr != nil {
		return matchapi.TokenPair{}, f.fetchErr
	}
	return f.fetchPair, nil
}

func (f *fakeMatchAPI) RefreshToken(ctx context.Context, refresh string) (matchapi.TokenPair, error) {
	atomic.AddInt32(&f.refreshCalls, 1)
	f.mu.Lock()
	f.lastRefresh = refresh
	f.mu.Unlock()
	if f.refreshErr != nil {
		return matchapi.TokenPair{}, f.refreshErr
	}
	return f.refreshPair, nil
}

func num(v float64) matchapi.Number { return matchapi.Number{Value: v, Valid: true} }

// brickResult is a match payload with gwp 120 and a scaling factor of 2 for m2.
func brickResult() *matchapi.MatchResult {
	return &matchapi.MatchResult{
		BestProduct: matchapi.Product{
			ProductName:        "Red Brick",
			ProductCompanyName: "Acme Bricks",
			ProductMatchScore:  num(0.9),
			ProductData: matchapi.ProductData{
				Density: num(1800),
				MaterialFacts: matchapi.MaterialFacts{
					GlobalWarmingPotentialFossil: matchapi.GWP{A1A2A3: num(120)},
					DeclaredUnit:                 "1 m2",
					DataSource:                   "EPD",
					ScalingFactors: map[string]matchapi.ScalingFactor{
						"m2": {Value: num(2)},
					},
				},
			},
		},
		BestMaterial:   matchapi.Material{MaterialName: "Clay"},
		Classification: matchapi.Classification{MaterialType: "Masonry"},
		QuantityInfo: &matchapi.QuantityInfo{
			Package:     matchapi.PackageInfo{Type: "pallet", ItemCount: num(500)},
			ItemDetails: matchapi.ItemDetails{BaseUnit: "brick", Length: num(0.215)},
		},
		Raw: []byte(`{"best_product":{"product_name":"Red Brick"}}`),
	}
}

type serviceEnv struct {
	db   *gorm.DB
	api  *fakeMatchAPI
	repo struct {
		lineItems repos.LineItemRepo
		invoices  repos.InvoiceDataRepo
		mappings  repos.ProductMappingRepo
		changes   repos.ChangeLogRepo
		creds     repos.CredentialRepo
	}
	creds    CredentialManager
	matcher  MatchEnrichmentService
	revision RevisionService
}

func newServiceEnv(t *testing.T, matchCfg MatchEnrichmentConfig, credCfg CredentialConfig) *serviceEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	env := &serviceEnv{db: db, api: newFakeMatchAPI()}
	env.repo.lineItems = repos.NewLineItemRepo(db, log)
	env.repo.invoices = repos.NewInvoiceDataRepo(db, log)
	env.repo.mappings = repos.NewProductMappingRepo(db, log)
	env.repo.changes = repos.NewChangeLogRepo(db, log)
	env.repo.creds = repos.NewCredentialRepo(db, log)

	env.creds = NewCredentialManager(log, env.repo.creds, env.api, nil, credCfg)
	env.matcher = NewMatchEnrichmentService(
		db,
		log,
		env.repo.lineItems,
		env.repo.invoices,
		repos.NewBuildingRepo(db, log),
		repos.NewPhaseRepo(db, log),
		repos.NewDirectoryUserRepo(db, log),
		env.creds,
		env.api,
		matchCfg,
	)
	env.revision = NewRevisionService(
		db,
		log,
		env.repo.lineItems,
		env.repo.mappings,
		env.repo.changes,
		repos.NewUnitOfMeasureRepo(db, log),
	)
	return env
}

func (e *serviceEnv) seedValidCredential(t *testing.T, token string) {
	t.Helper()
	exp := time.Now().Add(time.Hour).UTC()
	if err := e.db.Create(&types.Credential{
		TokenName:       types.CredentialLabelFetched,
		TokenValue:      token,
		RefreshToken:    "stored-refresh",
		TokenExpiryTime: &exp,
	}).Error; err != nil {
		t.Fatalf("seed credential: %v", err)
	}
}

func (e *serviceEnv) seedExpiredCredential(t *testing.T) {
	t.Helper()
	exp := time.Now().Add(-time.Minute).UTC()
	if err := e.db.Create(&types.Credential{
		TokenName:       types.CredentialLabelFetched,
		TokenValue:      "stale-token",
		RefreshToken:    "stored-refresh",
		TokenExpiryTime: &exp,
	}).Error; err != nil {
		t.Fatalf("seed credential: %v", err)
	}
}

func (e *serviceEnv) reload(t *testing.T, id uint) *types.LineItem {
	t.Helper()
	var item types.LineItem
	if err := e.db.First(&item, id).Error; err != nil {
		t.Fatalf("reload line item %d: %v", id, err)
	}
	return &item
}

func (e *serviceEnv) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
