package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"backoffice/internal/auth"
	"backoffice/internal/domain/categories"
	"backoffice/internal/domain/dashboard"
	"backoffice/internal/domain/orders"
	"backoffice/internal/domain/payments"
	"backoffice/internal/domain/products"
	"backoffice/internal/domain/storage"
	"backoffice/internal/domain/users"
	"backoffice/internal/infra/dbx"
	"backoffice/internal/infra/dbx/dbxtest"
	"backoffice/internal/media"
	"backoffice/internal/notifications"
	"backoffice/internal/pricing"
	"backoffice/internal/ratelimiter"
	"backoffice/internal/sku"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type fakeUsers struct {
	users.Store
	mu   sync.Mutex
	byID map[int64]*users.User
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return u, nil
}

type fakeProducts struct {
	products.Store
	mu             sync.Mutex
	byID           map[int64]*products.Product
	updateImageErr error
}

func (f *fakeProducts) GetByID(_ context.Context, id int64) (*products.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, products.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) GetBySKU(_ context.Context, code string) (*products.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.byID {
		if p.SKU == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, products.ErrNotFound
}

func (f *fakeProducts) Create(_ context.Context, p *products.Product) (*products.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = int64(len(f.byID) + 7)
	p.SKU = sku.Format("BAG", int(p.ID), sku.DefaultWidth)
	cp := *p
	f.byID[p.ID] = &cp
	return p, nil
}

func (f *fakeProducts) Update(_ context.Context, id int64, in products.UpdateInput) (*products.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, products.ErrNotFound
	}
	if in.SKU != nil {
		if err := sku.CheckImmutable(p.SKU, *in.SKU); err != nil {
			return nil, err
		}
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) UpdateImagePath(_ context.Context, id int64, path *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateImageErr != nil {
		return f.updateImageErr
	}
	p, ok := f.byID[id]
	if !ok {
		return products.ErrNotFound
	}
	if path == nil {
		p.ImagePath = nil
		return nil
	}
	v := *path
	p.ImagePath = &v
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, id int64) (*products.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, products.ErrNotFound
	}
	delete(f.byID, id)
	return p, nil
}

type fakeCategories struct {
	categories.Store
	mu   sync.Mutex
	byID map[int64]*categories.Category
}

func (f *fakeCategories) Update(_ context.Context, id int64, in categories.UpdateInput) (*categories.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return nil, categories.ErrNotFound
	}
	if in.Prefix != nil && *in.Prefix != c.Prefix {
		if c.ProductCount > 0 {
			return nil, categories.ErrPrefixInUse
		}
		c.Prefix = *in.Prefix
	}
	if in.Name != nil {
		c.Name = *in.Name
	}
	cp := *c
	return &cp, nil
}

type fakePayments struct {
	payments.Store
	mu   sync.Mutex
	byID map[int64]*payments.Payment
}

func (f *fakePayments) decide(id, verifierID int64, status string, reason *string) (*payments.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, payments.ErrNotFound
	}
	if !payments.CanTransition(p.Status, status) {
		return nil, fmt.Errorf("%w: payment is %s", payments.ErrInvalidTransition, p.Status)
	}
	p.Status = status
	p.Verified = status == payments.StatusVerified
	p.VerifiedBy = &verifierID
	p.RejectionReason = reason
	cp := *p
	return &cp, nil
}

func (f *fakePayments) Verify(_ context.Context, id, verifierID int64) (*payments.Payment, error) {
	return f.decide(id, verifierID, payments.StatusVerified, nil)
}

func (f *fakePayments) Reject(_ context.Context, id, verifierID int64, reason string) (*payments.Payment, error) {
	return f.decide(id, verifierID, payments.StatusRejected, &reason)
}

type fakeOrders struct {
	orders.Store
	byID map[int64]*orders.Order
}

func (f *fakeOrders) GetByID(_ context.Context, id int64) (*orders.Order, error) {
	o, ok := f.byID[id]
	if !ok {
		return nil, orders.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

type fakeDashboard struct {
	dashboard.Store
	mu   sync.Mutex
	days []int
}

func (f *fakeDashboard) SalesByDay(_ context.Context, days int) ([]dashboard.DailySales, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.days = append(f.days, days)
	return []dashboard.DailySales{}, nil
}

// fakeMailer reports every send on sent.
type fakeMailer struct {
	sent chan string
}

func (m *fakeMailer) Send(templateFile, username, email string, data any) error {
	m.sent <- templateFile + " " + email
	return nil
}

func (m *fakeMailer) wait(t *testing.T) string {
	t.Helper()
	select {
	case s := <-m.sent:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("no notification sent")
		return ""
	}
}

// memStore is an in-memory media.ImageStore.
type memStore struct {
	mu      sync.Mutex
	files   map[string][]byte
	removed []string
	putErr  error
}

func (m *memStore) Put(_ context.Context, key string, r io.Reader) (string, error) {
	if m.putErr != nil {
		return "", m.putErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p := "/uploads/" + key
	m.files[p] = b
	return p, nil
}

func (m *memStore) Remove(_ context.Context, p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, p)
	delete(m.files, p)
	return nil
}

func (m *memStore) Same(a, b string) bool { return a == b }

func (m *memStore) has(p string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[p]
	return ok
}

// fakeDB hands out transactions that only track how they ended.
type fakeDB struct {
	dbxtest.Recorder
	mu        sync.Mutex
	begun     int
	commits   int
	rollbacks int
	commitErr error
}

func (db *fakeDB) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.begun++
	return &fakeTx{db: db}, nil
}

func (db *fakeDB) counts() (begun, commits, rollbacks int) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.begun, db.commits, db.rollbacks
}

type fakeTx struct {
	pgx.Tx
	db   *fakeDB
	done bool
}

func (tx *fakeTx) Commit(context.Context) error {
	tx.db.mu.Lock()
	defer tx.db.mu.Unlock()
	if tx.db.commitErr != nil {
		return tx.db.commitErr
	}
	tx.done = true
	tx.db.commits++
	return nil
}

func (tx *fakeTx) Rollback(context.Context) error {
	tx.db.mu.Lock()
	defer tx.db.mu.Unlock()
	if tx.done {
		return pgx.ErrTxClosed
	}
	tx.done = true
	tx.db.rollbacks++
	return nil
}

var errDiskFull = errors.New("disk full")

type testEnv struct {
	app        *application
	db         *fakeDB
	products   *fakeProducts
	categories *fakeCategories
	payments   *fakePayments
	orders     *fakeOrders
	dashboard  *fakeDashboard
	images     *memStore
	mail       *fakeMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	calc, err := pricing.NewCalculator(pricing.DefaultVATRate)
	if err != nil {
		t.Fatal(err)
	}

	contact := "somchai@example.com"
	env := &testEnv{
		db: &fakeDB{},
		products: &fakeProducts{byID: map[int64]*products.Product{
			7: {ID: 7, SKU: "BAG0007", Name: "Canvas tote", CategoryID: 2,
				PriceExcludingVAT: mustDecimal("100.00"), StockQuantity: 3, Status: products.StatusActive},
		}},
		categories: &fakeCategories{byID: map[int64]*categories.Category{
			2: {ID: 2, Name: "Bags", Prefix: "BAG", Status: categories.StatusActive, ProductCount: 1},
			4: {ID: 4, Name: "Electronics", Prefix: "ELC", Status: categories.StatusActive},
		}},
		payments: &fakePayments{byID: map[int64]*payments.Payment{
			21: {ID: 21, OrderID: 11, PaymentMethod: payments.MethodPromptPay,
				Amount: mustDecimal("107.00"), Status: payments.StatusPending},
			22: {ID: 22, OrderID: 11, PaymentMethod: payments.MethodPromptPay,
				Amount: mustDecimal("107.00"), Status: payments.StatusVerified},
		}},
		orders: &fakeOrders{byID: map[int64]*orders.Order{
			11: {ID: 11, OrderNumber: "ORD-TEST-0011", Status: orders.StatusPending,
				PaymentStatus: orders.PaymentPendingVerification, ContactEmail: &contact},
		}},
		dashboard: &fakeDashboard{},
		images:    &memStore{files: map[string][]byte{}},
		mail:      &fakeMailer{sent: make(chan string, 4)},
	}

	store := storage.NewContainer(env.db, storage.Deps{})
	store.Users = &fakeUsers{byID: map[int64]*users.User{
		1: {ID: 1, Email: "admin@example.com", Role: users.RoleAdmin, Status: users.StatusActive},
		2: {ID: 2, Email: "somchai@example.com", Role: users.RoleCustomer, Status: users.StatusActive},
		3: {ID: 3, Email: "suspended@example.com", Role: users.RoleStaff, Status: users.StatusSuspended},
	}}
	store.Products = env.products
	store.Categories = env.categories
	store.Payments = env.payments
	store.Orders = env.orders
	store.Dashboard = env.dashboard
	store.TxScope = func(dbx.Querier) *storage.Tx {
		return &storage.Tx{
			Categories: env.categories,
			Products:   env.products,
			Payments:   env.payments,
			Orders:     env.orders,
		}
	}

	logger := zap.NewNop().Sugar()
	env.app = &application{
		config: config{
			env:         "test",
			apiURL:      "localhost:8080",
			frontendURL: "http://localhost:5173",
			uploads:     uploadConfig{backend: "local", dir: t.TempDir()},
			rateLimiter: ratelimiter.Config{Enabled: false},
		},
		logger:        logger,
		store:         store,
		images:        media.NewPipeline(env.images, logger),
		notifier:      notifications.NewSender(env.mail, logger),
		authenticator: auth.NewJWTAuthenticator("test-secret", "test-refresh-secret", "backoffice", "backoffice", time.Hour, 24*time.Hour),
		rateLimiter:   ratelimiter.NewFixedWindowLimiter(100, time.Minute),
		pricing:       calc,
	}
	return env
}

func newTestApplication(t *testing.T) *application {
	t.Helper()
	return newTestEnv(t).app
}

func bearer(t *testing.T, app *application, userID int64, role string) string {
	t.Helper()
	access, _, err := app.authenticator.GenerateTokens(userID, role)
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + access
}

func executeRequest(req *http.Request, mux http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func checkResponseCode(t *testing.T, expected, actual int) {
	t.Helper()
	if expected != actual {
		t.Errorf("expected the response code to be %d and we got %d", expected, actual)
	}
}
