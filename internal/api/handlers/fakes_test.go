package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jockelind/lagerkoll/internal/availability"
	"github.com/jockelind/lagerkoll/internal/store"
	domain "github.com/jockelind/lagerkoll/pkg/types"
)

// fakeStore stubs just the store.Store methods a test needs; calling an
// unstubbed method panics via the embedded nil interface.
type fakeStore struct {
	store.Store

	getItem            func(id int64) (*domain.Item, error)
	getItemByProductID func(productID string) (*domain.Item, error)
	listItems          func(q *store.ItemQuery) ([]domain.Item, error)
	createItem         func(it *domain.Item) error
	updateItem         func(it *domain.Item) error
	setItemActive      func(id int64, active bool) error
	deleteItem         func(id int64) error

	listSnapshots  func(itemID int64, limit int) ([]domain.Snapshot, error)
	countSnapshots func(itemID int64) (int, error)

	listUsers  func() ([]domain.User, error)
	getUser    func(id int64) (*domain.User, error)
	createUser func(u *domain.User) error

	dashboard func(ownerID *int64) (*domain.DashboardSummary, error)
	ping      func() error
}

func (f *fakeStore) GetItem(_ context.Context, id int64) (*domain.Item, error) {
	return f.getItem(id)
}

func (f *fakeStore) GetItemByProductID(_ context.Context, productID string) (*domain.Item, error) {
	return f.getItemByProductID(productID)
}

func (f *fakeStore) ListItems(_ context.Context, q *store.ItemQuery) ([]domain.Item, error) {
	return f.listItems(q)
}

func (f *fakeStore) CreateItem(_ context.Context, it *domain.Item) error {
	return f.createItem(it)
}

func (f *fakeStore) UpdateItem(_ context.Context, it *domain.Item) error {
	return f.updateItem(it)
}

func (f *fakeStore) SetItemActive(_ context.Context, id int64, active bool) error {
	return f.setItemActive(id, active)
}

func (f *fakeStore) DeleteItem(_ context.Context, id int64) error {
	return f.deleteItem(id)
}

func (f *fakeStore) ListSnapshots(_ context.Context, itemID int64, limit int) ([]domain.Snapshot, error) {
	return f.listSnapshots(itemID, limit)
}

func (f *fakeStore) CountSnapshots(_ context.Context, itemID int64) (int, error) {
	return f.countSnapshots(itemID)
}

func (f *fakeStore) ListUsers(_ context.Context) ([]domain.User, error) {
	return f.listUsers()
}

func (f *fakeStore) GetUser(_ context.Context, id int64) (*domain.User, error) {
	return f.getUser(id)
}

func (f *fakeStore) CreateUser(_ context.Context, u *domain.User) error {
	return f.createUser(u)
}

func (f *fakeStore) GetDashboardSummary(_ context.Context, ownerID *int64) (*domain.DashboardSummary, error) {
	return f.dashboard(ownerID)
}

func (f *fakeStore) Ping(_ context.Context) error {
	if f.ping == nil {
		return nil
	}
	return f.ping()
}

// fakeSource stubs the availability source.
type fakeSource struct {
	fetch  func(region, productID string, storeIDs []string) ([]availability.StoreStock, error)
	stores func(region string) ([]availability.StoreInfo, error)
}

func (f *fakeSource) Fetch(
	_ context.Context,
	region, productID string,
	storeIDs []string,
) ([]availability.StoreStock, error) {
	return f.fetch(region, productID, storeIDs)
}

func (f *fakeSource) Stores(_ context.Context, region string) ([]availability.StoreInfo, error) {
	return f.stores(region)
}

// fakeChecker stubs the single-item check trigger.
type fakeChecker struct {
	check func(item *domain.Item) error
}

func (f *fakeChecker) Check(_ context.Context, item *domain.Item) error {
	return f.check(item)
}

// fakeRunner stubs the batch trigger.
type fakeRunner struct {
	run    func(ownerID *int64) (domain.BatchReport, error)
	status func(ownerID *int64) (bool, time.Time)
}

func (f *fakeRunner) Run(_ context.Context, ownerID *int64) (domain.BatchReport, error) {
	return f.run(ownerID)
}

func (f *fakeRunner) Status(ownerID *int64) (bool, time.Time) {
	return f.status(ownerID)
}

// newEchoContext builds an echo context plus recorder for handler tests.
func newEchoContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
