package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jockelind/lagerkoll/internal/engine"
	"github.com/jockelind/lagerkoll/internal/store"
	domain "github.com/jockelind/lagerkoll/pkg/types"
)

// ItemChecker defines the interface for checking a single item.
type ItemChecker interface {
	Check(ctx context.Context, item *domain.Item) error
}

// BatchRunner defines the interface for triggering and inspecting batches.
type BatchRunner interface {
	Run(ctx context.Context, ownerID *int64) (domain.BatchReport, error)
	Status(ownerID *int64) (bool, time.Time)
}

// CheckHandler handles manual single-item check triggers.
type CheckHandler struct {
	store   store.Store
	checker ItemChecker
}

// NewCheckHandler creates a new CheckHandler.
func NewCheckHandler(s store.Store, c ItemChecker) *CheckHandler {
	return &CheckHandler{store: s, checker: c}
}

// CheckInput identifies the item to check.
type CheckInput struct {
	ID int64 `path:"id" doc:"Item ID"`
}

// CheckOutput is the response body for a single-item check.
type CheckOutput struct {
	Body struct {
		OK          bool   `json:"ok" doc:"Whether the check succeeded"`
		Error       string `json:"error,omitempty" doc:"Failure message when ok is false"`
		TotalStock  *int   `json:"total_stock,omitempty" doc:"New cached total stock"`
		Probability string `json:"probability,omitempty" doc:"New probability summary"`
	}
}

// Check runs one availability check for an item and reports the outcome.
// A failed external call is a recorded observation, not an HTTP error, so
// it still returns 200 with ok=false and the specific message.
func (h *CheckHandler) Check(ctx context.Context, in *CheckInput) (*CheckOutput, error) {
	item, err := h.store.GetItem(ctx, in.ID)
	if err != nil {
		return nil, huma.Error404NotFound("item not found")
	}
	return h.runCheck(ctx, item)
}

// CheckByProductInput identifies the item by its external product id, for
// webhook callers that don't know internal ids.
type CheckByProductInput struct {
	ProductID string `path:"productID" doc:"External product ID"`
}

// CheckByProduct resolves a tracked item by product id and checks it.
func (h *CheckHandler) CheckByProduct(
	ctx context.Context,
	in *CheckByProductInput,
) (*CheckOutput, error) {
	item, err := h.store.GetItemByProductID(ctx, in.ProductID)
	if err != nil {
		return nil, huma.Error404NotFound("no item tracks product " + in.ProductID)
	}
	return h.runCheck(ctx, item)
}

func (h *CheckHandler) runCheck(ctx context.Context, item *domain.Item) (*CheckOutput, error) {
	resp := &CheckOutput{}

	if err := h.checker.Check(ctx, item); err != nil {
		if errors.Is(err, engine.ErrCheckInFlight) {
			return nil, huma.Error409Conflict("check already in flight for item")
		}
		resp.Body.Error = err.Error()
		return resp, nil
	}

	resp.Body.OK = true
	resp.Body.TotalStock = item.LastStock
	if item.LastProbability != nil {
		resp.Body.Probability = *item.LastProbability
	}
	return resp, nil
}

// BatchHandler handles batch check triggers and status polling.
type BatchHandler struct {
	runner BatchRunner
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(r BatchRunner) *BatchHandler {
	return &BatchHandler{runner: r}
}

// BatchInput optionally scopes the batch to one owner's items.
type BatchInput struct {
	UserID int64 `query:"user_id" required:"false" doc:"Owner scope; omit for all items"`
}

func (in *BatchInput) ownerID() *int64 {
	if in.UserID == 0 {
		return nil
	}
	return &in.UserID
}

// BatchOutput is the response body for a batch run.
type BatchOutput struct {
	Body struct {
		OK     int `json:"ok" doc:"Items checked successfully"`
		Failed int `json:"failed" doc:"Items whose check failed"`
	}
}

// Run executes a batch over all active items in scope and reports counts.
func (h *BatchHandler) Run(ctx context.Context, in *BatchInput) (*BatchOutput, error) {
	report, err := h.runner.Run(ctx, in.ownerID())
	if err != nil {
		if errors.Is(err, engine.ErrBatchRunning) {
			return nil, huma.Error409Conflict("batch already running for this scope")
		}
		return nil, huma.Error500InternalServerError("batch failed: " + err.Error())
	}

	resp := &BatchOutput{}
	resp.Body.OK = report.OK
	resp.Body.Failed = report.Failed
	return resp, nil
}

// BatchStatusOutput is the response body for the batch status poll.
type BatchStatusOutput struct {
	Body struct {
		Running bool       `json:"running" doc:"Whether a batch is in flight for this scope"`
		Since   *time.Time `json:"since,omitempty" doc:"Start time of the running batch"`
	}
}

// Status reports whether a batch is in flight for the scope.
func (h *BatchHandler) Status(_ context.Context, in *BatchInput) (*BatchStatusOutput, error) {
	running, since := h.runner.Status(in.ownerID())

	resp := &BatchStatusOutput{}
	resp.Body.Running = running
	if running {
		resp.Body.Since = &since
	}
	return resp, nil
}

// RegisterTriggerRoutes registers check trigger endpoints with the Huma API.
func RegisterTriggerRoutes(api huma.API, checkH *CheckHandler, batchH *BatchHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "check-item",
		Method:      http.MethodPost,
		Path:        "/api/v1/items/{id}/check",
		Summary:     "Check one item now",
		Description: "Queries the availability source for the item, appends a snapshot, " +
			"updates the cached state, and fires threshold alerts.",
		Tags:   []string{"checks"},
		Errors: []int{http.StatusNotFound, http.StatusConflict},
	}, checkH.Check)

	huma.Register(api, huma.Operation{
		OperationID: "check-product",
		Method:      http.MethodPost,
		Path:        "/api/v1/products/{productID}/check",
		Summary:     "Check by product id",
		Description: "Resolves the tracked item for an external product id and checks it. " +
			"Intended for webhook callers that don't know internal item ids.",
		Tags:   []string{"checks"},
		Errors: []int{http.StatusNotFound, http.StatusConflict},
	}, checkH.CheckByProduct)

	huma.Register(api, huma.Operation{
		OperationID: "run-batch",
		Method:      http.MethodPost,
		Path:        "/api/v1/check",
		Summary:     "Check all active items",
		Description: "Runs a sequential batch over active items, optionally scoped to one owner. " +
			"A second trigger for the same scope is rejected while one is running.",
		Tags:   []string{"checks"},
		Errors: []int{http.StatusConflict, http.StatusInternalServerError},
	}, batchH.Run)

	huma.Register(api, huma.Operation{
		OperationID: "batch-status",
		Method:      http.MethodGet,
		Path:        "/api/v1/check/status",
		Summary:     "Poll batch status",
		Description: "Reports whether a batch is currently running for the scope.",
		Tags:        []string{"checks"},
	}, batchH.Status)
}
