package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fuelgrid-cloud/pumproom/internal/repository/records"
	"github.com/fuelgrid-cloud/pumproom/internal/store/memory"
	bulkuc "github.com/fuelgrid-cloud/pumproom/internal/usecase/bulk"
	healthuc "github.com/fuelgrid-cloud/pumproom/internal/usecase/health"
	listinguc "github.com/fuelgrid-cloud/pumproom/internal/usecase/listing"
	requestsuc "github.com/fuelgrid-cloud/pumproom/internal/usecase/requests"
	searchuc "github.com/fuelgrid-cloud/pumproom/internal/usecase/search"
)

func newTestRouter(t *testing.T, store *memory.Store) chi.Router {
	t.Helper()
	logger := zap.NewNop()
	repo := records.New(store)

	server := NewServer(
		searchuc.New(repo, logger),
		listinguc.New(repo),
		bulkuc.New(repo, logger),
		requestsuc.New(repo, logger),
		healthuc.New(store),
		repo,
		logger,
	)

	r := chi.NewRouter()
	server.Mount(r)
	return r
}

func seedPumps(store *memory.Store) {
	store.Seed("petrolPumps", "p1", map[string]any{
		"name": "Sharma Fuels", "brand": "IOCL", "district": "Ajmer", "status": "active",
	})
	store.Seed("petrolPumps", "p2", map[string]any{
		"Customer Name": "Verma Station", "Company": "BPCL", "District": "Jaipur", "status": "inactive",
	})
}

func do(t *testing.T, r chi.Router, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, memory.NewStore())
	rr := do(t, r, "GET", "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	store := memory.NewStore()
	seedPumps(store)
	store.Seed("users", "u1", map[string]any{"name": "Sharma Prasad"})
	r := newTestRouter(t, store)

	rr := do(t, r, "GET", "/search?q=sharma", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp searchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("total = %d, want 2", resp.Total)
	}
	sources := map[string]bool{}
	for _, hit := range resp.Results {
		sources[hit.SourceType] = true
	}
	if !sources["user"] || !sources["pump"] {
		t.Errorf("sources = %v", sources)
	}
}

func TestSearchEndpoint_EmptyQuery(t *testing.T) {
	store := memory.NewStore()
	seedPumps(store)
	r := newTestRouter(t, store)

	rr := do(t, r, "GET", "/search", "")
	var resp searchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 0 {
		t.Errorf("total = %d, want 0", resp.Total)
	}
}

func TestListEndpoint_FiltersAndNormalizes(t *testing.T) {
	store := memory.NewStore()
	seedPumps(store)
	r := newTestRouter(t, store)

	rr := do(t, r, "GET", "/pumps?status=inactive", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp listResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || len(resp.Items) != 1 {
		t.Fatalf("resp = %+v", resp)
	}
	item := resp.Items[0]
	if item.ID != "p2" {
		t.Errorf("id = %s", item.ID)
	}
	if item.Fields["name"] != "Verma Station" {
		t.Errorf("normalized name = %v", item.Fields["name"])
	}
	if item.Record["Customer Name"] != "Verma Station" {
		t.Errorf("raw record lost: %v", item.Record)
	}
}

func TestListEndpoint_UnknownKind(t *testing.T) {
	r := newTestRouter(t, memory.NewStore())
	rr := do(t, r, "GET", "/vehicles", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestListEndpoint_BadDateRange(t *testing.T) {
	r := newTestRouter(t, memory.NewStore())
	rr := do(t, r, "GET", "/pumps?from=notadate", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestCrudRoundTrip(t *testing.T) {
	store := memory.NewStore()
	r := newTestRouter(t, store)

	rr := do(t, r, "POST", "/pumps", `{"name":"New Depot","brand":"HPCL"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var created createResponse
	if err := json.NewDecoder(rr.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rr = do(t, r, "GET", "/pumps/"+created.ID, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("get status = %d", rr.Code)
	}

	rr = do(t, r, "PATCH", "/pumps/"+created.ID, `{"status":"inactive"}`)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("update status = %d", rr.Code)
	}

	rr = do(t, r, "DELETE", "/pumps/"+created.ID, "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rr.Code)
	}

	rr = do(t, r, "GET", "/pumps/"+created.ID, "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d", rr.Code)
	}
}

func TestCreate_EmptyBodyRejected(t *testing.T) {
	r := newTestRouter(t, memory.NewStore())
	rr := do(t, r, "POST", "/pumps", `{}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestCreate_StampsActorFromHeader(t *testing.T) {
	store := memory.NewStore()
	r := newTestRouter(t, store)

	req := httptest.NewRequest("POST", "/pumps", strings.NewReader(`{"name":"Depot"}`))
	req.Header.Set(actorHeader, "user-7")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d", rr.Code)
	}
	var created createResponse
	_ = json.NewDecoder(rr.Body).Decode(&created)

	getRR := do(t, r, "GET", "/pumps/"+created.ID, "")
	var item listItem
	if err := json.NewDecoder(getRR.Body).Decode(&item); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if item.Record["createdBy"] != "user-7" {
		t.Errorf("createdBy = %v", item.Record["createdBy"])
	}
}

func TestApproveEndpoint(t *testing.T) {
	store := memory.NewStore()
	store.Seed("pumpRequests", "req-1", map[string]any{
		"pumpName": "New Depot", "status": "pending", "requestedBy": "ravi",
	})
	r := newTestRouter(t, store)

	rr := do(t, r, "POST", "/requests/req-1/approve", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var resp approveResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.PumpID == "" {
		t.Fatal("empty pump id")
	}

	// Second approval must conflict.
	rr = do(t, r, "POST", "/requests/req-1/approve", "")
	if rr.Code != http.StatusConflict {
		t.Errorf("second approve status = %d, want 409", rr.Code)
	}
}

func TestApproveEndpoint_Missing(t *testing.T) {
	r := newTestRouter(t, memory.NewStore())
	rr := do(t, r, "POST", "/requests/nope/approve", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestRejectEndpoint(t *testing.T) {
	store := memory.NewStore()
	store.Seed("pumpRequests", "req-1", map[string]any{
		"pumpName": "New Depot", "status": "pending",
	})
	r := newTestRouter(t, store)

	rr := do(t, r, "POST", "/requests/req-1/reject", `{"reason":"duplicate"}`)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
}

func TestImportEndpoint(t *testing.T) {
	store := memory.NewStore()
	r := newTestRouter(t, store)

	body := `{"rows":[{"name":"A"},{"brand":"no name"},{"Customer Name":"C"}]}`
	rr := do(t, r, "POST", "/pumps/import", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp batchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Succeeded != 2 || resp.Failed != 1 {
		t.Fatalf("summary = %d/%d, want 2/1", resp.Succeeded, resp.Failed)
	}
	if resp.Results[1].Status != "error" || resp.Results[1].Error == "" {
		t.Errorf("second row = %+v", resp.Results[1])
	}
}

func TestImportEndpoint_EmptyRows(t *testing.T) {
	r := newTestRouter(t, memory.NewStore())
	rr := do(t, r, "POST", "/pumps/import", `{"rows":[]}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestReorderEndpoint(t *testing.T) {
	store := memory.NewStore()
	seedPumps(store)
	r := newTestRouter(t, store)

	rr := do(t, r, "POST", "/pumps/reorder", `{"ids":["p2","p1"]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp batchResponse
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Succeeded != 2 {
		t.Fatalf("summary = %+v", resp)
	}

	getRR := do(t, r, "GET", "/pumps/p2", "")
	var item listItem
	_ = json.NewDecoder(getRR.Body).Decode(&item)
	if item.Record["order"] != float64(0) {
		t.Errorf("p2 order = %v, want 0", item.Record["order"])
	}
}

func TestPageSizeClamped(t *testing.T) {
	store := memory.NewStore()
	seedPumps(store)
	r := newTestRouter(t, store)

	rr := do(t, r, "GET", "/pumps?page_size=9999", "")
	var resp listResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.PageSize != 100 {
		t.Errorf("page size = %d, want clamped to 100", resp.PageSize)
	}
}
