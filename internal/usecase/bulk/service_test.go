package bulk

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/fuelgrid-cloud/pumproom/internal/domain"
	dombatch "github.com/fuelgrid-cloud/pumproom/internal/domain/batch"
	"github.com/fuelgrid-cloud/pumproom/internal/domain/entity"
)

// --- Mocks ---

type mockWriter struct {
	created     []map[string]any
	updated     map[string]map[string]any
	failCreates map[int]error // zero-based create call index -> error
	failUpdates map[string]error
	createCalls int
}

func newMockWriter() *mockWriter {
	return &mockWriter{
		updated:     make(map[string]map[string]any),
		failCreates: make(map[int]error),
		failUpdates: make(map[string]error),
	}
}

func (m *mockWriter) Create(_ context.Context, _ entity.Kind, fields map[string]any, _ string) (string, error) {
	call := m.createCalls
	m.createCalls++
	if err := m.failCreates[call]; err != nil {
		return "", err
	}
	m.created = append(m.created, fields)
	return fmt.Sprintf("id-%d", call), nil
}

func (m *mockWriter) Update(_ context.Context, _ entity.Kind, id string, fields map[string]any, _ string) error {
	if err := m.failUpdates[id]; err != nil {
		return err
	}
	m.updated[id] = fields
	return nil
}

func row(name string) map[string]any {
	return map[string]any{"name": name, "brand": "IOCL"}
}

func TestImportPumps_AllSucceed(t *testing.T) {
	w := newMockWriter()
	svc := New(w, zap.NewNop())

	rows := []map[string]any{row("A"), row("B"), row("C")}
	results, summary := svc.ImportPumps(context.Background(), rows, "admin")

	if summary.Succeeded != 3 || summary.Failed != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	for _, r := range results {
		if r.Status() != dombatch.StatusOK {
			t.Errorf("result %s not ok: %v", r.ID(), r.Err())
		}
	}
	if len(w.created) != 3 {
		t.Errorf("created %d rows, want 3", len(w.created))
	}
}

func TestImportPumps_MiddleFailureDoesNotStopBatch(t *testing.T) {
	w := newMockWriter()
	w.failCreates[2] = errors.New("write refused")
	svc := New(w, zap.NewNop())

	rows := []map[string]any{row("A"), row("B"), row("C"), row("D"), row("E")}
	results, summary := svc.ImportPumps(context.Background(), rows, "admin")

	if summary.Succeeded != 4 || summary.Failed != 1 {
		t.Fatalf("summary = %+v, want 4/1", summary)
	}
	if results[2].Status() != dombatch.StatusError {
		t.Error("third row should have failed")
	}
	if results[2].ID() != "row-3" {
		t.Errorf("failed row label = %q, want row-3", results[2].ID())
	}
	// The rows after the failure still landed.
	if len(w.created) != 4 {
		t.Errorf("created %d rows, want 4", len(w.created))
	}
}

func TestImportPumps_RowWithoutNameRejected(t *testing.T) {
	w := newMockWriter()
	svc := New(w, zap.NewNop())

	rows := []map[string]any{row("A"), {"brand": "IOCL"}}
	results, summary := svc.ImportPumps(context.Background(), rows, "admin")

	if summary.Succeeded != 1 || summary.Failed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if !errors.Is(results[1].Err(), domain.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", results[1].Err())
	}
	if w.createCalls != 1 {
		t.Errorf("store touched %d times, want 1", w.createCalls)
	}
}

func TestImportPumps_AliasedNameAccepted(t *testing.T) {
	w := newMockWriter()
	svc := New(w, zap.NewNop())

	rows := []map[string]any{{"Customer Name": "Legacy Depot"}}
	_, summary := svc.ImportPumps(context.Background(), rows, "admin")
	if summary.Succeeded != 1 {
		t.Errorf("summary = %+v, aliased name should pass validation", summary)
	}
}

func TestImportPumps_BatchTooLarge(t *testing.T) {
	w := newMockWriter()
	svc := New(w, zap.NewNop()).WithMaxBatchSize(2)

	rows := []map[string]any{row("A"), row("B"), row("C")}
	results, summary := svc.ImportPumps(context.Background(), rows, "admin")

	if summary.Failed != 3 || summary.Succeeded != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	for _, r := range results {
		if !errors.Is(r.Err(), domain.ErrBatchTooLarge) {
			t.Errorf("err = %v, want ErrBatchTooLarge", r.Err())
		}
	}
	if w.createCalls != 0 {
		t.Error("oversize batch must not touch the store")
	}
}

func TestReorder_WritesPositions(t *testing.T) {
	w := newMockWriter()
	svc := New(w, zap.NewNop())

	ids := []string{"p3", "p1", "p2"}
	_, summary := svc.Reorder(context.Background(), entity.Pump, ids, "admin")

	if summary.Succeeded != 3 {
		t.Fatalf("summary = %+v", summary)
	}
	for i, id := range ids {
		got, ok := w.updated[id]
		if !ok {
			t.Fatalf("no update for %s", id)
		}
		if got["order"] != i {
			t.Errorf("order for %s = %v, want %d", id, got["order"], i)
		}
	}
}

func TestReorder_AllSettle(t *testing.T) {
	w := newMockWriter()
	w.failUpdates["p2"] = errors.New("gone")
	svc := New(w, zap.NewNop())

	results, summary := svc.Reorder(context.Background(), entity.Pump, []string{"p1", "p2", "p3"}, "admin")

	if summary.Succeeded != 2 || summary.Failed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if results[1].ID() != "p2" || results[1].Status() != dombatch.StatusError {
		t.Error("p2 should carry the failure")
	}
	if _, ok := w.updated["p3"]; !ok {
		t.Error("p3 should still be written after p2 failed")
	}
}
