package records

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fuelgrid-cloud/pumproom/internal/domain"
	"github.com/fuelgrid-cloud/pumproom/internal/domain/entity"
	"github.com/fuelgrid-cloud/pumproom/internal/store/memory"
)

func fixedClock(t *testing.T) (func() time.Time, time.Time) {
	t.Helper()
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }, at
}

func TestCreate_StampsAuditFields(t *testing.T) {
	now, at := fixedClock(t)
	repo := New(memory.NewStore()).WithClock(now)
	ctx := context.Background()

	id, err := repo.Create(ctx, entity.Pump, map[string]any{"name": "Depot"}, "admin")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	doc, err := repo.Get(ctx, entity.Pump, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc.Fields["createdBy"] != "admin" || doc.Fields["updatedBy"] != "admin" {
		t.Errorf("actor stamps = %v / %v", doc.Fields["createdBy"], doc.Fields["updatedBy"])
	}
	created, _ := doc.Fields["createdAt"].(time.Time)
	if !created.Equal(at) {
		t.Errorf("createdAt = %v, want %v", created, at)
	}
}

func TestCreate_DoesNotMutateCallerMap(t *testing.T) {
	repo := New(memory.NewStore())
	fields := map[string]any{"name": "Depot"}

	if _, err := repo.Create(context.Background(), entity.Pump, fields, "admin"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(fields) != 1 {
		t.Errorf("caller map grew audit stamps: %v", fields)
	}
}

func TestUpdate_StampsOnlyUpdateFields(t *testing.T) {
	s := memory.NewStore()
	s.Seed("petrolPumps", "p1", map[string]any{"name": "Depot", "createdBy": "importer"})
	now, at := fixedClock(t)
	repo := New(s).WithClock(now)
	ctx := context.Background()

	if err := repo.Update(ctx, entity.Pump, "p1", map[string]any{"status": "inactive"}, "admin"); err != nil {
		t.Fatalf("update: %v", err)
	}

	doc, _ := repo.Get(ctx, entity.Pump, "p1")
	if doc.Fields["createdBy"] != "importer" {
		t.Error("update must not touch creation stamps")
	}
	if doc.Fields["updatedBy"] != "admin" {
		t.Errorf("updatedBy = %v", doc.Fields["updatedBy"])
	}
	updated, _ := doc.Fields["updatedAt"].(time.Time)
	if !updated.Equal(at) {
		t.Errorf("updatedAt = %v", updated)
	}
}

func TestList_UsesKindCollection(t *testing.T) {
	s := memory.NewStore()
	s.Seed("petrolPumps", "p1", map[string]any{"name": "Depot"})
	s.Seed("users", "u1", map[string]any{"name": "Ravi"})
	repo := New(s)

	docs, err := repo.List(context.Background(), entity.Pump, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "p1" {
		t.Errorf("docs = %v", docs)
	}
}

func TestList_Limit(t *testing.T) {
	s := memory.NewStore()
	for i := 0; i < 5; i++ {
		s.Seed("users", string(rune('a'+i)), map[string]any{})
	}
	repo := New(s)

	docs, err := repo.List(context.Background(), entity.User, 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 3 {
		t.Errorf("got %d docs, want 3", len(docs))
	}
}

func TestNotFoundMapping(t *testing.T) {
	repo := New(memory.NewStore())
	ctx := context.Background()

	if _, err := repo.Get(ctx, entity.Pump, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("get err = %v", err)
	}
	if err := repo.Update(ctx, entity.Pump, "nope", nil, "admin"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("update err = %v", err)
	}
	if err := repo.Delete(ctx, entity.Pump, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("delete err = %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := memory.NewStore()
	s.Seed("petrolPumps", "p1", map[string]any{"name": "Depot"})
	repo := New(s)
	ctx := context.Background()

	if err := repo.Delete(ctx, entity.Pump, "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, entity.Pump, "p1"); !errors.Is(err, domain.ErrNotFound) {
		t.Error("document survived delete")
	}
}
