package reference

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreCreateRejectsDuplicateLabel(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Create(ctx, "Soltero"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.Create(ctx, "soltero"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for case-insensitive duplicate, got %v", err)
	}
}

func TestMemoryStoreUpdateCollision(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first, err := store.Create(ctx, "Casado")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := store.Create(ctx, "Viudo")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := store.Update(ctx, second.ID, "Casado"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate on collision, got %v", err)
	}
	// Rewriting a row with its own label is not a collision.
	if _, err := store.Update(ctx, first.ID, "Casado"); err != nil {
		t.Fatalf("self update: %v", err)
	}
}

func TestMemoryStoreListFiltersAndPages(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	for _, label := range []string{"Aguascalientes", "Baja California", "Campeche", "Chiapas"} {
		if _, err := store.Create(ctx, label); err != nil {
			t.Fatalf("create %s: %v", label, err)
		}
	}

	items, total, err := store.List(ctx, ListParams{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 4 || len(items) != 2 {
		t.Fatalf("expected total 4 page of 2, got total %d len %d", total, len(items))
	}
	if items[0].Label != "Aguascalientes" {
		t.Fatalf("expected ascending label order, got %q first", items[0].Label)
	}

	items, total, err = store.List(ctx, ListParams{Page: 1, Limit: 10, Query: "baja"})
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if total != 1 || items[0].Label != "Baja California" {
		t.Fatalf("expected single filtered match, got total %d items %v", total, items)
	}

	// Substring filtering matches inside labels: "cali" hits both
	// Aguascalientes and Baja California.
	_, total, err = store.List(ctx, ListParams{Page: 1, Limit: 10, Query: "cali"})
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 substring matches, got %d", total)
	}
}

func TestMemoryStoreDeleteMissing(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Delete(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryMunicipalityStoreRejectsInStateConflicts(t *testing.T) {
	store := NewMemoryMunicipalityStore()
	ctx := context.Background()

	if _, err := store.Create(ctx, Municipality{StateID: 1, Number: 1, Name: "Aguascalientes"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.Create(ctx, Municipality{StateID: 1, Number: 1, Name: "Asientos"}); !errors.Is(err, ErrMunicipalityTaken) {
		t.Fatalf("expected ErrMunicipalityTaken for duplicate ordinal, got %v", err)
	}
	if _, err := store.Create(ctx, Municipality{StateID: 1, Number: 2, Name: "aguascalientes"}); !errors.Is(err, ErrMunicipalityTaken) {
		t.Fatalf("expected ErrMunicipalityTaken for duplicate name, got %v", err)
	}
	// The same pair is fine in another state.
	if _, err := store.Create(ctx, Municipality{StateID: 2, Number: 1, Name: "Aguascalientes"}); err != nil {
		t.Fatalf("create in other state: %v", err)
	}
	if _, err := store.Create(ctx, Municipality{StateID: 99, Number: 1, Name: "Nowhere"}); !errors.Is(err, ErrUnknownState) {
		t.Fatalf("expected ErrUnknownState, got %v", err)
	}
}

func TestMemoryMunicipalityStoreFiltersByState(t *testing.T) {
	store := NewMemoryMunicipalityStore(
		Municipality{StateID: 1, Number: 1, Name: "Aguascalientes"},
		Municipality{StateID: 1, Number: 2, Name: "Asientos"},
		Municipality{StateID: 9, Number: 1, Name: "Azcapotzalco"},
	)

	rows, err := store.ListByState(context.Background(), 1)
	if err != nil {
		t.Fatalf("list by state: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 municipalities for state 1, got %d", len(rows))
	}
	for _, m := range rows {
		if m.Name == "Azcapotzalco" {
			t.Fatalf("municipality from another state leaked into the result")
		}
	}
}
