package matrix

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestCreateRejectsDuplicatePair(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Create(ctx, 1, 2, true); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(ctx, 1, 2, false); !errors.Is(err, ErrDuplicatePair) {
		t.Fatalf("expected ErrDuplicatePair, got %v", err)
	}
	// Same view for a different user type is a distinct pair.
	if _, err := svc.Create(ctx, 2, 2, true); err != nil {
		t.Fatalf("distinct pair rejected: %v", err)
	}
}

func TestConcurrentCreateSamePair(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	results := make(chan error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, 1, 2, true)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, conflicts int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrDuplicatePair):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflicts != writers-1 {
		t.Fatalf("expected exactly one success, got %d successes and %d conflicts", ok, conflicts)
	}
}

func TestUpdateMissingEntry(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	if _, err := svc.Update(context.Background(), 42, 1, 2, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateRejectsPairCollision(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	first, err := svc.Create(ctx, 1, 1, true)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := svc.Create(ctx, 1, 2, true)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Moving the second entry onto the first pair must conflict.
	if _, err := svc.Update(ctx, second.ID, 1, 1, false); !errors.Is(err, ErrDuplicatePair) {
		t.Fatalf("expected ErrDuplicatePair, got %v", err)
	}

	// Rewriting an entry onto its own pair is fine.
	updated, err := svc.Update(ctx, first.ID, 1, 1, false)
	if err != nil {
		t.Fatalf("self update: %v", err)
	}
	if updated.Allowed {
		t.Fatalf("expected estatus flipped to false")
	}
}

func TestPatchMergesAndChecksPair(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	entry, err := svc.Create(ctx, 1, 1, true)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, 1, 2, true); err != nil {
		t.Fatalf("create: %v", err)
	}

	allowed := false
	patched, err := svc.Patch(ctx, entry.ID, PatchInput{Allowed: &allowed})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if patched.Allowed || patched.ViewID != 1 {
		t.Fatalf("unexpected merge result: %+v", patched)
	}

	view := 2
	if _, err := svc.Patch(ctx, entry.ID, PatchInput{ViewID: &view}); !errors.Is(err, ErrDuplicatePair) {
		t.Fatalf("expected ErrDuplicatePair, got %v", err)
	}
}

func TestPermissionsForUserType(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Create(ctx, 1, 1, true); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, 1, 2, false); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, 2, 1, true); err != nil {
		t.Fatalf("create: %v", err)
	}

	entries, err := svc.PermissionsFor(ctx, 1)
	if err != nil {
		t.Fatalf("permissions: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries for user type 1, got %d", len(entries))
	}
	for _, entry := range entries {
		if entry.UserTypeID != 1 {
			t.Fatalf("entry for wrong user type: %+v", entry)
		}
	}
}

func TestDeleteIsNotFoundWhenAbsent(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	entry, err := svc.Create(ctx, 1, 1, true)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, entry.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, entry.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
