package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/amigo-app/amigo-api/internal/accesscode"
)

func validInput() RegisterInput {
	return RegisterInput{
		UserTypeID:        1,
		Name:              "Cesar",
		PersonalPhone:     "5512345678",
		Email:             "a@b.com",
		StateID:           9,
		MunicipalityID:    3,
		Neighborhood:      "Centro",
		Street:            "Reforma",
		PostalCode:        "06600",
		GenderID:          1,
		UserStatusID:      1,
		MaritalStatusID:   1,
		HousingCategoryID: 1,
	}
}

func TestRegisterStoresHashedCode(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	user, plain, err := svc.Register(ctx, validInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if len(plain) != 5 {
		t.Fatalf("expected 5 digit plaintext code, got %q", plain)
	}
	if len(user.CodeHash) == 0 {
		t.Fatalf("expected stored code hash")
	}
	if string(user.CodeHash) == plain {
		t.Fatalf("code stored in plaintext")
	}
	if !accesscode.Verify(plain, user.CodeHash) {
		t.Fatalf("stored hash does not verify the delivered code")
	}
	if user.RegisteredAt.IsZero() {
		t.Fatalf("expected registration timestamp")
	}
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	input := validInput()
	input.Name = ""
	input.PostalCode = ""

	_, _, err := svc.Register(context.Background(), input)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(vErr.Fields) != 2 {
		t.Fatalf("expected 2 missing fields, got %v", vErr.Fields)
	}
}

func TestRegisterRejectsBadEmail(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	input := validInput()
	input.Email = "not-an-email"

	_, _, err := svc.Register(context.Background(), input)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, validInput()); err != nil {
		t.Fatalf("first register: %v", err)
	}

	dup := validInput()
	dup.Email = "other@b.com"
	if _, _, err := svc.Register(ctx, dup); !errors.Is(err, ErrPhoneTaken) {
		t.Fatalf("expected ErrPhoneTaken, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, validInput()); err != nil {
		t.Fatalf("first register: %v", err)
	}

	dup := validInput()
	dup.PersonalPhone = "5587654321"
	if _, _, err := svc.Register(ctx, dup); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestPatchMergesFields(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	user, _, err := svc.Register(ctx, validInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	street := "Insurgentes"
	patched, err := svc.Patch(ctx, user.ID, PatchInput{Street: &street})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if patched.Street != "Insurgentes" {
		t.Fatalf("expected patched street, got %s", patched.Street)
	}
	if patched.Email != user.Email {
		t.Fatalf("untouched field changed: %s", patched.Email)
	}
}

func TestPatchRejectsInvalidMerge(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	user, _, err := svc.Register(ctx, validInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	empty := ""
	_, err = svc.Patch(ctx, user.ID, PatchInput{Name: &empty})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestDeleteMissingUser(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	if err := svc.Delete(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
