package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/amigo-app/amigo-api/internal/identity"
	"github.com/amigo-app/amigo-api/internal/logging"
	"github.com/amigo-app/amigo-api/internal/mailer"
	"github.com/amigo-app/amigo-api/internal/matrix"
	"github.com/amigo-app/amigo-api/internal/session"
	"github.com/amigo-app/amigo-api/internal/token"
)

type captureMailer struct {
	messages []mailer.Message
}

func (m *captureMailer) Enqueue(message mailer.Message) {
	m.messages = append(m.messages, message)
}

func newTestService(t *testing.T) (*Service, *captureMailer) {
	t.Helper()

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	users := identity.NewMemoryRepository()
	mail := &captureMailer{}
	svc := NewService(
		identity.NewService(users),
		users,
		matrix.NewService(matrix.NewMemoryRepository()),
		session.NewRedisManager(cache, time.Minute),
		token.NewIssuer("test-secret-0123456789-0123456789", 7*24*time.Hour),
		mail,
		logging.Discard(),
	)
	return svc, mail
}

func registerInput() identity.RegisterInput {
	return identity.RegisterInput{
		UserTypeID:        1,
		Name:              "Laura",
		PersonalPhone:     "5512345678",
		Email:             "laura@example.com",
		StateID:           1,
		MunicipalityID:    1,
		Neighborhood:      "Centro",
		Street:            "Juárez",
		PostalCode:        "01000",
		GenderID:          1,
		UserStatusID:      1,
		MaritalStatusID:   1,
		HousingCategoryID: 1,
	}
}

func TestRegisterIssuesTokenAndQueuesCode(t *testing.T) {
	svc, mail := newTestService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, registerInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(result.PlainCode) != 5 {
		t.Fatalf("expected 5-digit access code, got %q", result.PlainCode)
	}

	subject, err := svc.tokens.Verify(result.Token)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if subject != "5512345678" {
		t.Fatalf("token subject = %q, want the personal phone", subject)
	}

	if len(mail.messages) != 1 {
		t.Fatalf("expected one queued email, got %d", len(mail.messages))
	}
	if mail.messages[0].To != "laura@example.com" {
		t.Fatalf("email addressed to %q", mail.messages[0].To)
	}
}

func TestLoginRejectsWrongCode(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(ctx, "5512345678", "00000"); !errors.Is(err, ErrBadCode) {
		t.Fatalf("expected ErrBadCode, got %v", err)
	}
	if _, err := svc.Login(ctx, "5599999999", "12345"); !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("expected ErrUnknownUser, got %v", err)
	}
}

func TestLoginOpensSessionAndLoadsPermissions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.matrix.Create(ctx, 1, 3, true); err != nil {
		t.Fatalf("seed matrix: %v", err)
	}

	result, err := svc.Login(ctx, "5512345678", registered.PlainCode)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.SessionID == "" {
		t.Fatal("expected a session id")
	}

	phone, err := svc.sessions.Read(ctx, result.SessionID)
	if err != nil {
		t.Fatalf("read session: %v", err)
	}
	if phone != "5512345678" {
		t.Fatalf("session bound to %q, want the personal phone", phone)
	}

	if len(result.Permissions) != 1 || result.Permissions[0].ViewID != 3 {
		t.Fatalf("unexpected permissions %+v", result.Permissions)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	result, err := svc.Login(ctx, "5512345678", registered.PlainCode)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(ctx, result.SessionID); err != nil {
		t.Fatalf("first logout: %v", err)
	}
	if err := svc.Logout(ctx, result.SessionID); err != nil {
		t.Fatalf("second logout: %v", err)
	}
	if _, err := svc.sessions.Read(ctx, result.SessionID); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("expected ErrNoSession after logout, got %v", err)
	}
}
