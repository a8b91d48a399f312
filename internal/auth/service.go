package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/amigo-app/amigo-api/internal/accesscode"
	"github.com/amigo-app/amigo-api/internal/identity"
	"github.com/amigo-app/amigo-api/internal/mailer"
	"github.com/amigo-app/amigo-api/internal/matrix"
	"github.com/amigo-app/amigo-api/internal/session"
	"github.com/amigo-app/amigo-api/internal/token"
)

var (
	// ErrUnknownUser is returned when no member owns the presented phone.
	ErrUnknownUser = errors.New("unknown user")

	// ErrBadCode is returned when the access code does not match the stored hash.
	ErrBadCode = errors.New("access code mismatch")
)

// Service orchestrates registration and the session lifecycle: it ties the
// member registry, the one-time code, the bearer token, the Redis session and
// the access matrix together.
type Service struct {
	identity *identity.Service
	users    identity.Repository
	matrix   *matrix.Service
	sessions session.Manager
	tokens   *token.Issuer
	mail     mailer.Mailer
	logger   *slog.Logger
}

// NewService wires the orchestrator.
func NewService(
	identitySvc *identity.Service,
	users identity.Repository,
	matrixSvc *matrix.Service,
	sessions session.Manager,
	tokens *token.Issuer,
	mail mailer.Mailer,
	logger *slog.Logger,
) *Service {
	return &Service{
		identity: identitySvc,
		users:    users,
		matrix:   matrixSvc,
		sessions: sessions,
		tokens:   tokens,
		mail:     mail,
		logger:   logger,
	}
}

// RegisterResult is the outcome of a successful registration.
type RegisterResult struct {
	User      identity.User
	Token     string
	PlainCode string
}

// Register creates the member, issues a bearer token keyed by the personal
// phone and queues the access-code email. The plaintext code travels only in
// the email and in this result; it is never stored.
func (s *Service) Register(ctx context.Context, input identity.RegisterInput) (RegisterResult, error) {
	user, plain, err := s.identity.Register(ctx, input)
	if err != nil {
		return RegisterResult{}, err
	}

	bearer, err := s.tokens.Issue(user.PersonalPhone)
	if err != nil {
		return RegisterResult{}, err
	}

	s.mail.Enqueue(mailer.Message{
		To:      user.Email,
		Subject: "Código de acceso inicial App Amigo",
		HTML:    true,
		Body: fmt.Sprintf(
			"<p>Hola %s,</p><p>Tu código para tu acceso es:</p><h2>%s</h2>"+
				"<p>Este código solo será necesario en tu primer inicio de sesión.</p>",
			user.Name, plain),
	})

	return RegisterResult{User: user, Token: bearer, PlainCode: plain}, nil
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	User        identity.User
	Token       string
	SessionID   string
	Permissions []matrix.Entry
}

// Login verifies the phone/code pair, issues a fresh token, opens a Redis
// session and loads the view permissions for the member's user type.
func (s *Service) Login(ctx context.Context, phone, code string) (LoginResult, error) {
	user, err := s.users.FindByPhone(ctx, phone)
	if errors.Is(err, identity.ErrNotFound) {
		return LoginResult{}, ErrUnknownUser
	}
	if err != nil {
		return LoginResult{}, err
	}

	if !accesscode.Verify(code, user.CodeHash) {
		return LoginResult{}, ErrBadCode
	}

	bearer, err := s.tokens.Issue(user.PersonalPhone)
	if err != nil {
		return LoginResult{}, err
	}

	sessionID := uuid.NewString()
	if err := s.sessions.Create(ctx, sessionID, user.PersonalPhone); err != nil {
		return LoginResult{}, err
	}

	permissions, err := s.matrix.PermissionsFor(ctx, user.UserTypeID)
	if err != nil {
		return LoginResult{}, err
	}

	s.logger.Info("login", "user_id", user.ID, "session_id", sessionID)
	return LoginResult{
		User:        user,
		Token:       bearer,
		SessionID:   sessionID,
		Permissions: permissions,
	}, nil
}

// Logout destroys the session. Destroying an absent session is not an error,
// so repeated logouts succeed.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Destroy(ctx, sessionID)
}
