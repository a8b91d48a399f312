package identity

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/amigo-app/amigo-api/internal/accesscode"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[\d+\-\s()]+$`)
)

// ValidationError reports registration input that failed the declared schema.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, strings.Join(e.Fields, ", "))
}

// fieldRule is the statically declared validation schema for registration.
// Limits mirror the column definitions; the schema is the single source of
// truth instead of persistence-layer metadata.
type fieldRule struct {
	name     string
	required bool
	maxLen   int
}

var registerRules = []fieldRule{
	{name: "nombre", required: true, maxLen: 50},
	{name: "ap_paterno", maxLen: 50},
	{name: "ap_materno", maxLen: 50},
	{name: "telefono_personal", required: true, maxLen: 10},
	{name: "telefono_contacto", maxLen: 10},
	{name: "email", required: true, maxLen: 200},
	{name: "colonia", required: true, maxLen: 100},
	{name: "calle", required: true, maxLen: 100},
	{name: "numero_int", maxLen: 15},
	{name: "numero_ext", maxLen: 15},
	{name: "codigo_postal", required: true, maxLen: 5},
	{name: "razon_social", maxLen: 200},
	{name: "rfc", maxLen: 15},
}

var requiredIDs = []string{
	"id_tipousuario", "id_estado", "id_municipio", "id_genero",
	"id_estatus_usuario", "id_estatus_marital", "id_categoria_vivienda",
}

// RegisterInput carries the whitelisted registration fields.
type RegisterInput struct {
	UserTypeID        int        `json:"id_tipousuario"`
	Name              string     `json:"nombre"`
	PaternalSurname   string     `json:"ap_paterno"`
	MaternalSurname   string     `json:"ap_materno"`
	BirthDate         *time.Time `json:"fecha_nacimiento"`
	PersonalPhone     string     `json:"telefono_personal"`
	ContactPhone      string     `json:"telefono_contacto"`
	Email             string     `json:"email"`
	StateID           int        `json:"id_estado"`
	MunicipalityID    int        `json:"id_municipio"`
	Neighborhood      string     `json:"colonia"`
	Street            string     `json:"calle"`
	InteriorNumber    string     `json:"numero_int"`
	ExteriorNumber    string     `json:"numero_ext"`
	PostalCode        string     `json:"codigo_postal"`
	BusinessName      string     `json:"razon_social"`
	RFC               string     `json:"rfc"`
	GenderID          int        `json:"id_genero"`
	UserStatusID      int        `json:"id_estatus_usuario"`
	MaritalStatusID   int        `json:"id_estatus_marital"`
	HousingCategoryID int        `json:"id_categoria_vivienda"`
}

// Service manages the member lifecycle.
type Service struct {
	repo Repository
}

// NewService creates a new identity service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register validates the input against the declared schema, checks phone and
// email uniqueness, generates the one-time access code and stores only its
// hash. It returns the created user and the plaintext code for one-time
// delivery; the plaintext is never persisted.
func (s *Service) Register(ctx context.Context, input RegisterInput) (User, string, error) {
	if err := validateRegister(input); err != nil {
		return User{}, "", err
	}

	// Pre-checks give friendly field-level conflicts; the repository's
	// constraint translation closes the race between check and insert.
	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return User{}, "", ErrEmailTaken
	} else if err != ErrNotFound {
		return User{}, "", err
	}
	if _, err := s.repo.FindByPhone(ctx, input.PersonalPhone); err == nil {
		return User{}, "", ErrPhoneTaken
	} else if err != ErrNotFound {
		return User{}, "", err
	}

	plain, hash, err := accesscode.Generate()
	if err != nil {
		return User{}, "", err
	}

	user := User{
		UserTypeID:        input.UserTypeID,
		Name:              strings.TrimSpace(input.Name),
		PaternalSurname:   strings.TrimSpace(input.PaternalSurname),
		MaternalSurname:   strings.TrimSpace(input.MaternalSurname),
		BirthDate:         input.BirthDate,
		PersonalPhone:     strings.TrimSpace(input.PersonalPhone),
		ContactPhone:      strings.TrimSpace(input.ContactPhone),
		Email:             strings.TrimSpace(input.Email),
		CodeHash:          hash,
		StateID:           input.StateID,
		MunicipalityID:    input.MunicipalityID,
		Neighborhood:      strings.TrimSpace(input.Neighborhood),
		Street:            strings.TrimSpace(input.Street),
		InteriorNumber:    strings.TrimSpace(input.InteriorNumber),
		ExteriorNumber:    strings.TrimSpace(input.ExteriorNumber),
		PostalCode:        strings.TrimSpace(input.PostalCode),
		BusinessName:      strings.TrimSpace(input.BusinessName),
		RFC:               strings.TrimSpace(input.RFC),
		RegisteredAt:      time.Now().UTC(),
		GenderID:          input.GenderID,
		UserStatusID:      input.UserStatusID,
		MaritalStatusID:   input.MaritalStatusID,
		HousingCategoryID: input.HousingCategoryID,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return User{}, "", err
	}
	return created, plain, nil
}

func validateRegister(input RegisterInput) error {
	values := map[string]string{
		"nombre":            input.Name,
		"ap_paterno":        input.PaternalSurname,
		"ap_materno":        input.MaternalSurname,
		"telefono_personal": input.PersonalPhone,
		"telefono_contacto": input.ContactPhone,
		"email":             input.Email,
		"colonia":           input.Neighborhood,
		"calle":             input.Street,
		"numero_int":        input.InteriorNumber,
		"numero_ext":        input.ExteriorNumber,
		"codigo_postal":     input.PostalCode,
		"razon_social":      input.BusinessName,
		"rfc":               input.RFC,
	}

	var missing []string
	for _, rule := range registerRules {
		if rule.required && strings.TrimSpace(values[rule.name]) == "" {
			missing = append(missing, rule.name)
		}
	}

	ids := map[string]int{
		"id_tipousuario":        input.UserTypeID,
		"id_estado":             input.StateID,
		"id_municipio":          input.MunicipalityID,
		"id_genero":             input.GenderID,
		"id_estatus_usuario":    input.UserStatusID,
		"id_estatus_marital":    input.MaritalStatusID,
		"id_categoria_vivienda": input.HousingCategoryID,
	}
	for _, name := range requiredIDs {
		if ids[name] <= 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing, Reason: "missing required fields"}
	}

	var tooLong []string
	for _, rule := range registerRules {
		if rule.maxLen > 0 && len(values[rule.name]) > rule.maxLen {
			tooLong = append(tooLong, rule.name)
		}
	}
	if len(tooLong) > 0 {
		return &ValidationError{Fields: tooLong, Reason: "fields exceed maximum length"}
	}

	var invalid []string
	if !emailPattern.MatchString(input.Email) {
		invalid = append(invalid, "email")
	}
	if !phonePattern.MatchString(input.PersonalPhone) {
		invalid = append(invalid, "telefono_personal")
	}
	if len(invalid) > 0 {
		return &ValidationError{Fields: invalid, Reason: "invalid format"}
	}

	return nil
}
