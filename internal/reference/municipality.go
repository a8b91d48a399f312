package reference

import (
	"context"
	"errors"
)

var (
	// ErrMunicipalityNotFound is returned when no municipality matches the id.
	ErrMunicipalityNotFound = errors.New("municipality not found")

	// ErrMunicipalityTaken indicates the ordinal or the name is already used
	// inside the same state.
	ErrMunicipalityTaken = errors.New("municipality ordinal or name taken in state")

	// ErrUnknownState indicates the referenced state does not exist.
	ErrUnknownState = errors.New("unknown state")
)

// MunicipalityMaxLen bounds the municipality name.
const MunicipalityMaxLen = 100

// Municipality is the one reference entity with more than a label: it hangs
// off a state and carries its own ordinal, so it lives outside the generic
// descriptor component.
type Municipality struct {
	ID      int    `json:"id_municipio,omitempty"`
	StateID int    `json:"id_estado,omitempty"`
	Number  int    `json:"num_municipio"`
	Name    string `json:"municipio"`
}

// MunicipalityStore serves the municipality catalog. ListByState feeds the
// public registration form; the rest backs the protected CRUD surface.
type MunicipalityStore interface {
	ListByState(ctx context.Context, stateID int) ([]Municipality, error)
	List(ctx context.Context, params ListParams) ([]Municipality, int, error)
	Get(ctx context.Context, id int) (Municipality, error)
	Create(ctx context.Context, m Municipality) (Municipality, error)
	Update(ctx context.Context, m Municipality) (Municipality, error)
	Delete(ctx context.Context, id int) error
}
