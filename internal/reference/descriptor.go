package reference

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no row matches the id.
	ErrNotFound = errors.New("reference row not found")

	// ErrDuplicate indicates the label already exists for the entity.
	ErrDuplicate = errors.New("duplicate reference label")

	// ErrReferenced indicates the row cannot be deleted because other rows
	// still point at it.
	ErrReferenced = errors.New("reference row referenced elsewhere")
)

// Descriptor declares one reference table. The per-table CRUD controllers of
// the system are all instances of this one component; the descriptor is the
// only thing that varies.
type Descriptor struct {
	// Name is the route segment and log label, e.g. "generos".
	Name string
	// Table is the backing table name.
	Table string
	// IDColumn is the integer primary key column.
	IDColumn string
	// LabelColumn is the single text column exposed over the API.
	LabelColumn string
	// MaxLen bounds the label length.
	MaxLen int
}

// Item is one reference row.
type Item struct {
	ID    int
	Label string
}

// ListParams carries pagination and filter options for List.
type ListParams struct {
	Page  int
	Limit int
	Query string
	Sort  string // "asc" (default) or "desc" by label
}

// Catalog lists every reference table served by the API. Descriptors are
// static; table and column names never come from request input.
var Catalog = []Descriptor{
	{Name: "generos", Table: "generos", IDColumn: "id_genero", LabelColumn: "genero", MaxLen: 10},
	{Name: "estados", Table: "estados", IDColumn: "id_estado", LabelColumn: "estado", MaxLen: 50},
	{Name: "estatusmaritales", Table: "estatusmaritales", IDColumn: "id_estatus_marital", LabelColumn: "estatus_marital", MaxLen: 20},
	{Name: "estatususuarios", Table: "estatususuarios", IDColumn: "id_estatus_usuario", LabelColumn: "estatus_usuario", MaxLen: 20},
	{Name: "categoriasviviendas", Table: "categoriasviviendas", IDColumn: "id_categoria_vivienda", LabelColumn: "categoria_vivienda", MaxLen: 50},
	{Name: "tiposusuarios", Table: "tiposusuarios", IDColumn: "id_tipousuario", LabelColumn: "tipousuario", MaxLen: 30},
	{Name: "vistas", Table: "vistas", IDColumn: "id_vista", LabelColumn: "vista", MaxLen: 20},
}

// Store is the uniform CRUD contract every reference table exposes.
type Store interface {
	List(ctx context.Context, params ListParams) ([]Item, int, error)
	Get(ctx context.Context, id int) (Item, error)
	Create(ctx context.Context, label string) (Item, error)
	Update(ctx context.Context, id int, label string) (Item, error)
	Delete(ctx context.Context, id int) error
}
