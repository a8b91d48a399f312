package matrix

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned when no entry matches the id.
	ErrNotFound = errors.New("matrix entry not found")

	// ErrDuplicatePair indicates an entry for the (user type, view) pair
	// already exists.
	ErrDuplicatePair = errors.New("duplicate user type and view pair")

	// ErrBadReference indicates the user type or view id does not exist.
	ErrBadReference = errors.New("unknown user type or view")
)

// Repository persists access matrix entries.
type Repository interface {
	List(ctx context.Context) ([]Entry, error)
	ListByUserType(ctx context.Context, userTypeID int) ([]Entry, error)
	Get(ctx context.Context, id int) (Entry, error)
	Create(ctx context.Context, entry Entry) (Entry, error)
	Update(ctx context.Context, entry Entry) (Entry, error)
	Delete(ctx context.Context, id int) error
}

// PostgresRepository implements Repository using PostgreSQL. Every
// duplicate-check-then-write runs inside one transaction, and the unique
// index on (id_tipousuario, id_vista) is the backstop when two writers race
// past the in-transaction check: exactly one commit succeeds.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed matrix repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns every matrix entry. Order is unspecified.
func (r *PostgresRepository) List(ctx context.Context) ([]Entry, error) {
	rows, err := r.db.Query(ctx, `SELECT id_matrizacceso, id_tipousuario, id_vista, estatus FROM matrizaccesos`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

// ListByUserType returns all entries for one user type. Order is unspecified.
func (r *PostgresRepository) ListByUserType(ctx context.Context, userTypeID int) ([]Entry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id_matrizacceso, id_tipousuario, id_vista, estatus FROM matrizaccesos WHERE id_tipousuario = $1`,
		userTypeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

// Get returns the entry with the given id.
func (r *PostgresRepository) Get(ctx context.Context, id int) (Entry, error) {
	var entry Entry
	err := r.db.QueryRow(ctx,
		`SELECT id_matrizacceso, id_tipousuario, id_vista, estatus FROM matrizaccesos WHERE id_matrizacceso = $1`,
		id).Scan(&entry.ID, &entry.UserTypeID, &entry.ViewID, &entry.Allowed)
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// Create inserts a new entry, failing with ErrDuplicatePair when the
// (user type, view) pair is already stated.
func (r *PostgresRepository) Create(ctx context.Context, entry Entry) (Entry, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Entry{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	var existingID int
	err = tx.QueryRow(ctx,
		`SELECT id_matrizacceso FROM matrizaccesos WHERE id_tipousuario = $1 AND id_vista = $2`,
		entry.UserTypeID, entry.ViewID).Scan(&existingID)
	if err == nil {
		return Entry{}, ErrDuplicatePair
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, err
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO matrizaccesos (id_tipousuario, id_vista, estatus) VALUES ($1, $2, $3) RETURNING id_matrizacceso`,
		entry.UserTypeID, entry.ViewID, entry.Allowed).Scan(&entry.ID)
	if err != nil {
		return Entry{}, translateConstraint(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Entry{}, translateConstraint(err)
	}
	return entry, nil
}

// Update rewrites the entry, failing with ErrNotFound when the id is absent
// and ErrDuplicatePair when the new pair collides with a different row.
func (r *PostgresRepository) Update(ctx context.Context, entry Entry) (Entry, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Entry{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	var currentID int
	err = tx.QueryRow(ctx,
		`SELECT id_matrizacceso FROM matrizaccesos WHERE id_matrizacceso = $1`, entry.ID).Scan(&currentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, err
	}

	var collidingID int
	err = tx.QueryRow(ctx,
		`SELECT id_matrizacceso FROM matrizaccesos WHERE id_tipousuario = $1 AND id_vista = $2 AND id_matrizacceso <> $3`,
		entry.UserTypeID, entry.ViewID, entry.ID).Scan(&collidingID)
	if err == nil {
		return Entry{}, ErrDuplicatePair
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE matrizaccesos SET id_tipousuario = $1, id_vista = $2, estatus = $3 WHERE id_matrizacceso = $4`,
		entry.UserTypeID, entry.ViewID, entry.Allowed, entry.ID)
	if err != nil {
		return Entry{}, translateConstraint(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Entry{}, translateConstraint(err)
	}
	return entry, nil
}

// Delete removes the entry.
func (r *PostgresRepository) Delete(ctx context.Context, id int) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM matrizaccesos WHERE id_matrizacceso = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collectEntries(rows pgx.Rows) ([]Entry, error) {
	entries := make([]Entry, 0)
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.ID, &entry.UserTypeID, &entry.ViewID, &entry.Allowed); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func translateConstraint(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return ErrDuplicatePair
	case pgerrcode.ForeignKeyViolation:
		return ErrBadReference
	}
	return err
}
