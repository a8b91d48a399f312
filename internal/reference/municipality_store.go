package reference

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresMunicipalityStore implements MunicipalityStore on PostgreSQL.
type PostgresMunicipalityStore struct {
	db *pgxpool.Pool
}

// NewPostgresMunicipalityStore builds the Postgres-backed store.
func NewPostgresMunicipalityStore(db *pgxpool.Pool) *PostgresMunicipalityStore {
	return &PostgresMunicipalityStore{db: db}
}

// ListByState returns the ordinal and name of every municipality in a state,
// ordered by ordinal.
func (s *PostgresMunicipalityStore) ListByState(ctx context.Context, stateID int) ([]Municipality, error) {
	rows, err := s.db.Query(ctx,
		`SELECT num_municipio, municipio FROM municipios WHERE id_estado = $1 ORDER BY num_municipio`,
		stateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	municipalities := make([]Municipality, 0)
	for rows.Next() {
		var m Municipality
		if err := rows.Scan(&m.Number, &m.Name); err != nil {
			return nil, err
		}
		municipalities = append(municipalities, m)
	}
	return municipalities, rows.Err()
}

// List returns a filtered, name-sorted page plus the matching total.
func (s *PostgresMunicipalityStore) List(ctx context.Context, params ListParams) ([]Municipality, int, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 20
	}
	order := "ASC"
	if params.Sort == "desc" || params.Sort == "DESC" {
		order = "DESC"
	}

	where := ""
	args := []any{}
	if params.Query != "" {
		where = "WHERE municipio ILIKE $1"
		args = append(args, "%"+params.Query+"%")
	}

	var total int
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM municipios "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id_municipio, id_estado, num_municipio, municipio FROM municipios ` + where +
		` ORDER BY municipio ` + order
	switch len(args) {
	case 0:
		query += " LIMIT $1 OFFSET $2"
	case 1:
		query += " LIMIT $2 OFFSET $3"
	}
	args = append(args, params.Limit, (params.Page-1)*params.Limit)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	municipalities := make([]Municipality, 0, params.Limit)
	for rows.Next() {
		var m Municipality
		if err := rows.Scan(&m.ID, &m.StateID, &m.Number, &m.Name); err != nil {
			return nil, 0, err
		}
		municipalities = append(municipalities, m)
	}
	return municipalities, total, rows.Err()
}

// Get returns one municipality by id.
func (s *PostgresMunicipalityStore) Get(ctx context.Context, id int) (Municipality, error) {
	var m Municipality
	err := s.db.QueryRow(ctx,
		`SELECT id_municipio, id_estado, num_municipio, municipio FROM municipios WHERE id_municipio = $1`,
		id).Scan(&m.ID, &m.StateID, &m.Number, &m.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return Municipality{}, ErrMunicipalityNotFound
	}
	if err != nil {
		return Municipality{}, err
	}
	return m, nil
}

// Create inserts a municipality. Inside one state both the ordinal and the
// name must be unique; the check and the insert share a transaction and the
// composite unique index backstops racing writers.
func (s *PostgresMunicipalityStore) Create(ctx context.Context, m Municipality) (Municipality, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Municipality{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if err := s.checkConflict(ctx, tx, m, 0); err != nil {
		return Municipality{}, err
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO municipios (id_estado, num_municipio, municipio) VALUES ($1, $2, $3) RETURNING id_municipio`,
		m.StateID, m.Number, m.Name).Scan(&m.ID)
	if err != nil {
		return Municipality{}, translateMunicipalityConstraint(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Municipality{}, translateMunicipalityConstraint(err)
	}
	return m, nil
}

// Update rewrites a municipality, excluding the row itself from the
// in-state conflict check.
func (s *PostgresMunicipalityStore) Update(ctx context.Context, m Municipality) (Municipality, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Municipality{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	var currentID int
	err = tx.QueryRow(ctx, `SELECT id_municipio FROM municipios WHERE id_municipio = $1`, m.ID).Scan(&currentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Municipality{}, ErrMunicipalityNotFound
	}
	if err != nil {
		return Municipality{}, err
	}

	var stateID int
	err = tx.QueryRow(ctx, `SELECT id_estado FROM estados WHERE id_estado = $1`, m.StateID).Scan(&stateID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Municipality{}, ErrUnknownState
	}
	if err != nil {
		return Municipality{}, err
	}

	if err := s.checkConflict(ctx, tx, m, m.ID); err != nil {
		return Municipality{}, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE municipios SET id_estado = $1, num_municipio = $2, municipio = $3 WHERE id_municipio = $4`,
		m.StateID, m.Number, m.Name, m.ID)
	if err != nil {
		return Municipality{}, translateMunicipalityConstraint(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Municipality{}, translateMunicipalityConstraint(err)
	}
	return m, nil
}

// Delete removes a municipality.
func (s *PostgresMunicipalityStore) Delete(ctx context.Context, id int) error {
	cmd, err := s.db.Exec(ctx, `DELETE FROM municipios WHERE id_municipio = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrReferenced
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrMunicipalityNotFound
	}
	return nil
}

func (s *PostgresMunicipalityStore) checkConflict(ctx context.Context, tx pgx.Tx, m Municipality, excludeID int) error {
	var collidingID int
	err := tx.QueryRow(ctx,
		`SELECT id_municipio FROM municipios
		 WHERE id_estado = $1 AND (num_municipio = $2 OR LOWER(municipio) = LOWER($3)) AND id_municipio <> $4`,
		m.StateID, m.Number, m.Name, excludeID).Scan(&collidingID)
	if err == nil {
		return ErrMunicipalityTaken
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	return nil
}

func translateMunicipalityConstraint(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return ErrMunicipalityTaken
	case pgerrcode.ForeignKeyViolation:
		return ErrUnknownState
	}
	return err
}
