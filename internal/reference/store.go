package reference

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore serves one reference table described by a Descriptor.
// Identifiers are interpolated from the static descriptor, never from
// request input; all values travel as bind parameters.
type PostgresStore struct {
	db   *pgxpool.Pool
	desc Descriptor
}

// NewPostgresStore binds a Postgres store to one descriptor.
func NewPostgresStore(db *pgxpool.Pool, desc Descriptor) *PostgresStore {
	return &PostgresStore{db: db, desc: desc}
}

// List returns a filtered, sorted page plus the matching total.
func (s *PostgresStore) List(ctx context.Context, params ListParams) ([]Item, int, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 20
	}
	order := "ASC"
	if strings.EqualFold(params.Sort, "desc") {
		order = "DESC"
	}

	where := ""
	args := []any{}
	if params.Query != "" {
		where = fmt.Sprintf("WHERE %s ILIKE $1", s.desc.LabelColumn)
		args = append(args, "%"+params.Query+"%")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", s.desc.Table, where)
	if err := s.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s, %s FROM %s %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		s.desc.IDColumn, s.desc.LabelColumn, s.desc.Table, where,
		s.desc.LabelColumn, order, len(args)+1, len(args)+2)
	args = append(args, params.Limit, (params.Page-1)*params.Limit)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]Item, 0, params.Limit)
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.Label); err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

// Get returns a single row by id.
func (s *PostgresStore) Get(ctx context.Context, id int) (Item, error) {
	query := fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s = $1",
		s.desc.IDColumn, s.desc.LabelColumn, s.desc.Table, s.desc.IDColumn)

	var item Item
	err := s.db.QueryRow(ctx, query, id).Scan(&item.ID, &item.Label)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrNotFound
	}
	if err != nil {
		return Item{}, err
	}
	return item, nil
}

// Create inserts a new row, rejecting duplicate labels. The duplicate check
// and the insert share one transaction; the unique index is the backstop for
// two writers racing past the check.
func (s *PostgresStore) Create(ctx context.Context, label string) (Item, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Item{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	dupQuery := fmt.Sprintf("SELECT %s FROM %s WHERE LOWER(%s) = LOWER($1)",
		s.desc.IDColumn, s.desc.Table, s.desc.LabelColumn)
	var existingID int
	err = tx.QueryRow(ctx, dupQuery, label).Scan(&existingID)
	if err == nil {
		return Item{}, ErrDuplicate
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Item{}, err
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES ($1) RETURNING %s",
		s.desc.Table, s.desc.LabelColumn, s.desc.IDColumn)
	item := Item{Label: label}
	if err := tx.QueryRow(ctx, insert, label).Scan(&item.ID); err != nil {
		return Item{}, s.translateConstraint(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Item{}, s.translateConstraint(err)
	}
	return item, nil
}

// Update rewrites the label of an existing row.
func (s *PostgresStore) Update(ctx context.Context, id int, label string) (Item, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Item{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	existsQuery := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		s.desc.IDColumn, s.desc.Table, s.desc.IDColumn)
	var currentID int
	err = tx.QueryRow(ctx, existsQuery, id).Scan(&currentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrNotFound
	}
	if err != nil {
		return Item{}, err
	}

	dupQuery := fmt.Sprintf("SELECT %s FROM %s WHERE LOWER(%s) = LOWER($1) AND %s <> $2",
		s.desc.IDColumn, s.desc.Table, s.desc.LabelColumn, s.desc.IDColumn)
	var collidingID int
	err = tx.QueryRow(ctx, dupQuery, label, id).Scan(&collidingID)
	if err == nil {
		return Item{}, ErrDuplicate
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Item{}, err
	}

	update := fmt.Sprintf("UPDATE %s SET %s = $1 WHERE %s = $2",
		s.desc.Table, s.desc.LabelColumn, s.desc.IDColumn)
	if _, err := tx.Exec(ctx, update, label, id); err != nil {
		return Item{}, s.translateConstraint(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Item{}, s.translateConstraint(err)
	}
	return Item{ID: id, Label: label}, nil
}

// Delete removes a row, translating blocking foreign keys to ErrReferenced.
func (s *PostgresStore) Delete(ctx context.Context, id int) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", s.desc.Table, s.desc.IDColumn)
	cmd, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return s.translateConstraint(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) translateConstraint(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return ErrDuplicate
	case pgerrcode.ForeignKeyViolation:
		return ErrReferenced
	}
	return err
}
