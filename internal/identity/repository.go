package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")

	// ErrPhoneTaken indicates the personal phone is already registered.
	ErrPhoneTaken = errors.New("personal phone already registered")

	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")

	// ErrReferenced indicates the user cannot be deleted because other rows
	// still reference it.
	ErrReferenced = errors.New("user referenced elsewhere")
)

// Repository persists users.
type Repository interface {
	Create(ctx context.Context, user User) (User, error)
	FindByPhone(ctx context.Context, phone string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id int) (User, error)
	List(ctx context.Context, page, limit int) ([]User, int, error)
	Update(ctx context.Context, user User) (User, error)
	Delete(ctx context.Context, id int) error
}

const userColumns = `id_usuario, id_tipousuario, nombre, COALESCE(ap_paterno, ''), COALESCE(ap_materno, ''),
	fecha_nacimiento, telefono_personal, COALESCE(telefono_contacto, ''), email, codigo,
	id_estado, id_municipio, colonia, calle, COALESCE(numero_int, ''), COALESCE(numero_ext, ''),
	codigo_postal, COALESCE(razon_social, ''), COALESCE(rfc, ''), fecha_registro,
	id_genero, id_estatus_usuario, id_estatus_marital, id_categoria_vivienda`

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed user repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new user inside a transaction so a failure after the
// insert leaves no partial row behind. Unique violations on phone or email
// are translated to the package sentinels even when two registrations race
// past the service-level checks.
func (r *PostgresRepository) Create(ctx context.Context, user User) (User, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return User{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	const insert = `INSERT INTO usuarios (id_tipousuario, nombre, ap_paterno, ap_materno,
		fecha_nacimiento, telefono_personal, telefono_contacto, email, codigo,
		id_estado, id_municipio, colonia, calle, numero_int, numero_ext,
		codigo_postal, razon_social, rfc, fecha_registro,
		id_genero, id_estatus_usuario, id_estatus_marital, id_categoria_vivienda)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
		RETURNING id_usuario`

	err = tx.QueryRow(ctx, insert,
		user.UserTypeID, user.Name, user.PaternalSurname, user.MaternalSurname,
		user.BirthDate, user.PersonalPhone, user.ContactPhone, user.Email, user.CodeHash,
		user.StateID, user.MunicipalityID, user.Neighborhood, user.Street,
		user.InteriorNumber, user.ExteriorNumber, user.PostalCode,
		user.BusinessName, user.RFC, user.RegisteredAt.UTC(),
		user.GenderID, user.UserStatusID, user.MaritalStatusID, user.HousingCategoryID,
	).Scan(&user.ID)
	if err != nil {
		return User{}, translateConstraint(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return User{}, err
	}
	return user, nil
}

// FindByPhone fetches a user by personal phone number.
func (r *PostgresRepository) FindByPhone(ctx context.Context, phone string) (User, error) {
	query := fmt.Sprintf(`SELECT %s FROM usuarios WHERE telefono_personal = $1`, userColumns)
	return scanUser(r.db.QueryRow(ctx, query, phone))
}

// FindByEmail fetches a user by email.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	query := fmt.Sprintf(`SELECT %s FROM usuarios WHERE email = $1`, userColumns)
	return scanUser(r.db.QueryRow(ctx, query, email))
}

// FindByID fetches a user by primary key.
func (r *PostgresRepository) FindByID(ctx context.Context, id int) (User, error) {
	query := fmt.Sprintf(`SELECT %s FROM usuarios WHERE id_usuario = $1`, userColumns)
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// List returns a page of users plus the total count.
func (r *PostgresRepository) List(ctx context.Context, page, limit int) ([]User, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM usuarios`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM usuarios ORDER BY id_usuario LIMIT $1 OFFSET $2`, userColumns)
	rows, err := r.db.Query(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]User, 0, limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}
	return users, total, rows.Err()
}

// Update rewrites all mutable columns for the user's id. The code hash is
// deliberately not touched here; it is written only at registration.
func (r *PostgresRepository) Update(ctx context.Context, user User) (User, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return User{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	const update = `UPDATE usuarios SET id_tipousuario=$1, nombre=$2, ap_paterno=$3, ap_materno=$4,
		fecha_nacimiento=$5, telefono_personal=$6, telefono_contacto=$7, email=$8,
		id_estado=$9, id_municipio=$10, colonia=$11, calle=$12, numero_int=$13, numero_ext=$14,
		codigo_postal=$15, razon_social=$16, rfc=$17,
		id_genero=$18, id_estatus_usuario=$19, id_estatus_marital=$20, id_categoria_vivienda=$21
		WHERE id_usuario = $22`

	cmd, err := tx.Exec(ctx, update,
		user.UserTypeID, user.Name, user.PaternalSurname, user.MaternalSurname,
		user.BirthDate, user.PersonalPhone, user.ContactPhone, user.Email,
		user.StateID, user.MunicipalityID, user.Neighborhood, user.Street,
		user.InteriorNumber, user.ExteriorNumber, user.PostalCode,
		user.BusinessName, user.RFC,
		user.GenderID, user.UserStatusID, user.MaritalStatusID, user.HousingCategoryID,
		user.ID,
	)
	if err != nil {
		return User{}, translateConstraint(err)
	}
	if cmd.RowsAffected() == 0 {
		return User{}, ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return User{}, err
	}
	return r.FindByID(ctx, user.ID)
}

// Delete removes the user row.
func (r *PostgresRepository) Delete(ctx context.Context, id int) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM usuarios WHERE id_usuario = $1`, id)
	if err != nil {
		return translateConstraint(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (User, error) {
	var user User
	err := row.Scan(
		&user.ID, &user.UserTypeID, &user.Name, &user.PaternalSurname, &user.MaternalSurname,
		&user.BirthDate, &user.PersonalPhone, &user.ContactPhone, &user.Email, &user.CodeHash,
		&user.StateID, &user.MunicipalityID, &user.Neighborhood, &user.Street,
		&user.InteriorNumber, &user.ExteriorNumber, &user.PostalCode,
		&user.BusinessName, &user.RFC, &user.RegisteredAt,
		&user.GenderID, &user.UserStatusID, &user.MaritalStatusID, &user.HousingCategoryID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	user.RegisteredAt = user.RegisteredAt.UTC()
	return user, nil
}

func translateConstraint(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		if pgErr.ConstraintName == "usuarios_email_key" {
			return ErrEmailTaken
		}
		return ErrPhoneTaken
	case pgerrcode.ForeignKeyViolation:
		return ErrReferenced
	}
	return err
}
