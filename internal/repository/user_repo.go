package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"user_service/internal/model"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository defines operations for user data. Find* methods return
// (nil, nil) when no user matches.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUUID(ctx context.Context, id string) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// DB is the subset of *pgxpool.Pool used by the repository
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new Postgres-backed UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, name, email, password_hash, created_at, modified_at, last_login_at, is_active`

// Create inserts the user and its phones in one transaction
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return oops.Code("USER_CREATE_FAILED").With("operation", "begin transaction").Wrap(err)
	}

	_, err = tx.Exec(ctx, `INSERT INTO users (`+userColumns+`)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.Name, user.Email, user.Password, user.Created, user.Modified, user.LastLogin, user.IsActive)
	if err != nil {
		_ = tx.Rollback(ctx)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("USER_DUPLICATE_EMAIL").With("email", user.Email).Wrap(ErrDuplicateEmail)
		}
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "insert user").
			With("email", user.Email).
			Wrap(err)
	}

	for i, p := range user.Phones {
		_, err = tx.Exec(ctx, `INSERT INTO phones (user_id, position, number, city_code, country_code)
            VALUES ($1, $2, $3, $4, $5)`, user.ID, i, p.Number, p.CityCode, p.CountryCode)
		if err != nil {
			_ = tx.Rollback(ctx)
			return oops.Code("USER_CREATE_FAILED").
				With("operation", "insert phone").
				With("user_id", user.ID).
				Wrap(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return oops.Code("USER_CREATE_FAILED").With("operation", "commit").Wrap(err)
	}
	return nil
}

// FindByEmail retrieves a user by email, case-insensitively
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found, service layer decides what that means
		}
		return nil, oops.Code("USER_FIND_FAILED").With("email", email).Wrap(err)
	}
	if err := r.attachPhones(ctx, []*model.User{user}); err != nil {
		return nil, err
	}
	return user, nil
}

// FindByUUID retrieves a user by its identifier
func (r *userRepository) FindByUUID(ctx context.Context, id string) (*model.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, oops.Code("USER_FIND_FAILED").With("id", id).Wrap(err)
	}
	if err := r.attachPhones(ctx, []*model.User{user}); err != nil {
		return nil, err
	}
	return user, nil
}

// FindAll retrieves every user ordered by creation time
func (r *userRepository) FindAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, oops.Code("USER_LIST_FAILED").With("operation", "query users").Wrap(err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, oops.Code("USER_LIST_FAILED").With("operation", "scan user").Wrap(err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("USER_LIST_FAILED").With("operation", "iterate users").Wrap(err)
	}
	rows.Close()

	if err := r.attachPhones(ctx, users); err != nil {
		return nil, err
	}

	out := make([]model.User, 0, len(users))
	for _, u := range users {
		out = append(out, *u)
	}
	return out, nil
}

// UpdateLastLogin stamps a successful login on the user
func (r *userRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE users SET last_login_at = $1, modified_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return oops.Code("USER_UPDATE_FAILED").With("id", id).Wrap(err)
	}
	if cmdTag.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").With("id", id).Wrap(ErrNotFound)
	}
	return nil
}

// attachPhones loads the phones of all given users with a single query
func (r *userRepository) attachPhones(ctx context.Context, users []*model.User) error {
	if len(users) == 0 {
		return nil
	}

	byID := make(map[string]*model.User, len(users))
	ids := make([]string, 0, len(users))
	for _, u := range users {
		u.Phones = []model.Phone{}
		byID[strings.ToLower(u.ID)] = u
		ids = append(ids, u.ID)
	}

	rows, err := r.db.Query(ctx, `SELECT user_id, number, city_code, country_code
            FROM phones WHERE user_id = ANY($1::uuid[]) ORDER BY user_id, position`, ids)
	if err != nil {
		return oops.Code("PHONE_LIST_FAILED").With("operation", "query phones").Wrap(err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		var p model.Phone
		if err := rows.Scan(&userID, &p.Number, &p.CityCode, &p.CountryCode); err != nil {
			return oops.Code("PHONE_LIST_FAILED").With("operation", "scan phone").Wrap(err)
		}
		if u, ok := byID[strings.ToLower(userID)]; ok {
			u.Phones = append(u.Phones, p)
		}
	}
	if err := rows.Err(); err != nil {
		return oops.Code("PHONE_LIST_FAILED").With("operation", "iterate phones").Wrap(err)
	}
	return nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Created, &u.Modified, &u.LastLogin, &u.IsActive)
	if err != nil {
		return nil, err
	}
	return u, nil
}
