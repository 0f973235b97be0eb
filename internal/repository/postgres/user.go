package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nkiryanov/movierater/internal/apperrors"
	"github.com/nkiryanov/movierater/internal/models"
	"github.com/nkiryanov/movierater/internal/repository"
)

// Columns allowed to be selected or ordered by in Find
// password_hash is intentionally absent
var userPublicColumns = map[string]struct{}{
	"id":         {},
	"username":   {},
	"created_at": {},
}

type UserRepo struct {
	DB DBTX
}

const createUser = `-- name: CreateUser
INSERT INTO users (username, password_hash, created_at)
VALUES ($1, $2, $3)
RETURNING id, username, password_hash, created_at
`

func (r *UserRepo) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	rows, _ := r.DB.Query(ctx, createUser, u.Username, u.PasswordHash, u.CreatedAt)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return user, apperrors.ErrUserAlreadyExists
		}

		return user, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const userExists = `-- name: UserExists
SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)
`

func (r *UserRepo) Exists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, userExists, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

const getUserByID = `-- name: getUserByID
SELECT id, username, password_hash, created_at FROM users
WHERE id = $1
`

func (r *UserRepo) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByID, id)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

const getUserByUsername = `-- name: getUserByUsername
SELECT id, username, password_hash, created_at FROM users
WHERE username = $1
LIMIT 1
`

func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByUsername, username)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

func (r *UserRepo) Find(ctx context.Context, f repository.Filters) ([]models.User, error) {
	query, args, err := buildFindUsers(f)
	if err != nil {
		return nil, err
	}

	rows, _ := r.DB.Query(ctx, query, args...)
	users, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[models.User])
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return users, nil
}

// Build listing query; identifiers are checked against userPublicColumns and quoted
func buildFindUsers(f repository.Filters) (string, []any, error) {
	fields := f.Fields
	if len(fields) == 0 {
		fields = []string{"id", "username", "created_at"}
	}

	columns := make([]string, 0, len(fields))
	for _, field := range fields {
		if _, ok := userPublicColumns[field]; !ok {
			return "", nil, fmt.Errorf("column %q is not allowed to be selected", field)
		}
		columns = append(columns, pgx.Identifier{field}.Sanitize())
	}

	var b strings.Builder
	var args []any

	fmt.Fprintf(&b, "SELECT %s FROM users", strings.Join(columns, ", "))

	if f.Username != "" {
		args = append(args, f.Username)
		fmt.Fprintf(&b, " WHERE username = $%d", len(args))
	}

	order, err := orderClause(f, userPublicColumns, "")
	if err != nil {
		return "", nil, err
	}
	b.WriteString(order)

	args = append(args, f.Limit, f.Offset)
	fmt.Fprintf(&b, " LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return b.String(), args, nil
}

// ORDER BY clause for allowed column and direction with id as tiebreaker, empty if OrderBy not set
func orderClause(f repository.Filters, allowed map[string]struct{}, table string) (string, error) {
	if f.OrderBy == "" {
		return "", nil
	}
	if _, ok := allowed[f.OrderBy]; !ok {
		return "", fmt.Errorf("column %q is not allowed to order by", f.OrderBy)
	}

	sort := strings.ToUpper(f.Sort)
	switch sort {
	case "":
		sort = "ASC"
	case "ASC", "DESC":
	default:
		return "", fmt.Errorf("sort direction %q is not allowed", f.Sort)
	}

	column := func(name string) string {
		if table != "" {
			return pgx.Identifier{table, name}.Sanitize()
		}
		return pgx.Identifier{name}.Sanitize()
	}

	clause := fmt.Sprintf(" ORDER BY %s %s", column(f.OrderBy), sort)
	// Unique id keeps pages stable when ordered values tie
	if f.OrderBy != "id" {
		clause += fmt.Sprintf(", %s %s", column("id"), sort)
	}

	return clause, nil
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	return u, err
}
