package registry

import (
	"context"
	"database/sql"
	"fmt"

	"checkin-importer/internal/models"
)

const fetchPeopleQuery = `
	SELECT id, name, COALESCE(username, ''), email, role, COALESCE(department, '')
	FROM users
	ORDER BY created_at ASC, id ASC`

type QueryerContext interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type PostgresRegistry struct {
	db QueryerContext
}

func NewPostgresRegistry(db QueryerContext) *PostgresRegistry {
	return &PostgresRegistry{db: db}
}

func (r *PostgresRegistry) FetchAll(ctx context.Context) ([]models.Person, error) {
	rows, err := r.db.QueryContext(ctx, fetchPeopleQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegistryUnavailable, err)
	}
	defer rows.Close()

	var out []models.Person
	for rows.Next() {
		var p models.Person
		var role string
		if err := rows.Scan(&p.ID, &p.Name, &p.Username, &p.Email, &role, &p.Department); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		if parsed, ok := models.ParseRole(role); ok {
			p.Role = parsed
		} else {
			p.Role = models.Role(role)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegistryUnavailable, err)
	}
	return out, nil
}
