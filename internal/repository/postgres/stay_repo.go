package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"crewmatch/internal/domain"
)

type stayRepository struct {
	DB *sql.DB
}

// NewStayRepository returns a domain.StayRepository implemented with Postgres.
func NewStayRepository(db *sql.DB) domain.StayRepository {
	return &stayRepository{DB: db}
}

func (r *stayRepository) Create(ctx context.Context, s *domain.Stay) error {
	query := `
		INSERT INTO stays (owner, city, check_in, check_out, stay_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	return r.DB.QueryRowContext(ctx, query, s.Owner, s.City, s.CheckIn, s.CheckOut, s.Date()).Scan(&s.ID, &s.CreatedAt)
}

func (r *stayRepository) List(ctx context.Context, filter domain.StayFilter) ([]*domain.Stay, error) {
	where, args := stayWhere(filter)
	query := `SELECT id, owner, city, check_in, check_out, created_at FROM stays` + where + ` ORDER BY check_in, id`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*domain.Stay
	for rows.Next() {
		s := &domain.Stay{}
		if err := rows.Scan(&s.ID, &s.Owner, &s.City, &s.CheckIn, &s.CheckOut, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.CheckIn = s.CheckIn.UTC()
		s.CheckOut = s.CheckOut.UTC()
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *stayRepository) Count(ctx context.Context, filter domain.StayFilter) (int, error) {
	where, args := stayWhere(filter)
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM stays`+where, args...).Scan(&n)
	return n, err
}

// stayWhere builds the WHERE clause for filter. Placeholders are numbered from $1.
func stayWhere(filter domain.StayFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.Owner != "" {
		add("owner = $%d", filter.Owner)
	}
	if filter.City != "" {
		add("city = $%d", filter.City)
	}
	if !filter.From.IsZero() {
		add("check_in >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		add("check_in < $%d", filter.To)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
