package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"crewmatch/internal/domain"
)

const crewColumns = `id, home_base, telegram_chat_id, email_opt_in, created_at, updated_at`

type crewRepository struct {
	DB *sql.DB
}

// NewCrewRepository returns a domain.CrewRepository implemented with Postgres.
// Profiles are created on first write.
func NewCrewRepository(db *sql.DB) domain.CrewRepository {
	return &crewRepository{DB: db}
}

func scanCrew(row *sql.Row) (*domain.CrewMember, error) {
	m := &domain.CrewMember{}
	err := row.Scan(&m.ID, &m.HomeBase, &m.TelegramChatID, &m.EmailOptIn, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *crewRepository) GetByID(ctx context.Context, id string) (*domain.CrewMember, error) {
	query := `SELECT ` + crewColumns + ` FROM crew_members WHERE id = $1`
	return scanCrew(r.DB.QueryRowContext(ctx, query, id))
}

func (r *crewRepository) SetHomeBase(ctx context.Context, id, homeBase string) (*domain.CrewMember, error) {
	query := `
		INSERT INTO crew_members (id, home_base, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (id) DO UPDATE SET home_base = EXCLUDED.home_base, updated_at = EXCLUDED.updated_at
		RETURNING ` + crewColumns
	return scanCrew(r.DB.QueryRowContext(ctx, query, id, homeBase, time.Now().UTC()))
}

func (r *crewRepository) LinkTelegramChat(ctx context.Context, id, chatID string) error {
	query := `
		INSERT INTO crew_members (id, telegram_chat_id, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (id) DO UPDATE SET telegram_chat_id = EXCLUDED.telegram_chat_id, updated_at = EXCLUDED.updated_at
	`
	_, err := r.DB.ExecContext(ctx, query, id, chatID, time.Now().UTC())
	return err
}

func (r *crewRepository) SetEmailOptIn(ctx context.Context, id string, optIn bool) (*domain.CrewMember, error) {
	query := `
		INSERT INTO crew_members (id, email_opt_in, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (id) DO UPDATE SET email_opt_in = EXCLUDED.email_opt_in, updated_at = EXCLUDED.updated_at
		RETURNING ` + crewColumns
	return scanCrew(r.DB.QueryRowContext(ctx, query, id, optIn, time.Now().UTC()))
}
