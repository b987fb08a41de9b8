package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"crewmatch/internal/domain"
)

// DefaultClaimTTL is how long a pending claim blocks other senders before it may be taken over.
const DefaultClaimTTL = 10 * time.Minute

type notificationLedger struct {
	DB       *sql.DB
	clock    clockwork.Clock
	claimTTL time.Duration
}

// NewNotificationLedger returns a domain.NotificationLedger backed by the notifications table.
// The unique (recipient, city, stay_date) constraint makes Claim atomic across processes.
func NewNotificationLedger(db *sql.DB, clock clockwork.Clock, claimTTL time.Duration) domain.NotificationLedger {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if claimTTL <= 0 {
		claimTTL = DefaultClaimTTL
	}
	return &notificationLedger{DB: db, clock: clock, claimTTL: claimTTL}
}

// Claim inserts a pending record for key. An existing sent record, or a pending one
// younger than the claim TTL, wins and alreadyExisted is returned.
func (l *notificationLedger) Claim(ctx context.Context, key domain.NotificationKey) (domain.LedgerClaim, bool, error) {
	query := `
		INSERT INTO notifications (recipient, city, stay_date, status, claim_token, claimed_at)
		VALUES ($1, $2, $3, 'pending', $4, $5)
		ON CONFLICT (recipient, city, stay_date) DO UPDATE
		SET claim_token = EXCLUDED.claim_token, claimed_at = EXCLUDED.claimed_at
		WHERE notifications.status = 'pending' AND notifications.claimed_at < $6
		RETURNING id
	`
	now := l.clock.Now().UTC()
	token := uuid.NewString()
	var id string
	err := l.DB.QueryRowContext(ctx, query, key.Recipient, key.City, key.Date, token, now, now.Add(-l.claimTTL)).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.LedgerClaim{}, true, nil
		}
		return domain.LedgerClaim{}, false, err
	}
	return domain.LedgerClaim{Key: key, Token: token}, false, nil
}

func (l *notificationLedger) Confirm(ctx context.Context, claim domain.LedgerClaim) error {
	query := `
		UPDATE notifications SET status = 'sent', sent_at = $1
		WHERE recipient = $2 AND city = $3 AND stay_date = $4 AND claim_token = $5
	`
	res, err := l.DB.ExecContext(ctx, query, l.clock.Now().UTC(), claim.Key.Recipient, claim.Key.City, claim.Key.Date, claim.Token)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("confirm %s/%s: claim no longer held", claim.Key.Recipient, claim.Key.City)
	}
	return nil
}

func (l *notificationLedger) Release(ctx context.Context, claim domain.LedgerClaim) error {
	query := `
		DELETE FROM notifications
		WHERE recipient = $1 AND city = $2 AND stay_date = $3 AND claim_token = $4 AND status = 'pending'
	`
	_, err := l.DB.ExecContext(ctx, query, claim.Key.Recipient, claim.Key.City, claim.Key.Date, claim.Token)
	return err
}
