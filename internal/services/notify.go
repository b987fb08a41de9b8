package services

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"crewmatch/internal/domain"
	"crewmatch/internal/observability"
)

type notificationDispatcher struct {
	ledger      domain.NotificationLedger
	resolver    domain.EndpointResolver
	messenger   domain.Messenger
	airports    domain.AirportDirectory
	metrics     *observability.Metrics
	logger      *slog.Logger
	concurrency int
}

// NewNotificationDispatcher returns a dispatcher that delivers at most once per
// (recipient, city, date) using ledger claims. concurrency bounds parallel deliveries.
func NewNotificationDispatcher(
	ledger domain.NotificationLedger,
	resolver domain.EndpointResolver,
	messenger domain.Messenger,
	airports domain.AirportDirectory,
	metrics *observability.Metrics,
	logger *slog.Logger,
	concurrency int,
) domain.NotificationDispatcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &notificationDispatcher{
		ledger:      ledger,
		resolver:    resolver,
		messenger:   messenger,
		airports:    airports,
		metrics:     metrics,
		logger:      logger,
		concurrency: concurrency,
	}
}

// Dispatch notifies every member of group except trigger. A failure for one
// recipient is recorded in the report and never stops the others.
func (d *notificationDispatcher) Dispatch(ctx context.Context, group domain.MatchGroup, trigger string) domain.DispatchReport {
	report := domain.DispatchReport{}
	if !group.Significant() {
		return report
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(d.concurrency)
	for _, recipient := range group.Recipients(trigger) {
		g.Go(func() error {
			outcome, err := d.notify(ctx, group, recipient)
			d.metrics.Notifications.WithLabelValues(outcome).Inc()

			mu.Lock()
			defer mu.Unlock()
			switch outcome {
			case observability.OutcomeSent:
				report.Sent = append(report.Sent, recipient)
			case observability.OutcomeDuplicate:
				report.AlreadyNotified = append(report.AlreadyNotified, recipient)
			case observability.OutcomeNoEndpoint:
				report.NoEndpoint = append(report.NoEndpoint, recipient)
			default:
				d.logger.ErrorContext(ctx, "notification failed",
					"recipient", recipient, "city", group.City, "date", group.DateString(), "error", err)
				report.Failed = append(report.Failed, domain.DispatchFailure{Recipient: recipient, Error: err.Error()})
			}
			return nil
		})
	}
	_ = g.Wait()

	slices.Sort(report.Sent)
	slices.Sort(report.AlreadyNotified)
	slices.Sort(report.NoEndpoint)
	slices.SortFunc(report.Failed, func(a, b domain.DispatchFailure) int {
		return cmp.Compare(a.Recipient, b.Recipient)
	})
	return report
}

// notify runs claim -> resolve -> send -> confirm for one recipient.
// The claim is released on every path that did not deliver.
func (d *notificationDispatcher) notify(ctx context.Context, group domain.MatchGroup, recipient string) (string, error) {
	key := domain.NewNotificationKey(recipient, group.City, group.Date)
	claim, existed, err := d.ledger.Claim(ctx, key)
	if err != nil {
		return observability.OutcomeFailed, fmt.Errorf("claim notification: %w", err)
	}
	if existed {
		return observability.OutcomeDuplicate, nil
	}

	endpoint, err := d.resolver.ResolveEndpoint(ctx, recipient)
	if err != nil {
		d.release(ctx, claim)
		return observability.OutcomeFailed, fmt.Errorf("resolve endpoint: %w", err)
	}
	if endpoint == nil {
		d.release(ctx, claim)
		return observability.OutcomeNoEndpoint, nil
	}

	if err := d.messenger.Send(ctx, *endpoint, matchMessage(group, recipient, d.airports)); err != nil {
		d.release(ctx, claim)
		return observability.OutcomeFailed, fmt.Errorf("send via %s: %w", endpoint.Channel, err)
	}

	if err := d.confirm(ctx, claim); err != nil {
		// Delivered; the pending claim still blocks duplicates until it goes stale.
		d.logger.ErrorContext(ctx, "confirm notification failed",
			"recipient", recipient, "city", group.City, "date", group.DateString(), "error", err)
	}
	return observability.OutcomeSent, nil
}

// confirmAttempts bounds Confirm calls after a delivery.
const confirmAttempts = 2

func (d *notificationDispatcher) confirm(ctx context.Context, claim domain.LedgerClaim) error {
	ctx = context.WithoutCancel(ctx)
	var err error
	for attempt := 1; attempt <= confirmAttempts; attempt++ {
		if err = d.ledger.Confirm(ctx, claim); err == nil {
			return nil
		}
		if attempt < confirmAttempts {
			d.logger.WarnContext(ctx, "confirm notification failed, retrying",
				"recipient", claim.Key.Recipient, "city", claim.Key.City, "error", err)
		}
	}
	return err
}

func (d *notificationDispatcher) release(ctx context.Context, claim domain.LedgerClaim) {
	if err := d.ledger.Release(context.WithoutCancel(ctx), claim); err != nil {
		d.logger.WarnContext(ctx, "release notification claim failed",
			"recipient", claim.Key.Recipient, "city", claim.Key.City, "error", err)
	}
}
