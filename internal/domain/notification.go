package domain

import (
	"context"
	"strings"
	"time"
)

// NotificationKey identifies one (recipient, city, date) delivery.
type NotificationKey struct {
	Recipient string
	City      string
	Date      time.Time
}

// NewNotificationKey builds a key with the date truncated to its calendar day.
func NewNotificationKey(recipient, city string, date time.Time) NotificationKey {
	return NotificationKey{Recipient: recipient, City: city, Date: DateOf(date)}
}

// Notification record statuses.
const (
	NotificationPending = "pending"
	NotificationSent    = "sent"
)

// LedgerClaim is proof that the caller won a notification key.
// Token distinguishes this claim from a later reclaim of the same key.
type LedgerClaim struct {
	Key   NotificationKey
	Token string
}

// NotificationLedger records deliveries so each key is notified at most once.
//
// Claim is the atomic insert-if-absent primitive: it returns alreadyExisted=true
// when another invocation holds or has completed the key. A successful claim stays
// pending until Confirm; Release drops a pending claim so a retry can deliver.
type NotificationLedger interface {
	Claim(ctx context.Context, key NotificationKey) (claim LedgerClaim, alreadyExisted bool, err error)
	Confirm(ctx context.Context, claim LedgerClaim) error
	Release(ctx context.Context, claim LedgerClaim) error
}

// Channel is a messaging transport.
type Channel string

const (
	ChannelTelegram Channel = "telegram"
	ChannelEmail    Channel = "email"
)

// Endpoint is where a crew member receives messages.
type Endpoint struct {
	Channel Channel
	Address string
}

// EndpointResolver looks up a crew member's messaging endpoint.
// It returns nil without error when none is registered.
type EndpointResolver interface {
	ResolveEndpoint(ctx context.Context, crewID string) (*Endpoint, error)
}

// Message is channel-neutral notification content.
type Message struct {
	Subject string
	Lines   []string
}

// Text renders the message as plain text.
func (m Message) Text() string {
	return strings.Join(m.Lines, "\n")
}

// Messenger delivers a message to an endpoint.
type Messenger interface {
	Send(ctx context.Context, endpoint Endpoint, msg Message) error
}

// DispatchFailure is one recipient whose delivery did not complete.
type DispatchFailure struct {
	Recipient string `json:"recipient"`
	Error     string `json:"error"`
}

// DispatchReport tallies per-recipient outcomes of a dispatch.
type DispatchReport struct {
	Sent            []string          `json:"sent"`
	AlreadyNotified []string          `json:"already_notified"`
	NoEndpoint      []string          `json:"no_endpoint"`
	Failed          []DispatchFailure `json:"failed"`
}

// Merge appends other's outcomes to r.
func (r *DispatchReport) Merge(other DispatchReport) {
	r.Sent = append(r.Sent, other.Sent...)
	r.AlreadyNotified = append(r.AlreadyNotified, other.AlreadyNotified...)
	r.NoEndpoint = append(r.NoEndpoint, other.NoEndpoint...)
	r.Failed = append(r.Failed, other.Failed...)
}

// HasFailures reports whether any delivery failed.
func (r DispatchReport) HasFailures() bool {
	return len(r.Failed) > 0
}

// NotificationDispatcher notifies the recipients of a match group.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, group MatchGroup, trigger string) DispatchReport
}

// SummaryReport tallies a daily digest run.
type SummaryReport struct {
	Date       time.Time         `json:"date"`
	Sent       []string          `json:"sent"`
	NoEndpoint []string          `json:"no_endpoint"`
	Failed     []DispatchFailure `json:"failed"`
}

// SummaryService sends the daily overnight digest.
type SummaryService interface {
	SendDailySummary(ctx context.Context) (*SummaryReport, error)
	SendSummaryForDate(ctx context.Context, date time.Time) (*SummaryReport, error)
}
