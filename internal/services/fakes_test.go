package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"crewmatch/internal/airports"
	"crewmatch/internal/domain"
	"crewmatch/internal/observability"
	"crewmatch/internal/overnight"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAirports() *airports.Registry {
	return airports.New(
		domain.Airport{Code: "GRU", City: "São Paulo"},
		domain.Airport{Code: "CGH", City: "São Paulo"},
		domain.Airport{Code: "GIG", City: "Rio de Janeiro"},
		domain.Airport{Code: "SSA", City: "Salvador"},
	)
}

func ts(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02T15:04", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

// fakeStayRepo is an in-memory StayRepository for tests.
type fakeStayRepo struct {
	mu        sync.Mutex
	stays     []*domain.Stay
	nextID    int
	createErr error
	listErr   error
}

func newFakeStayRepo(stays ...*domain.Stay) *fakeStayRepo {
	f := &fakeStayRepo{nextID: 1}
	for _, s := range stays {
		_ = f.Create(context.Background(), s)
	}
	return f
}

func (f *fakeStayRepo) Create(ctx context.Context, s *domain.Stay) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	s.ID = fmt.Sprintf("stay-%d", f.nextID)
	f.nextID++
	cp := *s
	f.stays = append(f.stays, &cp)
	return nil
}

func (f *fakeStayRepo) matching(filter domain.StayFilter) []*domain.Stay {
	var out []*domain.Stay
	for _, s := range f.stays {
		if filter.Owner != "" && s.Owner != filter.Owner {
			continue
		}
		if filter.City != "" && s.City != filter.City {
			continue
		}
		if !filter.From.IsZero() && s.CheckIn.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !s.CheckIn.Before(filter.To) {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	slices.SortStableFunc(out, func(a, b *domain.Stay) int { return a.CheckIn.Compare(b.CheckIn) })
	return out
}

func (f *fakeStayRepo) List(ctx context.Context, filter domain.StayFilter) ([]*domain.Stay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := f.matching(filter)
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeStayRepo) Count(ctx context.Context, filter domain.StayFilter) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return 0, f.listErr
	}
	return len(f.matching(filter)), nil
}

func (f *fakeStayRepo) all() []*domain.Stay {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domain.Stay(nil), f.stays...)
}

// fakeCrewRepo is an in-memory CrewRepository for tests.
type fakeCrewRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.CrewMember
	getErr error
}

func newFakeCrewRepo(members ...*domain.CrewMember) *fakeCrewRepo {
	f := &fakeCrewRepo{byID: make(map[string]*domain.CrewMember)}
	for _, m := range members {
		f.byID[m.ID] = m
	}
	return f
}

func (f *fakeCrewRepo) GetByID(ctx context.Context, id string) (*domain.CrewMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	m, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeCrewRepo) upsert(id string) *domain.CrewMember {
	m, ok := f.byID[id]
	if !ok {
		m = &domain.CrewMember{ID: id}
		f.byID[id] = m
	}
	return m
}

func (f *fakeCrewRepo) SetHomeBase(ctx context.Context, id, homeBase string) (*domain.CrewMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.upsert(id)
	m.HomeBase = homeBase
	cp := *m
	return &cp, nil
}

func (f *fakeCrewRepo) LinkTelegramChat(ctx context.Context, id, chatID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsert(id).TelegramChatID = chatID
	return nil
}

func (f *fakeCrewRepo) SetEmailOptIn(ctx context.Context, id string, optIn bool) (*domain.CrewMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.upsert(id)
	m.EmailOptIn = optIn
	cp := *m
	return &cp, nil
}

// fakeLedger is an in-memory NotificationLedger whose Claim is atomic under a mutex.
type fakeLedger struct {
	mu        sync.Mutex
	records   map[domain.NotificationKey]string // key -> status
	tokens    map[domain.NotificationKey]string
	nextToken int
	claimErr  error

	// confirmErr fails Confirm; confirmFailures, when set, limits it to the first N calls.
	confirmErr      error
	confirmFailures int
	confirmCalls    int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		records: make(map[domain.NotificationKey]string),
		tokens:  make(map[domain.NotificationKey]string),
	}
}

func (f *fakeLedger) Claim(ctx context.Context, key domain.NotificationKey) (domain.LedgerClaim, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.claimErr != nil {
		return domain.LedgerClaim{}, false, f.claimErr
	}
	if _, ok := f.records[key]; ok {
		return domain.LedgerClaim{}, true, nil
	}
	f.nextToken++
	token := fmt.Sprintf("tok-%d", f.nextToken)
	f.records[key] = domain.NotificationPending
	f.tokens[key] = token
	return domain.LedgerClaim{Key: key, Token: token}, false, nil
}

func (f *fakeLedger) Confirm(ctx context.Context, claim domain.LedgerClaim) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmCalls++
	if f.confirmErr != nil && (f.confirmFailures == 0 || f.confirmCalls <= f.confirmFailures) {
		return f.confirmErr
	}
	if f.tokens[claim.Key] == claim.Token {
		f.records[claim.Key] = domain.NotificationSent
	}
	return nil
}

func (f *fakeLedger) Release(ctx context.Context, claim domain.LedgerClaim) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tokens[claim.Key] == claim.Token && f.records[claim.Key] == domain.NotificationPending {
		delete(f.records, claim.Key)
		delete(f.tokens, claim.Key)
	}
	return nil
}

func (f *fakeLedger) status(recipient, city string, date time.Time) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[domain.NewNotificationKey(recipient, city, date)]
}

// sentMessage is one delivery captured by fakeMessenger.
type sentMessage struct {
	Endpoint domain.Endpoint
	Message  domain.Message
}

// fakeMessenger records deliveries; failFor makes sends to an address fail.
type fakeMessenger struct {
	mu      sync.Mutex
	sent    []sentMessage
	failFor map[string]error
	delay   time.Duration
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{failFor: make(map[string]error)}
}

func (f *fakeMessenger) Send(ctx context.Context, endpoint domain.Endpoint, msg domain.Message) error {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failFor[endpoint.Address]; err != nil {
		return err
	}
	f.sent = append(f.sent, sentMessage{Endpoint: endpoint, Message: msg})
	return nil
}

func (f *fakeMessenger) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

func (f *fakeMessenger) sentTo(address string) int {
	n := 0
	for _, m := range f.messages() {
		if m.Endpoint.Address == address {
			n++
		}
	}
	return n
}

// fakeExtractor returns fixed events or an error.
type fakeExtractor struct {
	events       []domain.RawEvent
	err          error
	lastDocument string
}

func (f *fakeExtractor) Extract(ctx context.Context, document string) ([]domain.RawEvent, error) {
	f.lastDocument = document
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

// fakePublisher records published groups.
type fakePublisher struct {
	mu     sync.Mutex
	groups []domain.MatchGroup
	err    error
}

func (f *fakePublisher) PublishMatch(ctx context.Context, group domain.MatchGroup, trigger string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.groups = append(f.groups, group)
	return f.err
}

// telegramCrew returns a crew member linked to a Telegram chat named after the ID.
func telegramCrew(id string) *domain.CrewMember {
	return &domain.CrewMember{ID: id, TelegramChatID: "chat-" + id}
}

// testEnv wires the stay service with in-memory collaborators.
type testEnv struct {
	stays     *fakeStayRepo
	crew      *fakeCrewRepo
	ledger    *fakeLedger
	messenger *fakeMessenger
	extractor *fakeExtractor
	publisher *fakePublisher
	service   domain.StayService
}

func newTestEnv(crew ...*domain.CrewMember) *testEnv {
	env := &testEnv{
		stays:     newFakeStayRepo(),
		crew:      newFakeCrewRepo(crew...),
		ledger:    newFakeLedger(),
		messenger: newFakeMessenger(),
		extractor: &fakeExtractor{},
		publisher: &fakePublisher{},
	}
	logger := discardLogger()
	metrics := observability.NewMetricsForTesting()
	dir := testAirports()
	dispatcher := NewNotificationDispatcher(env.ledger, NewEndpointResolver(env.crew), env.messenger, dir, metrics, logger, 4)
	env.service = NewStayService(StayDeps{
		Stays:      env.stays,
		Crew:       env.crew,
		Extractor:  env.extractor,
		Airports:   dir,
		Normalizer: overnight.NewNormalizer(dir, logger),
		Calculator: overnight.NewCalculator(overnight.DefaultThreshold, logger),
		Merger:     overnight.NewMerger(overnight.DefaultMergeTolerance, logger),
		Matcher:    NewMatchDetector(env.stays),
		Dispatcher: dispatcher,
		Publisher:  env.publisher,
		Metrics:    metrics,
		Logger:     logger,
		Timeout:    5 * time.Second,
	})
	return env
}
