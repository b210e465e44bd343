package usecase

import (
	"context"
	"sync"
	"time"

	"freelance-booking/internal/events"
	"freelance-booking/internal/gateway/paystack"
	"freelance-booking/pkg/utils"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockGateway) Initialize(ctx context.Context, p paystack.InitializeParams) (*paystack.Authorization, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paystack.Authorization), args.Error(1)
}

func (m *MockGateway) Verify(ctx context.Context, reference string) (*paystack.Transaction, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paystack.Transaction), args.Error(1)
}

type MockGuard struct {
	mock.Mock
}

func (m *MockGuard) Claim(ctx context.Context, reference string) (bool, error) {
	args := m.Called(ctx, reference)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuard) Release(ctx context.Context, reference string) error {
	args := m.Called(ctx, reference)
	return args.Error(0)
}

// openGuard lets every delivery through.
type openGuard struct{}

func (openGuard) Claim(context.Context, string) (bool, error) { return true, nil }
func (openGuard) Release(context.Context, string) error       { return nil }

// recordingPublisher keeps published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.LifecycleEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, topic, key string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, payload.(events.LifecycleEvent))
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

func testConfig() *utils.Config {
	return &utils.Config{
		Session: utils.SessionConfig{TTLHours: 720},
		JWT:     utils.JWTConfig{Secret: "test-jwt-secret", ExpiryHours: 12},
		Paystack: utils.PaystackConfig{
			SecretKey:     "sk_test_123",
			WebhookSecret: "sk_test_123",
			Currency:      "NGN",
		},
	}
}

type testEnv struct {
	store     *memStore
	gateway   *MockGateway
	publisher *recordingPublisher
	config    *utils.Config
	svc       *Service
}

func newTestEnv() *testEnv {
	store := newMemStore()
	gateway := &MockGateway{}
	rec := &recordingPublisher{}
	config := testConfig()
	log := zap.NewNop()

	svc := NewService(
		store.repository(),
		gateway,
		openGuard{},
		NewEventPublisher(rec, "test-events", log),
		config,
		log,
	)

	return &testEnv{
		store:     store,
		gateway:   gateway,
		publisher: rec,
		config:    config,
		svc:       svc,
	}
}

func paidTransaction(reference string, amountMinor int64, email, bookingID string) *paystack.Transaction {
	paidAt := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	return &paystack.Transaction{
		Reference:     reference,
		Status:        paystack.StatusSuccess,
		AmountMinor:   amountMinor,
		Currency:      "NGN",
		CustomerEmail: email,
		PaidAt:        &paidAt,
		Metadata: paystack.Metadata{
			BookingID:   bookingID,
			ServiceID:   "web-app",
			ServiceName: "Web App",
		},
		Raw: []byte(`{"reference":"` + reference + `"}`),
	}
}

func ptr[T any](v T) *T {
	return &v
}
