package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPaymentStatus_Transitions(t *testing.T) {
	testCases := []struct {
		from, to PaymentStatus
		allowed  bool
	}{
		{PaymentStatusPending, PaymentStatusInitiated, true},
		{PaymentStatusPending, PaymentStatusCompleted, true},
		{PaymentStatusInitiated, PaymentStatusCompleted, true},
		{PaymentStatusInitiated, PaymentStatusFailed, true},
		{PaymentStatusFailed, PaymentStatusInitiated, true},
		{PaymentStatusFailed, PaymentStatusCompleted, true},
		{PaymentStatusCompleted, PaymentStatusPending, false},
		{PaymentStatusCompleted, PaymentStatusFailed, false},
		{PaymentStatusCompleted, PaymentStatusCompleted, false},
		{PaymentStatusInitiated, PaymentStatusPending, false},
		{PaymentStatus("refunded"), PaymentStatusCompleted, false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestProjectStatus_Transitions(t *testing.T) {
	testCases := []struct {
		from, to ProjectStatus
		allowed  bool
	}{
		{ProjectStatusPlanning, ProjectStatusInProgress, true},
		{ProjectStatusInProgress, ProjectStatusTesting, true},
		{ProjectStatusTesting, ProjectStatusCompleted, true},
		{ProjectStatusTesting, ProjectStatusInProgress, true},
		{ProjectStatusInProgress, ProjectStatusPlanning, false},
		{ProjectStatusCompleted, ProjectStatusInProgress, false},
		{ProjectStatusCompleted, ProjectStatusOnHold, true},
		{ProjectStatusCompleted, ProjectStatusPlanning, false},
		{ProjectStatusCompleted, ProjectStatusTesting, false},
		{ProjectStatusOnHold, ProjectStatusPlanning, true},
		{ProjectStatusPlanning, ProjectStatusOnHold, true},
		{ProjectStatusOnHold, ProjectStatusInProgress, true},
		{ProjectStatusOnHold, ProjectStatusCompleted, false},
		{ProjectStatusTesting, ProjectStatusTesting, true},
		{ProjectStatusPlanning, ProjectStatus("shipped"), false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestBooking_Lifecycle(t *testing.T) {
	b := &Booking{PaymentStatus: PaymentStatusPending}
	assert.Equal(t, LifecycleRequested, b.Lifecycle())

	b.PaymentStatus = PaymentStatusInitiated
	assert.Equal(t, LifecyclePaymentPending, b.Lifecycle())

	b.PaymentStatus = PaymentStatusCompleted
	assert.Equal(t, LifecyclePaymentCompleted, b.Lifecycle())

	b.PaymentStatus = PaymentStatusFailed
	assert.Equal(t, LifecyclePaymentFailed, b.Lifecycle())
}

func TestSession_Usable(t *testing.T) {
	now := time.Now()

	active := &Session{IsActive: true, ExpiresAt: now.Add(time.Hour)}
	assert.True(t, active.Usable(now))

	// Expired sessions fail even when still flagged active
	expired := &Session{IsActive: true, ExpiresAt: now.Add(-time.Second)}
	assert.False(t, expired.Usable(now))

	revoked := &Session{IsActive: false, ExpiresAt: now.Add(time.Hour)}
	assert.False(t, revoked.Usable(now))
}
