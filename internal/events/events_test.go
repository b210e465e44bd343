package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycleEvent_JSONShape(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ev := LifecycleEvent{
		Type:       TypePaymentCompleted,
		BookingID:  "b-1",
		Reference:  "ref_1",
		Email:      "ada@example.com",
		Amount:     150000,
		OccurredAt: at,
	}

	raw, err := json.Marshal(ev)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, "payment.completed", fields["type"])
	assert.Equal(t, "b-1", fields["bookingId"])
	assert.Equal(t, "ref_1", fields["reference"])
	assert.NotContains(t, fields, "projectId")

	decoded, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, ev, decoded)
}

func TestLifecycleEvent_Key(t *testing.T) {
	assert.Equal(t, "b-1", LifecycleEvent{BookingID: "b-1", ProjectID: "p-1"}.Key())
	assert.Equal(t, "p-1", LifecycleEvent{ProjectID: "p-1"}.Key())
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	assert.NoError(t, p.Publish(context.Background(), "topic", "key", LifecycleEvent{}))
	assert.NoError(t, p.Close())
}
