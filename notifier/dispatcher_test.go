package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"claims-management-api/metrics"
	"claims-management-api/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu    sync.Mutex
	sent  []Message
	err   error
	block chan struct{}
}

func (s *recordingSender) Name() string { return "recording" }

func (s *recordingSender) Send(ctx context.Context, msg Message) error {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return s.err
}

func (s *recordingSender) messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.sent))
	copy(out, s.sent)
	return out
}

func sampleMessage(id string) Message {
	return Message{
		ClaimID:  id,
		To:       "user@example.com",
		Name:     "testuser",
		PolicyID: "policy-1",
		Status:   models.StatusApproved,
	}
}

func TestDispatcherDeliversInBackground(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, 10, time.Second)

	d.Notify(sampleMessage("c1"))
	d.Notify(sampleMessage("c2"))

	assert.Eventually(t, func() bool { return len(sender.messages()) == 2 }, time.Second, 10*time.Millisecond)
	d.Close()

	msgs := sender.messages()
	assert.Equal(t, "c1", msgs[0].ClaimID)
	assert.Equal(t, "c2", msgs[1].ClaimID)
}

func TestDispatcherSwallowsSendFailures(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	d := NewDispatcher(sender, 10, time.Second)
	failed := testutil.ToFloat64(metrics.Notifications.WithLabelValues("recording", "failed"))

	d.Notify(sampleMessage("c1"))
	d.Close()

	assert.Len(t, sender.messages(), 1)
	assert.Equal(t, failed+1, testutil.ToFloat64(metrics.Notifications.WithLabelValues("recording", "failed")))
}

func TestNotifyNeverBlocksWhenQueueIsFull(t *testing.T) {
	sender := &recordingSender{block: make(chan struct{})}
	d := NewDispatcher(sender, 1, time.Second)
	dropped := testutil.ToFloat64(metrics.Notifications.WithLabelValues("recording", "dropped"))

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			d.Notify(sampleMessage("c"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a full queue")
	}

	close(sender.block)
	d.Close()

	// One message in flight plus one queued; the rest are dropped.
	assert.LessOrEqual(t, len(sender.messages()), 2)
	assert.GreaterOrEqual(t, testutil.ToFloat64(metrics.Notifications.WithLabelValues("recording", "dropped")), dropped+3)
}

func TestNotifyAfterCloseIsDropped(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, 1, time.Second)
	d.Close()
	d.Close()

	require.NotPanics(t, func() { d.Notify(sampleMessage("late")) })
	assert.Empty(t, sender.messages())
}

func TestSendHonorsTimeout(t *testing.T) {
	sender := &recordingSender{block: make(chan struct{})}
	d := NewDispatcher(sender, 1, 20*time.Millisecond)
	failed := testutil.ToFloat64(metrics.Notifications.WithLabelValues("recording", "failed"))

	d.Notify(sampleMessage("slow"))
	d.Close()

	assert.Equal(t, failed+1, testutil.ToFloat64(metrics.Notifications.WithLabelValues("recording", "failed")))
}
