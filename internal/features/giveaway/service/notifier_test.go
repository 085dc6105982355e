package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giveaway-bot/internal/features/giveaway/models"
)

type recordingSender struct {
	mu       sync.Mutex
	sent     []string
	failFor  map[string]bool
	blockFor map[string]chan struct{}
}

func (s *recordingSender) SendDirect(ctx context.Context, userID string, _ models.Message) error {
	if ch, ok := s.blockFor[userID]; ok {
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if s.failFor[userID] {
		return errors.New("cannot send messages to this user")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, userID)
	return nil
}

func (s *recordingSender) delivered() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sent...)
}

func fastNotifierConfig() NotifierConfig {
	return NotifierConfig{Concurrency: 4, Rate: 1000, Burst: 100, Timeout: time.Second}
}

func TestNotifyDeliversToEveryone(t *testing.T) {
	sender := &recordingSender{}
	n := NewNotifier(sender, fastNotifierConfig(), zerolog.Nop())

	n.Notify(context.Background(), participants(5), models.Message{Content: "hi"})
	n.Wait()

	assert.ElementsMatch(t, []string{"u0", "u1", "u2", "u3", "u4"}, sender.delivered())
}

func TestNotifyIsolatesFailures(t *testing.T) {
	sender := &recordingSender{failFor: map[string]bool{"u1": true, "u3": true}}
	n := NewNotifier(sender, fastNotifierConfig(), zerolog.Nop())

	n.Notify(context.Background(), participants(5), models.Message{Content: "hi"})
	n.Wait()

	assert.ElementsMatch(t, []string{"u0", "u2", "u4"}, sender.delivered())
}

func TestNotifySlowRecipientDoesNotBlockOthers(t *testing.T) {
	release := make(chan struct{})
	sender := &recordingSender{blockFor: map[string]chan struct{}{"u0": release}}
	n := NewNotifier(sender, fastNotifierConfig(), zerolog.Nop())

	n.Notify(context.Background(), participants(3), models.Message{Content: "hi"})

	require.Eventually(t, func() bool {
		return len(sender.delivered()) == 2
	}, time.Second, 5*time.Millisecond)
	assert.NotContains(t, sender.delivered(), "u0")

	close(release)
	n.Wait()
	assert.Len(t, sender.delivered(), 3)
}

func TestNotifyReturnsBeforeDelivery(t *testing.T) {
	release := make(chan struct{})
	sender := &recordingSender{blockFor: map[string]chan struct{}{"u0": release}}
	n := NewNotifier(sender, fastNotifierConfig(), zerolog.Nop())

	done := make(chan struct{})
	go func() {
		n.Notify(context.Background(), participants(1), models.Message{})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on delivery")
	}
	close(release)
	n.Wait()
}

func TestNotifySurvivesCallerCancellation(t *testing.T) {
	sender := &recordingSender{}
	n := NewNotifier(sender, fastNotifierConfig(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	n.Notify(ctx, participants(2), models.Message{})
	cancel()
	n.Wait()

	assert.Len(t, sender.delivered(), 2)
}

func TestNotifyNoRecipients(t *testing.T) {
	sender := &recordingSender{}
	n := NewNotifier(sender, NotifierConfig{}, zerolog.Nop())
	n.Notify(context.Background(), nil, models.Message{})
	n.Wait()
	assert.Empty(t, sender.delivered())
}
