package telegram

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSource struct {
	updates chan tgbotapi.Update
	stopped chan struct{}
	timeout int
}

func (f *fakeSource) GetUpdatesChan(cfg tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	f.timeout = cfg.Timeout
	return f.updates
}

func (f *fakeSource) StopReceivingUpdates() {
	close(f.stopped)
}

func TestPoller_DispatchesUntilChannelClosed(t *testing.T) {
	conv := &fakeConversation{}
	d := NewDispatcher(conv, &fakeAnswerer{}, zap.NewNop())
	source := &fakeSource{updates: make(chan tgbotapi.Update, 3), stopped: make(chan struct{})}

	for i := int64(1); i <= 3; i++ {
		source.updates <- tgbotapi.Update{Message: startCommand(i)}
	}
	close(source.updates)

	p := NewPoller(source, d, 30, 2, zap.NewNop())
	require.NoError(t, p.Run(context.Background()))

	assert.Equal(t, 30, source.timeout)
	assert.ElementsMatch(t, []int64{1, 2, 3}, conv.starts)
}

func TestPoller_StopsOnCancel(t *testing.T) {
	d := NewDispatcher(&fakeConversation{}, &fakeAnswerer{}, zap.NewNop())
	source := &fakeSource{updates: make(chan tgbotapi.Update), stopped: make(chan struct{})}
	p := NewPoller(source, d, 30, 0, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop")
	}

	select {
	case <-source.stopped:
	default:
		t.Fatal("updates were not stopped")
	}
}
