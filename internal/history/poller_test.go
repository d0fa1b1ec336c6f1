package history

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/kodiserv/internal/nowplaying"
)

type fakeSource struct {
	np    nowplaying.NowPlaying
	err   error
	calls atomic.Int32
}

func (s *fakeSource) GetNowPlaying(ctx context.Context, now time.Time) (nowplaying.NowPlaying, error) {
	s.calls.Add(1)
	return s.np, s.err
}

func TestPoller_Poll(t *testing.T) {
	store := &stubStore{}
	source := &fakeSource{np: inception()}
	p := NewPoller(source, NewRecorder(store), time.Second)

	require.NoError(t, p.Poll(context.Background()))
	require.NoError(t, p.Poll(context.Background()))

	assert.Equal(t, int32(2), source.calls.Load())
	assert.Equal(t, 1, store.created)
}

func TestPoller_PollResolutionFailure(t *testing.T) {
	store := &stubStore{}
	source := &fakeSource{err: nowplaying.ErrResolutionFailed}
	p := NewPoller(source, NewRecorder(store), time.Second)

	err := p.Poll(context.Background())
	assert.True(t, nowplaying.IsResolutionFailed(err))
	assert.Equal(t, 0, store.created)
}

func TestPoller_StartStop(t *testing.T) {
	source := &fakeSource{np: nowplaying.Inactive()}
	p := NewPoller(source, NewRecorder(&stubStore{}), time.Second)

	require.NoError(t, p.Start())
	require.NoError(t, p.Start(), "second start is a no-op")

	assert.Eventually(t, func() bool {
		return source.calls.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)

	p.Stop()
	p.Stop()

	calls := source.calls.Load()
	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, calls, source.calls.Load(), "no polls after stop")
}
