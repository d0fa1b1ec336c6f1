package history

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stwalsh4118/kodiserv/internal/logger"
	"github.com/stwalsh4118/kodiserv/internal/nowplaying"
)

const pollTimeout = 10 * time.Second

// Source provides the current now playing descriptor
type Source interface {
	GetNowPlaying(ctx context.Context, now time.Time) (nowplaying.NowPlaying, error)
}

// Poller periodically resolves now playing and feeds it to a Recorder
type Poller struct {
	source   Source
	recorder *Recorder
	interval time.Duration
	clock    func() time.Time

	cron    *cron.Cron
	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
}

// NewPoller creates a poller that runs every interval once started
func NewPoller(source Source, recorder *Recorder, interval time.Duration) *Poller {
	return &Poller{
		source:   source,
		recorder: recorder,
		interval: interval,
		clock:    time.Now,
	}
}

// Start schedules polling. Calling Start on a running poller is a no-op.
func (p *Poller) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil
	}

	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	ctx, cancel := context.WithCancel(context.Background())
	schedule := fmt.Sprintf("@every %s", p.interval)
	if _, err := scheduler.AddFunc(schedule, func() { p.tick(ctx) }); err != nil {
		cancel()
		return fmt.Errorf("invalid history interval %s: %w", p.interval, err)
	}

	p.cron = scheduler
	p.cancel = cancel
	p.cron.Start()
	p.running = true

	logger.Log.Info().
		Dur("interval", p.interval).
		Msg("History poller started")
	return nil
}

// Stop cancels in-flight polls and waits for the scheduler to finish
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	p.cancel()
	ctx := p.cron.Stop()
	<-ctx.Done()
	p.running = false

	logger.Log.Info().Msg("History poller stopped")
}

// Poll runs a single resolve and record cycle
func (p *Poller) Poll(ctx context.Context) error {
	now := p.clock()
	np, err := p.source.GetNowPlaying(ctx, now)
	if err != nil {
		return err
	}
	_, err = p.recorder.Record(ctx, np, now)
	return err
}

func (p *Poller) tick(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, pollTimeout)
	defer cancel()

	if err := p.Poll(ctx); err != nil {
		logger.Log.Warn().
			Err(err).
			Msg("History poll failed")
	}
}
