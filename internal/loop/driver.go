package loop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Voice is the audio side of a cycle. Both calls only schedule sound.
type Voice interface {
	Play() error
	Tap() error
}

// Timer is a pending callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. RealClock uses time.AfterFunc.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// RealClock is the wall clock.
var RealClock Clock = realClock{}

// Driver arms once and then runs a Play+Tap cycle every period, counted
// from the end of the previous cycle's scheduling.
type Driver struct {
	voice  Voice
	clock  Clock
	period time.Duration
	log    zerolog.Logger

	mu     sync.Mutex
	armed  bool
	ctx    context.Context
	cancel context.CancelFunc
	timer  Timer
	count  atomic.Int64
}

func NewDriver(v Voice, clock Clock, period time.Duration, log zerolog.Logger) *Driver {
	return &Driver{voice: v, clock: clock, period: period, log: log}
}

// Start arms the driver and runs the first cycle synchronously. Later calls
// are no-ops and return false.
func (d *Driver) Start(ctx context.Context) bool {
	d.mu.Lock()
	if d.armed {
		d.mu.Unlock()
		return false
	}
	d.armed = true
	d.ctx, d.cancel = context.WithCancel(ctx)
	d.mu.Unlock()

	d.log.Info().Dur("period", d.period).Msg("loop armed")
	d.cycle()
	return true
}

func (d *Driver) Armed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.armed
}

// Count is the number of cycles started so far.
func (d *Driver) Count() int64 { return d.count.Load() }

// Stop cancels the pending cycle. The driver stays armed.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		d.cancel()
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Driver) cycle() {
	d.mu.Lock()
	ctx := d.ctx
	d.mu.Unlock()
	if ctx.Err() != nil {
		d.log.Debug().Msg("loop stopped")
		return
	}

	n := d.count.Add(1)
	l := d.log.With().Int64("loop", n).Logger()

	// an audio failure only costs this cycle its sound
	if err := d.voice.Play(); err != nil {
		l.Error().Err(err).Msg("whisper skipped")
	}
	if err := d.voice.Tap(); err != nil {
		l.Error().Err(err).Msg("tap skipped")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ctx.Err() != nil {
		l.Debug().Msg("loop stopped")
		return
	}
	d.timer = d.clock.AfterFunc(d.period, d.cycle)
}
