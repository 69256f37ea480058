// SPDX-License-Identifier: EPL-2.0

package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ik5/avkit/audio"
	"github.com/ik5/avkit/engine"
	"github.com/ik5/avkit/formats"
	"github.com/ik5/avkit/sink"
	"github.com/sirupsen/logrus"
)

const (
	defaultInterval    = 250 * time.Millisecond
	defaultEventBuffer = 64
)

type seekRequest struct {
	pos   time.Duration
	reply chan error
}

// Player decodes one file at a time into a sink.Output. All methods are safe
// for concurrent use.
type Player struct {
	out        sink.Output
	logger     logrus.FieldLogger
	registry   *audio.Registry
	engineOpts []engine.Option
	rate       int
	channels   int
	interval   time.Duration
	events     chan Event

	mtx    sync.Mutex
	e      *engine.Engine
	state  State
	closed bool
	base   time.Duration // position of the first frame scheduled since the sink was last stopped
	cancel context.CancelFunc
	done   chan struct{} // closed when the decode loop returns
	resume chan struct{} // non-nil while paused

	seekMtx     sync.Mutex
	seeks       chan seekRequest
	interrupted atomic.Bool // a Seek or Stop is unblocking the loop
}

// New returns an idle player writing to out. The caller keeps ownership of
// out and closes it after the player.
func New(out sink.Output, opts ...Option) *Player {
	p := &Player{
		out:      out,
		interval: defaultInterval,
		seeks:    make(chan seekRequest, 1),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		p.logger = l
	}
	if p.registry == nil {
		p.registry = formats.NewRegistry()
	}
	if p.events == nil {
		p.events = make(chan Event, defaultEventBuffer)
	}

	return p
}

// Events delivers state changes, progress and errors. It is closed by Close.
func (p *Player) Events() <-chan Event { return p.events }

func (p *Player) State() State {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	return p.state
}

// Open stops the current file and opens path. The output plays the source
// rate with at most two channels unless WithOutputFormat fixed a layout.
func (p *Player) Open(ctx context.Context, path string) error {
	return p.OpenInput(ctx, path, "")
}

// OpenInput is Open with a format hint for inputs that cannot be probed,
// such as "-" for stdin.
func (p *Player) OpenInput(ctx context.Context, path, formatHint string) error {
	if err := p.Stop(); err != nil {
		return err
	}

	p.mtx.Lock()
	defer p.mtx.Unlock()

	if p.closed {
		return ErrClosed
	}
	if p.e != nil {
		_ = p.e.Close()
		p.e = nil
	}

	opts := append([]engine.Option{
		engine.WithLogger(p.logger),
		engine.WithRegistry(p.registry),
	}, p.engineOpts...)
	e := engine.New(opts...)
	if err := e.OpenInput(ctx, path, formatHint); err != nil {
		return err
	}

	rate, channels := p.rate, p.channels
	if rate == 0 || channels == 0 {
		rate, channels = e.SampleRate(), min(e.Channels(), 2)
	}
	err := e.Reconfigure(audio.Format{
		SampleRate:   rate,
		Channels:     channels,
		SampleFormat: audio.Float32,
	})
	if err != nil {
		_ = e.Close()
		return err
	}
	if err := p.out.Configure(rate, channels); err != nil {
		_ = e.Close()
		return fmt.Errorf("%w: %w", ErrAudioOutput, err)
	}

	p.e = e
	p.base = 0
	p.setStateLocked(StateIdle)

	p.logger.WithFields(logrus.Fields{
		"function": "Open",
		"path":     path,
		"codec":    e.CodecName(),
		"format":   e.OutputFormat().String(),
		"duration": e.Duration(),
	}).Debug("File opened")

	return nil
}

// Play starts or resumes playback. A completed file starts over. Canceling
// ctx stops playback.
func (p *Player) Play(ctx context.Context) error {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	switch {
	case p.closed:
		return ErrClosed
	case p.e == nil:
		return ErrNotOpen
	case p.state == StatePlaying:
		return nil
	case p.state == StatePaused:
		return p.resumeLocked()
	case p.state == StateCompleted:
		if err := p.rewindLocked(0); err != nil {
			return err
		}
	}

	if err := p.out.Start(); err != nil {
		return fmt.Errorf("%w: %w", ErrAudioOutput, err)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.interrupted.Store(false)
	p.setStateLocked(StatePlaying)

	go p.run(loopCtx, p.done)

	return nil
}

// Pause holds playback. It is a no-op unless playing.
func (p *Player) Pause() error {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	if p.state != StatePlaying {
		return nil
	}
	if err := p.out.Pause(); err != nil {
		return fmt.Errorf("%w: %w", ErrAudioOutput, err)
	}
	p.resume = make(chan struct{})
	p.setStateLocked(StatePaused)

	return nil
}

// Resume continues after Pause.
func (p *Player) Resume() error {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	return p.resumeLocked()
}

func (p *Player) resumeLocked() error {
	if p.state != StatePaused {
		return nil
	}
	if err := p.out.Start(); err != nil {
		return fmt.Errorf("%w: %w", ErrAudioOutput, err)
	}
	close(p.resume)
	p.resume = nil
	p.setStateLocked(StatePlaying)

	return nil
}

// Stop ends playback and rewinds to the start when the input allows it.
func (p *Player) Stop() error {
	p.mtx.Lock()
	if p.e == nil {
		p.mtx.Unlock()
		return nil
	}
	cancel, done := p.cancel, p.done
	p.interrupted.Store(true)
	p.mtx.Unlock()

	if cancel != nil {
		cancel()
	}
	// Releases a Schedule blocked on a full device buffer.
	err := p.out.Stop()
	if done != nil {
		<-done
	}

	p.mtx.Lock()
	defer p.mtx.Unlock()

	p.cancel, p.done = nil, nil
	if p.resume != nil {
		close(p.resume)
		p.resume = nil
	}
	if serr := p.e.Seek(0); serr == nil {
		p.base = 0
	} else {
		p.logger.WithFields(logrus.Fields{
			"function": "Stop",
			"error":    serr,
		}).Debug("Input cannot rewind")
	}
	if p.state != StateIdle {
		p.setStateLocked(StateStopped)
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrAudioOutput, err)
	}
	return nil
}

// Seek moves playback to d. While playing, the queued audio is dropped and
// the new position is heard right away.
func (p *Player) Seek(d time.Duration) error {
	p.seekMtx.Lock()
	defer p.seekMtx.Unlock()

	p.mtx.Lock()
	switch {
	case p.closed:
		p.mtx.Unlock()
		return ErrClosed
	case p.e == nil:
		p.mtx.Unlock()
		return ErrNotOpen
	}

	done := p.done
	if done == nil || isDone(done) {
		defer p.mtx.Unlock()
		if err := p.rewindLocked(d); err != nil {
			return err
		}
		if p.state == StateCompleted {
			p.setStateLocked(StateStopped)
		}
		return nil
	}

	p.interrupted.Store(true)
	req := seekRequest{pos: d, reply: make(chan error, 1)}
	p.seeks <- req
	p.mtx.Unlock()

	if err := p.out.Stop(); err != nil {
		return fmt.Errorf("%w: %w", ErrAudioOutput, err)
	}

	select {
	case err := <-req.reply:
		return err
	case <-done:
		// The loop ended before taking the request.
		select {
		case <-p.seeks:
		default:
		}

		p.mtx.Lock()
		defer p.mtx.Unlock()

		return p.rewindLocked(d)
	}
}

// rewindLocked seeks while no decode loop runs.
func (p *Player) rewindLocked(d time.Duration) error {
	if err := p.e.Seek(d); err != nil {
		return err
	}
	if err := p.out.Stop(); err != nil {
		return fmt.Errorf("%w: %w", ErrAudioOutput, err)
	}
	p.base = d

	return nil
}

func isDone(done chan struct{}) bool {
	select {
	case <-done:
		return true
	default:
		return false
	}
}

// Position is the play time of the audio already heard.
func (p *Player) Position() time.Duration {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	return p.positionLocked()
}

func (p *Player) positionLocked() time.Duration {
	pos := p.base + p.out.Position()
	if p.e != nil {
		if total := p.e.Duration(); total > 0 {
			pos = min(pos, total)
		}
	}
	return pos
}

// Duration of the open file, 0 when unknown.
func (p *Player) Duration() time.Duration {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	if p.e == nil {
		return 0
	}
	return p.e.Duration()
}

// Tags of the open file.
func (p *Player) Tags() *audio.Tags {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	if p.e == nil {
		return audio.NewTags()
	}
	return p.e.Tags()
}

func (p *Player) Volume() float64     { return p.out.Volume() }
func (p *Player) SetVolume(v float64) { p.out.SetVolume(v) }

// Close stops playback, closes the file and the Events channel.
func (p *Player) Close() error {
	err := p.Stop()

	p.mtx.Lock()
	defer p.mtx.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	if p.e != nil {
		err = errors.Join(err, p.e.Close())
		p.e = nil
	}
	close(p.events)

	return err
}

// run feeds the sink until the end of the file, an error or cancellation.
func (p *Player) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer p.finish()

	schedule := func(buf audio.PCMBuffer) error {
		if err := p.out.Schedule(buf); err != nil {
			return fmt.Errorf("%w: %w", ErrAudioOutput, err)
		}
		return nil
	}

	var last time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-p.seeks:
			p.handleSeek(req)
			continue
		default:
		}

		if gate := p.pauseGate(); gate != nil {
			select {
			case <-ctx.Done():
				return
			case req := <-p.seeks:
				p.handleSeek(req)
			case <-gate:
			}
			continue
		}

		err := p.e.DecodeNext(ctx, schedule)
		switch {
		case err == nil:
			if now := time.Now(); now.Sub(last) >= p.interval {
				last = now
				p.progress()
			}
		case p.interrupted.Load() || ctx.Err() != nil:
			// The loop top picks up the seek or the cancellation.
		case errors.Is(err, engine.ErrEndOfFile):
			if !p.out.Wait(ctx) || p.interrupted.Load() {
				continue
			}
			p.progress()
			p.complete()
			return
		default:
			p.fail(err)
			return
		}
	}
}

func (p *Player) pauseGate() chan struct{} {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	return p.resume
}

func (p *Player) handleSeek(req seekRequest) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	err := p.e.Seek(req.pos)
	if err == nil {
		p.base = req.pos
	}
	p.interrupted.Store(false)

	if p.state == StatePlaying {
		if serr := p.out.Start(); serr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrAudioOutput, serr)
		}
	}

	req.reply <- err
}

func (p *Player) progress() {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	p.emit(Event{
		Type:     EventProgress,
		State:    p.state,
		Position: p.positionLocked(),
		Duration: p.e.Duration(),
	})
}

func (p *Player) complete() {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	p.setStateLocked(StateCompleted)
}

func (p *Player) fail(err error) {
	p.logger.WithFields(logrus.Fields{
		"function": "run",
		"error":    err,
	}).Error("Playback failed")

	p.mtx.Lock()
	defer p.mtx.Unlock()

	p.emit(Event{Type: EventError, State: p.state, Err: err})
}

// finish releases the loop context and leaves the playing states.
func (p *Player) finish() {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	if p.state == StatePlaying || p.state == StatePaused {
		p.setStateLocked(StateStopped)
	}
}

func (p *Player) setStateLocked(s State) {
	if p.state == s {
		return
	}
	p.state = s
	p.emit(Event{Type: EventStateChanged, State: s})
}

// emit never blocks; events are dropped when nobody reads them.
func (p *Player) emit(ev Event) {
	select {
	case p.events <- ev:
	default:
		p.logger.WithFields(logrus.Fields{
			"function": "emit",
			"type":     ev.Type,
		}).Debug("Event dropped")
	}
}
