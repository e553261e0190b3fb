package usecase

import (
	"sync"
	"time"
)

// OverlayStage is one state of the timed introductory-splash sequence
type OverlayStage string

const (
	StageHidden     OverlayStage = "hidden"
	StageFadeIn     OverlayStage = "fadeIn"
	StageGlow       OverlayStage = "glow"
	StageLogoHold   OverlayStage = "logoHold"
	StageLogoUp     OverlayStage = "logoUp"
	StageMessageIn  OverlayStage = "messageIn"
	StageMessageOut OverlayStage = "messageOut"
	StageWaiting    OverlayStage = "waiting"
	StageFadeOut    OverlayStage = "fadeOut"
)

// OverlayTimings holds the per-stage durations of the splash sequence.
// Stages fire back to back, so cumulative offsets are monotonically
// increasing as long as every duration is positive.
type OverlayTimings struct {
	FadeIn      time.Duration
	FadeInDelay time.Duration
	Glow        time.Duration
	LogoHold    time.Duration
	LogoUp      time.Duration
	MessageIn   time.Duration
	MessageHold time.Duration
	MessageOut  time.Duration
	Settle      time.Duration
	FadeOut     time.Duration
}

// DefaultOverlayTimings returns the splash choreography used in production
func DefaultOverlayTimings() OverlayTimings {
	return OverlayTimings{
		FadeIn:      600 * time.Millisecond,
		FadeInDelay: 100 * time.Millisecond,
		Glow:        2000 * time.Millisecond,
		LogoHold:    1500 * time.Millisecond,
		LogoUp:      1000 * time.Millisecond,
		MessageIn:   480 * time.Millisecond,
		MessageHold: 1200 * time.Millisecond,
		MessageOut:  420 * time.Millisecond,
		Settle:      180 * time.Millisecond,
		FadeOut:     600 * time.Millisecond,
	}
}

// Overlay drives the multi-stage splash sequence. The timed stages run on a
// single active timer; Show and Hide bump a generation counter and stop the
// pending timer, so a stale timer can never fire into a newer sequence.
// The exit transition out of messageOut is gated on the data-ready
// condition rather than on time alone.
type Overlay struct {
	timings OverlayTimings

	mutex        sync.Mutex
	stage        OverlayStage
	generation   uint64
	timer        *time.Timer
	sequenceDone bool
	dataReady    bool
	onHidden     func()
}

// NewOverlay creates an overlay in the hidden stage. onHidden fires exactly
// once per sequence, after fadeOut completes; it may be nil.
func NewOverlay(timings OverlayTimings, onHidden func()) *Overlay {
	return &Overlay{
		timings:  timings,
		stage:    StageHidden,
		onHidden: onHidden,
	}
}

// Stage reports the currently active stage
func (o *Overlay) Stage() OverlayStage {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	return o.stage
}

// Show starts the timed sequence from fadeIn, regardless of prior stage.
// Any pending timer from an earlier sequence is invalidated.
func (o *Overlay) Show() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.generation++
	o.stage = StageFadeIn
	o.sequenceDone = false
	o.dataReady = false
	o.schedule(o.timings.FadeIn+o.timings.FadeInDelay, o.advance)
}

// Hide interrupts the sequence: any non-hidden, non-fadeOut stage skips the
// remaining timed stages and transitions straight to fadeOut.
func (o *Overlay) Hide() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if o.stage == StageHidden || o.stage == StageFadeOut {
		return
	}
	o.generation++
	o.enterFadeOut()
}

// SetDataReady updates the externally supplied data-ready condition. If the
// sequence is already holding in waiting, the overlay leaves it after a
// short settle delay.
func (o *Overlay) SetDataReady(ready bool) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.dataReady = ready
	if ready && o.sequenceDone && o.stage == StageWaiting {
		o.schedule(o.timings.Settle, func() {
			o.enterFadeOut()
		})
	}
}

// advance moves to the next timed stage. Runs with the mutex held, from the
// active timer of the current generation.
func (o *Overlay) advance() {
	switch o.stage {
	case StageFadeIn:
		o.stage = StageGlow
		o.schedule(o.timings.Glow, o.advance)
	case StageGlow:
		o.stage = StageLogoHold
		o.schedule(o.timings.LogoHold, o.advance)
	case StageLogoHold:
		o.stage = StageLogoUp
		o.schedule(o.timings.LogoUp, o.advance)
	case StageLogoUp:
		o.stage = StageMessageIn
		o.schedule(o.timings.MessageIn+o.timings.MessageHold, o.advance)
	case StageMessageIn:
		o.stage = StageMessageOut
		o.schedule(o.timings.MessageOut, o.advance)
	case StageMessageOut:
		// End of the timed portion: dismiss if data already arrived,
		// otherwise hold indefinitely until it does.
		o.sequenceDone = true
		if o.dataReady {
			o.enterFadeOut()
		} else {
			o.stage = StageWaiting
		}
	}
}

// enterFadeOut transitions to fadeOut and schedules the return to hidden.
// Mutex must be held.
func (o *Overlay) enterFadeOut() {
	o.stage = StageFadeOut
	o.schedule(o.timings.FadeOut, func() {
		o.stage = StageHidden
		o.sequenceDone = false
		o.dataReady = false
		if o.onHidden != nil {
			go o.onHidden()
		}
	})
}

// schedule arms the single active timer for the current generation,
// replacing any pending one. The callback runs with the mutex held and is
// discarded if the generation has moved on by the time it fires.
func (o *Overlay) schedule(d time.Duration, fn func()) {
	if o.timer != nil {
		o.timer.Stop()
	}
	generation := o.generation
	o.timer = time.AfterFunc(d, func() {
		o.mutex.Lock()
		defer o.mutex.Unlock()
		if o.generation != generation {
			return
		}
		fn()
	})
}
