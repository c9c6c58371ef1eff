package handler

import (
	"fmt"
	"time"

	"lstbot/internal/playback"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const outboxSize = 32

// Sender delivers messages to Telegram. *tele.Bot satisfies it.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// renderer plays clips into a chat. Telegram gives no playback feedback, so
// the end of a clip is simulated with a timer of the clip duration scaled by
// the rate. Messages go through an outbox so the engine never waits on the
// network.
type renderer struct {
	sender   Sender
	chat     tele.Recipient
	idleClip string
	clock    playback.Clock
	logger   *zap.Logger
	onEnded  func(playID uint64)

	// owned by the engine goroutine
	timer     playback.Timer
	playID    uint64
	deadline  time.Time
	remaining time.Duration
	rate      float64
	paused    bool

	outbox chan func()
	done   chan struct{}
}

func newRenderer(sender Sender, chat tele.Recipient, idleClip string, clock playback.Clock, logger *zap.Logger) *renderer {
	r := &renderer{
		sender:   sender,
		chat:     chat,
		idleClip: idleClip,
		clock:    clock,
		logger:   logger,
		rate:     1,
		outbox:   make(chan func(), outboxSize),
		done:     make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *renderer) run() {
	for {
		select {
		case fn := <-r.outbox:
			fn()
		case <-r.done:
			return
		}
	}
}

// close stops the outbox. Queued messages are dropped.
func (r *renderer) close() {
	r.stopTimer()
	close(r.done)
}

func (r *renderer) enqueue(fn func()) {
	select {
	case r.outbox <- fn:
	case <-r.done:
	default:
		r.logger.Warn("Outbox full, message dropped")
	}
}

// Play sends the clip and arms its end timer
func (r *renderer) Play(clip playback.Clip) {
	r.stopTimer()
	r.playID = clip.PlayID
	r.rate = clip.Rate
	r.remaining = scaleDuration(clip.Handle.Duration, clip.Rate)
	r.paused = false
	r.startTimer()

	r.enqueue(func() { r.sendClip(clip) })
}

func (r *renderer) Pause() {
	if r.timer == nil || r.paused {
		return
	}
	left := r.deadline.Sub(r.clock.Now())
	if left <= 0 {
		return
	}
	r.stopTimer()
	r.remaining = left
	r.paused = true
}

func (r *renderer) Resume() {
	if !r.paused {
		return
	}
	r.paused = false
	r.startTimer()
}

// SetRate rescales whatever is left of the current clip
func (r *renderer) SetRate(rate float64) {
	if rate <= 0 || rate == r.rate {
		return
	}
	old := r.rate
	r.rate = rate

	if r.paused {
		r.remaining = time.Duration(float64(r.remaining) * old / rate)
		return
	}
	if r.timer == nil {
		return
	}
	left := r.deadline.Sub(r.clock.Now())
	if left <= 0 {
		return
	}
	r.stopTimer()
	r.remaining = time.Duration(float64(left) * old / rate)
	r.startTimer()
}

func (r *renderer) Stop() {
	r.stopTimer()
	r.paused = false
	r.remaining = 0
}

// Idle shows the resting clip once a sequence is over
func (r *renderer) Idle() {
	r.Stop()
	if r.idleClip == "" {
		return
	}
	r.enqueue(func() {
		if _, err := r.sender.Send(r.chat, &tele.Animation{File: tele.FromDisk(r.idleClip)}); err != nil {
			r.logger.Warn("Failed to send idle clip", zap.Error(err))
		}
	})
}

// notify sends a text message after any queued clips
func (r *renderer) notify(text string, opts ...interface{}) {
	r.enqueue(func() {
		if _, err := r.sender.Send(r.chat, text, opts...); err != nil {
			r.logger.Warn("Failed to send notification", zap.Error(err))
		}
	})
}

func (r *renderer) startTimer() {
	id := r.playID
	ended := r.onEnded
	r.deadline = r.clock.Now().Add(r.remaining)
	r.timer = r.clock.AfterFunc(r.remaining, func() {
		if ended != nil {
			ended(id)
		}
	})
}

func (r *renderer) stopTimer() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *renderer) sendClip(clip playback.Clip) {
	caption := fmt.Sprintf("%d/%d · %s", clip.Index+1, clip.Total, clip.Sign.DisplayName)
	file := tele.FromDisk(clip.Handle.Source)

	var what interface{}
	if clip.Sign.Format == "gif" {
		what = &tele.Animation{File: file, Caption: caption}
	} else {
		what = &tele.Video{File: file, Caption: caption, Streaming: true}
	}

	if _, err := r.sender.Send(r.chat, what, controlsMarkup()); err != nil {
		r.logger.Warn("Failed to send clip",
			zap.String("sign", clip.Sign.ID),
			zap.Int("index", clip.Index),
			zap.Error(err),
		)
	}
}

func scaleDuration(d time.Duration, rate float64) time.Duration {
	if rate <= 0 {
		return d
	}
	return time.Duration(float64(d) / rate)
}
