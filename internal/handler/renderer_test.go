package handler

import (
	"sync"
	"testing"
	"time"

	"lstbot/internal/playback"
	"lstbot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	waitFor  = 2 * time.Second
	waitTick = 2 * time.Millisecond
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) playback.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []func()
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t.f)
		}
	}
	c.mu.Unlock()

	for _, f := range due {
		f()
	}
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

type sentMessage struct {
	to   tele.Recipient
	what interface{}
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (s *fakeSender) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentMessage{to: to, what: what})
	return &tele.Message{}, nil
}

func (s *fakeSender) messages() []sentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentMessage(nil), s.sent...)
}

func (s *fakeSender) videos() []*tele.Video {
	var videos []*tele.Video
	for _, m := range s.messages() {
		if v, ok := m.what.(*tele.Video); ok {
			videos = append(videos, v)
		}
	}
	return videos
}

func (s *fakeSender) texts() []string {
	var texts []string
	for _, m := range s.messages() {
		if text, ok := m.what.(string); ok {
			texts = append(texts, text)
		}
	}
	return texts
}

type endRecorder struct {
	mu  sync.Mutex
	ids []uint64
}

func (r *endRecorder) ended(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
}

func (r *endRecorder) all() []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uint64(nil), r.ids...)
}

func newTestRenderer(t *testing.T, idleClip string) (*renderer, *fakeClock, *fakeSender, *endRecorder) {
	t.Helper()
	clock := newFakeClock()
	sender := &fakeSender{}
	ends := &endRecorder{}

	r := newRenderer(sender, &tele.Chat{ID: 7}, idleClip, clock, zap.NewNop())
	r.onEnded = ends.ended
	t.Cleanup(r.close)
	return r, clock, sender, ends
}

func testClip(playID uint64, id string, d time.Duration, rate float64) playback.Clip {
	sign := testutil.NewTestSign(id)
	return playback.Clip{
		PlayID: playID,
		Index:  0,
		Total:  2,
		Sign:   sign,
		Handle: playback.Handle{SignID: id, Source: "clips/" + sign.File, Duration: d},
		Rate:   rate,
	}
}

func TestRenderer_PlaySendsClipAndEnds(t *testing.T) {
	r, clock, sender, ends := newTestRenderer(t, "")

	r.Play(testClip(3, "medecin", 2*time.Second, 1))

	require.Eventually(t, func() bool { return len(sender.videos()) == 1 }, waitFor, waitTick)
	video := sender.videos()[0]
	assert.Equal(t, "1/2 · medecin", video.Caption)
	assert.Equal(t, "clips/medecin.mp4", video.File.FileLocal)
	assert.Equal(t, &tele.Chat{ID: 7}, sender.messages()[0].to)

	clock.Advance(1999 * time.Millisecond)
	assert.Empty(t, ends.all())

	clock.Advance(time.Millisecond)
	assert.Equal(t, []uint64{3}, ends.all())
}

func TestRenderer_GifIsSentAsAnimation(t *testing.T) {
	r, _, sender, _ := newTestRenderer(t, "")

	clip := testClip(1, "coeur", time.Second, 1)
	clip.Sign.Format = "gif"
	r.Play(clip)

	require.Eventually(t, func() bool { return len(sender.messages()) == 1 }, waitFor, waitTick)
	_, ok := sender.messages()[0].what.(*tele.Animation)
	assert.True(t, ok)
}

func TestRenderer_RateScalesDuration(t *testing.T) {
	r, clock, _, ends := newTestRenderer(t, "")

	r.Play(testClip(1, "medecin", 2*time.Second, 2))

	clock.Advance(999 * time.Millisecond)
	assert.Empty(t, ends.all())
	clock.Advance(time.Millisecond)
	assert.Equal(t, []uint64{1}, ends.all())
}

func TestRenderer_PauseResume(t *testing.T) {
	r, clock, _, ends := newTestRenderer(t, "")

	r.Play(testClip(1, "medecin", 2*time.Second, 1))
	clock.Advance(500 * time.Millisecond)

	r.Pause()
	clock.Advance(10 * time.Second)
	assert.Empty(t, ends.all())

	r.Resume()
	clock.Advance(1499 * time.Millisecond)
	assert.Empty(t, ends.all())
	clock.Advance(time.Millisecond)
	assert.Equal(t, []uint64{1}, ends.all())
}

func TestRenderer_SetRateRescalesRemaining(t *testing.T) {
	r, clock, _, ends := newTestRenderer(t, "")

	r.Play(testClip(1, "medecin", 2*time.Second, 1))
	clock.Advance(time.Second)

	r.SetRate(2)
	clock.Advance(499 * time.Millisecond)
	assert.Empty(t, ends.all())
	clock.Advance(time.Millisecond)
	assert.Equal(t, []uint64{1}, ends.all())
}

func TestRenderer_SetRateWhilePaused(t *testing.T) {
	r, clock, _, ends := newTestRenderer(t, "")

	r.Play(testClip(1, "medecin", 2*time.Second, 1))
	r.Pause()
	r.SetRate(0.5)
	r.Resume()

	clock.Advance(3999 * time.Millisecond)
	assert.Empty(t, ends.all())
	clock.Advance(time.Millisecond)
	assert.Equal(t, []uint64{1}, ends.all())
}

func TestRenderer_StopCancelsEnd(t *testing.T) {
	r, clock, _, ends := newTestRenderer(t, "")

	r.Play(testClip(1, "medecin", time.Second, 1))
	r.Stop()
	r.Resume()
	clock.Advance(10 * time.Second)

	assert.Empty(t, ends.all())
}

func TestRenderer_Idle(t *testing.T) {
	r, _, sender, _ := newTestRenderer(t, "clips/repos.gif")

	r.Idle()

	require.Eventually(t, func() bool { return len(sender.messages()) == 1 }, waitFor, waitTick)
	anim, ok := sender.messages()[0].what.(*tele.Animation)
	require.True(t, ok)
	assert.Equal(t, "clips/repos.gif", anim.File.FileLocal)

	quiet, _, quietSender, _ := newTestRenderer(t, "")
	quiet.Idle()
	quiet.notify("fin")
	require.Eventually(t, func() bool { return len(quietSender.messages()) == 1 }, waitFor, waitTick)
	assert.Equal(t, []string{"fin"}, quietSender.texts())
}
