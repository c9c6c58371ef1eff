package playback

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"lstbot/internal/domain"

	"go.uber.org/zap"
)

// DefaultLoadTimeout bounds a single asset load
const DefaultLoadTimeout = 10 * time.Second

// Option configures an Engine
type Option func(*Engine)

// WithClock replaces the system clock
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithLoadTimeout bounds each asset load
func WithLoadTimeout(d time.Duration) Option {
	return func(e *Engine) { e.loadTimeout = d }
}

type command struct {
	fn    func() bool
	reply chan bool
}

type loadResult struct {
	gen      uint64
	index    int
	onDemand bool
	handle   Handle
	err      error
}

// Engine plays a queue of sign clips. All state is owned by a single loop
// goroutine; public methods post commands to it and wait for the answer.
// Asset loads and timers report back tagged with the queue generation and
// are discarded once the generation has moved on.
type Engine struct {
	loader      Loader
	renderer    Renderer
	clock       Clock
	logger      *zap.Logger
	loadTimeout time.Duration

	cmds      chan command
	quit      chan struct{}
	loopDone  chan struct{}
	started   atomic.Bool
	closed    atomic.Bool
	closeOnce sync.Once

	events *eventQueue
	subMu  sync.Mutex
	subs   map[int]func(Event)
	nextID int

	// owned by the loop goroutine
	queue     []domain.SignEntry
	last      []domain.SignEntry
	index     int
	state     State
	resumeTo  State
	pausedEnd bool
	gen       uint64
	playID    uint64
	handles   map[int]Handle
	pending   map[int]bool
	failed    []int
	completed bool
	rate      float64
	ctx       context.Context
	cancel    context.CancelFunc

	timer     Timer
	timerSeq  uint64
	deadline  time.Time
	remaining time.Duration
}

// New creates an engine. Start must be called before any other method.
func New(loader Loader, renderer Renderer, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		loader:      loader,
		renderer:    renderer,
		clock:       systemClock{},
		logger:      logger,
		loadTimeout: DefaultLoadTimeout,
		cmds:        make(chan command),
		quit:        make(chan struct{}),
		loopDone:    make(chan struct{}),
		events:      newEventQueue(),
		subs:        make(map[int]func(Event)),
		index:       -1,
		state:       StateIdle,
		rate:        domain.DefaultRate,
		handles:     make(map[int]Handle),
		pending:     make(map[int]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.ctx, e.cancel = context.WithCancel(context.Background())
	return e
}

// Start launches the engine and event dispatcher goroutines
func (e *Engine) Start() {
	if e.closed.Load() {
		panic("playback: start on closed engine")
	}
	if !e.started.CompareAndSwap(false, true) {
		return
	}
	go e.loop()
	go e.dispatch()
}

// Close stops the engine. Pending loads are cancelled and the renderer is
// stopped. It is safe to call Close more than once.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		e.closed.Store(true)
		close(e.quit)
		if e.started.Load() {
			<-e.loopDone
		}
	})
}

// Subscribe registers fn for every future event. Events are delivered in
// order on a dedicated goroutine, so fn may call back into the engine.
func (e *Engine) Subscribe(fn func(Event)) (unsubscribe func()) {
	e.subMu.Lock()
	defer e.subMu.Unlock()

	id := e.nextID
	e.nextID++
	e.subs[id] = fn

	return func() {
		e.subMu.Lock()
		defer e.subMu.Unlock()
		delete(e.subs, id)
	}
}

// LoadSequence replaces the queue and starts playing from the first clip.
// An empty sequence is ignored.
func (e *Engine) LoadSequence(signs []domain.SignEntry) bool {
	queue := make([]domain.SignEntry, len(signs))
	copy(queue, signs)
	return e.do(func() bool { return e.loadSequence(queue) })
}

// Next jumps to the following clip. It returns false on the last clip.
func (e *Engine) Next() bool {
	return e.do(func() bool {
		if !e.active() || e.index+1 >= len(e.queue) {
			return false
		}
		e.startClip(e.index + 1)
		return true
	})
}

// Previous jumps to the preceding clip. It returns false on the first clip.
func (e *Engine) Previous() bool {
	return e.do(func() bool {
		if !e.active() || e.index <= 0 {
			return false
		}
		e.startClip(e.index - 1)
		return true
	})
}

// JumpTo plays the clip at index i of the active queue
func (e *Engine) JumpTo(i int) bool {
	return e.do(func() bool {
		if !e.active() || i < 0 || i >= len(e.queue) {
			return false
		}
		e.startClip(i)
		return true
	})
}

// Pause suspends a playing clip or a pending transition
func (e *Engine) Pause() bool {
	return e.do(func() bool {
		switch e.state {
		case StatePlaying:
			e.renderer.Pause()
		case StateTransitioning:
			e.remaining = max(e.deadline.Sub(e.clock.Now()), 0)
			e.stopTimer()
		default:
			return false
		}
		e.resumeTo = e.state
		e.setState(StatePaused)
		return true
	})
}

// Resume continues after Pause. A paused transition keeps its remaining time
// and a clip that ended while paused moves on to the next one.
func (e *Engine) Resume() bool {
	return e.do(func() bool {
		if e.state != StatePaused {
			return false
		}
		switch {
		case e.resumeTo == StateTransitioning:
			e.setState(StateTransitioning)
			e.startTimer(e.remaining, e.index)
		case e.pausedEnd:
			e.pausedEnd = false
			e.clipFinished()
		default:
			e.renderer.Resume()
			e.setState(StatePlaying)
		}
		return true
	})
}

// Stop abandons the active queue and shows the idle clip. The queue stays
// available to Replay.
func (e *Engine) Stop() bool {
	return e.do(func() bool {
		if !e.active() {
			return false
		}
		e.last = e.queue
		e.newGeneration()
		e.renderer.Stop()
		e.renderer.Idle()
		e.setState(StateIdle)
		return true
	})
}

// Replay restarts the current clip, or the last finished sequence from its
// first clip when nothing is playing.
func (e *Engine) Replay() bool {
	return e.do(func() bool {
		if e.active() {
			e.startClip(e.index)
			return true
		}
		if len(e.last) == 0 {
			return false
		}
		return e.loadSequence(e.last)
	})
}

// SetRate changes the playback speed multiplier
func (e *Engine) SetRate(rate float64) bool {
	e.mustRun()
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return false
	}
	return e.do(func() bool {
		e.rate = rate
		e.renderer.SetRate(rate)
		return true
	})
}

// ResetRate restores normal speed
func (e *Engine) ResetRate() bool {
	return e.SetRate(domain.DefaultRate)
}

// Snapshot returns the current state
func (e *Engine) Snapshot() Snapshot {
	var snap Snapshot
	e.do(func() bool {
		snap = Snapshot{
			State:        e.state,
			CurrentIndex: e.index,
			QueueLen:     len(e.queue),
			Failed:       append([]int(nil), e.failed...),
			Rate:         e.rate,
			HasLast:      len(e.last) > 0,
			Generation:   e.gen,
		}
		return true
	})
	return snap
}

// ClipEnded is called by the renderer when the clip started with playID
// finished on its own. Unknown or stale ids are ignored, as are calls made
// after Close. An end reported while paused is applied on Resume.
func (e *Engine) ClipEnded(playID uint64) {
	if !e.started.Load() {
		panic("playback: engine not started")
	}
	e.post(func() {
		if playID != e.playID {
			return
		}
		switch e.state {
		case StatePlaying:
			e.clipFinished()
		case StatePaused:
			e.pausedEnd = e.resumeTo == StatePlaying
		}
	})
}

func (e *Engine) mustRun() {
	if !e.started.Load() {
		panic("playback: engine not started")
	}
	if e.closed.Load() {
		panic("playback: engine closed")
	}
}

// do runs fn on the loop goroutine and returns its answer
func (e *Engine) do(fn func() bool) bool {
	e.mustRun()
	reply := make(chan bool, 1)
	select {
	case e.cmds <- command{fn: fn, reply: reply}:
	case <-e.quit:
		panic("playback: engine closed")
	}
	return <-reply
}

// post queues fn on the loop goroutine without waiting. Posts after Close
// are dropped.
func (e *Engine) post(fn func()) {
	cmd := command{fn: func() bool { fn(); return true }}
	select {
	case e.cmds <- cmd:
	case <-e.quit:
	}
}

func (e *Engine) loop() {
	defer close(e.loopDone)
	for {
		select {
		case cmd := <-e.cmds:
			ok := cmd.fn()
			if cmd.reply != nil {
				cmd.reply <- ok
			}
		case <-e.quit:
			e.stopTimer()
			e.cancel()
			if e.active() {
				e.renderer.Stop()
			}
			return
		}
	}
}

func (e *Engine) active() bool {
	return e.state != StateIdle && len(e.queue) > 0
}

func (e *Engine) loadSequence(queue []domain.SignEntry) bool {
	if len(queue) == 0 {
		return false
	}
	if e.active() {
		e.renderer.Stop()
	}
	e.newGeneration()
	e.queue = queue
	e.renderer.SetRate(e.rate)
	e.startClip(0)
	return true
}

// newGeneration invalidates every pending load and timer
func (e *Engine) newGeneration() {
	e.stopTimer()
	e.cancel()
	e.ctx, e.cancel = context.WithCancel(context.Background())

	e.gen++
	e.queue = nil
	e.index = -1
	e.handles = make(map[int]Handle)
	e.pending = make(map[int]bool)
	e.failed = nil
	e.completed = false
	e.pausedEnd = false
}

// startClip makes i the current clip and plays it as soon as it is loaded
func (e *Engine) startClip(i int) {
	e.stopTimer()
	e.index = i
	e.pausedEnd = false

	if _, ok := e.handles[i]; ok {
		e.play(i)
		return
	}

	e.setState(StateLoading)
	if !e.pending[i] {
		e.load(i, true)
	}
}

func (e *Engine) play(i int) {
	e.playID++
	e.pausedEnd = false
	clip := Clip{
		PlayID: e.playID,
		Index:  i,
		Total:  len(e.queue),
		Sign:   e.queue[i],
		Handle: e.handles[i],
		Rate:   e.rate,
	}

	e.setState(StatePlaying)
	e.renderer.Play(clip)
	e.emit(Event{Kind: EventClipStarted, Index: i, Sign: clip.Sign})

	if next := i + 1; next < len(e.queue) {
		if _, ok := e.handles[next]; !ok && !e.pending[next] {
			e.load(next, false)
		}
	}
}

func (e *Engine) load(i int, onDemand bool) {
	e.pending[i] = true

	gen := e.gen
	sign := e.queue[i]
	ctx := e.ctx

	go func() {
		if e.loadTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, e.loadTimeout)
			defer cancel()
		}

		h, err := e.loader.Load(ctx, sign)
		res := loadResult{gen: gen, index: i, onDemand: onDemand, handle: h, err: err}
		e.post(func() { e.loaded(res) })
	}()
}

func (e *Engine) loaded(res loadResult) {
	if res.gen != e.gen || res.index >= len(e.queue) {
		return
	}
	delete(e.pending, res.index)

	waiting := res.index == e.index && e.state == StateLoading

	if res.err != nil {
		if !res.onDemand {
			e.logger.Warn("Preload failed",
				zap.String("sign", e.queue[res.index].ID),
				zap.Int("index", res.index),
				zap.Error(res.err))
			if waiting {
				e.load(res.index, true)
			}
			return
		}
		if waiting {
			e.fail(res.index, res.err)
		}
		return
	}

	e.handles[res.index] = res.handle
	if waiting {
		e.play(res.index)
	}
}

// fail records a clip that could not be loaded and moves past it
func (e *Engine) fail(i int, err error) {
	sign := e.queue[i]
	e.logger.Error("Clip skipped",
		zap.String("sign", sign.ID),
		zap.Int("index", i),
		zap.Error(err))

	e.failed = append(e.failed, i)
	e.emit(Event{Kind: EventClipFailed, Index: i, Sign: sign, Err: err})

	if i+1 < len(e.queue) {
		e.startClip(i + 1)
		return
	}
	e.complete()
}

func (e *Engine) clipFinished() {
	from := e.index
	to := from + 1
	if to >= len(e.queue) {
		e.complete()
		return
	}

	window := domain.TransitionWindow(e.queue[from], e.queue[to])

	e.index = to
	if window <= 0 {
		e.startClip(to)
		return
	}

	e.setState(StateTransitioning)
	e.startTimer(window, to)
	if _, ok := e.handles[to]; !ok && !e.pending[to] {
		e.load(to, false)
	}
}

func (e *Engine) complete() {
	e.stopTimer()
	e.cancel()
	e.ctx, e.cancel = context.WithCancel(context.Background())
	e.pending = make(map[int]bool)

	e.last = e.queue
	e.queue = nil
	e.index = -1
	e.renderer.Idle()
	e.setState(StateIdle)

	if !e.completed {
		e.completed = true
		e.emit(Event{Kind: EventSequenceCompleted})
	}
}

func (e *Engine) startTimer(d time.Duration, to int) {
	e.stopTimer()
	e.timerSeq++

	gen, seq := e.gen, e.timerSeq
	e.deadline = e.clock.Now().Add(d)
	e.timer = e.clock.AfterFunc(d, func() {
		e.post(func() {
			if gen != e.gen || seq != e.timerSeq || e.state != StateTransitioning {
				return
			}
			e.timer = nil
			e.startClip(to)
		})
	})
}

func (e *Engine) stopTimer() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.timerSeq++
}

func (e *Engine) setState(s State) {
	if s == e.state {
		return
	}
	prev := e.state
	e.state = s
	e.emit(Event{Kind: EventStateChanged, State: s, Previous: prev})
}

func (e *Engine) emit(ev Event) {
	ev.Generation = e.gen
	e.events.push(ev)
}

func (e *Engine) dispatch() {
	for {
		select {
		case <-e.events.signal:
			for _, ev := range e.events.drain() {
				e.deliver(ev)
			}
		case <-e.quit:
			return
		}
	}
}

func (e *Engine) deliver(ev Event) {
	e.subMu.Lock()
	subs := make([]func(Event), 0, len(e.subs))
	for id := 0; id < e.nextID; id++ {
		if fn, ok := e.subs[id]; ok {
			subs = append(subs, fn)
		}
	}
	e.subMu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}

type eventQueue struct {
	mu     sync.Mutex
	items  []Event
	signal chan struct{}
}

func newEventQueue() *eventQueue {
	return &eventQueue{signal: make(chan struct{}, 1)}
}

func (q *eventQueue) push(ev Event) {
	q.mu.Lock()
	q.items = append(q.items, ev)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

func (q *eventQueue) drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}
