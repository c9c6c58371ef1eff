package playback

import (
	"context"
	"time"

	"lstbot/internal/domain"
)

// State is the playback engine state
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePlaying
	StateTransitioning
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StateTransitioning:
		return "transitioning"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// EventKind identifies an engine notification
type EventKind int

const (
	EventStateChanged EventKind = iota
	EventClipStarted
	EventClipFailed
	EventSequenceCompleted
)

func (k EventKind) String() string {
	switch k {
	case EventStateChanged:
		return "state_changed"
	case EventClipStarted:
		return "clip_started"
	case EventClipFailed:
		return "clip_failed"
	case EventSequenceCompleted:
		return "sequence_completed"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers in the order it was produced
type Event struct {
	Kind       EventKind
	State      State // new state for EventStateChanged
	Previous   State // old state for EventStateChanged
	Index      int   // queue index for clip events
	Sign       domain.SignEntry
	Err        error
	Generation uint64
}

// Handle is a loaded clip ready for the renderer
type Handle struct {
	SignID   string
	Source   string
	Duration time.Duration
}

// Loader fetches the asset of a sign
type Loader interface {
	Load(ctx context.Context, sign domain.SignEntry) (Handle, error)
}

// Clip is what the renderer is asked to show. The renderer reports the end
// of a clip with Engine.ClipEnded(PlayID).
type Clip struct {
	PlayID uint64
	Index  int
	Total  int
	Sign   domain.SignEntry
	Handle Handle
	Rate   float64
}

// Renderer displays clips. Methods are called from the engine goroutine and
// must not call back into the engine synchronously.
type Renderer interface {
	Play(clip Clip)
	Pause()
	Resume()
	SetRate(rate float64)
	Stop()
	Idle()
}

// Snapshot is a point-in-time view of the engine
type Snapshot struct {
	State        State
	CurrentIndex int // -1 when idle
	QueueLen     int
	Failed       []int
	Rate         float64
	HasLast      bool
	Generation   uint64
}

// Timer is a cancellable pending callback
type Timer interface {
	Stop() bool
}

// Clock provides time to the engine
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemClock returns the wall clock
func SystemClock() Clock { return systemClock{} }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
