package handler

import (
	"fmt"
	"testing"

	"lstbot/internal/domain"
	"lstbot/internal/playback"
	"lstbot/internal/service"
	"lstbot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCleanCallbackData(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "normal string",
			input:    "fr",
			expected: "fr",
		},
		{
			name:     "string with whitespace",
			input:    "  lang|fr  ",
			expected: "lang|fr",
		},
		{
			name:     "string with newline",
			input:    "pa\nuse",
			expected: "pause",
		},
		{
			name:     "string with tab",
			input:    "ne\txt",
			expected: "next",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "only whitespace",
			input:    "   ",
			expected: "",
		},
		{
			name:     "string with unprintable characters",
			input:    "\x0cstop\x01",
			expected: "stop",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cleanCallbackData(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

type fakeEngine struct {
	ok    bool
	rate  float64
	calls []string
}

func (e *fakeEngine) record(name string) bool {
	e.calls = append(e.calls, name)
	return e.ok
}

func (e *fakeEngine) Next() bool     { return e.record("next") }
func (e *fakeEngine) Previous() bool { return e.record("previous") }
func (e *fakeEngine) Pause() bool    { return e.record("pause") }
func (e *fakeEngine) Resume() bool   { return e.record("resume") }
func (e *fakeEngine) Replay() bool   { return e.record("replay") }
func (e *fakeEngine) Stop() bool     { return e.record("stop") }

func (e *fakeEngine) SetRate(rate float64) bool {
	e.rate = rate
	return e.record("rate")
}

func (e *fakeEngine) Snapshot() playback.Snapshot {
	return playback.Snapshot{Rate: e.rate}
}

func newControlHandler(repo *testutil.MockUserRepository) *Handler {
	return &Handler{
		users:  service.NewUserService(repo, domain.LangFrench),
		logger: zap.NewNop(),
	}
}

func TestApply_Navigation(t *testing.T) {
	h := newControlHandler(new(testutil.MockUserRepository))

	tests := []struct {
		action string
		ok     bool
		call   string
		reply  string
	}{
		{action: "prev", ok: true, call: "previous", reply: ""},
		{action: "next", ok: false, call: "next", reply: msgNothingPlaying},
		{action: "pause", ok: true, call: "pause", reply: ""},
		{action: "resume", ok: false, call: "resume", reply: msgNothingPlaying},
		{action: "stop", ok: true, call: "stop", reply: ""},
		{action: "replay", ok: true, call: "replay", reply: ""},
		{action: "replay", ok: false, call: "replay", reply: msgNothingReplay},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%v", tt.action, tt.ok), func(t *testing.T) {
			engine := &fakeEngine{ok: tt.ok, rate: 1}

			reply, err := h.apply(12345, engine, tt.action)

			require.NoError(t, err)
			assert.Equal(t, tt.reply, reply)
			assert.Equal(t, []string{tt.call}, engine.calls)
		})
	}
}

func TestApply_Rate(t *testing.T) {
	tests := []struct {
		action   string
		current  float64
		expected float64
	}{
		{action: "faster", current: 1, expected: 1.25},
		{action: "slower", current: 1, expected: 0.75},
		{action: "slower", current: 0.25, expected: 0.25},
		{action: "faster", current: 2, expected: 2},
		{action: "normal", current: 0.5, expected: 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_from_%v", tt.action, tt.current), func(t *testing.T) {
			repo := new(testutil.MockUserRepository)
			repo.On("SetRate", int64(12345), tt.expected).Return(nil)
			h := newControlHandler(repo)
			engine := &fakeEngine{ok: true, rate: tt.current}

			reply, err := h.apply(12345, engine, tt.action)

			require.NoError(t, err)
			assert.Equal(t, fmt.Sprintf(msgSpeedSet, formatRate(tt.expected)), reply)
			assert.Equal(t, tt.expected, engine.rate)
			repo.AssertExpectations(t)
		})
	}
}

func TestApply_RateStorageError(t *testing.T) {
	repo := new(testutil.MockUserRepository)
	repo.On("SetRate", int64(12345), 1.25).Return(assert.AnError)
	h := newControlHandler(repo)
	engine := &fakeEngine{ok: true, rate: 1}

	_, err := h.apply(12345, engine, "faster")

	assert.Error(t, err)
	assert.Empty(t, engine.calls)
}

func TestApply_UnknownAction(t *testing.T) {
	h := newControlHandler(new(testutil.MockUserRepository))

	_, err := h.apply(12345, &fakeEngine{}, "rewind")
	assert.Error(t, err)
}

func TestIsControl(t *testing.T) {
	for _, btn := range controlButtons {
		assert.True(t, isControl(btn.Unique), btn.Unique)
	}
	assert.False(t, isControl("lang"))
	assert.False(t, isControl(""))
}
