package assistant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/callout-gg/callout/pkg/speech"
	"github.com/callout-gg/callout/pkg/stats"
	"github.com/callout-gg/callout/pkg/vision"
)

type spokenLine struct {
	text     string
	priority speech.Priority
}

type recordingSpeaker struct {
	lines []spokenLine
}

func (r *recordingSpeaker) Enqueue(text string, p speech.Priority) {
	r.lines = append(r.lines, spokenLine{text, p})
}

type fixedProvider struct {
	sm *stats.Smoothed
}

func (f *fixedProvider) Smoothed() *stats.Smoothed { return f.sm }

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

// fakeClock advances a stable wall clock by hand.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestDispatcher(sm *stats.Smoothed, opts ...Option) (*Dispatcher, *recordingSpeaker, *fakeClock) {
	speaker := &recordingSpeaker{}
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	opts = append(opts, withClock(clock.now))
	d := NewDispatcher(&fixedProvider{sm: sm}, speaker, opts...)
	return d, speaker, clock
}

func smoothedWith(state vision.State, avgHP *float64) *stats.Smoothed {
	return &stats.Smoothed{AvgHP: avgHP, Latest: state}
}

func TestHandleUtterance_Cooldown(t *testing.T) {
	sm := smoothedWith(vision.State{HPPercent: floatPtr(90)}, floatPtr(90))
	d, speaker, clock := newTestDispatcher(sm)

	d.HandleUtterance("callout health")
	d.HandleUtterance("callout health")
	assert.Len(t, speaker.lines, 1, "second utterance inside cooldown must be dropped")

	clock.advance(1100 * time.Millisecond)
	d.HandleUtterance("callout health")
	assert.Len(t, speaker.lines, 2)
}

func TestHandleUtterance_WakeWordAlone(t *testing.T) {
	d, speaker, _ := newTestDispatcher(nil)

	d.HandleUtterance("callout")
	require.Len(t, speaker.lines, 1)
	assert.Equal(t, speech.PriorityHigh, speaker.lines[0].priority)
	assert.Contains(t, speaker.lines[0].text, "Yes?")
}

func TestHandleUtterance_UnknownCommand(t *testing.T) {
	d, speaker, clock := newTestDispatcher(nil)

	d.HandleUtterance("callout do a barrel roll")
	require.Len(t, speaker.lines, 1)
	assert.Contains(t, speaker.lines[0].text, "didn't catch")
	assert.Equal(t, speech.PriorityNormal, speaker.lines[0].priority)

	// Stray speech without the wake word stays silent.
	clock.advance(2 * time.Second)
	d.HandleUtterance("random table chatter")
	assert.Len(t, speaker.lines, 1)
}

func TestHandleUtterance_KeywordWithoutWakeWord(t *testing.T) {
	sm := smoothedWith(vision.State{}, floatPtr(90))
	d, speaker, _ := newTestDispatcher(sm)

	d.HandleUtterance("what's my health")
	require.Len(t, speaker.lines, 1)
	assert.Contains(t, speaker.lines[0].text, "90 percent")
}

func TestRespondHealth_Tiers(t *testing.T) {
	tests := []struct {
		name         string
		hp           float64
		wantPriority speech.Priority
		wantContains string
	}{
		{"critical", 15, speech.PriorityEmergency, "Emergency! Your HP is 15 percent"},
		{"low", 45, speech.PriorityHigh, "Warning, your HP is 45 percent"},
		{"medium", 70, speech.PriorityNormal, "okay for now"},
		{"high", 95, speech.PriorityNormal, "good shape"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := smoothedWith(vision.State{}, floatPtr(tt.hp))
			d, speaker, _ := newTestDispatcher(sm)

			d.HandleUtterance("callout health")
			require.Len(t, speaker.lines, 1)
			assert.Equal(t, tt.wantPriority, speaker.lines[0].priority)
			assert.Contains(t, speaker.lines[0].text, tt.wantContains)
		})
	}
}

func TestRespondHealth_NoData(t *testing.T) {
	d, speaker, _ := newTestDispatcher(nil)

	d.HandleUtterance("callout health")
	require.Len(t, speaker.lines, 1)
	assert.Contains(t, speaker.lines[0].text, "Can't read your HP")
}

func TestRespondAmmo_Tiers(t *testing.T) {
	tests := []struct {
		name         string
		ammo         int
		wantPriority speech.Priority
		wantContains string
	}{
		{"low", 7, speech.PriorityHigh, "Only 7 bullets left! Reload soon!"},
		{"moderate", 25, speech.PriorityNormal, "25 bullets remaining"},
		{"stocked", 120, speech.PriorityNormal, "well stocked"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := smoothedWith(vision.State{AmmoCount: intPtr(tt.ammo)}, nil)
			d, speaker, _ := newTestDispatcher(sm)

			d.HandleUtterance("callout ammo")
			require.Len(t, speaker.lines, 1)
			assert.Equal(t, tt.wantPriority, speaker.lines[0].priority)
			assert.Contains(t, speaker.lines[0].text, tt.wantContains)
		})
	}
}

func TestRespondEnemies(t *testing.T) {
	t.Run("clear", func(t *testing.T) {
		sm := smoothedWith(vision.State{}, nil)
		d, speaker, _ := newTestDispatcher(sm)

		d.HandleUtterance("callout enemies")
		require.Len(t, speaker.lines, 1)
		assert.Contains(t, speaker.lines[0].text, "clear")
	})

	t.Run("single", func(t *testing.T) {
		sm := smoothedWith(vision.State{Enemies: []vision.Enemy{
			{Direction: vision.BearingTwelve, Distance: vision.DistanceClose},
		}}, nil)
		d, speaker, _ := newTestDispatcher(sm)

		d.HandleUtterance("callout enemies")
		require.Len(t, speaker.lines, 1)
		assert.Contains(t, speaker.lines[0].text, "One enemy at 12 o'clock")
		assert.Equal(t, speech.PriorityNormal, speaker.lines[0].priority)
	})

	t.Run("multiple capped at three directions", func(t *testing.T) {
		sm := smoothedWith(vision.State{Enemies: []vision.Enemy{
			{Direction: vision.BearingTwelve},
			{Direction: vision.BearingThree},
			{Direction: vision.BearingSix},
			{Direction: vision.BearingNine},
		}}, nil)
		d, speaker, _ := newTestDispatcher(sm)

		d.HandleUtterance("callout enemies")
		require.Len(t, speaker.lines, 1)
		assert.Equal(t, speech.PriorityHigh, speaker.lines[0].priority)
		assert.Contains(t, speaker.lines[0].text, "4 enemies detected")
		assert.NotContains(t, speaker.lines[0].text, "9 o'clock")
	})
}

func TestRespondZone(t *testing.T) {
	t.Run("inactive", func(t *testing.T) {
		sm := smoothedWith(vision.State{}, nil)
		d, speaker, _ := newTestDispatcher(sm)

		d.HandleUtterance("callout zone")
		require.Len(t, speaker.lines, 1)
		assert.Contains(t, speaker.lines[0].text, "No zone data")
	})

	t.Run("active with timer", func(t *testing.T) {
		sm := smoothedWith(vision.State{
			Zone:          vision.Zone{Active: true, Direction: vision.BearingThree},
			TimeRemaining: "1:30",
		}, nil)
		d, speaker, _ := newTestDispatcher(sm)

		d.HandleUtterance("callout zone")
		require.Len(t, speaker.lines, 1)
		assert.Equal(t, speech.PriorityHigh, speaker.lines[0].priority)
		assert.Contains(t, speaker.lines[0].text, "3 o'clock")
		assert.Contains(t, speaker.lines[0].text, "1:30 remaining")
	})
}

func TestRespondStatus(t *testing.T) {
	t.Run("assembled", func(t *testing.T) {
		sm := smoothedWith(vision.State{
			HPPercent: floatPtr(75),
			AmmoCount: intPtr(42),
			Kills:     intPtr(3),
			Enemies:   []vision.Enemy{{}},
		}, nil)
		d, speaker, _ := newTestDispatcher(sm)

		d.HandleUtterance("callout status")
		require.Len(t, speaker.lines, 1)
		line := speaker.lines[0].text
		assert.Contains(t, line, "HP 75 percent")
		assert.Contains(t, line, "42 bullets")
		assert.Contains(t, line, "3 kills")
		assert.Contains(t, line, "1 enemies spotted")
	})

	t.Run("nothing readable", func(t *testing.T) {
		sm := smoothedWith(vision.State{}, nil)
		d, speaker, _ := newTestDispatcher(sm)

		d.HandleUtterance("callout status")
		require.Len(t, speaker.lines, 1)
		assert.Contains(t, speaker.lines[0].text, "Scanning in progress")
	})
}

func TestCheckAutoAlerts(t *testing.T) {
	t.Run("critical hp fires emergency", func(t *testing.T) {
		sm := smoothedWith(vision.State{HPPercent: floatPtr(12)}, floatPtr(12))
		d, speaker, _ := newTestDispatcher(sm)

		d.CheckAutoAlerts()
		require.Len(t, speaker.lines, 1)
		assert.Equal(t, speech.PriorityEmergency, speaker.lines[0].priority)
	})

	t.Run("enemy swarm fires high", func(t *testing.T) {
		sm := smoothedWith(vision.State{Enemies: make([]vision.Enemy, 3)}, nil)
		d, speaker, _ := newTestDispatcher(sm)

		d.CheckAutoAlerts()
		require.Len(t, speaker.lines, 1)
		assert.Equal(t, speech.PriorityHigh, speaker.lines[0].priority)
		assert.Contains(t, speaker.lines[0].text, "3 enemies")
	})

	t.Run("cooldown suppresses repeats", func(t *testing.T) {
		sm := smoothedWith(vision.State{HPPercent: floatPtr(12)}, nil)
		d, speaker, clock := newTestDispatcher(sm)

		d.CheckAutoAlerts()
		d.CheckAutoAlerts()
		assert.Len(t, speaker.lines, 1)

		clock.advance(DefaultAlertCooldown + time.Second)
		d.CheckAutoAlerts()
		assert.Len(t, speaker.lines, 2)
	})

	t.Run("zero cooldown fires every sweep", func(t *testing.T) {
		sm := smoothedWith(vision.State{HPPercent: floatPtr(12)}, nil)
		d, speaker, _ := newTestDispatcher(sm, WithAlertCooldown(0))

		d.CheckAutoAlerts()
		d.CheckAutoAlerts()
		assert.Len(t, speaker.lines, 2)
	})

	t.Run("kinds cool down independently", func(t *testing.T) {
		sm := smoothedWith(vision.State{
			HPPercent: floatPtr(12),
			Enemies:   make([]vision.Enemy, 4),
		}, nil)
		d, speaker, _ := newTestDispatcher(sm)

		d.CheckAutoAlerts()
		assert.Len(t, speaker.lines, 2)
	})

	t.Run("no history no alerts", func(t *testing.T) {
		d, speaker, _ := newTestDispatcher(nil)
		d.CheckAutoAlerts()
		assert.Empty(t, speaker.lines)
	})
}
