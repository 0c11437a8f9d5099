package breathing

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePattern(t *testing.T) {
	tests := []struct {
		name string
		want Pattern
	}{
		{"4-4", Even},
		{"4-7-8", Relax},
		{"4-4-4-4", Box},
		{"", Even},
		{"5-2-6", Pattern{Name: "5-2-6", Inhale: 5 * time.Second, Hold: 2 * time.Second, Exhale: 6 * time.Second}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePattern(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePattern_Invalid(t *testing.T) {
	for _, name := range []string{"4", "a-b", "4--4", "1-2-3-4-5", "0-0", "-1-4"} {
		_, err := ParsePattern(name)
		assert.True(t, errors.Is(err, ErrUnknownPattern), "pattern %q: %v", name, err)
	}
}

func TestSession_PhaseOrder(t *testing.T) {
	tests := []struct {
		pattern Pattern
		want    []Phase
	}{
		{Even, []Phase{Exhale, Inhale, Exhale, Inhale}},
		{Relax, []Phase{Hold, Exhale, Inhale, Hold, Exhale, Inhale}},
		{Box, []Phase{Hold, Exhale, PostHold, Inhale, Hold, Exhale, PostHold, Inhale}},
	}
	for _, tt := range tests {
		t.Run(tt.pattern.Name, func(t *testing.T) {
			s := NewSession(tt.pattern)
			require.Equal(t, Inhale, s.Start())

			var got []Phase
			for s.Cycles() < 2 {
				got = append(got, s.Advance(time.Second)...)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("phases (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSession_AdvanceCrossesSeveralBoundaries(t *testing.T) {
	s := NewSession(Box)
	s.Start()

	got := s.Advance(17 * time.Second)
	assert.Equal(t, []Phase{Hold, Exhale, PostHold, Inhale}, got)
	assert.Equal(t, 1, s.Cycles())
	assert.Equal(t, Inhale, s.Phase())
	assert.Equal(t, 3*time.Second, s.Remaining())
	assert.InDelta(t, 0.25, s.Progress(), 1e-9)
}

func TestSession_StopIsIdempotent(t *testing.T) {
	s := NewSession(Even)
	s.Start()
	s.Advance(9 * time.Second)

	res, ok := s.Stop()
	require.True(t, ok)
	assert.Equal(t, Result{Pattern: "4-4", Cycles: 1, Elapsed: 9 * time.Second}, res)
	assert.False(t, s.Active())
	assert.Equal(t, Idle, s.Phase())

	_, ok = s.Stop()
	assert.False(t, ok, "second Stop must be a no-op")
	assert.Nil(t, s.Advance(time.Minute))
	assert.Equal(t, Idle, s.Start(), "a stopped session does not restart")
}

func TestSession_StopBeforeFullCycle(t *testing.T) {
	s := NewSession(Relax)
	s.Start()
	s.Advance(10 * time.Second)

	res, _ := s.Stop()
	assert.Equal(t, 0, res.Cycles)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "Ready", Idle.String())
	assert.Equal(t, "Wait", PostHold.String())
}
