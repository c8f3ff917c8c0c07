package cabin

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in   string
		want Position
	}{
		{"driver", Driver},
		{"Passenger", Passenger},
		{"passenger_seat", Passenger},
		{"standing", Standing},
		{"SofaSit1", SofaSit1},
		{"sofa-lie", SofaLie},
		{" sofa_sit2 ", SofaSit2},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePosition(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParsePosition("roof")
	assert.ErrorIs(t, err, ErrUnknownPosition)
}

func TestPositionJSON(t *testing.T) {
	type wrapper struct {
		Pos Position `json:"pos"`
	}
	data, err := json.Marshal(wrapper{Pos: SofaLie})
	require.NoError(t, err)
	assert.JSONEq(t, `{"pos":"sofa_lie"}`, string(data))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"pos":"standing"}`), &w))
	assert.Equal(t, Standing, w.Pos)

	assert.Error(t, json.Unmarshal([]byte(`{"pos":"attic"}`), &w))
}

func TestPositionPredicates(t *testing.T) {
	assert.True(t, Driver.IsSeat())
	assert.True(t, Passenger.IsSeat())
	assert.False(t, Standing.IsSeat())
	assert.True(t, SofaLie.IsSofa())
	assert.False(t, Bed.IsSofa())
	assert.True(t, Standing.FreeLook())
	assert.True(t, SofaSit2.FreeLook())
	assert.False(t, Passenger.FreeLook())
	assert.False(t, None.Valid())
	assert.False(t, Bed.Valid())
	assert.Equal(t, "", Driver.SettingsKey())
	assert.Equal(t, "passenger_seat", Passenger.SettingsKey())
	assert.Equal(t, "position(42)", Position(42).String())
}

func TestClassifyGaze(t *testing.T) {
	deg := func(d float64) float64 { return d * math.Pi / 180 }
	tests := []struct {
		yaw  float64
		want Gaze
	}{
		{0, Forward},
		{deg(44.9), Forward},
		{deg(-44.9), Forward},
		{deg(45.1), Left},
		{deg(134.9), Left},
		{deg(135.1), Backward},
		{deg(-45.1), Right},
		{deg(-134.9), Right},
		{deg(-135.1), Backward},
		{deg(180), Backward},
		{deg(360), Forward},
		{deg(-270), Left},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyGaze(tt.yaw), "yaw=%.1f°", tt.yaw*180/math.Pi)
	}
}

func TestNextSofa(t *testing.T) {
	all := func(Position) bool { return true }

	next, ok := NextSofa(Standing, all)
	require.True(t, ok)
	assert.Equal(t, SofaSit1, next)

	next, _ = NextSofa(SofaSit1, all)
	assert.Equal(t, SofaLie, next)
	next, _ = NextSofa(SofaLie, all)
	assert.Equal(t, SofaSit2, next)
	next, _ = NextSofa(SofaSit2, all)
	assert.Equal(t, SofaSit1, next)

	noLie := func(p Position) bool { return p != SofaLie }
	next, _ = NextSofa(SofaSit1, noLie)
	assert.Equal(t, SofaSit2, next)

	onlySit1 := func(p Position) bool { return p == SofaSit1 }
	_, ok = NextSofa(SofaSit1, onlySit1)
	assert.False(t, ok, "single enabled spot stays put")

	_, ok = NextSofa(Driver, func(Position) bool { return false })
	assert.False(t, ok)
}
