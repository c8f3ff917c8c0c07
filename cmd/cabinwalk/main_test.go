package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-cabinwalk/pkg/cabin"
	"github.com/teslashibe/go-cabinwalk/pkg/easing"
	"github.com/teslashibe/go-cabinwalk/pkg/settings"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestDescribePlanListsLegs(t *testing.T) {
	var out bytes.Buffer
	err := describePlan(&out, settings.NewStatic(settings.Defaults()), cabin.Passenger, cabin.SofaLie, 2)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "passenger > standing > sofa_sit1 > sofa_lie")
	assert.Contains(t, text, "  1. ")
	assert.Contains(t, text, "  2. ")
	assert.Contains(t, text, "  3. ")
	assert.NotContains(t, text, "  4. ")
	assert.Equal(t, 6, strings.Count(text, "%  "), "two samples per leg")
}

func TestDescribePlanSamePosition(t *testing.T) {
	var out bytes.Buffer
	err := describePlan(&out, settings.NewStatic(settings.Defaults()), cabin.Standing, cabin.Standing, 0)
	require.NoError(t, err)
	assert.Equal(t, "standing -> standing: nothing to do\n", out.String())
}

func TestPlotCurveLinear(t *testing.T) {
	var out bytes.Buffer
	plotCurve(&out, easing.Linear, 2)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "0.00  0.000 |", lines[0])
	assert.Equal(t, "0.50  0.500 |"+strings.Repeat("#", 20), lines[1])
	assert.Equal(t, "1.00  1.000 |"+strings.Repeat("#", 40), lines[2])
}

func TestCurvesCommand(t *testing.T) {
	out, err := run(t, "curves")
	require.NoError(t, err)
	assert.Contains(t, out, "easeInOutCubic\n")
	assert.Contains(t, out, "linear\n")

	_, err = run(t, "curves", "bounce")
	assert.ErrorIs(t, err, easing.ErrUnknown)
}

func TestPlanCommandRejectsUnknownPosition(t *testing.T) {
	_, err := run(t, "plan", "driver", "roof", "--config", "")
	assert.ErrorIs(t, err, cabin.ErrUnknownPosition)
}

func TestSettingsDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cabinwalk.yaml")

	out, err := run(t, "settings", "dump", "--config", path, "--write")
	require.NoError(t, err)
	assert.Contains(t, out, "general:")
	assert.Contains(t, out, "positions:")

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(written), "sofa_sit1")
}

func TestParseScalar(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"false", false},
		{"0.25", 0.25},
		{"3", 3},
		{"450ms", "450ms"},
		{"", ""},
	}
	for _, tt := range tests {
		got, err := parseScalar(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
