package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/doesmyresumematch/internal/match"
)

func render(t *testing.T, v *View) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Terminal{}.Render(&buf, v))
	return buf.String()
}

func TestTerminalRender(t *testing.T) {
	v, err := NewView("r1", sampleResult())
	require.NoError(t, err)

	out := render(t, v)

	assert.Contains(t, out, "Result r1")
	assert.Contains(t, out, "Score 76/100")
	assert.Contains(t, out, "Good (second band)")
	assert.Contains(t, out, "(Tenure: 3.2 yrs, last used 2 mo ago)")
	assert.Contains(t, out, "* rust")
	assert.NotContains(t, out, "* terraform")
	assert.Contains(t, out, "[....................] 0%")
	assert.Contains(t, out, "[####################] 100%")
	assert.Contains(t, out, "Improved bullets (hidden, 2 available)")
	assert.NotContains(t, out, "Led migration")
	assert.Contains(t, out, "How we score")

	v.ToggleRewrites()
	out = render(t, v)
	assert.Contains(t, out, "  - Led migration of billing to Go")
	assert.NotContains(t, out, "hidden")
}

func TestTerminalRenderWithoutRewrites(t *testing.T) {
	result := sampleResult()
	result.Rewrites = nil
	v, err := NewView("r1", result)
	require.NoError(t, err)

	assert.NotContains(t, render(t, v), "Improved bullets")
}

func TestTerminalRenderColor(t *testing.T) {
	v, err := NewView("r1", &match.Result{Score: 92, Label: "Great"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Terminal{Color: true}.Render(&buf, v))
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "92/100")
}

func TestTerminalRenderTopBand(t *testing.T) {
	v, err := NewView("r1", &match.Result{Score: 92, Label: "Great", BestFit: []match.SkillItem{}, Gaps: []match.GapItem{}, Clusters: []match.ClusterAlignment{}, Terms: map[string]float64{}})
	require.NoError(t, err)

	out := render(t, v)
	assert.Equal(t, TopBand, v.Dial.Band)
	assert.Contains(t, out, "Great (top band)")
	assert.True(t, strings.HasPrefix(out, "Result r1\n"))
}
