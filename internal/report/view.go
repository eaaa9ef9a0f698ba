package report

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/spigell/doesmyresumematch/internal/match"
	"github.com/spigell/doesmyresumematch/internal/results"
)

// ErrResultAbsent means there is no local copy of the requested result.
var ErrResultAbsent = errors.New("no local result")

// ResultLoader reads locally stored results.
type ResultLoader interface {
	Load(resultID string) (*match.Result, error)
}

type Dial struct {
	Score   float64
	Display string
	Angle   float64
	Band    Band
	Label   string
}

type SkillLine struct {
	Skill        string
	Contribution string
	// Evidence is empty when tenure is unknown.
	Evidence string
}

type GapLine struct {
	Skill    string
	Required bool
}

type ClusterBar struct {
	Cluster      string
	Width        float64
	BestExamples []string
	Gaps         []string
}

// View is the interactive presentation of one result.
type View struct {
	ResultID string
	Dial     Dial
	Skills   []SkillLine
	Gaps     []GapLine
	Clusters []ClusterBar

	rewrites     []string
	showRewrites bool
}

// Open loads a result from local storage and builds its view.
func Open(loader ResultLoader, resultID string) (*View, error) {
	result, err := loader.Load(resultID)
	if err != nil {
		if errors.Is(err, results.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrResultAbsent, resultID)
		}
		return nil, err
	}

	return NewView(resultID, result)
}

// NewView builds the view. The result is read, never modified.
func NewView(resultID string, r *match.Result) (*View, error) {
	if r == nil {
		return nil, fmt.Errorf("result is required")
	}

	v := &View{
		ResultID: resultID,
		Dial: Dial{
			Score:   r.Score,
			Display: FormatScore(r.Score),
			Angle:   FillAngle(r.Score),
			Band:    BandFor(r.Score),
			Label:   r.Label,
		},
		Skills:   make([]SkillLine, 0, len(r.BestFit)),
		Gaps:     make([]GapLine, 0, len(r.Gaps)),
		Clusters: make([]ClusterBar, 0, len(r.Clusters)),
		rewrites: slices.Clone(r.Rewrites),
	}

	for _, s := range r.BestFit {
		v.Skills = append(v.Skills, SkillLine{
			Skill:        s.Skill,
			Contribution: strconv.FormatFloat(s.Contribution, 'f', 2, 64),
			Evidence:     evidenceText(s.Evidence),
		})
	}
	for _, g := range r.Gaps {
		v.Gaps = append(v.Gaps, GapLine{Skill: g.Skill, Required: g.Required})
	}
	for _, c := range r.Clusters {
		v.Clusters = append(v.Clusters, ClusterBar{
			Cluster:      c.Cluster,
			Width:        BarWidth(c.AlignPct),
			BestExamples: slices.Clone(c.BestExamples),
			Gaps:         slices.Clone(c.Gaps),
		})
	}

	return v, nil
}

func evidenceText(e *match.Evidence) string {
	if e == nil || e.TenureYears == nil {
		return ""
	}
	text := fmt.Sprintf("Tenure: %.1f yrs", *e.TenureYears)
	if e.MonthsSinceLastUse != nil {
		text += fmt.Sprintf(", last used %s mo ago", strconv.FormatFloat(math.Round(*e.MonthsSinceLastUse), 'f', 0, 64))
	}
	return text
}

// HasRewrites reports whether the rewrite section is shown at all.
func (v *View) HasRewrites() bool {
	return len(v.rewrites) > 0
}

// RewritesVisible reports whether the rewrite list is expanded.
func (v *View) RewritesVisible() bool {
	return v.HasRewrites() && v.showRewrites
}

// ToggleRewrites expands or collapses the rewrite list and returns the new visibility.
func (v *View) ToggleRewrites() bool {
	if !v.HasRewrites() {
		return false
	}
	v.showRewrites = !v.showRewrites
	return v.showRewrites
}

// Rewrites returns the suggestions while expanded, nil otherwise.
func (v *View) Rewrites() []string {
	if !v.RewritesVisible() {
		return nil
	}
	return slices.Clone(v.rewrites)
}
