package match

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed is returned when a payload does not look like a match result.
var ErrMalformed = errors.New("malformed match result")

// Result is the complete scoring output for one resume/job pairing.
type Result struct {
	Score    float64            `json:"score"`
	Label    string             `json:"label"`
	BestFit  []SkillItem        `json:"best_fit"`
	Gaps     []GapItem          `json:"gaps"`
	Clusters []ClusterAlignment `json:"clusters"`
	Terms    map[string]float64 `json:"terms"`
	Rewrites []string           `json:"rewrites"`
}

type SkillItem struct {
	Skill        string    `json:"skill"`
	Contribution float64   `json:"contribution"`
	Evidence     *Evidence `json:"evidence,omitempty"`
}

type Evidence struct {
	TenureYears        *float64 `json:"tenure_years,omitempty"`
	MonthsSinceLastUse *float64 `json:"months_since_last_use,omitempty"`
}

// GapItem is a job skill missing from the resume. Required gaps weigh more.
type GapItem struct {
	Skill    string `json:"skill"`
	Required bool   `json:"required"`
}

type ClusterAlignment struct {
	Cluster      string   `json:"cluster"`
	AlignPct     float64  `json:"align_pct"`
	BestExamples []string `json:"best_examples"`
	Gaps         []string `json:"gaps"`
}

// HasRewrites reports whether there is at least one suggested bullet rewrite.
func (r *Result) HasRewrites() bool {
	return r != nil && len(r.Rewrites) > 0
}

// Decode parses a match result and checks that the score is present and within [0,100].
func Decode(data []byte) (*Result, error) {
	var probe struct {
		Score *json.Number `json:"score"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if probe.Score == nil {
		return nil, fmt.Errorf("%w: score is missing", ErrMalformed)
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if result.Score < 0 || result.Score > 100 {
		return nil, fmt.Errorf("%w: score %v is out of range", ErrMalformed, result.Score)
	}

	return &result, nil
}
