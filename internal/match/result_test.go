package match

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRequiresScore(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{name: "minimal", payload: `{"score":92,"label":"Great"}`},
		{name: "full", payload: `{"score":55,"label":"Fair","best_fit":[{"skill":"go","contribution":0.4}],"gaps":[],"clusters":[],"terms":{}}`},
		{name: "boundaries", payload: `{"score":0}`},
		{name: "missing score", payload: `{"label":"Great"}`, wantErr: true},
		{name: "null score", payload: `{"score":null}`, wantErr: true},
		{name: "string score", payload: `{"score":"high"}`, wantErr: true},
		{name: "out of range", payload: `{"score":101}`, wantErr: true},
		{name: "not an object", payload: `[1,2]`, wantErr: true},
		{name: "garbage", payload: `<html>`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Decode([]byte(tt.payload))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformed)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, res)
		})
	}
}

func TestDecodeKeepsOptionalRewritesAbsent(t *testing.T) {
	res, err := Decode([]byte(`{"score":92,"label":"Great"}`))
	require.NoError(t, err)

	assert.Equal(t, 92.0, res.Score)
	assert.Equal(t, "Great", res.Label)
	assert.Nil(t, res.Rewrites)
	assert.False(t, res.HasRewrites())

	res.Rewrites = []string{"Led migration to Go"}
	assert.True(t, res.HasRewrites())
}

func TestResultRoundTrip(t *testing.T) {
	tenure := 3.5
	months := 2.0
	original := &Result{
		Score: 77.25,
		Label: "Good",
		BestFit: []SkillItem{
			{Skill: "go", Contribution: 0.42, Evidence: &Evidence{TenureYears: &tenure, MonthsSinceLastUse: &months}},
			{Skill: "sql", Contribution: 0.1},
		},
		Gaps:     []GapItem{{Skill: "kubernetes", Required: true}, {Skill: "terraform"}},
		Clusters: []ClusterAlignment{{Cluster: "backend", AlignPct: 80, BestExamples: []string{"go"}, Gaps: []string{}}},
		Terms:    map[string]float64{"go": 0.7},
		Rewrites: []string{},
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDocumentIDKeepsIssuedForm(t *testing.T) {
	var body struct {
		DocID ResumeDocID `json:"doc_id"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"doc_id": 17}`), &body))
	assert.Equal(t, "17", body.DocID.String())

	out, err := json.Marshal(map[string]any{"resume_doc_id": body.DocID})
	require.NoError(t, err)
	assert.JSONEq(t, `{"resume_doc_id":17}`, string(out))

	require.NoError(t, json.Unmarshal([]byte(`{"doc_id": "r1"}`), &body))
	assert.Equal(t, "r1", body.DocID.String())

	out, err = json.Marshal(body.DocID)
	require.NoError(t, err)
	assert.Equal(t, `"r1"`, string(out))
}

func TestDocumentIDRejectsEmpty(t *testing.T) {
	for _, payload := range []string{`{"doc_id": ""}`, `{"doc_id": null}`, `{"doc_id": true}`, `{"doc_id": {}}`} {
		var body struct {
			DocID JobDocID `json:"doc_id"`
		}
		assert.Error(t, json.Unmarshal([]byte(payload), &body), payload)
	}
}
