package input

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      AnalysisInput
		wantErr bool
	}{
		{name: "complete", in: AnalysisInput{Resume: []byte("x"), JobDescription: "job"}},
		{name: "no resume", in: AnalysisInput{JobDescription: "job"}, wantErr: true},
		{name: "blank job", in: AnalysisInput{Resume: []byte("x"), JobDescription: "  \n"}, wantErr: true},
		{name: "empty", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMissing)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoadJobPrefersFile(t *testing.T) {
	path := writeFile(t, "job.txt", []byte("  from file \n"))

	job, err := LoadJob(JobSource{Text: "inline", File: path})
	require.NoError(t, err)
	assert.Equal(t, "from file", job)

	job, err = LoadJob(JobSource{Text: " https://example.com/jobs/1 "})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/jobs/1", job)
}

func TestLoadJobErrors(t *testing.T) {
	_, err := LoadJob(JobSource{})
	assert.ErrorIs(t, err, ErrMissing)

	empty := writeFile(t, "empty.txt", []byte("   "))
	_, err = LoadJob(JobSource{File: empty})
	assert.ErrorIs(t, err, ErrMissing)

	_, err = LoadJob(JobSource{File: filepath.Join(t.TempDir(), "missing.txt")})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissing)
}

func TestDetectMediaType(t *testing.T) {
	assert.Equal(t, "application/pdf", DetectMediaType([]byte("%PDF-1.4\n%âãÏÓ\n1 0 obj")))
	assert.Equal(t, "text/plain", DetectMediaType([]byte("Jane Doe\nGo developer\n")))
	assert.Equal(t, DefaultMediaType, DetectMediaType(nil))
	assert.Equal(t, DefaultMediaType, DetectMediaType([]byte{0x00, 0x01, 0x02, 0xff, 0xfe}))
}

func TestLoad(t *testing.T) {
	resume := writeFile(t, "resume.pdf", []byte("%PDF-1.4\nresume"))

	in, err := Load(resume, JobSource{Text: "Example job description"})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", in.MediaType)
	assert.Equal(t, "Example job description", in.JobDescription)
	assert.Equal(t, []byte("%PDF-1.4\nresume"), in.Resume)

	_, err = Load("", JobSource{Text: "job"})
	assert.ErrorIs(t, err, ErrMissing)

	empty := writeFile(t, "empty.pdf", nil)
	_, err = Load(empty, JobSource{Text: "job"})
	assert.ErrorIs(t, err, ErrMissing)
}
