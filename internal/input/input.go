package input

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMediaType is sent when the resume type cannot be detected.
const DefaultMediaType = "application/pdf"

// ErrMissing is returned when a required analysis field is empty.
var ErrMissing = errors.New("required input is missing")

// AnalysisInput holds everything needed to submit one analysis.
type AnalysisInput struct {
	Resume         []byte
	MediaType      string
	JobDescription string
}

// Validate reports which field is missing, if any.
func (in AnalysisInput) Validate() error {
	if len(in.Resume) == 0 {
		return fmt.Errorf("%w: resume file", ErrMissing)
	}
	if strings.TrimSpace(in.JobDescription) == "" {
		return fmt.Errorf("%w: job description", ErrMissing)
	}
	return nil
}

// JobSource describes where the job description comes from.
type JobSource struct {
	// Text is an inline description or a URL to the posting.
	Text string
	// File points to a file containing the description. When set it takes
	// precedence over Text.
	File string
}

// LoadJob returns the trimmed job description. File wins over Text.
func LoadJob(src JobSource) (string, error) {
	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading job description from file %q: %w", file, err)
		}
		src.Text = string(data)
	}

	job := strings.TrimSpace(src.Text)
	if job == "" {
		if file != "" {
			return "", fmt.Errorf("%w: job description file %q is empty", ErrMissing, file)
		}
		return "", fmt.Errorf("%w: job description", ErrMissing)
	}

	return job, nil
}

// LoadResume reads the resume file and detects its media type.
func LoadResume(path string) ([]byte, string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, "", fmt.Errorf("%w: resume file", ErrMissing)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading resume %q: %w", path, err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: resume file %q is empty", ErrMissing, path)
	}

	return data, DetectMediaType(data), nil
}

// DetectMediaType sniffs the content and falls back to DefaultMediaType
// for anything that is not recognized.
func DetectMediaType(data []byte) string {
	if len(data) == 0 {
		return DefaultMediaType
	}
	mt := mimetype.Detect(data)
	if mt == nil || mt.Is("application/octet-stream") {
		return DefaultMediaType
	}
	// strip parameters like "; charset=utf-8"
	media, _, _ := strings.Cut(mt.String(), ";")
	return strings.TrimSpace(media)
}

// Load builds a validated AnalysisInput from a resume path and job source.
func Load(resumePath string, job JobSource) (AnalysisInput, error) {
	resume, mediaType, err := LoadResume(resumePath)
	if err != nil {
		return AnalysisInput{}, err
	}

	text, err := LoadJob(job)
	if err != nil {
		return AnalysisInput{}, err
	}

	in := AnalysisInput{Resume: resume, MediaType: mediaType, JobDescription: text}
	return in, in.Validate()
}
