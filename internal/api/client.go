package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/spigell/doesmyresumematch/internal/match"
)

const (
	DefaultAPIURL = "http://localhost:8000"
	userAgent     = "spigell/doesmyresumematch"

	HeaderClientID = "X-Client-Id"
	HeaderConsent  = "X-Consent-Save"

	defaultMediaType = "application/pdf"
)

// Client talks to the parsing and scoring service.
type Client struct {
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(logger *zap.Logger, apiURL string, timeout time.Duration) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	apiURL = strings.TrimRight(strings.TrimSpace(apiURL), "/")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		logger: logger,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		UserAgent: userAgent,
	}
}

type docResponse struct {
	DocID match.DocumentID `json:"doc_id"`
}

type parseJobRequest struct {
	Source string `json:"source"`
}

type matchRequest struct {
	ResumeDocID match.ResumeDocID `json:"resume_doc_id"`
	JobDocID    match.JobDocID    `json:"job_doc_id"`
}

// ParseResume uploads the raw resume bytes and returns the id of the parsed document.
func (c *Client) ParseResume(ctx context.Context, clientID string, resume []byte, mediaType string) (match.ResumeDocID, error) {
	if strings.TrimSpace(mediaType) == "" {
		mediaType = defaultMediaType
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/v1/parse/resume", clientID, bytes.NewReader(resume))
	if err != nil {
		return match.ResumeDocID{}, err
	}
	req.Header.Set("Content-Type", mediaType)

	var resp docResponse
	if err := c.doJSON(req, &resp); err != nil {
		return match.ResumeDocID{}, fmt.Errorf("parse resume: %w", err)
	}
	if resp.DocID.IsZero() {
		return match.ResumeDocID{}, fmt.Errorf("parse resume: %w: doc_id is missing", ErrMalformedResponse)
	}

	return match.ResumeDocID{DocumentID: resp.DocID}, nil
}

// ParseJob sends the job description text or URL and returns the id of the parsed document.
func (c *Client) ParseJob(ctx context.Context, clientID, source string) (match.JobDocID, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/v1/parse/job", clientID, parseJobRequest{Source: source})
	if err != nil {
		return match.JobDocID{}, err
	}

	var resp docResponse
	if err := c.doJSON(req, &resp); err != nil {
		return match.JobDocID{}, fmt.Errorf("parse job: %w", err)
	}
	if resp.DocID.IsZero() {
		return match.JobDocID{}, fmt.Errorf("parse job: %w: doc_id is missing", ErrMalformedResponse)
	}

	return match.JobDocID{DocumentID: resp.DocID}, nil
}

// Match scores the parsed resume against the parsed job. consent tells the service whether it may keep the result.
func (c *Client) Match(ctx context.Context, clientID string, consent bool, resume match.ResumeDocID, job match.JobDocID) (*match.Result, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/v1/match", clientID, matchRequest{
		ResumeDocID: resume,
		JobDocID:    job,
	})
	if err != nil {
		return nil, err
	}
	req.Header.Set(HeaderConsent, strconv.FormatBool(consent))

	result, err := c.doResult(req)
	if err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}

	return result, nil
}

// Snapshot reads the server-held copy of a result.
func (c *Client) Snapshot(ctx context.Context, resultID string) (*match.Result, error) {
	if strings.TrimSpace(resultID) == "" {
		return nil, fmt.Errorf("result id is required")
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/v1/snapshot/"+url.PathEscape(resultID), "", nil)
	if err != nil {
		return nil, err
	}

	result, err := c.doResult(req)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", resultID, err)
	}

	return result, nil
}

// PostMetric reports a telemetry event. The response body is ignored.
func (c *Client) PostMetric(ctx context.Context, fields map[string]any) error {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/v1/metrics", "", fields)
	if err != nil {
		return err
	}

	if err := c.doJSON(req, nil); err != nil {
		return fmt.Errorf("post metric: %w", err)
	}

	return nil
}

// DeleteUserData asks the service to drop every document and result owned by the client id.
func (c *Client) DeleteUserData(ctx context.Context, clientID string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/v1/user/data", clientID, nil)
	if err != nil {
		return err
	}

	if err := c.doJSON(req, nil); err != nil {
		return fmt.Errorf("delete user data: %w", err)
	}

	return nil
}
