package workflow

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/doesmyresumematch/internal/input"
	"github.com/spigell/doesmyresumematch/internal/logger"
	"github.com/spigell/doesmyresumematch/internal/match"
	"github.com/spigell/doesmyresumematch/internal/utils"
)

const (
	StepParseResume = "parse_resume"
	StepParseJob    = "parse_job"
	StepMatch       = "match"
	StepSave        = "save"

	jobPreviewLimit = 80
)

// Scorer is the remote side of a submission.
type Scorer interface {
	ParseResume(ctx context.Context, clientID string, resume []byte, mediaType string) (match.ResumeDocID, error)
	ParseJob(ctx context.Context, clientID, source string) (match.JobDocID, error)
	Match(ctx context.Context, clientID string, consent bool, resume match.ResumeDocID, job match.JobDocID) (*match.Result, error)
}

// IdentityProvider hands out the client id attached to every call.
type IdentityProvider interface {
	GetOrCreateClientID() string
}

// ResultSaver persists a finished result.
type ResultSaver interface {
	Save(resultID string, result *match.Result) error
}

// Deps aggregates the collaborators of an Orchestrator.
type Deps struct {
	API      Scorer
	Identity IdentityProvider
	Results  ResultSaver
	Logger   *zap.Logger
}

type Option func(*Orchestrator)

// WithObserver registers a transition callback.
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) {
		o.observer = obs
	}
}

// WithIDGenerator replaces the result id generator.
func WithIDGenerator(fn func() string) Option {
	return func(o *Orchestrator) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// Orchestrator runs one submission at a time through parse resume, parse job and match.
// Callers must not start a second Run before the first returns.
type Orchestrator struct {
	api      Scorer
	identity IdentityProvider
	results  ResultSaver
	logger   *zap.Logger
	newID    func() string
	observer Observer

	mu    sync.RWMutex
	state State
}

func New(deps Deps, opts ...Option) (*Orchestrator, error) {
	if deps.API == nil {
		return nil, fmt.Errorf("api client is required")
	}
	if deps.Identity == nil {
		return nil, fmt.Errorf("identity manager is required")
	}
	if deps.Results == nil {
		return nil, fmt.Errorf("result store is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	o := &Orchestrator{
		api:      deps.API,
		identity: deps.Identity,
		results:  deps.Results,
		logger:   deps.Logger,
		newID:    uuid.NewString,
		state:    Idle,
	}
	for _, opt := range opts {
		opt(o)
	}

	return o, nil
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

func (o *Orchestrator) transition(to State) {
	o.mu.Lock()
	from := o.state
	o.state = to
	o.mu.Unlock()

	if from != to && o.observer != nil {
		o.observer(from, to)
	}
}

// submission carries the values produced by each step.
type submission struct {
	clientID string
	consent  bool
	input    input.AnalysisInput

	resumeID match.ResumeDocID
	jobID    match.JobDocID
	result   *match.Result
}

type step struct {
	name  string
	state State
	run   func(ctx context.Context, s *submission) error
}

func (o *Orchestrator) steps() []step {
	return []step{
		{name: StepParseResume, state: ParsingResume, run: o.parseResume},
		{name: StepParseJob, state: ParsingJob, run: o.parseJob},
		{name: StepMatch, state: Matching, run: o.match},
	}
}

func (o *Orchestrator) parseResume(ctx context.Context, s *submission) error {
	id, err := o.api.ParseResume(ctx, s.clientID, s.input.Resume, s.input.MediaType)
	if err != nil {
		return err
	}
	s.resumeID = id
	return nil
}

func (o *Orchestrator) parseJob(ctx context.Context, s *submission) error {
	id, err := o.api.ParseJob(ctx, s.clientID, s.input.JobDescription)
	if err != nil {
		return err
	}
	s.jobID = id
	return nil
}

func (o *Orchestrator) match(ctx context.Context, s *submission) error {
	result, err := o.api.Match(ctx, s.clientID, s.consent, s.resumeID, s.jobID)
	if err != nil {
		return err
	}
	if result == nil {
		return fmt.Errorf("empty match result")
	}
	s.result = result
	return nil
}

// Run submits the input and returns the id the result was saved under.
// Nothing is saved unless every step succeeds.
func (o *Orchestrator) Run(ctx context.Context, in input.AnalysisInput, consent bool) (string, error) {
	if err := in.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	// a new submission starts over from a finished one
	if o.State().Terminal() {
		o.transition(Idle)
	}
	o.transition(Submitting)

	s := &submission{
		clientID: o.identity.GetOrCreateClientID(),
		consent:  consent,
		input:    in,
	}
	log := logger.WithFields(o.logger, logger.WorkflowFields(s.clientID, "", "")...)

	log.Info("submitting analysis",
		zap.Int("resume_bytes", len(in.Resume)),
		zap.String("media_type", in.MediaType),
		zap.String("job", utils.TruncateForLog(in.JobDescription, jobPreviewLimit)),
		zap.Bool("consent", consent),
	)

	for _, st := range o.steps() {
		o.transition(st.state)
		stepLog := logger.WithFields(log, logger.WorkflowFields("", "", st.name)...)

		if err := st.run(ctx, s); err != nil {
			return "", o.fail(stepLog, st.name, err)
		}

		stepLog.Info("workflow step")
	}

	resultID := o.newID()
	if err := o.results.Save(resultID, s.result); err != nil {
		return "", o.fail(logger.WithFields(log, logger.WorkflowFields("", resultID, StepSave)...), StepSave, err)
	}

	o.transition(Done)
	logger.WithFields(log, logger.WorkflowFields("", resultID, "")...).Info("analysis completed",
		zap.Float64("score", s.result.Score),
		zap.String("label", s.result.Label),
	)

	return resultID, nil
}

func (o *Orchestrator) fail(log *zap.Logger, name string, err error) error {
	o.transition(Failed)
	log.Warn("workflow step failed", zap.Error(err))
	return &StepError{Step: name, Err: err}
}
