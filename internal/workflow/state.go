package workflow

// State is a stage of a single analysis submission.
type State int

const (
	Idle State = iota
	Submitting
	ParsingResume
	ParsingJob
	Matching
	Done
	Failed
)

var stateNames = map[State]string{
	Idle:          "idle",
	Submitting:    "submitting",
	ParsingResume: "parsing_resume",
	ParsingJob:    "parsing_job",
	Matching:      "matching",
	Done:          "done",
	Failed:        "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether no further transitions follow.
func (s State) Terminal() bool {
	return s == Done || s == Failed
}

// Observer is called for every transition.
type Observer func(from, to State)
