package pipeline

// State is a step of one submission.
type State int

const (
	Idle State = iota
	Validating
	Scraping
	Extracting
	Analyzing
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Scraping:
		return "scraping"
	case Extracting:
		return "extracting"
	case Analyzing:
		return "analyzing"
	case Done:
		return "done"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}

// Progress is a presentation hint: a checkpoint percentage and a label.
type Progress struct {
	State   State
	Percent int
	Step    string
}

// Observer receives every progress change of a submission.
type Observer func(Progress)
