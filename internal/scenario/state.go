package scenario

// State is the lifecycle position of a Session.
type State int

const (
	Unconfigured State = iota
	ConfigLoaded
	FlowRan
	Passed
	Failed
)

func (s State) String() string {
	switch s {
	case Unconfigured:
		return "unconfigured"
	case ConfigLoaded:
		return "config-loaded"
	case FlowRan:
		return "flow-ran"
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}
