package protocol

// RequestKind is the wire discriminant of a PluginAction.
// The numeric values are part of the wire format and must not be reordered.
type RequestKind uint8

const (
	RequestKindResults RequestKind = iota
	RequestKindRun
)

// PluginAction is the single request a host sends to a plugin invocation.
// It is implemented by ResultsRequest and RunRequest.
type PluginAction interface {
	Kind() RequestKind
	isPluginAction()
}

// ResultsRequest asks the plugin for results matching Text.
type ResultsRequest struct {
	Text string
}

// RunRequest asks the plugin to execute a previously offered entry.
// CustomAction carries the entry's TUIResult.Info. A nil Info means no auxiliary
// data was sent; an empty non-nil Info is an empty sequence.
type RunRequest struct {
	CustomAction string
	Info         []string
}

func (ResultsRequest) Kind() RequestKind { return RequestKindResults }
func (RunRequest) Kind() RequestKind     { return RequestKindRun }

func (ResultsRequest) isPluginAction() {}
func (RunRequest) isPluginAction()     {}

func (k RequestKind) String() string {
	switch k {
	case RequestKindResults:
		return "results"
	case RequestKindRun:
		return "run"
	default:
		return "unknown"
	}
}
