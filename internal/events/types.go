package events

// Event type constants for kelindar/event.
const (
	TypeInspectDone uint32 = iota + 1
	TypeFinding
	TypeJoinStarted
	TypeJoinFinished
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// InspectDoneEvent is published after a file has been inspected,
// whether extraction succeeded or not.
type InspectDoneEvent struct {
	Path      string `json:"path" doc:"Inspected file path"`
	ErrorCode string `json:"error_code,omitempty" doc:"Extraction error code, empty on success"`
	Timestamp string `json:"timestamp" doc:"Event timestamp"`
}

// Type returns the event type identifier for InspectDoneEvent.
func (e InspectDoneEvent) Type() uint32 { return TypeInspectDone }

// FindingEvent is published for each compatibility finding.
type FindingEvent struct {
	Severity  string   `json:"severity" example:"warning" doc:"Finding severity"`
	Category  string   `json:"category" example:"timescale_mismatch" doc:"Finding category"`
	Message   string   `json:"message" doc:"Human-readable description"`
	Paths     []string `json:"paths" doc:"Files involved in the finding"`
	Timestamp string   `json:"timestamp" doc:"Event timestamp"`
}

// Type returns the event type identifier for FindingEvent.
func (e FindingEvent) Type() uint32 { return TypeFinding }

// JoinStartedEvent is published when an ffmpeg concat run begins.
type JoinStartedEvent struct {
	Inputs    []string `json:"inputs" doc:"Input file paths in output order"`
	Output    string   `json:"output" doc:"Output file path"`
	Timestamp string   `json:"timestamp" doc:"Event timestamp"`
}

// Type returns the event type identifier for JoinStartedEvent.
func (e JoinStartedEvent) Type() uint32 { return TypeJoinStarted }

// JoinFinishedEvent is published when an ffmpeg concat run ends.
type JoinFinishedEvent struct {
	Output          string  `json:"output" doc:"Output file path"`
	ExitCode        int     `json:"exit_code" doc:"ffmpeg exit code"`
	DurationSeconds float64 `json:"duration_seconds" doc:"Wall-clock run duration"`
	Timestamp       string  `json:"timestamp" doc:"Event timestamp"`
}

// Type returns the event type identifier for JoinFinishedEvent.
func (e JoinFinishedEvent) Type() uint32 { return TypeJoinFinished }
