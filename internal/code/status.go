package code

// StatusID is the remote service's submission status code.
type StatusID int

const (
	StatusInQueue StatusID = iota + 1
	StatusProcessing
	StatusAccepted
	StatusWrongAnswer
	StatusTimeLimitExceeded
	StatusCompilationError
	StatusRuntimeErrorSIGSEGV
	StatusRuntimeErrorSIGXFSZ
	StatusRuntimeErrorSIGFPE
	StatusRuntimeErrorSIGABRT
	StatusRuntimeErrorNZEC
	StatusRuntimeErrorOther
	StatusInternalError
	StatusExecFormatError
)

// Phase is where a submission sits in its lifecycle.
type Phase int

const (
	PhaseQueued Phase = iota
	PhaseProcessing
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseQueued:
		return "queued"
	case PhaseProcessing:
		return "processing"
	case PhaseSucceeded:
		return "succeeded"
	default:
		return "failed"
	}
}

// Failure classifies a terminal non-accepted status.
type Failure int

const (
	FailureNone Failure = iota
	FailureWrongAnswer
	FailureTimeLimit
	FailureCompilation
	FailureRuntime
	FailureInternal
	FailureExecFormat
	FailureUnknown
)

func (f Failure) String() string {
	switch f {
	case FailureNone:
		return "none"
	case FailureWrongAnswer:
		return "wrong_answer"
	case FailureTimeLimit:
		return "time_limit"
	case FailureCompilation:
		return "compilation"
	case FailureRuntime:
		return "runtime"
	case FailureInternal:
		return "internal"
	case FailureExecFormat:
		return "exec_format"
	default:
		return "unknown"
	}
}

// Phase maps the status code onto the lifecycle. Codes the service may add
// later are treated as failed so polling never waits on them.
func (s StatusID) Phase() Phase {
	switch s {
	case StatusInQueue:
		return PhaseQueued
	case StatusProcessing:
		return PhaseProcessing
	case StatusAccepted:
		return PhaseSucceeded
	default:
		return PhaseFailed
	}
}

// Terminal reports whether polling can stop at this status.
func (s StatusID) Terminal() bool {
	switch s.Phase() {
	case PhaseQueued, PhaseProcessing:
		return false
	default:
		return true
	}
}

// Failure returns the failure subkind, or FailureNone for non-failed phases.
func (s StatusID) Failure() Failure {
	switch s {
	case StatusInQueue, StatusProcessing, StatusAccepted:
		return FailureNone
	case StatusWrongAnswer:
		return FailureWrongAnswer
	case StatusTimeLimitExceeded:
		return FailureTimeLimit
	case StatusCompilationError:
		return FailureCompilation
	case StatusRuntimeErrorSIGSEGV, StatusRuntimeErrorSIGXFSZ, StatusRuntimeErrorSIGFPE,
		StatusRuntimeErrorSIGABRT, StatusRuntimeErrorNZEC, StatusRuntimeErrorOther:
		return FailureRuntime
	case StatusInternalError:
		return FailureInternal
	case StatusExecFormatError:
		return FailureExecFormat
	default:
		return FailureUnknown
	}
}
