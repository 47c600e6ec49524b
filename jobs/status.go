package jobs

// Status is the lifecycle state of a transcription job.
type Status string

const (
	// StatusUploaded means the source file has been received.
	StatusUploaded Status = "uploaded"
	// StatusCompressing means the source is being re-encoded.
	StatusCompressing Status = "compressing"
	// StatusChunking means segments are being extracted.
	StatusChunking Status = "chunking"
	// StatusTranscribing means segments are being sent to the backend.
	StatusTranscribing Status = "transcribing"
	// StatusCompleted means the transcript artifact is ready.
	StatusCompleted Status = "completed"
	// StatusError means the job failed before producing an artifact.
	StatusError Status = "error"
)

// Terminal reports whether the status is a final state.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// validNext enumerates the allowed forward transitions. Error is reachable
// from every non-terminal state.
var validNext = map[Status][]Status{
	StatusUploaded:     {StatusCompressing, StatusTranscribing, StatusError},
	StatusCompressing:  {StatusChunking, StatusError},
	StatusChunking:     {StatusTranscribing, StatusError},
	StatusTranscribing: {StatusCompleted, StatusError},
}

// CanTransition reports whether moving from s to next is allowed.
// Self-transitions are allowed so progress updates can repeat a status.
func (s Status) CanTransition(next Status) bool {
	if s == next {
		return !s.Terminal()
	}
	for _, allowed := range validNext[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
