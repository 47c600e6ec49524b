package jobs

import "time"

// Record is the ledger entry for a single transcription job.
type Record struct {
	// ID is the job identifier.
	ID string `json:"job_id"`
	// Filename is the original uploaded file name.
	Filename string `json:"filename"`
	// Status is the current lifecycle state.
	Status Status `json:"status"`
	// Progress is the coarse completion percentage (0 to 100).
	Progress int `json:"progress"`
	// TotalSegments is the planned segment count (0 for direct jobs).
	TotalSegments int `json:"total_segments,omitempty"`
	// CompletedSegments counts segments with a result so far.
	CompletedSegments int `json:"completed_segments,omitempty"`
	// OutputFile is the artifact path once the job completes.
	OutputFile string `json:"output_file,omitempty"`
	// Error holds the failure message for jobs in the error state.
	Error string `json:"error,omitempty"`
	// CreatedAt is when the job was accepted.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the last ledger write.
	UpdatedAt time.Time `json:"updated_at"`
}
