package summarizer

import "github.com/nguyentantai21042004/codesummary/internal/language"

// Status is the terminal state of one unit.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusSkipped   Status = "skipped"
	StatusErrored   Status = "errored"
)

// Record is the result of summarizing one unit. Every discovered unit gets
// exactly one Record, whatever its outcome.
type Record struct {
	Name     string
	Language language.Label
	Status   Status
	// Summary is the model output, or a placeholder for skipped units.
	Summary string
	// Example is filled only by the staged flow.
	Example string
	// Confidence is 0-100; 0 when unknown or not completed.
	Confidence int
	// Scored is set when Confidence came from a dedicated review call
	// rather than being parsed out of Summary.
	Scored bool
	Err    error
}

// Batch is the ordered output of one Summarize call, in discovery order.
type Batch struct {
	Records []Record
}

// Len returns the number of records.
func (b Batch) Len() int { return len(b.Records) }

// Counts tallies records by status.
func (b Batch) Counts() (completed, skipped, errored int) {
	for _, r := range b.Records {
		switch r.Status {
		case StatusCompleted:
			completed++
		case StatusSkipped:
			skipped++
		case StatusErrored:
			errored++
		}
	}
	return completed, skipped, errored
}
