package workflow

import (
	"math"

	"github.com/anthony-okoye/vestro/id"
)

// Status is the caller-facing snapshot of one session's progress through
// the pipeline.
type Status struct {
	SessionID      id.SessionID `json:"session_id"`
	UserID         string       `json:"user_id"`
	CurrentStep    int          `json:"current_step"`
	CompletedSteps []int        `json:"completed_steps"`
	CompletedCount int          `json:"completed_count"`
	Progress       int          `json:"progress"`
	TotalSteps     int          `json:"total_steps"`
	Completed      bool         `json:"completed"`
}

// NewStatus derives a Status from a session and the registered catalog
// size.
func NewStatus(s *Session, totalSteps int) *Status {
	return &Status{
		SessionID:      s.ID,
		UserID:         s.UserID,
		CurrentStep:    s.CurrentStep,
		CompletedSteps: append([]int(nil), s.CompletedSteps...),
		CompletedCount: len(s.CompletedSteps),
		Progress:       ProgressPercent(len(s.CompletedSteps), totalSteps),
		TotalSteps:     totalSteps,
		Completed:      s.Completed(totalSteps),
	}
}

// ProgressPercent computes round(100 * completed / total) with the 0 and
// 100 boundaries pinned exactly: an empty completed set is always 0 and a
// full one is always 100, regardless of rounding. Progress counts only
// completed steps; a skipped step moves the pointer but not this number.
func ProgressPercent(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}
