package tasks

import (
	"fmt"
	"time"
)

// ProgressUpdate represents a progress event while sections load.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Sections finished so far
	Total   int    // Total sections in this run
	Message string // Human-readable message for display
	Data    any    // The [SectionResult] for finished sections
}

// Operation phase enumeration
type Phase int

const (
	SectionStarted Phase = iota
	SectionLoaded
	SectionFailed
)

func (p Phase) String() string {
	switch p {
	case SectionStarted:
		return "section_started"
	case SectionLoaded:
		return "section_loaded"
	case SectionFailed:
		return "section_failed"
	default:
		return ""
	}
}

func startedUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SectionStarted,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Loading %s...", name),
	}
}

func finishedUpdate(step, total int, res SectionResult) ProgressUpdate {
	if res.Err != nil {
		return ProgressUpdate{
			Phase:   SectionFailed,
			Step:    step,
			Total:   total,
			Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Name, res.Err),
			Data:    res,
		}
	}
	return ProgressUpdate{
		Phase:   SectionLoaded,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%s)", step, total, res.Name, res.Duration.Round(time.Millisecond)),
		Data:    res,
	}
}
