package output

import (
	"fmt"

	"github.com/temirov/sanity/internal/types"
)

const (
	progressBuildingStructure = "Building structure..."
	progressProcessedFormat   = "Processed: %d/%d"
	progressErrorFormat       = "Error in file: %s"
	progressCompleted         = "Export completed"

	percentMinimum = 0
	percentMaximum = 100
)

// Tracker turns per-file events into ProgressEvents. The total is an estimate from the
// counting pass and is raised when the working pass sees more files, so the processed
// count never exceeds it.
type Tracker struct {
	progress  types.ProgressFunc
	total     int
	processed int
	percent   int
}

// NewTracker returns a Tracker reporting to progress. A nil progress discards events.
func NewTracker(progress types.ProgressFunc, estimatedTotal int) *Tracker {
	if estimatedTotal < 0 {
		estimatedTotal = 0
	}
	return &Tracker{progress: progress, total: estimatedTotal}
}

func (tracker *Tracker) StructureStarted() {
	tracker.emit(percentMinimum, progressBuildingStructure)
}

// FileProcessed records one emitted file.
func (tracker *Tracker) FileProcessed() {
	tracker.processed++
	if tracker.processed > tracker.total {
		tracker.total = tracker.processed
	}
	tracker.percent = tracker.processed * percentMaximum / tracker.total
	tracker.emit(tracker.percent, fmt.Sprintf(progressProcessedFormat, tracker.processed, tracker.total))
}

// FileFailed reports a file whose content was replaced by an error marker.
func (tracker *Tracker) FileFailed(path string) {
	tracker.emit(tracker.percent, fmt.Sprintf(progressErrorFormat, path))
}

func (tracker *Tracker) Completed() {
	tracker.emit(percentMaximum, progressCompleted)
}

func (tracker *Tracker) Processed() int {
	return tracker.processed
}

func (tracker *Tracker) Total() int {
	return tracker.total
}

func (tracker *Tracker) emit(percent int, message string) {
	if tracker.progress == nil {
		return
	}
	tracker.progress(types.ProgressEvent{Percent: clampPercent(percent), Message: message})
}

func clampPercent(percent int) int {
	if percent < percentMinimum {
		return percentMinimum
	}
	if percent > percentMaximum {
		return percentMaximum
	}
	return percent
}
