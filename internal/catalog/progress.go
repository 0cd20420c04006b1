package catalog

import "fmt"

// ProgressUpdate reports the state of a running batch import.
type ProgressUpdate struct {
	Phase   Phase
	Step    int // Lines processed so far
	Total   int // Lines in the batch
	Message string
	Data    any // Optional phase-specific data
}

// Phase identifies a stage of a batch import.
type Phase int

const (
	ReadSource Phase = iota
	ImportLine
	ImportDone
)

func (p Phase) String() string {
	switch p {
	case ReadSource:
		return "read_source"
	case ImportLine:
		return "import_line"
	case ImportDone:
		return "import_done"
	default:
		return ""
	}
}

// sendProgress never blocks; updates are dropped when the channel is full.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func readSourceUpdate(name string) ProgressUpdate {
	return ProgressUpdate{Phase: ReadSource, Message: fmt.Sprintf("Reading %s...", name)}
}

func lineAddedUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportLine,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, title),
	}
}

func lineFailedUpdate(step, total int, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportLine,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %v", step, total, err),
	}
}

func importDoneUpdate(total int, summary any) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportDone,
		Step:    total,
		Total:   total,
		Message: fmt.Sprint(summary),
		Data:    summary,
	}
}
