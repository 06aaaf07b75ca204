package todo

// Visible returns the tasks shown under mode, in their original order. For
// FilterAll (and any unrecognized mode) the input slice is returned as-is.
func Visible(tasks []Task, mode FilterMode) []Task {
	switch mode {
	case FilterActive, FilterCompleted:
	default:
		return tasks
	}

	wantCompleted := mode == FilterCompleted
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed == wantCompleted {
			out = append(out, t)
		}
	}
	return out
}

// Counts holds the number of tasks visible under each mode.
type Counts struct {
	All       int
	Active    int
	Completed int
}

// CountTasks tallies tasks per mode.
func CountTasks(tasks []Task) Counts {
	c := Counts{All: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			c.Completed++
		} else {
			c.Active++
		}
	}
	return c
}

// For returns the count for mode.
func (c Counts) For(mode FilterMode) int {
	switch mode {
	case FilterActive:
		return c.Active
	case FilterCompleted:
		return c.Completed
	default:
		return c.All
	}
}
