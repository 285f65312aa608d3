package app

import (
	"fmt"
	"io"
	"time"
)

// Outcome is the result of one scenario.
type Outcome struct {
	RunID    string
	Name     string
	Resource string
	Flow     string
	Passed   bool
	Count    int
	Err      error
	Duration time.Duration
}

// Report collects the outcomes of a run in plan order.
type Report struct {
	Outcomes []Outcome
}

// Failed returns the number of failed scenarios.
func (r *Report) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.Passed {
			n++
		}
	}
	return n
}

// Write prints one line per scenario and a summary line.
func (r *Report) Write(w io.Writer) error {
	for _, o := range r.Outcomes {
		status := "PASS"
		detail := fmt.Sprintf("count=%d", o.Count)
		if !o.Passed {
			status = "FAIL"
			detail = o.Err.Error()
		}
		if _, err := fmt.Fprintf(w, "%s  %s (%s#%s) %s [%s]\n", status, o.Name, o.Resource, o.Flow, detail, o.Duration.Round(time.Millisecond)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d scenario(s), %d passed, %d failed\n", len(r.Outcomes), len(r.Outcomes)-r.Failed(), r.Failed())
	return err
}
