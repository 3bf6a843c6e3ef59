package batch

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Report summarizes one batch run
type Report struct {
	RunID     string
	Total     int
	Succeeded int
	Failed    []string // base names, in processing order
	Err       *multierror.Error
	Elapsed   time.Duration
}

// OK is true when every file converted
func (r *Report) OK() bool {
	return len(r.Failed) == 0
}

// AveragePerImage is the elapsed time spread over every attempted file
func (r *Report) AveragePerImage() time.Duration {
	if r.Total == 0 {
		return 0
	}
	return r.Elapsed / time.Duration(r.Total)
}

// ErrorOrNil returns the accumulated per file errors, or nil
func (r *Report) ErrorOrNil() error {
	return r.Err.ErrorOrNil()
}

func (r *Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Converted %d of %d images\n", r.Succeeded, r.Total)
	fmt.Fprintf(&sb, "Time to complete: %.3f seconds\n", r.Elapsed.Seconds())
	fmt.Fprintf(&sb, "Average time per image: %.3f seconds\n", r.AveragePerImage().Seconds())
	if !r.OK() {
		fmt.Fprintf(&sb, "Failed to convert %d images\n", len(r.Failed))
		for _, name := range r.Failed {
			fmt.Fprintf(&sb, "Failed to convert: %s\n", name)
		}
	}
	return sb.String()
}
