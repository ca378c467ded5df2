// Package doctor runs quick environment checks behind the -doctor flag.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

const checkTimeout = 15 * time.Second

type Check struct {
	Name string
	// Run returns a short detail line on success.
	Run func(ctx context.Context) (string, error)
}

type skipError struct{ reason string }

func (e *skipError) Error() string { return e.reason }

// Skip marks a check as not applicable rather than failed.
func Skip(format string, args ...any) error {
	return &skipError{reason: fmt.Sprintf(format, args...)}
}

// Run executes checks in order and returns an exit code (0=all pass, 1=any fail).
func Run(ctx context.Context, w io.Writer, checks []Check) int {
	fmt.Fprintln(w, "hark doctor - system diagnostics")
	fmt.Fprintln(w, "================================")

	failed := 0
	for i, c := range checks {
		fmt.Fprintf(w, "\n[%d/%d] %s\n", i+1, len(checks), c.Name)

		cctx, cancel := context.WithTimeout(ctx, checkTimeout)
		detail, err := c.Run(cctx)
		cancel()

		var skip *skipError
		switch {
		case errors.As(err, &skip):
			fmt.Fprintf(w, "  SKIP: %s\n", skip.reason)
		case err != nil:
			fmt.Fprintf(w, "  FAIL: %v\n", err)
			failed++
		default:
			fmt.Fprintf(w, "  PASS: %s\n", detail)
		}
	}

	fmt.Fprintln(w)
	if failed > 0 {
		fmt.Fprintf(w, "%d check(s) failed. See details above.\n", failed)
		return 1
	}
	fmt.Fprintln(w, "All checks passed!")
	return 0
}
