package cli

import (
	"fmt"
	"io"

	"github.com/aretw0/autotutor/pkg/setup"
)

// PrintChecklist writes the setup checklist and reports whether every
// required check passed.
func PrintChecklist(w io.Writer, fn setup.Function, studentName string, b setup.Bounds) bool {
	fmt.Fprintf(w, "f(x) = %s\n", fn.Expression())
	ok := true
	for _, c := range fn.Checklist(studentName, b) {
		mark := "✅"
		switch {
		case !c.Passed && c.Required:
			mark = "❌"
			ok = false
		case !c.Passed:
			mark = "⚠️"
		}
		fmt.Fprintf(w, "%s %s\n", mark, c.Description)
	}
	if roots, err := fn.Intercepts(); err == nil {
		fmt.Fprintf(w, "x-intercepts: %v\n", roots)
	}
	return ok
}
