package decide

import (
	"fmt"
	"io"
	"strings"

	"github.com/decide-lab/launch-interceptor/internal/cmv"
)

// #region report
// WriteReport prints the CMV, PUM and FUV of r as fixed-width tables
// followed by the decision.
func WriteReport(w io.Writer, r Result) error {
	var sb strings.Builder

	sb.WriteString("CMV\n")
	for i, met := range r.CMV {
		fmt.Fprintf(&sb, "  %-6s %s\n", cmv.ID(i), flag(met))
	}

	sb.WriteString("\nPUM\n      ")
	for j := 0; j < cmv.Count; j++ {
		fmt.Fprintf(&sb, "%3d", j)
	}
	sb.WriteByte('\n')
	for i, row := range r.PUM {
		fmt.Fprintf(&sb, "  %3d ", i)
		for j, cell := range row {
			if i == j {
				sb.WriteString("  *")
				continue
			}
			fmt.Fprintf(&sb, "%3s", flag(cell))
		}
		sb.WriteByte('\n')
	}

	sb.WriteString("\nFUV\n")
	for i, ok := range r.FUV {
		fmt.Fprintf(&sb, "  %-6s %s\n", cmv.ID(i), flag(ok))
	}

	fmt.Fprintf(&sb, "\n%s\n", r.Answer())

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func flag(b bool) string {
	if b {
		return "T"
	}
	return "F"
}

// #endregion report
