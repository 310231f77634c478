package pipeline

import (
	"fmt"
	"strings"
)

// skipSummary formats the post-run list of symbols that produced no data.
// Only the first ten are spelled out.
func skipSummary(skipped []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Skipped %d symbols with no data: ", len(skipped))
	shown := skipped
	if len(shown) > 10 {
		shown = shown[:10]
	}
	b.WriteString(strings.Join(shown, ", "))
	if len(skipped) > 10 {
		b.WriteString("...")
	}
	return b.String()
}
