package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Render writes the summary block followed by a text histogram whose
// longest bar is barWidth characters wide.
//
// Precondition: barWidth >= 1.
func Render(w io.Writer, s Summary, barWidth int) error {
	var b strings.Builder
	printer.Fprintf(&b, "Expression: %s\n", s.Expression)
	printer.Fprintf(&b, "Total Rolls: %d\n", s.Rolls)
	if s.Rolls == 0 {
		_, err := io.WriteString(w, b.String())
		return err
	}
	printer.Fprintf(&b, "Range: %d - %d\n", s.Min, s.Max)
	printer.Fprintf(&b, "Average: %.2f\n", s.Mean)
	printer.Fprintf(&b, "Most Common: %d (%d times, %.1f%%)\n", s.Mode, s.ModeCount, 100*s.Probability(s.Mode))
	printer.Fprintf(&b, "Unique Results: %d\n", s.Unique())
	printer.Fprintf(&b, "Standard Deviation: %.2f\n\n", s.StdDev)

	outcomes := s.Outcomes()
	label := 0
	for _, total := range outcomes {
		label = max(label, len(fmt.Sprint(total)))
	}
	for _, total := range outcomes {
		n := s.Counts[total]
		bar := int(math.Round(float64(n) / float64(s.ModeCount) * float64(barWidth)))
		if bar == 0 && n > 0 {
			bar = 1
		}
		printer.Fprintf(&b, "%s | %s%s %5.1f%% (%d)\n",
			fmt.Sprintf("%*d", label, total), strings.Repeat("#", bar), strings.Repeat(" ", barWidth-bar),
			100*s.Probability(total), n)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
