package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/manifoldco/promptui"
)

const barCells = 20

var trustNotes = []struct {
	title string
	body  string
}{
	{"How we score", "We compare your resume and job using cosine similarity with penalties. Skills are grouped into clusters, and required skills matter more."},
	{"Privacy", "By default we keep nothing. You can opt in to save your results and delete them later with one command."},
	{"Accuracy", "Use this as guidance, not a guarantee."},
}

// Terminal writes a View as plain or colored text.
type Terminal struct {
	Color bool
}

func (t Terminal) style(fn func(interface{}) string, s string) string {
	if !t.Color {
		return s
	}
	return fn(s)
}

func (t Terminal) heading(s string) string {
	return t.style(promptui.Styler(promptui.FGBold), s)
}

func bar(width float64) string {
	width = math.Max(0, math.Min(100, width))
	filled := int(math.Round(width / 100 * barCells))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", barCells-filled) + "]"
}

// Render writes the whole report in display order.
func (t Terminal) Render(w io.Writer, v *View) error {
	var b strings.Builder

	if v.ResultID != "" {
		fmt.Fprintf(&b, "Result %s\n\n", v.ResultID)
	}

	dial := v.Dial
	fmt.Fprintf(&b, "%s %s\n", t.heading("Score"), t.style(dial.Band.styler(), dial.Display+"/100"))
	fmt.Fprintf(&b, "%s %s (%s band)\n\n", bar(dial.Score), dial.Label, dial.Band)

	fmt.Fprintln(&b, t.heading("Best-fit skills"))
	for _, s := range v.Skills {
		fmt.Fprintf(&b, "  %-24s %s", s.Skill, s.Contribution)
		if s.Evidence != "" {
			fmt.Fprintf(&b, "  (%s)", s.Evidence)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	fmt.Fprintln(&b, t.heading("Gaps"))
	for _, g := range v.Gaps {
		marker := " "
		if g.Required {
			marker = t.style(promptui.Styler(promptui.FGRed), "*")
		}
		fmt.Fprintf(&b, "  %s %s\n", marker, g.Skill)
	}
	b.WriteString("\n")

	fmt.Fprintln(&b, t.heading("Cluster alignment"))
	for _, c := range v.Clusters {
		fmt.Fprintf(&b, "  %-24s %s %s%%\n", c.Cluster, bar(c.Width), formatPct(c.Width))
	}

	if v.HasRewrites() {
		b.WriteString("\n")
		if v.RewritesVisible() {
			fmt.Fprintln(&b, t.heading("Improved bullets"))
			for _, r := range v.Rewrites() {
				fmt.Fprintf(&b, "  - %s\n", r)
			}
		} else {
			fmt.Fprintf(&b, "%s (hidden, %d available)\n", t.heading("Improved bullets"), len(v.rewrites))
		}
	}

	b.WriteString("\n")
	for _, note := range trustNotes {
		fmt.Fprintf(&b, "%s\n  %s\n", t.heading(note.title), note.body)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
