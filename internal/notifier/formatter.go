package notifier

import (
	"fmt"
	"html"
	"strings"

	"SectorRRG/internal/model"
	"SectorRRG/internal/rotation"
)

var quadrantIcons = map[model.Quadrant]string{
	model.QuadrantLeading:   "🟢",
	model.QuadrantWeakening: "🟡",
	model.QuadrantLagging:   "🔴",
	model.QuadrantImproving: "🔵",
	model.QuadrantNeutral:   "⚪",
}

// quadrant order in the report: the rotation cycle, then the origin
var reportOrder = []model.Quadrant{
	model.QuadrantLeading,
	model.QuadrantWeakening,
	model.QuadrantLagging,
	model.QuadrantImproving,
	model.QuadrantNeutral,
}

// FormatRotationReport formats a rotation graph into a Telegram message.
func FormatRotationReport(g *model.RotationGraph) string {
	var b strings.Builder

	b.WriteString("📊 <b>Relative Rotation Graph</b>")
	if !g.AsOf.IsZero() {
		b.WriteString(fmt.Sprintf(" | %s", g.AsOf.Format("2006-01-02")))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Benchmark: %s\n", html.EscapeString(g.Benchmark.DisplayName())))
	b.WriteString(fmt.Sprintf("Tail: %s (%s)\n", g.Lookback, g.Lookback.Description()))

	groups := rotation.ByQuadrant(g)
	for _, q := range reportOrder {
		trails := groups[q]
		if len(trails) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("\n%s <b>%s</b>\n", quadrantIcons[q], q))
		for _, t := range trails {
			b.WriteString(fmt.Sprintf("  %s  RS %+.2f | MOM %+.2f",
				html.EscapeString(t.Instrument.DisplayName()), t.Head.RS, t.Head.MOM))
			if dir := heading(t); dir != "" {
				b.WriteString("  " + dir)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString(fmt.Sprintf("\n<i>%s</i>", html.EscapeString(rotation.Disclaimer)))
	return b.String()
}

// heading shows which way the head moved since the start of the trail.
func heading(t model.InstrumentTrail) string {
	if len(t.Trail) < 2 {
		return ""
	}
	first := t.Trail[0]
	dx, dy := t.Head.RS-first.RS, t.Head.MOM-first.MOM
	switch {
	case dx >= 0 && dy >= 0:
		return "↗"
	case dx >= 0:
		return "↘"
	case dy < 0:
		return "↙"
	default:
		return "↖"
	}
}

// FormatQuadrantGuide explains the four quadrants.
func FormatQuadrantGuide() string {
	var b strings.Builder
	b.WriteString("🧭 <b>Reading the RRG</b>\n\n")
	b.WriteString(html.EscapeString(rotation.Description))
	b.WriteString("\n\n")
	for _, q := range rotation.Quadrants {
		b.WriteString(fmt.Sprintf("%s <b>%s</b>: %s\n", quadrantIcons[q.Quadrant], q.Quadrant, q.Meaning))
	}
	b.WriteString("\nInstruments usually rotate clockwise: Improving → Leading → Weakening → Lagging.")
	return b.String()
}

// FormatHelp lists the bot commands.
func FormatHelp() string {
	labels := make([]string, len(model.Lookbacks))
	for i, l := range model.Lookbacks {
		labels[i] = string(l)
	}
	var b strings.Builder
	b.WriteString("🤖 <b>Commands</b>\n\n")
	b.WriteString(fmt.Sprintf("/rrg [lookback] - rotation report and chart (%s, default %s)\n",
		strings.Join(labels, ", "), model.DefaultLookback))
	b.WriteString("/quadrants - how to read the chart\n")
	b.WriteString("/help - this message")
	return b.String()
}

// FormatError formats a failed run.
func FormatError(err error) string {
	return fmt.Sprintf("⚠️ <b>RRG refresh failed</b>\n\n<code>%s</code>", html.EscapeString(err.Error()))
}
