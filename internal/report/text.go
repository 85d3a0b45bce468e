package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/testrank/internal/domain"
	"github.com/felixgeelhaar/testrank/internal/prioritize"
)

type styles struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Muted    lipgloss.Style
	Warning  lipgloss.Style
	Critical lipgloss.Style
	High     lipgloss.Style
	Medium   lipgloss.Style
	Low      lipgloss.Style
	Box      lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")), // Purple
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")), // Cyan
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Critical: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		High:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		Medium:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		Low:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Box: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
	}
}

func (s styles) tier(t domain.RiskTier) lipgloss.Style {
	switch t {
	case domain.TierCritical:
		return s.Critical
	case domain.TierHigh:
		return s.High
	case domain.TierMedium:
		return s.Medium
	default:
		return s.Low
	}
}

type textWriter struct {
	opts   *WriterOptions
	styles styles
}

func (w *textWriter) Write(r *Report) error {
	_, err := fmt.Fprint(w.opts.Out, w.render(r))
	return err
}

func (w *textWriter) render(r *Report) string {
	var sb strings.Builder
	s := w.styles

	sb.WriteString(s.Title.Render("TEST PRIORITIZATION REPORT"))
	sb.WriteString("\n")
	sb.WriteString(s.Muted.Render(fmt.Sprintf("run %s  batch %s", r.RunID, shortHash(r.Fingerprint))))
	sb.WriteString("\n\n")

	summary := fmt.Sprintf("Received: %d    Ranked: %d    Rejected: %d    Unresolved: %d    Executed: %d",
		r.Summary.Received, r.Summary.Ranked, r.Summary.Rejected, r.Summary.Unresolved, r.Summary.Executed)
	sb.WriteString(s.Box.Render(summary))
	sb.WriteString("\n\n")

	if len(r.Ranked) == 0 {
		sb.WriteString(s.Muted.Render("No scenarios to rank."))
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString(s.Header.Render("RANKING"))
	sb.WriteString("\n")
	sb.WriteString(s.Muted.Render(fmt.Sprintf("%4s  %-24s %-9s %6s %6s  %s", "RANK", "SCENARIO", "TIER", "SCORE", "RPN", "GROUP")))
	sb.WriteString("\n")

	rows := r.Ranked
	if w.opts.Top > 0 && len(rows) > w.opts.Top {
		rows = rows[:w.opts.Top]
	}
	for _, p := range rows {
		rpn := r.Assessments[p.ScenarioID].Risk.RPN
		tier := s.tier(p.Tier).Render(fmt.Sprintf("%-9s", p.Tier))
		sb.WriteString(fmt.Sprintf("%4d  %-24s %s %6.3f %6.1f  %s\n",
			p.Rank, truncate(p.ScenarioID, 24), tier, p.CompositeScore, rpn, p.ExecutionGroup))
	}
	if len(rows) < len(r.Ranked) {
		sb.WriteString(s.Muted.Render(fmt.Sprintf("  ... %d more", len(r.Ranked)-len(rows))))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(s.Header.Render("SCHEDULE"))
	sb.WriteString("\n")
	if len(r.Schedule.SmokeTests) > 0 {
		sb.WriteString(fmt.Sprintf("  smoke: %s\n", strings.Join(r.Schedule.SmokeTests, ", ")))
	}
	for _, g := range r.Schedule.ParallelGroups {
		sb.WriteString(fmt.Sprintf("  %-15s %s\n", g.Group+":", strings.Join(g.ScenarioIDs, ", ")))
	}
	sb.WriteString(s.Muted.Render(fmt.Sprintf("  total %.0fs, parallel %.0fs on %d workers",
		r.Schedule.EstimatedTotalTime, r.Schedule.EstimatedParallelTime, r.Schedule.Workers)))
	sb.WriteString("\n")

	issues := append(append([]Issue{}, r.Rejected...), r.Warnings...)
	if len(issues) > 0 {
		sb.WriteString("\n")
		sb.WriteString(s.Header.Render("ISSUES"))
		sb.WriteString("\n")
		for _, i := range issues {
			sb.WriteString(s.Warning.Render(fmt.Sprintf("  [%s] %s", i.Code, i.Message)))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// CountByGroup tallies ranked scenarios per execution group.
func CountByGroup(ranked []prioritize.Scenario) map[prioritize.Group]int {
	out := make(map[prioritize.Group]int)
	for _, p := range ranked {
		out[p.ExecutionGroup]++
	}
	return out
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
