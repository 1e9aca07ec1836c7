// Package report renders the engine's batch analyses as deterministic,
// preformatted text. Section order, severity glyphs, and numeric rounding
// are fixed (one decimal for hours, integer percentages) so output is
// stable under golden tests. Nothing here colorizes; CLI commands layer
// color on top without changing the text.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/projectnexus/taskpilot/internal/engine"
)

// severityGlyphs are the fixed markers used in bottleneck output.
var severityGlyphs = map[engine.Severity]string{
	engine.SeverityHigh:   "[!!]",
	engine.SeverityMedium: "[! ]",
	engine.SeverityLow:    "[ .]",
}

// Workload renders the team workload summary in roster order.
func Workload(workloads []engine.WorkloadResult) string {
	var b strings.Builder
	writeHeader(&b, "Team Workload")

	if len(workloads) == 0 {
		b.WriteString("No team members found.\n")
		return b.String()
	}

	for _, w := range workloads {
		usedPct := w.TotalEstimatedHours / engine.WeeklyCapacityHours * 100
		fmt.Fprintf(&b, "%s: %d active %s, %.1fh of %.0fh (%.0f%% capacity)",
			w.Member.Name, w.ActiveTasks, plural(w.ActiveTasks, "task", "tasks"),
			w.TotalEstimatedHours, engine.WeeklyCapacityHours, usedPct)
		switch {
		case w.Overloaded:
			b.WriteString(" OVERLOADED")
		case w.AtRisk:
			b.WriteString(" AT RISK")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Priorities renders issues ranked by descending priority score, stable
// on ties, with each issue's contributing reasons in evaluation order.
func Priorities(scores []engine.PriorityScore) string {
	var b strings.Builder
	writeHeader(&b, "Task Priorities")

	if len(scores) == 0 {
		b.WriteString("No issues found.\n")
		return b.String()
	}

	ranked := append([]engine.PriorityScore{}, scores...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	for i, score := range ranked {
		fmt.Fprintf(&b, "%d. %s [%s %d] %s",
			i+1, score.Issue.Key, score.Tier, score.Score, score.Issue.Summary)
		if len(score.Reasons) > 0 {
			fmt.Fprintf(&b, " - %s", strings.Join(score.Reasons, "; "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Bottlenecks renders detected risks with fixed severity glyphs; the
// input is already severity-sorted by the engine and the order is kept.
func Bottlenecks(risks []engine.Bottleneck) string {
	var b strings.Builder
	writeHeader(&b, "Bottleneck Report")

	if len(risks) == 0 {
		b.WriteString("No bottlenecks detected.\n")
		return b.String()
	}

	for _, risk := range risks {
		fmt.Fprintf(&b, "%s %s: %s\n", severityGlyphs[risk.Severity], risk.Type, risk.Description)
		fmt.Fprintf(&b, "     recommendation: %s\n", risk.Recommendation)
	}
	return b.String()
}

// Allocations renders a batch allocation result in input order, including
// issues for which no allocation was possible.
func Allocations(results []engine.BatchAllocation) string {
	var b strings.Builder
	writeHeader(&b, "Allocation Suggestions")

	if len(results) == 0 {
		b.WriteString("No unassigned issues found.\n")
		return b.String()
	}

	for _, result := range results {
		if result.Allocation == nil {
			fmt.Fprintf(&b, "%s: no allocation possible (no skills derivable)\n", result.Issue.Key)
			continue
		}
		fmt.Fprintf(&b, "%s -> %s (%.0f%% confidence)\n",
			result.Issue.Key, result.Allocation.Assignee.Name, result.Allocation.Confidence)
		fmt.Fprintf(&b, "     %s\n", result.Allocation.Rationale)
	}
	return b.String()
}

func writeHeader(b *strings.Builder, title string) {
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n")
}

func plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
