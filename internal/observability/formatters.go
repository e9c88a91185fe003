// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/interview-simulator/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintSessionStart outputs a summary of a newly created interview session.
func (p *Printer) PrintSessionStart(sessionID, role string, mode types.InterviewType, rounds []types.RoundType) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Session:  %s\n", sessionID))
	sb.WriteString(fmt.Sprintf("Role:     %s\n", role))
	sb.WriteString(fmt.Sprintf("Mode:     %s\n", mode))

	if len(rounds) > 0 {
		sb.WriteString("\nRounds:\n")
		for i, rt := range rounds {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, rt))
		}
	}

	p.printBox("INTERVIEW SESSION STARTED", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTranscript outputs a round's question/answer history. Unanswered
// questions are shown as pending, skipped ones as skipped.
func (p *Printer) PrintTranscript(roundType types.RoundType, history []types.QARecord) {
	if len(history) == 0 {
		return
	}

	var sb strings.Builder
	for i, qa := range history {
		sb.WriteString(fmt.Sprintf("Q%d: %s\n", i+1, qa.Question))
		switch {
		case qa.Answer == nil:
			sb.WriteString("    (pending)\n")
		case *qa.Answer == types.SkippedAnswer:
			sb.WriteString("    (skipped)\n")
		default:
			sb.WriteString(fmt.Sprintf("A%d: %s\n", i+1, *qa.Answer))
		}
	}

	title := fmt.Sprintf("TRANSCRIPT: %s", strings.ToUpper(string(roundType)))
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReport outputs the merged feedback report.
func (p *Printer) PrintReport(report *types.Report) {
	if report == nil || len(report.Rounds) == 0 {
		return
	}

	var sb strings.Builder

	labels := make([]string, 0, len(report.Rounds))
	for label := range report.Rounds {
		labels = append(labels, label)
	}

	count := min(len(labels), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s: %s\n", labels[i], scoreSummary(report.Rounds[labels[i]])))
	}
	if len(labels) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(labels)-maxItemsToShow))
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Avg confidence: %.2f\n", report.AverageConfidence))
	sb.WriteString(fmt.Sprintf("Avg focus:      %.2f\n", report.AverageFocus))

	p.printBox("INTERVIEW FEEDBACK", strings.TrimSuffix(sb.String(), "\n"))
}

// scoreSummary renders a round's score object as a single line.
func scoreSummary(scores any) string {
	switch s := scores.(type) {
	case types.BehavioralScores:
		return fmt.Sprintf("%.1f/5 %s", s.Overall, s.Summary)
	case types.SalesScores:
		return fmt.Sprintf("%.1f/5 %s", s.Overall, s.Summary)
	case types.CodingScores:
		return fmt.Sprintf("%.1f/5 %s", s.Overall, s.Summary)
	default:
		return fmt.Sprintf("%v", scores)
	}
}
