// Package report renders a session as the plain-text CRIS report.
package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spigell/cris/internal/readiness"
	"github.com/spigell/cris/internal/session"
)

const (
	// DefaultFileName is the export name used when none is configured.
	DefaultFileName = "cris_prototype_report.txt"

	noPlanLine = "- No study plan generated yet."
	none       = "None"
)

// Render formats the current state of s. The unified score and the next
// actions are derived at render time.
func Render(s *session.Session, date time.Time) string {
	var b strings.Builder

	b.WriteString("CRIS Prototype Report\n")
	fmt.Fprintf(&b, "Date: %s\n", date.Format(time.DateOnly))
	fmt.Fprintf(&b, "Target Career: %s\n", s.Career)

	b.WriteString("\nScores\n")
	fmt.Fprintf(&b, "- Academic Strength: %.2f%%\n", s.Scores.Academic)
	fmt.Fprintf(&b, "- Career Alignment: %.2f%%\n", s.Scores.Alignment)
	fmt.Fprintf(&b, "- Resume Skill Match: %.2f%%\n", s.Scores.Resume)
	fmt.Fprintf(&b, "- Unified Career Readiness: %.2f%%\n", s.Unified())

	b.WriteString("\nStudy Plan\n")
	if !s.HasPlan() {
		b.WriteString(noPlanLine + "\n")
	}
	for _, entry := range s.Plan {
		fmt.Fprintf(&b, "- %s: %.1f hrs/day\n", entry.Subject, entry.Hours)
	}

	b.WriteString("\nResume Skills Detected\n")
	fmt.Fprintf(&b, "- %s\n", joinOrNone(s.ResumeMatched))

	b.WriteString("\nSkill Gaps\n")
	fmt.Fprintf(&b, "- %s\n", joinOrNone(s.ResumeMissing))

	b.WriteString("\nTop 3 Next Actions\n")
	for _, action := range readiness.NextActions(s.Scores) {
		fmt.Fprintf(&b, "- %s\n", action)
	}

	return b.String()
}

// Export writes the report as a UTF-8 text file.
func Export(path, report string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultFileName
	}

	if err := os.WriteFile(path, []byte(report), 0o644); err != nil {
		return fmt.Errorf("export report to %q: %w", path, err)
	}

	return nil
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return none
	}
	return strings.Join(items, ", ")
}
