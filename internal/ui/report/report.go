// Package report renders progress and evaluation results for the terminal.
package report

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/engpractice/internal/evaluation"
	"github.com/abhisek/engpractice/internal/progress"
	"github.com/abhisek/engpractice/internal/ui/components"
	"github.com/abhisek/engpractice/internal/ui/theme"
)

// Width is the rendered width of a report card.
const Width = 60

var skillNames = map[progress.Skill]string{
	progress.Reading:   "Reading",
	progress.Writing:   "Writing",
	progress.Listening: "Listening",
	progress.Speaking:  "Speaking",
}

// Progress renders the learner's progress card.
func Progress(s progress.State) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("English Practice Progress") + "\n\n")

	overall := components.ProgressBar{
		Label:       "Overall",
		LabelWidth:  10,
		Percent:     float64(s.OverallProgress) / 100,
		ShowPercent: true,
		Width:       Width - 4,
	}
	b.WriteString(overall.View() + "\n\n")

	for _, sk := range progress.Skills {
		bar := components.ProgressBar{
			Label:       skillNames[sk],
			LabelWidth:  10,
			Percent:     float64(s.Skills.Get(sk)) / 100,
			ShowPercent: true,
			Width:       Width - 4,
		}
		b.WriteString(bar.View() + "\n")
	}
	b.WriteString("\n")

	b.WriteString(field("Activities", fmt.Sprintf("%d", s.TotalCompleted)))
	b.WriteString(field("Practice time", formatMinutes(s.TotalTime)))

	badge := progress.AchievementLabel(s.Achievements)
	if badge == "" {
		badge = "none yet"
	} else {
		badge = theme.Badge.Render(badge) + theme.Label.Render(fmt.Sprintf(" (%d)", s.Achievements))
	}
	b.WriteString(field("Achievement", badge))

	if next, ok := progress.NextMilestone(s.TotalCompleted); ok {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("%d more to reach %s", next-s.TotalCompleted, progress.AchievementLabel(next))))
	}

	return theme.Card.Width(Width).Render(strings.TrimRight(b.String(), "\n"))
}

// Writing renders a writing rubric.
func Writing(e *evaluation.WritingEvaluation) string {
	var b strings.Builder
	b.WriteString(score("Writing evaluation", e.Score))

	section(&b, "Grammar", e.Grammar.Assessment,
		list("Errors", e.Grammar.Errors),
		list("Examples", e.Grammar.Examples))
	section(&b, "Vocabulary", e.Vocabulary.Assessment,
		list("Strengths", e.Vocabulary.Strengths),
		list("Suggestions", e.Vocabulary.Suggestions))
	section(&b, "Structure", e.Structure.Assessment,
		list("Strengths", e.Structure.Strengths),
		list("Improvements", e.Structure.Improvements))
	section(&b, "Content", e.Content.Assessment, line("Relevance", e.Content.Relevance))
	section(&b, "Overall", "",
		list("Strengths", e.Overall.Strengths),
		list("Improvements", e.Overall.Improvements),
		list("Next steps", e.Overall.NextSteps))
	feedback(&b, e.Feedback)

	return theme.Card.Width(Width).Render(strings.TrimRight(b.String(), "\n"))
}

// Speaking renders a speaking rubric.
func Speaking(e *evaluation.SpeakingEvaluation) string {
	var b strings.Builder
	b.WriteString(score("Speaking evaluation", e.Score))

	section(&b, "Pronunciation", e.Pronunciation.Assessment,
		list("Strengths", e.Pronunciation.Strengths),
		list("Issues", e.Pronunciation.Issues),
		list("Suggestions", e.Pronunciation.Suggestions))
	section(&b, "Fluency", e.Fluency.Assessment,
		line("Pace", e.Fluency.Pace),
		line("Hesitations", e.Fluency.Hesitations),
		list("Suggestions", e.Fluency.Suggestions))
	section(&b, "Grammar", e.Grammar.Assessment,
		list("Errors", e.Grammar.Errors),
		list("Suggestions", e.Grammar.Suggestions))
	section(&b, "Vocabulary", e.Vocabulary.Assessment,
		list("Strengths", e.Vocabulary.Strengths),
		list("Suggestions", e.Vocabulary.Suggestions))
	section(&b, "Content", e.Content.Assessment,
		line("Relevance", e.Content.Relevance),
		line("Ideas", e.Content.Ideas))
	section(&b, "Overall", "",
		list("Strengths", e.Overall.Strengths),
		list("Improvements", e.Overall.Improvements),
		list("Practice", e.Overall.PracticeSuggestions))
	feedback(&b, e.Feedback)

	return theme.Card.Width(Width).Render(strings.TrimRight(b.String(), "\n"))
}

func score(title string, v float64) string {
	n := int(v + 0.5)
	return theme.Title.Render(title) + "  " +
		theme.ScoreStyle(n).Render(fmt.Sprintf("%d/100", n)) + "\n\n"
}

func field(label, value string) string {
	return theme.Label.Render(fmt.Sprintf("%-14s", label)) + value + "\n"
}

// section writes a heading, an optional assessment and the non-empty
// parts. Sections with nothing to show are skipped.
func section(b *strings.Builder, heading, assessment string, parts ...string) {
	var body []string
	if assessment != "" {
		body = append(body, theme.Body.Render(assessment))
	}
	for _, p := range parts {
		if p != "" {
			body = append(body, p)
		}
	}
	if len(body) == 0 {
		return
	}
	b.WriteString(theme.Heading.Render(heading) + "\n")
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, body...) + "\n\n")
}

func list(label string, items []string) string {
	if len(items) == 0 {
		return ""
	}
	lines := []string{theme.Label.Render(label + ":")}
	for _, it := range items {
		lines = append(lines, "  • "+it)
	}
	return strings.Join(lines, "\n")
}

func line(label, value string) string {
	if value == "" {
		return ""
	}
	return theme.Label.Render(label+": ") + value
}

func feedback(b *strings.Builder, text string) {
	if text == "" {
		return
	}
	b.WriteString(theme.Heading.Render("Feedback") + "\n")
	b.WriteString(theme.Body.Render(text) + "\n")
}

func formatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", m/60, m%60)
}
