package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/engpractice/internal/practice"
	"github.com/abhisek/engpractice/internal/progress"
	"github.com/abhisek/engpractice/internal/ui/theme"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Record finished exercises",
}

var practiceQuizCmd = &cobra.Command{
	Use:   "quiz <reading|listening>",
	Short: "Record a reading or listening quiz result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		skill, err := progress.ParseSkill(args[0])
		if err != nil {
			return err
		}
		correct, _ := cmd.Flags().GetInt("correct")
		total, _ := cmd.Flags().GetInt("total")
		audio, _ := cmd.Flags().GetDuration("duration")

		tr, st, err := openTracker(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		s, err := practice.RecordQuiz(cmd.Context(), tr, practice.QuizResult{
			Skill:    skill,
			Correct:  correct,
			Total:    total,
			Duration: audio,
		})
		if err != nil {
			return err
		}
		return printState(cmd, s)
	},
}

var practiceDraftCmd = &cobra.Command{
	Use:   "draft <writing|speaking>",
	Short: "Record a writing or speaking draft without evaluation",
	Long: "Record a draft. Writing is scored by words written against --target words " +
		"and must reach the target; speaking by --seconds spoken against --target seconds.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		skill, err := progress.ParseSkill(args[0])
		if err != nil {
			return err
		}
		target, _ := cmd.Flags().GetInt("target")
		minutes, _ := cmd.Flags().GetInt("minutes")

		d := practice.Draft{Skill: skill, Target: target, Spent: time.Duration(minutes) * time.Minute}
		switch skill {
		case progress.Writing:
			sub, err := readSubmission(cmd)
			if err != nil {
				return err
			}
			d.Achieved = practice.CountWords(sub.content)
		default:
			d.Achieved, _ = cmd.Flags().GetInt("seconds")
			if minutes == 0 {
				d.Spent = time.Duration(d.Achieved) * time.Second
			}
		}

		tr, st, err := openTracker(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		s, err := practice.RecordDraft(cmd.Context(), tr, d)
		if err != nil {
			return err
		}
		return printState(cmd, s)
	},
}

var practicePromptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "List the built-in writing and speaking exercises",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := styledOut(cmd)

		fmt.Fprintln(out, theme.Title.Render("Writing"))
		for i, p := range practice.WritingPrompts {
			fmt.Fprintf(out, "%d. %s %s\n", i+1, theme.Heading.Render(p.Title),
				theme.Label.Render(fmt.Sprintf("(%s, %d+ words)", p.Level, p.MinWords)))
			fmt.Fprintf(out, "   %s\n", p.Prompt)
			for _, tip := range p.Tips {
				fmt.Fprintf(out, "   %s\n", theme.Hint.Render("- "+tip))
			}
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, theme.Title.Render("Speaking"))
		for i, e := range practice.SpeakingExercises {
			fmt.Fprintf(out, "%d. %s %s\n", i+1, theme.Heading.Render(e.Title),
				theme.Label.Render(fmt.Sprintf("(%s, %s)", e.Level, e.Duration)))
			fmt.Fprintf(out, "   %s\n", e.Prompt)
		}
		return nil
	},
}

func init() {
	practiceQuizCmd.Flags().Int("correct", 0, "Correct answers")
	practiceQuizCmd.Flags().Int("total", 0, "Number of questions")
	practiceQuizCmd.Flags().Duration("duration", 0, "Audio length for listening quizzes, e.g. 2m30s")
	_ = practiceQuizCmd.MarkFlagRequired("total")

	practiceDraftCmd.Flags().StringP("file", "f", "-", "Writing draft file, - for stdin")
	practiceDraftCmd.Flags().Int("target", 0, "Target word count (writing) or exercise length in seconds (speaking)")
	practiceDraftCmd.Flags().Int("seconds", 0, "Seconds spoken (speaking)")
	practiceDraftCmd.Flags().Int("minutes", 0, "Practice minutes to credit")
	_ = practiceDraftCmd.MarkFlagRequired("target")

	for _, c := range []*cobra.Command{practiceQuizCmd, practiceDraftCmd} {
		c.Flags().Bool("json", false, "Print state as JSON")
		practiceCmd.AddCommand(c)
	}
	practiceCmd.AddCommand(practicePromptsCmd)
}
