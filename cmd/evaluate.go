package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/engpractice/internal/evalclient"
	"github.com/abhisek/engpractice/internal/practice"
	"github.com/abhisek/engpractice/internal/progress"
	"github.com/abhisek/engpractice/internal/ui/report"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Send writing or a speaking transcript for AI evaluation",
}

var evaluateWritingCmd = &cobra.Command{
	Use:   "writing",
	Short: "Evaluate a piece of writing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sub, err := readSubmission(cmd)
		if err != nil {
			return err
		}
		if sub.exercise > 0 {
			p, err := pick(practice.WritingPrompts, sub.exercise)
			if err != nil {
				return err
			}
			sub.prompt, sub.level = orDefault(sub.prompt, p.Prompt), orDefault(sub.level, p.Level)
			if !cmd.Flags().Changed("min-words") {
				sub.minWords = p.MinWords
			}
		}
		if words := practice.CountWords(sub.content); words < sub.minWords {
			return fmt.Errorf("%w: write at least %d words (got %d)", practice.ErrDraftTooShort, sub.minWords, words)
		}

		client := newEvalClient()
		start := time.Now()
		result, err := client.EvaluateWriting(cmd.Context(), sub.content, sub.prompt, sub.level)
		if err != nil {
			return describeEvalError(client, err)
		}
		fmt.Fprintln(styledOut(cmd), report.Writing(result))

		return recordEvaluation(cmd, progress.Writing, result.Score, sub.spent(time.Since(start)))
	},
}

var evaluateSpeakingCmd = &cobra.Command{
	Use:   "speaking",
	Short: "Evaluate a speaking transcript",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sub, err := readSubmission(cmd)
		if err != nil {
			return err
		}
		if sub.exercise > 0 {
			e, err := pick(practice.SpeakingExercises, sub.exercise)
			if err != nil {
				return err
			}
			sub.prompt, sub.level = orDefault(sub.prompt, e.Prompt), orDefault(sub.level, e.Level)
		}

		client := newEvalClient()
		start := time.Now()
		result, err := client.EvaluateSpeaking(cmd.Context(), sub.content, sub.prompt, sub.level)
		if err != nil {
			return describeEvalError(client, err)
		}
		fmt.Fprintln(styledOut(cmd), report.Speaking(result))

		return recordEvaluation(cmd, progress.Speaking, result.Score, sub.spent(time.Since(start)))
	},
}

type submission struct {
	content  string
	prompt   string
	level    string
	exercise int
	minWords int
	minutes  int
}

// spent is the practice time to credit: --minutes when given, otherwise
// the wall time of the evaluation.
func (s submission) spent(elapsed time.Duration) time.Duration {
	if s.minutes > 0 {
		return time.Duration(s.minutes) * time.Minute
	}
	return elapsed
}

func readSubmission(cmd *cobra.Command) (submission, error) {
	var sub submission
	sub.prompt, _ = cmd.Flags().GetString("prompt")
	sub.level, _ = cmd.Flags().GetString("level")
	sub.exercise, _ = cmd.Flags().GetInt("exercise")
	sub.minutes, _ = cmd.Flags().GetInt("minutes")
	if cmd.Flags().Lookup("min-words") != nil {
		sub.minWords, _ = cmd.Flags().GetInt("min-words")
	}

	file, _ := cmd.Flags().GetString("file")
	var (
		data []byte
		err  error
	)
	if file == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return sub, fmt.Errorf("read submission: %w", err)
	}
	sub.content = strings.TrimSpace(string(data))
	return sub, nil
}

func pick[T any](items []T, n int) (T, error) {
	var zero T
	if n < 1 || n > len(items) {
		return zero, fmt.Errorf("exercise %d does not exist (1-%d)", n, len(items))
	}
	return items[n-1], nil
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func newEvalClient() *evalclient.Client {
	base := cfg.Client.BaseURL
	if env := os.Getenv("ENGPRACTICE_SERVER"); env != "" {
		base = env
	}
	return evalclient.New(base,
		evalclient.WithTimeout(cfg.Client.Timeout),
		evalclient.WithLogger(log.Named("evalclient")))
}

// describeEvalError adds a hint for failures a user can fix.
func describeEvalError(client *evalclient.Client, err error) error {
	var (
		missing *evalclient.MissingFieldError
		network *evalclient.NetworkError
	)
	switch {
	case errors.As(err, &missing):
		return fmt.Errorf("%w (use --%s)", err, flagFor(missing.Field))
	case errors.As(err, &network):
		return fmt.Errorf("%w (is `engpractice serve` running at %s?)", err, client.BaseURL())
	}
	return err
}

func flagFor(field string) string {
	if field == "content" {
		return "file"
	}
	return field
}

func recordEvaluation(cmd *cobra.Command, skill progress.Skill, score float64, spent time.Duration) error {
	if noRecord, _ := cmd.Flags().GetBool("no-record"); noRecord {
		return nil
	}
	tr, st, err := openTracker(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	s, err := practice.RecordEvaluation(cmd.Context(), tr, skill, score, spent)
	if err != nil {
		return err
	}
	log.Debug("evaluation recorded",
		zap.String("skill", string(skill)),
		zap.Float64("score", score),
		zap.Int("overall", s.OverallProgress))
	fmt.Fprintf(cmd.OutOrStdout(), "%s is now %d/100 (overall %d%%).\n", skill, s.Skills.Get(skill), s.OverallProgress)
	return nil
}

func init() {
	for _, c := range []*cobra.Command{evaluateWritingCmd, evaluateSpeakingCmd} {
		c.Flags().StringP("file", "f", "-", "File holding the submission, - for stdin")
		c.Flags().String("prompt", "", "The task the submission answers")
		c.Flags().String("level", "", "Learner level, e.g. Beginner, Intermediate, Advanced")
		c.Flags().IntP("exercise", "e", 0, "Use prompt and level from a built-in exercise (see `practice prompts`)")
		c.Flags().Int("minutes", 0, "Practice minutes to credit (default: time spent waiting for the evaluation)")
		c.Flags().Bool("no-record", false, "Do not update progress")
		evaluateCmd.AddCommand(c)
	}
	evaluateWritingCmd.Flags().Int("min-words", 0, "Refuse writing shorter than this many words")
}
