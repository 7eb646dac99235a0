package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/engpractice/internal/progress"
	"github.com/abhisek/engpractice/internal/store"
	"github.com/abhisek/engpractice/internal/ui/report"
)

// openTracker opens the store and loads the persisted progress. The caller
// closes the returned store.
func openTracker(cmd *cobra.Command, opts ...progress.Option) (*progress.Tracker, *store.Store, error) {
	st, err := openStore(cmd)
	if err != nil {
		return nil, nil, err
	}
	opts = append([]progress.Option{progress.WithLogger(log.Named("progress"))}, opts...)
	tr, err := progress.Open(cmd.Context(), st.BlobRepo(), opts...)
	if err != nil {
		st.Close()
		if errors.Is(err, progress.ErrCorruptState) {
			return nil, nil, fmt.Errorf("load progress: %w (run `engpractice progress reset --yes` to start over)", err)
		}
		return nil, nil, fmt.Errorf("load progress: %w", err)
	}
	return tr, st, nil
}

// printState renders s as a report card, or as JSON with --json.
func printState(cmd *cobra.Command, s progress.State) error {
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
	_, err := fmt.Fprintln(styledOut(cmd), report.Progress(s))
	return err
}

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show or change learner progress",
}

var progressShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current progress",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tr, st, err := openTracker(cmd)
		if err != nil {
			return err
		}
		defer st.Close()
		return printState(cmd, tr.State())
	},
}

var progressUpdateCmd = &cobra.Command{
	Use:   "update <skill> <value>",
	Short: "Set a skill score (0-100)",
	Long:  "Set a skill score. Skills: reading, writing, listening, speaking. Values outside 0-100 are clamped.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		skill, err := progress.ParseSkill(args[0])
		if err != nil {
			return err
		}
		value, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid value %q: %w", args[1], err)
		}

		tr, st, err := openTracker(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		s, err := tr.UpdateProgress(cmd.Context(), skill, value)
		if err != nil {
			return err
		}
		return printState(cmd, s)
	},
}

var progressTimeCmd = &cobra.Command{
	Use:   "time <minutes>",
	Short: "Add practice minutes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		minutes, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid minutes %q: %w", args[0], err)
		}

		tr, st, err := openTracker(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		s, err := tr.AddTime(cmd.Context(), minutes)
		if err != nil {
			return err
		}
		return printState(cmd, s)
	},
}

var progressCompleteCmd = &cobra.Command{
	Use:   "complete",
	Short: "Record one completed activity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tr, st, err := openTracker(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		before := tr.State().Achievements
		s, err := tr.CompleteActivity(cmd.Context())
		if err != nil {
			return err
		}
		if s.Achievements > before {
			fmt.Fprintf(cmd.OutOrStdout(), "New achievement: %s\n", progress.AchievementLabel(s.Achievements))
		}
		return printState(cmd, s)
	},
}

func init() {
	for _, c := range []*cobra.Command{progressShowCmd, progressUpdateCmd, progressTimeCmd, progressCompleteCmd, progressResetCmd} {
		c.Flags().Bool("json", false, "Print state as JSON")
		progressCmd.AddCommand(c)
	}
}
