package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/engpractice/internal/progress"
)

var progressResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset learner progress to zero",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errors.New("refusing to reset without --yes")
		}

		tr, st, err := openTracker(cmd, progress.DiscardCorrupt())
		if err != nil {
			return err
		}
		defer st.Close()

		s, err := tr.Reset(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Progress reset.")
		return printState(cmd, s)
	},
}

func init() {
	progressResetCmd.Flags().Bool("yes", false, "Confirm the reset")
}
