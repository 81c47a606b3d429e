// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/alvazir/jobasha-sub000/internal/compare"
	"github.com/alvazir/jobasha-sub000/pkg/esp"
	"github.com/alvazir/jobasha-sub000/pkg/types"

	"github.com/spf13/cobra"
)

// newCompareCommand creates `jobasha compare`, which diffs the leveled lists
// of two plugins and exits with status 3 when they differ.
func newCompareCommand(app *App) *cobra.Command {
	var common bool
	compareCmd := &cobra.Command{
		Use:   "compare <fresh> <peer>",
		Short: "Show how the leveled lists of two plugins differ",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fresh, err := esp.Load(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			res := compare.ComparePath(fresh, args[1], compare.Options{Common: common})

			switch {
			case res.Unavailable != "":
				fmt.Fprintln(app.stdout, WarningStyle.Render(res.Unavailable))
				return nil
			case res.Equal():
				fmt.Fprintf(app.stdout, "%s %s and %s have the same lists\n",
					SuccessStyle.Render("✓"), PathStyle.Render(args[0]), PathStyle.Render(args[1]))
				return nil
			}

			for _, bug := range res.Bugs {
				fmt.Fprintln(app.stdout, ErrorStyle.Render("! ")+bug)
			}
			for _, line := range res.Lines() {
				fmt.Fprintln(app.stdout, renderDiffLine(line))
			}
			fmt.Fprintln(app.stdout, SubtitleStyle.Render(res.SummaryLine()))
			cmd.SilenceUsage = true
			return &ExitError{Code: types.ExitDifferences}
		},
	}
	compareCmd.Flags().BoolVar(&common, "common", false, "report only size changes of shared masters")
	return compareCmd
}
