package cmd

import (
	"fmt"

	"github.com/hvmanager/iconconv"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "check that the generated BMPs still match their PNG sources",
	Long: `check that the generated BMPs still match their PNG sources.

Every configured icon is regenerated in memory and compared against the
bitmap on disk. Nothing is written. The command fails if any bitmap is
out of date.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger, err := newLogger()
		if err != nil {
			return err
		}
		c, err := newConverter(logger)
		if err != nil {
			return err
		}
		entries, err := c.Verify(ctx)
		if err != nil {
			return err
		}
		var outdated int
		for _, e := range entries {
			switch e.State {
			case iconconv.StateStale, iconconv.StateDiverged, iconconv.StateMissingOutput:
				outdated++
			}
		}
		if outdated > 0 {
			return fmt.Errorf("%d of %d icons are out of date, run `iconconv convert`", outdated, len(entries))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVarP(&srcDir, "src", "s", "", "source directory containing <name>.png files")
	verifyCmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory for <name>.bmp files")
	verifyCmd.Flags().StringSliceVarP(&only, "icon", "i", nil, "icon to verify (repeatable, default: all configured)")
}
