package cmd

import (
	"github.com/spf13/cobra"
)

var watch bool

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "convert PNG icons to 48x48 color-keyed BMPs",
	Long: `convert PNG icons to 48x48 color-keyed BMPs.

Each configured <name>.png is resized to 48x48, its alpha channel is
thresholded to a hard mask, near-black pixels are lifted to dark gray,
and the result is composited onto a magenta canvas and written as
<name>.bmp. Missing sources are skipped; they count as failures in the
summary but do not fail the command.`,
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
		if _, err := c.ConvertAll(ctx); err != nil {
			return err
		}
		if watch {
			return c.Watch(ctx)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVarP(&srcDir, "src", "s", "", "source directory containing <name>.png files")
	convertCmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory for <name>.bmp files")
	convertCmd.Flags().StringSliceVarP(&only, "icon", "i", nil, "icon to convert (repeatable, default: all configured)")
	convertCmd.Flags().BoolVarP(&watch, "watch", "w", false, "watch the source directory and reconvert on change")
}
