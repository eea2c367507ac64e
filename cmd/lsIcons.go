package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var lsIconsCmd = &cobra.Command{
	Use:   "ls-icons",
	Short: "list configured icons and whether their sources exist",
	Long:  `list configured icons and whether their sources exist.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newConverter(nil)
		if err != nil {
			return err
		}
		for _, name := range c.Icons() {
			if _, err := os.Stat(c.SourcePath(name)); err != nil {
				fmt.Printf("%s\t%s\n", name, color.YellowString("missing"))
				continue
			}
			fmt.Printf("%s\t%s\n", name, color.GreenString("ok"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lsIconsCmd)
	lsIconsCmd.Flags().StringVarP(&srcDir, "src", "s", "", "source directory containing <name>.png files")
}
