package cmd

import (
	"os"

	"github.com/fatih/color"
	"github.com/hvmanager/iconconv/config"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check iconconv environment and configuration",
	Long:  `Check iconconv environment and configuration to ensure everything is set up correctly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Color setup
		green := color.New(color.FgGreen)
		red := color.New(color.FgRed)
		yellow := color.New(color.FgYellow)
		bold := color.New(color.Bold)

		allOK := true

		// 1. Check configuration file (optional)
		cmd.Print("🔧 Checking configuration file ... ")

		if _, err := config.Load(profile); err != nil {
			yellow.Println("⚠️ CONFIG ERROR")
			cmd.Printf("   Error loading config: %v\n", err)
			allOK = false
		} else {
			green.Println("✓ OK")
		}

		c, err := newConverter(nil)
		if err != nil {
			return err
		}

		// 2. Check source directory
		cmd.Print("🔍 Checking source directory ... ")

		srcBase := c.SourceDir()
		if fi, err := os.Stat(srcBase); err != nil || !fi.IsDir() {
			red.Println("✗ NOT FOUND")
			cmd.Printf("   Expected at: %s\n", srcBase)
			allOK = false
		} else {
			green.Println("✓ OK")
			cmd.Printf("   Source directory: %s\n", srcBase)
		}

		// 3. Check source icons
		cmd.Print("🖼  Checking source icons ... ")

		var missing []string
		for _, name := range c.Icons() {
			if _, err := os.Stat(c.SourcePath(name)); err != nil {
				missing = append(missing, name)
			}
		}
		switch {
		case len(missing) == len(c.Icons()):
			red.Println("✗ NONE FOUND")
			allOK = false
		case len(missing) > 0:
			yellow.Printf("⚠️ %d MISSING\n", len(missing))
			for _, name := range missing {
				cmd.Printf("   missing: %s\n", c.SourcePath(name))
			}
		default:
			green.Println("✓ OK")
		}

		// 4. Check output directory is writable
		cmd.Print("📁 Checking output directory ... ")

		outBase := c.OutDir()
		if err := os.MkdirAll(outBase, 0o755); err != nil {
			red.Println("✗ NOT WRITABLE")
			cmd.Printf("   %v\n", err)
			allOK = false
		} else {
			probe, err := os.CreateTemp(outBase, ".iconconv-*")
			if err != nil {
				red.Println("✗ NOT WRITABLE")
				cmd.Printf("   %v\n", err)
				allOK = false
			} else {
				_ = probe.Close()
				_ = os.Remove(probe.Name())
				green.Println("✓ OK")
				cmd.Printf("   Output directory: %s\n", outBase)
			}
		}

		// Final message
		cmd.Println()
		if allOK {
			bold.Printf("🎉 ")
			green.Print("All checks passed! You are ready to use iconconv")
			bold.Println(".")
			cmd.Println()
			cmd.Println("Run the batch:")
			yellow.Println("  iconconv convert")
		} else {
			red.Println("⚠️  Setup is incomplete.")
			cmd.Println()
			showSetupHelp(cmd)
		}

		return nil
	},
}

func showSetupHelp(cmd *cobra.Command) {
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)

	bold.Println("📚 Setup Guide")
	cmd.Println()
	cmd.Println("iconconv expects the manager resource layout:")
	cmd.Println()
	cyan.Println("  src/manager/resources/material/<name>.png   (sources)")
	cyan.Println("  src/manager/resources/<name>.bmp            (generated)")
	cmd.Println()
	cmd.Println("Use --src/--out or a config file to point elsewhere:")
	cmd.Println()
	cyan.Println("  # $XDG_CONFIG_HOME/iconconv/config.yml")
	cyan.Println("  source: path/to/material")
	cyan.Println("  out: path/to/resources")
	cyan.Println("  icons: [new_vm, edit, delete, start, stop, reboot, shutdown]")
	cmd.Println()
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().StringVarP(&srcDir, "src", "s", "", "source directory containing <name>.png files")
	doctorCmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory for <name>.bmp files")
}
