package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const initMain = `fn main() {
    println("hello from zephyr")
}
`

var initCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Scaffold a new Zephyr project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := os.MkdirAll(filepath.Join(name, "src"), 0o755); err != nil {
			return err
		}

		manifestPath := filepath.Join(name, "zephyr.toml")
		if _, err := os.Stat(manifestPath); err == nil {
			return fmt.Errorf("%s already exists", manifestPath)
		}
		manifest := fmt.Sprintf("[package]\nname = %q\nversion = \"0.1.0\"\n\n[build]\nsrc = \"src\"\nout = \"target\"\n", name)
		if err := os.WriteFile(manifestPath, []byte(manifest), 0o644); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(name, "src", "main.zp"), []byte(initMain), 0o644); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created project %s\n", name)
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n  %s\n", manifestPath, filepath.Join(name, "src", "main.zp"))
		return nil
	},
}
