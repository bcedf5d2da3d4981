package main

import (
	"github.com/spf13/cobra"
)

var (
	buildJobs    int
	buildNoCache bool
	buildUI      string
)

func init() {
	buildCmd.Flags().IntVar(&buildJobs, "jobs", 0, "parallel unit compiles (0 = number of CPUs)")
	buildCmd.Flags().BoolVar(&buildNoCache, "no-cache", false, "disable the on-disk unit cache")
	buildCmd.Flags().StringVar(&buildUI, "ui", "auto", "interactive progress view (auto|on|off)")
}

var buildCmd = &cobra.Command{
	Use:   "build [path]",
	Short: "Compile Zephyr sources to Rust",
	Long: `Build compiles every .zp unit of the target and writes one .rs file per
unit into the output directory. The target is a single file, a source
directory, or the project found via zephyr.toml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}
		return runPipeline(cmd, arg, buildJobs, buildNoCache, buildUI, true)
	},
}
