package main

import (
	"github.com/spf13/cobra"
)

var (
	checkJobs    int
	checkNoCache bool
	checkUI      string
)

func init() {
	checkCmd.Flags().IntVar(&checkJobs, "jobs", 0, "parallel unit compiles (0 = number of CPUs)")
	checkCmd.Flags().BoolVar(&checkNoCache, "no-cache", false, "disable the on-disk unit cache")
	checkCmd.Flags().StringVar(&checkUI, "ui", "auto", "interactive progress view (auto|on|off)")
}

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Run the full pipeline without writing output",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}
		return runPipeline(cmd, arg, checkJobs, checkNoCache, checkUI, false)
	},
}
