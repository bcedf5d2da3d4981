package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"zephyr/internal/version"
)

// buildMetadata is everything a binary knows about itself. Release builds
// stamp the git and date fields via -ldflags; dev builds leave them empty.
type buildMetadata struct {
	Version    string `json:"version"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
}

var (
	versionJSON  bool
	versionShort bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "emit machine-readable version info")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print the bare version number")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the zephyr version and build metadata",
	RunE: func(cmd *cobra.Command, args []string) error {
		meta := currentBuildMetadata()
		out := cmd.OutOrStdout()
		switch {
		case versionShort:
			fmt.Fprintln(out, meta.Version)
			return nil
		case versionJSON:
			return writeVersionJSON(out, meta)
		default:
			writeVersionPretty(out, meta)
			return nil
		}
	},
}

func currentBuildMetadata() buildMetadata {
	v := strings.TrimSpace(version.Version)
	if v == "" {
		v = "dev"
	}
	return buildMetadata{
		Version:    v,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
		GitCommit:  strings.TrimSpace(version.GitCommit),
		GitMessage: strings.TrimSpace(version.GitMessage),
		BuildDate:  strings.TrimSpace(version.BuildDate),
	}
}

// Pretty output shows only what the build recorded: a dev binary prints a
// single line, a stamped release adds its commit and date.
func writeVersionPretty(out io.Writer, meta buildMetadata) {
	fmt.Fprintf(out, "zephyr %s (%s, %s)\n", meta.Version, meta.GoVersion, meta.Platform)
	if meta.GitCommit != "" {
		commit := meta.GitCommit
		if meta.GitMessage != "" {
			commit += " (" + firstLine(meta.GitMessage) + ")"
		}
		fmt.Fprintf(out, "  commit: %s\n", commit)
	}
	if meta.BuildDate != "" {
		fmt.Fprintf(out, "  built:  %s\n", meta.BuildDate)
	}
}

func writeVersionJSON(out io.Writer, meta buildMetadata) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
