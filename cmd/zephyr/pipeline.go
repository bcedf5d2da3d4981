package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"zephyr/internal/diagfmt"
	"zephyr/internal/driver"
	"zephyr/internal/ownership"
	"zephyr/internal/project"
	"zephyr/internal/source"
	"zephyr/internal/ui"
)

const noZephyrTomlMessage = "no zephyr.toml found\nplease specify a source file or directory explicitly, e.g.:\n  zephyr build path/to/src"

// buildTarget is what one invocation compiles: a list of units plus where
// the emitted Rust goes.
type buildTarget struct {
	Label  string
	Files  []string
	OutDir string
}

// resolveTarget maps the positional argument onto a target: a single .zp
// file, a directory of sources, or the enclosing zephyr.toml project.
func resolveTarget(arg string) (*buildTarget, error) {
	if arg != "" && filepath.Ext(arg) == ".zp" {
		if _, err := os.Stat(arg); err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", arg, err)
		}
		base := strings.TrimSuffix(filepath.Base(arg), ".zp")
		return &buildTarget{
			Label:  base,
			Files:  []string{arg},
			OutDir: filepath.Dir(arg),
		}, nil
	}

	startDir := arg
	if startDir == "" {
		startDir = "."
	}
	manifest, ok, err := project.LoadManifest(startDir)
	if err != nil {
		return nil, err
	}
	if ok {
		files, err := driver.ListSourceFiles(manifest.SrcDir())
		if err != nil {
			return nil, fmt.Errorf("listing sources in %s: %w", manifest.SrcDir(), err)
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no .zp files under %s", manifest.SrcDir())
		}
		return &buildTarget{
			Label:  manifest.Config.Package.Name,
			Files:  files,
			OutDir: manifest.OutDir(),
		}, nil
	}

	if arg != "" {
		info, err := os.Stat(arg)
		if err == nil && info.IsDir() {
			files, err := driver.ListSourceFiles(arg)
			if err != nil {
				return nil, err
			}
			if len(files) == 0 {
				return nil, fmt.Errorf("no .zp files under %s", arg)
			}
			return &buildTarget{
				Label:  filepath.Base(arg),
				Files:  files,
				OutDir: filepath.Join(arg, "target"),
			}, nil
		}
	}
	return nil, fmt.Errorf("%s", noZephyrTomlMessage)
}

// runPipeline compiles the target, renders diagnostics and, when write is
// set, writes the emitted Rust under the target's output directory.
func runPipeline(cmd *cobra.Command, arg string, jobs int, noCache bool, uiValue string, write bool) error {
	target, err := resolveTarget(arg)
	if err != nil {
		return err
	}

	colorValue, _ := cmd.Flags().GetString("color")
	useColor, err := readColorMode(colorValue)
	if err != nil {
		return err
	}
	quiet, _ := cmd.Flags().GetBool("quiet")
	maxDiags, _ := cmd.Flags().GetInt("max-diagnostics")
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	interner := source.NewInterner()
	registry := ownership.NewRegistry()
	ownership.SeedBuiltins(registry, interner)

	opts := driver.Options{
		Jobs:           jobs,
		MaxDiagnostics: maxDiags,
		Interner:       interner,
		Registry:       registry,
	}
	if !noCache {
		if cache, err := driver.OpenDiskCache("zephyr"); err == nil {
			opts.Cache = cache
		}
	}

	results, err := compileWithUI(target, opts, !quiet && shouldUseTUI(mode))
	if err != nil {
		return err
	}

	errCount := 0
	clones := 0
	for _, res := range results {
		clones += res.Clones
		if res.Bag.Len() > 0 {
			diagfmt.Pretty(cmd.OutOrStdout(), res.Bag, res.FileSet, diagfmt.PrettyOpts{
				Color:     useColor,
				ShowNotes: true,
			})
		}
		if res.Bag.HasErrors() {
			errCount++
		}
	}
	if errCount > 0 {
		return fmt.Errorf("%d of %d files failed to compile", errCount, len(results))
	}

	if write {
		if err := os.MkdirAll(target.OutDir, 0o755); err != nil {
			return err
		}
		for _, res := range results {
			out := driver.OutputPath(target.OutDir, res.Path)
			if err := os.WriteFile(out, []byte(res.Rust), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
		}
	}

	if !quiet {
		okColor := color.New(color.FgGreen, color.Bold)
		verb := "checked"
		if write {
			verb = "built"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d files, %d clones inserted\n",
			okColor.Sprint(verb), target.Label, len(results), clones)
	}
	return nil
}

// compileWithUI runs the compile, optionally behind the Bubble Tea
// progress view. The compile goroutine owns the events channel and closes
// it when done; Run returns once the model drains the close.
func compileWithUI(target *buildTarget, opts driver.Options, useTUI bool) ([]*driver.UnitResult, error) {
	if !useTUI {
		return driver.CompileUnits(context.Background(), target.Files, opts)
	}

	events := make(chan driver.Event, 64)
	opts.Events = events

	var results []*driver.UnitResult
	var compileErr error
	go func() {
		defer close(events)
		results, compileErr = driver.CompileUnits(context.Background(), target.Files, opts)
	}()

	prog := tea.NewProgram(ui.NewProgressModel("compiling "+target.Label, target.Files, events))
	if _, err := prog.Run(); err != nil {
		// Fall back to draining so the compile goroutine can finish.
		for range events {
		}
	}
	return results, compileErr
}
