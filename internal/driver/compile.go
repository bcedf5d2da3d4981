// Package driver runs the per-unit compile pipeline: lex, parse, ownership
// analysis, Rust emission. Each source file is one compilation unit with
// its own arenas; units share nothing but the interner and a snapshot of
// the base signature registry, so they can run in parallel.
package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"zephyr/internal/ast"
	"zephyr/internal/codegen"
	"zephyr/internal/diag"
	"zephyr/internal/lexer"
	"zephyr/internal/ownership"
	"zephyr/internal/parser"
	"zephyr/internal/project"
	"zephyr/internal/source"
)

type Options struct {
	// Jobs caps parallel unit compiles. Zero means NumCPU.
	Jobs int
	// MaxDiagnostics caps the per-unit bag. Zero means 256.
	MaxDiagnostics int
	// Interner shared across units. Nil allocates one per unit.
	Interner *source.Interner
	// Registry is the base signature registry; every unit analyzes against
	// its own snapshot. Nil means a fresh registry seeded with builtins.
	// A non-nil registry requires a non-nil Interner that produced its ids.
	Registry *ownership.Registry
	// Cache, when set, skips recompiling units whose content hash has a
	// clean cached result.
	Cache *DiskCache
	// Events receives progress notifications. Nil disables them.
	Events chan<- Event
}

// UnitResult is the outcome of compiling one source file.
type UnitResult struct {
	Path      string
	Rust      string
	Bag       *diag.Bag
	FileSet   *source.FileSet
	Unit      *ownership.UnitAnalysis
	Clones    int
	FromCache bool
}

func (o Options) maxDiags() int {
	if o.MaxDiagnostics <= 0 {
		return 256
	}
	return o.MaxDiagnostics
}

func (o Options) interner() *source.Interner {
	if o.Interner != nil {
		return o.Interner
	}
	return source.NewInterner()
}

func (o Options) registry(in *source.Interner) *ownership.Registry {
	if o.Registry != nil {
		return o.Registry.Snapshot()
	}
	reg := ownership.NewRegistry()
	ownership.SeedBuiltins(reg, in)
	return reg
}

// CompileFile runs the full pipeline on one file.
func CompileFile(path string, opts Options) (*UnitResult, error) {
	fileSet := source.NewFileSet()
	emit(opts.Events, Event{File: path, Stage: StageLex, Status: StatusWorking})
	id, err := fileSet.Load(path)
	if err != nil {
		emit(opts.Events, Event{File: path, Stage: StageLex, Status: StatusError})
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	file := fileSet.Get(id)

	if opts.Cache != nil {
		var payload CachePayload
		if hit, err := opts.Cache.Get(project.Digest(file.Hash), &payload); err == nil && hit {
			emit(opts.Events, Event{File: path, Stage: StageEmit, Status: StatusDone})
			return &UnitResult{
				Path:      path,
				Rust:      payload.Rust,
				Bag:       diag.NewBag(opts.maxDiags()),
				FileSet:   fileSet,
				Clones:    int(payload.Clones),
				FromCache: true,
			}, nil
		}
	}

	bag := diag.NewBag(opts.maxDiags())
	rep := diag.BagReporter{Bag: bag}
	in := opts.interner()
	builder := ast.NewBuilder(ast.Hints{}, in)

	emit(opts.Events, Event{File: path, Stage: StageParse, Status: StatusWorking})
	lx := lexer.New(file, lexer.Options{Reporter: rep})
	parsed := parser.ParseFile(lx, builder, parser.Options{Reporter: rep})

	emit(opts.Events, Event{File: path, Stage: StageAnalyze, Status: StatusWorking})
	reg := opts.registry(in)
	unit := ownership.AnalyzeUnit(builder, []ast.FileID{parsed.File}, reg, rep)

	emit(opts.Events, Event{File: path, Stage: StageEmit, Status: StatusWorking})
	rust := codegen.EmitUnit(builder, unit, []ast.FileID{parsed.File})

	clones := 0
	for _, fa := range unit.Functions {
		clones += fa.Clones
	}
	bag.Sort()
	bag.Dedup()

	res := &UnitResult{
		Path:    path,
		Rust:    rust,
		Bag:     bag,
		FileSet: fileSet,
		Unit:    unit,
		Clones:  clones,
	}
	if opts.Cache != nil && bag.Len() == 0 {
		storeInCache(opts.Cache, project.Digest(file.Hash), builder, res)
	}
	status := StatusDone
	if bag.HasErrors() {
		status = StatusError
	}
	emit(opts.Events, Event{File: path, Stage: StageEmit, Status: status})
	return res, nil
}

func storeInCache(cache *DiskCache, key project.Digest, builder *ast.Builder, res *UnitResult) {
	clones, err := safecast.Conv[uint32](res.Clones)
	if err != nil {
		return
	}
	payload := &CachePayload{
		Schema: cacheSchemaVersion,
		Source: res.Path,
		Rust:   res.Rust,
		Clones: clones,
	}
	for _, fa := range res.Unit.Functions {
		modes := make([]uint8, len(fa.Signature.Params))
		for i, p := range fa.Signature.Params {
			modes[i] = uint8(p.Mode)
		}
		payload.Functions = append(payload.Functions, CachedSignature{
			Name:     builder.Name(fa.Signature.Name),
			Modes:    modes,
			Variadic: fa.Signature.Variadic,
		})
	}
	// Best effort: a failed write just means a recompile next time.
	_ = cache.Put(key, payload)
}

// CompileUnits compiles paths in parallel, one unit per file. Results keep
// the input order regardless of completion order.
func CompileUnits(ctx context.Context, paths []string, opts Options) ([]*UnitResult, error) {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	for _, p := range paths {
		emit(opts.Events, Event{File: p, Stage: StageLex, Status: StatusQueued})
	}

	results := make([]*UnitResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			res, err := CompileFile(path, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ListSourceFiles returns all .zp files under dir, sorted for a stable
// compile order.
func ListSourceFiles(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".zp" {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// OutputPath maps a source path onto its emitted file under outDir.
func OutputPath(outDir, srcPath string) string {
	base := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	return filepath.Join(outDir, base+".rs")
}
