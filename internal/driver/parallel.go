package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"ormsynth/internal/config"
	"ormsynth/internal/pipeline"
)

// ListPrograms expands paths into program fixtures: files are kept as
// given, directories contribute every *.toml below them except the
// configuration manifest. The result is sorted and deduplicated.
func ListPrograms(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, ".toml") || d.Name() == config.FileName {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// AnalyzeFiles analyzes every program in parallel. Each program gets its own
// FileSet, diagnostics and analyzer; results are in the order of files.
func AnalyzeFiles(ctx context.Context, files []string, opts Options) ([]*Snapshot, error) {
	if len(files) == 0 {
		return nil, nil
	}
	for _, path := range files {
		pipeline.Emit(opts.Progress, pipeline.Event{Program: path, Status: pipeline.StatusQueued})
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]*Snapshot, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs(len(files)))
	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			snap, err := Analyze(gctx, path, opts)
			if err != nil {
				return err
			}
			results[i] = snap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
