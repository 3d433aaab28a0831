// Package workspace detects Genesis projects and lists the entities,
// models and repositories they declare.
package workspace

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"promptbox/model"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	EntitiesDir     = "Compartido.Entidades"
	ModelsDir       = "Compartido.Modelos"
	RepositoriesDir = "Compartido.Repositorio"
	SolutionFile    = "CBRFenix.sln"

	sourceExt = ".cs"
)

// indicators mark a root as a Genesis workspace when any one exists.
var indicators = []string{EntitiesDir, ModelsDir, RepositoriesDir, SolutionFile}

type Scanner struct {
	logger *zap.Logger
}

func NewScanner(logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{logger: logger}
}

// Detect builds the context for root. A root with no indicator yields an
// "other" context with empty lists. Directories that cannot be read are
// logged and treated as empty.
func (s *Scanner) Detect(ctx context.Context, root string) (model.ProjectContext, error) {
	pc := model.ProjectContext{
		Root:         root,
		Entities:     []string{},
		Models:       []string{},
		Repositories: []string{},
		Type:         model.ProjectOther,
	}
	if root == "" || !IsGenesis(root) {
		return pc, nil
	}
	pc.Type = model.ProjectGenesis

	g, gctx := errgroup.WithContext(ctx)
	targets := []struct {
		dir string
		dst *[]string
	}{
		{EntitiesDir, &pc.Entities},
		{ModelsDir, &pc.Models},
		{RepositoriesDir, &pc.Repositories},
	}
	for _, t := range targets {
		t := t
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			*t.dst = s.scanDir(filepath.Join(root, t.dir))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.ProjectContext{}, err
	}

	s.logger.Debug("Workspace scanned",
		zap.String("root", root),
		zap.Int("entities", len(pc.Entities)),
		zap.Int("models", len(pc.Models)),
		zap.Int("repositories", len(pc.Repositories)))
	return pc, nil
}

// IsGenesis reports whether root holds any Genesis indicator.
func IsGenesis(root string) bool {
	for _, ind := range indicators {
		if _, err := os.Stat(filepath.Join(root, ind)); err == nil {
			return true
		}
	}
	return false
}

// scanDir lists the base names of the source files directly in dir.
func (s *Scanner) scanDir(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Could not scan directory", zap.String("dir", dir), zap.Error(err))
		}
		return []string{}
	}

	names := []string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), sourceExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), sourceExt))
	}
	sort.Strings(names)
	return names
}
