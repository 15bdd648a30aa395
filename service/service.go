package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/foomo/docs-versionpanel/panel"
	"github.com/foomo/docs-versionpanel/progress"
	"github.com/foomo/docs-versionpanel/service/vo"
	"github.com/foomo/docs-versionpanel/versions"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Service interface {
	// Versions returns the currently known builds.
	Versions() []vo.VersionDescriptor
	// VersionForPath maps a slash separated path below the site root to its build.
	VersionForPath(rel string) (vo.VersionDescriptor, bool)
	// UpdatePage rewrites the version panels of one file in place.
	UpdatePage(ctx context.Context, file, currentVersion string) (*vo.PageResult, error)
	// UpdateSite rewrites the version panels of every page of every build.
	UpdateSite(ctx context.Context, reporter progress.Reporter) (*vo.SiteReport, error)
	// GetPage returns a page below the site root with its version panels updated.
	// ok is false for files that are not pages of a known build.
	GetPage(ctx context.Context, rel string) (page []byte, ok bool, err error)
}

type SiteSettings struct {
	Root           string
	ContainerClass string
	Include        []string
	Exclude        []string
	Concurrency    int
}

type service struct {
	logger       *zap.Logger
	siteSettings SiteSettings
	store        *versions.Store
	renderer     *panel.Renderer
}

type page struct {
	path    string
	rel     string
	version string
}

func NewService(
	logger *zap.Logger,
	siteSettings SiteSettings,
	store *versions.Store,
) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if siteSettings.ContainerClass == "" {
		siteSettings.ContainerClass = panel.ContainerClass
	}
	if len(siteSettings.Include) == 0 {
		siteSettings.Include = []string{"**/*.html"}
	}
	if siteSettings.Concurrency < 1 {
		siteSettings.Concurrency = 1
	}
	return &service{
		logger:       logger,
		siteSettings: siteSettings,
		store:        store,
		renderer:     panel.NewRenderer(logger),
	}
}

func (s *service) Versions() []vo.VersionDescriptor {
	return s.store.List()
}

func (s *service) VersionForPath(rel string) (vo.VersionDescriptor, bool) {
	rel = strings.TrimPrefix(path.Clean("/"+rel), "/")
	var (
		found  vo.VersionDescriptor
		length = -1
	)
	// Longest folder wins for nested builds.
	for _, d := range s.store.List() {
		folder := cleanFolder(d.Folder)
		if folder == "" || (rel != folder && !strings.HasPrefix(rel, folder+"/")) {
			continue
		}
		if len(folder) > length {
			found, length = d, len(folder)
		}
	}
	return found, length >= 0
}

func (s *service) UpdatePage(ctx context.Context, file, currentVersion string) (*vo.PageResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Stat(file)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	result, err := s.renderer.UpdateDocument(bytes.NewReader(data), &out, s.siteSettings.ContainerClass, s.store.List(), currentVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", file, err)
	}

	pageResult := &vo.PageResult{
		Path:       file,
		Version:    currentVersion,
		Containers: result.Containers,
	}
	// Pages without a panel are left as they are instead of being normalized.
	if result.Containers == 0 || bytes.Equal(data, out.Bytes()) {
		return pageResult, nil
	}
	if err := os.WriteFile(file, out.Bytes(), info.Mode().Perm()); err != nil {
		return nil, err
	}
	pageResult.Changed = true
	s.logger.Debug("updated page", zap.String("path", file), zap.String("title", result.Title), zap.Int("containers", result.Containers))
	return pageResult, nil
}

func (s *service) UpdateSite(ctx context.Context, reporter progress.Reporter) (*vo.SiteReport, error) {
	if reporter == nil {
		reporter = progress.Nop{}
	}
	report := &vo.SiteReport{}

	var pages []page
	for _, d := range s.store.List() {
		found, err := s.pages(d)
		switch {
		case errors.Is(err, fs.ErrNotExist), errors.Is(err, vo.ErrMalformedDescriptor):
			s.logger.Warn("skipping version folder", zap.String("version", d.Version), zap.String("folder", d.Folder), zap.Error(err))
			report.Skipped = append(report.Skipped, d.Folder)
			continue
		case err != nil:
			return nil, err
		}
		pages = append(pages, found...)
	}

	reporter.Start(len(pages))
	defer reporter.Finish()

	var (
		mu   sync.Mutex
		done int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.siteSettings.Concurrency)
	for _, p := range pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := s.UpdatePage(gctx, p.path, p.version)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				s.logger.Error("failed to update page", zap.String("path", p.path), zap.Error(err))
				result = &vo.PageResult{Path: p.path, Version: p.version, Err: err.Error()}
			}
			result.Path = p.rel

			mu.Lock()
			defer mu.Unlock()
			report.Add(*result)
			done++
			reporter.Update(done, p.rel)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortFunc(report.Results, func(a, b vo.PageResult) int {
		return strings.Compare(a.Path, b.Path)
	})
	s.logger.Info("updated site",
		zap.String("root", s.siteSettings.Root),
		zap.Int("pages", report.Pages),
		zap.Int("updated", report.Updated),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

// pages lists the files of build d matching the include and not the exclude patterns.
func (s *service) pages(d vo.VersionDescriptor) ([]page, error) {
	if !filepath.IsLocal(d.Folder) {
		return nil, fmt.Errorf("%w: folder %q leaves the site root", vo.ErrMalformedDescriptor, d.Folder)
	}
	dir := filepath.Join(s.siteSettings.Root, d.Folder)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", dir, fs.ErrNotExist)
	}

	fsys := os.DirFS(dir)
	seen := map[string]bool{}
	var pages []page
	for _, pattern := range s.siteSettings.Include {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("failed to match %q in %s: %w", pattern, dir, err)
		}
		for _, match := range matches {
			if seen[match] || s.excluded(match) {
				continue
			}
			seen[match] = true
			pages = append(pages, page{
				path:    filepath.Join(dir, filepath.FromSlash(match)),
				rel:     path.Join(filepath.ToSlash(d.Folder), match),
				version: d.Version,
			})
		}
	}
	return pages, nil
}

// cleanFolder turns a folder into a slash separated path without leading or trailing slashes.
func cleanFolder(folder string) string {
	return strings.Trim(path.Clean("/"+filepath.ToSlash(folder)), "/")
}

func (s *service) excluded(rel string) bool {
	for _, pattern := range s.siteSettings.Exclude {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func (s *service) GetPage(ctx context.Context, rel string) ([]byte, bool, error) {
	rel = strings.TrimPrefix(path.Clean("/"+rel), "/")
	d, ok := s.VersionForPath(rel)
	if !ok {
		return nil, false, nil
	}
	inner := strings.TrimPrefix(strings.TrimPrefix(rel, cleanFolder(d.Folder)), "/")
	if !s.matches(inner) {
		return nil, false, nil
	}

	data, err := os.ReadFile(filepath.Join(s.siteSettings.Root, filepath.FromSlash(rel)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var out bytes.Buffer
	result, err := s.renderer.UpdateDocument(bytes.NewReader(data), &out, s.siteSettings.ContainerClass, s.store.List(), d.Version)
	if err != nil {
		return nil, false, err
	}
	if result.Containers == 0 {
		return data, true, nil
	}
	return out.Bytes(), true, nil
}

func (s *service) matches(rel string) bool {
	if s.excluded(rel) {
		return false
	}
	for _, pattern := range s.siteSettings.Include {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
