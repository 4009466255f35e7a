package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Bitlatte/docnav/internal/config"
	"github.com/Bitlatte/docnav/internal/markdown"
)

const debounceDuration = 500 * time.Millisecond

var serverPort int

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Builds, watches the docs tree and serves the output directory",
	Long: `The serve command performs an initial build, then starts a local web
server for the output directory. The docs root and site definition are
watched and the navigation config is rebuilt when they change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, serverPort)
	},
}

func runServe(ctx context.Context, port int) error {
	reader, err := markdown.NewReader(os.DirFS(appConfig.DocsRoot), appConfig.CacheSize, logger)
	if err != nil {
		return err
	}

	logger.Info("performing initial build")
	if err := runBuildProcess(ctx, appConfig, reader, logger); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	scope, err := newWatchScope(appConfig)
	if err != nil {
		return err
	}
	if err := addWatches(watcher, scope.docsRoot, scope); err != nil {
		return err
	}
	// the site file may live outside the docs root or in a skipped directory
	if dir := filepath.Dir(scope.siteFile); !within(scope.docsRoot, dir) || scope.skip(dir) {
		if err := watcher.Add(dir); err != nil {
			logger.Warn("failed to watch site file directory", zap.String("dir", dir), zap.Error(err))
		}
	}

	var buildMu sync.Mutex
	go watchLoop(ctx, watcher, scope, func() {
		buildMu.Lock()
		defer buildMu.Unlock()
		logger.Info("rebuilding due to changes")
		if err := runBuildProcess(ctx, appConfig, reader, logger); err != nil {
			logger.Error("rebuild failed", zap.Error(err))
			return
		}
		logger.Info("rebuilt successfully")
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           newSiteHandler(appConfig.OutputDir),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving output",
			zap.String("dir", appConfig.OutputDir),
			zap.String("url", fmt.Sprintf("http://localhost:%d", port)))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to start HTTP server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// watchScope decides which paths under the watched trees trigger a
// rebuild. All paths are absolute.
type watchScope struct {
	docsRoot  string
	outputDir string
	siteFile  string
}

func newWatchScope(cfg config.Config) (watchScope, error) {
	var scope watchScope
	for _, p := range []struct {
		dst *string
		src string
	}{
		{&scope.docsRoot, cfg.DocsRoot},
		{&scope.outputDir, cfg.OutputDir},
		{&scope.siteFile, cfg.SitePath()},
	} {
		abs, err := filepath.Abs(p.src)
		if err != nil {
			return watchScope{}, fmt.Errorf("failed to resolve %s: %w", p.src, err)
		}
		*p.dst = abs
	}
	return scope, nil
}

// skip reports whether changes at path are ignored: the output directory
// and hidden directories below the docs root, except for the site file.
// Outside the docs root only the site file counts.
func (s watchScope) skip(path string) bool {
	if path == s.siteFile {
		return false
	}
	if within(s.outputDir, path) && !within(s.outputDir, s.docsRoot) {
		return true
	}
	if !within(s.docsRoot, path) {
		return true
	}
	rel, err := filepath.Rel(s.docsRoot, path)
	if err != nil {
		return true
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if part != "." && strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// within reports whether path is dir or lies below it.
func within(dir, path string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// addWatches registers root and every directory below it that the scope
// does not skip.
func addWatches(watcher *fsnotify.Watcher, root string, scope watchScope) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("error walking docs", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if scope.skip(path) {
			return filepath.SkipDir
		}
		if watchErr := watcher.Add(path); watchErr != nil {
			logger.Warn("failed to watch directory", zap.String("path", path), zap.Error(watchErr))
		}
		return nil
	})
}

// watchLoop calls rebuild once events in scope have been quiet for
// debounceDuration.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, scope watchScope, rebuild func()) {
	var buildTimer *time.Timer
	defer func() {
		if buildTimer != nil {
			buildTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !relevant(event) || scope.skip(event.Name) {
				continue
			}
			logger.Debug("change detected", zap.String("path", event.Name), zap.String("op", event.Op.String()))

			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := addWatches(watcher, event.Name, scope); err != nil {
					logger.Warn("failed to watch new directory", zap.String("path", event.Name), zap.Error(err))
				}
			}

			if buildTimer != nil {
				buildTimer.Stop()
			}
			buildTimer = time.AfterFunc(debounceDuration, rebuild)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func relevant(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

// newSiteHandler serves dir without directory listings or caching.
func newSiteHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") && r.URL.Path != "/" {
			if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(r.URL.Path), "index.html")); os.IsNotExist(err) {
				http.NotFound(w, r)
				return
			}
		}
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		files.ServeHTTP(w, r)
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func init() {
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 1313, "Port to serve the site on")
	rootCmd.AddCommand(serveCmd)
}
