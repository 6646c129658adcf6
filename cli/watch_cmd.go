package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/credo-hq/credo/core"
	"github.com/credo-hq/credo/core/bundle"
	"github.com/credo-hq/credo/core/rulecard"
)

// runWatch implements the "credo watch" command: watch the rule card
// directory and recompile the configured bundles whenever a card changes.
// The content-hash cache makes unchanged bundles free to recompile.
func runWatch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)

	var (
		rulesDir    string
		bundlesFlag string
		outputDir   string
		debounce    time.Duration
	)

	fs.StringVar(&rulesDir, "rules", "rules", "rule card directory to watch")
	fs.StringVar(&bundlesFlag, "bundles", "", "comma-separated topic:language pairs (default: bundles from .credo.yaml)")
	fs.StringVar(&outputDir, "output", "", "write bundle artifacts to this directory on each rebuild")
	fs.DurationVar(&debounce, "debounce", 500*time.Millisecond, "debounce interval for file changes")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	pairs, err := resolveBundlePairs(bundlesFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	if len(pairs) == 0 {
		fmt.Fprintln(os.Stderr, "error: no bundles configured; pass -bundles or add a bundles section to .credo.yaml")
		return 2
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: creating watcher: %v\n", err)
		return 2
	}
	defer watcher.Close()

	if err := addDirsRecursive(watcher, rulesDir); err != nil {
		fmt.Fprintf(os.Stderr, "error: watching directories: %v\n", err)
		return 2
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	cache := bundle.NewCache()

	fmt.Printf("watch: compiling %d bundles from %s (debounce: %s)\n", len(pairs), rulesDir, debounce)
	compileBundles(cache, rulesDir, outputDir, pairs)

	var mu sync.Mutex
	var timer *time.Timer

	resetTimer := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, func() {
			fmt.Printf("watch: rule cards changed, recompiling\n")
			compileBundles(cache, rulesDir, outputDir, pairs)
		})
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return 0
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addDirsRecursive(watcher, event.Name)
					resetTimer()
					continue
				}
			}
			if !isRuleCardFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				resetTimer()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return 0
			}
			fmt.Fprintf(os.Stderr, "watch: error: %v\n", err)

		case <-sigCh:
			fmt.Println("\nwatch: stopping")
			return 0
		}
	}
}

// bundlePair is one topic/language pair to keep compiled.
type bundlePair struct {
	topic    string
	language string
}

// resolveBundlePairs parses the -bundles flag, falling back to the bundles
// section of .credo.yaml in the current directory.
func resolveBundlePairs(flagValue string) ([]bundlePair, error) {
	if flagValue != "" {
		var pairs []bundlePair
		for _, spec := range splitCSV(flagValue) {
			topic, language, ok := strings.Cut(spec, ":")
			if !ok || topic == "" || language == "" {
				return nil, fmt.Errorf("invalid bundle spec %q, want topic:language", spec)
			}
			pairs = append(pairs, bundlePair{topic: topic, language: language})
		}
		return pairs, nil
	}

	cfg, err := core.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("loading .credo.yaml: %w", err)
	}
	var pairs []bundlePair
	for _, spec := range cfg.Bundles {
		pairs = append(pairs, bundlePair{topic: spec.Topic, language: spec.Language})
	}
	return pairs, nil
}

// compileBundles reloads the rule set and compiles every configured pair,
// printing one status line per bundle. Failures are reported and skipped so
// one bad pair does not stop the others.
func compileBundles(cache *bundle.Cache, rulesDir, outputDir string, pairs []bundlePair) {
	set, loadReport, err := rulecard.Load(rulesDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "watch: loading rule cards: %v\n", err)
		return
	}
	for _, f := range loadReport.Failures {
		fmt.Fprintf(os.Stderr, "watch: skipped rule card %s: %v\n", f.Path, f.Err)
	}

	for _, p := range pairs {
		b, err := cache.Compile(p.topic, p.language, set)
		if err != nil {
			fmt.Fprintf(os.Stderr, "watch: %v\n", err)
			continue
		}
		status := ""
		if b.Thin() {
			status = "  (thin)"
		}
		fmt.Printf("  %-24s %d rules  hash %.12s%s\n", b.BundleID, len(b.Rules), b.ContentHash, status)

		if outputDir != "" {
			if err := writeBundle(b, outputDir); err != nil {
				fmt.Fprintf(os.Stderr, "watch: writing bundle %s: %v\n", b.BundleID, err)
			}
		}
	}
}

func writeBundle(b bundle.Bundle, outputDir string) error {
	data, err := b.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(outputDir, b.BundleID+".json")
	return os.WriteFile(path, data, 0o644)
}

// isRuleCardFile reports whether the path looks like a rule card source.
func isRuleCardFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// addDirsRecursive adds the target and all subdirectories to the watcher,
// skipping VCS and dependency directories.
func addDirsRecursive(watcher *fsnotify.Watcher, target string) error {
	return filepath.Walk(target, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		name := info.Name()
		if name == ".git" || name == "node_modules" || name == ".credo" {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
