package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/libdoc-cli/internal/cleaner"
	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
	"github.com/custodia-labs/libdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/libdoc-cli/internal/logger"
)

// Content file extensions.
const (
	extJSON      = ".json"
	extCleanJSON = ".clean.json"
)

// DefaultWatchInterval is the quiet period before, and the minimum time
// between, watch-triggered runs.
const DefaultWatchInterval = 500 * time.Millisecond

// Ensure CleanService implements the interface.
var _ driving.CleanService = (*CleanService)(nil)

// CleanService runs the cleaning workflow on content files.
type CleanService struct {
	settings driving.SettingsService
	interval time.Duration
}

// NewCleanService creates a clean service.
func NewCleanService(settings driving.SettingsService) *CleanService {
	return &CleanService{
		settings: settings,
		interval: DefaultWatchInterval,
	}
}

// SetWatchInterval changes the watch quiet period and run interval.
func (s *CleanService) SetWatchInterval(d time.Duration) {
	s.interval = d
}

// cleanJob is a request with every path resolved.
type cleanJob struct {
	input  string
	output string
	rules  string
}

// Clean writes a cleaned copy of a content file.
func (s *CleanService) Clean(ctx context.Context, req driving.CleanRequest) (domain.CleanReport, error) {
	job, err := s.resolve(req)
	if err != nil {
		return domain.CleanReport{}, err
	}
	return s.run(ctx, job)
}

// Watch cleans once and then after every change of the content or rules
// file until ctx is done.
func (s *CleanService) Watch(ctx context.Context, req driving.CleanRequest, fn func(domain.CleanReport, error)) error {
	job, err := s.resolve(req)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors replace files by rename, so the directory is watched.
	dir := filepath.Dir(job.input)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	if rulesDir := filepath.Dir(job.rules); rulesDir != dir {
		if err := watcher.Add(rulesDir); err != nil {
			return fmt.Errorf("watch %s: %w", rulesDir, err)
		}
	}

	limiter := rate.NewLimiter(rate.Every(s.interval), 1)
	report, err := s.run(ctx, job)
	fn(report, err)
	// The first run consumed the burst token.
	_ = limiter.Allow()

	// A run starts once the files have been quiet for one interval, so a
	// truncating write is never read half done.
	quiet := time.NewTimer(s.interval)
	if !quiet.Stop() {
		<-quiet.C
	}
	defer quiet.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !job.triggeredBy(event) {
				continue
			}
			logger.Debug("watch: %s %s", event.Op, event.Name)
			quiet.Reset(s.interval)
		case <-quiet.C:
			if err := limiter.Wait(ctx); err != nil {
				return nil
			}
			report, err := s.run(ctx, job)
			fn(report, err)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch: %v", err)
		}
	}
}

func (j cleanJob) triggeredBy(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	name := filepath.Clean(event.Name)
	return name == j.input || name == j.rules
}

func (s *CleanService) resolve(req driving.CleanRequest) (cleanJob, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return cleanJob{}, fmt.Errorf("load settings: %w", err)
	}

	input := req.Input
	if input == "" {
		dir := req.Dir
		if dir == "" {
			dir = "."
		}
		input, err = discover(dir)
		if err != nil {
			return cleanJob{}, err
		}
	}

	info, err := os.Stat(input)
	if err != nil || info.IsDir() || !strings.HasSuffix(input, extJSON) {
		return cleanJob{}, fmt.Errorf("%w: not able to find the content file %q", domain.ErrContent, input)
	}
	input, err = filepath.Abs(input)
	if err != nil {
		return cleanJob{}, fmt.Errorf("resolve %s: %w", input, err)
	}

	output := req.Output
	if output == "" {
		output = CleanOutputName(input)
	}
	output, err = filepath.Abs(output)
	if err != nil {
		return cleanJob{}, fmt.Errorf("resolve %s: %w", output, err)
	}
	if output == input {
		return cleanJob{}, fmt.Errorf("%w: output would overwrite %s", domain.ErrInvalidInput, input)
	}

	return cleanJob{
		input:  input,
		output: output,
		rules:  filepath.Join(filepath.Dir(input), settings.CleanConfig),
	}, nil
}

func (s *CleanService) run(ctx context.Context, job cleanJob) (domain.CleanReport, error) {
	if err := ctx.Err(); err != nil {
		return domain.CleanReport{}, err
	}
	logger.Section("Clean")

	rules, found, err := cleaner.LoadRules(job.rules)
	if err != nil {
		return domain.CleanReport{}, err
	}
	if found {
		logger.Debug("rules: %s", job.rules)
	} else {
		logger.Debug("rules: built-in defaults")
	}

	in, err := os.Open(job.input)
	if err != nil {
		return domain.CleanReport{}, fmt.Errorf("%w: %v", domain.ErrContent, err)
	}
	doc, err := cleaner.Decode(in)
	in.Close()
	if err != nil {
		return domain.CleanReport{}, fmt.Errorf("%s: %w", job.input, err)
	}

	report, err := cleaner.New(rules).Clean(doc)
	if err != nil {
		return domain.CleanReport{}, fmt.Errorf("%s: %w", job.input, err)
	}
	report.Input = job.input
	report.Output = job.output
	if found {
		report.ConfigPath = job.rules
	} else if err := cleaner.DumpRules(job.rules, rules); err != nil {
		logger.Warn("could not write %s: %v", job.rules, err)
	}

	if err := writeDocument(job.output, doc); err != nil {
		return domain.CleanReport{}, err
	}
	return report, nil
}

// writeDocument replaces path atomically.
func writeDocument(path string, doc map[string]any) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".libdoc-*.json")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := cleaner.Encode(tmp, doc); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// discover returns the first content file in dir that is not a cleaned one.
func discover(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrContent, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		if IsContentFile(name) {
			return filepath.Join(dir, name), nil
		}
	}
	return "", fmt.Errorf("%w: not able to find the content file in %s", domain.ErrContent, dir)
}

// CleanOutputName returns <base>.clean.json next to input, where base is
// the file name without its clean and json segments.
func CleanOutputName(input string) string {
	dir, name := filepath.Split(input)
	parts := strings.Split(name, ".")
	kept := parts[:0]
	for _, p := range parts {
		if p != "clean" && p != "json" {
			kept = append(kept, p)
		}
	}
	return filepath.Join(dir, strings.Join(kept, ".")+extCleanJSON)
}

// IsContentFile reports whether name looks like an uncleaned content file.
func IsContentFile(name string) bool {
	return strings.HasSuffix(name, extJSON) && !strings.HasSuffix(name, extCleanJSON)
}
