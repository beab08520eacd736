package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// newWatchCmd creates the "watch" subcommand for auto-rebuilding on
// configuration changes.
func newWatchCmd(opts *rootOptions) *cobra.Command {
	var wopts watchOptions

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the template when the configuration changes",
		Long: `Watch monitors the configuration file and rebuilds the template on every
change. Rapid changes are debounced.

Examples:
    uptime watch -o template.json
    uptime watch --debounce 1s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(opts, wopts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().DurationVar(&wopts.debounce, "debounce", 500*time.Millisecond, "Debounce duration for rapid changes")
	cmd.Flags().StringVarP(&wopts.outputFormat, "format", "f", "json", "Output format for build: json or yaml")
	cmd.Flags().StringVarP(&wopts.outputFile, "output", "o", "", "Output file for build (default: summary only)")

	return cmd
}

type watchOptions struct {
	debounce     time.Duration
	outputFormat string
	outputFile   string
}

// runWatch watches the directory of the configuration file, since editors
// often replace files instead of writing them in place.
func runWatch(opts *rootOptions, wopts watchOptions, w io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	target, err := filepath.Abs(opts.configPath)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}
	fmt.Fprintf(w, "Watching: %s\n", target)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	fmt.Fprintln(w, "Running initial build...")
	rebuild(opts, wopts, w)

	var debounceTimer *time.Timer
	rebuildChan := make(chan struct{}, 1)

	fmt.Fprintln(w, "\nWatching for changes... (Ctrl+C to stop)")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isConfigChange(event, target) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(wopts.debounce, func() {
				select {
				case rebuildChan <- struct{}{}:
				default:
				}
			})

		case <-rebuildChan:
			fmt.Fprintf(w, "\n[%s] Change detected, rebuilding...\n", time.Now().Format("15:04:05"))
			rebuild(opts, wopts, w)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			opts.logger.WithError(err).Warn("watch error")

		case <-sigChan:
			fmt.Fprintln(w, "\nStopping watch...")
			return nil
		}
	}
}

// isConfigChange reports a write, create or rename of the watched file.
func isConfigChange(event fsnotify.Event, target string) bool {
	name, err := filepath.Abs(event.Name)
	if err != nil || name != target {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// rebuild builds once and reports the outcome without stopping the watch.
func rebuild(opts *rootOptions, wopts watchOptions, w io.Writer) {
	result := buildTemplate(opts)
	if !result.Success {
		for _, e := range result.Errors {
			opts.logger.Error(e)
		}
		return
	}

	data, err := encodeTemplate(&result.Template, wopts.outputFormat)
	if err != nil {
		opts.logger.WithError(err).Error("encoding template")
		return
	}

	if wopts.outputFile == "" {
		fmt.Fprintln(w, "Build successful")
		fmt.Fprintf(w, "Generated %d resources\n", len(result.Resources))
		return
	}

	if err := os.WriteFile(wopts.outputFile, data, 0644); err != nil {
		opts.logger.WithError(err).Error("writing template")
		return
	}
	fmt.Fprintf(w, "Build successful, wrote %s\n", wopts.outputFile)
}
