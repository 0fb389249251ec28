package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/panbanda/styleaudit/internal/report"
	"github.com/panbanda/styleaudit/internal/service/audit"
	"github.com/panbanda/styleaudit/pkg/watch"
	"github.com/urfave/cli/v2"
)

func watchCmd() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Watch for markup and stylesheet changes and re-analyze",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "debounce",
				Value: 500 * time.Millisecond,
				Usage: "Quiet period before re-analyzing",
			},
			&cli.StringFlag{
				Name:  "file",
				Usage: "Only report issues for one file (path or glob)",
			},
		},
		Action: runWatchCmd,
	}
}

func runWatchCmd(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	opts := []audit.Option{audit.WithConfig(s.cfg), audit.WithLogger(s.logger)}
	if c.Bool("no-cache") {
		opts = append(opts, audit.WithoutCache())
	}
	svc := audit.New(opts...)

	dir, err := svc.AssetsDir()
	if err != nil {
		return err
	}

	var gate rerunGate
	analyze := func(ctx context.Context) {
		files, err := svc.Scan()
		if err != nil {
			color.Red("Scan error: %v", err)
			return
		}
		fp := watch.Fingerprint(files.All())
		ran, err := gate.run(fp, func() error {
			result, err := svc.Analyze(ctx, files)
			if err == nil {
				result, err = result.Filter(c.String("file"))
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(s.console.Writer(), "[%s] %d file(s), %d issue(s)\n",
				time.Now().Format("15:04:05"), files.Total(), len(result.Analysis.Issues))
			rep := report.NewIssueReport(result.ProjectRoot, result.Analysis.Issues, result.Analysis.Summary)
			if err := s.out.Output(rep); err != nil {
				color.Red("Output error: %v", err)
			}
			return nil
		})
		if !ran {
			s.logger.Debug("no effective change", "fingerprint", fp)
			return
		}
		if err != nil {
			color.Red("Analysis error: %v", err)
		}
	}

	watcher, err := watch.NewWatcher(dir, s.cfg, c.Duration("debounce"))
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Stop()

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	watcher.SetCallback(func(changed []string) {
		for _, path := range changed {
			s.logger.Debug("changed", "path", path)
		}
		analyze(ctx)
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(s.console.Writer(), "\nStopping watch...")
			cancel()
		case <-ctx.Done():
		}
	}()

	analyze(ctx)

	if err := watcher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// rerunGate skips a run when the input fingerprint matches the last run that
// succeeded. A failed run is retried on the next event.
type rerunGate struct {
	last uint64
	done bool
}

func (g *rerunGate) run(fp uint64, fn func() error) (bool, error) {
	if g.done && fp == g.last {
		return false, nil
	}
	if err := fn(); err != nil {
		return true, err
	}
	g.last, g.done = fp, true
	return true, nil
}
