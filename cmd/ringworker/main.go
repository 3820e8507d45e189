// File: cmd/ringworker/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Command ringworker runs producers against a bounded ring queue drained by
// a single event loop worker.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/control"
	"github.com/momentics/hioload-ring/internal/concurrency"
)

// Job is one unit of produced work.
type Job struct {
	Producer int
	Seq      int
	Created  time.Time
}

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:  "ringworker",
		Usage: "Feed a bounded ring queue from producers and drain it with one worker",
		Flags: workerFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := control.LoadConfig(c.String("config"))
			if err != nil {
				return err
			}
			applyFlags(c, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			_, err = runWorker(ctx, cfg)
			return err
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return app.Run(ctx, os.Args)
}

func workerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to a TOML config file"},
		&cli.IntFlag{Name: "capacity", Usage: "Ring capacity"},
		&cli.IntFlag{Name: "batch", Usage: "Items drained per loop iteration"},
		&cli.StringFlag{Name: "overflow", Usage: "Overflow policy: reject or spill"},
		&cli.IntFlag{Name: "producers", Aliases: []string{"p"}, Usage: "Number of producers"},
		&cli.IntFlag{Name: "items", Aliases: []string{"n"}, Usage: "Items per producer, 0 runs until interrupted"},
		&cli.DurationFlag{Name: "interval", Usage: "Delay between produced items"},
		&cli.StringFlag{Name: "log-level", Usage: "Log level (debug, info, warn, error)"},
		&cli.StringFlag{Name: "log-file", Usage: "Rotating log file, stderr when empty"},
	}
}

// applyFlags overrides config values with explicitly set flags.
func applyFlags(c *cli.Command, cfg *control.Config) {
	if c.IsSet("capacity") {
		cfg.Ring.Capacity = int(c.Int("capacity"))
	}
	if c.IsSet("batch") {
		cfg.Loop.BatchSize = int(c.Int("batch"))
	}
	if c.IsSet("overflow") {
		cfg.Ring.Overflow = c.String("overflow")
	}
	if c.IsSet("producers") {
		cfg.Producer.Count = int(c.Int("producers"))
	}
	if c.IsSet("items") {
		cfg.Producer.Items = int(c.Int("items"))
	}
	if c.IsSet("interval") {
		cfg.Producer.IntervalMs = int(c.Duration("interval") / time.Millisecond)
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("log-file") {
		cfg.Log.File = c.String("log-file")
	}
}

// summary is what a worker run produced, reported on exit.
type summary struct {
	Posted    int64
	Dropped   int64
	Spilled   int64
	Processed int64
	Metrics   map[string]any
	Probes    map[string]any
}

func runWorker(ctx context.Context, cfg *control.Config) (*summary, error) {
	logger, closeLog, err := control.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	defer closeLog()

	policy, err := concurrency.ParseOverflowPolicy(cfg.Ring.Overflow)
	if err != nil {
		return nil, err
	}
	queue, err := concurrency.NewQueue[Job](cfg.Ring.Capacity, policy)
	if err != nil {
		return nil, err
	}

	metrics := control.NewMetricsRegistry()
	probes := control.NewDebugProbes()
	control.RegisterPlatformProbes(probes)

	loop := concurrency.NewEventLoop(queue,
		concurrency.WithName("worker"),
		concurrency.WithBatchSize(cfg.Loop.BatchSize),
		concurrency.WithMaxBackoff(time.Duration(cfg.Loop.MaxBackoffMs)*time.Millisecond),
		concurrency.WithLogger(logger),
		concurrency.WithMetrics(metrics),
		concurrency.WithProbes(probes))
	latency := metrics.Timer("worker.latency")
	loop.RegisterHandler(concurrency.HandlerFunc[Job](func(j Job) {
		latency.UpdateSince(j.Created)
		logger.Debug("Dequeued job",
			zap.Int("producer", j.Producer),
			zap.Int("seq", j.Seq),
			zap.Duration("latency", time.Since(j.Created)))
	}))

	logger.Info("Starting ring worker",
		zap.Int("capacity", cfg.Ring.Capacity),
		zap.Stringer("overflow", policy),
		zap.Int("producers", cfg.Producer.Count),
		zap.Int("items", cfg.Producer.Items))

	// The loop keeps running until producers are done and the queue drains,
	// or until the process is interrupted.
	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	loopDone := make(chan error, 1)
	go func() { loopDone <- loop.Run(loopCtx) }()

	g, gctx := errgroup.WithContext(ctx)
	interval := time.Duration(cfg.Producer.IntervalMs) * time.Millisecond
	for p := 0; p < cfg.Producer.Count; p++ {
		g.Go(func() error {
			return produce(gctx, logger, loop, p, cfg.Producer.Items, interval)
		})
	}
	prodErr := g.Wait()

	if ctx.Err() == nil {
		waitDrained(ctx, loop)
	}
	loop.Stop()
	if err := <-loopDone; err != nil && !errors.Is(err, concurrency.ErrLoopStopped) {
		logger.Error("Event loop failed", zap.Error(err))
	}

	sum := &summary{
		Posted:    metrics.Counter("worker.posted"),
		Dropped:   metrics.Counter("worker.rejected"),
		Spilled:   metrics.Counter("worker.spilled"),
		Processed: metrics.Counter("worker.processed"),
		Metrics:   metrics.GetSnapshot(),
		Probes:    probes.DumpState(),
	}
	probes.UnregisterProbe("worker")

	logger.Info("Ring worker stopped",
		zap.Any("metrics", sum.Metrics),
		zap.Any("probes", sum.Probes))
	if prodErr != nil && !errors.Is(prodErr, context.Canceled) {
		return sum, prodErr
	}
	return sum, nil
}

// produce posts items jobs, or unlimited jobs when items is 0, until ctx ends.
func produce(ctx context.Context, logger *zap.Logger, loop *concurrency.EventLoop[Job], id, items int, interval time.Duration) error {
	ticker := time.NewTicker(max(interval, time.Microsecond))
	defer ticker.Stop()
	for seq := 0; items == 0 || seq < items; seq++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		err := loop.Post(Job{Producer: id, Seq: seq, Created: time.Now()})
		switch {
		case err == nil:
		case errors.Is(err, api.ErrCapacityExceeded):
			logger.Warn("Ring full, dropping job", zap.Int("producer", id), zap.Int("seq", seq))
		default:
			return fmt.Errorf("producer %d: %w", id, err)
		}
	}
	return nil
}

// waitDrained blocks until the loop has nothing pending or ctx ends.
func waitDrained(ctx context.Context, loop *concurrency.EventLoop[Job]) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for loop.Pending() > 0 {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
