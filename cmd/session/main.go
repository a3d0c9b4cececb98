// Command session runs an interactive tap session against the persistence API.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/osse101/TapQuest_Go/internal/client"
	"github.com/osse101/TapQuest_Go/internal/config"
	"github.com/osse101/TapQuest_Go/internal/localstore"
	"github.com/osse101/TapQuest_Go/internal/logger"
	"github.com/osse101/TapQuest_Go/internal/session"
)

const serviceName = "tapquest-session"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadSession()
	if err != nil {
		return err
	}

	// Logs go to stderr so they don't interleave with command output
	logger.InitLoggerWithWriter(logger.Config{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		Service:   serviceName,
		Component: logger.ComponentSession,
		Version:   config.DefaultVersion,
	}, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := localstore.NewSQLiteStore(ctx, cfg.StorePath)
	if err != nil {
		return err
	}
	defer store.Close()

	api := client.New(cfg.APIBaseURL, cfg.APIKey, client.WithRequestTimeout(cfg.RequestTimeout))

	sess, err := session.Open(ctx, session.Deps{
		API:   api,
		Store: store,
		Clock: clockwork.NewRealClock(),
		Config: session.Config{
			Identity:      cfg.Identity,
			Name:          cfg.Name,
			IsPremium:     cfg.IsPremium,
			TickInterval:  cfg.TickInterval,
			FlushDebounce: cfg.FlushDebounce,
			FlushTimeout:  cfg.FlushTimeout,
			DebitPerTouch: cfg.DebitPerTouch,
		},
	})
	if err != nil {
		return err
	}

	r := &repl{sess: sess, api: api, identity: cfg.Identity, out: os.Stdout}
	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)
	go readLines(os.Stdin, lines, done)

	r.printStatus()
	fmt.Fprint(r.out, prompt)

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case line, ok := <-lines:
			if !ok || !r.exec(ctx, line) {
				break loop
			}
			fmt.Fprint(r.out, prompt)
		}
	}

	// A fresh context so the final flush still runs after a signal
	closeCtx, cancel := context.WithTimeout(context.Background(), cfg.FlushTimeout)
	defer cancel()
	if err := sess.Close(closeCtx); err != nil {
		slog.Warn("Session closed with unsent earnings", "error", err)
	}
	return nil
}

// readLines forwards input lines until the input ends or done is closed
func readLines(in io.Reader, out chan<- string, done <-chan struct{}) {
	defer close(out)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case out <- scanner.Text():
		case <-done:
			return
		}
	}
}
