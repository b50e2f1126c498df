package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/adapter/shopapi"
	"github.com/example/storefront/internal/adapter/textview"
	"github.com/example/storefront/internal/app"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/events"
	"github.com/example/storefront/internal/logging"
	"github.com/example/storefront/internal/loop"
)

func main() {
	cfg, err := config.LoadShop()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Strict)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, os.Stdin, os.Stdout, logger); err != nil && ctx.Err() == nil {
		logger.Fatal("shop stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Shop, in io.Reader, out io.Writer, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	l := loop.New(logger.Named("loop"), 0)
	client := shopapi.New(cfg.APIURL, cfg.HTTPTimeout, logger.Named("api"))
	screen := textview.NewScreen(out)
	shop := app.New(app.Options{
		Products:  client,
		Orders:    client,
		Views:     screen.Views(),
		Scheduler: l,
		Log:       logger,
		Strict:    cfg.Strict,
	})

	screen.Println(textview.Help)
	l.Post(func() { shop.Start(ctx) })

	// a blocked stdin read is abandoned on shutdown
	go func() {
		defer cancel()
		if err := readCommands(in, screen.Println, l.Post, shop.Dispatch); err != nil {
			logger.Error("read commands", zap.Error(err))
		}
	}()

	if err := l.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// readCommands parses lines into intents and posts them to the loop until
// quit, EOF or the loop stops.
func readCommands(in io.Reader, say func(string), post func(func()) bool, dispatch func(events.Event)) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "quit":
			return nil
		case "help":
			say(textview.Help)
			continue
		}
		ev, err := textview.Parse(line)
		if err != nil {
			say(fmt.Sprintf("? %v (type help)", err))
			continue
		}
		if !post(func() { dispatch(ev) }) {
			return nil
		}
	}
	return scanner.Err()
}
