package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cosmicsplit/config"
	"cosmicsplit/splitter"
	"cosmicsplit/timer/livesplit"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Exitf("autosplitter: %v", err)
	}

	log := logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.BrightBlack, "autosplitter"))

	client := livesplit.New(cfg.LiveSplitAddr, livesplit.WithDialTimeout(cfg.LiveSplitDialTimeout))
	defer client.Close()

	s := splitter.New(splitter.Options{
		Executable:  cfg.Executable,
		Opener:      newOpener(),
		Timer:       client,
		Settings:    cfg,
		Diagnostics: repeatFilter(log),
	})
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infoln("Waiting for", cfg.Executable, "polling every", cfg.PollInterval, "LiveSplit at", cfg.LiveSplitAddr)

	run(ctx, s, cfg.PollInterval, log)

	log.Infoln("Shutting down")
}

// repeatFilter drops a diagnostic equal to the previous one; the splitter retries
// attachment every tick and would otherwise repeat itself at the poll rate.
func repeatFilter(log *logger.Logger) splitter.Diagnostics {
	var last string
	return splitter.DiagnosticsFunc(func(msg string) {
		if msg == last {
			return
		}
		last = msg
		log.Warn(msg)
	})
}

func run(ctx context.Context, s *splitter.Splitter, interval time.Duration, log *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	attached := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		s.Update()

		if now := s.Attached(); now != attached {
			attached = now
			if attached {
				log.Infoln("Game attached")
			} else {
				log.Infoln("Game detached, waiting for it to start")
			}
		}
	}
}
