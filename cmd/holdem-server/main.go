package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/feltstack/holdem-core/internal/server"
)

var CLI struct {
	Config   string `short:"c" help:"Path to HCL configuration file." default:"holdem-server.hcl"`
	Addr     string `short:"a" help:"Listen address, host:port (overrides config)."`
	LogLevel string `short:"l" help:"Log level: debug, info, warn, error (overrides config)."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("holdem-server"),
		kong.Description("Authoritative server for a real-time, multi-room Texas Hold'em service."),
	)

	cfg, err := server.LoadConfig(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		ctx.Exit(1)
	}

	if CLI.Addr != "" {
		host, port := splitAddr(CLI.Addr)
		if host != "" {
			cfg.Server.Address = host
		}
		if port != 0 {
			cfg.Server.Port = port
		}
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		ctx.Exit(1)
	}

	logger := log.New(os.Stderr)
	logger.SetLevel(parseLevel(cfg.Server.LogLevel))

	logger.Info("starting holdem-server",
		"addr", cfg.Addr(),
		"maxSeats", cfg.Room.MaxSeats,
		"blinds", fmt.Sprintf("%d/%d", cfg.Room.SmallBlind, cfg.Room.BigBlind))

	srv := server.New(cfg, quartz.NewReal(), logger)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Info("shutting down")
		srv.Stop()
		os.Exit(0)
	}()

	if err := srv.Start(); err != nil {
		logger.Error("server failed", "error", err)
		ctx.Exit(1)
	}
}

func parseLevel(s string) log.Level {
	switch s {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// splitAddr splits a "host:port" override into its parts, tolerating a
// bare port (":8080") or a bare host with no port.
func splitAddr(addr string) (host string, port int) {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			host = addr[:i]
			fmt.Sscanf(addr[i+1:], "%d", &port)
			return host, port
		}
	}
	return addr, 0
}
