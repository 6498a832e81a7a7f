// ABOUTME: Entry point for the visor live feed client
// ABOUTME: Parses CLI flags and runs the feed application
package main

import (
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/visorlabs/visor-go/internal/app"
	"github.com/visorlabs/visor-go/internal/version"
)

var (
	addr      = flag.String("addr", "", "Headset address as host:port (default: discover via mDNS)")
	timeout   = flag.Duration("timeout", 10*time.Second, "mDNS discovery timeout")
	logFile   = flag.String("log-file", "visor-feed.log", "Log file path")
	metrics   = flag.String("metrics", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	noTUI     = flag.Bool("no-tui", false, "Disable the terminal status display")
	noRestart = flag.Bool("no-restart", false, "Do not reconnect sensor streams after a drop")
)

func main() {
	flag.Parse()

	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer f.Close()

	// With the TUI active, console logging would garble the display.
	if *noTUI {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	} else {
		log.SetOutput(f)
	}

	log.Printf("Starting %s %s", version.Product, version.Version)
	log.Printf("Logging to: %s", *logFile)

	config := app.Config{
		DeviceAddr:       *addr,
		DiscoveryTimeout: *timeout,
		Restart:          !*noRestart,
		MetricsAddr:      *metrics,
		NoTUI:            *noTUI,
	}

	feed := app.New(config)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("Received %v signal, shutting down gracefully...", sig)
		feed.Stop()
	}()

	if err := feed.Run(); err != nil {
		log.Fatalf("Feed error: %v", err)
	}

	log.Printf("Goodbye")
}
