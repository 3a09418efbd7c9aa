// Command bridge is the KPA500/KAT500 serial-to-TCP bridge orchestrator
// (spec C8, §4.7): it opens each configured device's serial port and runs
// its driver and remote protocol server for the process lifetime.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/jessevdk/go-flags"

	"github.com/n1kdo/kpa500-bridge/internal/amp"
	"github.com/n1kdo/kpa500-bridge/internal/bridge"
	"github.com/n1kdo/kpa500-bridge/internal/config"
	"github.com/n1kdo/kpa500-bridge/internal/metrics"
	"github.com/n1kdo/kpa500-bridge/internal/telemetry"
	"github.com/n1kdo/kpa500-bridge/internal/tuner"
)

type options struct {
	ConfigFile string `short:"c" long:"config" description:"Path to configuration file" default:"bridge.yaml"`
	Verbose    bool   `short:"v" long:"verbose" description:"Enable verbose logging"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.Parse(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Printf("bridge: %v, using compiled-in defaults", err)
		cfg = config.Default()
	}
	if opts.Verbose || cfg.Logging.Verbose {
		log.Printf("bridge: verbose logging enabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		go func() {
			if err := metrics.ListenAndServe(cfg.Metrics.Listen); err != nil {
				log.Printf("bridge: metrics server: %v", err)
			}
		}()
		log.Printf("bridge: metrics exposed on %s/metrics", cfg.Metrics.Listen)
	}

	var wg sync.WaitGroup

	if cfg.Amplifier.Enabled {
		spec := bridge.Spec{
			Label:            "amp",
			Keys:             amp.Keys,
			InitialValues:    amp.InitialValues,
			Profile:          amp.Profile{},
			InitialBroadcast: amp.InitialBroadcast,
			Dispatch:         amp.Dispatch,
			PowerKeyIndex:    amp.KeyPwr,
			PowerOnValue:     "1",
		}
		if err := runDevice(ctx, &wg, spec, cfg.Amplifier, cfg.Telemetry, m); err != nil {
			log.Printf("bridge: amplifier: %v", err)
		}
	}

	if cfg.Tuner.Enabled {
		spec := bridge.Spec{
			Label:            "tuner",
			Keys:             tuner.Keys,
			InitialValues:    tuner.InitialValues,
			Profile:          tuner.Profile{},
			InitialBroadcast: tuner.InitialBroadcast,
			Dispatch:         tuner.Dispatch,
			PowerKeyIndex:    tuner.KeyPower,
			PowerOnValue:     "1",
		}
		if err := runDevice(ctx, &wg, spec, cfg.Tuner, cfg.Telemetry, m); err != nil {
			log.Printf("bridge: tuner: %v", err)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	log.Printf("bridge: shutting down")
	cancel()
	wg.Wait()
}

// runDevice starts one device's serial link, driver, remote server, and
// (if enabled) telemetry publisher, each in its own goroutine tracked by wg.
func runDevice(ctx context.Context, wg *sync.WaitGroup, spec bridge.Spec, dc config.DeviceConfig, tc config.TelemetryConfig, m *metrics.Metrics) error {
	dev, err := bridge.Start(spec, dc, m)
	if err != nil {
		return err
	}

	if tc.Enabled {
		pub, err := telemetry.New(tc.Broker, tc.ClientID+"-"+spec.Label, tc.Username, tc.Password, tc.TopicPrefix, spec.Label, dev.State)
		if err != nil {
			log.Printf("bridge: %s: telemetry disabled: %v", spec.Label, err)
		} else {
			wg.Add(1)
			go func() {
				defer wg.Done()
				pub.Run(ctx)
			}()
		}
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := dev.Run(ctx, dc.Listen); err != nil {
			log.Printf("bridge: %s: remote server stopped: %v", spec.Label, err)
		}
	}()

	log.Printf("bridge: %s ready on %s (serial %s)", spec.Label, dc.Listen, dc.SerialPort)
	return nil
}
