// Package bridge wires one device's serial link, command queue, driver,
// and remote protocol server together and runs it for the process
// lifetime (spec C8, §4.7). Grounded on the teacher's per-component
// goroutine-launch idiom in main.go.
package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/n1kdo/kpa500-bridge/internal/config"
	"github.com/n1kdo/kpa500-bridge/internal/devstate"
	"github.com/n1kdo/kpa500-bridge/internal/driver"
	"github.com/n1kdo/kpa500-bridge/internal/metrics"
	"github.com/n1kdo/kpa500-bridge/internal/queue"
	"github.com/n1kdo/kpa500-bridge/internal/remote"
	"github.com/n1kdo/kpa500-bridge/internal/serialio"
)

// metricsPollInterval bounds how often Device samples its own state to
// report gauges; it is independent of the driver's own scheduling.
const metricsPollInterval = 2 * time.Second

// Spec bundles the device-specific pieces a Device needs: its key table,
// initial values, driver profile, initial broadcast order, client control
// dispatcher, and the index of the key that carries power on/off state (so
// Device can report bridge_device_power). internal/amp and internal/tuner
// each provide one.
type Spec struct {
	Label            string
	Keys             []string
	InitialValues    []string
	Profile          driver.Profile
	InitialBroadcast []int
	Dispatch         func(line string) ([][]byte, bool)
	PowerKeyIndex    int
	PowerOnValue     string
}

// Device is one running bridged device: its serial port, command queue,
// state table, driver, and remote TCP server.
type Device struct {
	Label         string
	State         *devstate.State
	Queue         *queue.Queue
	port          *serialio.Port
	driver        *driver.Driver
	server        *remote.Server
	metrics       *metrics.Metrics
	powerKeyIndex int
	powerOnValue  string
}

// Start opens the serial port and constructs the device's state, queue,
// driver, and remote server, but does not yet run anything.
func Start(spec Spec, cfg config.DeviceConfig, m *metrics.Metrics) (*Device, error) {
	port, err := serialio.Open(cfg.SerialPort)
	if err != nil {
		return nil, fmt.Errorf("%s: open serial port %s: %w", spec.Label, cfg.SerialPort, err)
	}

	state := devstate.New(spec.Label, spec.Keys, spec.InitialValues)
	q := queue.New(queue.DefaultCapacity, spec.Label)
	drv := driver.New(port, q, state, spec.Profile)

	if m != nil {
		q.OnOverflow = func() { m.QueueOverflow(spec.Label) }
		q.OnEnqueue = func() { m.CommandQueued(spec.Label) }
		drv.OnParseError = func() { m.ParseError(spec.Label) }
		drv.OnReplyObserved = func() { m.ReplyObserved(spec.Label) }
	}

	server := remote.New(remote.Device{
		Label:            spec.Label,
		Username:         cfg.Username,
		Password:         cfg.Password,
		State:            state,
		Queue:            q,
		InitialBroadcast: spec.InitialBroadcast,
		Dispatch:         spec.Dispatch,
	})

	return &Device{
		Label:         spec.Label,
		State:         state,
		Queue:         q,
		port:          port,
		driver:        drv,
		server:        server,
		metrics:       m,
		powerKeyIndex: spec.PowerKeyIndex,
		powerOnValue:  spec.PowerOnValue,
	}, nil
}

// Run launches the driver loop and the TCP acceptor and blocks until ctx is
// canceled or the listener fails.
func (d *Device) Run(ctx context.Context, listen string) error {
	go d.driver.Run(ctx)

	if d.metrics != nil {
		go d.reportMetrics(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- d.server.ListenAndServe(listen)
	}()

	select {
	case <-ctx.Done():
		d.port.Close()
		return nil
	case err := <-errCh:
		return err
	}
}

// reportMetrics samples the client count and power state at a fixed
// cadence, independent of the driver's own scheduling.
func (d *Device) reportMetrics(ctx context.Context) {
	ticker := time.NewTicker(metricsPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.metrics.SetClientsConnected(d.Label, d.State.SubscriberCount())
			d.metrics.SetDevicePower(d.Label, d.State.Get(d.powerKeyIndex) == d.powerOnValue)
			d.metrics.SetDriverState(d.Label, d.driver.State())
		}
	}
}
