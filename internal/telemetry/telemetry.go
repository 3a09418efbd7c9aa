// Package telemetry publishes a live device-state snapshot to MQTT,
// grounded on the teacher's mqtt_publisher.go (paho.mqtt.golang client
// construction, auto-reconnect options, ticker-driven publish loop) and on
// the same subscriber mechanism every remote client session uses
// (internal/devstate.UpdateSet) to know when the snapshot is stale. Unlike
// the teacher, which publishes time-series metric history, this publisher
// only ever sends the current snapshot: spec.md's remote protocol server
// (§4.6) explicitly has no historical logging, and telemetry mirrors that.
package telemetry

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/n1kdo/kpa500-bridge/internal/devstate"
)

// publishInterval bounds how often the subscriber's pending changes are
// drained and published, coalescing any faster stream of state updates
// into at most one publish per tick.
const publishInterval = 250 * time.Millisecond

// Publisher pushes one device's state table to MQTT whenever its
// subscription sees a change, at most once per publishInterval.
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
	device      string
	state       *devstate.State
	updates     *devstate.UpdateSet
}

// New connects to broker and returns a Publisher for one device's state
// table. The device label ("amp" or "tuner") becomes part of the topic.
// New registers a subscription on state, the same mechanism every remote
// client session uses (internal/remote.Server), so Run only publishes when
// something has actually changed.
func New(broker, clientID, username, password, topicPrefix, device string, state *devstate.State) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientIDOrRandom(clientID))
	if username != "" {
		opts.SetUsername(username)
	}
	if password != "" {
		opts.SetPassword(password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(10 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		log.Printf("telemetry: %s connected to %s", device, broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Printf("telemetry: %s connection lost: %v", device, err)
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("telemetry: connect to %s: %w", broker, token.Error())
	}

	updates := devstate.NewUpdateSet(state.Len())
	state.Register(updates)

	return &Publisher{
		client:      client,
		topicPrefix: topicPrefix,
		device:      device,
		state:       state,
		updates:     updates,
	}, nil
}

func clientIDOrRandom(id string) string {
	if id != "" {
		return id
	}
	b := make([]byte, 8)
	rand.Read(b)
	return "kpa500-bridge_" + hex.EncodeToString(b)
}

// Run publishes one retained snapshot at start, then drains the
// subscription every publishInterval, publishing again only when at least
// one key changed since the last drain, until ctx is canceled.
func (p *Publisher) Run(ctx context.Context) {
	ticker := time.NewTicker(publishInterval)
	defer ticker.Stop()

	p.publishSnapshot()
	for {
		select {
		case <-ctx.Done():
			p.state.Unregister(p.updates)
			p.client.Disconnect(250)
			return
		case <-ticker.C:
			if p.drainPending() {
				p.publishSnapshot()
			}
		}
	}
}

// drainPending pops every index the subscription has queued and reports
// whether anything was pending. The snapshot published afterward is still
// the full state table, not a partial delta, so the indices themselves are
// discarded — only the fact that something changed matters.
func (p *Publisher) drainPending() bool {
	changed := false
	for {
		if _, ok := p.updates.PopFront(); !ok {
			break
		}
		changed = true
	}
	return changed
}

func (p *Publisher) publishSnapshot() {
	snapshot := make(map[string]string, p.state.Len())
	for i := 0; i < p.state.Len(); i++ {
		snapshot[p.state.Key(i)] = p.state.Get(i)
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		log.Printf("telemetry: %s: marshal snapshot: %v", p.device, err)
		return
	}
	topic := fmt.Sprintf("%s/%s/state", p.topicPrefix, p.device)
	token := p.client.Publish(topic, 0, true, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		log.Printf("telemetry: %s: publish to %s: %v", p.device, topic, err)
	}
}
