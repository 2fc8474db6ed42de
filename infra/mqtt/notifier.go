// Package mqtt publishes timetable change events to an MQTT broker so
// downstream consumers (messaging gateways, dashboards) can react to
// admissions and removals.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/lessonbird/timetable/core/events"
	"github.com/lessonbird/timetable/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Enabled     bool   `json:"enabled"`
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	TopicPrefix string `json:"topic_prefix"`
	QoS         byte   `json:"qos"`
	Retain      bool   `json:"retain"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "timetable-service"
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = "timetable"
	}
}

// Notifier publishes change events.
type Notifier interface {
	NotifyAdmitted(ev events.AdmittedEvent) error
	NotifyRemoved(ev events.RemovedEvent) error
	Close()
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) NotifyAdmitted(events.AdmittedEvent) error { return nil }
func (NopNotifier) NotifyRemoved(events.RemovedEvent) error   { return nil }
func (NopNotifier) Close()                                    {}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// PahoNotifier implements Notifier using Eclipse Paho.
type PahoNotifier struct {
	cli    pahoClient
	prefix string
	qos    byte
	retain bool
	log    logger.Logger
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// NewPahoNotifier connects to the MQTT broker.
func NewPahoNotifier(cfg Config) (*PahoNotifier, error) {
	cfg.SetDefaults()
	log := logger.New("mqtt-notifier")
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected")
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &PahoNotifier{cli: c, prefix: cfg.TopicPrefix, qos: cfg.QoS, retain: cfg.Retain, log: log}, nil
}

func (n *PahoNotifier) publish(topic string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	token := n.cli.Publish(topic, n.qos, n.retain, b)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	return token.Error()
}

// NotifyAdmitted publishes the admission on
// <prefix>/<school>/<term>/admitted.
func (n *PahoNotifier) NotifyAdmitted(ev events.AdmittedEvent) error {
	topic := fmt.Sprintf("%s/%s/%s/admitted", n.prefix, ev.Placement.SchoolID, ev.Placement.TermID)
	return n.publish(topic, ev)
}

// NotifyRemoved publishes the removal on <prefix>/<school>/<term>/removed.
func (n *PahoNotifier) NotifyRemoved(ev events.RemovedEvent) error {
	topic := fmt.Sprintf("%s/%s/%s/removed", n.prefix, ev.Placement.SchoolID, ev.Placement.TermID)
	return n.publish(topic, ev)
}

// Close disconnects from the broker.
func (n *PahoNotifier) Close() {
	if n.cli.IsConnected() {
		n.cli.Disconnect(250)
	}
}
