package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	coremetrics "github.com/kilianp07/evfleet/core/metrics"
	"github.com/kilianp07/evfleet/core/model"
	"github.com/kilianp07/evfleet/infra/logger"
)

// pahoClient is the subset of paho.Client used by Publisher.
type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Publisher sends simulation results to MQTT topics.
type Publisher struct {
	cli        pahoClient
	prefix     string
	qos        byte
	retain     bool
	maxRetries int
	backoff    time.Duration
	log        logger.Logger
}

// summaryMessage is the payload of a per-vehicle day summary.
type summaryMessage struct {
	RunID string `json:"run_id"`
	model.DaySummary
}

type statsMessage struct {
	RunID string `json:"run_id"`
	model.DayStats
}

// NewPublisher connects to the broker described by cfg.
func NewPublisher(cfg Config) (*Publisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt_publisher")
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected to %s", cfg.Broker)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return &Publisher{
		cli:        c,
		prefix:     cfg.TopicPrefix,
		qos:        cfg.QoS,
		retain:     cfg.Retain,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		log:        log,
	}, nil
}

// NewClientOptions builds mqtt client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	return opts, nil
}

// SummaryTopic returns the topic of a vehicle's day summaries.
func (p *Publisher) SummaryTopic(ev int) string {
	return fmt.Sprintf("%s/ev/%d/day", p.prefix, ev)
}

// StatsTopic returns the topic of fleet day aggregates.
func (p *Publisher) StatsTopic() string {
	return p.prefix + "/fleet/day"
}

// RecordDaySummaries publishes every summary on its vehicle topic.
func (p *Publisher) RecordDaySummaries(run model.Run, res []model.DaySummary) error {
	for _, r := range res {
		payload, err := json.Marshal(summaryMessage{RunID: run.ID, DaySummary: r})
		if err != nil {
			return err
		}
		if err := p.publish(p.SummaryTopic(r.EV), payload); err != nil {
			return err
		}
	}
	return nil
}

// RecordDayStats publishes the fleet aggregates of each day.
func (p *Publisher) RecordDayStats(run model.Run, stats []model.DayStats) error {
	for _, st := range stats {
		payload, err := json.Marshal(statsMessage{RunID: run.ID, DayStats: st})
		if err != nil {
			return err
		}
		if err := p.publish(p.StatsTopic(), payload); err != nil {
			return err
		}
	}
	return nil
}

func (p *Publisher) publish(topic string, payload []byte) error {
	var publishErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		token := p.cli.Publish(topic, p.qos, p.retain, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			return nil
		}
		p.log.Errorf("publish attempt %d on %s failed: %v", attempt+1, topic, publishErr)
		if attempt < p.maxRetries {
			time.Sleep(p.backoff * time.Duration(1<<attempt))
		}
	}
	return fmt.Errorf("publish %s: %w", topic, publishErr)
}

// Close gracefully closes the MQTT connection.
func (p *Publisher) Close() error {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
	return nil
}

var (
	_ coremetrics.MetricsSink   = (*Publisher)(nil)
	_ coremetrics.StatsRecorder = (*Publisher)(nil)
	_ coremetrics.Closer        = (*Publisher)(nil)
)
