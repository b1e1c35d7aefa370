package mqtt

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/evfleet/core/model"
)

type dummyToken struct{ err error }

func (t *dummyToken) Wait() bool                     { return true }
func (t *dummyToken) WaitTimeout(time.Duration) bool { return true }
func (t *dummyToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *dummyToken) Error() error { return t.err }

type published struct {
	topic   string
	qos     byte
	retain  bool
	payload []byte
}

type mockClient struct {
	mu           sync.Mutex
	opts         *paho.ClientOptions
	connectErr   error
	publishErrs  []error
	published    []published
	disconnected bool
}

func (m *mockClient) IsConnected() bool { return !m.disconnected }
func (m *mockClient) Connect() paho.Token {
	if m.connectErr != nil {
		return &dummyToken{err: m.connectErr}
	}
	return &dummyToken{}
}
func (m *mockClient) Disconnect(uint) { m.disconnected = true }
func (m *mockClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, published{topic, qos, retained, payload.([]byte)})
	if len(m.publishErrs) > 0 {
		err := m.publishErrs[0]
		m.publishErrs = m.publishErrs[1:]
		return &dummyToken{err: err}
	}
	return &dummyToken{}
}

func withMockClient(t *testing.T, mc *mockClient) {
	t.Helper()
	newMQTTClient = func(o *paho.ClientOptions) pahoClient { mc.opts = o; return mc }
	t.Cleanup(func() {
		newMQTTClient = func(opts *paho.ClientOptions) pahoClient { return paho.NewClient(opts) }
	})
}

func TestPublisherRecordDaySummaries(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)
	p, err := NewPublisher(Config{Broker: "tcp://localhost:1883", QoS: 1, TopicPrefix: "sim"})
	require.NoError(t, err)

	res := []model.DaySummary{
		{EV: 0, Day: 1, InitialSoC: 1200.5, GoalKWh: 3000, ArrivalHour: 18, DepartureHour: 7},
		{EV: 3, Day: 1, InitialSoC: 1500, GoalKWh: 1000, ArrivalHour: 22, DepartureHour: 6},
	}
	require.NoError(t, p.RecordDaySummaries(model.Run{ID: "r1"}, res))

	require.Len(t, mc.published, 2)
	assert.Equal(t, "sim/ev/0/day", mc.published[0].topic)
	assert.Equal(t, "sim/ev/3/day", mc.published[1].topic)
	assert.Equal(t, byte(1), mc.published[0].qos)

	var msg map[string]any
	require.NoError(t, json.Unmarshal(mc.published[0].payload, &msg))
	assert.Equal(t, "r1", msg["run_id"])
	assert.Equal(t, 1200.5, msg["Initial SoC"])
	assert.Equal(t, 3000.0, msg["Goal (kWh)"])
	assert.Equal(t, 1.0, msg["Day"])

	require.NoError(t, p.Close())
	assert.True(t, mc.disconnected)
}

func TestPublisherRecordDayStats(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)
	p, err := NewPublisher(Config{Broker: "tcp://localhost:1883"})
	require.NoError(t, err)

	require.NoError(t, p.RecordDayStats(model.Run{ID: "r2"}, []model.DayStats{{Day: 1, Vehicles: 2}}))
	require.Len(t, mc.published, 1)
	assert.Equal(t, "evfleet/fleet/day", mc.published[0].topic)
	assert.Contains(t, string(mc.published[0].payload), `"vehicles":2`)
}

func TestPublisherRetriesThenFails(t *testing.T) {
	fail := errors.New("net fail")
	mc := &mockClient{publishErrs: []error{fail, fail, fail}}
	withMockClient(t, mc)
	p, err := NewPublisher(Config{Broker: "tcp://localhost:1883", MaxRetries: 2, BackoffMS: 1})
	require.NoError(t, err)

	err = p.RecordDaySummaries(model.Run{}, []model.DaySummary{{EV: 1}})
	assert.ErrorIs(t, err, fail)
	assert.Len(t, mc.published, 3)
}

func TestPublisherRetrySucceeds(t *testing.T) {
	mc := &mockClient{publishErrs: []error{errors.New("transient")}}
	withMockClient(t, mc)
	p, err := NewPublisher(Config{Broker: "tcp://localhost:1883", MaxRetries: 2, BackoffMS: 1})
	require.NoError(t, err)

	require.NoError(t, p.RecordDaySummaries(model.Run{}, []model.DaySummary{{EV: 1}}))
	assert.Len(t, mc.published, 2)
}

func TestNewPublisherErrors(t *testing.T) {
	_, err := NewPublisher(Config{})
	assert.Error(t, err)

	mc := &mockClient{connectErr: errors.New("refused")}
	withMockClient(t, mc)
	_, err = NewPublisher(Config{Broker: "tcp://localhost:1883"})
	assert.Error(t, err)
}

func TestNewClientOptionsAuth(t *testing.T) {
	opts, err := NewClientOptions(Config{Broker: "tcp://localhost:1883", ClientID: "id", Username: "u", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, "u", opts.Username)
	assert.Equal(t, "p", opts.Password)
	assert.True(t, opts.AutoReconnect)
}
