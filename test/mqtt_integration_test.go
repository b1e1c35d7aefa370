//go:build integration

package test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/evfleet/core/model"
	"github.com/kilianp07/evfleet/infra/mqtt"
	"github.com/kilianp07/evfleet/test/util"
)

func TestMQTTPublisherWithMosquitto(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	broker, cleanup, err := util.StartMosquitto(ctx)
	if err != nil {
		t.Skipf("mosquitto unavailable: %v", err)
	}
	defer cleanup()

	var mu sync.Mutex
	received := map[string][]byte{}
	sub := paho.NewClient(paho.NewClientOptions().AddBroker(broker).SetClientID("evfleet-listener"))
	tok := sub.Connect()
	require.True(t, tok.WaitTimeout(5*time.Second))
	require.NoError(t, tok.Error())
	defer sub.Disconnect(100)
	tok = sub.Subscribe("it/#", 1, func(_ paho.Client, m paho.Message) {
		mu.Lock()
		defer mu.Unlock()
		received[m.Topic()] = m.Payload()
	})
	require.True(t, tok.WaitTimeout(5*time.Second))
	require.NoError(t, tok.Error())

	pub, err := mqtt.NewPublisher(mqtt.Config{Broker: broker, TopicPrefix: "it", QoS: 1})
	require.NoError(t, err)
	defer func() { _ = pub.Close() }()

	run := model.Run{ID: "run-1", Days: 1, Vehicles: 2}
	res := []model.DaySummary{
		{EV: 1, Day: 1, InitialSoC: 1000, GoalKWh: 4000, ArrivalHour: 18, DepartureHour: 7, FinalSoC: 4000},
		{EV: 2, Day: 1, InitialSoC: 2000, GoalKWh: 5000, ArrivalHour: 20, DepartureHour: 6, FinalSoC: 5000},
	}
	require.NoError(t, pub.RecordDaySummaries(run, res))
	require.NoError(t, pub.RecordDayStats(run, []model.DayStats{{Day: 1, Vehicles: 2, TotalGoal: 9000}}))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 3
	}, 5*time.Second, 50*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	var got model.DaySummary
	require.NoError(t, json.Unmarshal(received[pub.SummaryTopic(2)], &got))
	assert.Equal(t, res[1], got)
	assert.Contains(t, received, pub.StatsTopic())
}
