package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/evfleet/core/metrics"
	"github.com/kilianp07/evfleet/core/model"
	"github.com/kilianp07/evfleet/infra/logger"
)

// InfluxSink writes simulation results to an InfluxDB instance using the
// official client. Simulated days are stamped at run start plus (day-1)*24h.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordDaySummaries writes one ev_day_summary point per vehicle and day.
func (s *InfluxSink) RecordDaySummaries(run model.Run, res []model.DaySummary) error {
	if len(res) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	points := make([]*write.Point, 0, len(res))
	for _, r := range res {
		p := write.NewPointWithMeasurement("ev_day_summary").
			AddTag("run_id", run.ID).
			AddTag("ev", strconv.Itoa(r.EV)).
			AddTag("day", strconv.Itoa(r.Day)).
			AddField("initial_soc", round3(r.InitialSoC)).
			AddField("final_soc", round3(r.FinalSoC)).
			AddField("goal_kwh", round3(r.GoalKWh)).
			AddField("arrival_h", round3(r.ArrivalHour)).
			AddField("departure_h", round3(r.DepartureHour)).
			SortTags().
			SetTime(dayTime(run, r.Day))
		points = append(points, p)
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// RecordDayStats writes one fleet_day_stats point per day.
func (s *InfluxSink) RecordDayStats(run model.Run, stats []model.DayStats) error {
	if len(stats) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	points := make([]*write.Point, 0, len(stats))
	for _, st := range stats {
		p := write.NewPointWithMeasurement("fleet_day_stats").
			AddTag("run_id", run.ID).
			AddTag("day", strconv.Itoa(st.Day)).
			AddField("vehicles", st.Vehicles).
			AddField("mean_initial_soc", round3(st.MeanInitialSoC)).
			AddField("std_initial_soc", round3(st.StdInitialSoC)).
			AddField("total_goal_kwh", round3(st.TotalGoal)).
			AddField("mean_final_soc", round3(st.MeanFinalSoC)).
			SortTags().
			SetTime(dayTime(run, st.Day))
		points = append(points, p)
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// Close releases the underlying HTTP client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

func dayTime(run model.Run, day int) time.Time {
	start := run.StartedAt
	if start.IsZero() {
		start = time.Now()
	}
	return start.Add(time.Duration(day-1) * 24 * time.Hour)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
