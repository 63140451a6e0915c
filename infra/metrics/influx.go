package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/portlink/streetturn/core/matching"
	coremetrics "github.com/portlink/streetturn/core/metrics"
	"github.com/portlink/streetturn/infra/logger"
)

// InfluxConfig holds the connection settings of an InfluxSink.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes scored pairs to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
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

// RecordRun writes one match_suggestion point per scored booking.
func (s *InfluxSink) RecordRun(run matching.Run) error {
	var points []*write.Point
	for _, sg := range run.Suggestions {
		for _, b := range sg.Bookings {
			points = append(points, suggestionPoint(run, sg, b))
		}
	}
	if len(points) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, points...)
}

// RecordRunLatency writes the run duration.
func (s *InfluxSink) RecordRunLatency(l coremetrics.RunLatency) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("match_run").
		AddTag("org_id", l.OrgID).
		AddTag("failed", boolTag(l.Failed)).
		AddField("duration_ms", round3(l.Duration.Seconds()*1000)).
		SetTime(time.Now())
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the HTTP client resources.
func (s *InfluxSink) Close() { s.client.Close() }

func suggestionPoint(run matching.Run, sg matching.Suggestion, b matching.ScoredBooking) *write.Point {
	return write.NewPointWithMeasurement("match_suggestion").
		AddTag("org_id", run.OrgID).
		AddTag("run_id", run.ID).
		AddTag("container_id", sg.Container.ID).
		AddTag("booking_id", b.Booking.ID).
		AddTag("scenario", string(b.Scenario)).
		AddField("total_score", round3(b.Score.TotalScore)).
		AddField("distance_km", round3(b.DistanceKM)).
		AddField("time_gap_hours", round3(b.TimeGapHours)).
		AddField("cost_saving_vnd", round3(b.EstimatedCostSaving)).
		AddField("co2_saving_kg", round3(b.EstimatedCO2SavingKg)).
		SetTime(run.Timestamp)
}

func boolTag(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
