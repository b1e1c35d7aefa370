package util

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Credentials provisioned in the InfluxDB container.
const (
	InfluxOrg    = "evfleet"
	InfluxBucket = "runs"
	InfluxToken  = "evfleet-test-token"
)

// StartInflux launches an InfluxDB 2.7 container initialised with InfluxOrg,
// InfluxBucket and InfluxToken. It returns the base URL and a cleanup func.
func StartInflux(ctx context.Context) (string, func(), error) {
	req := tc.ContainerRequest{
		Image:        "influxdb:2.7",
		ExposedPorts: []string{"8086/tcp"},
		Env: map[string]string{
			"DOCKER_INFLUXDB_INIT_MODE":        "setup",
			"DOCKER_INFLUXDB_INIT_USERNAME":    "evfleet",
			"DOCKER_INFLUXDB_INIT_PASSWORD":    "evfleet-password",
			"DOCKER_INFLUXDB_INIT_ORG":         InfluxOrg,
			"DOCKER_INFLUXDB_INIT_BUCKET":      InfluxBucket,
			"DOCKER_INFLUXDB_INIT_ADMIN_TOKEN": InfluxToken,
		},
		WaitingFor: wait.ForHTTP("/health").WithPort("8086/tcp").WithStartupTimeout(60 * time.Second),
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = cont.Terminate(context.Background()) }
	host, err := cont.Host(ctx)
	if err != nil {
		cleanup()
		return "", nil, err
	}
	port, err := cont.MappedPort(ctx, "8086")
	if err != nil {
		cleanup()
		return "", nil, err
	}
	return fmt.Sprintf("http://%s:%s", host, port.Port()), cleanup, nil
}

// InfluxClient queries the test InfluxDB instance.
type InfluxClient struct {
	client influxdb2.Client
	query  api.QueryAPI
}

// NewInfluxClient creates a client for the provisioned organisation.
func NewInfluxClient(url string) *InfluxClient {
	c := influxdb2.NewClient(url, InfluxToken)
	return &InfluxClient{client: c, query: c.QueryAPI(InfluxOrg)}
}

// CountRecords returns the number of field records of measurement written
// for runID.
func (c *InfluxClient) CountRecords(ctx context.Context, measurement, runID string) (int, error) {
	flux := fmt.Sprintf(`from(bucket: %q)
  |> range(start: 0)
  |> filter(fn: (r) => r._measurement == %q and r.run_id == %q)`, InfluxBucket, measurement, runID)
	res, err := c.query.Query(ctx, flux)
	if err != nil {
		return 0, err
	}
	defer func() { _ = res.Close() }()
	n := 0
	for res.Next() {
		n++
	}
	return n, res.Err()
}

// Close releases the underlying client resources.
func (c *InfluxClient) Close() { c.client.Close() }
