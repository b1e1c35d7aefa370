package util

import (
	"context"
	"fmt"
	"strings"

	paho "github.com/eclipse/paho.mqtt.golang"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const mosquittoConf = `listener 1883
allow_anonymous true
persistence false
log_dest stdout
log_type error
log_type warning
`

// StartMosquitto runs an anonymous Mosquitto 2 broker and returns its tcp://
// URL once a client can connect, with a func terminating the container.
func StartMosquitto(ctx context.Context) (string, func(), error) {
	req := tc.ContainerRequest{
		Image:        "eclipse-mosquitto:2.0",
		ExposedPorts: []string{"1883/tcp"},
		WaitingFor:   wait.ForListeningPort("1883/tcp"),
		Files: []tc.ContainerFile{{
			Reader:            strings.NewReader(mosquittoConf),
			ContainerFilePath: "/mosquitto/config/mosquitto.conf",
			FileMode:          0o644,
		}},
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = cont.Terminate(context.Background()) }

	endpoint, err := cont.PortEndpoint(ctx, "1883/tcp", "tcp")
	if err != nil {
		cleanup()
		return "", nil, err
	}

	readyCtx, cancel := context.WithTimeout(ctx, MosquittoReadyTimeout)
	defer cancel()
	if err := waitForBroker(readyCtx, endpoint); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("broker %s not ready: %w", endpoint, err)
	}
	return endpoint, cleanup, nil
}

func waitForBroker(ctx context.Context, broker string) error {
	opts := paho.NewClientOptions().AddBroker(broker).SetClientID("evfleet-probe")
	return poll(ctx, func() (bool, error) {
		cli := paho.NewClient(opts)
		tok := cli.Connect()
		tok.Wait()
		if tok.Error() != nil {
			return false, nil
		}
		cli.Disconnect(100)
		return true, nil
	})
}
