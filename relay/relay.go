package relay

import (
	"context"
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"io"
	"net"
	"time"
)

type Config struct {
	Destinations []string `toml:"destinations"`
}

// UDPRelay re-broadcasts raw telemetry payloads to additional
// destinations, letting a second display or a logging PC tap the
// stream without touching the sender.
type UDPRelay struct {
	Config *Config

	conns   []net.Conn
	fwdChan chan []byte
}

func New(config *Config) (*UDPRelay, error) {
	udp := &UDPRelay{
		Config:  config,
		fwdChan: make(chan []byte, 1),
	}
	if err := udp.connect(); err != nil {
		return nil, err
	}
	return udp, nil
}

func NewFromReader(configReader io.Reader) (*UDPRelay, error) {
	configData, err := io.ReadAll(configReader)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read config reader")
	}
	config := Config{}
	if _, err := toml.Decode(string(configData), &config); err != nil {
		return nil, errors.Wrap(err, "unable to load relay configuration")
	}
	return New(&config)
}

func (udp *UDPRelay) connect() error {
	for _, dest := range udp.Config.Destinations {
		conn, err := net.Dial("udp", dest)
		if err != nil {
			return errors.Wrapf(err, "unable to dial relay destination %s", dest)
		}
		udp.conns = append(udp.conns, conn)
	}
	return nil
}

func (udp *UDPRelay) Close() error {
	var firstErr error
	for _, conn := range udp.conns {
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Forward queues one raw payload for re-broadcast. A full queue drops
// the payload; the next datagram supersedes it anyway.
func (udp *UDPRelay) Forward(payload []byte) {
	payloadCopy := make([]byte, len(payload))
	copy(payloadCopy, payload)
	select {
	case udp.fwdChan <- payloadCopy:
	default:
	}
}

func (udp *UDPRelay) Start(ctx context.Context) error {
	limiter := time.Tick(50 * time.Millisecond)
	for {
		<-limiter
		select {
		case payload := <-udp.fwdChan:
			for _, conn := range udp.conns {
				if _, err := conn.Write(payload); err != nil {
					log.Error("unable to relay telemetry ", err)
				}
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
