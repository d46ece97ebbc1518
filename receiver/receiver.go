package receiver

import (
	"context"
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"io"
	"net"
	"sync/atomic"
)

// Datagrams are short ASCII records, well under this.
const maxDatagramSize = 512

type Config struct {
	Listen string `toml:"listen"`
}

// UDPReceiver listens for telemetry datagrams and hands each payload to
// a channel. One datagram is one payload; framing and reassembly never
// happen here.
type UDPReceiver struct {
	Config *Config

	conn        net.PacketConn
	payloadChan chan<- []byte
	received    atomic.Uint64
}

// to allow testing
var listenPacket = func(addr string) (net.PacketConn, error) {
	return net.ListenPacket("udp", addr)
}

func New(config *Config, payloadChan chan<- []byte) *UDPReceiver {
	return &UDPReceiver{
		Config:      config,
		payloadChan: payloadChan,
	}
}

func NewFromReader(configReader io.Reader, payloadChan chan<- []byte) (*UDPReceiver, error) {
	configData, err := io.ReadAll(configReader)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read config reader")
	}
	config := Config{}
	if _, err := toml.Decode(string(configData), &config); err != nil {
		return nil, errors.Wrap(err, "unable to load receiver configuration")
	}
	return New(&config, payloadChan), nil
}

func (udp *UDPReceiver) Name() string {
	return "udp-receiver"
}

func (udp *UDPReceiver) Open() error {
	conn, err := listenPacket(udp.Config.Listen)
	if err != nil {
		return errors.Wrapf(err, "unable to listen on %s", udp.Config.Listen)
	}
	udp.conn = conn
	log.WithField("addr", conn.LocalAddr().String()).Info("listening for telemetry")
	return nil
}

func (udp *UDPReceiver) Close() error {
	if udp.conn == nil {
		return nil
	}
	return udp.conn.Close()
}

// Start reads datagrams until the context is cancelled. A full payload
// channel drops the datagram: the consumer always wants the freshest
// record, never a backlog.
func (udp *UDPReceiver) Start(ctx context.Context) error {
	conn := udp.conn
	go func() {
		<-ctx.Done()
		if err := conn.Close(); err != nil {
			log.WithField("err", err).Warn("unable to close receiver socket after context")
		}
	}()

	buffer := make([]byte, maxDatagramSize)
	for {
		n, _, err := conn.ReadFrom(buffer)
		if err != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			return errors.Wrap(err, "unable to read datagram")
		}
		payload := make([]byte, n)
		copy(payload, buffer[:n])
		udp.received.Add(1)
		select {
		case udp.payloadChan <- payload:
		default:
		}
	}
}

// Received returns the number of datagrams read since startup,
// including ones later rejected by the decoder.
func (udp *UDPReceiver) Received() uint64 {
	return udp.received.Load()
}
