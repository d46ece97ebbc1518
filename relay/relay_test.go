package relay

import (
	"bytes"
	"context"
	"fmt"
	"github.com/stretchr/testify/assert"
	"net"
	"testing"
	"time"
)

func TestRelay(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	assert.NoError(t, err)
	defer pc.Close()

	config := fmt.Sprintf(`destinations = ["%s"]`, pc.LocalAddr().String())
	udp, err := NewFromReader(bytes.NewBufferString(config))
	assert.NoError(t, err)
	defer udp.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = udp.Start(ctx)
	}()

	payload := []byte("7,6500.0,3,0.850,0.000,1800.00,41.250,2,182.50,5,12,3,45.120,92.305,91.882")
	udp.Forward(payload)

	buffer := make([]byte, 1024)
	assert.NoError(t, pc.SetReadDeadline(time.Now().Add(time.Second*3)))
	n, _, err := pc.ReadFrom(buffer)
	assert.NoError(t, err)
	assert.Equal(t, payload, buffer[:n])
}

func TestRelayBadDestination(t *testing.T) {
	_, err := New(&Config{Destinations: []string{"not a host:port:at all"}})
	assert.Error(t, err)
}

func TestForwardCopiesPayload(t *testing.T) {
	udp := &UDPRelay{
		Config:  &Config{},
		fwdChan: make(chan []byte, 1),
	}
	payload := []byte("1,2,3")
	udp.Forward(payload)
	payload[0] = 'x'

	queued := <-udp.fwdChan
	assert.Equal(t, []byte("1,2,3"), queued)
}
