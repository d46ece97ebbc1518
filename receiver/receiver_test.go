package receiver

import (
	"bytes"
	"context"
	"github.com/stretchr/testify/assert"
	"net"
	"sync"
	"testing"
	"time"
)

func TestNewFromReader(t *testing.T) {
	config := `listen = "127.0.0.1:0"`
	udp, err := NewFromReader(bytes.NewBufferString(config), make(chan []byte, 1))
	assert.NoError(t, err)
	assert.Equal(t, "127.0.0.1:0", udp.Config.Listen)
}

func TestNewFromReaderBadConfig(t *testing.T) {
	_, err := NewFromReader(bytes.NewBufferString("listen = ["), make(chan []byte, 1))
	assert.Error(t, err)
}

func TestReceive(t *testing.T) {
	payloadChan := make(chan []byte, 1)
	udp := New(&Config{Listen: "127.0.0.1:0"}, payloadChan)
	assert.NoError(t, udp.Open())

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		err := udp.Start(ctx)
		assert.Equal(t, context.Canceled, err)
		wg.Done()
	}()

	conn, err := net.Dial("udp", udp.conn.LocalAddr().String())
	assert.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("1,2,3"))
	assert.NoError(t, err)

	select {
	case payload := <-payloadChan:
		assert.Equal(t, []byte("1,2,3"), payload)
	case <-time.After(3 * time.Second):
		t.Fatal("no payload received")
	}
	assert.Equal(t, uint64(1), udp.Received())

	cancel()
	wg.Wait()
}

func TestOpenFailure(t *testing.T) {
	origListenPacket := listenPacket
	listenPacket = func(string) (net.PacketConn, error) {
		return nil, assert.AnError
	}
	defer func() {
		listenPacket = origListenPacket
	}()

	udp := New(&Config{Listen: ":0"}, make(chan []byte, 1))
	assert.Error(t, udp.Open())
}

func TestCloseWithoutOpen(t *testing.T) {
	udp := New(&Config{Listen: ":0"}, make(chan []byte, 1))
	assert.NoError(t, udp.Close())
}
