package main

import (
	"context"
	"flag"
	"github.com/BurntSushi/toml"
	"github.com/irdash/irdash"
	"github.com/irdash/irdash/receiver"
	"github.com/irdash/irdash/relay"
	"github.com/irdash/irdash/sessionlog"
	log "github.com/sirupsen/logrus"
	"time"
)

type Config struct {
	Schema   string            `toml:"schema"`
	TestMode bool              `toml:"test_mode"`
	Receiver receiver.Config   `toml:"receiver"`
	Relay    relay.Config      `toml:"relay"`
	Log      sessionlog.Config `toml:"log"`
}

func loadConfig(path string) (*Config, error) {
	config := Config{
		Schema: irdash.SchemaCurrent.Name,
		Receiver: receiver.Config{
			Listen: ":5005",
		},
		Log: sessionlog.Config{
			Dir: ".",
		},
	}
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

func main() {
	configPath := flag.String("config", "irdash.toml", "configuration file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log.SetLevel(log.InfoLevel)
	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	config, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal("unable to load configuration: ", err)
	}
	schema, err := irdash.SchemaByName(config.Schema)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	payloadChan := make(chan []byte, 1)
	engine := irdash.NewEngine(schema)

	udp := receiver.New(&config.Receiver, payloadChan)
	go func() {
		if err := irdash.Retry(ctx, udp); err != nil {
			log.Errorf("receiver done: %v", err)
		}
	}()

	var rly *relay.UDPRelay
	if len(config.Relay.Destinations) > 0 {
		rly, err = relay.New(&config.Relay)
		if err != nil {
			log.Fatal("unable to start relay: ", err)
		}
		go func() {
			_ = rly.Start(ctx)
		}()
	}

	var csvLog *sessionlog.Logger
	if config.Log.Enabled {
		csvLog, err = sessionlog.New(config.Log.Dir)
		if err != nil {
			log.Fatal("unable to open session log: ", err)
		}
		defer csvLog.Close()
	}

	if config.TestMode {
		log.Info("test mode: feeding synthetic telemetry")
		irdash.TestMode(ctx, payloadChan)
	}

	status := time.Tick(time.Second)
	for {
		select {
		case payload := <-payloadChan:
			if err := engine.Apply(payload); err != nil {
				log.WithError(err).Debug("discarding datagram")
				continue
			}
			if rly != nil {
				rly.Forward(payload)
			}
			if csvLog != nil {
				if err := csvLog.Append(engine.Snapshot()); err != nil {
					log.WithError(err).Warn("unable to write session log")
				}
			}
		case <-status:
			logStatus(engine, udp)
		}
	}
}

func logStatus(engine *irdash.Engine, udp *receiver.UDPReceiver) {
	if !engine.IsLive() {
		log.WithField("datagrams", udp.Received()).Info("no telemetry")
		return
	}
	telem := engine.Snapshot()
	log.WithField("seq", telem.Seq).
		WithField("rpm", telem.RPM).
		WithField("gear", telem.Gear).
		WithField("speed", telem.Speed).
		WithField("fuel", telem.Fuel).
		WithField("lap", telem.Lap).
		WithField("pos", telem.Position).
		WithField("remain", telem.SessionRemain).
		WithField("fuelToFinish", engine.FuelToFinish()).
		Info("telemetry")
}
