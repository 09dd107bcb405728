// Command th-receiver decodes 433 MHz temperature/humidity sensor packets from
// a GPIO-attached receiver and publishes readings to MQTT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/sweeney/th-receiver/internal/config"
	"github.com/sweeney/th-receiver/internal/gpio"
	"github.com/sweeney/th-receiver/internal/mqtt"
	"github.com/sweeney/th-receiver/internal/ook"
	"github.com/sweeney/th-receiver/internal/reading"
	"github.com/sweeney/th-receiver/internal/report"
	"github.com/sweeney/th-receiver/internal/status"
	"github.com/sweeney/th-receiver/internal/web"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (optional)")
	broker := flag.String("broker", "", "MQTT broker address (empty disables publishing)")
	httpAddr := flag.String("http", "", "HTTP status address (empty to disable)")
	pin := flag.Int("pin", gpio.DefaultPinData, "BCM pin number for the receiver data output")
	ledPin := flag.Int("led-pin", gpio.DefaultPinLED, "BCM pin number for the packet LED (0 to disable)")
	mode := flag.String("mode", config.ModePoll, "Sampling mode: poll, edge or simulate")
	level := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	printLevel := flag.Bool("print-level", false, "Print current data pin level and exit")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("load config", "err", err)
	}

	// Flags given explicitly win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "broker":
			cfg.MQTT.Broker = *broker
		case "http":
			cfg.HTTP.Addr = *httpAddr
		case "pin":
			cfg.GPIO.DataPin = *pin
		case "led-pin":
			cfg.GPIO.LEDPin = *ledPin
		case "mode":
			cfg.Mode = *mode
		case "log-level":
			cfg.LogLevel = *level
		case "heartbeat":
			cfg.Heartbeat = *heartbeat
		}
	})

	lvl, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal("failed to parse log level", "level", cfg.LogLevel, "err", err)
	}
	log.SetLevel(lvl)
	log.SetReportTimestamp(true)

	if err := cfg.Validate(); err != nil {
		log.Fatal("config", "err", err)
	}

	if err := run(cfg, *printLevel); err != nil {
		log.Fatal("fatal", "err", err)
	}
}

// publisher is what runLoop needs from the MQTT side.
type publisher interface {
	mqtt.Publisher
	mqtt.ConnectionStatus
}

// input is the data line in the form the sampling mode needs.
type input struct {
	line  gpio.Line       // poll, simulate
	edges gpio.EdgeSource // edge
}

func (in input) Level() (bool, error) {
	if in.edges != nil {
		return in.edges.Level()
	}
	return in.line.Level()
}

func (in input) Close() error {
	if in.edges != nil {
		return in.edges.Close()
	}
	return in.line.Close()
}

func openInput(cfg *config.Config, t ook.Timing) (input, error) {
	switch cfg.Mode {
	case config.ModeEdge:
		src, err := gpio.NewRealEdgeSource(cfg.GPIO.DataPin)
		if err != nil {
			return input{}, fmt.Errorf("init gpio: %w", err)
		}
		return input{edges: src}, nil
	case config.ModeSimulate:
		p, err := cfg.SimulatedPacket()
		if err != nil {
			return input{}, err
		}
		return input{line: gpio.NewSimLine(ook.Transmission(p, t), t.Ticks(cfg.Simulate.Interval))}, nil
	default:
		line, err := gpio.NewRealLine(cfg.GPIO.DataPin)
		if err != nil {
			return input{}, fmt.Errorf("init gpio: %w", err)
		}
		return input{line: line}, nil
	}
}

func run(cfg *config.Config, printLevel bool) error {
	timing := cfg.OOKTiming()
	rx, err := ook.NewReceiver(timing)
	if err != nil {
		return fmt.Errorf("init receiver: %w", err)
	}

	in, err := openInput(cfg, timing)
	if err != nil {
		return err
	}
	defer in.Close()

	// Print level mode
	if printLevel {
		high, err := in.Level()
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		fmt.Printf("GPIO%d: %s\n", cfg.GPIO.DataPin, levelString(high))
		return nil
	}

	var led gpio.Indicator
	if cfg.GPIO.LEDPin != 0 {
		ind, err := gpio.NewRealIndicator(cfg.GPIO.LEDPin)
		if err != nil {
			log.Warn("packet LED unavailable", "pin", cfg.GPIO.LEDPin, "err", err)
		} else {
			led = ind
			defer ind.Close()
		}
	}

	session := uuid.NewString()

	// Initialize MQTT
	var pub publisher = mqtt.DiscardPublisher{}
	if cfg.MQTT.Broker != "" {
		p, err := mqtt.NewRealPublisher(mqtt.Options{
			Broker:     cfg.MQTT.Broker,
			ClientID:   cfg.MQTT.ClientID + "-" + session[:8],
			BufferSize: cfg.MQTT.BufferSize,
		})
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		pub = p
	} else {
		log.Info("mqtt disabled, readings are only logged")
	}
	defer pub.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		Mode:        cfg.Mode,
		TickUs:      timing.Tick.Microseconds(),
		HeartbeatMs: cfg.Heartbeat.Milliseconds(),
		DataPin:     cfg.GPIO.DataPin,
		LEDPin:      cfg.GPIO.LEDPin,
		Broker:      cfg.MQTT.Broker,
		HTTPPort:    cfg.HTTP.Addr,
		SessionID:   session,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	// Publish startup event with full status snapshot
	tracker.SetMQTTConnected(pub.IsConnected())
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := pub.PublishSystem(startupEvent); err != nil {
		log.Error("failed to publish startup event", "err", err)
	} else {
		log.Info("published startup event", "session", session)
	}

	// Start HTTP status server
	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("http server error", "err", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Info("http status server listening", "addr", cfg.HTTP.Addr)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	wg.Add(1)
	if cfg.Mode == config.ModeEdge {
		es := ook.NewEdgeSampler(rx)
		flush := time.NewTicker(cfg.GPIO.EdgeFlush)
		defer flush.Stop()
		go func() {
			defer wg.Done()
			edgeLoop(ctx, in.edges.Edges(), es, flush.C, time.Now)
		}()
	} else {
		sampleTicker := time.NewTicker(timing.Tick)
		defer sampleTicker.Stop()
		go func() {
			defer wg.Done()
			sampleLoop(ctx, in.line, rx, sampleTicker.C)
		}()
	}

	log.Info("started",
		"mode", cfg.Mode,
		"pin", cfg.GPIO.DataPin,
		"tick", timing.Tick,
		"broker", cfg.MQTT.Broker,
		"heartbeat", cfg.Heartbeat)

	ticker := time.NewTicker(cfg.PollEvery)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(rx, pub, pub, tracker, led, cfg.GPIO.LEDFlash, cfg.Heartbeat, time.Now, ticker.C, sigCh)
}

// packetSource is the consumer side of a receiver.
type packetSource interface {
	Poll() (ook.Packet, bool)
	Stats() ook.Stats
	FrameState() ook.FrameState
}

func runLoop(src packetSource, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, led gpio.Indicator, ledFlash, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	startTime := now()
	reporter := report.NewReporter(startTime)

	for {
		select {
		case s := <-sig:
			log.Info("shutting down", "signal", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				tracker.UpdateReceiver(src.Stats(), src.FrameState())
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Error("failed to publish shutdown event", "err", err)
			} else {
				log.Info("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()

			if p, ok := src.Poll(); ok {
				event := reporter.Process(p, t)
				rd := event.Reading
				if rd.Valid {
					log.Info("reading",
						"sensor", reading.FormatSensorID(rd.SensorID),
						"temp", reading.FormatTenths(rd.Temperature),
						"humidity", rd.Humidity)
					if err := publisher.Publish(event); err != nil {
						// Don't crash on publish failure
						log.Error("publish error", "err", err)
					}
					if led != nil {
						if err := gpio.Flash(led, ledFlash); err != nil {
							log.Warn("packet LED", "err", err)
						}
					}
				} else {
					log.Warn("checksum mismatch", "raw", fmt.Sprintf("%X", p[:]), "reading", rd)
				}
				if tracker != nil {
					tracker.UpdateReport(reporter.Counts(), reporter.Sensors())
				}
			}

			// Check for heartbeat
			if hbData := reporter.CheckHeartbeat(t, heartbeat); hbData != nil {
				stats := src.Stats()
				log.Info("heartbeat",
					"uptime", hbData.Uptime,
					"packets", hbData.Counts.Packets,
					"valid", hbData.Counts.Valid,
					"invalid", hbData.Counts.Invalid,
					"desyncs", stats.Desyncs,
					"timeouts", stats.Timeouts,
					"overruns", stats.Overruns)

				hbEvent := mqtt.SystemEvent{
					Timestamp: hbData.Timestamp,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					if mqttStatus != nil {
						tracker.SetMQTTConnected(mqttStatus.IsConnected())
					}
					// Refresh network info for heartbeat
					if net := readNetworkInfo(); net != nil {
						tracker.SetNetwork(net)
					}
					tracker.UpdateReceiver(stats, src.FrameState())
					snap := tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Error("heartbeat publish error", "err", err)
				}
			}

			// Update status tracker for HTTP consumers
			if tracker != nil {
				tracker.UpdateReceiver(src.Stats(), src.FrameState())
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}
		}
	}
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

func levelString(high bool) string {
	if high {
		return "HIGH"
	}
	return "LOW"
}
