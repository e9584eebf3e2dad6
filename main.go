package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"

	"github.com/Uranury/dhtplug/config"
	"github.com/Uranury/dhtplug/host"
	"github.com/Uranury/dhtplug/logging"
	"github.com/Uranury/dhtplug/plugin"
	"github.com/Uranury/dhtplug/sinks"
	"github.com/Uranury/dhtplug/web"
)

func main() {
	log := logging.New(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config: %v", err)
		os.Exit(1)
	}
	log = log.With("plugin", cfg.Params.Variant)

	devices := host.NewRegistry()
	devices.AssignIDs(cfg.DomoticzIdx)
	devices.OnSinkError(func(sink string, err error) {
		log.Warn("%s publish failed: %v", sink, err)
	})

	if cfg.MQTT.Broker != "" {
		m, err := sinks.NewMQTT(cfg.MQTT)
		if err != nil {
			log.Error("%v", err)
		} else {
			defer m.Close()
			devices.AddSink(m)
			log.Log("Publishing to %s on %s", cfg.MQTT.Topic, cfg.MQTT.Broker)
		}
	}

	if cfg.Influx.Enabled() {
		in := sinks.NewInflux(cfg.Influx, func(err error) { log.Warn("influx write: %v", err) })
		defer in.Close()
		devices.AddSink(in)
		log.Log("Writing history to %s bucket %s", cfg.Influx.URL, cfg.Influx.Bucket)
	}

	hub := web.NewHub()
	defer hub.Close()
	devices.AddSink(hub)

	hc := host.NewContext(log, devices, cfg.Params)
	rt := host.NewRuntime[*plugin.State](plugin.New(nil), hc, clock.New())

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: web.NewServer(devices, rt, hub, log).Router(),
	}
	go func() {
		log.Log("Server starting on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rt.Run(ctx); err != nil {
		log.Error("%v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown: %v", err)
	}
}
