package sinks

import (
	"strconv"
	"strings"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/Uranury/dhtplug/config"
	"github.com/Uranury/dhtplug/host"
	"github.com/Uranury/dhtplug/plugin"
)

type pointWriter interface {
	WritePoint(point *write.Point)
}

// Influx records every device update as a point in the sensor_data measurement.
type Influx struct {
	writer pointWriter
	close  func()
}

// NewInflux opens a non-blocking writer. Async write errors go to onErr.
func NewInflux(cfg config.Influx, onErr func(error)) *Influx {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	writeAPI := client.WriteAPI(cfg.Org, cfg.Bucket)
	if onErr != nil {
		go func() {
			for err := range writeAPI.Errors() {
				onErr(err)
			}
		}()
	}
	return &Influx{
		writer: writeAPI,
		close: func() {
			writeAPI.Flush()
			client.Close()
		},
	}
}

func (i *Influx) Name() string { return "influx" }

func (i *Influx) Publish(d host.Device) error {
	p := influxdb2.NewPointWithMeasurement("sensor_data").
		AddTag("unit", strconv.Itoa(d.Unit)).
		AddTag("sensor", d.Name).
		AddTag("type", d.TypeName).
		SetTime(d.LastUpdate)

	for key, value := range deviceFields(d) {
		p.AddField(key, value)
	}

	i.writer.WritePoint(p)
	return nil
}

// deviceFields decodes the device value into numeric fields where the
// device type is known, and falls back to the raw value otherwise.
func deviceFields(d host.Device) map[string]interface{} {
	fields := map[string]interface{}{}
	switch d.TypeName {
	case plugin.TypeTempHum:
		parts := strings.Split(d.SValue, ";")
		names := []string{"temperature", "humidity", "humidity_status"}
		for i, name := range names {
			if i >= len(parts) {
				break
			}
			if v, err := strconv.ParseFloat(parts[i], 64); err == nil {
				fields[name] = v
			}
		}
	case plugin.TypeAirQuality:
		fields["co2"] = d.NValue
	}
	if len(fields) == 0 {
		fields["nvalue"] = d.NValue
		fields["svalue"] = d.SValue
	}
	return fields
}

func (i *Influx) Close() {
	if i.close != nil {
		i.close()
	}
}
