// Package web exposes the device registry over HTTP and lets operators
// send commands and notifications to the running plugin.
package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Uranury/dhtplug/host"
	"github.com/Uranury/dhtplug/logging"
)

// Dispatcher queues events for the plugin. *host.Runtime satisfies it.
type Dispatcher interface {
	Command(cmd host.Command) error
	Notify(n host.Notification) error
	Connect(c host.Connection, status int, description string) error
	Message(c host.Connection, data []byte) error
	Disconnect(c host.Connection) error
}

type Server struct {
	devices  *host.Registry
	dispatch Dispatcher
	hub      *Hub
	log      logging.Logger
}

func NewServer(devices *host.Registry, dispatch Dispatcher, hub *Hub, log logging.Logger) *Server {
	return &Server{devices: devices, dispatch: dispatch, hub: hub, log: log}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.GET("/devices", s.listDevices)
	api.GET("/devices/:unit", s.getDevice)
	api.POST("/devices/:unit/command", s.postCommand)
	api.POST("/notifications", s.postNotification)

	r.GET("/ws", s.handleWebSocket)
	return r
}

func (s *Server) listDevices(c *gin.Context) {
	c.JSON(http.StatusOK, s.devices.All())
}

func (s *Server) unit(c *gin.Context) (int, bool) {
	unit, err := strconv.Atoi(c.Param("unit"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid unit"})
		return 0, false
	}
	if !s.devices.Exists(unit) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown unit"})
		return 0, false
	}
	return unit, true
}

func (s *Server) getDevice(c *gin.Context) {
	unit, ok := s.unit(c)
	if !ok {
		return
	}
	d, _ := s.devices.Get(unit)
	c.JSON(http.StatusOK, d)
}

type commandRequest struct {
	Command string `json:"command" binding:"required"`
	Level   int    `json:"level"`
	Hue     string `json:"hue"`
}

func (s *Server) postCommand(c *gin.Context) {
	unit, ok := s.unit(c)
	if !ok {
		return
	}
	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := s.dispatch.Command(host.Command{Unit: unit, Command: req.Command, Level: req.Level, Hue: req.Hue})
	s.accepted(c, err)
}

func (s *Server) postNotification(c *gin.Context) {
	var n host.Notification
	if err := c.ShouldBindJSON(&n); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.accepted(c, s.dispatch.Notify(n))
}

func (s *Server) accepted(c *gin.Context, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
	case errors.Is(err, host.ErrStopped), errors.Is(err, host.ErrQueueFull):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Error("WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	hc := s.hub.add(conn)
	defer s.hub.remove(conn)

	if err := s.dispatch.Connect(hc, 0, "websocket connected"); err != nil {
		s.log.Warn("dropping %s: %v", hc.Address, err)
		return
	}
	s.log.Debug("Client connected. Total clients: %d", s.hub.Len())

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if err := s.dispatch.Message(hc, data); err != nil {
			s.log.Warn("message from %s dropped: %v", hc.Address, err)
		}
	}
	_ = s.dispatch.Disconnect(hc)
}
