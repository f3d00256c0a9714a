package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"adaptive-assessment-service/internal/app"
	"adaptive-assessment-service/internal/domain"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WSHandler adapts user intents arriving over a websocket to controller transitions.
// It never renders; clients receive the controller's View after every action.
type WSHandler struct {
	service  *app.AssessmentService
	logger   *log.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.AssessmentService, logger *log.Logger) *WSHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &WSHandler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type confirmPayload struct {
	Confirm bool `json:"confirm"`
}

type answerPayload struct {
	Value string `json:"value"`
}

type exportPayload struct {
	Filename string        `json:"filename"`
	Document domain.Export `json:"document"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

var errBadPayload = errors.New("invalid payload")

// ServeWS upgrades HTTP requests to websockets and drives one controller per connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	logger := h.logger.With("conn", uuid.NewString())
	ctx := r.Context()

	controller, err := h.service.Open(ctx)
	if err != nil {
		logger.Error("open assessment", "err", err)
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	logger.Debug("connected", "resume", controller.ResumeAvailable())

	if err := conn.WriteJSON(outboundMessage[app.View]{Type: "state", Payload: controller.View()}); err != nil {
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}

		var reply any
		err := h.dispatch(r, controller, inbound, &reply)
		switch {
		case err != nil:
			reply = outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}}
		case reply == nil:
			reply = outboundMessage[app.View]{Type: "state", Payload: controller.View()}
		}
		if err := conn.WriteJSON(reply); err != nil {
			logger.Warn("ws write error", "err", err)
			return
		}
	}
	logger.Debug("disconnected", "phase", controller.Phase())
}

func (h *WSHandler) dispatch(r *http.Request, c *app.Controller, in inboundMessage, reply *any) error {
	ctx := r.Context()
	switch in.Type {
	case "start":
		var p startPayload
		if err := decode(in.Payload, &p); err != nil {
			return err
		}
		return c.Start(ctx, p.Name, p.Email)
	case "resume":
		var p confirmPayload
		if err := decode(in.Payload, &p); err != nil {
			return err
		}
		return c.Resume(ctx, p.Confirm)
	case "begin":
		return c.BeginDay()
	case "answer":
		var p answerPayload
		if err := decode(in.Payload, &p); err != nil {
			return err
		}
		return c.Submit(ctx, p.Value)
	case "back":
		return c.Back()
	case "continue":
		return c.Continue(ctx)
	case "export":
		doc := c.Export()
		*reply = outboundMessage[exportPayload]{Type: "export", Payload: exportPayload{
			Filename: app.ExportFilename(doc),
			Document: doc,
		}}
		return nil
	case "reset":
		var p confirmPayload
		if err := decode(in.Payload, &p); err != nil {
			return err
		}
		if err := h.service.Reset(ctx, p.Confirm); err != nil {
			return err
		}
		c.Reset()
		return nil
	}
	return errors.New("unsupported message type")
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return errBadPayload
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errBadPayload
	}
	return nil
}
