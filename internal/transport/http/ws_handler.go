package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"
)

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type loadPayload struct {
	Difficulty string `json:"difficulty"`
}

type answerPayload struct {
	Answer string `json:"answer"`
}

type sessionPayload struct {
	ID string `json:"id"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// outbox hands messages to the connection's writer goroutine. emit gives up once the
// connection is closing or the writer has stopped after a failed write.
type outbox struct {
	send       chan<- outboundMessage[any]
	closing    <-chan struct{}
	writerDone <-chan struct{}
}

func (o outbox) emit(msg outboundMessage[any]) bool {
	select {
	case o.send <- msg:
		return true
	case <-o.closing:
	case <-o.writerDone:
	}
	return false
}

// ServeWS upgrades the request and binds one quiz session to the connection for its
// lifetime. An optional ?difficulty= starts loading right away.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	var initial domain.Difficulty
	if raw := r.URL.Query().Get("difficulty"); raw != "" {
		d, err := domain.ParseDifficulty(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		initial = d
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancelCtx := context.WithCancel(context.Background())
	defer cancelCtx()

	session := h.service.Create(ctx)
	defer h.service.Close(context.Background(), session.ID())

	updates, cancel, err := h.service.Subscribe(ctx, session.ID())
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})
	var loads sync.WaitGroup

	// the writer goroutine is the only one touching conn for writes
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				// unblock the read loop so the session is torn down
				_ = conn.Close()
				return
			}
		}
	}()

	out := outbox{send: send, closing: closeSignals, writerDone: writerDone}
	emit := func(msg outboundMessage[any]) { out.emit(msg) }

	emit(outboundMessage[any]{Type: "session", Payload: sessionPayload{ID: session.ID()}})

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				if !out.emit(outboundMessage[any]{Type: "state", Payload: update}) {
					return
				}
			case <-closeSignals:
				return
			case <-writerDone:
				return
			}
		}
	}()

	load := func(d domain.Difficulty) {
		loads.Add(1)
		go func() {
			defer loads.Done()
			err := h.service.Load(ctx, session.ID(), d)
			if err != nil && !errors.Is(err, app.ErrLoadSuperseded) && ctx.Err() == nil {
				emit(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
			}
		}()
	}

	if initial != "" {
		load(initial)
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "load":
			var payload loadPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				emit(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid load payload"}})
				continue
			}
			d, err := domain.ParseDifficulty(payload.Difficulty)
			if err != nil {
				emit(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
				continue
			}
			load(d)
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				emit(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}})
				continue
			}
			if _, err := h.service.SelectAnswer(ctx, session.ID(), payload.Answer); err != nil {
				emit(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
			}
		case "hint":
			if _, err := h.service.ShowHint(ctx, session.ID()); err != nil {
				emit(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
			}
		case "reset":
			if err := h.service.Reset(ctx, session.ID()); err != nil {
				emit(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
			}
		default:
			emit(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
		}
	}

	cancelCtx()
	close(closeSignals)
	loads.Wait()
	<-updatesDone
	close(send)
	<-writerDone
}
