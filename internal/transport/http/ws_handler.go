package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"stackmaster-quiz-service/internal/app"
	"stackmaster-quiz-service/internal/domain"
)

// WSHandler hosts live quiz attempts over websockets. The server owns the
// countdown: ticks are pushed to the client and reaching zero forces a
// submit with whatever answers were recorded.
type WSHandler struct {
	service  *app.QuizService
	auth     *Authenticator
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, auth *Authenticator) *WSHandler {
	return &WSHandler{
		service: service,
		auth:    auth,
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

type answerPayload struct {
	QuestionID  int `json:"questionId"`
	OptionIndex int `json:"optionIndex"`
}

type authPayload struct {
	Token string `json:"token"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// wireQuestion is a Question with the correct index withheld.
type wireQuestion struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

type attemptPayload struct {
	AttemptID     string                `json:"attemptId"`
	Quiz          domain.QuizDefinition `json:"quiz"`
	Level         int                   `json:"level"`
	Questions     []wireQuestion        `json:"questions"`
	TimeRemaining int                   `json:"timeRemaining"`
	Index         int                   `json:"index"`
}

type positionPayload struct {
	Index int `json:"index"`
}

type tickPayload struct {
	TimeRemaining int `json:"timeRemaining"`
}

// ServeAttempt runs one timed attempt: generate questions, push them, then
// serve navigation/answer/submit commands interleaved with the countdown
// until the attempt reaches its terminal state or the client disconnects.
func (h *WSHandler) ServeAttempt(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	level, err := strconv.Atoi(r.URL.Query().Get("level"))
	if quizID == "" || err != nil {
		http.Error(w, "missing quizId or level", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	identity := h.auth.FromRequest(r)

	// The connection lifetime bounds the attempt. Cancelling here discards
	// an in-flight generation result; nothing is applied after teardown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sendMsg(conn, "generating", struct{}{})
	attempt, err := h.service.StartAttempt(ctx, quizID, level, identity.UID)
	if err != nil {
		sendMsg(conn, "error", errorPayload{Message: err.Error()})
		return
	}

	questions := attempt.Questions()
	wire := make([]wireQuestion, len(questions))
	for i, q := range questions {
		wire[i] = wireQuestion{ID: q.ID, Text: q.Text, Options: q.Options}
	}
	sendMsg(conn, "attempt", attemptPayload{
		AttemptID:     attempt.ID(),
		Quiz:          attempt.Quiz(),
		Level:         attempt.Level(),
		Questions:     wire,
		TimeRemaining: attempt.Remaining(),
	})

	commands := make(chan inboundMessage)
	go func() {
		defer close(commands)
		for {
			var inbound inboundMessage
			if err := conn.ReadJSON(&inbound); err != nil {
				cancel()
				return
			}
			select {
			case commands <- inbound:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	// expiredUnsubmitted is set when the countdown hit zero but submission
	// was refused for lack of identity; the forced submit is then retried
	// only on an explicit auth or submit command, not every tick.
	expiredUnsubmitted := false

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			if expiredUnsubmitted {
				continue
			}
			remaining, expired := attempt.Tick()
			sendMsg(conn, "tick", tickPayload{TimeRemaining: remaining})
			if expired {
				if h.finish(ctx, conn, attempt, identity) {
					return
				}
				expiredUnsubmitted = true
			}

		case cmd, ok := <-commands:
			if !ok {
				return
			}
			switch cmd.Type {
			case "answer":
				var payload answerPayload
				if err := json.Unmarshal(cmd.Payload, &payload); err != nil {
					sendMsg(conn, "error", errorPayload{Message: "invalid answer payload"})
					continue
				}
				if err := attempt.SelectAnswer(payload.QuestionID, payload.OptionIndex); err != nil {
					sendMsg(conn, "error", errorPayload{Message: err.Error()})
				}

			case "next":
				if err := attempt.Advance(); err != nil {
					sendMsg(conn, "error", errorPayload{Message: err.Error()})
					continue
				}
				_, index := attempt.Position()
				sendMsg(conn, "position", positionPayload{Index: index})

			case "prev":
				if err := attempt.Retreat(); err != nil {
					sendMsg(conn, "error", errorPayload{Message: err.Error()})
					continue
				}
				_, index := attempt.Position()
				sendMsg(conn, "position", positionPayload{Index: index})

			case "auth":
				var payload authPayload
				if err := json.Unmarshal(cmd.Payload, &payload); err != nil {
					sendMsg(conn, "error", errorPayload{Message: "invalid auth payload"})
					continue
				}
				identity = h.auth.Identity(payload.Token)
				if expiredUnsubmitted && h.finish(ctx, conn, attempt, identity) {
					return
				}

			case "submit":
				if h.finish(ctx, conn, attempt, identity) {
					return
				}

			default:
				sendMsg(conn, "error", errorPayload{Message: "unsupported message type"})
			}
		}
	}
}

// finish submits the attempt and reports whether it reached the terminal
// state. A refused submission (missing identity) leaves the attempt active.
func (h *WSHandler) finish(ctx context.Context, conn *websocket.Conn, attempt *app.Attempt, identity domain.Identity) bool {
	result, err := h.service.Submit(ctx, attempt, identity)
	if errors.Is(err, domain.ErrAuthRequired) {
		sendMsg(conn, "error", errorPayload{Message: err.Error()})
		return false
	}
	if err != nil {
		sendMsg(conn, "error", errorPayload{Message: err.Error()})
		return true
	}
	sendMsg(conn, "submitted", app.Summarize(result))
	return true
}

func sendMsg[T any](conn *websocket.Conn, msgType string, payload T) {
	if err := conn.WriteJSON(outboundMessage[T]{Type: msgType, Payload: payload}); err != nil {
		log.Printf("ws write error: %v", err)
	}
}
