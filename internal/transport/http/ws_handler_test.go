package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/websocket"

	"stackmaster-quiz-service/internal/app"
	"stackmaster-quiz-service/internal/domain"
	"stackmaster-quiz-service/internal/infra/memory"
)

const testSecret = "test-secret"

type stubQuestionSource struct{}

func (stubQuestionSource) GenerateQuestions(_ context.Context, topic string, count, level int) ([]domain.Question, error) {
	questions := make([]domain.Question, count)
	for i := range questions {
		questions[i] = domain.Question{
			ID:           i + 1,
			Text:         topic,
			Options:      []string{"a", "b", "c", "d"},
			CorrectIndex: 1,
		}
	}
	return questions, nil
}

func sampleCatalog() []domain.QuizDefinition {
	return []domain.QuizDefinition{
		{ID: "7", Title: "Basic HTML", Description: "HTML structure", QuestionCount: 2, TimeLimitMinutes: 5},
	}
}

func newTestService() *app.QuizService {
	catalog := memory.NewCatalog(memory.NewStaticCatalogLoader(sampleCatalog()), time.Minute)
	return app.NewQuizService(catalog, memory.NewResultStore(), memory.NewTransientResults(), stubQuestionSource{})
}

func signToken(t *testing.T, uid, name string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  uid,
		"name": name,
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func newWSServer(t *testing.T) *httptest.Server {
	t.Helper()
	service := newTestService()
	wsHandler := NewWSHandler(service, NewAuthenticator(testSecret))

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/attempt", wsHandler.ServeAttempt)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func dialAttempt(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws/attempt?" + query
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil skips ticks and returns the next message of another type.
func readUntil(conn *websocket.Conn, t *testing.T, expect string) map[string]any {
	t.Helper()
	for {
		var msg struct {
			Type    string         `json:"type"`
			Payload map[string]any `json:"payload"`
		}
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read json: %v", err)
		}
		if msg.Type == "tick" {
			continue
		}
		if msg.Type != expect {
			t.Fatalf("expected %s, got %s (%v)", expect, msg.Type, msg.Payload)
		}
		return msg.Payload
	}
}

func TestAttemptSessionFullFlow(t *testing.T) {
	server := newWSServer(t)
	token := signToken(t, "u1", "Alice")
	conn := dialAttempt(t, server, "quizId=7&level=1&token="+token)

	readUntil(conn, t, "generating")
	attempt := readUntil(conn, t, "attempt")

	questions, ok := attempt["questions"].([]any)
	if !ok || len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %v", attempt["questions"])
	}
	// Correct answers never cross the wire.
	for _, raw := range questions {
		q := raw.(map[string]any)
		if _, leaked := q["correctIndex"]; leaked {
			t.Fatal("correct index must not be sent to the client")
		}
	}
	if attempt["timeRemaining"].(float64) != 300 {
		t.Fatalf("expected 300 seconds, got %v", attempt["timeRemaining"])
	}

	send := func(msgType string, payload map[string]any) {
		t.Helper()
		if err := conn.WriteJSON(map[string]any{"type": msgType, "payload": payload}); err != nil {
			t.Fatalf("write %s: %v", msgType, err)
		}
	}

	send("answer", map[string]any{"questionId": 1, "optionIndex": 1})
	send("next", nil)
	position := readUntil(conn, t, "position")
	if position["index"].(float64) != 1 {
		t.Fatalf("expected index 1, got %v", position["index"])
	}

	send("answer", map[string]any{"questionId": 2, "optionIndex": 0})
	send("submit", nil)

	submitted := readUntil(conn, t, "submitted")
	result := submitted["result"].(map[string]any)
	if result["score"].(float64) != 1 || result["total"].(float64) != 2 {
		t.Fatalf("expected 1/2, got %v/%v", result["score"], result["total"])
	}
	if submitted["percentage"].(float64) != 50 {
		t.Fatalf("expected 50%%, got %v", submitted["percentage"])
	}
}

func TestAttemptRejectsLockedLevel(t *testing.T) {
	server := newWSServer(t)
	token := signToken(t, "u1", "Alice")
	conn := dialAttempt(t, server, "quizId=7&level=5&token="+token)

	readUntil(conn, t, "generating")
	payload := readUntil(conn, t, "error")
	if payload["message"] == "" {
		t.Fatal("expected an error message")
	}
}

func TestAnonymousSubmitRequiresLateAuth(t *testing.T) {
	server := newWSServer(t)
	conn := dialAttempt(t, server, "quizId=7&level=1")

	readUntil(conn, t, "generating")
	readUntil(conn, t, "attempt")

	if err := conn.WriteJSON(map[string]any{"type": "submit"}); err != nil {
		t.Fatalf("write submit: %v", err)
	}
	readUntil(conn, t, "error")

	// Authenticating mid-session makes the retried submit succeed.
	token := signToken(t, "u2", "Bob")
	if err := conn.WriteJSON(map[string]any{"type": "auth", "payload": map[string]any{"token": token}}); err != nil {
		t.Fatalf("write auth: %v", err)
	}
	if err := conn.WriteJSON(map[string]any{"type": "submit"}); err != nil {
		t.Fatalf("write submit: %v", err)
	}

	submitted := readUntil(conn, t, "submitted")
	result := submitted["result"].(map[string]any)
	if result["userName"] != "Bob" {
		t.Fatalf("expected Bob, got %v", result["userName"])
	}
}

func TestAdvanceWithoutAnswerIsRejected(t *testing.T) {
	server := newWSServer(t)
	token := signToken(t, "u1", "Alice")
	conn := dialAttempt(t, server, "quizId=7&level=1&token="+token)

	readUntil(conn, t, "generating")
	readUntil(conn, t, "attempt")

	if err := conn.WriteJSON(map[string]any{"type": "next"}); err != nil {
		t.Fatalf("write next: %v", err)
	}
	payload := readUntil(conn, t, "error")
	if payload["message"] != domain.ErrNoAnswerSelected.Error() {
		t.Fatalf("expected no-answer error, got %v", payload["message"])
	}
}

func TestAttemptRequiresQuizAndLevel(t *testing.T) {
	server := newWSServer(t)

	resp, err := http.Get(server.URL + "/ws/attempt?quizId=7")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
