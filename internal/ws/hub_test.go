package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Capstone-E1/aquasmart_wqi/internal/models"
	"github.com/Capstone-E1/aquasmart_wqi/internal/wqi"
)

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Expected websocket dial to succeed, got %v", err)
	}
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Expected a message, got %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Expected JSON message, got %v (%s)", err, data)
	}
	return msg
}

func evaluation(t *testing.T, spec wqi.VariantSpec) *models.Evaluation {
	t.Helper()
	scorer, err := wqi.NewScorer(spec)
	if err != nil {
		t.Fatalf("Expected valid spec, got %v", err)
	}
	res, err := scorer.Evaluate(models.DefaultMeasurements(spec))
	if err != nil {
		t.Fatalf("Expected evaluation, got %v", err)
	}
	return models.NewEvaluation(spec, res, models.SourceHTTP, "")
}

func TestHub_BroadcastEvaluation(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer srv.Close()

	conn := dial(t, srv, "")
	defer conn.Close()

	if msg := readMessage(t, conn); msg.Type != MessageConnected {
		t.Fatalf("Expected connected message, got %s", msg.Type)
	}
	if hub.GetConnectedClientsCount() != 1 {
		t.Errorf("Expected 1 connected client, got %d", hub.GetConnectedClientsCount())
	}

	hub.BroadcastEvaluation(evaluation(t, wqi.WPISpec()))

	msg := readMessage(t, conn)
	if msg.Type != MessageEvaluation {
		t.Fatalf("Expected evaluation message, got %s", msg.Type)
	}
	data, _ := msg.Data.(map[string]interface{})
	if data["status"] != "Very good" {
		t.Errorf("Expected status 'Very good', got %v", data["status"])
	}
}

func TestHub_VariantFilter(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer srv.Close()

	conn := dial(t, srv, "?variant=wqi")
	defer conn.Close()
	readMessage(t, conn)

	// WPI evaluations are skipped for a WQI subscriber, errors are not
	hub.BroadcastEvaluation(evaluation(t, wqi.WPISpec()))
	hub.BroadcastError("parse failure")
	hub.BroadcastEvaluation(evaluation(t, wqi.WQISpec()))

	if msg := readMessage(t, conn); msg.Type != MessageError {
		t.Fatalf("Expected error message first, got %s", msg.Type)
	}
	msg := readMessage(t, conn)
	if msg.Type != MessageEvaluation {
		t.Fatalf("Expected evaluation message, got %s", msg.Type)
	}
	data, _ := msg.Data.(map[string]interface{})
	if data["variant"] != "wqi" {
		t.Errorf("Expected wqi evaluation, got %v", data["variant"])
	}
}
