package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// ### Start - fixed configs (no change)
// These values define deterministic test data generation and must match expected results.
// DO NOT MODIFY: Changing these will break the test's deterministic behavior.
const (
	totalEvents   = 2000 // Total number of valid webhook events to send
	invalidEvents = 50   // Additional malformed events expected to be rejected with 400
)

var (
	eventTypes = []string{"page_view", "user_joined", "user_disconnect", "log", "user_message"}
	pages      = []string{"home", "profile", "settings", "dashboard"}
	userIDs    = []string{
		"b1e7c3a0-5f4d-4c2b-9e8a-1d2f3a4b5c6d",
		"7c9e6679-7425-40de-944b-e07fc1f90ae7",
		"550e8400-e29b-41d4-a716-446655440000",
		"f47ac10b-58cc-4372-a567-0e02b2c3d479",
	}
)

// ### End - fixed configs

type statsSnapshot struct {
	TotalEvents      int64 `json:"totalEvents"`
	EventsThisMinute int64 `json:"eventsThisMinute"`
	SegmentedData    map[string][]struct {
		Timestamp string `json:"timestamp"`
		Count     int64  `json:"count"`
	} `json:"segmentedData"`
	SegmentedTopEventTypes map[string][]struct {
		Type       string  `json:"type"`
		Count      int64   `json:"count"`
		Percentage float64 `json:"percentage"`
	} `json:"segmentedTopEventTypes"`
}

type statsMessage struct {
	Stats *statsSnapshot `json:"stats"`
}

type wsClient struct {
	conn *websocket.Conn

	mu       sync.Mutex
	received int64
	latest   *statsSnapshot
}

func (c *wsClient) run() {
	for {
		var message statsMessage
		if err := c.conn.ReadJSON(&message); err != nil {
			return
		}
		if message.Stats == nil {
			continue
		}
		c.mu.Lock()
		c.received++
		c.latest = message.Stats
		c.mu.Unlock()
	}
}

func (c *wsClient) snapshot() (int64, *statsSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.received, c.latest
}

// main runs the e2e scenario: 001_webhook_broadcast
//
// This scenario tests the end-to-end flow of webhook ingestion and realtime
// statistics broadcast. It connects several websocket clients, then sends
// 2,000 valid webhook events (plus 50 malformed ones) through POST /webhook
// and verifies that every connected client converges on the same statistics.
//
// What it tests:
//   - Webhook ingestion via POST /webhook with x-api-key authentication
//   - Rejection of malformed events with 400 (they must not affect totals)
//   - Initial snapshot push on websocket connect
//   - Broadcast fan-out: every client sees the same final totalEvents
//   - Gap-free series shape: 60 hour buckets, 24 day buckets, 7 week buckets
//   - Top event-type rankings covering all sent types
//
// Expected results:
//   - All 2,000 valid events return 200; all malformed events return 400
//   - Every client's final snapshot reports totalEvents >= 2,000
//     (>= because a pre-existing database adds to the global count)
//   - All clients report the same totalEvents after the last broadcast
func main() {
	// these configs can be changed to run the scenario
	baseURL := "http://localhost:8080" // Base URL of the event analytics API server
	apiKey := "local-dev-api-key"      // Must match auth.api_key in configs.yml
	clients := 3                       // Number of concurrent websocket clients
	parallel := 4                      // Number of concurrent webhook senders
	settleWait := 2 * time.Second      // Wait after the last send before reading final snapshots

	fmt.Println("Starting e2e scenario: 001_webhook_broadcast")
	fmt.Printf("BASE_URL: %s\n", baseURL)
	fmt.Printf("CLIENTS: %d\n", clients)
	fmt.Printf("PARALLEL: %d\n", parallel)
	fmt.Printf("TOTAL_EVENTS: %d\n", totalEvents)
	fmt.Printf("INVALID_EVENTS: %d\n", invalidEvents)
	fmt.Println()

	// Connect websocket clients first so each receives the initial snapshot
	// and then every broadcast.
	wsURL := "ws" + strings.TrimPrefix(baseURL, "http") + "/ws"
	wsClients := make([]*wsClient, 0, clients)
	for i := 0; i < clients; i++ {
		conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to connect websocket client %d: %v\n", i+1, err)
			os.Exit(1)
		}
		resp.Body.Close()
		client := &wsClient{conn: conn}
		go client.run()
		wsClients = append(wsClients, client)
	}
	fmt.Printf("Connected %d websocket clients\n", clients)
	fmt.Println()

	// Send all events through a worker pool
	fmt.Printf("Sending %d valid and %d invalid events...\n", totalEvents, invalidEvents)
	workerChan := make(chan struct{}, parallel)
	var wg sync.WaitGroup
	var okRequest int64       // 200 status code
	var rejectedRequest int64 // 400 status code
	var otherRequest int64    // anything else

	send := func(body []byte) {
		defer wg.Done()
		defer func() { <-workerChan }()

		statusCode, err := sendWebhook(baseURL, apiKey, body)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Webhook send failed: %v\n", err)
			atomic.AddInt64(&otherRequest, 1)
			return
		}
		switch statusCode {
		case http.StatusOK:
			atomic.AddInt64(&okRequest, 1)
		case http.StatusBadRequest:
			atomic.AddInt64(&rejectedRequest, 1)
		default:
			atomic.AddInt64(&otherRequest, 1)
		}
	}

	for i := 0; i < totalEvents; i++ {
		wg.Add(1)
		workerChan <- struct{}{}
		go send(generateEventJSON(i))
	}
	for i := 0; i < invalidEvents; i++ {
		wg.Add(1)
		workerChan <- struct{}{}
		go send([]byte(`{"eventType":"purchase","userId":"not-a-uuid"}`))
	}
	wg.Wait()

	fmt.Printf("OK requests: %d\n", atomic.LoadInt64(&okRequest))
	fmt.Printf("Rejected requests: %d\n", atomic.LoadInt64(&rejectedRequest))
	fmt.Printf("Other requests: %d\n", atomic.LoadInt64(&otherRequest))
	fmt.Println()

	if atomic.LoadInt64(&okRequest) != totalEvents {
		fmt.Fprintf(os.Stderr, "ERROR: Expected %d OK requests, got %d\n", totalEvents, okRequest)
		os.Exit(1)
	}
	if atomic.LoadInt64(&rejectedRequest) != invalidEvents {
		fmt.Fprintf(os.Stderr, "ERROR: Expected %d rejected requests, got %d\n", invalidEvents, rejectedRequest)
		os.Exit(1)
	}

	// Let the last broadcast cycles drain, then compare final snapshots.
	time.Sleep(settleWait)

	failed := false
	var firstTotal int64 = -1
	for i, client := range wsClients {
		received, latest := client.snapshot()
		if latest == nil {
			fmt.Fprintf(os.Stderr, "ERROR: Client %d never received a snapshot\n", i+1)
			failed = true
			continue
		}

		fmt.Printf("Client %d: %d snapshots received, final totalEvents=%d\n", i+1, received, latest.TotalEvents)

		if latest.TotalEvents < totalEvents {
			fmt.Fprintf(os.Stderr, "ERROR: Client %d: totalEvents %d < %d\n", i+1, latest.TotalEvents, int64(totalEvents))
			failed = true
		}
		if firstTotal == -1 {
			firstTotal = latest.TotalEvents
		} else if latest.TotalEvents != firstTotal {
			fmt.Fprintf(os.Stderr, "ERROR: Client %d: totalEvents %d differs from client 1's %d\n", i+1, latest.TotalEvents, firstTotal)
			failed = true
		}

		for window, wantBuckets := range map[string]int{"hour": 60, "day": 24, "week": 7} {
			if got := len(latest.SegmentedData[window]); got != wantBuckets {
				fmt.Fprintf(os.Stderr, "ERROR: Client %d: %s series has %d buckets, want %d\n", i+1, window, got, wantBuckets)
				failed = true
			}
		}
		if len(latest.SegmentedTopEventTypes["hour"]) == 0 {
			fmt.Fprintf(os.Stderr, "ERROR: Client %d: hour ranking is empty after %d events\n", i+1, int64(totalEvents))
			failed = true
		}
	}

	for _, client := range wsClients {
		client.conn.Close()
	}

	if failed {
		fmt.Fprintln(os.Stderr, "Scenario failed")
		os.Exit(1)
	}
	fmt.Println()
	fmt.Println("Scenario completed successfully")
}

// generateEventJSON builds a deterministic valid webhook payload for index i.
func generateEventJSON(i int) []byte {
	payload := map[string]any{
		"eventType": eventTypes[i%len(eventTypes)],
		"userId":    userIDs[i%len(userIDs)],
		"timestamp": time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
		"metadata": map[string]any{
			"page": pages[i%len(pages)],
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to marshal event %d: %v\n", i, err)
		os.Exit(1)
	}
	return data
}

func sendWebhook(baseURL, apiKey string, body []byte) (int, error) {
	req, err := http.NewRequest(http.MethodPost, baseURL+"/webhook", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", apiKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}
