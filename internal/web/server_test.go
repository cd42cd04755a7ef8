package web

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stowpack/stowpack/internal/packing"
	"github.com/stowpack/stowpack/internal/store"
)

var scenarioFixture = packing.Scenario{
	Container: packing.ContainerSpec{Preset: "20ft Standard"},
	Items: []packing.ItemLine{
		{Name: "seeded", Width: 10, Depth: 10, Height: 10, Weight: 2, Quantity: 3},
	},
}

func startTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	srv, err := New(Config{
		Addr:  "127.0.0.1:0",
		Plans: db,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Stop(ctx)
	})

	return srv, fmt.Sprintf("http://%s", srv.Addr())
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func waitForStatus(t *testing.T, baseURL, want string) StateSnapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		var snap StateSnapshot
		getJSON(t, baseURL+"/api/state", &snap)
		if snap.Status == want {
			return snap
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("session never reached status %q", want)
	return StateSnapshot{}
}

func TestServer_Health(t *testing.T) {
	_, baseURL := startTestServer(t)

	var body map[string]string
	if status := getJSON(t, baseURL+"/healthz", &body); status != http.StatusOK {
		t.Errorf("expected 200, got %d", status)
	}
	if body["status"] != "ok" {
		t.Errorf("unexpected health body: %v", body)
	}
}

func TestServer_Presets(t *testing.T) {
	_, baseURL := startTestServer(t)

	var body struct {
		Presets []struct {
			Name string `json:"name"`
		} `json:"presets"`
		DefaultMaxWeight float64 `json:"default_max_weight"`
	}
	getJSON(t, baseURL+"/api/presets", &body)

	if len(body.Presets) != 4 {
		t.Fatalf("expected 4 presets, got %d", len(body.Presets))
	}
	if body.Presets[0].Name != "20ft Standard" || body.Presets[3].Name != "Custom" {
		t.Errorf("unexpected preset order: %+v", body.Presets)
	}
	if body.DefaultMaxWeight != 24000 {
		t.Errorf("expected default max weight 24000, got %g", body.DefaultMaxWeight)
	}
}

func TestServer_ItemCRUD(t *testing.T) {
	_, baseURL := startTestServer(t)

	resp := postJSON(t, baseURL+"/api/items", map[string]any{
		"name": "crate", "width": 50, "depth": 40, "height": 30, "weight": 10, "quantity": 2,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add item: expected 200, got %d", resp.StatusCode)
	}

	// Invalid item is rejected
	resp = postJSON(t, baseURL+"/api/items", map[string]any{"name": "bad", "width": 0})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid item: expected 400, got %d", resp.StatusCode)
	}

	// Sample set appends its lines
	resp = postJSON(t, baseURL+"/api/items/samples?set=boxes", nil)
	var snap StateSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode samples response: %v", err)
	}
	resp.Body.Close()
	if len(snap.Items) != 4 {
		t.Fatalf("expected 4 item lines after samples, got %d", len(snap.Items))
	}

	resp = postJSON(t, baseURL+"/api/items/samples?set=nope", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown sample set: expected 400, got %d", resp.StatusCode)
	}

	// Delete one line by index
	req, _ := http.NewRequest(http.MethodDelete, baseURL+"/api/items/0", nil)
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete item: %v", err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusOK {
		t.Errorf("delete item: expected 200, got %d", delResp.StatusCode)
	}

	// Clear everything
	req, _ = http.NewRequest(http.MethodDelete, baseURL+"/api/items", nil)
	clearResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("clear items: %v", err)
	}
	clearResp.Body.Close()

	getJSON(t, baseURL+"/api/state", &snap)
	if len(snap.Items) != 0 {
		t.Errorf("expected empty cargo list, got %d lines", len(snap.Items))
	}
}

func TestServer_PackFlow(t *testing.T) {
	_, baseURL := startTestServer(t)

	// No plan before the first run
	if status := getJSON(t, baseURL+"/api/plan", nil); status != http.StatusNotFound {
		t.Errorf("expected 404 before first run, got %d", status)
	}

	// Packing with no items is rejected
	resp := postJSON(t, baseURL+"/api/pack", map[string]any{"preset": "20ft Standard"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("pack without items: expected 400, got %d", resp.StatusCode)
	}

	resp = postJSON(t, baseURL+"/api/items", map[string]any{
		"name": "crate", "width": 50, "depth": 40, "height": 30, "weight": 10, "quantity": 5,
	})
	resp.Body.Close()

	resp = postJSON(t, baseURL+"/api/pack", map[string]any{"preset": "20ft Standard"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("pack: expected 202, got %d", resp.StatusCode)
	}

	snap := waitForStatus(t, baseURL, StatusCompleted)
	if snap.Summary == nil || snap.Summary.Placed != 5 {
		t.Fatalf("expected 5 placed items, got %+v", snap.Summary)
	}
	if snap.PlanID == "" {
		t.Fatal("completed run should carry a persisted plan ID")
	}

	// Latest plan and figure
	var planBody struct {
		Plan struct {
			ID string `json:"id"`
		} `json:"plan"`
	}
	if status := getJSON(t, baseURL+"/api/plan", &planBody); status != http.StatusOK {
		t.Fatalf("get plan: expected 200, got %d", status)
	}
	if planBody.Plan.ID != snap.PlanID {
		t.Errorf("plan ID mismatch: %s vs %s", planBody.Plan.ID, snap.PlanID)
	}

	var figure struct {
		Data []json.RawMessage `json:"data"`
	}
	getJSON(t, baseURL+"/api/plan/figure", &figure)
	if len(figure.Data) == 0 {
		t.Error("figure should contain traces")
	}

	// History
	var metas []store.PlanMeta
	getJSON(t, baseURL+"/api/plans", &metas)
	if len(metas) != 1 || metas[0].ID != snap.PlanID {
		t.Fatalf("unexpected plan listing: %+v", metas)
	}
	if status := getJSON(t, baseURL+"/api/plans/"+snap.PlanID, nil); status != http.StatusOK {
		t.Errorf("get plan by ID: expected 200, got %d", status)
	}
	if status := getJSON(t, baseURL+"/api/plans/does-not-exist", nil); status != http.StatusNotFound {
		t.Errorf("get missing plan: expected 404, got %d", status)
	}

	// CSV export
	csvResp, err := http.Get(baseURL + "/api/export/csv")
	if err != nil {
		t.Fatalf("csv export: %v", err)
	}
	defer csvResp.Body.Close()
	if ct := csvResp.Header.Get("Content-Type"); ct != "text/csv" {
		t.Errorf("expected text/csv, got %s", ct)
	}
	csvBody, _ := io.ReadAll(csvResp.Body)
	if !strings.HasPrefix(string(csvBody), "Container,Item,") {
		t.Errorf("unexpected csv header: %s", string(csvBody[:min(len(csvBody), 40)]))
	}

	// Report page
	reportResp, err := http.Get(baseURL + "/report")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	defer reportResp.Body.Close()
	reportBody, _ := io.ReadAll(reportResp.Body)
	if !strings.Contains(string(reportBody), "window.__reportReady") {
		t.Error("report page should signal render readiness")
	}

	// PDF export without a renderer is unavailable
	pdfResp, err := http.Get(baseURL + "/api/export/pdf")
	if err != nil {
		t.Fatalf("pdf export: %v", err)
	}
	pdfResp.Body.Close()
	if pdfResp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("pdf without renderer: expected 503, got %d", pdfResp.StatusCode)
	}
}

func TestServer_PackEventsReachSSE(t *testing.T) {
	_, baseURL := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, "GET", baseURL+"/api/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connect SSE: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected text/event-stream, got %s", ct)
	}

	eventTypes := make(chan string, 64)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.HasPrefix(line, "event: ") {
				eventTypes <- strings.TrimPrefix(line, "event: ")
			}
		}
	}()

	// Give the SSE client time to register with the hub
	time.Sleep(100 * time.Millisecond)

	postJSON(t, baseURL+"/api/items", map[string]any{
		"name": "crate", "width": 50, "depth": 40, "height": 30, "weight": 10,
	}).Body.Close()
	postJSON(t, baseURL+"/api/pack", map[string]any{"preset": "20ft Standard"}).Body.Close()

	seen := map[string]bool{}
	deadline := time.After(3 * time.Second)
	for !(seen["pack.started"] && seen["container.opened"] && seen["item.placed"] && seen["pack.completed"]) {
		select {
		case typ := <-eventTypes:
			seen[typ] = true
		case <-deadline:
			t.Fatalf("missing lifecycle events, saw %v", seen)
		}
	}
}

func TestServer_StartPackWhileRunning(t *testing.T) {
	srv, err := New(Config{Addr: "127.0.0.1:0"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if !srv.Session().Begin() {
		t.Fatal("Begin should succeed on a fresh session")
	}

	scn := scenarioFixture
	if err := srv.StartPack(&scn); !errors.Is(err, ErrPackRunning) {
		t.Errorf("expected ErrPackRunning, got %v", err)
	}
}

func TestServer_SeedScenarioReplacesItems(t *testing.T) {
	srv, baseURL := startTestServer(t)

	postJSON(t, baseURL+"/api/items", map[string]any{
		"name": "old", "width": 1, "depth": 1, "height": 1, "weight": 1,
	}).Body.Close()

	srv.SeedScenario(&scenarioFixture)

	var snap StateSnapshot
	getJSON(t, baseURL+"/api/state", &snap)
	if len(snap.Items) != 1 || snap.Items[0].Name != "seeded" {
		t.Errorf("expected seeded cargo list, got %+v", snap.Items)
	}
}

func TestServer_StopWithConnectedSSEClient(t *testing.T) {
	srv, baseURL := startTestServer(t)

	resp, err := http.Get(baseURL + "/api/events")
	if err != nil {
		t.Fatalf("GET /api/events: %v", err)
	}
	defer resp.Body.Close()

	// Read the connection preamble so the handler is fully established.
	buf := make([]byte, 16)
	if _, err := resp.Body.Read(buf); err != nil {
		t.Fatalf("read SSE preamble: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	if err := srv.Stop(ctx); err != nil {
		t.Fatalf("Stop with connected SSE client: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 1500*time.Millisecond {
		t.Errorf("Stop took %v, should return well before the deadline", elapsed)
	}

	// The stream ends once the server drains the connection.
	if _, err := io.ReadAll(resp.Body); err != nil {
		t.Logf("stream closed with: %v", err)
	}
}
