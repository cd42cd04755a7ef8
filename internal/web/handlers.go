package web

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/stowpack/stowpack/internal/packing"
	"github.com/stowpack/stowpack/internal/report"
	"github.com/stowpack/stowpack/internal/viz"
)

// PackRequest is the JSON body of POST /api/pack. Preset names a
// container size; explicit dimensions apply when the preset is "Custom"
// or empty.
type PackRequest struct {
	Preset        string  `json:"preset,omitempty"`
	Width         float64 `json:"width,omitempty"`
	Depth         float64 `json:"depth,omitempty"`
	Height        float64 `json:"height,omitempty"`
	MaxWeight     float64 `json:"max_weight,omitempty"`
	MaxContainers int     `json:"max_containers,omitempty"`
}

// routes wires up the full handler set.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/", IndexHandler(staticFS))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /report", s.handleReport)

	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /api/presets", s.handlePresets)
	mux.HandleFunc("POST /api/items", s.handleAddItem)
	mux.HandleFunc("DELETE /api/items", s.handleClearItems)
	mux.HandleFunc("DELETE /api/items/{index}", s.handleRemoveItem)
	mux.HandleFunc("POST /api/items/samples", s.handleSamples)
	mux.HandleFunc("POST /api/pack", s.handlePack)
	mux.HandleFunc("GET /api/plan", s.handlePlan)
	mux.HandleFunc("GET /api/plan/figure", s.handleFigure)
	mux.HandleFunc("GET /api/plans", s.handlePlans)
	mux.HandleFunc("GET /api/plans/{id}", s.handlePlanByID)
	mux.HandleFunc("DELETE /api/plans/{id}", s.handleDeletePlan)
	mux.HandleFunc("GET /api/export/csv", s.handleExportCSV)
	mux.HandleFunc("GET /api/export/png", s.handleExportPNG)
	mux.HandleFunc("GET /api/export/pdf", s.handleExportPDF)
	mux.HandleFunc("GET /api/events", s.handleEvents)

	if s.usage == nil {
		return mux
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.usage.recordRequest(r.Method + " " + r.URL.Path)
		mux.ServeHTTP(w, r)
	})
}

// IndexHandler serves the embedded HTML UI.
// Serves index.html for "/" and static files for other paths.
func IndexHandler(staticFS fs.FS) http.Handler {
	subFS, _ := fs.Sub(staticFS, "static")
	return http.FileServer(http.FS(subFS))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleState returns the session snapshot.
// GET /api/state
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

// handlePresets lists container presets and packing defaults.
// GET /api/presets
func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"presets":            packing.Presets(),
		"default_max_weight": float64(packing.DefaultMaxWeight),
		"max_containers":     packing.DefaultMaxContainers,
	})
}

// handleAddItem appends one cargo line.
// POST /api/items
func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var line packing.ItemLine
	if err := json.NewDecoder(r.Body).Decode(&line); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode item: %v", err))
		return
	}
	if err := s.session.AddItem(line); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

// handleClearItems empties the cargo list.
// DELETE /api/items
func (s *Server) handleClearItems(w http.ResponseWriter, r *http.Request) {
	s.session.ClearItems()
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

// handleRemoveItem deletes one cargo line by index.
// DELETE /api/items/{index}
func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "item index must be an integer")
		return
	}
	if err := s.session.RemoveItem(index); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

// handleSamples appends a built-in sample cargo list.
// POST /api/items/samples?set=boxes|products
func (s *Server) handleSamples(w http.ResponseWriter, r *http.Request) {
	lines, err := packing.SampleSet(r.URL.Query().Get("set"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.session.AddLines(lines)
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

// handlePack starts a packing run over the session's cargo list.
// POST /api/pack
func (s *Server) handlePack(w http.ResponseWriter, r *http.Request) {
	var req PackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode pack request: %v", err))
		return
	}

	items := s.session.Items()
	if len(items) == 0 {
		writeError(w, http.StatusBadRequest, "no items to pack")
		return
	}

	scn := &packing.Scenario{
		Container: packing.ContainerSpec{
			Preset: req.Preset,
			Width:  req.Width,
			Depth:  req.Depth,
			Height: req.Height,
		},
		MaxWeight:     req.MaxWeight,
		MaxContainers: req.MaxContainers,
		Items:         items,
	}

	if err := s.StartPack(scn); err != nil {
		if errors.Is(err, ErrPackRunning) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": StatusPacking})
}

// handlePlan returns the latest plan with its statistics.
// GET /api/plan
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	plan := s.session.Plan()
	if plan == nil {
		writeError(w, http.StatusNotFound, "no plan yet")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"plan":       plan,
		"summary":    plan.Summary(),
		"load_stats": plan.LoadStats(),
	})
}

// handleFigure returns the interactive Plotly figure for a plan.
// GET /api/plan/figure[?plan=id]
func (s *Server) handleFigure(w http.ResponseWriter, r *http.Request) {
	plan, ok := s.planForRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viz.Build(plan))
}

// handlePlans lists persisted plans, newest first.
// GET /api/plans
func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	if s.plans == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	metas, err := s.plans.ListPlans()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, metas)
}

// handlePlanByID returns one persisted plan.
// GET /api/plans/{id}
func (s *Server) handlePlanByID(w http.ResponseWriter, r *http.Request) {
	if s.plans == nil {
		writeError(w, http.StatusNotFound, "plan history disabled")
		return
	}
	plan, err := s.plans.GetPlan(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if plan == nil {
		writeError(w, http.StatusNotFound, "plan not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"plan":       plan,
		"summary":    plan.Summary(),
		"load_stats": plan.LoadStats(),
	})
}

// handleDeletePlan removes one persisted plan.
// DELETE /api/plans/{id}
func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	if s.plans == nil {
		writeError(w, http.StatusNotFound, "plan history disabled")
		return
	}
	if err := s.plans.DeletePlan(r.PathValue("id")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExportCSV streams the placement CSV.
// GET /api/export/csv[?plan=id]
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	plan, ok := s.planForRequest(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="packing_results.csv"`)
	if err := report.WriteCSV(w, plan); err != nil {
		s.logger.Warn("csv export failed", zap.Error(err))
	}
}

// handleExportPNG captures one camera view as a PNG.
// GET /api/export/png[?plan=id][&view=name]
func (s *Server) handleExportPNG(w http.ResponseWriter, r *http.Request) {
	if s.renderer == nil {
		writeError(w, http.StatusServiceUnavailable, "export renderer unavailable")
		return
	}
	if _, ok := s.planForRequest(w, r); !ok {
		return
	}

	viewName := r.URL.Query().Get("view")
	if viewName == "" {
		viewName = "Isometric"
	}
	if _, ok := viz.ViewByName(viewName); !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown view %q", viewName))
		return
	}

	query := url.Values{"view": {viewName}}
	if id := r.URL.Query().Get("plan"); id != "" {
		query.Set("plan", id)
	}
	data, err := s.renderer.Snapshot(r.Context(), s.selfURL("/report", query), 800, 600)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `attachment; filename="packing_view.png"`)
	w.Write(data)
}

// handleExportPDF prints the multi-view report to PDF.
// GET /api/export/pdf[?plan=id]
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	if s.renderer == nil {
		writeError(w, http.StatusServiceUnavailable, "export renderer unavailable")
		return
	}
	if _, ok := s.planForRequest(w, r); !ok {
		return
	}

	query := url.Values{}
	if id := r.URL.Query().Get("plan"); id != "" {
		query.Set("plan", id)
	}
	data, err := s.renderer.PrintPDF(r.Context(), s.selfURL("/report", query))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="packing_report.pdf"`)
	w.Write(data)
}

// handleReport serves the printable report page. With a view parameter
// it renders that single camera view, otherwise the full multi-view
// report with tables.
// GET /report[?plan=id][&view=name]
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	plan, ok := s.planForRequest(w, r)
	if !ok {
		return
	}

	var (
		page []byte
		err  error
	)
	if viewName := r.URL.Query().Get("view"); viewName != "" {
		view, found := viz.ViewByName(viewName)
		if !found {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown view %q", viewName))
			return
		}
		page, err = report.ViewHTML(plan, view)
	} else {
		page, err = report.ReportHTML(plan)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// handleEvents provides the SSE event stream.
// GET /api/events
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// Send initial comment to establish connection
	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	client := NewClient(generateID())
	s.hub.Register(client)
	defer s.hub.Unregister(client)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.shutdown:
			return
		case event, ok := <-client.events:
			if !ok {
				return
			}
			data, _ := json.Marshal(event)
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
			flusher.Flush()
		}
	}
}

// planForRequest resolves the plan a request refers to: the plan query
// parameter looks up a persisted plan, otherwise the session's latest.
// Writes the error response itself when no plan is available.
func (s *Server) planForRequest(w http.ResponseWriter, r *http.Request) (*packing.Plan, bool) {
	if id := r.URL.Query().Get("plan"); id != "" {
		if s.plans == nil {
			writeError(w, http.StatusNotFound, "plan history disabled")
			return nil, false
		}
		plan, err := s.plans.GetPlan(id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return nil, false
		}
		if plan == nil {
			writeError(w, http.StatusNotFound, "plan not found")
			return nil, false
		}
		return plan, true
	}

	plan := s.session.Plan()
	if plan == nil {
		writeError(w, http.StatusNotFound, "no plan yet")
		return nil, false
	}
	return plan, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// generateID generates a random client ID.
func generateID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to a less random but still unique ID
		return hex.EncodeToString([]byte("fallback"))
	}
	return hex.EncodeToString(bytes)
}
