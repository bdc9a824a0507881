package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/finshield/muleguard/internal/auditstore"
	"github.com/finshield/muleguard/internal/domain"
	"github.com/finshield/muleguard/internal/ingest"
	"github.com/finshield/muleguard/internal/notify"
	"github.com/finshield/muleguard/internal/pipeline"
)

// APIHandlers exposes the detection service's HTTP handlers.
type APIHandlers struct {
	logger      *slog.Logger
	store       *auditstore.Store
	notifier    *notify.Publisher
	broadcaster *stageBroadcaster

	mu         sync.RWMutex
	lastExport *domain.GraphExport
}

// NewAPIHandlers constructs an APIHandlers instance. store and notifier may
// be nil-backed no-ops (see internal/auditstore and internal/notify).
func NewAPIHandlers(logger *slog.Logger, store *auditstore.Store, notifier *notify.Publisher) *APIHandlers {
	return &APIHandlers{
		logger:      logger,
		store:       store,
		notifier:    notifier,
		broadcaster: newStageBroadcaster(),
	}
}

// handleAnalyze runs the full pipeline synchronously over the posted
// transaction batch and returns the canonical report document.
func (h *APIHandlers) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if r.Body == nil {
		writeError(w, http.StatusBadRequest, "request body is required")
		return
	}
	defer r.Body.Close()

	txs, err := ingest.Decode(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	run := pipeline.RunTracked(txs, h.broadcaster.publish)

	h.mu.Lock()
	export := run.GraphExport
	h.lastExport = &export
	h.mu.Unlock()

	if err := h.store.Record(r.Context(), run); err != nil {
		h.logger.Warn("audit store record failed", "error", err, "runId", run.RunID)
	}
	if err := h.notifier.Publish(run); err != nil {
		h.logger.Warn("notification publish failed", "error", err, "runId", run.RunID)
	}

	respondJSON(w, http.StatusOK, run.Report)
}

// handleExport serves the most recently completed run's graph export
// projection, or 404 if no run has completed yet in this process.
func (h *APIHandlers) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	h.mu.RLock()
	export := h.lastExport
	h.mu.RUnlock()

	if export == nil {
		writeError(w, http.StatusNotFound, "no completed run yet")
		return
	}
	respondJSON(w, http.StatusOK, export)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Every origin is accepted. corsMiddleware does not reject a non-OPTIONS
	// request from an unlisted origin, so it does not restrict upgrades here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// stageEventMessage is the wire shape of one narrated pipeline stage.
type stageEventMessage struct {
	Stage string `json:"stage"`
}

// handleStream upgrades to a websocket and forwards each pipeline stage
// event for the run currently in flight, closing once the run's final stage
// is observed. A client with no run in flight simply waits.
func (h *APIHandlers) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ch := h.broadcaster.subscribe()
	defer h.broadcaster.unsubscribe(ch)

	for event := range ch {
		_ = conn.SetWriteDeadline(time.Now().Add(30 * time.Second))
		if err := conn.WriteJSON(stageEventMessage{Stage: string(event)}); err != nil {
			return
		}
		if event == pipeline.StageReportAssembled {
			return
		}
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", allowed[0])
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
