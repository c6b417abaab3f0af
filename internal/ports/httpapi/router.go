// Package httpapi serves the leaderboard over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"invasion/internal/domain"
	"invasion/internal/leaderboard"
	"invasion/internal/ports"

	"github.com/gorilla/mux"
	"github.com/heroiclabs/nakama-common/runtime"
)

const maxEntryBytes = 16 << 10

// Handler exposes GET and POST /leaderboards/{type}.
type Handler struct {
	store  ports.LeaderboardPort
	logger runtime.Logger
	now    func() time.Time
}

// NewRouter wires the leaderboard routes.
func NewRouter(store ports.LeaderboardPort, logger runtime.Logger) *mux.Router {
	h := &Handler{store: store, logger: logger, now: time.Now}

	r := mux.NewRouter()
	r.Use(cors)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	lb := r.PathPrefix("/leaderboards").Subrouter()
	lb.HandleFunc("/{type}", h.getLeaderboard).Methods(http.MethodGet)
	lb.HandleFunc("/{type}", h.postLeaderboard).Methods(http.MethodPost)
	lb.HandleFunc("/{type}", preflight).Methods(http.MethodOptions)
	return r
}

func (h *Handler) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["type"]
	entries, err := h.store.Entries(r.Context(), category)
	if errors.Is(err, leaderboard.ErrInvalidCategory) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.Error("getLeaderboard: read %s: %v", category, err)
		http.Error(w, "Error reading leaderboard data", http.StatusInternalServerError)
		return
	}
	writeJSON(w, entries)
}

func (h *Handler) postLeaderboard(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["type"]

	var entry domain.LeaderboardEntry
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEntryBytes))
	if err := dec.Decode(&entry); err != nil {
		http.Error(w, "invalid leaderboard entry", http.StatusBadRequest)
		return
	}
	if entry.PlayerName == "" {
		http.Error(w, "playerName is required", http.StatusBadRequest)
		return
	}
	if entry.Date.IsZero() {
		entry.Date = h.now().UTC()
	}
	if entry.Rank == "" {
		entry.Rank = domain.CalculateRank(entry.Score, entry.Difficulty)
	}

	entries, err := h.store.Submit(r.Context(), category, entry)
	if errors.Is(err, leaderboard.ErrInvalidCategory) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.Error("postLeaderboard: write %s: %v", category, err)
		http.Error(w, "Error updating leaderboard data", http.StatusInternalServerError)
		return
	}
	h.logger.Info("postLeaderboard: %s scored %d in %s", entry.PlayerName, entry.Score, category)
	writeJSON(w, entries)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		next.ServeHTTP(w, r)
	})
}

func preflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
