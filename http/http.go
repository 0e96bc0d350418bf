package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/fuad-daoud/discord-state/logger/dlog"
	"github.com/fuad-daoud/discord-state/state"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Setup serves the read-only inspection surface: metrics, liveness and
// guild snapshots. It blocks on ListenAndServe.
func Setup(port string, cache *state.Cache) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/status", statusHandler)
	mux.HandleFunc("/guilds", guildsHandler(cache))
	mux.HandleFunc("/guilds/", guildHandler(cache))
	err := http.ListenAndServe(":"+port, mux)
	if err != nil {
		dlog.Error("Could not serve on " + port)
		return err
	}
	return nil
}

func statusHandler(w http.ResponseWriter, r *http.Request) {
	logRequest(r)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func guildsHandler(cache *state.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logRequest(r)
		type guildSummary struct {
			ID          string `json:"id"`
			Name        string `json:"name"`
			MemberCount int    `json:"member_count"`
			Available   bool   `json:"available"`
		}
		summaries := make([]guildSummary, 0)
		for _, g := range cache.Guilds() {
			summaries = append(summaries, guildSummary{
				ID:          g.ID.String(),
				Name:        g.Name,
				MemberCount: g.MemberCount(),
				Available:   g.Available,
			})
		}
		writeJSON(w, summaries)
	}
}

func guildHandler(cache *state.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logRequest(r)
		raw := strings.TrimPrefix(r.URL.Path, "/guilds/")
		id, err := snowflake.Parse(raw)
		if err != nil {
			http.Error(w, "bad guild id", http.StatusBadRequest)
			return
		}
		view, ok := cache.Snapshot(id)
		if !ok {
			http.Error(w, "guild not cached", http.StatusNotFound)
			return
		}
		writeJSON(w, renderView(view))
	}
}

type viewPayload struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	OwnerID       string        `json:"owner_id,omitempty"`
	Available     bool          `json:"available"`
	Features      []string      `json:"features"`
	Roles         []rolePayload `json:"roles"`
	Members       []string      `json:"members"`
	TextChannels  []string      `json:"text_channels"`
	VoiceChannels []string      `json:"voice_channels"`
	Emotes        []string      `json:"emotes"`
}

type rolePayload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

func renderView(view *state.GuildView) viewPayload {
	payload := viewPayload{
		ID:        view.Guild.ID.String(),
		Name:      view.Guild.Name,
		Available: view.Guild.Available,
		Features:  make([]string, 0),
	}
	if view.Guild.OwnerID != 0 {
		payload.OwnerID = view.Guild.OwnerID.String()
	}
	for _, f := range view.Guild.Features {
		payload.Features = append(payload.Features, string(f))
	}
	for _, r := range view.Roles {
		payload.Roles = append(payload.Roles, rolePayload{
			ID:       r.ID.String(),
			Name:     r.Name,
			Position: r.EffectivePosition(),
		})
	}
	for _, m := range view.Members {
		payload.Members = append(payload.Members, m.EffectiveName())
	}
	for _, ch := range view.TextChannels {
		payload.TextChannels = append(payload.TextChannels, ch.Name)
	}
	for _, ch := range view.VoiceChannels {
		payload.VoiceChannels = append(payload.VoiceChannels, ch.Name)
	}
	for _, e := range view.Emotes {
		payload.Emotes = append(payload.Emotes, e.Name)
	}
	return payload
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		dlog.Error("Could not encode response", "err", err)
	}
}

func logRequest(r *http.Request) {
	dlog.Debug("Got request!", "method", r.Method, "uri", r.RequestURI)
}
