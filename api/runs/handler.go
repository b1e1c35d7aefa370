// Package runs exposes stored simulation runs over HTTP.
package runs

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/kilianp07/evfleet/core/model"
	"github.com/kilianp07/evfleet/core/simulation"
	corestore "github.com/kilianp07/evfleet/core/store"
	"github.com/kilianp07/evfleet/pkg/export"
)

// Prefix is the route the handler is mounted on.
const Prefix = "/api/runs/"

// Response is the JSON body of GET /api/runs/{id}.
type Response struct {
	Run       model.Run          `json:"run"`
	Stats     []model.DayStats   `json:"stats"`
	Summaries []model.DaySummary `json:"summaries"`
}

// NewHandler returns an HTTP handler serving GET /api/runs/{id}. The optional
// ev and day query parameters filter the summaries; format=csv returns them
// as CSV instead of JSON.
func NewHandler(store corestore.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		id := strings.Trim(strings.TrimPrefix(r.URL.Path, Prefix), "/")
		if id == "" {
			http.Error(w, "missing run id", http.StatusBadRequest)
			return
		}
		ev, err := intParam(r, "ev", 0)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		day, err := intParam(r, "day", 1)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		run, res, err := store.LoadRun(r.Context(), id)
		if errors.Is(err, corestore.ErrRunNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		stats := simulation.Summarize(res)
		res = filter(res, ev, day)

		if r.URL.Query().Get("format") == string(export.FormatCSV) {
			w.Header().Set("Content-Type", "text/csv")
			if err := export.WriteCSV(w, res); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			return
		}
		if res == nil {
			res = []model.DaySummary{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(Response{Run: run, Stats: stats, Summaries: res}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

// intParam returns the value of an optional query parameter, -1 when it is
// absent. Values below lowest are rejected.
func intParam(r *http.Request, name string, lowest int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return -1, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < lowest {
		return 0, errors.New("invalid " + name + " parameter")
	}
	return n, nil
}

func filter(res []model.DaySummary, ev, day int) []model.DaySummary {
	if ev < 0 && day < 0 {
		return res
	}
	var out []model.DaySummary
	for _, s := range res {
		if (ev < 0 || s.EV == ev) && (day < 0 || s.Day == day) {
			out = append(out, s)
		}
	}
	return out
}
