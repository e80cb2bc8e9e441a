package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ziadkadry99/testgen/internal/api"
)

// statsResponse is the JSON response for the stats endpoint.
type statsResponse struct {
	api.Statistics
	AveragePerGeneration int `json:"average_per_generation"`
}

// recentItem is one row of the recent test cases list.
type recentItem struct {
	Name      string `json:"name"`
	Priority  string `json:"priority"`
	TestLevel string `json:"test_level"`
}

// modelsResponse is the JSON response for the models endpoint.
type modelsResponse struct {
	Live    bool        `json:"live"`
	Catalog api.Catalog `json:"catalog"`
}

func (d *Dashboard) handleStats(w http.ResponseWriter, r *http.Request) {
	resp, err := d.stats(r.Context())
	if err != nil {
		d.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (d *Dashboard) stats(ctx context.Context) (*statsResponse, error) {
	stats, err := d.backend.Statistics(ctx)
	if err != nil {
		return nil, err
	}
	return &statsResponse{Statistics: *stats, AveragePerGeneration: stats.AveragePerGeneration()}, nil
}

func (d *Dashboard) handleRecent(w http.ResponseWriter, r *http.Request) {
	items, err := d.recent(r.Context())
	if err != nil {
		d.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (d *Dashboard) recent(ctx context.Context) ([]recentItem, error) {
	raw, err := d.backend.ListTestCases(ctx)
	if err != nil {
		return nil, err
	}
	cases, err := api.ParseTestCases(raw)
	if err != nil {
		return nil, err
	}
	if len(cases) > RecentLimit {
		cases = cases[:RecentLimit]
	}

	items := make([]recentItem, 0, len(cases))
	for _, tc := range cases {
		item := recentItem{Name: tc.Name, Priority: tc.Priority, TestLevel: tc.TestLevel}
		if item.Priority == "" {
			item.Priority = "Medium"
		}
		if item.TestLevel == "" {
			item.TestLevel = "General"
		}
		items = append(items, item)
	}
	return items, nil
}

func (d *Dashboard) handleModels(w http.ResponseWriter, r *http.Request) {
	catalog, live := d.models.Load(r.Context())
	writeJSON(w, http.StatusOK, modelsResponse{Live: live, Catalog: catalog})
}

// writeError maps backend errors to a 502 and everything else to a 500.
func (d *Dashboard) writeError(w http.ResponseWriter, err error) {
	d.logger.Error("dashboard", "request failed", map[string]interface{}{"error": err})
	status := http.StatusInternalServerError
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]string{"error": api.Message(err)})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
