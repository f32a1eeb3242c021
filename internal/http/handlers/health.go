package handlers

import (
	"net/http"
)

// Health reports liveness and which vendor capabilities have credentials.
// Credential values are never included.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	providers := map[string]bool{}
	if a.Config != nil {
		providers["huggingface"] = a.Config.HFAPIKey != ""
		providers["runway"] = a.Config.RunwayAPIKey != ""
		providers["replicate"] = a.Config.ReplicateAPIToken != ""
	}
	history := 0
	if a.History != nil {
		history = a.History.Len()
	}
	a.json(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"providers":       providers,
		"history_entries": history,
	})
}
