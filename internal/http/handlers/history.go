package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"genstudio/internal/domain"
	"genstudio/pkg/datauri"
	"genstudio/pkg/zip"
)

// HistoryList returns every entry, most recent first.
func (a *App) HistoryList(w http.ResponseWriter, r *http.Request) {
	items := a.History.List()
	a.json(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

// HistoryGet returns one entry.
func (a *App) HistoryGet(w http.ResponseWriter, r *http.Request) {
	entry, err := a.History.Get(chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, entry)
}

// HistoryDownload serves an image entry as an attachment. Video entries
// redirect to the hosted clip.
func (a *App) HistoryDownload(w http.ResponseWriter, r *http.Request) {
	entry, err := a.History.Get(chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if !strings.HasPrefix(entry.URL, "data:") {
		http.Redirect(w, r, entry.URL, http.StatusFound)
		return
	}
	mimeType, data, err := datauri.Decode(entry.URL)
	if err != nil {
		a.fail(w, r, fmt.Errorf("history entry %s: %w", entry.ID, err))
		return
	}
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadName(entry, mimeType)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// HistoryDelete removes one entry.
func (a *App) HistoryDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.History.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HistoryClear removes every entry.
func (a *App) HistoryClear(w http.ResponseWriter, r *http.Request) {
	if err := a.History.Clear(r.Context()); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HistoryExport bundles every image entry into one zip archive.
func (a *App) HistoryExport(w http.ResponseWriter, r *http.Request) {
	var assets []zip.Asset
	for _, entry := range a.History.List() {
		if !strings.HasPrefix(entry.URL, "data:") {
			continue
		}
		mimeType, data, err := datauri.Decode(entry.URL)
		if err != nil {
			a.Logger.Warn().Err(err).Str("entry_id", entry.ID).Msg("skipping undecodable history entry")
			continue
		}
		assets = append(assets, zip.Asset{Filename: downloadName(entry, mimeType), MIME: mimeType, Data: data, Modified: entry.CreatedAt})
	}
	if len(assets) == 0 {
		a.fail(w, r, errors.Join(domain.ErrNotFound, errors.New("no images in history")))
		return
	}
	archive, err := zip.ArchiveAssets(assets)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=ai-generated-%d.zip", time.Now().UnixMilli()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

func downloadName(entry domain.HistoryEntry, mimeType string) string {
	ts := entry.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return fmt.Sprintf("ai-generated-%d%s", ts.UnixMilli(), datauri.Extension(mimeType))
}
