package main

import (
	"encoding/json"
	"net/http"
	"slices"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"qset.lopezb.com/internal/quickset"
)

// setInfo is the JSON view of one set.
type setInfo struct {
	Key       string        `json:"key"`
	Mode      quickset.Mode `json:"mode"`
	FIFO      bool          `json:"fifo"`
	Clip      int           `json:"clip"`
	Span      int           `json:"span"`
	Slot      int           `json:"slot"`
	High      int           `json:"high"`
	Freq      int           `json:"freq"`
	KeyWidth  string        `json:"key_width"`
	ValWidth  string        `json:"count_width"`
	Len       int           `json:"len"`
	Min       uint32        `json:"min"`
	Max       uint32        `json:"max"`
	Footprint int           `json:"footprint_bytes"`
}

type topEntry struct {
	Key   int    `json:"key"`
	Count uint32 `json:"count"`
}

func describeSet(key string, set *quickset.Set) setInfo {
	cfg := set.Config()
	kw, vw := set.Widths()
	return setInfo{
		Key:       key,
		Mode:      cfg.Mode,
		FIFO:      cfg.FIFO,
		Clip:      cfg.Clip,
		Span:      cfg.Span,
		Slot:      cfg.Slot,
		High:      cfg.High,
		Freq:      cfg.Freq,
		KeyWidth:  kw.String(),
		ValWidth:  vw.String(),
		Len:       set.Len(),
		Min:       set.Min(),
		Max:       set.Max(),
		Footprint: set.Footprint(),
	}
}

// adminRoutes builds the HTTP handler of the admin endpoint.
func (app *application) adminRoutes() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", app.healthzHandler).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/sets", app.listSetsHandler).Methods(http.MethodGet)
	r.HandleFunc("/sets/{key}", app.setInfoHandler).Methods(http.MethodGet)
	r.HandleFunc("/sets/{key}/top", app.setTopHandler).Methods(http.MethodGet)

	return r
}

func (app *application) healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok\n"))
}

func (app *application) listSetsHandler(w http.ResponseWriter, r *http.Request) {
	keys := app.store.Keys()
	slices.Sort(keys)
	app.writeJSON(w, http.StatusOK, keys)
}

func (app *application) setInfoHandler(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var info setInfo
	found := false
	app.store.View(key, func(set *quickset.Set) {
		if set != nil {
			found = true
			info = describeSet(key, set)
		}
	})

	if !found {
		http.Error(w, "no such set", http.StatusNotFound)
		return
	}
	app.writeJSON(w, http.StatusOK, info)
}

// setTopHandler serves the rank window, best first. The optional k query
// parameter caps the number of entries.
func (app *application) setTopHandler(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	k := 0
	if s := r.URL.Query().Get("k"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			http.Error(w, "k must be a non-negative integer", http.StatusBadRequest)
			return
		}
		k = n
	}

	var entries []topEntry
	found := false
	app.store.View(key, func(set *quickset.Set) {
		if set == nil {
			return
		}
		found = true
		top := set.Top(k)
		entries = make([]topEntry, len(top))
		for i, e := range top {
			entries[i] = topEntry{Key: e.Key, Count: e.Count}
		}
	})

	if !found {
		http.Error(w, "no such set", http.StatusNotFound)
		return
	}
	app.writeJSON(w, http.StatusOK, entries)
}

func (app *application) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		app.logger.Error("failed to marshal response", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
