package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/common/version"
	"github.com/sourcegraph/conc"
	"gonum.org/v1/gonum/stat"
	"k8s.io/utils/ptr"

	apiv1 "github.com/ohmkit/resistor-search/api/v1"
	"github.com/ohmkit/resistor-search/internal/bands"
	"github.com/ohmkit/resistor-search/internal/metrics"
	"github.com/ohmkit/resistor-search/internal/ohmfmt"
	"github.com/ohmkit/resistor-search/internal/render"
	"github.com/ohmkit/resistor-search/pkg/engine"
	"github.com/ohmkit/resistor-search/pkg/eseries"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req apiv1.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.SearchesTotal.WithLabelValues(modeLabel(""), metrics.OutcomeInvalid).Inc()
		s.writeError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}

	if req.TolerancePercent == 0 {
		req.TolerancePercent = s.cfg.Search.DefaultTolerancePercent
	}
	if req.Series == "" {
		req.Series = s.cfg.Search.Series
	}

	if err := req.Validate(); err != nil {
		s.metrics.SearchesTotal.WithLabelValues(modeLabel(req.Mode), metrics.OutcomeInvalid).Inc()
		s.writeError(w, http.StatusBadRequest, "%v", err)
		return
	}
	target, err := ohmfmt.Parse(req.Target)
	if err != nil {
		s.metrics.SearchesTotal.WithLabelValues(modeLabel(req.Mode), metrics.OutcomeInvalid).Inc()
		s.writeError(w, http.StatusBadRequest, "invalid target: %v", err)
		return
	}
	eng, ok := s.engines[req.Series]
	if !ok {
		s.metrics.SearchesTotal.WithLabelValues(modeLabel(req.Mode), metrics.OutcomeInvalid).Inc()
		s.writeError(w, http.StatusBadRequest, "unknown series %q", req.Series)
		return
	}

	base := engine.Request{
		Target:     target,
		Tolerance:  req.TolerancePercent / 100,
		Components: ptr.Deref(req.Count, 0),
	}
	modes := []engine.Mode{engine.ModeSeries, engine.ModeParallel}
	if req.Mode != "" {
		modes = []engine.Mode{engine.Mode(req.Mode)}
	}

	ctx := r.Context()
	perMode := make([][]engine.Result, len(modes))
	searchErrs := make([]error, len(modes))
	if len(modes) == 1 {
		sized := base
		sized.Mode = modes[0]
		perMode[0], searchErrs[0] = s.runSearch(ctx, eng, req.Series, sized)
	} else {
		var wg conc.WaitGroup
		for i, mode := range modes {
			sized := base
			sized.Mode = mode
			wg.Go(func() {
				perMode[i], searchErrs[i] = s.runSearch(ctx, eng, req.Series, sized)
			})
		}
		wg.Wait()
	}
	for i, err := range searchErrs {
		if err != nil {
			s.logger.Error(err, "Search failed", "mode", modes[i])
			s.writeError(w, http.StatusInternalServerError, "search failed: %v", err)
			return
		}
	}

	resp := apiv1.SearchResponse{
		Target:           target,
		TargetLabel:      ohmfmt.Format(target),
		TolerancePercent: req.TolerancePercent,
	}
	for i, mode := range modes {
		modeResults := s.buildModeResults(perMode[i], mode, req.Limit, req.IncludeDiagrams, req.IncludeBands)
		summary := summarize(perMode[i])
		switch mode {
		case engine.ModeSeries:
			resp.Series = modeResults
			resp.Summary.Series = summary
		case engine.ModeParallel:
			resp.Parallel = modeResults
			resp.Summary.Parallel = summary
		}
	}
	resp.Summary.Winner = pickWinner(resp.Summary.Series, resp.Summary.Parallel)

	s.writeJSON(w, http.StatusOK, resp)
}

// runSearch serves one mode from the result cache or runs the engine,
// recording metrics either way.
func (s *Server) runSearch(ctx context.Context, eng *engine.Engine, series string, req engine.Request) ([]engine.Result, error) {
	key := cacheKey(series, req)
	if results, ok := s.cache.get(key); ok {
		s.metrics.CacheHits.Inc()
		return results, nil
	}
	s.metrics.CacheMisses.Inc()

	start := time.Now()
	results, err := eng.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	mode := string(req.Mode)
	s.metrics.SearchDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	s.metrics.ResultsReturned.WithLabelValues(mode).Observe(float64(len(results)))
	s.metrics.SearchesTotal.WithLabelValues(mode, metrics.OutcomeOK).Inc()
	s.cache.put(key, results)
	return results, nil
}

// buildModeResults shapes one mode's ranked list for the wire: pagination,
// display labels, and the optional visual payloads. The first result is the
// best match and gets the highlighted diagram.
func (s *Server) buildModeResults(results []engine.Result, mode engine.Mode, limit int, includeDiagrams, includeBands bool) *apiv1.ModeResults {
	shown := results
	if limit > 0 && limit < len(shown) {
		shown = shown[:limit]
	}
	out := &apiv1.ModeResults{
		Total:   len(results),
		Results: make([]apiv1.Result, 0, len(shown)),
	}
	for i, res := range shown {
		labels := make([]string, len(res.Combination))
		for j, v := range res.Combination {
			labels[j] = ohmfmt.Format(v)
		}
		payload := apiv1.Result{
			Values:          res.Combination,
			Labels:          labels,
			Equivalent:      res.Equivalent,
			EquivalentLabel: ohmfmt.Format(res.Equivalent),
			PercentError:    res.PercentError,
		}
		if includeBands {
			payload.Bands = make([][]string, len(res.Combination))
			for j, v := range res.Combination {
				payload.Bands[j] = bands.ForValue(v)
			}
		}
		if includeDiagrams {
			payload.Diagram = render.CircuitDOT(res.Combination, mode, i == 0)
		}
		out.Results = append(out.Results, payload)
	}
	return out
}

// summarize aggregates the error distribution of one mode's ranked list.
// Returns nil when the mode found nothing.
func summarize(results []engine.Result) *apiv1.ModeSummary {
	if len(results) == 0 {
		return nil
	}
	errs := make([]float64, len(results))
	for i, r := range results {
		errs[i] = r.PercentError
	}
	// The list is ranked by error, so errs is already ascending as
	// Quantile requires.
	return &apiv1.ModeSummary{
		Total:       len(results),
		BestError:   errs[0],
		MeanError:   stat.Mean(errs, nil),
		MedianError: stat.Quantile(0.5, stat.Empirical, errs, nil),
	}
}

// pickWinner names the mode with the lower best error. Equal best errors are
// a tie; when neither mode matched there is no winner.
func pickWinner(series, parallel *apiv1.ModeSummary) string {
	switch {
	case series == nil && parallel == nil:
		return apiv1.WinnerNone
	case parallel == nil:
		return apiv1.WinnerSeries
	case series == nil:
		return apiv1.WinnerParallel
	case series.BestError < parallel.BestError:
		return apiv1.WinnerSeries
	case parallel.BestError < series.BestError:
		return apiv1.WinnerParallel
	default:
		return apiv1.WinnerTie
	}
}

func (s *Server) handleValues(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	series := q.Get("series")
	if series == "" {
		series = s.cfg.Search.Series
	}

	minDecade, maxDecade := s.cfg.Search.MinDecade, s.cfg.Search.MaxDecade
	custom := false
	if raw := q.Get("minDecade"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid minDecade: %v", err)
			return
		}
		minDecade, custom = v, true
	}
	if raw := q.Get("maxDecade"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid maxDecade: %v", err)
			return
		}
		maxDecade, custom = v, true
	}

	var table []float64
	if custom {
		// A custom decade range rebuilds the table, so it only applies
		// to the standard series.
		t, err := eseries.Build(eseries.Series(series), minDecade, maxDecade)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "%v", err)
			return
		}
		table = t
	} else {
		eng, ok := s.engines[series]
		if !ok {
			s.writeError(w, http.StatusBadRequest, "unknown series %q", series)
			return
		}
		table = eng.Table()
	}

	labels := make([]string, len(table))
	for i, v := range table {
		labels[i] = ohmfmt.Format(v)
	}
	s.writeJSON(w, http.StatusOK, apiv1.ValuesResponse{
		Series: series,
		Values: table,
		Labels: labels,
	})
}

func (s *Server) handleBands(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("value")
	if raw == "" {
		s.writeError(w, http.StatusBadRequest, "value is required")
		return
	}
	ohms, err := ohmfmt.Parse(raw)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid value: %v", err)
		return
	}

	if r.URL.Query().Get("format") == "svg" {
		w.Header().Set("Content-Type", "image/svg+xml")
		render.BandSwatch(w, ohms)
		return
	}

	s.writeJSON(w, http.StatusOK, apiv1.BandsResponse{
		Ohms:  ohms,
		Label: ohmfmt.Format(ohms),
		Bands: bands.ForValue(ohms),
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, apiv1.VersionResponse{
		Version:   version.Version,
		Revision:  version.Revision,
		GoVersion: version.GoVersion,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error(err, "Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, format string, args ...any) {
	s.writeJSON(w, status, apiv1.ErrorResponse{Error: fmt.Sprintf(format, args...)})
}

// cacheKey derives the cache identity of one mode search.
func cacheKey(series string, req engine.Request) string {
	return fmt.Sprintf("%s|%s|%s|%s|%d",
		series, req.Mode,
		strconv.FormatFloat(req.Target, 'g', -1, 64),
		strconv.FormatFloat(req.Tolerance, 'g', -1, 64),
		req.Components)
}

// modeLabel folds the requested mode into a bounded metric label set.
func modeLabel(mode string) string {
	switch mode {
	case apiv1.ModeSeries, apiv1.ModeParallel:
		return mode
	case "":
		return "both"
	default:
		return "unknown"
	}
}
