package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"k8s.io/utils/ptr"

	apiv1 "github.com/ohmkit/resistor-search/api/v1"
	"github.com/ohmkit/resistor-search/internal/config"
	"github.com/ohmkit/resistor-search/internal/metrics"
)

// helper: build a server over the default configuration
func newTestServer(mutate func(*config.Config)) (*Server, *metrics.Metrics) {
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	m := metrics.New()
	srv, err := New(cfg, logr.Discard(), m)
	Expect(err).NotTo(HaveOccurred())
	return srv, m
}

// helper: POST a search request and decode the response body into out
func doSearch(srv *Server, req apiv1.SearchRequest, out any) *httptest.ResponseRecorder {
	body, err := json.Marshal(req)
	Expect(err).NotTo(HaveOccurred())

	rec := httptest.NewRecorder()
	httpReq := httptest.NewRequest(http.MethodPost, "/api/v1/search", bytes.NewReader(body))
	srv.Handler().ServeHTTP(rec, httpReq)

	if out != nil {
		Expect(json.Unmarshal(rec.Body.Bytes(), out)).To(Succeed())
	}
	return rec
}

func doGet(srv *Server, path string, out any) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if out != nil {
		Expect(json.Unmarshal(rec.Body.Bytes(), out)).To(Succeed())
	}
	return rec
}

var _ = Describe("POST /api/v1/search", func() {
	var srv *Server
	var m *metrics.Metrics

	BeforeEach(func() {
		srv, m = newTestServer(nil)
	})

	It("should find the exact standard value", func() {
		var resp apiv1.SearchResponse
		rec := doSearch(srv, apiv1.SearchRequest{
			Target:           "10k",
			TolerancePercent: 1,
			Mode:             apiv1.ModeSeries,
			Count:            ptr.To(1),
		}, &resp)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(resp.Target).To(Equal(10000.0))
		Expect(resp.TargetLabel).To(Equal("10 kΩ"))
		Expect(resp.Parallel).To(BeNil())
		Expect(resp.Series).NotTo(BeNil())
		Expect(resp.Series.Total).To(Equal(1))
		Expect(resp.Series.Results).To(HaveLen(1))
		Expect(resp.Series.Results[0].Values).To(Equal([]float64{10000}))
		Expect(resp.Series.Results[0].Equivalent).To(Equal(10000.0))
		Expect(resp.Series.Results[0].PercentError).To(BeZero())
		Expect(resp.Summary.Winner).To(Equal(apiv1.WinnerSeries))
	})

	It("should search both modes when mode is omitted", func() {
		var resp apiv1.SearchResponse
		rec := doSearch(srv, apiv1.SearchRequest{Target: "220"}, &resp)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(resp.TolerancePercent).To(Equal(config.DefaultTolerancePercent))
		Expect(resp.Series).NotTo(BeNil())
		Expect(resp.Parallel).NotTo(BeNil())
		// Both modes contain the single resistor 220 with zero error.
		Expect(resp.Summary.Series.BestError).To(BeZero())
		Expect(resp.Summary.Parallel.BestError).To(BeZero())
		Expect(resp.Summary.Winner).To(Equal(apiv1.WinnerTie))
	})

	It("should exclude parallel pairs outside the tolerance", func() {
		var resp apiv1.SearchResponse
		rec := doSearch(srv, apiv1.SearchRequest{
			Target:           "220",
			TolerancePercent: 5,
			Mode:             apiv1.ModeParallel,
			Count:            ptr.To(2),
		}, &resp)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(resp.Parallel.Results).NotTo(BeEmpty())
		for _, result := range resp.Parallel.Results {
			Expect(result.Values).To(HaveLen(2))
			Expect(result.PercentError).To(BeNumerically("<=", 5.0))
			// Two 220s in parallel give 110, far outside 5%.
			Expect(result.Values).NotTo(Equal([]float64{220, 220}))
		}
	})

	It("should apply the limit but report the full total", func() {
		var resp apiv1.SearchResponse
		rec := doSearch(srv, apiv1.SearchRequest{
			Target:           "10k",
			TolerancePercent: 5,
			Mode:             apiv1.ModeSeries,
			Limit:            3,
		}, &resp)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(resp.Series.Results).To(HaveLen(3))
		Expect(resp.Series.Total).To(BeNumerically(">", 3))
	})

	It("should attach bands and diagrams when requested", func() {
		var resp apiv1.SearchResponse
		rec := doSearch(srv, apiv1.SearchRequest{
			Target:           "4.7k",
			TolerancePercent: 1,
			Mode:             apiv1.ModeSeries,
			Count:            ptr.To(1),
			Limit:            1,
			IncludeDiagrams:  true,
			IncludeBands:     true,
		}, &resp)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(resp.Series.Results).To(HaveLen(1))

		best := resp.Series.Results[0]
		Expect(best.Diagram).To(ContainSubstring("digraph G {"))
		// The best match gets the highlight palette.
		Expect(best.Diagram).To(ContainSubstring("#ade8f4"))
		Expect(best.Bands).To(Equal([][]string{{"yellow", "purple", "red"}}))
	})

	It("should pick the series winner when parallel cannot reach the target", func() {
		// Parallel equivalents never exceed the largest table value, so a
		// 20 MΩ target is series-only territory.
		var resp apiv1.SearchResponse
		rec := doSearch(srv, apiv1.SearchRequest{Target: "20M", TolerancePercent: 5}, &resp)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(resp.Series.Total).To(BeNumerically(">", 0))
		Expect(resp.Parallel.Total).To(BeZero())
		Expect(resp.Summary.Series).NotTo(BeNil())
		Expect(resp.Summary.Parallel).To(BeNil())
		Expect(resp.Summary.Winner).To(Equal(apiv1.WinnerSeries))
	})

	It("should report no winner when nothing matches", func() {
		// Four of the largest value in series stay below 50 MΩ.
		var resp apiv1.SearchResponse
		rec := doSearch(srv, apiv1.SearchRequest{Target: "50M", TolerancePercent: 5}, &resp)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(resp.Series.Total).To(BeZero())
		Expect(resp.Parallel.Total).To(BeZero())
		Expect(resp.Summary.Winner).To(Equal(apiv1.WinnerNone))
	})

	It("should serve repeated searches from the cache", func() {
		req := apiv1.SearchRequest{Target: "330", TolerancePercent: 2, Mode: apiv1.ModeSeries}

		var first, second apiv1.SearchResponse
		Expect(doSearch(srv, req, &first).Code).To(Equal(http.StatusOK))
		Expect(doSearch(srv, req, &second).Code).To(Equal(http.StatusOK))

		Expect(second).To(Equal(first))
		Expect(srv.cache.len()).To(Equal(1))
		Expect(testutil.ToFloat64(m.CacheHits)).To(Equal(1.0))
		Expect(testutil.ToFloat64(m.CacheMisses)).To(Equal(1.0))
	})

	It("should reject a malformed body", func() {
		rec := httptest.NewRecorder()
		httpReq := httptest.NewRequest(http.MethodPost, "/api/v1/search", bytes.NewReader([]byte("{not json")))
		srv.Handler().ServeHTTP(rec, httpReq)

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		var errResp apiv1.ErrorResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &errResp)).To(Succeed())
		Expect(errResp.Error).To(ContainSubstring("invalid request body"))
	})

	It("should reject an unparseable target", func() {
		var errResp apiv1.ErrorResponse
		rec := doSearch(srv, apiv1.SearchRequest{Target: "ten kilo"}, &errResp)

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(errResp.Error).To(ContainSubstring("invalid target"))
	})

	It("should reject an unknown mode", func() {
		var errResp apiv1.ErrorResponse
		rec := doSearch(srv, apiv1.SearchRequest{Target: "220", Mode: "mixed"}, &errResp)

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(errResp.Error).To(ContainSubstring("unsupported mode"))
	})

	It("should reject an unknown series", func() {
		var errResp apiv1.ErrorResponse
		rec := doSearch(srv, apiv1.SearchRequest{Target: "220", Series: "E13"}, &errResp)

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(errResp.Error).To(ContainSubstring("unknown series"))
		Expect(testutil.ToFloat64(m.SearchesTotal.WithLabelValues("both", metrics.OutcomeInvalid))).To(Equal(1.0))
	})
})

var _ = Describe("custom series catalogs", func() {
	It("should search tables loaded from the catalog file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "catalog.yaml")
		doc := `
series:
  - name: lab-drawer
    values: [100, 220, 470, 1000]
`
		Expect(os.WriteFile(path, []byte(doc), 0o600)).To(Succeed())

		srv, _ := newTestServer(func(cfg *config.Config) {
			cfg.Search.CatalogPath = path
		})

		var resp apiv1.SearchResponse
		rec := doSearch(srv, apiv1.SearchRequest{
			Target:           "220",
			TolerancePercent: 1,
			Mode:             apiv1.ModeSeries,
			Count:            ptr.To(1),
			Series:           "lab-drawer",
		}, &resp)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(resp.Series.Results).To(HaveLen(1))
		Expect(resp.Series.Results[0].Values).To(Equal([]float64{220}))
	})

	It("should fail assembly when the catalog file is missing", func() {
		cfg := config.Default()
		cfg.Search.CatalogPath = filepath.Join(GinkgoT().TempDir(), "nope.yaml")

		_, err := New(cfg, logr.Discard(), metrics.New())
		Expect(err).To(MatchError(ContainSubstring("failed to read catalog file")))
	})
})

var _ = Describe("GET /api/v1/values", func() {
	var srv *Server

	BeforeEach(func() {
		srv, _ = newTestServer(nil)
	})

	It("should list the default table", func() {
		var resp apiv1.ValuesResponse
		rec := doGet(srv, "/api/v1/values", &resp)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(resp.Series).To(Equal("E12"))
		Expect(resp.Values).To(HaveLen(84))
		Expect(resp.Values[0]).To(Equal(1.0))
		Expect(resp.Values[83]).To(Equal(8.2e6))
		Expect(resp.Labels[0]).To(Equal("1 Ω"))
		Expect(resp.Labels[83]).To(Equal("8.2 MΩ"))
	})

	It("should build a custom decade range on demand", func() {
		var resp apiv1.ValuesResponse
		rec := doGet(srv, "/api/v1/values?series=E24&minDecade=0&maxDecade=0", &resp)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(resp.Values).To(HaveLen(24))
		Expect(resp.Values[0]).To(Equal(1.0))
		Expect(resp.Values[23]).To(Equal(9.1))
	})

	It("should reject an unknown series", func() {
		rec := doGet(srv, "/api/v1/values?series=E13", nil)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should reject a malformed decade", func() {
		rec := doGet(srv, "/api/v1/values?minDecade=two", nil)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})
})

var _ = Describe("GET /api/v1/bands", func() {
	var srv *Server

	BeforeEach(func() {
		srv, _ = newTestServer(nil)
	})

	It("should return band colors as JSON", func() {
		var resp apiv1.BandsResponse
		rec := doGet(srv, "/api/v1/bands?value=4.7k", &resp)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(resp.Ohms).To(Equal(4700.0))
		Expect(resp.Label).To(Equal("4.7 kΩ"))
		Expect(resp.Bands).To(Equal([]string{"yellow", "purple", "red"}))
	})

	It("should render an SVG swatch on request", func() {
		rec := doGet(srv, "/api/v1/bands?value=4.7k&format=svg", nil)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Content-Type")).To(Equal("image/svg+xml"))
		Expect(rec.Body.String()).To(ContainSubstring("<svg"))
		Expect(rec.Body.String()).To(ContainSubstring("fill:yellow"))
	})

	It("should require a value", func() {
		rec := doGet(srv, "/api/v1/bands", nil)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should reject a non-positive value", func() {
		rec := doGet(srv, "/api/v1/bands?value=-5", nil)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})
})

var _ = Describe("operational endpoints", func() {
	var srv *Server

	BeforeEach(func() {
		srv, _ = newTestServer(nil)
	})

	It("should answer health and readiness probes", func() {
		for _, path := range []string{"/healthz", "/readyz"} {
			rec := doGet(srv, path, nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(Equal("ok"))
		}
	})

	It("should expose search metrics after a search", func() {
		doSearch(srv, apiv1.SearchRequest{Target: "220", Mode: apiv1.ModeSeries}, nil)

		rec := doGet(srv, "/metrics", nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("resistor_search_searches_total"))
		Expect(rec.Body.String()).To(ContainSubstring("resistor_search_search_duration_seconds"))
	})

	It("should report build information", func() {
		var resp apiv1.VersionResponse
		rec := doGet(srv, "/version", &resp)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(resp.GoVersion).NotTo(BeEmpty())
	})
})
