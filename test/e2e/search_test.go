package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"k8s.io/utils/ptr"

	apiv1 "github.com/ohmkit/resistor-search/api/v1"
)

// postSearch sends one search request and returns the status with the raw
// body.
func postSearch(req apiv1.SearchRequest) (int, []byte) {
	payload, err := json.Marshal(req)
	Expect(err).NotTo(HaveOccurred())

	resp, err := http.Post(baseURL+"/api/v1/search", "application/json", bytes.NewReader(payload))
	Expect(err).NotTo(HaveOccurred())
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())
	return resp.StatusCode, body
}

// searchOK runs postSearch and decodes the expected success response.
func searchOK(req apiv1.SearchRequest) apiv1.SearchResponse {
	status, body := postSearch(req)
	Expect(status).To(Equal(http.StatusOK), string(body))

	var out apiv1.SearchResponse
	Expect(json.Unmarshal(body, &out)).To(Succeed())
	return out
}

func get(path string) (int, []byte, http.Header) {
	resp, err := http.Get(baseURL + path)
	Expect(err).NotTo(HaveOccurred())
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())
	return resp.StatusCode, body, resp.Header
}

var _ = Describe("searching combinations over HTTP", func() {
	It("should resolve a 10 kΩ target to the exact standard value", func() {
		resp := searchOK(apiv1.SearchRequest{
			Target:           "10k",
			TolerancePercent: 1,
			Mode:             apiv1.ModeSeries,
			Count:            ptr.To(1),
		})

		Expect(resp.Series.Total).To(Equal(1))
		Expect(resp.Series.Results[0].Values).To(Equal([]float64{10000}))
		Expect(resp.Series.Results[0].PercentError).To(BeZero())
		Expect(resp.Series.Results[0].EquivalentLabel).To(Equal("10 kΩ"))
	})

	It("should include results exactly on the tolerance boundary", func() {
		resp := searchOK(apiv1.SearchRequest{
			Target:           "100",
			TolerancePercent: 10,
			Mode:             apiv1.ModeSeries,
			Count:            ptr.To(1),
			Series:           "E24",
		})

		// 110 misses 100 by exactly the 10% bound and must stay in.
		values := make([]float64, 0, resp.Series.Total)
		for _, result := range resp.Series.Results {
			Expect(result.Values).To(HaveLen(1))
			values = append(values, result.Values[0])
		}
		Expect(values).To(Equal([]float64{100, 91, 110}))
		Expect(resp.Series.Results[0].PercentError).To(BeZero())
		Expect(resp.Series.Results[1].PercentError).To(BeNumerically("~", 9, 1e-9))
		Expect(resp.Series.Results[2].PercentError).To(Equal(10.0))
	})

	It("should exclude the halved parallel pair of the target value", func() {
		resp := searchOK(apiv1.SearchRequest{
			Target:           "220",
			TolerancePercent: 5,
			Mode:             apiv1.ModeParallel,
			Count:            ptr.To(2),
		})

		Expect(resp.Parallel.Results).NotTo(BeEmpty())
		sawCross := false
		for _, result := range resp.Parallel.Results {
			Expect(result.Values).NotTo(Equal([]float64{220, 220}))
			Expect(result.PercentError).To(BeNumerically("<=", 5.0))
			if result.Values[0] == 270 && result.Values[1] == 1200 {
				sawCross = true
			}
		}
		Expect(sawCross).To(BeTrue(), "270 Ω ∥ 1.2 kΩ lands within 5% of 220 Ω")
	})

	It("should answer identically across repeated searches", func() {
		req := apiv1.SearchRequest{Target: "220", TolerancePercent: 5}

		first := searchOK(req)
		second := searchOK(req)

		Expect(second).To(Equal(first))
		Expect(first.Summary.Winner).To(Equal(apiv1.WinnerTie))
	})

	It("should reject invalid requests with a JSON error body", func() {
		invalid := []apiv1.SearchRequest{
			{},
			{Target: "abc"},
			{Target: "220", Mode: "mixed"},
			{Target: "220", Count: ptr.To(9)},
			{Target: "220", TolerancePercent: -2},
			{Target: "220", Series: "E13"},
		}
		for _, req := range invalid {
			status, body := postSearch(req)
			Expect(status).To(Equal(http.StatusBadRequest), string(body))

			var errResp apiv1.ErrorResponse
			Expect(json.Unmarshal(body, &errResp)).To(Succeed())
			Expect(errResp.Error).NotTo(BeEmpty())
		}
	})

	It("should not serve search on GET", func() {
		status, _, _ := get("/api/v1/search")
		Expect(status).To(Equal(http.StatusMethodNotAllowed))
	})
})

var _ = Describe("inspection endpoints", func() {
	It("should list the default value table", func() {
		status, body, _ := get("/api/v1/values")
		Expect(status).To(Equal(http.StatusOK))

		var resp apiv1.ValuesResponse
		Expect(json.Unmarshal(body, &resp)).To(Succeed())
		Expect(resp.Series).To(Equal("E12"))
		Expect(resp.Values).To(HaveLen(84))
		Expect(resp.Labels[0]).To(Equal("1 Ω"))
	})

	It("should build narrower tables on demand", func() {
		status, body, _ := get("/api/v1/values?series=E6&minDecade=0&maxDecade=0")
		Expect(status).To(Equal(http.StatusOK))

		var resp apiv1.ValuesResponse
		Expect(json.Unmarshal(body, &resp)).To(Succeed())
		Expect(resp.Values).To(Equal([]float64{1, 1.5, 2.2, 3.3, 4.7, 6.8}))
	})

	It("should derive color bands as JSON", func() {
		status, body, _ := get("/api/v1/bands?value=560")
		Expect(status).To(Equal(http.StatusOK))

		var resp apiv1.BandsResponse
		Expect(json.Unmarshal(body, &resp)).To(Succeed())
		Expect(resp.Ohms).To(Equal(560.0))
		Expect(resp.Bands).To(Equal([]string{"green", "blue", "brown"}))
	})

	It("should render band swatches as SVG", func() {
		status, body, header := get("/api/v1/bands?value=560&format=svg")
		Expect(status).To(Equal(http.StatusOK))
		Expect(header.Get("Content-Type")).To(Equal("image/svg+xml"))
		Expect(string(body)).To(ContainSubstring("<svg"))
	})
})

var _ = Describe("operational endpoints", func() {
	It("should answer liveness and readiness probes", func() {
		for _, path := range []string{"/healthz", "/readyz"} {
			status, body, _ := get(path)
			Expect(status).To(Equal(http.StatusOK))
			Expect(string(body)).To(Equal("ok"))
		}
	})

	It("should expose Prometheus metrics", func() {
		searchOK(apiv1.SearchRequest{Target: "330", Mode: apiv1.ModeSeries})

		status, body, _ := get("/metrics")
		Expect(status).To(Equal(http.StatusOK))
		Expect(string(body)).To(ContainSubstring("resistor_search_searches_total"))
	})

	It("should report build information", func() {
		status, body, _ := get("/version")
		Expect(status).To(Equal(http.StatusOK))

		var resp apiv1.VersionResponse
		Expect(json.Unmarshal(body, &resp)).To(Succeed())
		Expect(resp.GoVersion).NotTo(BeEmpty())
	})
})
