package e2e

import (
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2" // nolint:all
	. "github.com/onsi/gomega"    // nolint:all

	"github.com/ohmkit/resistor-search/internal/config"
	"github.com/ohmkit/resistor-search/internal/logging"
	"github.com/ohmkit/resistor-search/internal/metrics"
	"github.com/ohmkit/resistor-search/internal/server"
)

var (
	// testServer serves the full route table over a real TCP listener.
	testServer *httptest.Server
	baseURL    string
)

// setupInfrastructure assembles the service from its default configuration
// and starts it on an ephemeral port.
func setupInfrastructure() {
	By("assembling the server from the default configuration")
	cfg := config.Default()
	srv, err := server.New(cfg, logging.NewTestLogger(), metrics.New())
	Expect(err).NotTo(HaveOccurred())

	By("starting the HTTP listener")
	testServer = httptest.NewServer(srv.Handler())
	baseURL = testServer.URL
}

// teardownInfrastructure stops the listener.
func teardownInfrastructure() {
	if testServer != nil {
		testServer.Close()
	}
}
