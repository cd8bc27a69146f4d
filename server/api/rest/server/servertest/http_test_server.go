package servertest

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/rostersync/rostersync/common/logger"
	"github.com/rostersync/rostersync/server/api/rest/server"
)

func HTTPTestServerFactory() server.HTTPServerFactory {
	return func(handler http.Handler, config server.HTTPServerConfig, log logger.Log) (server.APIServer, error) {
		return NewHTTPTestServer(handler, config, log)
	}
}

// HTTPTestServer is an HTTP test server that can serve admin API requests.
// The HTTPTestServer is created using the Go httptest package, and will run on a random port.
type HTTPTestServer struct {
	testServer *httptest.Server
	config     server.HTTPServerConfig
	log        logger.Log
}

func NewHTTPTestServer(
	handler http.Handler,
	config server.HTTPServerConfig,
	log logger.Log,
) (*HTTPTestServer, error) {
	testServer := httptest.NewUnstartedServer(handler)
	return &HTTPTestServer{
		testServer: testServer,
		config:     config,
		log:        log,
	}, nil
}

// Start starts listening on the test server's port.
// The server is started on a goroutine so this function returns immediately.
func (s *HTTPTestServer) Start() {
	s.testServer.Start()
	s.log.Infof("HTTP listening on URL %s", s.GetServerURL())
}

// Stop shuts down the test server.
// Shutdown should only be called once.
func (s *HTTPTestServer) Stop(ctx context.Context) error {
	s.testServer.Close()
	return nil
}

func (s *HTTPTestServer) GetServerURL() string {
	return s.testServer.URL
}

func (s *HTTPTestServer) GetHTTPServer() *http.Server {
	return s.testServer.Config
}
