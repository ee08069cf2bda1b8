package acceptance

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

func (s *Suite) TestHealthCheck() {
	resp, err := http.Get(s.BaseURL + "/health")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var body map[string]string
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.Equal("pass", body["status"])
}

func (s *Suite) TestMetricsEndpoint() {
	resp, err := http.Get(s.BaseURL + "/metrics")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	payload, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.NotEmpty(payload)
}

func (s *Suite) TestUnknownRoute() {
	resp, err := http.Get(s.BaseURL + "/api/v1/no-such-thing")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusNotFound, resp.StatusCode)

	var body map[string]string
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.Equal("fail", body["status"])
	s.True(strings.Contains(body["message"], "/api/v1/no-such-thing"))
}
