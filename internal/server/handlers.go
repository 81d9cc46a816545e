package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/sw33tLie/moviescope/pkg/errs"
	"github.com/sw33tLie/moviescope/pkg/whttp"
)

const requestIDHeader = "X-Request-Id"

func (s *Server) handleMovies(w http.ResponseWriter, r *http.Request) {
	report, err := s.engine.Run(r.Context())
	if err != nil {
		kind := errs.KindOf(err)
		s.log.Warnf("Failed to get movie comparisons: %v", err)
		writeFailure(w, errs.HTTPStatus(kind), errs.PublicMessage(kind))
		return
	}

	s.log.Infof("Successfully returned %d movie comparisons", len(report.Comparisons))
	w.Header().Set(requestIDHeader, report.RequestID)
	writeJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Data:    toMovieComparisonResponses(report.Comparisons),
	})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "healthy",
		Checks: []healthCheck{selfCheck()},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := make([]healthCheck, 1+len(s.hosts))
	checks[0] = selfCheck()

	if s.prober != nil {
		var wg sync.WaitGroup
		for i, host := range s.hosts {
			wg.Add(1)
			go func(i int, host string) {
				defer wg.Done()
				checks[i+1] = s.probe(r.Context(), host)
			}(i, host)
		}
		wg.Wait()
	} else {
		checks = checks[:1]
	}

	res := healthResponse{Status: "healthy", Checks: checks}
	status := http.StatusOK
	for _, c := range checks {
		if c.Status != "healthy" {
			res.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			break
		}
	}
	writeJSON(w, status, res)
}

// probe treats any HTTP answer as reachable; only transport failures count.
func (s *Server) probe(ctx context.Context, host string) healthCheck {
	ctx, cancel := context.WithTimeout(ctx, s.checkTimeout)
	defer cancel()

	start := time.Now()
	_, err := s.prober.SendHTTPRequest(ctx, &whttp.WHTTPReq{Method: http.MethodGet, URL: host})
	check := healthCheck{
		Name:     host,
		Status:   "healthy",
		Duration: time.Since(start).String(),
	}
	if err != nil {
		s.log.Warnf("Health check for %s failed: %v", host, err)
		check.Status = "unhealthy"
		check.Error = "unreachable"
	}
	return check
}

func selfCheck() healthCheck {
	return healthCheck{Name: "self", Status: "healthy", Duration: "0s"}
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiResponse{Success: false, ErrorMessage: message})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
