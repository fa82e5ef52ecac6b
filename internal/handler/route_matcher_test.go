package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DMarby/image-pipeline/internal/handler"
	"github.com/gorilla/mux"
)

func TestMuxRouteMatcher(t *testing.T) {
	router := mux.NewRouter()
	noop := func(w http.ResponseWriter, r *http.Request) {}
	router.HandleFunc("/id/{id}", noop)
	router.HandleFunc("/health", noop).Name("health")

	matcher := &handler.MuxRouteMatcher{Router: router}

	tests := []struct {
		Path     string
		Expected string
	}{
		{"/id/1", "/id/{id}"},
		{"/health", "health"},
		{"/nothing/here", "unknown"},
	}

	for _, test := range tests {
		if route := matcher.Match(httptest.NewRequest("GET", test.Path, nil)); route != test.Expected {
			t.Errorf("%s: wrong route %s", test.Path, route)
		}
	}
}

func TestMetrics(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/id/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rr := httptest.NewRecorder()
	handler.Metrics(router, &handler.MuxRouteMatcher{Router: router}).ServeHTTP(rr, httptest.NewRequest("GET", "/id/1", nil))

	if rr.Code != http.StatusTeapot {
		t.Errorf("wrong status code %#v", rr.Code)
	}
}
