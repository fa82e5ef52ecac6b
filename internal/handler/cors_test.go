package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DMarby/image-pipeline/internal/handler"
)

func TestCORS(t *testing.T) {
	tests := []struct {
		Name            string
		Method          string
		Headers         map[string]string
		ExpectedHeaders map[string]string
		ReachesHandler  bool
	}{
		{
			Name:   "sets headers for regular requests",
			Method: "GET",
			Headers: map[string]string{
				"Origin": "http://www.example.com",
			},
			ExpectedHeaders: map[string]string{
				"Access-Control-Allow-Origin":   "*",
				"Access-Control-Expose-Headers": "Picsum-Id",
			},
			ReachesHandler: true,
		},
		{
			Name:   "answers preflight requests",
			Method: "OPTIONS",
			Headers: map[string]string{
				"Origin":                        "http://www.example.com",
				"Access-Control-Request-Method": "GET",
			},
			ExpectedHeaders: map[string]string{
				"Access-Control-Allow-Origin":  "*",
				"Access-Control-Allow-Methods": "GET",
			},
		},
		{
			Name:   "rejects preflight requests for other methods",
			Method: "OPTIONS",
			Headers: map[string]string{
				"Origin":                        "http://www.example.com",
				"Access-Control-Request-Method": "POST",
			},
			ExpectedHeaders: map[string]string{
				"Access-Control-Allow-Origin":  "",
				"Access-Control-Allow-Methods": "",
			},
		},
	}

	for _, test := range tests {
		r := httptest.NewRequest(test.Method, "http://www.example.com/", nil)
		for header, value := range test.Headers {
			r.Header.Set(header, value)
		}

		reached := false
		rr := httptest.NewRecorder()
		testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
		})

		handler.CORS([]string{"Picsum-ID"}, testHandler).ServeHTTP(rr, r)

		if rr.Code >= 300 {
			t.Errorf("%s: wrong response code, %#v", test.Name, rr.Code)
			continue
		}

		if reached != test.ReachesHandler {
			t.Errorf("%s: handler reached %v", test.Name, reached)
		}

		for expectedHeader, expectedValue := range test.ExpectedHeaders {
			if headerValue := rr.Header().Get(expectedHeader); headerValue != expectedValue {
				t.Errorf("%s: wrong header value for %s, %#v", test.Name, expectedHeader, headerValue)
			}
		}
	}
}
