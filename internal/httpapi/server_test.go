package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tutiful/papergen/internal/paper"
	"github.com/tutiful/papergen/internal/service"
)

type stubService struct {
	paper *paper.Paper
	err   error
	last  service.Request
}

func (s *stubService) GeneratePaper(_ context.Context, req service.Request) (*paper.Paper, error) {
	s.last = req
	return s.paper, s.err
}

func (s *stubService) Topics() []string {
	return []string{"Algebra", "Fractions"}
}

func newTestServer(svc PaperService) *httptest.Server {
	return httptest.NewServer(New(svc, nil, nil).Router())
}

func TestGeneratePaperEndpoint(t *testing.T) {
	stub := &stubService{paper: &paper.Paper{
		Title:          "Test Paper",
		TotalQuestions: 1,
		Questions: []paper.Question{{
			ID: "q1", Topic: "Fractions", Text: "How many?",
			Type: paper.OpenEnded, CorrectIndex: -1, Marks: 4,
		}},
	}}
	ts := newTestServer(stub)
	defer ts.Close()

	body := `{"subject": "math", "grade": "p6", "topics": ["Fractions"], "question_count": 1}`
	resp, err := http.Post(ts.URL+"/v1/papers", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /v1/papers: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var got paper.Paper
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Title != "Test Paper" || got.TotalQuestions != 1 {
		t.Errorf("paper = %+v", got)
	}
	if stub.last.Subject != "math" || stub.last.Count != 1 {
		t.Errorf("service request = %+v", stub.last)
	}
}

func TestGeneratePaperBadJSON(t *testing.T) {
	ts := newTestServer(&stubService{})
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/v1/papers", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGeneratePaperErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unsupported subject", service.ErrUnsupportedSubject, http.StatusUnprocessableEntity},
		{"unsupported grade", service.ErrUnsupportedGrade, http.StatusUnprocessableEntity},
		{"no topics", service.ErrNoTopicsAvailable, http.StatusUnprocessableEntity},
		{"generation failed", service.ErrGenerationFailed, http.StatusBadGateway},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ts := newTestServer(&stubService{err: c.err})
			defer ts.Close()

			resp, err := http.Post(ts.URL+"/v1/papers", "application/json", strings.NewReader(`{}`))
			if err != nil {
				t.Fatalf("POST: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != c.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, c.want)
			}
			var body errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if body.Error == "" {
				t.Error("error body has no message")
			}
		})
	}
}

func TestTopicsEndpoint(t *testing.T) {
	ts := newTestServer(&stubService{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/topics")
	if err != nil {
		t.Fatalf("GET /v1/topics: %v", err)
	}
	defer resp.Body.Close()

	var body map[string][]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body["topics"]) != 2 {
		t.Errorf("topics = %v, want 2", body["topics"])
	}
}

func TestHealthWithoutOracle(t *testing.T) {
	ts := newTestServer(&stubService{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	var body healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" || body.Oracle != "unconfigured" {
		t.Errorf("health = %+v", body)
	}
}
