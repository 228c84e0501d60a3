package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	contractx "github.com/MehanazMI/tea-stall-bench/pipeline/contract"
	"github.com/MehanazMI/tea-stall-bench/pipeline/director"
	statex "github.com/MehanazMI/tea-stall-bench/pipeline/state"
)

type fakeResearcher struct {
	result contractx.ResearchResult
	err    error
}

func (f *fakeResearcher) Research(ctx context.Context, req contractx.ResearchRequest) (contractx.ResearchResult, error) {
	if f.err != nil {
		return contractx.ResearchResult{}, f.err
	}
	return f.result, nil
}

type fakeOutliner struct {
	result contractx.OutlineResult
	err    error
}

func (f *fakeOutliner) Outline(ctx context.Context, req contractx.OutlineRequest) (contractx.OutlineResult, error) {
	if f.err != nil {
		return contractx.OutlineResult{}, f.err
	}
	return f.result, nil
}

type fakeWriter struct {
	result contractx.WriteResult
	err    error
}

func (f *fakeWriter) Write(ctx context.Context, req contractx.WriteRequest) (contractx.WriteResult, error) {
	if f.err != nil {
		return contractx.WriteResult{}, f.err
	}
	return f.result, nil
}

type fakePublisher struct {
	result contractx.PublishResult
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, req contractx.PublishRequest) (contractx.PublishResult, error) {
	if f.err != nil {
		return contractx.PublishResult{}, f.err
	}
	return f.result, nil
}

func defaultOutline() *statex.Outline {
	return &statex.Outline{
		Title: "T",
		Sections: []statex.OutlineSection{
			{Heading: "Intro", KeyPoints: []string{"a"}},
		},
	}
}

func newTestServer(t *testing.T, researcher contractx.Researcher, outliner contractx.Outliner, writer contractx.Writer, publisher contractx.Publisher) *Server {
	t.Helper()

	d, err := director.New(researcher, outliner, writer)
	if err != nil {
		t.Fatalf("director.New() error = %v", err)
	}
	s, err := New(d, writer, publisher, nil, Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestPipelineEndpointCompletedRun(t *testing.T) {
	t.Parallel()

	s := newTestServer(t,
		&fakeResearcher{result: contractx.ResearchResult{ResearchData: "findings"}},
		&fakeOutliner{result: contractx.OutlineResult{Outline: defaultOutline()}},
		&fakeWriter{result: contractx.WriteResult{Title: "T", Content: "body", WordCount: 1}},
		&fakePublisher{},
	)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/pipeline", `{"topic": "AI Agents"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp PipelineResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "completed" {
		t.Fatalf("unexpected status: %q", resp.Status)
	}
	if resp.ArticleTitle != "T" || len(resp.Errors) != 0 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestPipelineEndpointDegradedRunIsStillOK(t *testing.T) {
	t.Parallel()

	s := newTestServer(t,
		&fakeResearcher{err: errors.New("search down")},
		&fakeOutliner{err: errors.New("bad json")},
		&fakeWriter{result: contractx.WriteResult{Title: "T", Content: "body", WordCount: 1}},
		&fakePublisher{},
	)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/pipeline", `{"topic": "AI Agents"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("degraded run must be 200, got %d", rec.Code)
	}

	var resp PipelineResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "completed" {
		t.Fatalf("unexpected status: %q", resp.Status)
	}
	if len(resp.Errors) != 2 {
		t.Fatalf("expected recorded stage errors, got %v", resp.Errors)
	}
}

func TestPipelineEndpointWriteFailure(t *testing.T) {
	t.Parallel()

	s := newTestServer(t,
		&fakeResearcher{result: contractx.ResearchResult{ResearchData: "findings"}},
		&fakeOutliner{result: contractx.OutlineResult{Outline: defaultOutline()}},
		&fakeWriter{err: errors.New("model unavailable")},
		&fakePublisher{},
	)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/pipeline", `{"topic": "AI Agents"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("write failure must be 500, got %d", rec.Code)
	}

	var resp PipelineResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "writing" {
		t.Fatalf("unexpected status: %q", resp.Status)
	}
	if len(resp.Errors) != 1 || !strings.HasPrefix(resp.Errors[0], "Writing failed:") {
		t.Fatalf("unexpected errors: %v", resp.Errors)
	}
}

func TestPipelineEndpointEmptyTopic(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeResearcher{}, &fakeOutliner{}, &fakeWriter{}, &fakePublisher{})

	rec := doJSON(t, s, http.MethodPost, "/api/v1/pipeline", `{"topic": "  "}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("validation failure must be 422, got %d", rec.Code)
	}
}

func TestGenerateEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeResearcher{}, &fakeOutliner{},
		&fakeWriter{result: contractx.WriteResult{Title: "T", Content: "body", WordCount: 1}},
		&fakePublisher{},
	)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/generate", `{"topic": "AI Agents"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp GenerateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "success" || resp.Title != "T" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Style != "storytelling" {
		t.Fatalf("expected default style storytelling, got %q", resp.Style)
	}
}

func TestGenerateEndpointValidationError(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeResearcher{}, &fakeOutliner{},
		&fakeWriter{err: contractx.ErrValidation},
		&fakePublisher{},
	)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/generate", `{"topic": ""}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestPublishEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeResearcher{}, &fakeOutliner{}, &fakeWriter{},
		&fakePublisher{result: contractx.PublishResult{
			Status:         "sent",
			PhoneNumber:    "+12345678900",
			MessageLength:  42,
			SentAt:         "2026-03-01T12:00:00Z",
			DeliveryMethod: "automatic",
		}},
	)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/publish",
		`{"phone_number": "+12345678900", "content": "body", "auto_send": true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp PublishResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "sent" || resp.DeliveryMethod != "automatic" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestGenerateAndPublishEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeResearcher{}, &fakeOutliner{},
		&fakeWriter{result: contractx.WriteResult{Title: "T", Content: "body", WordCount: 1}},
		&fakePublisher{result: contractx.PublishResult{
			Status:         "pending",
			PhoneNumber:    "+12345678900",
			MessageLength:  10,
			SentAt:         "pending",
			DeliveryMethod: "manual_review",
		}},
	)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/generate-and-publish",
		`{"topic": "AI Agents", "phone_number": "+12345678900"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp GenerateAndPublishResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Title != "T" || resp.DeliveryMethod != "manual_review" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeResearcher{}, &fakeOutliner{}, &fakeWriter{}, &fakePublisher{})

	rec := doJSON(t, s, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"healthy"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestStylesEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeResearcher{}, &fakeOutliner{}, &fakeWriter{}, &fakePublisher{})

	rec := doJSON(t, s, http.MethodGet, "/api/v1/styles", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, style := range []string{"technical", "storytelling"} {
		if !strings.Contains(body, style) {
			t.Fatalf("styles response missing %q: %s", style, body)
		}
	}
}

func TestRunsEndpointWithoutArchive(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeResearcher{}, &fakeOutliner{}, &fakeWriter{}, &fakePublisher{})

	rec := doJSON(t, s, http.MethodGet, "/api/v1/runs", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without archive, got %d", rec.Code)
	}
}
