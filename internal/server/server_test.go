package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopassist/internal/catalog"
	"shopassist/internal/gateway"
)

// stubAI implements AI with canned answers, except chat which mirrors the
// gateway's validation contract.
type stubAI struct{}

func (stubAI) Chat(ctx context.Context, in gateway.ChatInput) (string, error) {
	if in.Message == "" {
		return "", &gateway.ValidationError{Field: "message", Reason: "must not be empty"}
	}
	return "canned reply", nil
}

func (stubAI) Recommend(ctx context.Context, rc gateway.RecommendationContext, items []catalog.Product) ([]string, error) {
	return []string{"nb001", "au001"}, nil
}

func (stubAI) Search(ctx context.Context, query string, items []catalog.Product) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &gateway.ValidationError{Field: "query", Reason: "must not be empty"}
	}
	return []string{"nb001"}, nil
}

func (stubAI) Describe(ctx context.Context, in gateway.DescribeInput) (gateway.GeneratedText, error) {
	return gateway.GeneratedText{Body: "a fine product"}, nil
}

func (stubAI) Sentiment(ctx context.Context, reviewText string) (gateway.SentimentResult, error) {
	return gateway.SentimentResult{Label: gateway.SentimentPositive, Confidence: 0.9}, nil
}

func newTestServer() *httptest.Server {
	s := New(zerolog.Nop(), stubAI{}, catalog.Seed(), nil)
	return httptest.NewServer(s.Router())
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func TestHealthz(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestChatEndpoint(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/v1/chat", `{"message":"do you sell laptops?"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "canned reply", body["reply"])
}

func TestChatValidationMapsTo400(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/v1/chat", `{"message":""}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMalformedJSONMapsTo400(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/v1/sentiment", `{not json`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRecommendationsEndpoint(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/v1/recommendations", `{"interests":["audio"]}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		ProductIDs []string `json:"product_ids"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"nb001", "au001"}, body.ProductIDs)
}

func TestSentimentEndpointShape(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/v1/sentiment", `{"review_text":"love it, works perfectly"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Sentiment  string  `json:"sentiment"`
		Confidence float64 `json:"confidence"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "positive", body.Sentiment)
	assert.InDelta(t, 0.9, body.Confidence, 1e-9)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/chat")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
