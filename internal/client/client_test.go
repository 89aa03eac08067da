package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/ai-slides/internal/model"
)

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/generate", r.URL.Path)
		require.NotEmpty(t, r.Header.Get("X-Correlation-ID"))
		var req model.GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "Roadmap", req.Prompt)
		json.NewEncoder(w).Encode(model.GenerateResponse{Slides: []model.Slide{{Title: "Q1", Content: []string{"ship"}}}})
	}))
	defer srv.Close()

	slides, err := New(srv.URL+"/").Generate(context.Background(), "Roadmap")
	require.NoError(t, err)
	require.Equal(t, []model.Slide{{Title: "Q1", Content: []string{"ship"}}}, slides)
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(model.ErrorResponse{Error: "AI response was not a valid JSON format."})
	}))
	defer srv.Close()

	_, err := New(srv.URL).Generate(context.Background(), "x")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Equal(t, "AI response was not a valid JSON format.", err.Error())
}

func TestAPIError_NoBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListHistory(context.Background())
	require.EqualError(t, err, "api: 503 Service Unavailable")
}

func TestHistory(t *testing.T) {
	var saved model.SaveHistoryRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(model.ListHistoryResponse{Items: []model.HistoryItem{{ID: "b"}, {ID: "a"}}})
		case http.MethodPost:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&saved))
			json.NewEncoder(w).Encode(model.SaveHistoryResponse{SessionID: "s1", Item: model.HistoryItem{ID: "s1"}})
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	items, err := c.ListHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	resp, err := c.Save(context.Background(), model.SaveHistoryRequest{Prompt: "p"})
	require.NoError(t, err)
	require.Equal(t, "s1", resp.SessionID)
	require.Equal(t, "p", saved.Prompt)
}

func TestUploadAndExport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/upload":
			f, _, err := r.FormFile("file")
			require.NoError(t, err)
			data, _ := io.ReadAll(f)
			require.Equal(t, "deck", string(data))
			json.NewEncoder(w).Encode(model.UploadResponse{URL: "/temp_pptx/x.pptx"})
		case "/export":
			w.Header().Set("Content-Type", "application/octet-stream")
			w.Write([]byte("PK"))
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	up, err := c.Upload(context.Background(), "deck.pptx", []byte("deck"))
	require.NoError(t, err)
	require.Equal(t, "/temp_pptx/x.pptx", up.URL)

	data, err := c.Export(context.Background(), model.ExportRequest{Slides: []model.Slide{{Title: "A"}}})
	require.NoError(t, err)
	require.Equal(t, "PK", string(data))
}
