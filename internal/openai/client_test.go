package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

type staticKeys struct {
	key string
}

func (s staticKeys) APIKey(provider string) (string, bool) {
	if s.key == "" {
		return "", false
	}
	return s.key, true
}

func TestGenerateInlineImage(t *testing.T) {
	want := []byte("fake-png-payload")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", got)
		}
		fmt.Fprintf(w, `{"data":[{"b64_json":%q}]}`, base64.StdEncoding.EncodeToString(want))
	}))
	defer server.Close()

	client := NewClientWithEndpoint(staticKeys{key: "sk-test"}, server.Client(), server.URL)
	got, err := client.Generate(context.Background(), "a red fox", "1024x1024")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("image bytes mismatch")
	}
}

func TestGenerateFetchesByURL(t *testing.T) {
	want := []byte("url-fetched-image")

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/image.png", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(want)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"data":[{"url":%q}]}`, server.URL+"/image.png")
	})

	client := NewClientWithEndpoint(staticKeys{key: "sk-test"}, server.Client(), server.URL)
	got, err := client.Generate(context.Background(), "a red fox", "1024x1024")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("image bytes mismatch")
	}
}

func TestGenerateSecondaryFetchValidatesStatus(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/image.png", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"data":[{"url":%q}]}`, server.URL+"/image.png")
	})

	client := NewClientWithEndpoint(staticKeys{key: "sk-test"}, server.Client(), server.URL)
	_, err := client.Generate(context.Background(), "a red fox", "1024x1024")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError from secondary fetch, got %v", err)
	}
	if apiErr.StatusCode != http.StatusGone {
		t.Fatalf("unexpected status %d", apiErr.StatusCode)
	}
}

func TestGenerateMissingKeySkipsNetwork(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	client := NewClientWithEndpoint(staticKeys{}, server.Client(), server.URL)
	_, err := client.Generate(context.Background(), "a red fox", "1024x1024")
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("expected no network calls, got %d", calls)
	}
}

func TestGenerateRemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("server busy"))
	}))
	defer server.Close()

	client := NewClientWithEndpoint(staticKeys{key: "sk-test"}, server.Client(), server.URL)
	_, err := client.Generate(context.Background(), "a red fox", "1024x1024")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("unexpected status %d", apiErr.StatusCode)
	}
	if !strings.Contains(apiErr.Body, "server busy") {
		t.Fatalf("body not preserved: %q", apiErr.Body)
	}
}

func TestGenerateDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not-json"))
	}))
	defer server.Close()

	client := NewClientWithEndpoint(staticKeys{key: "sk-test"}, server.Client(), server.URL)
	_, err := client.Generate(context.Background(), "a red fox", "1024x1024")
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestGenerateEmptyResult(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"no items", `{"data":[]}`},
		{"item without data or url", `{"data":[{}]}`},
	}

	for _, tc := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(tc.body))
		}))

		client := NewClientWithEndpoint(staticKeys{key: "sk-test"}, server.Client(), server.URL)
		_, err := client.Generate(context.Background(), "a red fox", "1024x1024")
		if !errors.Is(err, ErrEmptyResult) {
			t.Fatalf("%s: expected ErrEmptyResult, got %v", tc.name, err)
		}
		server.Close()
	}
}

func TestGenerateTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close() // nothing is listening anymore

	client := NewClientWithEndpoint(staticKeys{key: "sk-test"}, nil, endpoint)
	_, err := client.Generate(context.Background(), "a red fox", "1024x1024")

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestGenerateInputValidation(t *testing.T) {
	client := NewClient(staticKeys{key: "sk-test"}, nil)

	if _, err := client.Generate(context.Background(), "   ", "1024x1024"); err == nil {
		t.Fatal("expected error for blank prompt")
	}
	if _, err := client.Generate(context.Background(), "a red fox", "640x480"); !errors.Is(err, ErrUnsupportedSize) {
		t.Fatalf("expected ErrUnsupportedSize, got %v", err)
	}
}

func TestSupportedSizes(t *testing.T) {
	sizes := SupportedSizes()
	if len(sizes) == 0 {
		t.Fatal("expected at least one supported size")
	}
	for _, s := range sizes {
		if !IsSupportedSize(s) {
			t.Fatalf("size %s not reported as supported", s)
		}
	}
	if IsSupportedSize("9999x9999") {
		t.Fatal("unexpected size reported as supported")
	}
}
