package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String()
}

func TestStatementPath(t *testing.T) {
	tests := []struct {
		name       string
		childEmail string
		dateStart  string
		dateEnd    string
		expected   string
	}{
		{"own, no window", "", "", "", "/api/v1/acc/transactions"},
		{"own with start", "", "2024-03-15", "", "/api/v1/acc/transactions?date_start=2024-03-15"},
		{"child", "kid@example.com", "", "", "/api/v1/acc/transactions-for?child_email=kid%40example.com"},
		{
			"child with window", "kid@example.com", "2024-03-01", "2024-03-31",
			"/api/v1/acc/transactions-for?child_email=kid%40example.com&date_end=2024-03-31&date_start=2024-03-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statementPath(tt.childEmail, tt.dateStart, tt.dateEnd); got != tt.expected {
				t.Fatalf("statementPath = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestPrintJSON(t *testing.T) {
	out := captureOutput(t, func() {
		printJSON(struct {
			A int `json:"a"`
		}{A: 1})
	})

	expected := "{\n  \"a\": 1\n}\n"
	if out != expected {
		t.Fatalf("unexpected json output:\n%s", out)
	}
}

func TestDoRequestSendsToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"title":"kid@example.com"}`))
	}))
	defer server.Close()

	origURL, origToken := baseURL, token
	baseURL, token = server.URL, "test-token"
	defer func() { baseURL, token = origURL, origToken }()

	out := captureOutput(t, func() {
		if err := doRequest(http.MethodGet, "/api/v1/acc", nil); err != nil {
			t.Errorf("doRequest failed: %v", err)
		}
	})

	if gotAuth != "Bearer test-token" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if out == "" {
		t.Fatal("expected response body to be printed")
	}
}

func TestDoRequestErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	origURL := baseURL
	baseURL = server.URL
	defer func() { baseURL = origURL }()

	if err := doRequest(http.MethodGet, "/api/v1/acc", nil); err == nil {
		t.Fatal("expected error for 403 response")
	}
}
