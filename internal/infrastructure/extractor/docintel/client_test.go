package docintel

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestExtractFieldsPostsChunkAndDecodesFields(t *testing.T) {
	var capturedContentType string
	var capturedBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/extract" {
			http.NotFound(w, r)
			return
		}
		capturedContentType = r.Header.Get("Content-Type")
		capturedBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"fields":{"Name":"John Smith","Date of Birth":"1980-01-01"}}`))
	}))
	defer server.Close()

	client := New(server.URL, 0, nil)
	fields, err := client.ExtractFields(context.Background(), []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("ExtractFields() error = %v", err)
	}
	if capturedContentType != "application/pdf" {
		t.Fatalf("expected pdf content type, got %q", capturedContentType)
	}
	if string(capturedBody) != "%PDF-1.4" {
		t.Fatalf("expected raw chunk bytes, got %q", capturedBody)
	}
	if fields["Name"] != "John Smith" || fields["Date of Birth"] != "1980-01-01" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestExtractFieldsIncludesHTTPBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model warming up", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(server.URL, 0, nil)
	_, err := client.ExtractFields(context.Background(), []byte("x"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "model warming up") {
		t.Fatalf("expected response body in error, got %v", err)
	}
}

func TestClassifyExtractError(t *testing.T) {
	retryable := classifyExtractError(&HTTPStatusError{Operation: "extract", StatusCode: http.StatusServiceUnavailable})
	if !retryable.Retryable || !retryable.RecordFailure {
		t.Fatalf("503 must be retryable and recorded, got %+v", retryable)
	}

	clientErr := classifyExtractError(&HTTPStatusError{Operation: "extract", StatusCode: http.StatusBadRequest})
	if clientErr.Retryable || clientErr.RecordFailure {
		t.Fatalf("400 must not be retried or recorded, got %+v", clientErr)
	}

	canceled := classifyExtractError(context.Canceled)
	if canceled.Retryable || canceled.RecordFailure {
		t.Fatalf("cancellation must not be retried or recorded, got %+v", canceled)
	}

	unknown := classifyExtractError(errors.New("boom"))
	if unknown.Retryable || !unknown.RecordFailure {
		t.Fatalf("unknown errors record a failure without retrying, got %+v", unknown)
	}
}
