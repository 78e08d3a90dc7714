package codec

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"messages":[{"role":"user","content":"hi"}],"extra":1}`))

	var body struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := ParseJSON(r, &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(body.Messages) != 1 || body.Messages[0].Content != "hi" {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestParseJSONEmptyBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/chat", strings.NewReader(""))

	var v map[string]any
	err := ParseJSON(r, &v)
	if !errors.Is(err, ErrEmptyBody) {
		t.Fatalf("expected ErrEmptyBody, got %v", err)
	}
}

func TestParseJSONMalformed(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/chat", strings.NewReader("{"))

	var v map[string]any
	if err := ParseJSON(r, &v); err == nil {
		t.Fatal("expected error for malformed body")
	}
}

func TestWriteJSON(t *testing.T) {
	recorder := httptest.NewRecorder()
	if err := WriteJSON(recorder, http.StatusCreated, map[string]int{"total": 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := recorder.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	if res.StatusCode != http.StatusCreated {
		t.Errorf("expected 201, got %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("expected json content type, got %s", ct)
	}
	if strings.TrimSpace(string(body)) != `{"total":3}` {
		t.Errorf("unexpected body %s", body)
	}
}

func TestWriteJSONError(t *testing.T) {
	recorder := httptest.NewRecorder()
	WriteJSONError(recorder, http.StatusBadRequest, "메시지가 필요합니다.")

	res := recorder.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	var response ErrorResponse
	if err := json.Unmarshal(body, &response); err != nil {
		t.Fatalf("failed to unmarshal error response: %v", err)
	}
	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", res.StatusCode)
	}
	if response.Error != "메시지가 필요합니다." {
		t.Errorf("unexpected error message %q", response.Error)
	}
}

func TestWriteJSONErrorDefaultMessage(t *testing.T) {
	recorder := httptest.NewRecorder()
	WriteJSONError(recorder, http.StatusNotFound, "")

	var response ErrorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal error response: %v", err)
	}
	if response.Error != "Not Found" {
		t.Errorf("expected 'Not Found', got %q", response.Error)
	}
}
