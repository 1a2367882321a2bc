package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"
)

// AssertStatus verifies the HTTP status code
func AssertStatus(t testing.TB, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		body, _ := io.ReadAll(resp.Body)
		t.Errorf("Expected status %d, got %d: %s", expected, resp.StatusCode, string(body))
	}
}

// ParseJSON decodes the response body into the target
func ParseJSON(t testing.TB, resp *http.Response, target interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	defer resp.Body.Close()

	if err := json.Unmarshal(body, target); err != nil {
		t.Fatalf("Failed to decode JSON: %v. Body: %s", err, string(body))
	}
}

// AssertErrorEnvelope verifies the JSON error envelope carries status and type
func AssertErrorEnvelope(t testing.TB, resp *http.Response, status int, errorType string) {
	t.Helper()
	AssertStatus(t, resp, status)

	var envelope struct {
		Status int    `json:"status"`
		OK     bool   `json:"ok"`
		Type   string `json:"type"`
	}
	ParseJSON(t, resp, &envelope)
	if envelope.Status != status || envelope.OK || envelope.Type != errorType {
		t.Errorf("Expected error envelope {status:%d ok:false type:%s}, got %+v", status, errorType, envelope)
	}
}
