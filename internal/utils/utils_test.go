package utils

import (
	"context"
	"io"
	"net"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

func TestServiceAddress(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"http://authz.local", "authz.local:80"},
		{"https://authz.local", "authz.local:443"},
		{"https://authz.local:8443/path", "authz.local:8443"},
		{"redis://cache:6380/0", "cache:6380"},
		{"redis://cache/0", "cache:6379"},
		{"tcp://db", "db:80"},
	}
	for _, tt := range tests {
		got, err := ServiceAddress(tt.url)
		if err != nil {
			t.Fatalf("ServiceAddress(%q): %v", tt.url, err)
		}
		if got != tt.want {
			t.Errorf("ServiceAddress(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}

	if _, err := ServiceAddress("not a url"); err == nil {
		t.Error("Expected an error for a URL without a host")
	}
}

func TestPingService(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	addr := ln.Addr().String()

	if err := PingService(context.Background(), "http://"+addr, time.Second); err != nil {
		t.Errorf("Expected a listening port to be reachable: %v", err)
	}

	ln.Close()
	if err := PingService(context.Background(), "http://"+addr, 200*time.Millisecond); err == nil {
		t.Error("Expected a closed port to be unreachable")
	}
}

func TestResponses(t *testing.T) {
	app := fiber.New()
	app.Get("/missing", func(c *fiber.Ctx) error {
		return NotFoundResponse(c, "Chapter not found")
	})
	app.Delete("/gone", func(c *fiber.Ctx) error {
		return DeletedResponse(c, 3)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/missing?x=1", nil))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	var errBody ErrorResponseStruct
	body, _ := io.ReadAll(resp.Body)
	if err := sonic.Unmarshal(body, &errBody); err != nil {
		t.Fatalf("Failed to decode error body: %v", err)
	}
	if errBody.Ok || errBody.Type != "notFound" || errBody.URL != "/missing?x=1" || errBody.Status != 404 {
		t.Errorf("unexpected error envelope: %+v", errBody)
	}

	resp, err = app.Test(httptest.NewRequest("DELETE", "/gone", nil))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	var deleted DeletedResponseStruct
	body, _ = io.ReadAll(resp.Body)
	if err := sonic.Unmarshal(body, &deleted); err != nil {
		t.Fatalf("Failed to decode delete body: %v", err)
	}
	if !deleted.Ok || deleted.AffectedRows != 3 {
		t.Errorf("unexpected delete envelope: %+v", deleted)
	}
}
