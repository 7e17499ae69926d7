package paubox

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifyHTTPError(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantNil   bool
		permanent bool
	}{
		{name: "200 ok", status: 200, wantNil: true},
		{name: "204 no content", status: 204, wantNil: true},
		{name: "400 bad request", status: 400, body: `{"errors":["bad"]}`, permanent: true},
		{name: "401 unauthorized", status: 401, permanent: true},
		{name: "404 not found", status: 404, permanent: true},
		{name: "429 rate limited", status: 429, permanent: false},
		{name: "500 outage", status: 500, body: "upstream timeout", permanent: false},
		{name: "503 invalid key", status: 503, body: "Invalid API key", permanent: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ae := ClassifyHTTPError(tt.status, tt.body)
			if tt.wantNil {
				if ae != nil {
					t.Fatalf("expected nil, got %v", ae)
				}
				return
			}
			if ae == nil {
				t.Fatal("expected error, got nil")
			}
			if ae.StatusCode != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, ae.StatusCode)
			}
			if ae.Permanent != tt.permanent {
				t.Errorf("expected permanent=%v, got %v", tt.permanent, ae.Permanent)
			}
		})
	}
}

func TestAPIError_Message(t *testing.T) {
	ae := ClassifyHTTPError(401, "  {\"error\":\"unauthorized\"}\n")
	want := `paubox: 401 - {"error":"unauthorized"}`
	if ae.Error() != want {
		t.Errorf("expected %q, got %q", want, ae.Error())
	}

	empty := ClassifyHTTPError(502, "")
	if empty.Error() != "paubox: 502 - Bad Gateway" {
		t.Errorf("unexpected message for empty body: %q", empty.Error())
	}
}

func TestStatusCodeAndIsPermanent_Wrapped(t *testing.T) {
	err := fmt.Errorf("item 3: %w", ClassifyHTTPError(403, "forbidden"))
	if StatusCode(err) != 403 {
		t.Errorf("expected 403, got %d", StatusCode(err))
	}
	if !IsPermanent(err) {
		t.Error("expected wrapped 403 to be permanent")
	}

	plain := errors.New("dial tcp: connection refused")
	if StatusCode(plain) != 0 {
		t.Errorf("expected 0 for non-API error, got %d", StatusCode(plain))
	}
	if IsPermanent(plain) {
		t.Error("expected non-API error not to be permanent")
	}
}
