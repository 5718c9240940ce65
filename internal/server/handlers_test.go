package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/claude/limber/internal/catalog"
	"github.com/claude/limber/internal/settings"
)

// TestHandleMeDefault verifies the /api/v1/me endpoint returns the dev user
// identity when no Tailscale middleware is active.
func TestHandleMeDefault(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	ctx := context.WithValue(req.Context(), userInfoKey, UserInfo{Login: "local", DisplayName: "Local Dev User"})
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	s.handleMe(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var info UserInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if info.Login != "local" {
		t.Errorf("login = %q, want %q", info.Login, "local")
	}
	if info.DisplayName != "Local Dev User" {
		t.Errorf("displayName = %q, want %q", info.DisplayName, "Local Dev User")
	}
}

// TestHandleMeTailscaleUser verifies the /api/v1/me endpoint returns the
// Tailscale user identity when set in context.
func TestHandleMeTailscaleUser(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	ctx := context.WithValue(req.Context(), userInfoKey, UserInfo{Login: "alice@example.com", DisplayName: "Alice"})
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	s.handleMe(rec, req)

	var info UserInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if info.Login != "alice@example.com" {
		t.Errorf("login = %q, want %q", info.Login, "alice@example.com")
	}
	if info.DisplayName != "Alice" {
		t.Errorf("displayName = %q, want %q", info.DisplayName, "Alice")
	}
}

func testCatalog() []catalog.Stretch {
	return []catalog.Stretch{
		{ID: "neck-roll", Name: "Neck Roll", Areas: []catalog.Area{catalog.AreaNeck}, Position: catalog.PositionSitting, Seconds: 30, HasDemo: true},
		{ID: "shoulder-shrug", Name: "Shoulder Shrug", Areas: []catalog.Area{catalog.AreaShoulders}, Position: catalog.PositionStanding, Seconds: 30, HasDemo: true},
		{ID: "cat-cow", Name: "Cat Cow", Areas: []catalog.Area{catalog.AreaLowerBack}, Position: catalog.PositionLying, Seconds: 45, HasDemo: true},
	}
}

// TestHandleListStretches verifies catalog browsing with area and position filters.
func TestHandleListStretches(t *testing.T) {
	s := &Server{catalog: testCatalog()}

	cases := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{"no filter", "", []string{"neck-roll", "shoulder-shrug", "cat-cow"}},
		{"area filter", "?area=Neck", []string{"neck-roll"}},
		{"position filter", "?position=Standing", []string{"shoulder-shrug"}},
		{"no match", "?area=Wrists", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/stretches"+tc.query, nil)
			rec := httptest.NewRecorder()

			s.handleListStretches(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			var got []catalog.Stretch
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if len(got) != len(tc.wantIDs) {
				t.Fatalf("got %d stretches, want %d", len(got), len(tc.wantIDs))
			}
			for i, id := range tc.wantIDs {
				if got[i].ID != id {
					t.Errorf("stretch[%d].ID = %q, want %q", i, got[i].ID, id)
				}
			}
		})
	}
}

// TestTransitionSettingsRoundTrip verifies the GET and PUT transition setting
// handlers against a real store.
func TestTransitionSettingsRoundTrip(t *testing.T) {
	st, err := settings.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	s := &Server{settings: st}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/settings/transition", nil)
	rec := httptest.NewRecorder()
	s.handleGetTransition(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got map[string]int
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if got["transitionSeconds"] != settings.DefaultTransitionSeconds {
		t.Errorf("transitionSeconds = %d, want default %d", got["transitionSeconds"], settings.DefaultTransitionSeconds)
	}

	req = httptest.NewRequest(http.MethodPut, "/api/v1/settings/transition", strings.NewReader(`{"transitionSeconds": 8}`))
	rec = httptest.NewRecorder()
	s.handleSetTransition(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/settings/transition", nil)
	rec = httptest.NewRecorder()
	s.handleGetTransition(rec, req)

	got = nil
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if got["transitionSeconds"] != 8 {
		t.Errorf("transitionSeconds after PUT = %d, want 8", got["transitionSeconds"])
	}
}

// TestSetTransitionRejectsNegative verifies that a negative transition
// duration is refused with a 400.
func TestSetTransitionRejectsNegative(t *testing.T) {
	st, err := settings.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	s := &Server{settings: st}

	req := httptest.NewRequest(http.MethodPut, "/api/v1/settings/transition", strings.NewReader(`{"transitionSeconds": -2}`))
	rec := httptest.NewRecorder()
	s.handleSetTransition(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestRouterStretches verifies the stretches route end to end through the
// router with the dev identity.
func TestRouterStretches(t *testing.T) {
	s := New(nil, nil, nil, testCatalog(), "key", slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stretches?area=Neck", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got []catalog.Stretch
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "neck-roll" {
		t.Errorf("got %v, want single neck-roll", got)
	}
}

// TestRouterPremiumRequiresKey verifies that the premium endpoint is rejected
// without the API key before any handler logic runs.
func TestRouterPremiumRequiresKey(t *testing.T) {
	s := New(nil, nil, nil, nil, "secret", slog.Default())

	req := httptest.NewRequest(http.MethodPut, "/api/v1/me/premium", strings.NewReader(`{"premium": true}`))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
