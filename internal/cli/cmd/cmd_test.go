package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/propmarket/backend/internal/cli/config"
)

func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "Secret!1" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "Incorrect email or password."})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "a1", Path: "/"})
		http.SetCookie(w, &http.Cookie{Name: "refresh_token", Value: "r1", Path: "/"})
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"user": map[string]any{"id": "u1", "name": "Asha", "email": body["email"], "isAdmin": true}},
		})
	})
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("access_token"); err != nil || c.Value != "a1" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "Invalid or expired token."})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"user": map[string]any{"id": "u1", "name": "Asha", "email": "asha@example.com", "isAdmin": true}},
		})
	})
	mux.HandleFunc("/api/property/all", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []map[string]any{{
				"id": "p1", "property_purpose": "sale", "location": "Pune",
				"price": "4500000", "status": "approved", "createdAt": "2026-01-02T00:00:00Z",
			}},
		})
	})
	mux.HandleFunc("/api/property/admin/status/p1", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"id": "p1", "location": "Pune", "status": body["status"]},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLoginWhoamiAndModerate(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	server := fakeServer(t)

	out, err := run(t, "Secret!1\n", "--server", server.URL, "login", "--email", "asha@example.com")
	if err != nil {
		t.Fatalf("login returned error: %v", err)
	}
	if !strings.Contains(out, "Logged in as Asha") {
		t.Fatalf("unexpected login output %q", out)
	}

	saved, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() returned error: %v", err)
	}
	if saved.Session.AccessToken != "a1" || saved.Session.RefreshToken != "r1" {
		t.Fatalf("expected session cookies persisted, got %+v", saved.Session)
	}

	out, err = run(t, "", "--server", server.URL, "whoami")
	if err != nil {
		t.Fatalf("whoami returned error: %v", err)
	}
	if !strings.Contains(out, "asha@example.com") || !strings.Contains(out, "admin") {
		t.Fatalf("unexpected whoami output %q", out)
	}

	out, err = run(t, "", "--server", server.URL, "ls")
	if err != nil {
		t.Fatalf("ls returned error: %v", err)
	}
	if !strings.Contains(out, "4,500,000") || !strings.Contains(out, "Pune") {
		t.Fatalf("unexpected ls output %q", out)
	}

	out, err = run(t, "", "--server", server.URL, "approve", "p1")
	if err != nil {
		t.Fatalf("approve returned error: %v", err)
	}
	if !strings.Contains(out, "Approved Pune.") {
		t.Fatalf("unexpected approve output %q", out)
	}
}

func TestCommandsRequireLogin(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	server := fakeServer(t)

	_, err := run(t, "", "--server", server.URL, "mine")
	if err == nil || !strings.Contains(err.Error(), "propctl login") {
		t.Fatalf("expected a login hint, got %v", err)
	}
}
