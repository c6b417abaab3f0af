package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"invasion/internal/domain"
	"invasion/internal/leaderboard"

	"github.com/heroiclabs/nakama-common/runtime"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type brokenStore struct{}

func (brokenStore) Entries(context.Context, string) ([]domain.LeaderboardEntry, error) {
	return nil, errors.New("disk gone")
}

func (brokenStore) Submit(context.Context, string, domain.LeaderboardEntry) ([]domain.LeaderboardEntry, error) {
	return nil, errors.New("disk gone")
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := leaderboard.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	srv := httptest.NewServer(NewRouter(store, noopLogger{}))
	t.Cleanup(srv.Close)
	return srv
}

func decodeEntries(t *testing.T, resp *http.Response) []domain.LeaderboardEntry {
	t.Helper()
	defer resp.Body.Close()
	var entries []domain.LeaderboardEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return entries
}

func TestGetMissingLeaderboardIsEmpty(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/leaderboards/integers")
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing CORS header")
	}
	if entries := decodeEntries(t, resp); entries == nil || len(entries) != 0 {
		t.Fatalf("entries = %#v, want []", entries)
	}
}

func TestPostLeaderboard(t *testing.T) {
	srv := newTestServer(t)

	post := func(body string) *http.Response {
		t.Helper()
		resp, err := http.Post(srv.URL+"/leaderboards/battle", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("POST error: %v", err)
		}
		return resp
	}

	resp := post(`{"playerName":"Ada","score":650,"difficulty":"integers"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	entries := decodeEntries(t, resp)
	if len(entries) != 1 || entries[0].Rank != domain.RankSilver || entries[0].Date.IsZero() {
		t.Fatalf("entries = %+v", entries)
	}

	entries = decodeEntries(t, post(`{"playerName":"Bo","score":900,"difficulty":"integers","rank":"gold"}`))
	if len(entries) != 2 || entries[0].PlayerName != "Bo" || entries[0].Rank != domain.RankGold {
		t.Fatalf("entries = %+v", entries)
	}

	tests := []struct {
		name string
		body string
	}{
		{name: "Malformed", body: `{`},
		{name: "NoName", body: `{"score":1}`},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			resp := post(test.body)
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestInvalidCategory(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/leaderboards/Nope")
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestStoreFailure(t *testing.T) {
	srv := httptest.NewServer(NewRouter(brokenStore{}, noopLogger{}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/leaderboards/battle")
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/leaderboards/battle", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", resp.StatusCode)
	}
}
