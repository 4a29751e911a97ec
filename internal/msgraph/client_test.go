package msgraph_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/Tiliavir/daily-work-journal/internal/msgraph"
)

func TestGetCalendarView_FollowsNextLink(t *testing.T) {
	var prefer string
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/me/calendarView":
			prefer = r.Header.Get("Prefer")
			if got := r.URL.Query().Get("startDateTime"); got != "2026-02-27T00:00:00Z" {
				t.Errorf("startDateTime = %q", got)
			}
			fmt.Fprintf(w, `{"value":[{"id":"a","subject":"One"}],"@odata.nextLink":"%s/page2"}`, srv.URL)
		case "/page2":
			fmt.Fprint(w, `{"value":[{"id":"b","subject":"Two","attendees":[{"emailAddress":{"name":"Ada"},"type":"required"}]}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := msgraph.NewClientWithHTTP(srv.Client(), srv.URL)
	from := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)
	events, err := c.GetCalendarView(context.Background(), from, from.AddDate(0, 0, 1), "Europe/Berlin")
	if err != nil {
		t.Fatalf("GetCalendarView: %v", err)
	}
	if len(events) != 2 || events[0].ID != "a" || events[1].ID != "b" {
		t.Fatalf("events = %+v", events)
	}
	if len(events[1].Attendees) != 1 || events[1].Attendees[0].EmailAddress.Name != "Ada" {
		t.Errorf("attendees = %+v", events[1].Attendees)
	}
	if prefer != `outlook.timezone="Europe/Berlin"` {
		t.Errorf("Prefer = %q", prefer)
	}
}

func TestGetCalendarView_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"code":"InvalidAuthenticationToken","message":"Access token has expired."}}`)
	}))
	defer srv.Close()

	c := msgraph.NewClientWithHTTP(srv.Client(), srv.URL)
	_, err := c.GetCalendarView(context.Background(), time.Now(), time.Now(), "")
	var ge *msgraph.GraphError
	if !errors.As(err, &ge) {
		t.Fatalf("err = %v, want *GraphError", err)
	}
	if ge.Status != http.StatusUnauthorized || ge.Code != "InvalidAuthenticationToken" {
		t.Errorf("GraphError = %+v", ge)
	}
}

func TestGetCalendarView_PlainErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := msgraph.NewClientWithHTTP(srv.Client(), srv.URL)
	_, err := c.GetCalendarView(context.Background(), time.Now(), time.Now(), "")
	var ge *msgraph.GraphError
	if !errors.As(err, &ge) || ge.Message != "upstream unavailable" {
		t.Errorf("err = %v, want GraphError with the body as message", err)
	}
}

func TestTokenFile(t *testing.T) {
	f := msgraph.TokenFile{Path: filepath.Join(t.TempDir(), "auth", "tokens.json")}

	tok, err := f.Load()
	if err != nil || tok != nil {
		t.Fatalf("Load on missing file = %v, %v; want nil, nil", tok, err)
	}

	want := &oauth2.Token{AccessToken: "a", RefreshToken: "r", Expiry: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	if err := f.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := f.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.AccessToken != "a" || got.RefreshToken != "r" || !got.Expiry.Equal(want.Expiry) {
		t.Errorf("Load = %+v", got)
	}
}

func TestAuthenticate_UsesValidSavedToken(t *testing.T) {
	f := msgraph.TokenFile{Path: filepath.Join(t.TempDir(), "tokens.json")}
	saved := &oauth2.Token{AccessToken: "still-good", Expiry: time.Now().Add(time.Hour)}
	if err := f.Save(saved); err != nil {
		t.Fatalf("Save: %v", err)
	}

	cfg := msgraph.OAuth2Config("common", "client")
	tok, err := msgraph.Authenticate(context.Background(), cfg, f, nil)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if tok.AccessToken != "still-good" {
		t.Errorf("AccessToken = %q", tok.AccessToken)
	}
}
