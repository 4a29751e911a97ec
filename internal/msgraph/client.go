// Package msgraph imports Outlook calendar events from Microsoft Graph into the
// meetings store.
package msgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/Tiliavir/daily-work-journal/internal/logs"
)

// GraphBaseURL is the Microsoft Graph v1.0 endpoint.
const GraphBaseURL = "https://graph.microsoft.com/v1.0"

// Client reads calendar data from Graph with an OAuth2 authorized HTTP client.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient returns a Graph client whose token refreshes are written back to
// tokens.
func NewClient(ctx context.Context, tok *oauth2.Token, cfg *oauth2.Config, tokens TokenFile) *Client {
	ts := &savingTokenSource{ts: cfg.TokenSource(ctx, tok), tokens: tokens, last: tok.AccessToken}
	return NewClientWithHTTP(oauth2.NewClient(ctx, ts), GraphBaseURL)
}

// NewClientWithHTTP returns a client using hc against baseURL.
func NewClientWithHTTP(hc *http.Client, baseURL string) *Client {
	return &Client{httpClient: hc, baseURL: baseURL}
}

// savingTokenSource persists a token whenever the underlying source refreshed it.
type savingTokenSource struct {
	ts     oauth2.TokenSource
	tokens TokenFile
	last   string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.ts.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		if err := s.tokens.Save(tok); err != nil {
			logs.Logger.Printf("warning: could not save refreshed token: %v", err)
		}
	}
	return tok, nil
}

// DateTimeZone is a Graph dateTimeTimeZone value.
type DateTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// EmailAddress identifies an attendee.
type EmailAddress struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Attendee is an event participant.
type Attendee struct {
	EmailAddress EmailAddress `json:"emailAddress"`
	Type         string       `json:"type"` // "required", "optional", "resource"
}

// CalendarEvent is the subset of a Graph event that sync reads.
type CalendarEvent struct {
	ID          string       `json:"id"`
	Subject     string       `json:"subject"`
	BodyPreview string       `json:"bodyPreview"`
	IsAllDay    bool         `json:"isAllDay"`
	IsCancelled bool         `json:"isCancelled"`
	Sensitivity string       `json:"sensitivity"` // "normal", "personal", "private", "confidential"
	ShowAs      string       `json:"showAs"`      // "free", "tentative", "busy", "oof", "workingElsewhere", "unknown"
	Start       DateTimeZone `json:"start"`
	End         DateTimeZone `json:"end"`
	Location    struct {
		DisplayName string `json:"displayName"`
	} `json:"location"`
	Attendees []Attendee `json:"attendees"`
}

// calendarViewResponse is one page of a calendarView listing.
type calendarViewResponse struct {
	Value    []CalendarEvent `json:"value"`
	NextLink string          `json:"@odata.nextLink"`
}

// GetCalendarView fetches calendar events in [from, to) from the calendarView
// endpoint, following pagination. timezone is an IANA name; "" means UTC.
func (c *Client) GetCalendarView(ctx context.Context, from, to time.Time, timezone string) ([]CalendarEvent, error) {
	endpoint := fmt.Sprintf("%s/me/calendarView?startDateTime=%s&endDateTime=%s&$top=100",
		c.baseURL,
		url.QueryEscape(from.UTC().Format(time.RFC3339)),
		url.QueryEscape(to.UTC().Format(time.RFC3339)),
	)

	var events []CalendarEvent
	for next := endpoint; next != ""; {
		page, err := c.getPage(ctx, next, timezone)
		if err != nil {
			return nil, err
		}
		events = append(events, page.Value...)
		next = page.NextLink
	}
	return events, nil
}

// GraphError is a non-2xx response from Graph.
type GraphError struct {
	Status  int
	Code    string
	Message string
}

func (e *GraphError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("graph: HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("graph: HTTP %d %s: %s", e.Status, e.Code, e.Message)
}

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

func (c *Client) getPage(ctx context.Context, endpoint, timezone string) (*calendarViewResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("calendarView request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if timezone != "" {
		req.Header.Set("Prefer", fmt.Sprintf(`outlook.timezone="%s"`, timezone))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendarView: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, decodeGraphError(resp)
	}
	var page calendarViewResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("calendarView: decoding page: %w", err)
	}
	return &page, nil
}

func decodeGraphError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	ge := &GraphError{Status: resp.StatusCode}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &envelope) == nil && envelope.Error.Code != "" {
		ge.Code, ge.Message = envelope.Error.Code, envelope.Error.Message
	} else {
		ge.Message = strings.TrimSpace(string(body))
	}
	return ge
}
