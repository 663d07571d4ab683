package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/salonmost/booking-api/pkg/config"
)

// Event is one busy interval from the linked calendar. All-day entries have
// no clock component and are skipped by the sync layer.
type Event struct {
	ID        string
	Summary   string
	Status    string
	Start     time.Time
	End       time.Time
	AllDay    bool
	Organizer string
	Attendees []string
}

// Client talks to the Google Calendar v3 REST API using an offline refresh
// token. Access tokens are cached until shortly before expiry.
type Client struct {
	cfg  config.CalendarConfig
	http *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient constructs a calendar client from configuration.
func NewClient(cfg config.CalendarConfig) *Client {
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type eventsResponse struct {
	Items         []eventItem `json:"items"`
	NextPageToken string      `json:"nextPageToken"`
}

type eventItem struct {
	ID        string         `json:"id"`
	Status    string         `json:"status"`
	Summary   string         `json:"summary"`
	Start     eventTime      `json:"start"`
	End       eventTime      `json:"end"`
	Organizer *eventContact  `json:"organizer"`
	Attendees []eventContact `json:"attendees"`
}

type eventTime struct {
	DateTime string `json:"dateTime"`
	Date     string `json:"date"`
}

type eventContact struct {
	Email string `json:"email"`
}

// Events lists calendar entries between now and now+lookahead, expanded to
// single occurrences and ordered by start time.
func (c *Client) Events(ctx context.Context) ([]Event, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	lookahead := c.cfg.Lookahead
	if lookahead <= 0 {
		lookahead = 7 * 24 * time.Hour
	}

	var events []Event
	pageToken := ""
	for {
		page, next, err := c.eventsPage(ctx, token, now, now.Add(lookahead), pageToken)
		if err != nil {
			return nil, err
		}
		events = append(events, page...)
		if next == "" {
			return events, nil
		}
		pageToken = next
	}
}

func (c *Client) eventsPage(ctx context.Context, token string, timeMin, timeMax time.Time, pageToken string) ([]Event, string, error) {
	endpoint := fmt.Sprintf("%s/calendars/%s/events", strings.TrimSuffix(c.cfg.EventsBaseURL, "/"), url.PathEscape(c.cfg.CalendarID))

	query := url.Values{}
	query.Set("timeMin", timeMin.Format(time.RFC3339))
	query.Set("timeMax", timeMax.Format(time.RFC3339))
	query.Set("singleEvents", "true")
	query.Set("orderBy", "startTime")
	if pageToken != "" {
		query.Set("pageToken", pageToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("calendar events request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, "", fmt.Errorf("calendar events request: status %d: %s", resp.StatusCode, string(body))
	}

	var parsed eventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, "", fmt.Errorf("calendar events decode: %w", err)
	}

	events := make([]Event, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		event, ok := item.toEvent()
		if !ok {
			continue
		}
		events = append(events, event)
	}
	return events, parsed.NextPageToken, nil
}

func (i eventItem) toEvent() (Event, bool) {
	event := Event{
		ID:      i.ID,
		Summary: i.Summary,
		Status:  i.Status,
	}
	if i.Organizer != nil {
		event.Organizer = i.Organizer.Email
	}
	for _, attendee := range i.Attendees {
		if attendee.Email != "" {
			event.Attendees = append(event.Attendees, attendee.Email)
		}
	}

	if i.Start.DateTime == "" || i.End.DateTime == "" {
		event.AllDay = i.Start.Date != ""
		return event, event.AllDay
	}

	start, err := time.Parse(time.RFC3339, i.Start.DateTime)
	if err != nil {
		return Event{}, false
	}
	end, err := time.Parse(time.RFC3339, i.End.DateTime)
	if err != nil {
		return Event{}, false
	}
	event.Start = start
	event.End = end
	return event, true
}

// token returns a valid access token, refreshing when the cached one is
// within a minute of expiry.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-time.Minute)) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("refresh_token", c.cfg.RefreshToken)
	form.Set("grant_type", "refresh_token")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("calendar token refresh: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("calendar token refresh: status %d: %s", resp.StatusCode, string(body))
	}

	var parsed tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("calendar token decode: %w", err)
	}
	if parsed.AccessToken == "" {
		return "", fmt.Errorf("calendar token refresh: empty access token")
	}

	c.accessToken = parsed.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(parsed.ExpiresIn) * time.Second)
	return c.accessToken, nil
}
