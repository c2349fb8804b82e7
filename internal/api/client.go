package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/wakephrase/wakephrase/internal/constants"
	"github.com/wakephrase/wakephrase/internal/models"
	"github.com/wakephrase/wakephrase/internal/session"
)

// RemoteError is a non-success response from the backend. Message carries the
// backend's error field when one was returned.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("remote error (%d)", e.Status)
}

// Client talks to the wakephrase backend. The session supplies the user
// identity; operations that need one fail with session.ErrNotLoggedIn before
// any request is made.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Session
}

func NewClient(baseURL string, sess *session.Session) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		session: sess,
	}
}

// LoginResult bundles what the backend returns on login: the identity plus
// cached profile and alarm snapshots when the server has them.
type LoginResult struct {
	UserID  string          `json:"user_id"`
	Profile *models.Profile `json:"profile,omitempty"`
	Alarms  []models.Alarm  `json:"alarms,omitempty"`
}

func (c *Client) Register(ctx context.Context, email, password string) (string, error) {
	var out struct {
		UserID string `json:"user_id"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/register", nil, body, &out); err != nil {
		return "", err
	}
	if out.UserID == "" {
		return "", &RemoteError{Status: http.StatusOK, Message: "no user ID received"}
	}
	return out.UserID, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out LoginResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/login", nil, body, &out); err != nil {
		return LoginResult{}, err
	}
	if out.UserID == "" {
		return LoginResult{}, &RemoteError{Status: http.StatusOK, Message: "no user ID received"}
	}
	return out, nil
}

func (c *Client) SaveProfile(ctx context.Context, p models.Profile) error {
	userID, err := c.session.Current()
	if err != nil {
		return err
	}
	body := struct {
		UserID string `json:"user_id"`
		models.Profile
	}{UserID: userID, Profile: p}
	return c.do(ctx, http.MethodPost, "/profile", nil, body, nil)
}

func (c *Client) FetchAlarms(ctx context.Context) ([]models.Alarm, error) {
	userID, err := c.session.Current()
	if err != nil {
		return nil, err
	}
	var out struct {
		Alarms []models.Alarm `json:"alarms"`
	}
	q := url.Values{"user_id": {userID}}
	if err := c.do(ctx, http.MethodGet, "/alarms", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Alarms, nil
}

// UpsertAlarm creates or updates the remote copy and returns the
// authoritative id, server-assigned on create.
func (c *Client) UpsertAlarm(ctx context.Context, alarm models.Alarm) (string, error) {
	userID, err := c.session.Current()
	if err != nil {
		return "", err
	}
	body := struct {
		UserID string `json:"user_id"`
		models.Alarm
	}{UserID: userID, Alarm: alarm}
	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/alarms", nil, body, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return alarm.ID, nil
	}
	return out.ID, nil
}

func (c *Client) DeleteAlarm(ctx context.Context, id string) error {
	userID, err := c.session.Current()
	if err != nil {
		return err
	}
	q := url.Values{"user_id": {userID}}
	return c.do(ctx, http.MethodDelete, "/alarms/"+url.PathEscape(id), q, nil, nil)
}

// GeneratePhrase asks the backend for a challenge phrase for the given ring
// action, personalized to the current user's profile.
func (c *Client) GeneratePhrase(ctx context.Context, action constants.Action) (string, error) {
	userID, err := c.session.Current()
	if err != nil {
		return "", err
	}
	var out struct {
		Phrase string `json:"phrase"`
	}
	q := url.Values{"user_id": {userID}, "action": {string(action)}}
	if err := c.do(ctx, http.MethodGet, "/phrase", q, nil, &out); err != nil {
		return "", err
	}
	if out.Phrase == "" {
		return "", &RemoteError{Status: http.StatusOK, Message: "no phrase generated"}
	}
	return out.Phrase, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		remote := &RemoteError{Status: res.StatusCode}
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &e) == nil {
			remote.Message = e.Error
		}
		return remote
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
