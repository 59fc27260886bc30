package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPStore is a Store backed by the resellscan API's session registry
// endpoints, for clients that cannot reach Redis directly.
type HTTPStore struct {
	baseURL string
	token   func() string
	client  *http.Client
}

func NewHTTPStore(baseURL string, token func() string, timeout time.Duration) *HTTPStore {
	return &HTTPStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *HTTPStore) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Content-Type", "application/json")
	if s.token != nil {
		if token := s.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return s.client.Do(req)
}

func (s *HTTPStore) sessionURL(userID string) string {
	return s.baseURL + "/api/v1/sessions/" + url.PathEscape(userID)
}

func (s *HTTPStore) Get(ctx context.Context, userID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.sessionURL(userID), nil)
	if err != nil {
		return "", err
	}
	resp, err := s.do(req)
	if err != nil {
		return "", fmt.Errorf("failed to read session registration: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("session registry returned status %d", resp.StatusCode)
	}

	var payload struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode session registration: %w", err)
	}
	return payload.SessionID, nil
}

func (s *HTTPStore) Put(ctx context.Context, userID, sessionID string) error {
	body, err := json.Marshal(map[string]string{"sessionId": sessionID})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.sessionURL(userID), bytes.NewReader(body))
	if err != nil {
		return err
	}
	resp, err := s.do(req)
	if err != nil {
		return fmt.Errorf("failed to register session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("session registry returned status %d", resp.StatusCode)
	}
	return nil
}

func (s *HTTPStore) Delete(ctx context.Context, userID, sessionID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.sessionURL(userID)+"?sessionId="+url.QueryEscape(sessionID), nil)
	if err != nil {
		return err
	}
	resp, err := s.do(req)
	if err != nil {
		return fmt.Errorf("failed to unregister session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound && (resp.StatusCode < 200 || resp.StatusCode >= 300) {
		return fmt.Errorf("session registry returned status %d", resp.StatusCode)
	}
	return nil
}
