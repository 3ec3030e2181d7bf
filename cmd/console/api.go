package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jwebster45206/night-watch/pkg/sim"
)

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// CreateSessionRequest matches the API request structure
type CreateSessionRequest struct {
	Difficulty string `json:"difficulty"`
}

// ActionRequest matches the API request structure
type ActionRequest struct {
	Action   string `json:"action"`
	Category string `json:"category,omitempty"`
}

func createSession(client *http.Client, baseURL string, tier string) (*sim.Snapshot, error) {
	jsonData, err := json.Marshal(CreateSessionRequest{Difficulty: tier})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/sessions",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	return parseSnapshot(resp, http.StatusCreated, "create session")
}

func getSession(client *http.Client, baseURL string, sessionID string) (*sim.Snapshot, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/sessions/%s", baseURL, sessionID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	return parseSnapshot(resp, http.StatusOK, "get session")
}

func postAction(client *http.Client, baseURL string, sessionID string, action, category string) (*sim.Snapshot, error) {
	jsonData, err := json.Marshal(ActionRequest{Action: action, Category: category})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		fmt.Sprintf("%s/v1/sessions/%s/actions", baseURL, sessionID),
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	return parseSnapshot(resp, http.StatusOK, "dispatch action")
}

func deleteSession(client *http.Client, baseURL string, sessionID string) error {
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/v1/sessions/%s", baseURL, sessionID), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}
	return nil
}

func parseSnapshot(resp *http.Response, wantStatus int, op string) (*sim.Snapshot, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to %s: %s", op, errorResp.Error)
	}

	var snap sim.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot response: %w", err)
	}
	return &snap, nil
}
