package readproxy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client reads vault state over the daemon's HTTP surface. Every call goes to
// the engine; nothing is cached, so a stale answer is never served silently.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// EntriesBatch mirrors the engine's parallel-sequence batch read.
type EntriesBatch struct {
	Senders    []string
	Amounts    []uint64
	Timestamps []time.Time
	Count      int
}

func (c *Client) Count(ctx context.Context, vaultAddress string) (int, error) {
	var payload struct {
		Count int `json:"count"`
	}
	err := c.get(ctx, fmt.Sprintf("/vaults/%s/count", vaultAddress), &payload)
	return payload.Count, err
}

func (c *Client) HeldBalance(ctx context.Context, vaultAddress string) (uint64, error) {
	var payload struct {
		Balance uint64 `json:"balance"`
	}
	err := c.get(ctx, fmt.Sprintf("/vaults/%s/balance", vaultAddress), &payload)
	return payload.Balance, err
}

func (c *Client) Entries(ctx context.Context, vaultAddress string, offset, limit int) (EntriesBatch, error) {
	var payload struct {
		Senders    []string `json:"senders"`
		Amounts    []uint64 `json:"amounts"`
		Timestamps []string `json:"timestamps"`
		Count      int      `json:"count"`
	}
	path := fmt.Sprintf("/vaults/%s/entries?offset=%d&limit=%d", vaultAddress, offset, limit)
	if err := c.get(ctx, path, &payload); err != nil {
		return EntriesBatch{}, err
	}

	batch := EntriesBatch{
		Senders:    payload.Senders,
		Amounts:    payload.Amounts,
		Timestamps: make([]time.Time, len(payload.Timestamps)),
		Count:      payload.Count,
	}
	for i, raw := range payload.Timestamps {
		ts, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return EntriesBatch{}, fmt.Errorf("parse entry timestamp %q: %w", raw, err)
		}
		batch.Timestamps[i] = ts
	}
	return batch, nil
}

func (c *Client) get(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("engine read %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		if payload.Error == "" {
			payload.Error = resp.Status
		}
		return fmt.Errorf("engine read %s: %s", path, payload.Error)
	}

	return json.NewDecoder(resp.Body).Decode(dst)
}
