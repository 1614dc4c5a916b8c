// Package tactics is the client for the tactics.dev run endpoint, the remote
// service that resolves a player's action into a narrated combat round.
//
// One call to ExecuteTurn makes exactly one POST. The service wraps the turn
// result in an envelope whose result.content.value field is itself a JSON
// document encoded as a string; the client unwraps and validates it.
package tactics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"arena/internal/game"
	"arena/internal/logger"
)

// DefaultEndpoint is the production run endpoint.
const DefaultEndpoint = "https://api.tactics.dev/api/run"

const maxResponseBytes = 4 << 20

// Config holds configuration for the tactics client.
type Config struct {
	// Endpoint is the URL runs are POSTed to. Defaults to DefaultEndpoint.
	Endpoint string

	// Timeout bounds a single run when HTTPClient is nil. Defaults to 60s;
	// narration is slow.
	Timeout time.Duration

	// HTTPClient allows injecting a custom HTTP client (useful for testing).
	HTTPClient *http.Client

	// Log receives failed runs. Optional.
	Log logrus.FieldLogger
}

var _ game.Resolver = (*Client)(nil)

// Client sends turns to the tactics service. It keeps no game state and is
// safe for concurrent use by several sessions.
type Client struct {
	endpoint string
	http     *http.Client
	log      logrus.FieldLogger
}

// NewClient creates a client with the given configuration.
func NewClient(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	log := cfg.Log
	if log == nil {
		log = logger.Discard()
	}
	return &Client{endpoint: cfg.Endpoint, http: httpClient, log: log}
}

// Endpoint returns the configured run URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

type runRequest struct {
	InitialVariables initialVariables `json:"initial_variables"`
	TacticID         string           `json:"tactic_id"`
}

type initialVariables struct {
	Action       string           `json:"action"`
	UserStats    game.PlayerStats `json:"user_stats"`
	EnemyStats   game.EnemyStats  `json:"enemy_stats"`
	StoryOpening string           `json:"story_opening"`
}

func newRunRequest(st game.GameState, action string) runRequest {
	user := st.UserStats
	if user.Items == nil {
		user.Items = []string{}
	}
	return runRequest{
		InitialVariables: initialVariables{
			Action:       action,
			UserStats:    user,
			EnemyStats:   st.EnemyStats,
			StoryOpening: st.StoryOpening,
		},
		TacticID: st.TacticID,
	}
}

// ExecuteTurn asks the service to resolve action against st. It returns a
// *TransportError or *FormatError on failure and never retries.
func (c *Client) ExecuteTurn(ctx context.Context, st game.GameState, action string) (game.CombatResult, error) {
	res, err := c.run(ctx, st, action)
	if err != nil {
		c.log.WithError(err).WithField("tactic_id", st.TacticID).Warn("tactics: run failed")
		return game.CombatResult{}, err
	}
	return res, nil
}

func (c *Client) run(ctx context.Context, st game.GameState, action string) (game.CombatResult, error) {
	body, err := json.Marshal(newRunRequest(st, action))
	if err != nil {
		return game.CombatResult{}, &TransportError{Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return game.CombatResult{}, &TransportError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return game.CombatResult{}, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return game.CombatResult{}, &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return game.CombatResult{}, &TransportError{
			StatusCode: resp.StatusCode,
			Err:        errors.New(http.StatusText(resp.StatusCode)),
		}
	}
	if len(respBody) > maxResponseBytes {
		return game.CombatResult{}, &FormatError{Reason: fmt.Sprintf("response exceeds %d bytes", maxResponseBytes)}
	}

	return DecodeResult(respBody)
}
