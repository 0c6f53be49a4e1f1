// ABOUTME: HTTP client used by messaging front ends to reach the relay gateway.
// ABOUTME: Degrades to fixed apologetic replies instead of surfacing transport errors.

package relay

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ConnectFailureText is returned when the gateway cannot be reached or
// answers with an unexpected status.
const ConnectFailureText = "Sorry, I'm having trouble connecting to the chatbot service."

// defaultTimeout covers the gateway's worst case: a full 60-attempt run poll.
const defaultTimeout = 90 * time.Second

// Reply mirrors the gateway's chat response body. ThreadID is nil when the
// gateway could not determine the thread or the request failed outright.
type Reply struct {
	Text     string  `json:"response"`
	ThreadID *string `json:"threadId"`
}

// Client communicates with the relay-gateway HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a gateway client for the given base URL.
func New(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  logger,
	}
}
