// ABOUTME: Sends a user message to the gateway chat endpoint.
// ABOUTME: Never returns an error; failures become a fixed fallback reply.

package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type chatRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// SendMessage forwards a message to the gateway and returns its reply.
// Any failure, from transport errors to malformed responses, yields the
// fixed connection-failure reply so callers always have text to show.
func (c *Client) SendMessage(ctx context.Context, userID, message string) Reply {
	body, err := json.Marshal(chatRequest{UserID: userID, Message: message})
	if err != nil {
		c.logger.Error("encoding chat request", "error", err)
		return Reply{Text: ConnectFailureText}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		c.logger.Error("building chat request", "error", err)
		return Reply{Text: ConnectFailureText}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("sending chat request", "error", err)
		return Reply{Text: ConnectFailureText}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("chat request rejected", "error", fmt.Sprintf("unexpected status %d", resp.StatusCode))
		return Reply{Text: ConnectFailureText}
	}

	var reply Reply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		c.logger.Error("decoding chat response", "error", err)
		return Reply{Text: ConnectFailureText}
	}
	return reply
}
