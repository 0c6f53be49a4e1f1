// ABOUTME: Resets a user's conversation thread on the gateway.
// ABOUTME: Reset is best effort; failures are logged and swallowed.

package relay

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// ResetThread asks the gateway to drop the user's thread mapping so the
// next message starts a fresh conversation.
func (c *Client) ResetThread(ctx context.Context, userID string) {
	url := fmt.Sprintf("%s/api/thread/%s", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		c.logger.Error("building reset request", "error", err, "user_id", userID)
		return
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("resetting thread", "error", err, "user_id", userID)
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("reset request rejected", "status", resp.StatusCode, "user_id", userID)
	}
}
