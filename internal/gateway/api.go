// ABOUTME: HTTP API handlers for the relay gateway chat endpoints.
// ABOUTME: Implements chat, thread reset, and health routes with CORS support.

package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// ChatRequest is the JSON body for POST /api/chat.
type ChatRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// ChatResponse is the JSON response for POST /api/chat. ThreadID is null
// when the pipeline failed before a thread could be established.
type ChatResponse struct {
	Response string  `json:"response"`
	ThreadID *string `json:"threadId"`
}

// ResetResponse is the JSON response for DELETE /api/thread/{userId}.
type ResetResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// HealthResponse is the JSON response for GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// handleChat handles POST /api/chat requests. It validates the body, runs
// the message through the session manager, and returns the assistant reply.
func (g *Gateway) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	req, err := parseChatRequest(r.Body)
	if err != nil {
		g.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	reply := g.chat.SendMessage(r.Context(), req.UserID, req.Message)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ChatResponse{
		Response: reply.Text,
		ThreadID: reply.ThreadID,
	})
}

// parseChatRequest parses and validates a ChatRequest from the given reader.
func parseChatRequest(r io.Reader) (*ChatRequest, error) {
	var req ChatRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, errors.New("invalid JSON body")
	}

	if strings.TrimSpace(req.UserID) == "" {
		return nil, errors.New("userId is required")
	}

	if strings.TrimSpace(req.Message) == "" {
		return nil, errors.New("message is required")
	}

	return &req, nil
}

// handleResetThread handles DELETE /api/thread/{userId} requests. Resetting
// an unknown user is still a success; the next message starts fresh either way.
func (g *Gateway) handleResetThread(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	userID := strings.TrimPrefix(r.URL.Path, "/api/thread/")
	if userID == "" || strings.Contains(userID, "/") {
		g.sendJSONError(w, http.StatusBadRequest, "userId is required")
		return
	}

	g.chat.ResetThread(userID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ResetResponse{
		Message: "Thread reset successfully",
		UserID:  userID,
	})
}

// handleHealth handles GET /api/health requests.
func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{
		Status:  "UP",
		Service: "chat-relay",
	})
}

// sendJSONError writes a JSON error response.
func (g *Gateway) sendJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// corsMiddleware allows browser clients on any origin to reach the API.
// Preflight OPTIONS requests are answered directly with 204.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}
