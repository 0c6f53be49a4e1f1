// Package relay provides the HTTP client that messaging front ends use to
// talk to the relay gateway.
//
// # Overview
//
// The client wraps the gateway's chat API with a deliberately forgiving
// surface: SendMessage never returns an error, and ResetThread swallows
// failures after logging them. Front ends always have something to send
// back to the user even when the gateway is down.
//
// # Usage
//
//	client := relay.New("http://localhost:8080", logger)
//	reply := client.SendMessage(ctx, chatID, text)
//	// reply.Text is either the assistant's answer or a fixed fallback.
package relay
