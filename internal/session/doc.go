// Package session implements the conversation core of chat-relay.
//
// # Overview
//
// The Manager owns two pieces of process-wide state: the assistant ID
// registered with the OpenAI backend at startup, and the mapping from
// external user IDs to backend thread IDs. Request handlers share a single
// Manager; all state access is synchronized internally.
//
// # Message Pipeline
//
// SendMessage executes the full protocol for one inbound message:
//
//  1. Resolve the user's thread, creating one on first contact. Concurrent
//     first messages from the same user share one thread creation.
//  2. Append the message to the thread.
//  3. Start a run with the registered assistant.
//  4. Poll the run status once per second, up to 60 attempts, until it is
//     completed, failed, or cancelled.
//  5. Extract the newest message's text as the reply.
//
// # Failure Semantics
//
// SendMessage never returns an error. Backend failures degrade to an
// apologetic Reply so the HTTP layer always answers 200 with in-band error
// text. A run that fails, is cancelled, or exhausts the poll budget yields a
// fixed apology with the thread ID still populated; a pipeline error (network
// failure, backend rejection) yields an apology with a nil thread ID even
// when the thread mapping was already created.
//
// # Usage
//
//	mgr := session.NewManager(backend, loader, cfg.OpenAI.Model, cfg.OpenAI.AssistantName, logger)
//	if err := mgr.Initialize(ctx); err != nil {
//	    return err // fatal: service must not start without an assistant
//	}
//	reply := mgr.SendMessage(ctx, userID, text)
package session
