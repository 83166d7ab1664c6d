// Package delivery sends finished artifacts and failure notices to the
// requester's chat.
//
// The pipeline consumes the Agent interface; the Telegram implementation
// uploads via the Bot API and enforces the transport's payload ceiling
// before starting an upload.
package delivery
