package delivery

import "errors"

// Agent is the boundary to the messaging transport. The pipeline only
// ever sends a final artifact or a text notice; everything else about
// the transport stays behind this interface.
type Agent interface {
	// SendArtifact uploads the file at path to the target chat with a
	// caption.
	SendArtifact(chatID int64, path, caption string) error
	// SendNotice sends a plain text message to the target chat.
	SendNotice(chatID int64, text string) error
}

// ErrPayloadTooLarge is returned when an artifact exceeds the
// transport's payload ceiling. The pipeline's gate should prevent this
// from ever being hit; the agent checks again rather than relying on
// the transport to reject mid-upload.
var ErrPayloadTooLarge = errors.New("delivery: payload exceeds transport limit")
