package domain

import "errors"

// ============================================================================
// Conversation Errors
// ============================================================================

// Not found errors
var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrContributionNotFound = errors.New("contribution not found")
)

// Validation errors
var (
	ErrMissingSender    = errors.New("sender (From) is required")
	ErrInvalidSender    = errors.New("invalid sender")
	ErrInvalidNumMedia  = errors.New("NumMedia must be a non-negative integer")
	ErrInvalidContribID = errors.New("invalid contribution ID")
)

// ============================================================================
// Integration Errors
// ============================================================================

var (
	ErrMediaUnavailable   = errors.New("twilio media download is not configured")
	ErrMediaTooLarge      = errors.New("media exceeds maximum allowed size")
	ErrMediaDownload      = errors.New("media download failed")
	ErrStorageUnavailable = errors.New("audio storage is not configured")
	ErrStorageUpload      = errors.New("audio upload failed")
	ErrBusy               = errors.New("no worker slot available")
)
