package chat

import "artnexus/internal/pkg/apperr"

var (
	ErrNotParticipant  = apperr.New(apperr.Forbidden, "you are not a participant of this thread")
	ErrEmptyMessage    = apperr.New(apperr.InvalidInput, "message body is required")
	ErrMessageTooLong  = apperr.New(apperr.InvalidInput, "message body is too long")
	ErrArtisteNotFound = apperr.New(apperr.NotFound, "artiste not found")
)
