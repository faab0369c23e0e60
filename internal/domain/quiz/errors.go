package quiz

import "errors"

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomClosed         = errors.New("room closed")
	ErrNotHost            = errors.New("caller is not the host")
	ErrWrongPhase         = errors.New("command not allowed in current phase")
	ErrUnknownPlayer      = errors.New("caller is not a player of the room")
	ErrStartPending       = errors.New("game start already in progress")
	ErrStaleStart         = errors.New("room changed while the deck was loading")
	ErrEmptyDeck          = errors.New("folder has no flashcards")
	ErrCodeSpaceExhausted = errors.New("could not generate a free room code")
)
