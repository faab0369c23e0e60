package runtime

import "github.com/google/uuid"

// Connection - одно websocket соединение. ID живет столько же, сколько сокет,
// UserID стабилен между переподключениями и приходит из JWT.
type Connection struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
}
