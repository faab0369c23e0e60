package constant

// Ключи атрибутов slog
const (
	Error        = "error"
	UserID       = "user_id"
	UserName     = "user_name"
	ConnectionID = "connection_id"
	RoomCode     = "room_code"
	Command      = "command"
	FolderID     = "folder_id"
)
