package events

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Message - общий конверт для входящих команд и исходящих событий
type Message struct {
	// ID - необязательный идентификатор запроса, возвращается в ack
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Исходящие события
const (
	TypeRoomState    = "roomState"
	TypeGuessResult  = "guessResult"
	TypeRevealAnswer = "revealAnswer"
	TypeResults      = "results"
	TypeRoomClosed   = "roomClosed"
	TypeError        = "error"
	TypeAck          = "ack"
	TypePong         = "pong"
)

type Event interface {
	EventType() string
}

type PlayerState struct {
	ConnectionID uuid.UUID `json:"connectionId"`
	Username     string    `json:"username"`
	Score        int       `json:"score"`
}

type Question struct {
	ID       uuid.UUID `json:"id"`
	Question string    `json:"question"`
}

// RoomStateEvent - полный снимок комнаты, по нему клиент может пересинхронизироваться
type RoomStateEvent struct {
	Code            string        `json:"code"`
	HostID          uuid.UUID     `json:"hostId"`
	FolderID        uuid.UUID     `json:"folderId"`
	Phase           string        `json:"phase"`
	Started         bool          `json:"started"`
	CurrentIndex    int           `json:"currentIndex"`
	TotalQuestions  int           `json:"totalQuestions"`
	Players         []PlayerState `json:"players"`
	CurrentQuestion *Question     `json:"currentQuestion,omitempty"`
}

func (RoomStateEvent) EventType() string { return TypeRoomState }

// ResultsEvent - финальный снимок завершенной игры
type ResultsEvent struct {
	RoomStateEvent
}

func (ResultsEvent) EventType() string { return TypeResults }

type GuessResultEvent struct {
	Correct bool `json:"correct"`
}

func (GuessResultEvent) EventType() string { return TypeGuessResult }

type RevealAnswerEvent struct {
	Index  int    `json:"index"`
	Answer string `json:"answer"`
}

func (RevealAnswerEvent) EventType() string { return TypeRevealAnswer }

type RoomClosedEvent struct {
	Code string `json:"code"`
}

func (RoomClosedEvent) EventType() string { return TypeRoomClosed }

type ErrorEvent struct {
	Message string `json:"message"`
}

func (ErrorEvent) EventType() string { return TypeError }

type AckEvent struct {
	RequestID string `json:"requestId,omitempty"`
	OK        bool   `json:"ok"`
	Code      string `json:"code,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (AckEvent) EventType() string { return TypeAck }

type PongEvent struct{}

func (PongEvent) EventType() string { return TypePong }

// Encode упаковывает событие в конверт
func Encode(ev Event) (*Message, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", ev.EventType(), err)
	}

	return &Message{Type: ev.EventType(), Payload: payload}, nil
}
