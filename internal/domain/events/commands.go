package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Входящие команды
const (
	TypeCreateRoom   = "createRoom"
	TypeJoinRoom     = "joinRoom"
	TypeStartGame    = "startGame"
	TypeSubmitGuess  = "submitGuess"
	TypeNextQuestion = "nextQuestion"
	TypeExitGame     = "exitGame"
	TypePing         = "ping"

	// TypeRevealAnswer совпадает с именем исходящего события
)

const MaxUsernameLength = 32

var (
	ErrUnknownCommand   = errors.New("unknown command")
	ErrMalformedCommand = errors.New("malformed command")
	ErrInvalidCommand   = errors.New("invalid command")
)

// Command - закрытый набор команд клиента. Реализации только в этом пакете.
type Command interface {
	CommandType() string
	Validate() error
}

// RoomCommand - команда, адресованная существующей комнате
type RoomCommand interface {
	Command
	RoomCode() string
}

type CreateRoomCommand struct {
	FolderID uuid.UUID `json:"folderId"`
	Username string    `json:"username"`
}

func (*CreateRoomCommand) CommandType() string { return TypeCreateRoom }

func (c *CreateRoomCommand) Validate() error {
	if c.FolderID == uuid.Nil {
		return fmt.Errorf("%w: folderId is required", ErrInvalidCommand)
	}

	return validateUsername(c.Username)
}

type JoinRoomCommand struct {
	Code     string `json:"code"`
	Username string `json:"username"`
}

func (*JoinRoomCommand) CommandType() string { return TypeJoinRoom }
func (c *JoinRoomCommand) RoomCode() string  { return c.Code }

func (c *JoinRoomCommand) Validate() error {
	if err := validateCode(c.Code); err != nil {
		return err
	}

	return validateUsername(c.Username)
}

type StartGameCommand struct {
	Code string `json:"code"`
}

func (*StartGameCommand) CommandType() string { return TypeStartGame }
func (c *StartGameCommand) RoomCode() string  { return c.Code }
func (c *StartGameCommand) Validate() error   { return validateCode(c.Code) }

type SubmitGuessCommand struct {
	Code  string `json:"code"`
	Guess string `json:"guess"`
}

func (*SubmitGuessCommand) CommandType() string { return TypeSubmitGuess }
func (c *SubmitGuessCommand) RoomCode() string  { return c.Code }

func (c *SubmitGuessCommand) Validate() error {
	if err := validateCode(c.Code); err != nil {
		return err
	}

	if strings.TrimSpace(c.Guess) == "" {
		return fmt.Errorf("%w: guess is required", ErrInvalidCommand)
	}

	return nil
}

type NextQuestionCommand struct {
	Code string `json:"code"`
}

func (*NextQuestionCommand) CommandType() string { return TypeNextQuestion }
func (c *NextQuestionCommand) RoomCode() string  { return c.Code }
func (c *NextQuestionCommand) Validate() error   { return validateCode(c.Code) }

type RevealAnswerCommand struct {
	Code string `json:"code"`
}

func (*RevealAnswerCommand) CommandType() string { return TypeRevealAnswer }
func (c *RevealAnswerCommand) RoomCode() string  { return c.Code }
func (c *RevealAnswerCommand) Validate() error   { return validateCode(c.Code) }

type ExitGameCommand struct {
	Code string `json:"code"`
}

func (*ExitGameCommand) CommandType() string { return TypeExitGame }
func (c *ExitGameCommand) RoomCode() string  { return c.Code }
func (c *ExitGameCommand) Validate() error   { return validateCode(c.Code) }

type PingCommand struct{}

func (*PingCommand) CommandType() string { return TypePing }
func (*PingCommand) Validate() error     { return nil }

// DecodeCommand разбирает конверт в типизированную команду и валидирует ее.
// Неизвестные и битые конверты отбрасываются до любого изменения состояния.
func DecodeCommand(msg *Message) (Command, error) {
	var cmd Command

	switch msg.Type {
	case TypeCreateRoom:
		cmd = new(CreateRoomCommand)
	case TypeJoinRoom:
		cmd = new(JoinRoomCommand)
	case TypeStartGame:
		cmd = new(StartGameCommand)
	case TypeSubmitGuess:
		cmd = new(SubmitGuessCommand)
	case TypeNextQuestion:
		cmd = new(NextQuestionCommand)
	case TypeRevealAnswer:
		cmd = new(RevealAnswerCommand)
	case TypeExitGame:
		cmd = new(ExitGameCommand)
	case TypePing:
		cmd = new(PingCommand)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, msg.Type)
	}

	if len(msg.Payload) > 0 && string(msg.Payload) != "null" {
		if err := json.Unmarshal(msg.Payload, cmd); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformedCommand, msg.Type, err)
		}
	}

	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return cmd, nil
}

func validateCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("%w: code is required", ErrInvalidCommand)
	}

	return nil
}

func validateUsername(username string) error {
	if utf8.RuneCountInString(strings.TrimSpace(username)) > MaxUsernameLength {
		return fmt.Errorf("%w: username is longer than %d characters", ErrInvalidCommand, MaxUsernameLength)
	}

	return nil
}
