package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/qrave1/MemStudy/internal/application/constant"
	"github.com/qrave1/MemStudy/internal/application/metric"
	"github.com/qrave1/MemStudy/internal/domain/events"
	"github.com/qrave1/MemStudy/internal/domain/models"
	"github.com/qrave1/MemStudy/internal/domain/quiz"
	"github.com/qrave1/MemStudy/internal/domain/runtime"
	"github.com/qrave1/MemStudy/internal/infra/adapters/memory"
)

const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeNotFound = "not_found"
	outcomeFailed   = "failed"

	commandUnknown = "unknown"
)

// Сообщения, которые видит клиент
const (
	msgRoomNotFound   = "room not found"
	msgDeckLoadFailed = "failed to load flashcards"
	msgDeckEmpty      = "folder has no flashcards"
)

// CardStore отдает колоду папки на старте игры
type CardStore interface {
	FindByFolder(ctx context.Context, folderID, ownerID uuid.UUID) ([]*models.Flashcard, error)
}

// VersusUsecase принимает команды мультиплеерной викторины и рассылает события комнатам
type VersusUsecase interface {
	// Dispatch обрабатывает один входящий конверт соединения
	Dispatch(ctx context.Context, conn runtime.Connection, msg *events.Message)

	// HandleDisconnect убирает соединение из всех его комнат
	HandleDisconnect(ctx context.Context, conn runtime.Connection)

	Shutdown()
}

type versusUsecase struct {
	deckTimeout time.Duration

	registry memory.RoomRegistry
	subsRepo memory.RoomSubscriptionRepository
	wsRepo   memory.WebsocketConnectionRepository

	cardStore CardStore
}

func NewVersusUsecase(
	deckTimeout time.Duration,
	registry memory.RoomRegistry,
	subsRepo memory.RoomSubscriptionRepository,
	wsRepo memory.WebsocketConnectionRepository,
	cardStore CardStore,
) VersusUsecase {
	return &versusUsecase{
		deckTimeout: deckTimeout,
		registry:    registry,
		subsRepo:    subsRepo,
		wsRepo:      wsRepo,
		cardStore:   cardStore,
	}
}

func (uc *versusUsecase) Dispatch(ctx context.Context, conn runtime.Connection, msg *events.Message) {
	cmd, err := decodeCommand(msg)
	if err != nil {
		label := commandLabel(msg.Type, err)
		metric.RecordCommand(label, outcomeRejected)

		slog.Debug(
			"drop invalid command",
			slog.String(constant.Command, label),
			slog.Any(constant.ConnectionID, conn.ID),
			slog.Any(constant.Error, err),
		)

		// createRoom единственная команда с ответом, клиент ждет ack даже на ошибку
		if msg.Type == events.TypeCreateRoom {
			uc.send(conn.ID, events.AckEvent{RequestID: msg.ID, Error: err.Error()})
		}

		return
	}

	defer func() {
		if r := recover(); r != nil {
			metric.RecordCommand(cmd.CommandType(), outcomeFailed)

			slog.Error(
				"panic while handling command",
				slog.String(constant.Command, cmd.CommandType()),
				slog.Any(constant.ConnectionID, conn.ID),
				slog.Any(constant.Error, r),
			)
		}
	}()

	err = uc.handle(ctx, conn, msg.ID, cmd)

	outcome := outcomeOf(err)
	metric.RecordCommand(cmd.CommandType(), outcome)

	if err != nil {
		level := slog.LevelDebug
		if outcome == outcomeFailed {
			level = slog.LevelWarn
		}

		attrs := []slog.Attr{
			slog.String(constant.Command, cmd.CommandType()),
			slog.Any(constant.ConnectionID, conn.ID),
			slog.Any(constant.Error, err),
		}
		if rc, ok := cmd.(events.RoomCommand); ok {
			attrs = append(attrs, slog.String(constant.RoomCode, quiz.NormalizeCode(rc.RoomCode())))
		}

		slog.LogAttrs(ctx, level, "command not applied", attrs...)
	}
}

func (uc *versusUsecase) handle(ctx context.Context, conn runtime.Connection, requestID string, cmd events.Command) error {
	switch c := cmd.(type) {
	case *events.CreateRoomCommand:
		return uc.createRoom(conn, requestID, c)
	case *events.JoinRoomCommand:
		return uc.joinRoom(conn, c)
	case *events.StartGameCommand:
		return uc.startGame(ctx, conn, c.Code)
	case *events.SubmitGuessCommand:
		return uc.applyToRoom(c.Code, func(room *quiz.Room) ([]quiz.Outbound, error) {
			return room.SubmitGuess(conn.ID, c.Guess)
		})
	case *events.NextQuestionCommand:
		return uc.applyToRoom(c.Code, func(room *quiz.Room) ([]quiz.Outbound, error) {
			return room.NextQuestion(conn.ID)
		})
	case *events.RevealAnswerCommand:
		return uc.applyToRoom(c.Code, func(room *quiz.Room) ([]quiz.Outbound, error) {
			return room.RevealAnswer(conn.ID)
		})
	case *events.ExitGameCommand:
		return uc.exitGame(conn, c.Code)
	case *events.PingCommand:
		uc.send(conn.ID, events.PongEvent{})
		return nil
	default:
		return fmt.Errorf("%w: %s", events.ErrUnknownCommand, cmd.CommandType())
	}
}

func (uc *versusUsecase) createRoom(conn runtime.Connection, requestID string, cmd *events.CreateRoomCommand) error {
	room, err := uc.registry.Create(cmd.FolderID, conn, strings.TrimSpace(cmd.Username))
	if err != nil {
		uc.send(conn.ID, events.AckEvent{RequestID: requestID, Error: err.Error()})
		return fmt.Errorf("create room: %w", err)
	}

	room.Do(func() {
		uc.subsRepo.Subscribe(room.Code(), conn.ID)

		uc.send(conn.ID, events.AckEvent{RequestID: requestID, OK: true, Code: room.Code()})
		uc.send(conn.ID, room.State())
	})

	slog.Info(
		"room created",
		slog.String(constant.RoomCode, room.Code()),
		slog.Any(constant.UserID, conn.UserID),
		slog.Any(constant.FolderID, cmd.FolderID),
	)

	return nil
}

func (uc *versusUsecase) joinRoom(conn runtime.Connection, cmd *events.JoinRoomCommand) error {
	room, ok := uc.registry.Get(cmd.Code)
	if !ok {
		uc.send(conn.ID, events.ErrorEvent{Message: msgRoomNotFound})
		return quiz.ErrRoomNotFound
	}

	var err error

	room.Do(func() {
		var out []quiz.Outbound

		out, err = room.Join(conn, strings.TrimSpace(cmd.Username))
		if err != nil {
			// комната закрывается, для клиента ее уже нет
			uc.send(conn.ID, events.ErrorEvent{Message: msgRoomNotFound})
			return
		}

		uc.subsRepo.Subscribe(room.Code(), conn.ID)
		uc.deliver(room.Code(), out)
	})

	return err
}

// startGame загружает колоду без лока комнаты. Пока идет загрузка, комната
// принимает другие команды, поэтому результат применяется только после повторной проверки.
func (uc *versusUsecase) startGame(ctx context.Context, conn runtime.Connection, code string) error {
	room, ok := uc.registry.Get(code)
	if !ok {
		return quiz.ErrRoomNotFound
	}

	var err error

	room.Do(func() {
		err = room.BeginStart(conn.ID)
	})
	if err != nil {
		return err
	}

	fetchCtx, cancel := context.WithTimeout(ctx, uc.deckTimeout)
	defer cancel()

	cards, fetchErr := uc.fetchDeck(fetchCtx, room)

	deck := make([]quiz.Card, 0, len(cards))
	for _, card := range cards {
		deck = append(deck, quiz.NewCard(card.ID, card.Question, card.Answer))
	}

	room.Do(func() {
		if fetchErr != nil {
			room.AbortStart()

			if !room.Closed() {
				uc.send(room.HostConnectionID(), events.ErrorEvent{Message: msgDeckLoadFailed})
			}

			err = fmt.Errorf("fetch deck: %w", fetchErr)
			return
		}

		var out []quiz.Outbound

		out, err = room.FinishStart(deck)
		if err != nil {
			if errors.Is(err, quiz.ErrEmptyDeck) {
				uc.send(room.HostConnectionID(), events.ErrorEvent{Message: msgDeckEmpty})
			}

			return
		}

		metric.IncrementGamesStarted()
		uc.deliver(room.Code(), out)
	})

	return err
}

// fetchDeck не дает панике хранилища оставить комнату в состоянии запуска
func (uc *versusUsecase) fetchDeck(ctx context.Context, room *quiz.Room) (cards []*models.Flashcard, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("card store panic: %v", r)
		}
	}()

	return uc.cardStore.FindByFolder(ctx, room.FolderID(), room.OwnerID())
}

func (uc *versusUsecase) exitGame(conn runtime.Connection, code string) error {
	room, ok := uc.registry.Get(code)
	if !ok {
		return quiz.ErrRoomNotFound
	}

	var err error

	room.Do(func() {
		var out []quiz.Outbound

		out, err = room.Close(conn.ID)
		if err != nil {
			return
		}

		uc.deliver(room.Code(), out)
		uc.evict(room.Code())
	})

	if err == nil {
		slog.Info("room closed by host", slog.String(constant.RoomCode, room.Code()))
	}

	return err
}

func (uc *versusUsecase) HandleDisconnect(ctx context.Context, conn runtime.Connection) {
	for _, code := range uc.subsRepo.Rooms(conn.ID) {
		room, ok := uc.registry.Get(code)
		if !ok {
			uc.subsRepo.Unsubscribe(code, conn.ID)
			continue
		}

		room.Do(func() {
			uc.subsRepo.Unsubscribe(code, conn.ID)

			out, empty, err := room.Leave(conn.ID)
			if err != nil {
				return
			}

			if empty {
				uc.evict(code)

				slog.Info("room removed, no players left", slog.String(constant.RoomCode, code))
				return
			}

			uc.deliver(code, out)
		})
	}
}

func (uc *versusUsecase) Shutdown() {
	uc.registry.Shutdown()
}

// evict вызывается под локом уже закрытой комнаты. Подписки снимаются до удаления
// из реестра, иначе новая комната с тем же кодом потеряла бы своих подписчиков.
func (uc *versusUsecase) evict(code string) {
	uc.subsRepo.UnsubscribeAll(code)
	uc.registry.Remove(code)
}

func (uc *versusUsecase) applyToRoom(code string, op func(room *quiz.Room) ([]quiz.Outbound, error)) error {
	room, ok := uc.registry.Get(code)
	if !ok {
		return quiz.ErrRoomNotFound
	}

	var err error

	room.Do(func() {
		var out []quiz.Outbound

		out, err = op(room)
		if err != nil {
			return
		}

		uc.deliver(room.Code(), out)
	})

	return err
}

// deliver рассылает события в порядке их появления. Вызывается под локом комнаты,
// поэтому порядок событий одной комнаты совпадает с порядком команд.
func (uc *versusUsecase) deliver(code string, out []quiz.Outbound) {
	for _, o := range out {
		msg, err := events.Encode(o.Event)
		if err != nil {
			slog.Error("encode event", slog.String(constant.RoomCode, code), slog.Any(constant.Error, err))
			continue
		}

		if o.To != uuid.Nil {
			uc.wsRepo.Write(o.To, msg)
			continue
		}

		for _, connID := range uc.subsRepo.Subscribers(code) {
			uc.wsRepo.Write(connID, msg)
		}
	}
}

func (uc *versusUsecase) send(connID uuid.UUID, ev events.Event) {
	uc.deliver("", []quiz.Outbound{{To: connID, Event: ev}})
}

// decodeCommand дополнительно проверяет формат кода комнаты, чтобы заведомо
// несуществующие коды отбрасывались до обращения к реестру
func decodeCommand(msg *events.Message) (events.Command, error) {
	cmd, err := events.DecodeCommand(msg)
	if err != nil {
		return nil, err
	}

	if rc, ok := cmd.(events.RoomCommand); ok && !quiz.IsValidCode(quiz.NormalizeCode(rc.RoomCode())) {
		return nil, fmt.Errorf("%w: malformed room code", events.ErrInvalidCommand)
	}

	return cmd, nil
}

// commandLabel не пускает произвольный тип из клиента в метки метрик
func commandLabel(msgType string, err error) string {
	if errors.Is(err, events.ErrUnknownCommand) {
		return commandUnknown
	}

	return msgType
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, quiz.ErrRoomNotFound):
		return outcomeNotFound
	case errors.Is(err, quiz.ErrRoomClosed),
		errors.Is(err, quiz.ErrNotHost),
		errors.Is(err, quiz.ErrWrongPhase),
		errors.Is(err, quiz.ErrUnknownPlayer),
		errors.Is(err, quiz.ErrStartPending),
		errors.Is(err, quiz.ErrStaleStart),
		errors.Is(err, quiz.ErrEmptyDeck):
		return outcomeRejected
	default:
		return outcomeFailed
	}
}
