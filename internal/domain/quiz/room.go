package quiz

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/qrave1/MemStudy/internal/domain/events"
	"github.com/qrave1/MemStudy/internal/domain/runtime"
)

type Phase string

const (
	PhaseLobby      Phase = "lobby"
	PhaseInProgress Phase = "in_progress"
	PhaseCompleted  Phase = "completed"
)

const (
	DefaultHostName   = "Host"
	DefaultPlayerName = "Player"
)

// Card - вопрос из снимка колоды
type Card struct {
	ID               uuid.UUID
	Question         string
	Answer           string
	NormalizedAnswer string
}

func NewCard(id uuid.UUID, question, answer string) Card {
	return Card{
		ID:               id,
		Question:         question,
		Answer:           answer,
		NormalizedAnswer: NormalizeAnswer(answer),
	}
}

type Player struct {
	ConnectionID    uuid.UUID
	UserID          uuid.UUID
	Username        string
	Score           int
	LastScoredIndex int
}

// Outbound - событие и его адресат. uuid.Nil в To означает всех подписчиков комнаты.
type Outbound struct {
	To    uuid.UUID
	Event events.Event
}

func toRoom(ev events.Event) Outbound {
	return Outbound{Event: ev}
}

func toConn(connID uuid.UUID, ev events.Event) Outbound {
	return Outbound{To: connID, Event: ev}
}

// Room - одна сессия викторины.
//
// Методы Room не синхронизированы: вызывающий код выполняет их внутри Do,
// так что команды одной комнаты применяются по одной и в порядке прихода.
type Room struct {
	mu sync.Mutex

	code     string
	folderID uuid.UUID
	// ownerID - создатель комнаты и владелец папки. По нему загружается колода,
	// и он же забирает права хоста обратно после переподключения.
	ownerID uuid.UUID

	hostConnectionID uuid.UUID

	phase        Phase
	deck         []Card
	currentIndex int

	// players в порядке входа, от него зависит передача хоста
	players []*Player

	starting bool
	closed   bool
}

func NewRoom(code string, folderID uuid.UUID, host runtime.Connection, username string) *Room {
	if username == "" {
		username = DefaultHostName
	}

	return &Room{
		code:             code,
		folderID:         folderID,
		ownerID:          host.UserID,
		hostConnectionID: host.ID,
		phase:            PhaseLobby,
		players: []*Player{
			{
				ConnectionID:    host.ID,
				UserID:          host.UserID,
				Username:        username,
				LastScoredIndex: -1,
			},
		},
	}
}

// Do выполняет fn эксклюзивно для этой комнаты
func (r *Room) Do(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fn()
}

func (r *Room) Code() string                { return r.code }
func (r *Room) FolderID() uuid.UUID         { return r.folderID }
func (r *Room) OwnerID() uuid.UUID          { return r.ownerID }
func (r *Room) HostConnectionID() uuid.UUID { return r.hostConnectionID }
func (r *Room) Phase() Phase                { return r.phase }
func (r *Room) CurrentIndex() int           { return r.currentIndex }
func (r *Room) Closed() bool                { return r.closed }

func (r *Room) IsHost(connID uuid.UUID) bool {
	return connID != uuid.Nil && connID == r.hostConnectionID
}

// Players возвращает копию списка игроков в порядке входа
func (r *Room) Players() []Player {
	players := make([]Player, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, *p)
	}

	return players
}

func (r *Room) Player(connID uuid.UUID) (Player, bool) {
	p := r.player(connID)
	if p == nil {
		return Player{}, false
	}

	return *p, true
}

func (r *Room) player(connID uuid.UUID) *Player {
	i := r.playerIndex(connID)
	if i < 0 {
		return nil
	}

	return r.players[i]
}

func (r *Room) playerIndex(connID uuid.UUID) int {
	return slices.IndexFunc(r.players, func(p *Player) bool { return p.ConnectionID == connID })
}

// Join добавляет игрока или обновляет имя уже известного соединения.
// Если пришел создатель комнаты, права хоста переезжают на его новое соединение.
func (r *Room) Join(conn runtime.Connection, username string) ([]Outbound, error) {
	if r.closed {
		return nil, ErrRoomClosed
	}

	if conn.UserID != uuid.Nil && conn.UserID == r.ownerID {
		r.hostConnectionID = conn.ID
	}

	if p := r.player(conn.ID); p != nil {
		if username != "" {
			p.Username = username
		}
	} else {
		if username == "" {
			username = DefaultPlayerName
		}

		r.players = append(r.players, &Player{
			ConnectionID:    conn.ID,
			UserID:          conn.UserID,
			Username:        username,
			LastScoredIndex: -1,
		})
	}

	return []Outbound{toRoom(r.State())}, nil
}

// BeginStart проверяет, что игру можно запускать, и резервирует запуск
// на время загрузки колоды.
func (r *Room) BeginStart(connID uuid.UUID) error {
	if r.closed {
		return ErrRoomClosed
	}

	if !r.IsHost(connID) {
		return ErrNotHost
	}

	if r.phase != PhaseLobby {
		return ErrWrongPhase
	}

	if r.starting {
		return ErrStartPending
	}

	r.starting = true

	return nil
}

// AbortStart снимает резерв запуска, комната остается в лобби
func (r *Room) AbortStart() {
	r.starting = false
}

// FinishStart фиксирует загруженную колоду. Если комната успела закрыться
// или уйти из лобби, результат загрузки выбрасывается.
func (r *Room) FinishStart(deck []Card) ([]Outbound, error) {
	r.starting = false

	if r.closed || r.phase != PhaseLobby {
		return nil, ErrStaleStart
	}

	if len(deck) == 0 {
		return nil, ErrEmptyDeck
	}

	r.deck = slices.Clone(deck)
	r.currentIndex = 0
	r.phase = PhaseInProgress

	return []Outbound{toRoom(r.State())}, nil
}

// SubmitGuess всегда сверяет догадку с текущим вопросом комнаты.
// Очко за вопрос начисляется игроку не больше одного раза.
func (r *Room) SubmitGuess(connID uuid.UUID, guess string) ([]Outbound, error) {
	if r.closed {
		return nil, ErrRoomClosed
	}

	if r.phase != PhaseInProgress {
		return nil, ErrWrongPhase
	}

	p := r.player(connID)
	if p == nil {
		return nil, ErrUnknownPlayer
	}

	card := r.deck[r.currentIndex]
	normalized := NormalizeAnswer(guess)
	correct := normalized != "" && normalized == card.NormalizedAnswer

	out := []Outbound{toConn(connID, events.GuessResultEvent{Correct: correct})}

	if !correct || p.LastScoredIndex == r.currentIndex {
		return out, nil
	}

	p.Score++
	p.LastScoredIndex = r.currentIndex

	if r.currentIndex == len(r.deck)-1 {
		r.phase = PhaseCompleted
		return append(out, toRoom(r.State()), toRoom(r.Results())), nil
	}

	return append(out, toRoom(r.State())), nil
}

func (r *Room) NextQuestion(connID uuid.UUID) ([]Outbound, error) {
	if err := r.checkHostInProgress(connID); err != nil {
		return nil, err
	}

	if r.currentIndex >= len(r.deck)-1 {
		r.phase = PhaseCompleted
		return []Outbound{toRoom(r.Results())}, nil
	}

	r.currentIndex++

	return []Outbound{toRoom(r.State())}, nil
}

func (r *Room) RevealAnswer(connID uuid.UUID) ([]Outbound, error) {
	if err := r.checkHostInProgress(connID); err != nil {
		return nil, err
	}

	ev := events.RevealAnswerEvent{
		Index:  r.currentIndex,
		Answer: r.deck[r.currentIndex].Answer,
	}

	return []Outbound{toRoom(ev)}, nil
}

// Close закрывает комнату по команде хоста
func (r *Room) Close(connID uuid.UUID) ([]Outbound, error) {
	if r.closed {
		return nil, ErrRoomClosed
	}

	if !r.IsHost(connID) {
		return nil, ErrNotHost
	}

	r.closed = true

	return []Outbound{toRoom(events.RoomClosedEvent{Code: r.code})}, nil
}

// Leave убирает игрока. При уходе хоста права получает самый ранний из оставшихся
// до возвращения исходного хоста.
// empty=true значит, что игроков не осталось и комнату нужно убрать из реестра.
func (r *Room) Leave(connID uuid.UUID) (out []Outbound, empty bool, err error) {
	if r.closed {
		return nil, false, ErrRoomClosed
	}

	i := r.playerIndex(connID)
	if i < 0 {
		return nil, false, ErrUnknownPlayer
	}

	r.players = slices.Delete(r.players, i, i+1)

	if len(r.players) == 0 {
		r.closed = true
		return nil, true, nil
	}

	if r.hostConnectionID == connID {
		r.hostConnectionID = r.players[0].ConnectionID
	}

	return []Outbound{toRoom(r.State())}, false, nil
}

// State - полный снимок комнаты
func (r *Room) State() events.RoomStateEvent {
	players := make([]events.PlayerState, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, events.PlayerState{
			ConnectionID: p.ConnectionID,
			Username:     p.Username,
			Score:        p.Score,
		})
	}

	state := events.RoomStateEvent{
		Code:           r.code,
		HostID:         r.hostConnectionID,
		FolderID:       r.folderID,
		Phase:          string(r.phase),
		Started:        r.phase != PhaseLobby,
		CurrentIndex:   r.currentIndex,
		TotalQuestions: len(r.deck),
		Players:        players,
	}

	if r.phase == PhaseInProgress {
		card := r.deck[r.currentIndex]
		state.CurrentQuestion = &events.Question{ID: card.ID, Question: card.Question}
	}

	return state
}

func (r *Room) Results() events.ResultsEvent {
	return events.ResultsEvent{RoomStateEvent: r.State()}
}

func (r *Room) checkHostInProgress(connID uuid.UUID) error {
	if r.closed {
		return ErrRoomClosed
	}

	if !r.IsHost(connID) {
		return ErrNotHost
	}

	if r.phase != PhaseInProgress {
		return ErrWrongPhase
	}

	return nil
}
