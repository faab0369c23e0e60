package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/qrave1/MemStudy/internal/application/metric"
	"github.com/qrave1/MemStudy/internal/domain/quiz"
	"github.com/qrave1/MemStudy/internal/domain/runtime"
)

// RoomRegistry - единственное место в процессе, где живут комнаты викторины
type RoomRegistry interface {
	// Create создает комнату с хостом под свободным кодом
	Create(folderID uuid.UUID, host runtime.Connection, username string) (*quiz.Room, error)

	// Get ищет комнату по коду без учета регистра
	Get(code string) (*quiz.Room, bool)

	Remove(code string)
	Count() int

	// Shutdown удаляет все комнаты
	Shutdown()
}

type roomRegistry struct {
	rooms map[string]*quiz.Room
	mu    sync.RWMutex

	codeGen     quiz.CodeGenerator
	maxAttempts int
}

func NewRoomRegistry(codeGen quiz.CodeGenerator, maxAttempts int) RoomRegistry {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &roomRegistry{
		rooms:       make(map[string]*quiz.Room),
		codeGen:     codeGen,
		maxAttempts: maxAttempts,
	}
}

func (r *roomRegistry) Create(folderID uuid.UUID, host runtime.Connection, username string) (*quiz.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Код генерируется под тем же локом, что и вставка, иначе две комнаты могут занять один слот
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		code := quiz.NormalizeCode(r.codeGen.Generate())

		if _, taken := r.rooms[code]; taken {
			continue
		}

		room := quiz.NewRoom(code, folderID, host, username)
		r.rooms[code] = room

		metric.SetActiveRooms(len(r.rooms))

		return room, nil
	}

	return nil, quiz.ErrCodeSpaceExhausted
}

func (r *roomRegistry) Get(code string) (*quiz.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[quiz.NormalizeCode(code)]
	return room, ok
}

func (r *roomRegistry) Remove(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rooms, quiz.NormalizeCode(code))

	metric.SetActiveRooms(len(r.rooms))
}

func (r *roomRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms)
}

func (r *roomRegistry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rooms = make(map[string]*quiz.Room)

	metric.SetActiveRooms(0)
}
