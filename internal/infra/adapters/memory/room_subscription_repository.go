package memory

import (
	"slices"
	"sync"

	"github.com/google/uuid"
)

// RoomSubscriptionRepository хранит, какие соединения получают рассылку комнаты
type RoomSubscriptionRepository interface {
	Subscribe(code string, connID uuid.UUID)
	Unsubscribe(code string, connID uuid.UUID)

	// UnsubscribeAll принудительно отписывает всех от комнаты и возвращает, кого отписали
	UnsubscribeAll(code string) []uuid.UUID

	Subscribers(code string) []uuid.UUID

	// Rooms возвращает коды комнат, на которые подписано соединение
	Rooms(connID uuid.UUID) []string
}

type roomSubscriptionRepository struct {
	byRoom map[string]map[uuid.UUID]struct{}
	byConn map[uuid.UUID]map[string]struct{}
	mu     sync.RWMutex
}

func NewRoomSubscriptionRepository() RoomSubscriptionRepository {
	return &roomSubscriptionRepository{
		byRoom: make(map[string]map[uuid.UUID]struct{}),
		byConn: make(map[uuid.UUID]map[string]struct{}),
	}
}

func (r *roomSubscriptionRepository) Subscribe(code string, connID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byRoom[code]; !ok {
		r.byRoom[code] = make(map[uuid.UUID]struct{})
	}
	r.byRoom[code][connID] = struct{}{}

	if _, ok := r.byConn[connID]; !ok {
		r.byConn[connID] = make(map[string]struct{})
	}
	r.byConn[connID][code] = struct{}{}
}

func (r *roomSubscriptionRepository) Unsubscribe(code string, connID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.unsubscribe(code, connID)
}

func (r *roomSubscriptionRepository) unsubscribe(code string, connID uuid.UUID) {
	if conns, ok := r.byRoom[code]; ok {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(r.byRoom, code)
		}
	}

	if codes, ok := r.byConn[connID]; ok {
		delete(codes, code)
		if len(codes) == 0 {
			delete(r.byConn, connID)
		}
	}
}

func (r *roomSubscriptionRepository) UnsubscribeAll(code string) []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns := make([]uuid.UUID, 0, len(r.byRoom[code]))
	for connID := range r.byRoom[code] {
		conns = append(conns, connID)
	}

	for _, connID := range conns {
		r.unsubscribe(code, connID)
	}

	return conns
}

func (r *roomSubscriptionRepository) Subscribers(code string) []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]uuid.UUID, 0, len(r.byRoom[code]))
	for connID := range r.byRoom[code] {
		conns = append(conns, connID)
	}

	return conns
}

func (r *roomSubscriptionRepository) Rooms(connID uuid.UUID) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make([]string, 0, len(r.byConn[connID]))
	for code := range r.byConn[connID] {
		codes = append(codes, code)
	}
	slices.Sort(codes)

	return codes
}
