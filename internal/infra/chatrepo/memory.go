package chatrepo

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/zwinglabs/support-chat/internal/domain/chat"
)

// MemoryRoomRepository keeps rooms in process memory for tests/dev.
type MemoryRoomRepository struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]chat.Room
	pairs map[[2]int64]uuid.UUID
}

// NewMemoryRoomRepository constructs the repository.
func NewMemoryRoomRepository() *MemoryRoomRepository {
	return &MemoryRoomRepository{
		rooms: make(map[uuid.UUID]chat.Room),
		pairs: make(map[[2]int64]uuid.UUID),
	}
}

func (r *MemoryRoomRepository) FindByMembers(_ context.Context, a, b int64) (chat.Room, bool, error) {
	low, high := orderPair(a, b)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id, ok := r.pairs[[2]int64{low, high}]; ok {
		return r.rooms[id], true, nil
	}
	return chat.Room{}, false, nil
}

func (r *MemoryRoomRepository) Create(_ context.Context, room chat.Room) error {
	low, high := orderPair(room.Members[0], room.Members[1])
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[room.ID] = room
	r.pairs[[2]int64{low, high}] = room.ID
	return nil
}

func (r *MemoryRoomRepository) Get(_ context.Context, id uuid.UUID) (chat.Room, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[id]
	return room, ok, nil
}

var _ chat.RoomRepository = (*MemoryRoomRepository)(nil)

// MemoryMessageRepository keeps messages in send order.
type MemoryMessageRepository struct {
	mu   sync.RWMutex
	msgs map[uuid.UUID][]chat.Message
}

// NewMemoryMessageRepository constructs the repository.
func NewMemoryMessageRepository() *MemoryMessageRepository {
	return &MemoryMessageRepository{msgs: make(map[uuid.UUID][]chat.Message)}
}

func (r *MemoryMessageRepository) Append(_ context.Context, msg chat.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs[msg.RoomID] = append(r.msgs[msg.RoomID], msg)
	return nil
}

func (r *MemoryMessageRepository) ListByRoom(_ context.Context, roomID uuid.UUID) ([]chat.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src := r.msgs[roomID]
	out := make([]chat.Message, len(src))
	copy(out, src)
	return out, nil
}

func (r *MemoryMessageRepository) LastByRoom(_ context.Context, roomID uuid.UUID) (chat.Message, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src := r.msgs[roomID]
	if len(src) == 0 {
		return chat.Message{}, false, nil
	}
	return src[len(src)-1], true, nil
}

var _ chat.MessageRepository = (*MemoryMessageRepository)(nil)
