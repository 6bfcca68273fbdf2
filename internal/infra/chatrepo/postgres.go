package chatrepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zwinglabs/support-chat/internal/domain/chat"
)

// PostgresRoomRepository persists rooms. Members are stored as an ordered
// pair (member_low < member_high) so the unique index is direction agnostic.
type PostgresRoomRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRoomRepository constructs the repository.
func NewPostgresRoomRepository(pool *pgxpool.Pool) *PostgresRoomRepository {
	return &PostgresRoomRepository{pool: pool}
}

func (r *PostgresRoomRepository) FindByMembers(ctx context.Context, a, b int64) (chat.Room, bool, error) {
	low, high := orderPair(a, b)
	row := r.pool.QueryRow(ctx, `
		SELECT id, member_low, member_high, created_at
		FROM chat_rooms
		WHERE member_low = $1 AND member_high = $2
		LIMIT 1
	`, low, high)
	return scanRoom(row)
}

func (r *PostgresRoomRepository) Create(ctx context.Context, room chat.Room) error {
	low, high := orderPair(room.Members[0], room.Members[1])
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat_rooms (id, member_low, member_high, created_at)
		VALUES ($1, $2, $3, $4)
	`, room.ID, low, high, room.CreatedAt)
	return err
}

func (r *PostgresRoomRepository) Get(ctx context.Context, id uuid.UUID) (chat.Room, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, member_low, member_high, created_at
		FROM chat_rooms
		WHERE id = $1
		LIMIT 1
	`, id)
	return scanRoom(row)
}

func scanRoom(row pgx.Row) (chat.Room, bool, error) {
	var (
		room    chat.Room
		created time.Time
	)
	if err := row.Scan(&room.ID, &room.Members[0], &room.Members[1], &created); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return chat.Room{}, false, nil
		}
		return chat.Room{}, false, err
	}
	room.CreatedAt = created.UTC()
	return room, true, nil
}

func orderPair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}

var _ chat.RoomRepository = (*PostgresRoomRepository)(nil)

// PostgresMessageRepository persists messages.
type PostgresMessageRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresMessageRepository constructs the repository.
func NewPostgresMessageRepository(pool *pgxpool.Pool) *PostgresMessageRepository {
	return &PostgresMessageRepository{pool: pool}
}

func (r *PostgresMessageRepository) Append(ctx context.Context, msg chat.Message) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat_messages (id, room_id, sender, content, type, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, msg.ID, msg.RoomID, msg.Sender, msg.Content, msg.Type, msg.SentAt)
	return err
}

func (r *PostgresMessageRepository) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]chat.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, room_id, sender, content, type, sent_at
		FROM chat_messages
		WHERE room_id = $1
		ORDER BY sent_at ASC, id ASC
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

func (r *PostgresMessageRepository) LastByRoom(ctx context.Context, roomID uuid.UUID) (chat.Message, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, room_id, sender, content, type, sent_at
		FROM chat_messages
		WHERE room_id = $1
		ORDER BY sent_at DESC, id DESC
		LIMIT 1
	`, roomID)
	msg, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return chat.Message{}, false, nil
		}
		return chat.Message{}, false, err
	}
	return msg, true, nil
}

func scanMessage(row pgx.Row) (chat.Message, error) {
	var (
		msg  chat.Message
		sent time.Time
	)
	if err := row.Scan(&msg.ID, &msg.RoomID, &msg.Sender, &msg.Content, &msg.Type, &sent); err != nil {
		return chat.Message{}, err
	}
	msg.SentAt = sent.UTC()
	return msg, nil
}

var _ chat.MessageRepository = (*PostgresMessageRepository)(nil)
