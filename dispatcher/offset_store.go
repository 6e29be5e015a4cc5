package dispatcher

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
)

// OffsetStore persists the last acknowledged global sequence per subscription
// group. Offsets are saved after the handler succeeds, so delivery is
// at-least-once: a crash between handling and saving re-delivers the event.
type OffsetStore interface {
	Load(ctx context.Context, groupID string) (uint64, error)
	Save(ctx context.Context, groupID string, offset uint64) error
}

// MemoryOffsetStore is an in-memory OffsetStore for tests and single-process setups.
type MemoryOffsetStore struct {
	mu      sync.Mutex
	offsets map[string]uint64
}

// NewMemoryOffsetStore creates an empty MemoryOffsetStore.
func NewMemoryOffsetStore() *MemoryOffsetStore {
	return &MemoryOffsetStore{
		offsets: make(map[string]uint64),
	}
}

// Load returns the last saved offset for the group, zero if none was saved yet.
func (s *MemoryOffsetStore) Load(_ context.Context, groupID string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.offsets[groupID], nil
}

// Save stores the offset for the group.
func (s *MemoryOffsetStore) Save(_ context.Context, groupID string, offset uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.offsets[groupID] = offset

	return nil
}

const defaultOffsetTableName = "subscription_offsets"

// PostgresOffsetStore persists offsets in a Postgres table.
//
// Expected schema:
//
//	CREATE TABLE subscription_offsets (
//	    group_id TEXT PRIMARY KEY,
//	    last_sequence BIGINT NOT NULL
//	);
type PostgresOffsetStore struct {
	db        *sqlx.DB
	tableName string
}

// PostgresOffsetStoreOption configures a PostgresOffsetStore.
type PostgresOffsetStoreOption func(*PostgresOffsetStore)

// WithOffsetTableName overrides the default table name.
func WithOffsetTableName(tableName string) PostgresOffsetStoreOption {
	return func(s *PostgresOffsetStore) {
		s.tableName = tableName
	}
}

// NewPostgresOffsetStore creates a PostgresOffsetStore backed by the given connection pool.
func NewPostgresOffsetStore(db *sqlx.DB, opts ...PostgresOffsetStoreOption) *PostgresOffsetStore {
	store := &PostgresOffsetStore{
		db:        db,
		tableName: defaultOffsetTableName,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Load returns the last saved offset for the group, zero if none was saved yet.
func (s *PostgresOffsetStore) Load(ctx context.Context, groupID string) (uint64, error) {
	query := fmt.Sprintf(`SELECT last_sequence FROM %s WHERE group_id = $1`, s.tableName)

	var offset uint64
	err := s.db.GetContext(ctx, &offset, query, groupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}

		return 0, fmt.Errorf("load offset for group %s: %w", groupID, err)
	}

	return offset, nil
}

// Save upserts the offset for the group.
func (s *PostgresOffsetStore) Save(ctx context.Context, groupID string, offset uint64) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (group_id, last_sequence) VALUES ($1, $2)
		 ON CONFLICT (group_id) DO UPDATE SET last_sequence = EXCLUDED.last_sequence`,
		s.tableName,
	)

	if _, err := s.db.ExecContext(ctx, query, groupID, offset); err != nil {
		return fmt.Errorf("save offset for group %s: %w", groupID, err)
	}

	return nil
}
