package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wellness/internal/modules/checkin/domain"

	_ "modernc.org/sqlite"
)

// timeLayout is fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteCheckInStore struct {
	db *sql.DB
}

func NewSQLiteCheckInStore(dbPath string) (*SQLiteCheckInStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteCheckInStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteCheckInStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS checkins (
  id TEXT PRIMARY KEY,
  uid TEXT NOT NULL,
  answers TEXT NOT NULL,
  sentiment REAL NOT NULL,
  score INTEGER NOT NULL,
  state TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS checkins_uid_created ON checkins (uid, created_at);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create checkins table: %w", err)
	}
	return nil
}

func (s *SQLiteCheckInStore) Save(ctx context.Context, checkIn domain.CheckIn) error {
	answers, err := json.Marshal(checkIn.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	const stmt = `
INSERT INTO checkins (id, uid, answers, sentiment, score, state, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  uid=excluded.uid,
  answers=excluded.answers,
  sentiment=excluded.sentiment,
  score=excluded.score,
  state=excluded.state,
  created_at=excluded.created_at;
`
	_, err = s.db.ExecContext(ctx, stmt,
		checkIn.ID,
		checkIn.UID,
		string(answers),
		checkIn.Sentiment,
		checkIn.Score,
		string(checkIn.State),
		checkIn.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert checkin: %w", err)
	}
	return nil
}

func (s *SQLiteCheckInStore) List(ctx context.Context, uid string, limit int) ([]domain.CheckIn, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, uid, answers, sentiment, score, state, created_at
FROM checkins
WHERE uid = ?
ORDER BY created_at DESC, id DESC
LIMIT ?`, uid, limit)
	if err != nil {
		return nil, fmt.Errorf("query checkins: %w", err)
	}
	defer rows.Close()

	out := []domain.CheckIn{}
	for rows.Next() {
		var (
			c         domain.CheckIn
			answers   string
			state     string
			createdAt string
		)
		if err := rows.Scan(&c.ID, &c.UID, &answers, &c.Sentiment, &c.Score, &state, &createdAt); err != nil {
			return nil, fmt.Errorf("scan checkin: %w", err)
		}
		if err := json.Unmarshal([]byte(answers), &c.Answers); err != nil {
			return nil, fmt.Errorf("decode answers of %s: %w", c.ID, err)
		}
		c.State = domain.RiskState(state)
		c.CreatedAt, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at of %s: %w", c.ID, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checkins: %w", err)
	}
	return out, nil
}

func (s *SQLiteCheckInStore) Close() error {
	return s.db.Close()
}
