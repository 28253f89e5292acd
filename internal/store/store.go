// Package store archives problems and construction jobs to SQL, narrowed
// to the two tables this domain needs (see internal/cache for the
// companion Redis-backed enumeration cache).
package store

import (
	"bytes"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/crossplay/backend/pkg/xword"
)

// Status values a construction job can be in.
const (
	StatusQueued  = "queued"
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// Store wraps a SQL connection pool and knows whether it is talking to
// Postgres (the server, via DATABASE_URL) or SQLite (the CLI, via a plain
// file path) so its queries can use the right placeholder syntax.
type Store struct {
	db      *sql.DB
	dialect string // "postgres" or "sqlite3"
}

// New opens a Store against dsn. A "postgres://" or "postgresql://" scheme
// selects the lib/pq driver; anything else is treated as a SQLite file path,
// matching crossgen's "server talks to Postgres, CLI talks to a local file"
// split.
func New(dsn string) (*Store, error) {
	dialect := "sqlite3"
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dialect = "postgres"
	}

	db, err := sql.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", dialect, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping %s: %w", dialect, err)
	}

	return &Store{db: db, dialect: dialect}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// arg renders the i'th (1-indexed) placeholder for the store's dialect.
func (s *Store) arg(i int) string {
	if s.dialect == "postgres" {
		return fmt.Sprintf("$%d", i)
	}
	return "?"
}

// rebind substitutes $1, $2, ... in a Postgres-flavored query string for
// the store's actual dialect, so every query below can be written once in
// Postgres's $N style.
func (s *Store) rebind(query string) string {
	if s.dialect == "postgres" {
		return query
	}
	for i := 1; strings.Contains(query, fmt.Sprintf("$%d", i)); i++ {
		query = strings.ReplaceAll(query, fmt.Sprintf("$%d", i), "?")
	}
	return query
}

// InitSchema creates the problems and constructions tables if they do not
// already exist, mirroring internal/db/db.go's InitSchema shape.
func (s *Store) InitSchema() error {
	autoIncrement := "SERIAL PRIMARY KEY"
	timestampType := "TIMESTAMP"
	if s.dialect == "sqlite3" {
		autoIncrement = "INTEGER PRIMARY KEY AUTOINCREMENT"
		timestampType = "DATETIME"
	}

	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS problems (
		id TEXT PRIMARY KEY,
		height INTEGER NOT NULL,
		width INTEGER NOT NULL,
		definition TEXT NOT NULL,
		created_at %s NOT NULL
	);

	CREATE TABLE IF NOT EXISTS constructions (
		seq %s,
		id TEXT UNIQUE NOT NULL,
		problem_id TEXT NOT NULL,
		status TEXT NOT NULL,
		level INTEGER NOT NULL,
		iters INTEGER NOT NULL,
		alpha REAL NOT NULL,
		best_efficiency INTEGER,
		board_json TEXT,
		error TEXT,
		created_at %s NOT NULL,
		updated_at %s NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_constructions_problem ON constructions(problem_id);
	`, timestampType, autoIncrement, timestampType, timestampType)

	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("store: init schema: %w", err)
		}
	}
	return nil
}

// Serialize renders a Problem to the same "HxW\n<open/blocked rows>\n
// -----\n<dictionary>" text form xword.ParseProblem reads, so a stored
// problem round-trips through the store with no separate serialization
// format to keep in sync. Exported so callers can also use it as a stable
// content key (see internal/api's problemHash).
func Serialize(p *xword.Problem) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%dx%d\n", p.Height, p.Width)
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			if p.IsOpen(y, x) {
				buf.WriteByte('_')
			} else {
				buf.WriteByte('#')
			}
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("-----\n")
	for _, w := range p.Dictionary {
		buf.Write(w.Bytes())
		buf.WriteByte('\n')
	}
	return buf.String()
}

// SaveProblem archives a problem under id, storing it in the on-disk text
// format xword.ParseProblem understands.
func (s *Store) SaveProblem(id string, p *xword.Problem) error {
	query := s.rebind(`INSERT INTO problems (id, height, width, definition, created_at)
		VALUES ($1, $2, $3, $4, $5)`)
	_, err := s.db.Exec(query, id, p.Height, p.Width, Serialize(p), time.Now())
	if err != nil {
		return fmt.Errorf("store: save problem: %w", err)
	}
	return nil
}

// GetProblem loads and re-parses a problem by id.
func (s *Store) GetProblem(id string) (*xword.Problem, error) {
	query := s.rebind(`SELECT definition FROM problems WHERE id = $1`)
	var definition string
	err := s.db.QueryRow(query, id).Scan(&definition)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get problem: %w", err)
	}
	return xword.ParseProblem([]byte(definition))
}

// CreateConstruction inserts a queued construction job under id for
// problemID.
func (s *Store) CreateConstruction(id, problemID string, level, iters int, alpha float64) error {
	query := s.rebind(`INSERT INTO constructions
		(id, problem_id, status, level, iters, alpha, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`)
	now := time.Now()
	_, err := s.db.Exec(query, id, problemID, StatusQueued, level, iters, alpha, now, now)
	if err != nil {
		return fmt.Errorf("store: create construction: %w", err)
	}
	return nil
}

// MarkRunning transitions a construction job to running.
func (s *Store) MarkRunning(id string) error {
	query := s.rebind(`UPDATE constructions SET status = $1, updated_at = $2 WHERE id = $3`)
	_, err := s.db.Exec(query, StatusRunning, time.Now(), id)
	return err
}

// CompleteConstruction records a finished job's result board and efficiency.
func (s *Store) CompleteConstruction(id string, boardJSON []byte, efficiency xword.Eff) error {
	query := s.rebind(`UPDATE constructions
		SET status = $1, best_efficiency = $2, board_json = $3, updated_at = $4
		WHERE id = $5`)
	_, err := s.db.Exec(query, StatusDone, int32(efficiency), string(boardJSON), time.Now(), id)
	return err
}

// FailConstruction records a job failure.
func (s *Store) FailConstruction(id string, cause error) error {
	query := s.rebind(`UPDATE constructions SET status = $1, error = $2, updated_at = $3 WHERE id = $4`)
	_, err := s.db.Exec(query, StatusFailed, cause.Error(), time.Now(), id)
	return err
}

// Construction is a construction job's archived state.
type Construction struct {
	ID             string
	ProblemID      string
	Status         string
	Level          int
	Iters          int
	Alpha          float64
	BestEfficiency *int32
	BoardJSON      *string
	Error          *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// GetConstruction loads a job's current state by id.
func (s *Store) GetConstruction(id string) (*Construction, error) {
	query := s.rebind(`SELECT id, problem_id, status, level, iters, alpha,
		best_efficiency, board_json, error, created_at, updated_at
		FROM constructions WHERE id = $1`)
	row := s.db.QueryRow(query, id)

	var (
		c              Construction
		bestEfficiency sql.NullInt64
		boardJSON      sql.NullString
		cause          sql.NullString
	)
	err := row.Scan(&c.ID, &c.ProblemID, &c.Status, &c.Level, &c.Iters, &c.Alpha,
		&bestEfficiency, &boardJSON, &cause, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get construction: %w", err)
	}
	if bestEfficiency.Valid {
		v := int32(bestEfficiency.Int64)
		c.BestEfficiency = &v
	}
	if boardJSON.Valid {
		c.BoardJSON = &boardJSON.String
	}
	if cause.Valid {
		c.Error = &cause.String
	}
	return &c, nil
}
