package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"cee/internal/graph"
	"cee/internal/output"
)

// ErrNoSnapshot is returned when no snapshot exists for a (course, user)
// scope.
var ErrNoSnapshot = fmt.Errorf("no snapshot found")

// SaveGraph serializes, compresses, and stores a snapshot of the graph.
// Returns the snapshot id.
func (db *DB) SaveGraph(g *graph.Graph) (string, error) {
	payload, err := output.EncodeGraph(g)
	if err != nil {
		return "", fmt.Errorf("serialize graph: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return "", fmt.Errorf("init compressor: %w", err)
	}
	compressed := enc.EncodeAll(payload, nil)
	enc.Close()

	id := uuid.NewString()
	err = db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO graph_snapshot (id, course_id, user_id, version, created_at, payload)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, g.Metadata.CourseID, g.Metadata.UserID, g.Metadata.Version,
			time.Now().UTC().Format(time.RFC3339Nano), compressed,
		)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("store snapshot: %w", err)
	}

	db.logger.Debug("graph snapshot saved",
		"snapshot", id,
		"course", g.Metadata.CourseID,
		"bytes", len(compressed))
	return id, nil
}

// LoadGraph loads the most recent snapshot for a (course, user) scope.
func (db *DB) LoadGraph(courseID, userID string) (*graph.Graph, error) {
	var compressed []byte
	err := db.conn.QueryRow(
		`SELECT payload FROM graph_snapshot
		 WHERE course_id = ? AND user_id = ?
		 ORDER BY rowid DESC LIMIT 1`,
		courseID, userID,
	).Scan(&compressed)
	if err == sql.ErrNoRows {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("init decompressor: %w", err)
	}
	defer dec.Close()
	payload, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}

	g, err := output.DecodeGraph(payload)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return g, nil
}

// PruneSnapshots keeps the newest `keep` snapshots per scope and deletes the
// rest. Returns the number of rows removed.
func (db *DB) PruneSnapshots(courseID, userID string, keep int) (int64, error) {
	if keep < 1 {
		keep = 1
	}
	res, err := db.conn.Exec(
		`DELETE FROM graph_snapshot
		 WHERE course_id = ? AND user_id = ? AND id NOT IN (
			SELECT id FROM graph_snapshot
			WHERE course_id = ? AND user_id = ?
			ORDER BY rowid DESC LIMIT ?
		 )`,
		courseID, userID, courseID, userID, keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return res.RowsAffected()
}

// AppendSignal journals one applied signal for later replay or audit.
func (db *DB) AppendSignal(courseID, userID, conceptID string, sig graph.BehaviorSignal) error {
	payload, err := json.Marshal(sig)
	if err != nil {
		return fmt.Errorf("serialize signal: %w", err)
	}
	return db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO signal_journal (course_id, user_id, concept_id, kind, recorded_at, payload)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			courseID, userID, conceptID, string(sig.Kind),
			sig.Timestamp.UTC().Format(time.RFC3339Nano), string(payload),
		)
		return err
	})
}

// JournalEntry is one journaled signal with its target concept.
type JournalEntry struct {
	ConceptID string
	Signal    graph.BehaviorSignal
}

// Signals returns the journal for a scope in application order.
func (db *DB) Signals(courseID, userID string) ([]JournalEntry, error) {
	rows, err := db.conn.Query(
		`SELECT concept_id, payload FROM signal_journal
		 WHERE course_id = ? AND user_id = ? ORDER BY id`,
		courseID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("read signal journal: %w", err)
	}
	defer rows.Close()

	var out []JournalEntry
	for rows.Next() {
		var entry JournalEntry
		var payload string
		if err := rows.Scan(&entry.ConceptID, &payload); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payload), &entry.Signal); err != nil {
			return nil, fmt.Errorf("decode journaled signal: %w", err)
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}
