package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"nbdiff/internal/notebook"
)

// payloadCodec compresses snapshot payloads with zstd. Notebook cell text
// and outputs compress well and snapshots are written far more often than
// read back.
type payloadCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newPayloadCodec() (*payloadCodec, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	return &payloadCodec{enc: enc, dec: dec}, nil
}

func (c *payloadCodec) compress(data []byte) []byte {
	return c.enc.EncodeAll(data, nil)
}

func (c *payloadCodec) decompress(data []byte) ([]byte, error) {
	return c.dec.DecodeAll(data, nil)
}

// snapshotPayload is the stored JSON shape of a registered document.
type snapshotPayload struct {
	Cells    []notebook.CellDto     `json:"cells"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// SaveSnapshot records a full document registration.
// Returns the snapshot row id.
func (db *DB) SaveSnapshot(uri string, cells []notebook.CellDto, metadata map[string]interface{}) (string, error) {
	raw, err := json.Marshal(snapshotPayload{Cells: cells, Metadata: metadata})
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	id := uuid.New().String()
	err = db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO snapshots (id, uri, cell_count, payload, created_at) VALUES (?, ?, ?, ?, ?)`,
			id, uri, len(cells), db.encoder.compress(raw), time.Now().Unix(),
		)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to save snapshot: %w", err)
	}
	return id, nil
}

// LoadLatestSnapshot returns the most recent snapshot for a URI, or
// sql.ErrNoRows when none exists.
func (db *DB) LoadLatestSnapshot(uri string) ([]notebook.CellDto, map[string]interface{}, error) {
	var blob []byte
	err := db.conn.QueryRow(
		`SELECT payload FROM snapshots WHERE uri = ? ORDER BY created_at DESC, id LIMIT 1`,
		uri,
	).Scan(&blob)
	if err != nil {
		return nil, nil, err
	}

	raw, err := db.encoder.decompress(blob)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decompress snapshot: %w", err)
	}

	var payload snapshotPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return payload.Cells, payload.Metadata, nil
}

// RecordDiff appends one diff computation to the audit trail.
func (db *DB) RecordDiff(originalURI, modifiedURI string, changeCount, moveCount int, duration time.Duration) error {
	err := db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO diff_audit (id, original_uri, modified_uri, change_count, move_count, duration_us, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), originalURI, modifiedURI, changeCount, moveCount,
			duration.Microseconds(), time.Now().Unix(),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to record diff: %w", err)
	}
	return nil
}
