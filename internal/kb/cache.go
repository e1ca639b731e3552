package kb

import (
	"bytes"
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Cache persists knowledge-base embeddings in sqlite so restarts with an
// unchanged model skip the embedding call. A nil Cache is a no-op.
type Cache struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenCache opens (creating if needed) the embedding cache at path.
func OpenCache(path string, logger *slog.Logger) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open embedding cache: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS kb_embeddings (
			model      TEXT NOT NULL,
			fact_hash  TEXT NOT NULL,
			dim        INTEGER NOT NULL,
			vec        BLOB NOT NULL,
			created_at TEXT NOT NULL,
			PRIMARY KEY (model, fact_hash)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("init embedding cache: %w", err)
	}
	return &Cache{db: db, logger: logger.With("component", "kb_cache")}, nil
}

// Close releases the underlying database.
func (c *Cache) Close() {
	if c == nil {
		return
	}
	_ = c.db.Close()
}

// Get returns the cached vector for (model, fact), if present and intact.
func (c *Cache) Get(model, fact string) ([]float64, bool) {
	if c == nil {
		return nil, false
	}
	row := c.db.QueryRow(
		`SELECT dim, vec FROM kb_embeddings WHERE model = ? AND fact_hash = ?`,
		model, factHash(fact),
	)
	var (
		dim  int
		blob []byte
	)
	if err := row.Scan(&dim, &blob); err != nil {
		return nil, false
	}
	vec, ok := decodeVector(blob, dim)
	return vec, ok
}

// Put stores a vector for (model, fact). Failures are logged and dropped; the
// cache is an optimization, not a source of truth.
func (c *Cache) Put(model, fact string, vec []float64) {
	if c == nil {
		return
	}
	_, err := c.db.Exec(`
		INSERT OR REPLACE INTO kb_embeddings(model, fact_hash, dim, vec, created_at)
		VALUES(?,?,?,?,?)
	`, model, factHash(fact), len(vec), encodeVector(vec), time.Now().Format(time.RFC3339))
	if err != nil {
		c.logger.Warn("failed caching embedding", "error", err)
	}
}

func factHash(fact string) string {
	sum := sha256.Sum256([]byte(fact))
	return hex.EncodeToString(sum[:])
}

func encodeVector(vec []float64) []byte {
	buf := new(bytes.Buffer)
	for _, v := range vec {
		_ = binary.Write(buf, binary.LittleEndian, v)
	}
	return buf.Bytes()
}

// decodeVector reads exactly dim float64s from the blob; any short or corrupt
// blob is rejected rather than producing bogus scores.
func decodeVector(blob []byte, dim int) ([]float64, bool) {
	if dim <= 0 || len(blob) < dim*8 {
		return nil, false
	}
	buf := bytes.NewReader(blob)
	vec := make([]float64, dim)
	for i := 0; i < dim; i++ {
		if err := binary.Read(buf, binary.LittleEndian, &vec[i]); err != nil {
			return nil, false
		}
	}
	return vec, true
}
