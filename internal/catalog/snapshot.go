package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	boltdb "github.com/andrew-solarstorm/bolt-db"
	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"github.com/hxuan190/price-engine/internal/domain"
)

const (
	TokensBucket = "tokens"
	MetaBucket   = "meta"

	capturedAtKey = "captured_at"

	DefaultDBPath = "./data/price-engine.db"
)

// StoredToken is the on-disk shape of a catalog record. Position
// preserves catalog order across a restore, since bucket listing is
// unordered.
type StoredToken struct {
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
	Source   string `json:"source"`
	Position int    `json:"position"`
}

type storedMeta struct {
	CapturedAt time.Time `json:"capturedAt"`
	TokenCount int       `json:"tokenCount"`
}

// SnapshotStore persists the token catalog so a restart can warm-start
// without a live fetch. Corruption or absence is never fatal.
type SnapshotStore struct {
	db     *boltdb.BoltDatabase
	dbPath string
}

func NewSnapshotStore(dbPath string) (*SnapshotStore, error) {
	if dbPath == "" {
		dbPath = DefaultDBPath
	}
	os.MkdirAll(filepath.Dir(dbPath), 0755)

	db := boltdb.NewBoltDatabase(dbPath)
	if db == nil {
		return nil, fmt.Errorf("failed to open snapshot database at %s", dbPath)
	}

	log.Info().Str("path", dbPath).Msg("[snapshotStore] opened database")

	return &SnapshotStore{
		db:     db,
		dbPath: dbPath,
	}, nil
}

func (s *SnapshotStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save writes the full catalog plus a capture timestamp in one batch.
func (s *SnapshotStore) Save(capturedAt time.Time, tokens []domain.TokenMetadata) error {
	batch := s.db.NewBatch()

	for i, token := range tokens {
		stored := StoredToken{
			Address:  token.Address,
			Name:     token.Name,
			Symbol:   token.Symbol,
			Decimals: token.Decimals,
			Source:   string(token.Source),
			Position: i,
		}
		data, err := sonic.Marshal(stored)
		if err != nil {
			return fmt.Errorf("failed to marshal token %s: %w", token.Address, err)
		}

		value := data
		op := &boltdb.WriteOperation{
			Bucket: []byte(TokensBucket),
			Key:    []byte(token.Address),
			Value:  &value,
			Op:     boltdb.OpSet,
		}
		if err := batch.Add(op); err != nil {
			return fmt.Errorf("failed to add token %s to batch: %w", token.Address, err)
		}
	}

	meta, err := sonic.Marshal(storedMeta{CapturedAt: capturedAt, TokenCount: len(tokens)})
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot meta: %w", err)
	}
	metaOp := &boltdb.WriteOperation{
		Bucket: []byte(MetaBucket),
		Key:    []byte(capturedAtKey),
		Value:  &meta,
		Op:     boltdb.OpSet,
	}
	if err := batch.Add(metaOp); err != nil {
		return fmt.Errorf("failed to add snapshot meta to batch: %w", err)
	}

	if err := batch.Execute(); err != nil {
		log.Error().Err(err).Int("count", len(tokens)).Msg("[snapshotStore] FAILED to persist snapshot")
		return err
	}

	log.Info().Int("count", len(tokens)).Time("captured_at", capturedAt).Msg("[snapshotStore] persisted catalog snapshot")
	return nil
}

// Load restores the most recent snapshot. A missing or unreadable
// snapshot returns a zero time and no tokens; unreadable individual
// records are skipped.
func (s *SnapshotStore) Load() (time.Time, []domain.TokenMetadata, error) {
	metaData, err := s.db.List(MetaBucket)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("failed to list snapshot meta: %w", err)
	}
	raw, ok := metaData[capturedAtKey]
	if !ok {
		return time.Time{}, nil, nil
	}
	var meta storedMeta
	if err := sonic.Unmarshal(raw, &meta); err != nil {
		log.Warn().Err(err).Msg("[snapshotStore] unreadable snapshot meta; treating as cold start")
		return time.Time{}, nil, nil
	}

	data, err := s.db.List(TokensBucket)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("failed to list snapshot tokens: %w", err)
	}

	stored := make([]StoredToken, 0, len(data))
	skipped := 0
	for address, value := range data {
		var st StoredToken
		if err := sonic.Unmarshal(value, &st); err != nil {
			log.Warn().Str("address", address).Err(err).Msg("[snapshotStore] failed to unmarshal token, skipping")
			skipped++
			continue
		}
		stored = append(stored, st)
	}
	sort.Slice(stored, func(i, j int) bool { return stored[i].Position < stored[j].Position })

	// A shrunken catalog leaves stale records from older snapshots in the
	// bucket; TokenCount bounds the restore to the latest capture.
	if meta.TokenCount > 0 && len(stored) > meta.TokenCount {
		stored = stored[:meta.TokenCount]
	}

	tokens := make([]domain.TokenMetadata, 0, len(stored))
	for _, st := range stored {
		tokens = append(tokens, domain.TokenMetadata{
			Address:  st.Address,
			Name:     st.Name,
			Symbol:   st.Symbol,
			Decimals: st.Decimals,
			Source:   domain.MetadataSource(st.Source),
		})
	}

	if skipped > 0 {
		log.Warn().Int("loaded", len(tokens)).Int("skipped", skipped).Msg("[snapshotStore] snapshot restore completed with errors")
	} else {
		log.Info().Int("loaded", len(tokens)).Time("captured_at", meta.CapturedAt).Msg("[snapshotStore] snapshot restored")
	}

	return meta.CapturedAt, tokens, nil
}
