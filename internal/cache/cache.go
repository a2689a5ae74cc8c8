// Package cache provides an on-disk result cache for change forests, keyed
// by the fingerprints of both input trees plus the option set. Entries are
// LZ4-compressed JSON.
package cache

import (
	"bytes"
	"crypto/sha1" //nolint:gosec // Cache keying, not security.
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pierrec/lz4/v4"

	"github.com/randlee/structdiff/pkg/diff"
)

// ErrMiss indicates the cache holds no entry for the key.
var ErrMiss = errors.New("cache miss")

// cacheFilePerm is the permission mode for cache entries.
const cacheFilePerm = 0o600

// Store is a directory-backed cache of serialized change forests.
type Store struct {
	dir string
}

// NewStore opens (creating if needed) a cache rooted at dir.
func NewStore(dir string) (*Store, error) {
	err := os.MkdirAll(dir, 0o755) //nolint:mnd // Standard directory mode.
	if err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	return &Store{dir: dir}, nil
}

// Key derives the cache key for one comparison: both tree fingerprints plus
// the option set that shaped the result.
func Key(oldFingerprint, newFingerprint string, opts diff.Options) string {
	hasher := sha1.New() //nolint:gosec // Cache keying, not security.

	hasher.Write([]byte(oldFingerprint))
	hasher.Write([]byte{0})
	hasher.Write([]byte(newFingerprint))
	hasher.Write([]byte{0})

	fmt.Fprintf(hasher, "%s|%t|%s|%t|%d",
		opts.Whitespace, opts.IncludeFormatting, opts.MinimumImpact, opts.IgnoreComments, opts.ParallelThreshold)

	return hex.EncodeToString(hasher.Sum(nil))
}

// Get loads a cached change forest. Returns ErrMiss when absent.
func (s *Store) Get(key string) ([]diff.Change, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrMiss
		}

		return nil, fmt.Errorf("read cache entry: %w", err)
	}

	decompressed, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("decompress cache entry: %w", err)
	}

	var entry entryEnvelope

	err = json.Unmarshal(decompressed, &entry)
	if err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}

	return decodeChanges(entry.Changes)
}

// Put stores a change forest under the key.
func (s *Store) Put(key string, changes []diff.Change) error {
	payload, err := json.Marshal(entryEnvelope{Changes: encodeChanges(changes)})
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	var buf bytes.Buffer

	writer := lz4.NewWriter(&buf)

	_, err = writer.Write(payload)
	if err != nil {
		return fmt.Errorf("compress cache entry: %w", err)
	}

	err = writer.Close()
	if err != nil {
		return fmt.Errorf("flush cache entry: %w", err)
	}

	err = os.WriteFile(s.path(key), buf.Bytes(), cacheFilePerm)
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}

	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".sdiff.lz4")
}

// entryEnvelope is the stored representation. Enum fields serialize as
// their stable string tokens, so entries survive enum reordering but not
// token renames.
type entryEnvelope struct {
	Changes []storedChange `json:"changes"`
}

type storedChange struct {
	Type        string         `json:"type"`
	Kind        string         `json:"kind"`
	Name        string         `json:"name,omitempty"`
	OldLocation *diff.Location `json:"oldLocation,omitempty"`
	NewLocation *diff.Location `json:"newLocation,omitempty"`
	OldContent  string         `json:"oldContent,omitempty"`
	NewContent  string         `json:"newContent,omitempty"`
	Impact      string         `json:"impact"`
	Caveats     []string       `json:"caveats,omitempty"`
	Children    []storedChange `json:"children,omitempty"`
}

func encodeChanges(changes []diff.Change) []storedChange {
	if len(changes) == 0 {
		return nil
	}

	out := make([]storedChange, 0, len(changes))

	for idx := range changes {
		change := &changes[idx]

		out = append(out, storedChange{
			Type:        change.Type.String(),
			Kind:        change.Kind.String(),
			Name:        change.Name,
			OldLocation: change.OldLocation,
			NewLocation: change.NewLocation,
			OldContent:  change.OldContent,
			NewContent:  change.NewContent,
			Impact:      change.Impact.String(),
			Caveats:     change.Caveats,
			Children:    encodeChanges(change.Children),
		})
	}

	return out
}

func decodeChanges(stored []storedChange) ([]diff.Change, error) {
	if len(stored) == 0 {
		return nil, nil
	}

	out := make([]diff.Change, 0, len(stored))

	for idx := range stored {
		entry := &stored[idx]

		changeType, err := parseChangeType(entry.Type)
		if err != nil {
			return nil, err
		}

		kind, err := parseSymbolKind(entry.Kind)
		if err != nil {
			return nil, err
		}

		impact, err := diff.ParseImpactLevel(entry.Impact)
		if err != nil {
			return nil, fmt.Errorf("cache entry: %w", err)
		}

		children, err := decodeChanges(entry.Children)
		if err != nil {
			return nil, err
		}

		out = append(out, diff.Change{
			Type:        changeType,
			Kind:        kind,
			Name:        entry.Name,
			OldLocation: entry.OldLocation,
			NewLocation: entry.NewLocation,
			OldContent:  entry.OldContent,
			NewContent:  entry.NewContent,
			Impact:      impact,
			Caveats:     entry.Caveats,
			Children:    children,
		})
	}

	return out, nil
}

func parseChangeType(s string) (diff.ChangeType, error) {
	for _, ct := range []diff.ChangeType{diff.Added, diff.Removed, diff.Modified, diff.Renamed, diff.Moved, diff.Unchanged} {
		if ct.String() == s {
			return ct, nil
		}
	}

	return diff.Added, fmt.Errorf("cache entry: unknown change type %q", s) //nolint:err113 // Corrupt-entry detail.
}

func parseSymbolKind(s string) (diff.SymbolKind, error) {
	for kind := diff.SymbolKind(0); kind < diff.SymbolKindCount; kind++ {
		if kind.String() == s {
			return kind, nil
		}
	}

	return diff.SymbolNamespace, fmt.Errorf("cache entry: unknown symbol kind %q", s) //nolint:err113 // Corrupt-entry detail.
}
