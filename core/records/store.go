package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when no record matches the lookup.
var ErrNotFound = errors.New("record not found")

const batchSize = 500

// Store is the read side of the catalog used by the export pipeline.
type Store interface {
	// GetByID returns the record with the given id or ErrNotFound.
	GetByID(ctx context.Context, id string) (*Item, error)
	// FindByName returns the record with the given name (case-insensitive) or ErrNotFound.
	FindByName(ctx context.Context, name string) (*Item, error)
	// IterateAll calls fn for every record in id order until fn returns an error.
	IterateAll(ctx context.Context, fn func(*Item) error) error
	// ResolveGeometryCandidates returns the record's geometry references in input order.
	ResolveGeometryCandidates(ctx context.Context, item *Item) ([]Candidate, error)
}

// GormStore implements Store on top of gorm.
type GormStore struct {
	db    *gorm.DB
	index *NameIndex
}

// NewStore creates a store. A zero ttl disables name index caching.
func NewStore(db *gorm.DB, ttl time.Duration) *GormStore {
	s := &GormStore{db: db}
	s.index = NewNameIndex(ttl, s.loadNames)
	return s
}

// DB exposes the underlying connection.
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

// Migrate creates or updates the catalog tables.
func (s *GormStore) Migrate() error {
	if err := s.db.AutoMigrate(&Record{}, &Geometry{}); err != nil {
		return fmt.Errorf("failed to migrate catalog: %w", err)
	}
	return nil
}

// GetByID implements Store.
func (s *GormStore) GetByID(ctx context.Context, id string) (*Item, error) {
	var rec Record
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load record %s: %w", id, err)
	}
	return rec.ToItem()
}

// FindByName implements Store.
func (s *GormStore) FindByName(ctx context.Context, name string) (*Item, error) {
	id, ok, err := s.index.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// IterateAll implements Store.
func (s *GormStore) IterateAll(ctx context.Context, fn func(*Item) error) error {
	var batch []Record
	var fnErr error
	res := s.db.WithContext(ctx).FindInBatches(&batch, batchSize, func(tx *gorm.DB, _ int) error {
		for _, rec := range batch {
			item, err := rec.ToItem()
			if err != nil {
				fnErr = err
				return err
			}
			if err := fn(item); err != nil {
				fnErr = err
				return err
			}
		}
		return nil
	})
	if fnErr != nil {
		return fnErr
	}
	if res.Error != nil {
		return fmt.Errorf("failed to iterate records: %w", res.Error)
	}
	return nil
}

// ResolveGeometryCandidates implements Store.
func (s *GormStore) ResolveGeometryCandidates(ctx context.Context, item *Item) ([]Candidate, error) {
	var rows []Geometry
	if err := s.db.WithContext(ctx).Where("record_id = ?", item.ID).Order("ord").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load geometry of record %s: %w", item.ID, err)
	}
	out := make([]Candidate, 0, len(rows))
	for _, r := range rows {
		out = append(out, Candidate{Tag: r.Tag, Path: r.Path})
	}
	return out, nil
}

// Scan calls fn with every record whose name or path contains term
// (case-insensitive), in id order, until fn returns false.
// An empty term matches everything.
func (s *GormStore) Scan(ctx context.Context, term string, fn func(Summary) bool) error {
	q := s.db.WithContext(ctx).Model(&Record{}).Select("id", "name", "type", "path").Order("id")
	if term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(path) LIKE ?", pattern, pattern)
	}
	return s.scan(q, fn)
}

// ScanPrefix calls fn with every record whose path starts with prefix, ordered
// by path then id, until fn returns false.
func (s *GormStore) ScanPrefix(ctx context.Context, prefix string, fn func(Summary) bool) error {
	q := s.db.WithContext(ctx).Model(&Record{}).Select("id", "name", "type", "path").
		Where("SUBSTR(path, 1, ?) = ?", len(prefix), prefix).Order("path").Order("id")
	return s.scan(q, fn)
}

func (s *GormStore) scan(q *gorm.DB, fn func(Summary) bool) error {
	rows, err := q.Rows()
	if err != nil {
		return fmt.Errorf("failed to scan records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec Record
		if err := s.db.ScanRows(rows, &rec); err != nil {
			return fmt.Errorf("failed to read record row: %w", err)
		}
		if !fn(rec.ToSummary()) {
			return nil
		}
	}
	return rows.Err()
}

// Import reads a JSON-lines dump and upserts every record and its geometry
// list. It returns the number of records written.
func (s *GormStore) Import(ctx context.Context, r io.Reader) (int, error) {
	dec := json.NewDecoder(r)
	count := 0
	pending := make([]DumpEntry, 0, batchSize)

	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return writeEntries(tx, pending)
		})
		if err != nil {
			return err
		}
		count += len(pending)
		pending = pending[:0]
		return nil
	}

	for {
		var entry DumpEntry
		err := dec.Decode(&entry)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, fmt.Errorf("failed to decode record %d: %w", count+len(pending)+1, err)
		}
		if entry.ID == "" {
			return count, fmt.Errorf("record %d has no id", count+len(pending)+1)
		}
		pending = append(pending, entry)
		if len(pending) == batchSize {
			if err := flush(); err != nil {
				return count, err
			}
		}
	}
	if err := flush(); err != nil {
		return count, err
	}
	s.index.Invalidate()
	return count, nil
}

func writeEntries(tx *gorm.DB, entries []DumpEntry) error {
	recs := make([]Record, 0, len(entries))
	ids := make([]string, 0, len(entries))
	var geoms []Geometry
	for _, e := range entries {
		props := datatypes.JSON(e.Properties)
		if len(props) == 0 {
			props = datatypes.JSON("{}")
		}
		recs = append(recs, Record{ID: e.ID, Name: e.Name, Type: e.Type, Path: e.Path, Properties: props})
		ids = append(ids, e.ID)
		for i, g := range e.Geometry {
			geoms = append(geoms, Geometry{RecordID: e.ID, Ord: i, Tag: g.Tag, Path: g.Path})
		}
	}

	if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&recs).Error; err != nil {
		return fmt.Errorf("failed to upsert records: %w", err)
	}
	if err := tx.Where("record_id IN ?", ids).Delete(&Geometry{}).Error; err != nil {
		return fmt.Errorf("failed to clear geometry: %w", err)
	}
	if len(geoms) > 0 {
		if err := tx.CreateInBatches(&geoms, batchSize).Error; err != nil {
			return fmt.Errorf("failed to insert geometry: %w", err)
		}
	}
	return nil
}

func (s *GormStore) loadNames(ctx context.Context) (map[string]string, error) {
	type row struct {
		ID   string
		Name string
	}
	var rows []row
	if err := s.db.WithContext(ctx).Model(&Record{}).Select("id", "name").Order("id").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load record names: %w", err)
	}
	names := make(map[string]string, len(rows))
	for _, r := range rows {
		key := strings.ToLower(r.Name)
		if _, exists := names[key]; !exists {
			names[key] = r.ID
		}
	}
	return names, nil
}
