package registry

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/teranos/doctor/errors"
)

const (
	relationExtends    = "extends"
	relationImplements = "implements"
)

// Store persists an Index in the types and type_parents tables.
type Store struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewStore creates a store over a migrated database. logger may be nil.
func NewStore(db *sql.DB, logger *zap.SugaredLogger) *Store {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Store{db: db, logger: logger}
}

// Save replaces the stored hierarchy with idx.
func (s *Store) Save(ctx context.Context, idx *Index) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	// type_parents rows go with their type via ON DELETE CASCADE.
	if _, err := tx.ExecContext(ctx, `DELETE FROM types`); err != nil {
		return errors.Wrap(err, "failed to clear types")
	}

	for _, t := range idx.Types() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO types (name, kind) VALUES (?, ?)`,
			t.Name, string(t.Kind)); err != nil {
			return errors.Wrapf(err, "failed to insert type %s", t.Name)
		}
		if err := insertParents(ctx, tx, t.Name, relationExtends, t.Extends); err != nil {
			return err
		}
		if err := insertParents(ctx, tx, t.Name, relationImplements, t.Implements); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	s.logger.Debugw("Saved type registry", "types", idx.Len())
	return nil
}

func insertParents(ctx context.Context, tx *sql.Tx, name, relation string, parents []string) error {
	for pos, parent := range parents {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO type_parents (type_name, relation, position, parent) VALUES (?, ?, ?, ?)`,
			name, relation, pos, parent); err != nil {
			return errors.Wrapf(err, "failed to insert %s parent %s of %s", relation, parent, name)
		}
	}
	return nil
}

// Load rebuilds the stored hierarchy. An empty database yields an empty Index.
func (s *Store) Load(ctx context.Context) (*Index, error) {
	types, err := s.loadTypes(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.loadParents(ctx, types); err != nil {
		return nil, err
	}

	idx, err := NewIndex(types)
	if err != nil {
		return nil, errors.Wrap(err, "stored type registry is invalid")
	}
	s.logger.Debugw("Loaded type registry", "types", idx.Len())
	return idx, nil
}

func (s *Store) loadTypes(ctx context.Context) ([]Type, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, kind FROM types ORDER BY rowid`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query types")
	}
	defer rows.Close()

	var types []Type
	for rows.Next() {
		var name, kind string
		if err := rows.Scan(&name, &kind); err != nil {
			return nil, errors.Wrap(err, "failed to scan type")
		}
		types = append(types, Type{Name: name, Kind: Kind(kind)})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate types")
	}
	return types, nil
}

// loadParents attaches stored parents to types in place.
func (s *Store) loadParents(ctx context.Context, types []Type) error {
	byName := make(map[string]int, len(types))
	for i, t := range types {
		byName[t.Name] = i
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT type_name, relation, parent FROM type_parents ORDER BY type_name, relation, position`)
	if err != nil {
		return errors.Wrap(err, "failed to query type parents")
	}
	defer rows.Close()

	for rows.Next() {
		var name, relation, parent string
		if err := rows.Scan(&name, &relation, &parent); err != nil {
			return errors.Wrap(err, "failed to scan type parent")
		}
		i, ok := byName[name]
		if !ok {
			continue
		}
		switch relation {
		case relationExtends:
			types[i].Extends = append(types[i].Extends, parent)
		case relationImplements:
			types[i].Implements = append(types[i].Implements, parent)
		}
	}
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, "failed to iterate type parents")
	}
	return nil
}

// Count returns the number of stored types.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM types`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "failed to count types")
	}
	return n, nil
}
