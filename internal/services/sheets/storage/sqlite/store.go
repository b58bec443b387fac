// Package sqlite provides a SQLite-backed character sheet store.
package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/grandline/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/grandline/internal/services/sheets/domain/character"
	"github.com/louisbranch/grandline/internal/services/sheets/storage"
	"github.com/louisbranch/grandline/internal/services/sheets/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists character sheets in SQLite. Each row holds the canonical
// flat record as a JSON document plus summary columns used for filtering.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite sheet store, creating parent directories, and applies
// embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutCharacter creates or replaces one character record.
func (s *Store) PutCharacter(ctx context.Context, record storage.CharacterRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(record.ID)
	ownerID := strings.TrimSpace(record.OwnerID)
	if id == "" {
		return fmt.Errorf("character id is required")
	}
	if ownerID == "" {
		return fmt.Errorf("owner id is required")
	}
	createdAt := record.CreatedAt.UTC()
	updatedAt := record.UpdatedAt.UTC()
	if createdAt.IsZero() && updatedAt.IsZero() {
		createdAt = time.Now().UTC()
		updatedAt = createdAt
	} else {
		if createdAt.IsZero() {
			createdAt = updatedAt
		}
		if updatedAt.IsZero() {
			updatedAt = createdAt
		}
	}

	document, err := json.Marshal(record.Character.Record())
	if err != nil {
		return fmt.Errorf("encode character: %w", err)
	}
	c := record.Character
	result, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO characters (
		   id, owner_id, name, race, class, profession, potential, class_level,
		   document, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   race = excluded.race,
		   class = excluded.class,
		   profession = excluded.profession,
		   potential = excluded.potential,
		   class_level = excluded.class_level,
		   document = excluded.document,
		   updated_at = excluded.updated_at
		 WHERE characters.owner_id = excluded.owner_id`,
		id,
		ownerID,
		c.Name,
		c.Race,
		c.Class,
		c.Profession,
		c.Potential,
		c.ClassLevel,
		string(document),
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("put character: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("put character: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetCharacter returns one character owned by ownerID.
func (s *Store) GetCharacter(ctx context.Context, ownerID, characterID string) (storage.CharacterRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.CharacterRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.CharacterRecord{}, fmt.Errorf("storage is not configured")
	}
	ownerID = strings.TrimSpace(ownerID)
	characterID = strings.TrimSpace(characterID)
	if ownerID == "" || characterID == "" {
		return storage.CharacterRecord{}, fmt.Errorf("owner id and character id are required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, owner_id, document, created_at, updated_at
		   FROM characters
		  WHERE owner_id = ? AND id = ?`,
		ownerID,
		characterID,
	)
	record, err := scanCharacter(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.CharacterRecord{}, storage.ErrNotFound
		}
		return storage.CharacterRecord{}, fmt.Errorf("get character: %w", err)
	}
	return record, nil
}

// ListCharacters returns one page of the owner's characters.
func (s *Store) ListCharacters(ctx context.Context, ownerID string, pageSize int, pageToken string, filter string) (storage.CharacterPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.CharacterPage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.CharacterPage{}, fmt.Errorf("storage is not configured")
	}
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return storage.CharacterPage{}, fmt.Errorf("owner id is required")
	}
	if pageSize <= 0 {
		return storage.CharacterPage{}, fmt.Errorf("page size must be greater than zero")
	}
	cond, err := parseCharacterFilter(filter)
	if err != nil {
		return storage.CharacterPage{}, err
	}

	var query strings.Builder
	query.WriteString(`SELECT id, owner_id, document, created_at, updated_at
	   FROM characters
	  WHERE owner_id = ?`)
	params := []any{ownerID}
	if pageToken = strings.TrimSpace(pageToken); pageToken != "" {
		query.WriteString(" AND id > ?")
		params = append(params, pageToken)
	}
	if cond.Clause != "" {
		query.WriteString(" AND " + cond.Clause)
		params = append(params, cond.Params...)
	}
	query.WriteString(" ORDER BY id ASC LIMIT ?")
	params = append(params, pageSize+1)

	rows, err := s.sqlDB.QueryContext(ctx, query.String(), params...)
	if err != nil {
		return storage.CharacterPage{}, fmt.Errorf("list characters: %w", err)
	}
	defer rows.Close()

	page := storage.CharacterPage{
		Characters: make([]storage.CharacterRecord, 0, pageSize),
	}
	for rows.Next() {
		record, err := scanCharacter(rows)
		if err != nil {
			return storage.CharacterPage{}, fmt.Errorf("list characters: %w", err)
		}
		page.Characters = append(page.Characters, record)
	}
	if err := rows.Err(); err != nil {
		return storage.CharacterPage{}, fmt.Errorf("list characters: %w", err)
	}
	if len(page.Characters) > pageSize {
		page.NextPageToken = page.Characters[pageSize-1].ID
		page.Characters = page.Characters[:pageSize]
	}
	return page, nil
}

// DeleteCharacter removes one character owned by ownerID.
func (s *Store) DeleteCharacter(ctx context.Context, ownerID, characterID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	ownerID = strings.TrimSpace(ownerID)
	characterID = strings.TrimSpace(characterID)
	if ownerID == "" || characterID == "" {
		return fmt.Errorf("owner id and character id are required")
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM characters WHERE owner_id = ? AND id = ?`, ownerID, characterID)
	if err != nil {
		return fmt.Errorf("delete character: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete character: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCharacter(row scanner) (storage.CharacterRecord, error) {
	var (
		record    storage.CharacterRecord
		document  string
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&record.ID, &record.OwnerID, &document, &createdAt, &updatedAt); err != nil {
		return storage.CharacterRecord{}, err
	}
	decoder := json.NewDecoder(bytes.NewReader([]byte(document)))
	decoder.UseNumber()
	var flat map[string]any
	if err := decoder.Decode(&flat); err != nil {
		return storage.CharacterRecord{}, fmt.Errorf("decode character %s: %w", record.ID, err)
	}
	c, err := character.FromRecord(flat)
	if err != nil {
		return storage.CharacterRecord{}, fmt.Errorf("decode character %s: %w", record.ID, err)
	}
	record.Character = c
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

var _ storage.CharacterStore = (*Store)(nil)
