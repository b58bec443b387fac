// Package storage defines persistence contracts for character sheets.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/grandline/internal/services/sheets/domain/character"
)

// ErrNotFound indicates a character is missing or belongs to another owner.
var ErrNotFound = errors.New("record not found")

// CharacterRecord is one stored character sheet.
type CharacterRecord struct {
	ID        string
	OwnerID   string
	Character character.Character
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CharacterPage stores one page of character records.
type CharacterPage struct {
	Characters    []CharacterRecord
	NextPageToken string
}

// CharacterStore persists character sheets keyed by owner and id.
type CharacterStore interface {
	// PutCharacter creates or replaces a record. Replacing a record owned by
	// someone else fails with ErrNotFound.
	PutCharacter(ctx context.Context, record CharacterRecord) error
	GetCharacter(ctx context.Context, ownerID, characterID string) (CharacterRecord, error)
	// ListCharacters returns the owner's records ordered by id. filter is an
	// AIP-160 expression over name, race, class, profession, potential and
	// class_level.
	ListCharacters(ctx context.Context, ownerID string, pageSize int, pageToken string, filter string) (CharacterPage, error)
	DeleteCharacter(ctx context.Context, ownerID, characterID string) error
}
