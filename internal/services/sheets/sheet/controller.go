// Package sheet coordinates character sheet operations: it loads a
// snapshot, runs the engine and persists the result.
package sheet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/grandline/internal/platform/errors"
	"github.com/louisbranch/grandline/internal/platform/id"
	platformotel "github.com/louisbranch/grandline/internal/platform/otel"
	"github.com/louisbranch/grandline/internal/services/sheets/archive"
	"github.com/louisbranch/grandline/internal/services/sheets/domain/character"
	"github.com/louisbranch/grandline/internal/services/sheets/domain/engine"
	"github.com/louisbranch/grandline/internal/services/sheets/domain/progression"
	"github.com/louisbranch/grandline/internal/services/sheets/domain/vitals"
	"github.com/louisbranch/grandline/internal/services/sheets/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/louisbranch/grandline/internal/services/sheets/sheet"

// CopySuffix is appended to the name of a duplicated character.
const CopySuffix = " (Cópia)"

// ActionRestoreAll resets both pools to their adjusted max.
const ActionRestoreAll = "restore_all"

// Page size bounds for List.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Controller runs sheet operations against a record store. It holds no
// mutable state and is safe for concurrent use.
type Controller struct {
	store  storage.CharacterStore
	clock  func() time.Time
	newID  func() (string, error)
	tracer trace.Tracer
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithIDGenerator overrides character id generation.
func WithIDGenerator(newID func() (string, error)) Option {
	return func(c *Controller) {
		if newID != nil {
			c.newID = newID
		}
	}
}

// NewController returns a controller backed by store.
func NewController(store storage.CharacterStore, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		clock:  time.Now,
		newID:  id.NewID,
		tracer: platformotel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Export is one encoded character file.
type Export struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Create stores a new character built from the defaults plus an optional
// partial record.
func (c *Controller) Create(ctx context.Context, ownerID string, record map[string]any) (storage.CharacterRecord, error) {
	ctx, span := c.start(ctx, "Create", ownerID, "")
	defer span.End()

	if err := requireOwner(ownerID); err != nil {
		return storage.CharacterRecord{}, failSpan(span, err)
	}
	sheet, err := engine.Recompute(engine.New(), engine.EditsFromRecord(record)...)
	if err != nil {
		return storage.CharacterRecord{}, failSpan(span, err)
	}
	out, err := c.insert(ctx, ownerID, sheet)
	return out, failSpan(span, err)
}

// Get returns one character.
func (c *Controller) Get(ctx context.Context, ownerID, characterID string) (storage.CharacterRecord, error) {
	ctx, span := c.start(ctx, "Get", ownerID, characterID)
	defer span.End()

	out, err := c.load(ctx, ownerID, characterID)
	return out, failSpan(span, err)
}

// List returns one page of the owner's characters. pageSize is clamped to
// [1, MaxPageSize], with DefaultPageSize for non-positive values.
func (c *Controller) List(ctx context.Context, ownerID string, pageSize int, pageToken, filter string) (storage.CharacterPage, error) {
	ctx, span := c.start(ctx, "List", ownerID, "")
	defer span.End()

	if err := c.ready(ownerID); err != nil {
		return storage.CharacterPage{}, failSpan(span, err)
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	page, err := c.store.ListCharacters(ctx, ownerID, pageSize, pageToken, filter)
	if err != nil {
		if apperrors.GetCode(err) != apperrors.CodeUnknown {
			return storage.CharacterPage{}, failSpan(span, err)
		}
		return storage.CharacterPage{}, failSpan(span, fmt.Errorf("list characters: %w", err))
	}
	span.SetAttributes(attribute.Int("sheet.page.count", len(page.Characters)))
	return page, nil
}

// Edit applies field edits and recomputes the sheet. An invalid edit leaves
// the stored record untouched.
func (c *Controller) Edit(ctx context.Context, ownerID, characterID string, edits []engine.Edit) (storage.CharacterRecord, error) {
	ctx, span := c.start(ctx, "Edit", ownerID, characterID)
	defer span.End()
	span.SetAttributes(attribute.Int("sheet.edit.count", len(edits)))

	out, err := c.mutate(ctx, ownerID, characterID, func(sheet character.Character) (character.Character, error) {
		return engine.Recompute(sheet, edits...)
	})
	return out, failSpan(span, err)
}

// Delete removes one character.
func (c *Controller) Delete(ctx context.Context, ownerID, characterID string) error {
	ctx, span := c.start(ctx, "Delete", ownerID, characterID)
	defer span.End()

	if err := c.ready(ownerID); err != nil {
		return failSpan(span, err)
	}
	if err := requireCharacterID(characterID); err != nil {
		return failSpan(span, err)
	}
	if err := c.store.DeleteCharacter(ctx, ownerID, characterID); err != nil {
		return failSpan(span, storeError("delete character", err))
	}
	return nil
}

// Duplicate stores a copy of a character under a new id.
func (c *Controller) Duplicate(ctx context.Context, ownerID, characterID string) (storage.CharacterRecord, error) {
	ctx, span := c.start(ctx, "Duplicate", ownerID, characterID)
	defer span.End()

	source, err := c.load(ctx, ownerID, characterID)
	if err != nil {
		return storage.CharacterRecord{}, failSpan(span, err)
	}
	copied := source.Character.Clone()
	copied.Name += CopySuffix
	out, err := c.insert(ctx, ownerID, engine.Settle(copied))
	return out, failSpan(span, err)
}

// ApplyVital runs a pool action, or restore_all for both pools.
func (c *Controller) ApplyVital(ctx context.Context, ownerID, characterID, pool, action string, amount int) (storage.CharacterRecord, error) {
	ctx, span := c.start(ctx, "ApplyVital", ownerID, characterID)
	defer span.End()
	span.SetAttributes(
		attribute.String("sheet.vital.pool", pool),
		attribute.String("sheet.vital.action", action),
		attribute.Int("sheet.vital.amount", amount),
	)

	var apply func(character.Character) (character.Character, error)
	if strings.EqualFold(strings.TrimSpace(action), ActionRestoreAll) {
		apply = func(sheet character.Character) (character.Character, error) {
			return vitals.RestoreAll(sheet), nil
		}
	} else {
		parsedPool, err := vitals.ParsePool(pool)
		if err != nil {
			return storage.CharacterRecord{}, failSpan(span, err)
		}
		parsedAction, err := vitals.ParseAction(action)
		if err != nil {
			return storage.CharacterRecord{}, failSpan(span, err)
		}
		apply = func(sheet character.Character) (character.Character, error) {
			return vitals.ApplyTo(sheet, parsedPool, parsedAction, amount)
		}
	}
	out, err := c.mutate(ctx, ownerID, characterID, func(sheet character.Character) (character.Character, error) {
		next, err := apply(sheet)
		if err != nil {
			return sheet, err
		}
		return engine.Settle(next), nil
	})
	return out, failSpan(span, err)
}

// Progress runs one ledger operation.
func (c *Controller) Progress(ctx context.Context, ownerID, characterID string, op progression.Op) (storage.CharacterRecord, error) {
	ctx, span := c.start(ctx, "Progress", ownerID, characterID)
	defer span.End()
	span.SetAttributes(
		attribute.String("sheet.progression.action", string(op.Action)),
		attribute.String("sheet.progression.list", string(op.List)),
	)

	out, err := c.mutate(ctx, ownerID, characterID, func(sheet character.Character) (character.Character, error) {
		next, err := progression.Apply(sheet, op)
		if err != nil {
			return sheet, err
		}
		return engine.Settle(next), nil
	})
	return out, failSpan(span, err)
}

// Benefits returns the cumulative benefit lines of one leveled entry.
func (c *Controller) Benefits(ctx context.Context, ownerID, characterID string, index int, locale string) ([]string, error) {
	ctx, span := c.start(ctx, "Benefits", ownerID, characterID)
	defer span.End()

	record, err := c.load(ctx, ownerID, characterID)
	if err != nil {
		return nil, failSpan(span, err)
	}
	lines, err := progression.EntryBenefits(record.Character, index, locale)
	return lines, failSpan(span, err)
}

// Import stores a new character decoded from a file.
func (c *Controller) Import(ctx context.Context, ownerID string, format archive.Format, data []byte) (storage.CharacterRecord, error) {
	ctx, span := c.start(ctx, "Import", ownerID, "")
	defer span.End()
	span.SetAttributes(attribute.String("sheet.format", string(format)), attribute.Int("sheet.bytes", len(data)))

	if err := requireOwner(ownerID); err != nil {
		return storage.CharacterRecord{}, failSpan(span, err)
	}
	sheet, err := archive.Import(format, data)
	if err != nil {
		return storage.CharacterRecord{}, failSpan(span, err)
	}
	out, err := c.insert(ctx, ownerID, sheet)
	return out, failSpan(span, err)
}

// Export encodes one character as a file.
func (c *Controller) Export(ctx context.Context, ownerID, characterID string, format archive.Format) (Export, error) {
	ctx, span := c.start(ctx, "Export", ownerID, characterID)
	defer span.End()
	span.SetAttributes(attribute.String("sheet.format", string(format)))

	record, err := c.load(ctx, ownerID, characterID)
	if err != nil {
		return Export{}, failSpan(span, err)
	}
	data, err := archive.Export(format, record.Character)
	if err != nil {
		return Export{}, failSpan(span, err)
	}
	return Export{
		FileName:    archive.FileName(record.Character.Name, format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

func (c *Controller) start(ctx context.Context, op, ownerID, characterID string) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	tracer := c.tracer
	if tracer == nil {
		tracer = platformotel.Tracer(tracerName)
	}
	attrs := []attribute.KeyValue{attribute.String("sheet.owner_id", ownerID)}
	if characterID != "" {
		attrs = append(attrs, attribute.String("sheet.character_id", characterID))
	}
	return tracer.Start(ctx, "sheet."+op, trace.WithAttributes(attrs...))
}

func failSpan(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (c *Controller) ready(ownerID string) error {
	if c == nil || c.store == nil {
		return errors.New("character store is not configured")
	}
	return requireOwner(ownerID)
}

func requireOwner(ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return apperrors.New(apperrors.CodeOwnerRequired, "owner id is required")
	}
	return nil
}

func requireCharacterID(characterID string) error {
	if strings.TrimSpace(characterID) == "" {
		return apperrors.New(apperrors.CodeCharacterIDRequired, "character id is required")
	}
	return nil
}

func storeError(op string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.Wrap(apperrors.CodeNotFound, "character not found", err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (c *Controller) now() time.Time {
	return c.clock().UTC()
}

func (c *Controller) load(ctx context.Context, ownerID, characterID string) (storage.CharacterRecord, error) {
	if err := c.ready(ownerID); err != nil {
		return storage.CharacterRecord{}, err
	}
	if err := requireCharacterID(characterID); err != nil {
		return storage.CharacterRecord{}, err
	}
	record, err := c.store.GetCharacter(ctx, ownerID, characterID)
	if err != nil {
		return storage.CharacterRecord{}, storeError("get character", err)
	}
	return record, nil
}

func (c *Controller) insert(ctx context.Context, ownerID string, sheet character.Character) (storage.CharacterRecord, error) {
	if err := c.ready(ownerID); err != nil {
		return storage.CharacterRecord{}, err
	}
	characterID, err := c.newID()
	if err != nil {
		return storage.CharacterRecord{}, fmt.Errorf("create character: %w", err)
	}
	now := c.now()
	record := storage.CharacterRecord{
		ID:        characterID,
		OwnerID:   ownerID,
		Character: sheet,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.store.PutCharacter(ctx, record); err != nil {
		return storage.CharacterRecord{}, storeError("create character", err)
	}
	return record, nil
}

// mutate loads a record, applies fn and stores the result. Errors from fn
// leave the record unchanged.
func (c *Controller) mutate(ctx context.Context, ownerID, characterID string, fn func(character.Character) (character.Character, error)) (storage.CharacterRecord, error) {
	record, err := c.load(ctx, ownerID, characterID)
	if err != nil {
		return storage.CharacterRecord{}, err
	}
	next, err := fn(record.Character)
	if err != nil {
		return storage.CharacterRecord{}, err
	}
	record.Character = next
	record.UpdatedAt = c.now()
	if err := c.store.PutCharacter(ctx, record); err != nil {
		return storage.CharacterRecord{}, storeError("update character", err)
	}
	return record, nil
}
