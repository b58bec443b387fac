package sheet

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	apperrors "github.com/louisbranch/grandline/internal/platform/errors"
	"github.com/louisbranch/grandline/internal/services/sheets/archive"
	"github.com/louisbranch/grandline/internal/services/sheets/domain/character"
	"github.com/louisbranch/grandline/internal/services/sheets/domain/engine"
	"github.com/louisbranch/grandline/internal/services/sheets/domain/progression"
	"github.com/louisbranch/grandline/internal/services/sheets/storage"
)

type fakeStore struct {
	mu      sync.Mutex
	records map[string]storage.CharacterRecord
	puts    int
	putErr  error
	listErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]storage.CharacterRecord)}
}

func (s *fakeStore) PutCharacter(_ context.Context, record storage.CharacterRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	if existing, ok := s.records[record.ID]; ok && existing.OwnerID != record.OwnerID {
		return storage.ErrNotFound
	}
	s.records[record.ID] = record
	s.puts++
	return nil
}

func (s *fakeStore) GetCharacter(_ context.Context, ownerID, characterID string) (storage.CharacterRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[characterID]
	if !ok || record.OwnerID != ownerID {
		return storage.CharacterRecord{}, storage.ErrNotFound
	}
	return record, nil
}

func (s *fakeStore) ListCharacters(_ context.Context, ownerID string, pageSize int, _ string, _ string) (storage.CharacterPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return storage.CharacterPage{}, s.listErr
	}
	var page storage.CharacterPage
	for _, record := range s.records {
		if record.OwnerID == ownerID {
			page.Characters = append(page.Characters, record)
		}
	}
	sort.Slice(page.Characters, func(i, j int) bool { return page.Characters[i].ID < page.Characters[j].ID })
	if len(page.Characters) > pageSize {
		page.Characters = page.Characters[:pageSize]
		page.NextPageToken = page.Characters[pageSize-1].ID
	}
	return page, nil
}

func (s *fakeStore) DeleteCharacter(_ context.Context, ownerID, characterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[characterID]
	if !ok || record.OwnerID != ownerID {
		return storage.ErrNotFound
	}
	delete(s.records, characterID)
	return nil
}

var fixedNow = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func newTestController(store *fakeStore) *Controller {
	next := 0
	return NewController(store,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() (string, error) {
			next++
			return fmt.Sprintf("char-%d", next), nil
		}),
	)
}

func TestCreateSettlesDefaults(t *testing.T) {
	store := newFakeStore()
	ctrl := newTestController(store)

	record, err := ctrl.Create(context.Background(), "owner-1", map[string]any{"nome": "Luffy", "forcaBase": 5, "forcaBonus": 2, "resilienciaBase": 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if record.ID != "char-1" || record.OwnerID != "owner-1" || !record.CreatedAt.Equal(fixedNow) {
		t.Fatalf("record = %+v", record)
	}
	if record.Character.AccuracyClass != 11 || record.Character.LifeDice != "1d10" {
		t.Fatalf("CA = %d, life dice = %q", record.Character.AccuracyClass, record.Character.LifeDice)
	}
	if record.Character.Race != character.DefaultRace || record.Character.Life.Current != 10 {
		t.Fatalf("defaults = %+v / %+v", record.Character.Identity, record.Character.Life)
	}
	if _, err := store.GetCharacter(context.Background(), "owner-1", "char-1"); err != nil {
		t.Fatalf("stored: %v", err)
	}
}

func TestCreateRejectsUnknownField(t *testing.T) {
	store := newFakeStore()
	ctrl := newTestController(store)
	if _, err := ctrl.Create(context.Background(), "owner-1", map[string]any{"navio": "Sunny"}); !apperrors.IsCode(err, apperrors.CodeFieldUnknown) {
		t.Fatalf("error = %v", err)
	}
	if store.puts != 0 {
		t.Fatal("invalid create was stored")
	}
}

func TestOwnerAndIDRequired(t *testing.T) {
	ctrl := newTestController(newFakeStore())
	ctx := context.Background()
	if _, err := ctrl.Create(ctx, " ", nil); !apperrors.IsCode(err, apperrors.CodeOwnerRequired) {
		t.Fatalf("create error = %v", err)
	}
	if _, err := ctrl.Get(ctx, "owner-1", ""); !apperrors.IsCode(err, apperrors.CodeCharacterIDRequired) {
		t.Fatalf("get error = %v", err)
	}
	if err := ctrl.Delete(ctx, "", "char-1"); !apperrors.IsCode(err, apperrors.CodeOwnerRequired) {
		t.Fatalf("delete error = %v", err)
	}
	if _, err := ctrl.List(ctx, "", 10, "", ""); !apperrors.IsCode(err, apperrors.CodeOwnerRequired) {
		t.Fatalf("list error = %v", err)
	}
}

func TestGetForeignCharacterIsNotFound(t *testing.T) {
	ctrl := newTestController(newFakeStore())
	ctx := context.Background()
	record, err := ctrl.Create(ctx, "owner-1", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = ctrl.Get(ctx, "owner-2", record.ID)
	if !apperrors.IsCode(err, apperrors.CodeNotFound) || !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("error = %v", err)
	}
}

func TestEditRecomputesAndPersists(t *testing.T) {
	store := newFakeStore()
	ctrl := newTestController(store)
	ctx := context.Background()
	record, err := ctrl.Create(ctx, "owner-1", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	edited, err := ctrl.Edit(ctx, "owner-1", record.ID, []engine.Edit{
		{Field: "conhecimentoBase", Value: 7},
		{Field: "vitalidadeBase", Value: "6"},
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.Character.VigorDice != "1d8+1d6" || edited.Character.DifficultyClass != 14 {
		t.Fatalf("vigor dice = %q, CD = %d", edited.Character.VigorDice, edited.Character.DifficultyClass)
	}
	stored, _ := store.GetCharacter(ctx, "owner-1", record.ID)
	if stored.Character.VigorDice != "1d8+1d6" {
		t.Fatalf("stored vigor dice = %q", stored.Character.VigorDice)
	}
}

func TestEditFailureLeavesRecord(t *testing.T) {
	store := newFakeStore()
	ctrl := newTestController(store)
	ctx := context.Background()
	record, err := ctrl.Create(ctx, "owner-1", map[string]any{"nome": "Nami"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	puts := store.puts
	_, err = ctrl.Edit(ctx, "owner-1", record.ID, []engine.Edit{{Field: "nome", Value: "Gata Ladra"}, {Field: "ferimentosAtivos", Value: 3}})
	if !apperrors.IsCode(err, apperrors.CodeFieldNotEditable) {
		t.Fatalf("error = %v", err)
	}
	if store.puts != puts {
		t.Fatal("failed edit was stored")
	}
	stored, _ := store.GetCharacter(ctx, "owner-1", record.ID)
	if stored.Character.Name != "Nami" {
		t.Fatalf("name = %q", stored.Character.Name)
	}
}

func TestDuplicate(t *testing.T) {
	ctrl := newTestController(newFakeStore())
	ctx := context.Background()
	record, err := ctrl.Create(ctx, "owner-1", map[string]any{"nome": "Chopper", "competenciasAptidoesTrunfos": []any{map[string]any{"nome": "Medicina", "tipo": "Aptidão", "nivel": 4}}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	dup, err := ctrl.Duplicate(ctx, "owner-1", record.ID)
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if dup.ID == record.ID || dup.Character.Name != "Chopper (Cópia)" {
		t.Fatalf("duplicate = %s %q", dup.ID, dup.Character.Name)
	}
	if len(dup.Character.Entries) != 1 || dup.Character.Entries[0].Level != 4 {
		t.Fatalf("entries = %+v", dup.Character.Entries)
	}
	if _, err := ctrl.Duplicate(ctx, "owner-2", record.ID); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("foreign duplicate error = %v", err)
	}
}

func TestApplyVital(t *testing.T) {
	ctrl := newTestController(newFakeStore())
	ctx := context.Background()
	record, err := ctrl.Create(ctx, "owner-1", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	wounded, err := ctrl.ApplyVital(ctx, "owner-1", record.ID, "vida", "wound", 4)
	if err != nil {
		t.Fatalf("wound: %v", err)
	}
	if wounded.Character.Life.AdjustedMax() != 6 || wounded.Character.Life.Current != 6 {
		t.Fatalf("life = %+v", wounded.Character.Life)
	}
	if wounded.Character.Vigor.Current != 6 {
		t.Fatalf("vigor touched: %+v", wounded.Character.Vigor)
	}

	damaged, err := ctrl.ApplyVital(ctx, "owner-1", record.ID, "vigor", "damage", 10)
	if err != nil {
		t.Fatalf("damage: %v", err)
	}
	if damaged.Character.Vigor.Current != 0 {
		t.Fatalf("vigor = %+v", damaged.Character.Vigor)
	}

	restored, err := ctrl.ApplyVital(ctx, "owner-1", record.ID, "", "restore_all", 0)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Character.Life.Current != 6 || restored.Character.Vigor.Current != 6 {
		t.Fatalf("restored = %+v / %+v", restored.Character.Life, restored.Character.Vigor)
	}

	if _, err := ctrl.ApplyVital(ctx, "owner-1", record.ID, "haki", "damage", 1); !apperrors.IsCode(err, apperrors.CodeVitalPoolUnknown) {
		t.Fatalf("pool error = %v", err)
	}
	if _, err := ctrl.ApplyVital(ctx, "owner-1", record.ID, "vida", "explode", 1); !apperrors.IsCode(err, apperrors.CodeVitalActionUnknown) {
		t.Fatalf("action error = %v", err)
	}
}

func TestProgressAndBenefits(t *testing.T) {
	ctrl := newTestController(newFakeStore())
	ctx := context.Background()
	record, err := ctrl.Create(ctx, "owner-1", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	added, err := ctrl.Progress(ctx, "owner-1", record.ID, progression.Op{
		Action: progression.ActionAdd,
		List:   character.ListEntries,
		Entry:  map[string]any{"nome": "Espada", "tipo": "Competência", "nivel": 3},
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(added.Character.Entries) != 1 {
		t.Fatalf("entries = %+v", added.Character.Entries)
	}

	if _, err := ctrl.Progress(ctx, "owner-1", record.ID, progression.Op{Action: progression.ActionAdjustLevel, Index: 0, Delta: 1}); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if _, err := ctrl.Progress(ctx, "owner-1", record.ID, progression.Op{Action: progression.ActionSetSpecialization, Index: 0, Specialization: "Golpe Pesado"}); err != nil {
		t.Fatalf("specialize: %v", err)
	}

	lines, err := ctrl.Benefits(ctx, "owner-1", record.ID, 0, "en-US")
	if err != nil {
		t.Fatalf("benefits: %v", err)
	}
	if len(lines) != 6 || !strings.HasPrefix(lines[0], "Level 0: ") || !strings.HasPrefix(lines[5], "Golpe Pesado: ") {
		t.Fatalf("lines = %q", lines)
	}

	if _, err := ctrl.Progress(ctx, "owner-1", record.ID, progression.Op{Action: progression.ActionRemove, List: character.ListEntries, Index: 5}); !apperrors.IsCode(err, apperrors.CodeEntryIndexOutOfRange) {
		t.Fatalf("remove error = %v", err)
	}
	if _, err := ctrl.Benefits(ctx, "owner-1", record.ID, 3, "pt-BR"); !apperrors.IsCode(err, apperrors.CodeEntryIndexOutOfRange) {
		t.Fatalf("benefits error = %v", err)
	}
}

func TestImportExport(t *testing.T) {
	ctrl := newTestController(newFakeStore())
	ctx := context.Background()

	record, err := ctrl.Import(ctx, "owner-1", archive.FormatJSON, []byte(`{"nome": "Usopp", "classe": "Atirador", "vida": 4, "destrezaBase": 6}`))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if record.Character.Life.Current != 4 || record.Character.Class != "Atirador" {
		t.Fatalf("imported = %+v / %+v", record.Character.Identity, record.Character.Life)
	}

	export, err := ctrl.Export(ctx, "owner-1", record.ID, archive.FormatYAML)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if export.FileName != "fichaOnePiece_Usopp.yaml" || export.ContentType != "application/yaml" {
		t.Fatalf("export = %s %s", export.FileName, export.ContentType)
	}
	if !strings.Contains(string(export.Data), "nome: Usopp") {
		t.Fatalf("yaml = %s", export.Data)
	}

	if _, err := ctrl.Import(ctx, "owner-1", archive.FormatJSON, []byte(`{"sorte": 1}`)); !apperrors.IsCode(err, apperrors.CodeImportShapeMismatch) {
		t.Fatalf("shape error = %v", err)
	}
}

func TestListClampsPageSize(t *testing.T) {
	store := newFakeStore()
	ctrl := newTestController(store)
	ctx := context.Background()
	for range 3 {
		if _, err := ctrl.Create(ctx, "owner-1", nil); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	page, err := ctrl.List(ctx, "owner-1", 0, "", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Characters) != 3 || page.NextPageToken != "" {
		t.Fatalf("page = %d, token %q", len(page.Characters), page.NextPageToken)
	}
	page, err = ctrl.List(ctx, "owner-1", 2, "", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Characters) != 2 || page.NextPageToken == "" {
		t.Fatalf("page = %d, token %q", len(page.Characters), page.NextPageToken)
	}

	store.listErr = apperrors.New(apperrors.CodeFilterInvalid, "bad filter")
	if _, err := ctrl.List(ctx, "owner-1", 2, "", "x ="); !apperrors.IsCode(err, apperrors.CodeFilterInvalid) {
		t.Fatalf("filter error = %v", err)
	}
}

func TestDelete(t *testing.T) {
	ctrl := newTestController(newFakeStore())
	ctx := context.Background()
	record, err := ctrl.Create(ctx, "owner-1", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := ctrl.Delete(ctx, "owner-1", record.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := ctrl.Delete(ctx, "owner-1", record.ID); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("second delete error = %v", err)
	}
}

func TestStoreFailureIsWrapped(t *testing.T) {
	store := newFakeStore()
	store.putErr = errors.New("disk full")
	ctrl := newTestController(store)
	_, err := ctrl.Create(context.Background(), "owner-1", nil)
	if err == nil || !strings.Contains(err.Error(), "disk full") || apperrors.GetCode(err) != apperrors.CodeUnknown {
		t.Fatalf("error = %v", err)
	}
}

func TestNilStore(t *testing.T) {
	ctrl := NewController(nil)
	if _, err := ctrl.Get(context.Background(), "owner-1", "char-1"); err == nil {
		t.Fatal("expected error without store")
	}
}
