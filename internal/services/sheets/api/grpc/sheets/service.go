// Package sheets implements sheets.v1.SheetService on top of the sheet
// controller.
package sheets

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/grandline/internal/platform/errors"
	"github.com/louisbranch/grandline/internal/platform/grpc/pagination"
	"github.com/louisbranch/grandline/internal/platform/requestctx"
	"github.com/louisbranch/grandline/internal/services/sheets/api/grpc/sheetsv1"
	"github.com/louisbranch/grandline/internal/services/sheets/archive"
	"github.com/louisbranch/grandline/internal/services/sheets/domain/character"
	"github.com/louisbranch/grandline/internal/services/sheets/domain/engine"
	"github.com/louisbranch/grandline/internal/services/sheets/domain/progression"
	"github.com/louisbranch/grandline/internal/services/sheets/identity"
	"github.com/louisbranch/grandline/internal/services/sheets/sheet"
	"github.com/louisbranch/grandline/internal/services/sheets/storage"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const avatarSize = 128

// Service exposes the sheet controller over gRPC.
type Service struct {
	sheetsv1.UnimplementedSheetServiceServer
	controller *sheet.Controller
}

// NewService creates a sheet service backed by store.
func NewService(store storage.CharacterStore, opts ...sheet.Option) *Service {
	return &Service{controller: sheet.NewController(store, opts...)}
}

// CreateCharacter creates a sheet from an optional partial record.
func (s *Service) CreateCharacter(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	var record map[string]any
	if value, ok := in.GetFields()["character"]; ok {
		fields := value.GetStructValue()
		if fields == nil {
			return nil, status.Error(codes.InvalidArgument, "character must be an object")
		}
		record = fields.AsMap()
	}
	created, err := s.controller.Create(ctx, ownerID(ctx), record)
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return characterResponse(created)
}

// GetCharacter returns one sheet.
func (s *Service) GetCharacter(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	record, err := s.controller.Get(ctx, ownerID(ctx), stringField(in, "character_id"))
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return characterResponse(record)
}

// ListCharacters returns a page of the caller's sheets.
func (s *Service) ListCharacters(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	cursor, err := pagination.DecodeToken(stringField(in, "page_token"))
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	pageSize := pagination.ClampPageSize(int32(intField(in, "page_size")), pagination.PageSizeConfig{
		Default: sheet.DefaultPageSize,
		Max:     sheet.MaxPageSize,
	})
	page, err := s.controller.List(ctx, ownerID(ctx), pageSize, cursor, stringField(in, "filter"))
	if err != nil {
		return nil, handleError(ctx, err)
	}
	characters := make([]any, 0, len(page.Characters))
	for _, record := range page.Characters {
		value, err := characterValue(record)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "encode character: %v", err)
		}
		characters = append(characters, value)
	}
	return toStruct(map[string]any{
		"characters":      characters,
		"next_page_token": pagination.EncodeToken(page.NextPageToken),
	})
}

// UpdateCharacter applies field edits and recomputes the sheet.
func (s *Service) UpdateCharacter(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	edits := in.GetFields()["edits"].GetStructValue()
	if edits == nil || len(edits.GetFields()) == 0 {
		return nil, status.Error(codes.InvalidArgument, "edits are required")
	}
	record, err := s.controller.Edit(ctx, ownerID(ctx), stringField(in, "character_id"), engine.EditsFromRecord(edits.AsMap()))
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return characterResponse(record)
}

// DeleteCharacter removes a sheet.
func (s *Service) DeleteCharacter(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	characterID := stringField(in, "character_id")
	if err := s.controller.Delete(ctx, ownerID(ctx), characterID); err != nil {
		return nil, handleError(ctx, err)
	}
	return toStruct(map[string]any{"character_id": characterID})
}

// DuplicateCharacter copies a sheet under a new id.
func (s *Service) DuplicateCharacter(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	record, err := s.controller.Duplicate(ctx, ownerID(ctx), stringField(in, "character_id"))
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return characterResponse(record)
}

// ApplyVitalAction damages, heals, wounds or restores a pool.
func (s *Service) ApplyVitalAction(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	record, err := s.controller.ApplyVital(ctx, ownerID(ctx), stringField(in, "character_id"),
		stringField(in, "pool"), stringField(in, "action"), intField(in, "amount"))
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return characterResponse(record)
}

// ModifyProgression runs one entry list operation.
func (s *Service) ModifyProgression(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	op := progression.Op{
		Action:         progression.Action(stringField(in, "action")),
		List:           character.List(stringField(in, "list")),
		Index:          intField(in, "index"),
		Level:          intField(in, "level"),
		Delta:          intField(in, "delta"),
		Purchased:      in.GetFields()["purchased"].GetBoolValue(),
		Specialization: stringField(in, "specialization"),
	}
	if entry := in.GetFields()["entry"].GetStructValue(); entry != nil {
		op.Entry = entry.AsMap()
	}
	record, err := s.controller.Progress(ctx, ownerID(ctx), stringField(in, "character_id"), op)
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return characterResponse(record)
}

// GetBenefits returns the localized benefit lines of an entry.
func (s *Service) GetBenefits(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	lines, err := s.controller.Benefits(ctx, ownerID(ctx), stringField(in, "character_id"), intField(in, "index"), requestctx.LocaleFromContext(ctx))
	if err != nil {
		return nil, handleError(ctx, err)
	}
	benefits := make([]any, 0, len(lines))
	for _, line := range lines {
		benefits = append(benefits, line)
	}
	return toStruct(map[string]any{"benefits": benefits})
}

// ImportCharacter creates a sheet from an exported or legacy document.
func (s *Service) ImportCharacter(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	format, err := archive.ParseFormat(stringField(in, "format"))
	if err != nil {
		return nil, handleError(ctx, err)
	}
	data := []byte(stringField(in, "content"))
	if encoded := stringField(in, "content_base64"); encoded != "" {
		data, err = base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, "content_base64 is not valid base64")
		}
	}
	if len(data) == 0 {
		return nil, status.Error(codes.InvalidArgument, "content is required")
	}
	record, err := s.controller.Import(ctx, ownerID(ctx), format, data)
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return characterResponse(record)
}

// ExportCharacter encodes a sheet as a downloadable document.
func (s *Service) ExportCharacter(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	format, err := archive.ParseFormat(stringField(in, "format"))
	if err != nil {
		return nil, handleError(ctx, err)
	}
	exported, err := s.controller.Export(ctx, ownerID(ctx), stringField(in, "character_id"), format)
	if err != nil {
		return nil, handleError(ctx, err)
	}
	response := map[string]any{
		"file_name":      exported.FileName,
		"content_type":   exported.ContentType,
		"content_base64": base64.StdEncoding.EncodeToString(exported.Data),
	}
	if format != archive.FormatXLSX {
		response["content"] = string(exported.Data)
	}
	return toStruct(response)
}

// GetProfile returns the caller's login profile.
func (s *Service) GetProfile(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	profile, ok := identity.ProfileFromContext(ctx)
	if !ok {
		return nil, handleError(ctx, apperrors.New(apperrors.CodeOwnerRequired, "caller identity is required"))
	}
	response := map[string]any{
		"id":           profile.ID,
		"username":     profile.Username,
		"display_name": profile.DisplayName(),
		"avatar_url":   profile.AvatarURL(avatarSize),
		"provider":     profile.Provider,
	}
	if profile.Email != "" {
		response["email"] = profile.Email
	}
	if !profile.ExpiresAt.IsZero() {
		response["expires_at"] = profile.ExpiresAt.Format(time.RFC3339)
	}
	return toStruct(response)
}

func (s *Service) check(in *structpb.Struct) error {
	if in == nil {
		return status.Error(codes.InvalidArgument, "request is required")
	}
	if s == nil || s.controller == nil {
		return status.Error(codes.Internal, "sheet service is not configured")
	}
	return nil
}

func ownerID(ctx context.Context) string {
	return strings.TrimSpace(requestctx.UserIDFromContext(ctx))
}

func handleError(ctx context.Context, err error) error {
	return apperrors.HandleError(err, requestctx.LocaleFromContext(ctx))
}

func stringField(in *structpb.Struct, key string) string {
	value, ok := in.GetFields()[key]
	if !ok {
		return ""
	}
	switch kind := value.GetKind().(type) {
	case *structpb.Value_StringValue:
		return strings.TrimSpace(kind.StringValue)
	case *structpb.Value_NumberValue:
		return fmt.Sprint(kind.NumberValue)
	default:
		return ""
	}
}

func intField(in *structpb.Struct, key string) int {
	value, ok := in.GetFields()[key]
	if !ok {
		return 0
	}
	return character.Int(value.AsInterface())
}

func characterResponse(record storage.CharacterRecord) (*structpb.Struct, error) {
	value, err := characterValue(record)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode character: %v", err)
	}
	return toStruct(map[string]any{"character": value})
}

func characterValue(record storage.CharacterRecord) (map[string]any, error) {
	doc, err := plainJSON(record.Character.Record())
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"id":         record.ID,
		"owner_id":   record.OwnerID,
		"created_at": record.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at": record.UpdatedAt.UTC().Format(time.RFC3339),
		"sheet":      doc,
	}, nil
}

// plainJSON reduces a record to the types structpb accepts.
func plainJSON(record map[string]any) (map[string]any, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func toStruct(fields map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

var _ sheetsv1.SheetServiceServer = (*Service)(nil)
