package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/grandline/internal/services/sheets/api/grpc/sheetsv1"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
)

// CharacterListURI addresses the caller's character listing.
const CharacterListURI = "character://list"

// CharacterURI returns the resource URI of one character.
func CharacterURI(characterID string) string {
	return "character://" + characterID
}

// CharacterResult is a stored character sheet.
type CharacterResult struct {
	ID        string         `json:"id" jsonschema:"character identifier"`
	OwnerID   string         `json:"owner_id" jsonschema:"owner identifier"`
	CreatedAt string         `json:"created_at" jsonschema:"RFC3339 creation time"`
	UpdatedAt string         `json:"updated_at" jsonschema:"RFC3339 last update time"`
	Sheet     map[string]any `json:"sheet" jsonschema:"the full character record keyed by field name"`
}

// CharacterListInput selects a page of characters.
type CharacterListInput struct {
	PageSize  int    `json:"page_size,omitempty" jsonschema:"maximum characters to return (default 20, max 100)"`
	PageToken string `json:"page_token,omitempty" jsonschema:"token from a previous page"`
	Filter    string `json:"filter,omitempty" jsonschema:"AIP-160 filter over name, race, class, profession, potential and class_level"`
}

// CharacterListResult is one page of characters.
type CharacterListResult struct {
	Characters    []CharacterResult `json:"characters" jsonschema:"characters on this page"`
	NextPageToken string            `json:"next_page_token,omitempty" jsonschema:"token for the next page"`
}

// CharacterGetInput identifies a character.
type CharacterGetInput struct {
	CharacterID string `json:"character_id" jsonschema:"character identifier"`
}

// CharacterCreateInput creates a character from an optional partial record.
type CharacterCreateInput struct {
	Fields map[string]any `json:"fields,omitempty" jsonschema:"initial record fields, e.g. nome, raca, classe, forcaBase"`
}

// CharacterUpdateInput edits record fields.
type CharacterUpdateInput struct {
	CharacterID string         `json:"character_id" jsonschema:"character identifier"`
	Edits       map[string]any `json:"edits" jsonschema:"field assignments; derived fields are recomputed"`
}

// CharacterDeleteInput identifies a character to delete.
type CharacterDeleteInput struct {
	CharacterID string `json:"character_id" jsonschema:"character identifier"`
}

// CharacterDeleteResult reports the deleted id.
type CharacterDeleteResult struct {
	CharacterID string `json:"character_id" jsonschema:"deleted character identifier"`
}

// CharacterDuplicateInput identifies a character to copy.
type CharacterDuplicateInput struct {
	CharacterID string `json:"character_id" jsonschema:"character identifier"`
}

// VitalActionInput applies a pool action.
type VitalActionInput struct {
	CharacterID string `json:"character_id" jsonschema:"character identifier"`
	Pool        string `json:"pool,omitempty" jsonschema:"vida or vigor; ignored for restore_all"`
	Action      string `json:"action" jsonschema:"damage, heal, wound, heal_wound, reset or restore_all"`
	Amount      int    `json:"amount,omitempty" jsonschema:"points to apply"`
}

// ProgressionInput runs one entry list operation.
type ProgressionInput struct {
	CharacterID    string         `json:"character_id" jsonschema:"character identifier"`
	Action         string         `json:"action" jsonschema:"add, remove, update, set_level, adjust_level, set_purchased, set_specialization or adjust_durability"`
	List           string         `json:"list,omitempty" jsonschema:"entry list name, e.g. competenciasAptidoesTrunfos or listaItens"`
	Index          int            `json:"index,omitempty" jsonschema:"zero-based entry index"`
	Level          int            `json:"level,omitempty" jsonschema:"level for set_level"`
	Delta          int            `json:"delta,omitempty" jsonschema:"change for adjust_level or adjust_durability"`
	Purchased      bool           `json:"purchased,omitempty" jsonschema:"purchase flag for set_purchased"`
	Specialization string         `json:"specialization,omitempty" jsonschema:"specialization name; empty clears it"`
	Entry          map[string]any `json:"entry,omitempty" jsonschema:"entry fields for add or update"`
}

// BenefitsInput selects an entry.
type BenefitsInput struct {
	CharacterID string `json:"character_id" jsonschema:"character identifier"`
	Index       int    `json:"index" jsonschema:"zero-based index in competenciasAptidoesTrunfos"`
}

// BenefitsResult lists the unlocked benefit lines of an entry.
type BenefitsResult struct {
	Benefits []string `json:"benefits" jsonschema:"benefit descriptions"`
}

// CharacterExportInput selects a character and text format.
type CharacterExportInput struct {
	CharacterID string `json:"character_id" jsonschema:"character identifier"`
	Format      string `json:"format,omitempty" jsonschema:"json (default) or yaml"`
}

// CharacterExportResult is an exported document.
type CharacterExportResult struct {
	FileName    string `json:"file_name" jsonschema:"suggested file name"`
	ContentType string `json:"content_type" jsonschema:"document MIME type"`
	Content     string `json:"content" jsonschema:"document text"`
}

// CharacterImportInput imports a text document.
type CharacterImportInput struct {
	Format  string `json:"format,omitempty" jsonschema:"json (default) or yaml"`
	Content string `json:"content" jsonschema:"exported or legacy document text"`
}

// CharacterListTool defines the MCP tool schema for listing characters.
func CharacterListTool() *mcp.Tool {
	return &mcp.Tool{Name: "character_list", Description: "Lists the caller's character sheets"}
}

// CharacterGetTool defines the MCP tool schema for reading a character.
func CharacterGetTool() *mcp.Tool {
	return &mcp.Tool{Name: "character_get", Description: "Returns one character sheet"}
}

// CharacterCreateTool defines the MCP tool schema for creating a character.
func CharacterCreateTool() *mcp.Tool {
	return &mcp.Tool{Name: "character_create", Description: "Creates a character sheet with derived fields computed"}
}

// CharacterUpdateTool defines the MCP tool schema for editing a character.
func CharacterUpdateTool() *mcp.Tool {
	return &mcp.Tool{Name: "character_update", Description: "Edits sheet fields and recomputes derived values"}
}

// CharacterDeleteTool defines the MCP tool schema for deleting a character.
func CharacterDeleteTool() *mcp.Tool {
	return &mcp.Tool{Name: "character_delete", Description: "Deletes a character sheet"}
}

// CharacterDuplicateTool defines the MCP tool schema for copying a character.
func CharacterDuplicateTool() *mcp.Tool {
	return &mcp.Tool{Name: "character_duplicate", Description: "Copies a character sheet under a new id"}
}

// VitalActionTool defines the MCP tool schema for life and vigor actions.
func VitalActionTool() *mcp.Tool {
	return &mcp.Tool{Name: "character_vital_action", Description: "Damages, heals, wounds or restores life and vigor"}
}

// ProgressionTool defines the MCP tool schema for entry list operations.
func ProgressionTool() *mcp.Tool {
	return &mcp.Tool{Name: "character_progression", Description: "Adds, removes, levels or updates sheet list entries"}
}

// BenefitsTool defines the MCP tool schema for entry benefits.
func BenefitsTool() *mcp.Tool {
	return &mcp.Tool{Name: "character_benefits", Description: "Lists the benefits unlocked by a competency or aptitude"}
}

// CharacterExportTool defines the MCP tool schema for exporting a character.
func CharacterExportTool() *mcp.Tool {
	return &mcp.Tool{Name: "character_export", Description: "Exports a character sheet as JSON or YAML"}
}

// CharacterImportTool defines the MCP tool schema for importing a character.
func CharacterImportTool() *mcp.Tool {
	return &mcp.Tool{Name: "character_import", Description: "Imports a character sheet from JSON or YAML, including legacy sheets"}
}

// CharacterListHandler lists characters.
func CharacterListHandler(client sheetsv1.SheetServiceClient) mcp.ToolHandlerFor[CharacterListInput, CharacterListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CharacterListInput) (*mcp.CallToolResult, CharacterListResult, error) {
		fields := map[string]any{}
		if input.PageSize > 0 {
			fields["page_size"] = input.PageSize
		}
		if input.PageToken != "" {
			fields["page_token"] = input.PageToken
		}
		if input.Filter != "" {
			fields["filter"] = input.Filter
		}
		response, meta, err := invoke(ctx, client, "character list", fields, sheetsv1.SheetServiceClient.ListCharacters)
		if err != nil {
			return nil, CharacterListResult{}, err
		}
		result := CharacterListResult{Characters: []CharacterResult{}}
		raw := response.AsMap()
		if items, ok := raw["characters"].([]any); ok {
			for _, item := range items {
				if entry, ok := item.(map[string]any); ok {
					result.Characters = append(result.Characters, characterFromMap(entry))
				}
			}
		}
		result.NextPageToken, _ = raw["next_page_token"].(string)
		return CallToolResultWithMetadata(meta), result, nil
	}
}

// CharacterGetHandler reads one character.
func CharacterGetHandler(client sheetsv1.SheetServiceClient) mcp.ToolHandlerFor[CharacterGetInput, CharacterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CharacterGetInput) (*mcp.CallToolResult, CharacterResult, error) {
		if strings.TrimSpace(input.CharacterID) == "" {
			return nil, CharacterResult{}, fmt.Errorf("character_id is required")
		}
		return characterCall(ctx, client, "character get", map[string]any{"character_id": input.CharacterID}, sheetsv1.SheetServiceClient.GetCharacter, nil)
	}
}

// CharacterCreateHandler creates a character.
func CharacterCreateHandler(client sheetsv1.SheetServiceClient, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[CharacterCreateInput, CharacterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CharacterCreateInput) (*mcp.CallToolResult, CharacterResult, error) {
		fields := map[string]any{}
		if len(input.Fields) > 0 {
			fields["character"] = input.Fields
		}
		return characterCall(ctx, client, "character create", fields, sheetsv1.SheetServiceClient.CreateCharacter, notify)
	}
}

// CharacterUpdateHandler edits a character.
func CharacterUpdateHandler(client sheetsv1.SheetServiceClient, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[CharacterUpdateInput, CharacterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CharacterUpdateInput) (*mcp.CallToolResult, CharacterResult, error) {
		if strings.TrimSpace(input.CharacterID) == "" {
			return nil, CharacterResult{}, fmt.Errorf("character_id is required")
		}
		if len(input.Edits) == 0 {
			return nil, CharacterResult{}, fmt.Errorf("at least one edit must be provided")
		}
		return characterCall(ctx, client, "character update", map[string]any{
			"character_id": input.CharacterID,
			"edits":        input.Edits,
		}, sheetsv1.SheetServiceClient.UpdateCharacter, notify)
	}
}

// CharacterDeleteHandler deletes a character.
func CharacterDeleteHandler(client sheetsv1.SheetServiceClient, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[CharacterDeleteInput, CharacterDeleteResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CharacterDeleteInput) (*mcp.CallToolResult, CharacterDeleteResult, error) {
		if strings.TrimSpace(input.CharacterID) == "" {
			return nil, CharacterDeleteResult{}, fmt.Errorf("character_id is required")
		}
		_, meta, err := invoke(ctx, client, "character delete", map[string]any{"character_id": input.CharacterID}, sheetsv1.SheetServiceClient.DeleteCharacter)
		if err != nil {
			return nil, CharacterDeleteResult{}, err
		}
		NotifyResourceUpdates(ctx, notify, CharacterListURI, CharacterURI(input.CharacterID))
		return CallToolResultWithMetadata(meta), CharacterDeleteResult{CharacterID: input.CharacterID}, nil
	}
}

// CharacterDuplicateHandler copies a character.
func CharacterDuplicateHandler(client sheetsv1.SheetServiceClient, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[CharacterDuplicateInput, CharacterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CharacterDuplicateInput) (*mcp.CallToolResult, CharacterResult, error) {
		if strings.TrimSpace(input.CharacterID) == "" {
			return nil, CharacterResult{}, fmt.Errorf("character_id is required")
		}
		return characterCall(ctx, client, "character duplicate", map[string]any{"character_id": input.CharacterID}, sheetsv1.SheetServiceClient.DuplicateCharacter, notify)
	}
}

// VitalActionHandler applies a pool action.
func VitalActionHandler(client sheetsv1.SheetServiceClient, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[VitalActionInput, CharacterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input VitalActionInput) (*mcp.CallToolResult, CharacterResult, error) {
		if strings.TrimSpace(input.CharacterID) == "" {
			return nil, CharacterResult{}, fmt.Errorf("character_id is required")
		}
		if strings.TrimSpace(input.Action) == "" {
			return nil, CharacterResult{}, fmt.Errorf("action is required")
		}
		return characterCall(ctx, client, "vital action", map[string]any{
			"character_id": input.CharacterID,
			"pool":         input.Pool,
			"action":       input.Action,
			"amount":       input.Amount,
		}, sheetsv1.SheetServiceClient.ApplyVitalAction, notify)
	}
}

// ProgressionHandler runs an entry list operation.
func ProgressionHandler(client sheetsv1.SheetServiceClient, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[ProgressionInput, CharacterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ProgressionInput) (*mcp.CallToolResult, CharacterResult, error) {
		if strings.TrimSpace(input.CharacterID) == "" {
			return nil, CharacterResult{}, fmt.Errorf("character_id is required")
		}
		if strings.TrimSpace(input.Action) == "" {
			return nil, CharacterResult{}, fmt.Errorf("action is required")
		}
		fields := map[string]any{
			"character_id":   input.CharacterID,
			"action":         input.Action,
			"list":           input.List,
			"index":          input.Index,
			"level":          input.Level,
			"delta":          input.Delta,
			"purchased":      input.Purchased,
			"specialization": input.Specialization,
		}
		if len(input.Entry) > 0 {
			fields["entry"] = input.Entry
		}
		return characterCall(ctx, client, "progression", fields, sheetsv1.SheetServiceClient.ModifyProgression, notify)
	}
}

// BenefitsHandler lists entry benefits.
func BenefitsHandler(client sheetsv1.SheetServiceClient) mcp.ToolHandlerFor[BenefitsInput, BenefitsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input BenefitsInput) (*mcp.CallToolResult, BenefitsResult, error) {
		if strings.TrimSpace(input.CharacterID) == "" {
			return nil, BenefitsResult{}, fmt.Errorf("character_id is required")
		}
		response, meta, err := invoke(ctx, client, "benefits", map[string]any{
			"character_id": input.CharacterID,
			"index":        input.Index,
		}, sheetsv1.SheetServiceClient.GetBenefits)
		if err != nil {
			return nil, BenefitsResult{}, err
		}
		result := BenefitsResult{Benefits: []string{}}
		if lines, ok := response.AsMap()["benefits"].([]any); ok {
			for _, line := range lines {
				if text, ok := line.(string); ok {
					result.Benefits = append(result.Benefits, text)
				}
			}
		}
		return CallToolResultWithMetadata(meta), result, nil
	}
}

// CharacterExportHandler exports a character as text.
func CharacterExportHandler(client sheetsv1.SheetServiceClient) mcp.ToolHandlerFor[CharacterExportInput, CharacterExportResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CharacterExportInput) (*mcp.CallToolResult, CharacterExportResult, error) {
		if strings.TrimSpace(input.CharacterID) == "" {
			return nil, CharacterExportResult{}, fmt.Errorf("character_id is required")
		}
		format, err := textFormat(input.Format)
		if err != nil {
			return nil, CharacterExportResult{}, err
		}
		response, meta, err := invoke(ctx, client, "character export", map[string]any{
			"character_id": input.CharacterID,
			"format":       format,
		}, sheetsv1.SheetServiceClient.ExportCharacter)
		if err != nil {
			return nil, CharacterExportResult{}, err
		}
		raw := response.AsMap()
		result := CharacterExportResult{}
		result.FileName, _ = raw["file_name"].(string)
		result.ContentType, _ = raw["content_type"].(string)
		result.Content, _ = raw["content"].(string)
		return CallToolResultWithMetadata(meta), result, nil
	}
}

// CharacterImportHandler imports a text document.
func CharacterImportHandler(client sheetsv1.SheetServiceClient, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[CharacterImportInput, CharacterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CharacterImportInput) (*mcp.CallToolResult, CharacterResult, error) {
		if strings.TrimSpace(input.Content) == "" {
			return nil, CharacterResult{}, fmt.Errorf("content is required")
		}
		format, err := textFormat(input.Format)
		if err != nil {
			return nil, CharacterResult{}, err
		}
		return characterCall(ctx, client, "character import", map[string]any{
			"format":  format,
			"content": input.Content,
		}, sheetsv1.SheetServiceClient.ImportCharacter, notify)
	}
}

type clientMethod func(sheetsv1.SheetServiceClient, context.Context, *structpb.Struct, ...grpc.CallOption) (*structpb.Struct, error)

func invoke(ctx context.Context, client sheetsv1.SheetServiceClient, op string, fields map[string]any, method clientMethod) (*structpb.Struct, ToolCallMetadata, error) {
	if client == nil {
		return nil, ToolCallMetadata{}, fmt.Errorf("sheet client is not configured")
	}
	call, err := newToolCall(ctx)
	if err != nil {
		return nil, ToolCallMetadata{}, fmt.Errorf("create request metadata: %w", err)
	}
	defer call.cancel()

	request, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, ToolCallMetadata{}, fmt.Errorf("encode %s request: %w", op, err)
	}
	var header metadata.MD
	response, err := method(client, call.ctx, request, grpc.Header(&header))
	if err != nil {
		return nil, ToolCallMetadata{}, fmt.Errorf("%s failed: %w", op, err)
	}
	if response == nil {
		return nil, ToolCallMetadata{}, fmt.Errorf("%s response is missing", op)
	}
	return response, MergeResponseMetadata(call.meta, header), nil
}

func characterCall(ctx context.Context, client sheetsv1.SheetServiceClient, op string, fields map[string]any, method clientMethod, notify ResourceUpdateNotifier) (*mcp.CallToolResult, CharacterResult, error) {
	response, meta, err := invoke(ctx, client, op, fields, method)
	if err != nil {
		return nil, CharacterResult{}, err
	}
	raw, ok := response.AsMap()["character"].(map[string]any)
	if !ok {
		return nil, CharacterResult{}, fmt.Errorf("%s response is missing", op)
	}
	result := characterFromMap(raw)
	NotifyResourceUpdates(ctx, notify, CharacterListURI, CharacterURI(result.ID))
	return CallToolResultWithMetadata(meta), result, nil
}

func characterFromMap(raw map[string]any) CharacterResult {
	result := CharacterResult{}
	result.ID, _ = raw["id"].(string)
	result.OwnerID, _ = raw["owner_id"].(string)
	result.CreatedAt, _ = raw["created_at"].(string)
	result.UpdatedAt, _ = raw["updated_at"].(string)
	result.Sheet, _ = raw["sheet"].(map[string]any)
	if result.Sheet == nil {
		result.Sheet = map[string]any{}
	}
	return result
}

func textFormat(value string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "json":
		return "json", nil
	case "yaml", "yml":
		return "yaml", nil
	default:
		return "", fmt.Errorf("format %q is not supported; use json or yaml", value)
	}
}
