package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/louisbranch/grandline/internal/services/sheets/api/grpc/sheetsv1"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CharacterListResource defines the readable listing of the caller's characters.
func CharacterListResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "character_list",
		Title:       "Characters",
		Description: "Readable listing of the caller's character sheets",
		MIMEType:    "application/json",
		URI:         CharacterListURI,
	}
}

// CharacterResourceTemplate defines the readable resource of one character.
func CharacterResourceTemplate() *mcp.ResourceTemplate {
	return &mcp.ResourceTemplate{
		Name:        "character",
		Title:       "Character",
		Description: "Readable character sheet. URI format: character://{character_id}",
		MIMEType:    "application/json",
		URITemplate: "character://{character_id}",
	}
}

// CharacterListResourceHandler returns the first page of characters.
func CharacterListResourceHandler(client sheetsv1.SheetServiceClient) mcp.ResourceHandler {
	list := CharacterListHandler(client)
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := CharacterListURI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}
		_, result, err := list(ctx, nil, CharacterListInput{})
		if err != nil {
			return nil, err
		}
		return jsonResource(uri, result)
	}
}

// CharacterResourceHandler returns one character sheet.
func CharacterResourceHandler(client sheetsv1.SheetServiceClient) mcp.ResourceHandler {
	get := CharacterGetHandler(client)
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if req == nil || req.Params == nil || req.Params.URI == "" {
			return nil, fmt.Errorf("character ID is required; use URI format character://{character_id}")
		}
		uri := req.Params.URI
		characterID, err := parseCharacterIDFromURI(uri)
		if err != nil {
			return nil, err
		}
		_, result, err := get(ctx, nil, CharacterGetInput{CharacterID: characterID})
		if err != nil {
			return nil, err
		}
		return jsonResource(uri, result)
	}
}

func parseCharacterIDFromURI(uri string) (string, error) {
	const prefix = "character://"
	if !strings.HasPrefix(uri, prefix) {
		return "", fmt.Errorf("URI must start with %s", prefix)
	}
	characterID := strings.TrimSpace(strings.TrimPrefix(uri, prefix))
	if characterID == "" || characterID == "list" || strings.Contains(characterID, "/") {
		return "", fmt.Errorf("URI must be character://{character_id}")
	}
	return characterID, nil
}

func jsonResource(uri string, payload any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}
