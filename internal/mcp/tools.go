package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/randlee/structdiff/pkg/diff"
	"github.com/randlee/structdiff/pkg/syntax/parser"
)

// Tool name constants.
const (
	ToolNameCompare = "structdiff_compare"
	ToolNameParse   = "structdiff_parse"
)

// MaxCodeInputBytes is the maximum allowed size for inline code input (1 MB).
const MaxCodeInputBytes = 1 << 20

// Sentinel errors for tool input validation.
var (
	// ErrEmptyCode indicates a required code parameter is empty.
	ErrEmptyCode = errors.New("code parameter is required and must not be empty")
	// ErrCodeTooLarge indicates the code input exceeds the size limit.
	ErrCodeTooLarge = errors.New("code input exceeds maximum size")
)

// CompareInput is the input schema for the structdiff_compare tool.
type CompareInput struct {
	OldCode           string `json:"old_code"                     jsonschema:"previous version of the source file"`
	NewCode           string `json:"new_code"                     jsonschema:"new version of the source file"`
	Whitespace        string `json:"whitespace,omitempty"         jsonschema:"whitespace mode: exact ignore-leading-trailing ignore-all language-aware"`
	MinimumImpact     string `json:"minimum_impact,omitempty"     jsonschema:"drop changes below this impact level"`
	IncludeFormatting *bool  `json:"include_formatting,omitempty" jsonschema:"keep formatting-only changes (default true)"`
	IgnoreComments    bool   `json:"ignore_comments,omitempty"    jsonschema:"exclude comment-only differences"`
}

// ParseInput is the input schema for the structdiff_parse tool.
type ParseInput struct {
	Code string `json:"code" jsonschema:"C# source code to parse"`
}

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// handleCompare processes structdiff_compare tool calls.
func handleCompare(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input CompareInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateCode(input.OldCode)
	if err != nil {
		return errorResult(err)
	}

	err = validateCode(input.NewCode)
	if err != nil {
		return errorResult(err)
	}

	opts, err := optionsFromInput(input)
	if err != nil {
		return errorResult(err)
	}

	p := parser.New()

	oldRoot, err := p.Parse(ctx, []byte(input.OldCode))
	if err != nil {
		return errorResult(fmt.Errorf("parse old code: %w", err))
	}

	newRoot, err := p.Parse(ctx, []byte(input.NewCode))
	if err != nil {
		return errorResult(fmt.Errorf("parse new code: %w", err))
	}

	changes, err := diff.Compare(ctx, oldRoot, newRoot, opts)
	if err != nil {
		return errorResult(fmt.Errorf("compare: %w", err))
	}

	return jsonResult(map[string]any{"changes": changes})
}

// handleParse processes structdiff_parse tool calls.
func handleParse(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input ParseInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateCode(input.Code)
	if err != nil {
		return errorResult(err)
	}

	root, err := parser.New().Parse(ctx, []byte(input.Code))
	if err != nil {
		return errorResult(fmt.Errorf("parse code: %w", err))
	}

	return jsonResult(root)
}

func optionsFromInput(input CompareInput) (diff.Options, error) {
	opts := diff.DefaultOptions()
	opts.OldPath = "old"
	opts.NewPath = "new"
	opts.IgnoreComments = input.IgnoreComments

	if input.Whitespace != "" {
		mode, err := diff.ParseWhitespaceMode(input.Whitespace)
		if err != nil {
			return opts, err //nolint:wrapcheck // Sentinel surfaces as tool error.
		}

		opts.Whitespace = mode
	}

	if input.MinimumImpact != "" {
		level, err := diff.ParseImpactLevel(input.MinimumImpact)
		if err != nil {
			return opts, err //nolint:wrapcheck // Sentinel surfaces as tool error.
		}

		opts.MinimumImpact = level
	}

	if input.IncludeFormatting != nil {
		opts.IncludeFormatting = *input.IncludeFormatting
	}

	return opts, nil
}

func validateCode(code string) error {
	if code == "" {
		return ErrEmptyCode
	}

	if len(code) > MaxCodeInputBytes {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrCodeTooLarge, len(code), MaxCodeInputBytes)
	}

	return nil
}

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}
