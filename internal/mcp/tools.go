package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lazycommit/lazycommit/internal/adapter"
	"github.com/lazycommit/lazycommit/internal/message"
	"github.com/lazycommit/lazycommit/internal/prompt"
)

func (s *Server) handleDraftCommitMessage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.git.EnsureRepo(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not a git repository: %v", err)), nil
	}
	snap, err := s.git.Snapshot()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read git state: %v", err)), nil
	}
	if !snap.HasChanges() {
		return mcp.NewToolResultText("No local changes detected. Nothing to draft."), nil
	}

	tokenModel := req.GetString("token_model", s.settings.ModelName)
	payload, err := prompt.BuildPrompt(snap, prompt.BuildOptions{
		MaxChars:      s.settings.MaxContextChars,
		MaxTokens:     s.settings.MaxContextTokens,
		TokenModel:    tokenModel,
		TokenEncoding: req.GetString("token_encoding", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build prompt: %v", err)), nil
	}

	llm, err := adapter.New(s.settings)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create adapter: %v", err)), nil
	}
	raw, err := llm.Complete(ctx, adapter.CompletionRequest{
		System:      payload.System,
		User:        payload.User,
		Model:       s.settings.ModelName,
		Temperature: 0.2,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("completion failed: %v", err)), nil
	}

	proposal, err := message.Parse(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to parse model response: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(proposal.Render())
	if payload.Usage != nil && payload.Usage.CompressionApplied() {
		fmt.Fprintf(&sb, "\n(context compression applied: %s)\n",
			strings.Join(payload.Usage.StageIDs(), ", "))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleCountTokens(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: text"), nil
	}

	result, err := prompt.CountText(
		prompt.DefaultResolverConfig(),
		text,
		req.GetString("model", ""),
		req.GetString("encoding", ""),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("token counting failed: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"model: %s\nencoding: %s\ncharacters: %d\ntokens: %d",
		result.ModelName, result.EncodingName, result.Characters, result.Tokens,
	)), nil
}
