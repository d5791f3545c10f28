// Package mcp exposes commit-message drafting over the Model Context
// Protocol so editor agents can call it as a tool.
package mcp

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/lazycommit/lazycommit/internal/config"
	"github.com/lazycommit/lazycommit/internal/git"
	"github.com/lazycommit/lazycommit/internal/prompt"
)

// Server wires the MCP tools to a git repository and resolved settings.
type Server struct {
	mcpServer *server.MCPServer
	git       *git.Client
	settings  config.Settings
}

// NewServer builds an MCP server for the repository at dir.
func NewServer(dir string, settings config.Settings, version string) *Server {
	s := &Server{
		git:      git.NewClient(dir),
		settings: settings,
	}

	s.mcpServer = server.NewMCPServer(
		"lazycommit",
		version,
		server.WithToolCapabilities(false),
	)

	s.mcpServer.AddTool(
		mcp.NewTool("draft_commit_message",
			mcp.WithDescription("Generate a conventional commit message from the current local git changes. Returns the formatted commit message without creating a commit."),
			mcp.WithString("token_model",
				mcp.Description("Model name used only for token counting (defaults to the configured model)."),
			),
			mcp.WithString("token_encoding",
				mcp.Description("Explicit tiktoken encoding name, overrides token_model."),
			),
		),
		s.handleDraftCommitMessage,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("count_tokens",
			mcp.WithDescription("Count tokens in a piece of text using the tiktoken encoding for a model."),
			mcp.WithString("text",
				mcp.Required(),
				mcp.Description("The text to count tokens for."),
			),
			mcp.WithString("model",
				mcp.Description(fmt.Sprintf("Model name to pick the encoding for (default %s).", prompt.DefaultTokenModel)),
			),
			mcp.WithString("encoding",
				mcp.Description("Explicit encoding name, overrides model."),
			),
		),
		s.handleCountTokens,
	)

	return s
}

// Serve runs the MCP server over stdio until the client disconnects.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcpServer)
}
