// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Lexicon lookups and notes over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/lexicon/internal/apperr"
	"github.com/starford/lexicon/internal/index"
	"github.com/starford/lexicon/internal/noteservice"
	"github.com/starford/lexicon/internal/storage"
	"github.com/starford/lexicon/internal/vocab"
)

const noteFormatURI = "lexicon://note-format"

// Deps are the services exposed as tools.
type Deps struct {
	Store   storage.Provider
	Notes   *noteservice.Service
	Lookups *vocab.Service
	History index.History
}

// Server wraps the MCP server with Lexicon tools.
type Server struct {
	mcp *server.MCPServer
	d   Deps
}

// New creates a new MCP server with all Lexicon tools registered.
func New(d Deps, version string) *Server {
	s := &Server{d: d}

	s.mcp = server.NewMCPServer(
		"Lexicon",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("lookup_word",
		mcp.WithDescription("Look up a word: generate a definition and create or append to its "+
			"vocabulary note. Returns the note link to insert into the text and the notices shown."),
		mcp.WithString("word", mcp.Required(), mcp.Description("Word or phrase to look up")),
	), s.lookupWord)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the full content of a vocabulary note."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the note (e.g. vocab.lucid.md)")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List all notes or notes in a specific folder."),
		mcp.WithString("folder", mcp.Description("Optional folder to list (empty for all)")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Search note titles and content."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("lookup_history",
		mcp.WithDescription("Recent lookups, newest first."),
		mcp.WithString("word", mcp.Description("Only lookups of this word")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of entries (default 20)")),
	), s.lookupHistory)

	s.mcp.AddResource(
		mcp.NewResource(noteFormatURI, "Vocabulary Note Format",
			mcp.WithResourceDescription("How Lexicon lays out vocabulary notes and note links."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readNoteFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

type lookupOutput struct {
	vocab.Result
	Notices []string `json:"notices"`
}

func (s *Server) lookupWord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	word, err := req.RequireString("word")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	buf := vocab.NewBuffer(word)
	res, err := s.d.Lookups.Lookup(ctx, buf)
	if err != nil {
		return mcp.NewToolResultError(strings.Join(buf.Notices(), "\n")), nil
	}

	out, _ := json.MarshalIndent(lookupOutput{Result: *res, Notices: buf.Notices()}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.d.Store.Read(path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder := req.GetString("folder", "")

	metas, err := s.d.Store.List(folder)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(metas) == 0 {
		return mcp.NewToolResultText("no notes found"), nil
	}

	paths := make([]string, 0, len(metas))
	for _, m := range metas {
		paths = append(paths, m.Path)
	}
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.d.Notes.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) lookupHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	word := req.GetString("word", "")
	limit := req.GetInt("limit", 20)

	lookups, err := s.d.History.History(word, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(lookups) == 0 {
		return mcp.NewToolResultText("no lookups recorded"), nil
	}

	var b strings.Builder
	for _, l := range lookups {
		fmt.Fprintf(&b, "%s\t%s\t%s\t%s\n", l.CreatedAt.Format("2006-01-02 15:04"), l.Word, l.Outcome, l.Path)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) readNoteFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      noteFormatURI,
			MIMEType: "text/markdown",
			Text:     NoteFormat,
		},
	}, nil
}
