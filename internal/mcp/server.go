package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/talentsift/assessrec/internal/embedder"
	"github.com/talentsift/assessrec/internal/ranker"
	"github.com/talentsift/assessrec/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "assessrec-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// DefaultDBPath is the default location for the catalog database
	DefaultDBPath = "~/.assessrec/catalog.db"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp    *server.MCPServer
	store  storage.Store
	ranker *ranker.Ranker
}

// NewServer creates a new MCP server instance backed by the catalog database
// at dbPath.
func NewServer(dbPath string) (*Server, error) {
	if dbPath == "" || dbPath == DefaultDBPath {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".assessrec", "catalog.db")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	emb, err := embedder.NewFromEnv()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	agg, err := embedder.NewAggregator(emb)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize aggregator: %w", err)
	}

	rnk, err := ranker.New(agg, store)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize ranker: %w", err)
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:    mcpServer,
		store:  store,
		ranker: rnk,
	}

	if err := s.registerTools(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.store.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	s.mcp.AddTool(recommendAssessmentsTool(), s.handleRecommendAssessments)
	s.mcp.AddTool(similarAssessmentsTool(), s.handleSimilarAssessments)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
	return nil
}
