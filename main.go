package main

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/malick/facture-mcp/internal/logger"
	"github.com/malick/facture-mcp/internal/server"
	"github.com/malick/facture-mcp/internal/session"
	"github.com/malick/facture-mcp/internal/store"
)

func main() {
	log, err := logger.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	dbPath, err := store.DefaultPath()
	if err != nil {
		log.Fatalf("Failed to resolve database path: %v", err)
	}

	st, err := store.Open(dbPath, log)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "facture-mcp",
		Version: "1.0.0",
	}, nil)

	server.RegisterTools(mcpServer, st, session.New(), log)

	if err := mcpServer.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
