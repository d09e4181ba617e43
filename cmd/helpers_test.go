package cmd

import (
	"context"
	"testing"

	"github.com/teemow/things3-mcp/internal/server"
	"github.com/teemow/things3-mcp/internal/things"
)

func newTestContext(t *testing.T, client *things.Client, readOnly bool) *server.ServerContext {
	t.Helper()
	sc := server.NewServerContext(context.Background(), client, server.WithReadOnly(readOnly))
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}
