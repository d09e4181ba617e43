package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/things3-mcp/internal/applescript"
	"github.com/teemow/things3-mcp/internal/dates"
	"github.com/teemow/things3-mcp/internal/server"
)

// Resource URIs.
const (
	StatusURI = "things://status"
	ListsURI  = "things://lists"
)

const mimeJSON = "application/json"

// StatusData is the things://status payload.
type StatusData struct {
	Installed bool   `json:"installed"`
	Running   bool   `json:"running"`
	Message   string `json:"message"`
	ReadOnly  bool   `json:"read_only"`
}

// ListsData is the things://lists payload.
type ListsData struct {
	Lists            []string `json:"lists"`
	DefaultList      string   `json:"default_list"`
	DestinationTypes []string `json:"destination_types"`
	Periods          []string `json:"periods"`
	WeekStart        string   `json:"week_start"`
}

// RegisterThingsResources registers read-only resources describing the
// Things connection and the accepted list and period names.
func RegisterThingsResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	statusResource := mcp.NewResource(
		StatusURI,
		"Things 3 Status",
		mcp.WithResourceDescription("Whether Things 3 is installed and running, and whether write tools are enabled"),
		mcp.WithMIMEType(mimeJSON),
	)
	s.AddResource(statusResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleStatus(ctx, request, sc)
	})

	listsResource := mcp.NewResource(
		ListsURI,
		"Things 3 Lists and Date Periods",
		mcp.WithResourceDescription("List names accepted by get_tasks, destination types for move_task and periods for get_date_range"),
		mcp.WithMIMEType(mimeJSON),
	)
	s.AddResource(listsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleLists(ctx, request, sc)
	})

	return nil
}

func handleStatus(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	status := sc.Client().Status(ctx)
	return jsonContents(request.Params.URI, StatusData{
		Installed: status.Installed,
		Running:   status.Running,
		Message:   status.String(),
		ReadOnly:  sc.ReadOnly(),
	})
}

func handleLists(_ context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	data := ListsData{
		DefaultList: string(applescript.DefaultList),
		DestinationTypes: []string{
			string(applescript.DestinationProject),
			string(applescript.DestinationArea),
		},
		WeekStart: sc.Parser().WeekStart().String(),
	}
	for _, l := range applescript.ListTypes() {
		data.Lists = append(data.Lists, string(l))
	}
	for _, p := range dates.Periods() {
		data.Periods = append(data.Periods, string(p))
	}
	return jsonContents(request.Params.URI, data)
}

func jsonContents(uri string, v interface{}) ([]mcp.ResourceContents, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: mimeJSON,
			Text:     string(jsonData),
		},
	}, nil
}
