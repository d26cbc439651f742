package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"apollonode/internal/apollo"
	"apollonode/internal/engine"
	"apollonode/internal/loader"
	"apollonode/internal/types"
)

// Reserved tool arguments that are not node parameters.
const (
	argContinueOnFail = "continue_on_fail"
	argItems          = "items"
)

// MCPServer exposes every Apollo operation as an MCP tool.
type MCPServer struct {
	engine    *engine.Engine
	mcpServer *server.MCPServer
}

// NewMCPServer creates a new MCP server and registers one tool per operation.
func NewMCPServer(eng *engine.Engine, version string) *MCPServer {
	s := &MCPServer{
		engine:    eng,
		mcpServer: server.NewMCPServer("apollonode", version),
	}
	for _, h := range eng.Router.Handlers() {
		s.mcpServer.AddTool(buildTool(h), s.toolHandler(h))
	}
	return s
}

// ServeStdio runs the MCP server on stdin/stdout.
func (s *MCPServer) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ToolName returns the MCP tool name of h, e.g. "apollo_person_bulkEnrich".
func ToolName(h *apollo.Handler) string {
	return fmt.Sprintf("apollo_%s_%s", h.Resource, h.Operation)
}

func buildTool(h *apollo.Handler) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(h.Description)}
	for _, f := range h.Fields {
		props := []mcp.PropertyOption{mcp.Description(f.Description)}
		if f.Required {
			props = append(props, mcp.Required())
		}
		switch f.Type {
		case types.FieldNumber:
			opts = append(opts, mcp.WithNumber(f.Name, props...))
		case types.FieldBoolean:
			opts = append(opts, mcp.WithBoolean(f.Name, props...))
		case types.FieldMultiOptions:
			props = append(props, mcp.WithStringEnumItems(f.Options))
			opts = append(opts, mcp.WithArray(f.Name, props...))
		default:
			opts = append(opts, mcp.WithString(f.Name, props...))
		}
	}
	if !h.Batch {
		opts = append(opts,
			mcp.WithBoolean(argContinueOnFail, mcp.Description("Turn per-item failures into {error} records instead of aborting")),
			mcp.WithString(argItems, mcp.Description("JSON array of input items; parameters may reference them with ${{ item.field }}")),
		)
	}
	return mcp.NewTool(ToolName(h), opts...)
}

func (s *MCPServer) toolHandler(h *apollo.Handler) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		job, err := jobFromArguments(h, request.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := s.engine.Run(ctx, job)
		if err != nil {
			return mcp.NewToolResultError(apollo.RedactSecrets(err.Error())), nil
		}
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error marshaling result: %v", err)), nil
		}
		if result.Status == types.StatusFailed {
			return mcp.NewToolResultError(string(out)), nil
		}
		return mcp.NewToolResultText(string(out)), nil
	}
}

func jobFromArguments(h *apollo.Handler, args map[string]any) (*types.JobDef, error) {
	job := &types.JobDef{
		Name:       ToolName(h),
		Resource:   string(h.Resource),
		Operation:  string(h.Operation),
		Parameters: make(map[string]any, len(args)),
	}
	for k, v := range args {
		switch k {
		case argContinueOnFail:
			b, ok := v.(bool)
			if !ok {
				return nil, fmt.Errorf("%s must be a boolean", argContinueOnFail)
			}
			job.ContinueOnFail = b
		case argItems:
			raw, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("%s must be a JSON string", argItems)
			}
			items, err := loader.ParseItems([]byte(raw))
			if err != nil {
				return nil, fmt.Errorf("parsing %s: %w", argItems, err)
			}
			job.Items = items
		default:
			job.Parameters[k] = v
		}
	}
	return job, nil
}
