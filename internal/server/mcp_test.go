package server

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apollonode/internal/apollo"
	"apollonode/internal/engine"
	"apollonode/internal/types"
)

func callTool(t *testing.T, s *MCPServer, h *apollo.Handler, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = ToolName(h)
	req.Params.Arguments = args
	res, err := s.toolHandler(h)(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return text.Text
}

func TestBuildToolSchema(t *testing.T) {
	router := apollo.NewRouter()

	h, err := router.Resolve("person", "search")
	require.NoError(t, err)
	tool := buildTool(h)
	assert.Equal(t, "apollo_person_search", tool.Name)
	assert.Contains(t, tool.InputSchema.Properties, "personSeniorities")
	assert.Contains(t, tool.InputSchema.Properties, "perPage")

	h, err = router.Resolve("contact", "search")
	require.NoError(t, err)
	tool = buildTool(h)
	assert.NotContains(t, tool.InputSchema.Properties, argItems, "batch tools take no items")

	h, err = router.Resolve("sequence", "addContacts")
	require.NoError(t, err)
	tool = buildTool(h)
	assert.ElementsMatch(t, []string{"sequenceId", "contactIds"}, tool.InputSchema.Required)
	assert.Contains(t, tool.InputSchema.Properties, argContinueOnFail)
	assert.Contains(t, tool.InputSchema.Properties, argItems)
}

func TestToolHandlerRunsOperation(t *testing.T) {
	fake := &fakeApollo{}
	eng := engine.NewEngine(apollo.NewRouter(), fake, nil)
	s := NewMCPServer(eng, "test")
	h, err := eng.Router.Resolve("person", "enrich")
	require.NoError(t, err)

	res := callTool(t, s, h, map[string]any{
		"personEmail":     "${{ item.email }}",
		argContinueOnFail: true,
		argItems:          `[{"email":"ada@example.com"},{"email":""}]`,
	})
	assert.False(t, res.IsError)

	var result types.RunResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &result))
	assert.Equal(t, types.StatusPartial, result.Status)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "ada@example.com", result.Records[0]["email"])
	assert.Contains(t, result.Records[1], "error")
	assert.Len(t, fake.calls, 1)
}

func TestToolHandlerErrors(t *testing.T) {
	eng := engine.NewEngine(apollo.NewRouter(), &fakeApollo{}, nil)
	s := NewMCPServer(eng, "test")
	h, err := eng.Router.Resolve("organization", "enrich")
	require.NoError(t, err)

	res := callTool(t, s, h, map[string]any{"organizationDomain": ""})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "Organization domain is required")

	res = callTool(t, s, h, map[string]any{"organizationDomain": "apollo.io", "shoeSize": 44})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), `"shoeSize" is not a field`)

	res = callTool(t, s, h, map[string]any{argItems: "[{"})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "parsing items")
}
