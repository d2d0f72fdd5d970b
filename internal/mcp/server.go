// Package mcp exposes the analysis engine over the Model Context Protocol.
// Tool implementations live in the tools subpackage; this package adapts
// them onto the mcp-go server and owns the tool/prompt registry.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ovnsight/ovnsight/internal/mcp/tools"
	"github.com/ovnsight/ovnsight/internal/models"
	"github.com/ovnsight/ovnsight/internal/orchestrator"
)

// Tool defines the interface for our tool implementations
type Tool interface {
	Execute(ctx context.Context, input json.RawMessage) (interface{}, error)
}

// Server wraps the mcp-go server with ovnsight-specific logic
type Server struct {
	mcpServer *server.MCPServer
	orch      *orchestrator.Orchestrator
	tools     map[string]Tool
	version   string
}

// NewServer creates a new ovnsight MCP server over the given orchestrator
func NewServer(orch *orchestrator.Orchestrator, version string) *Server {
	mcpServer := server.NewMCPServer(
		"OVNsight MCP Server",
		version,
		server.WithToolCapabilities(false),
		server.WithLogging(),
	)

	s := &Server{
		mcpServer: mcpServer,
		orch:      orch,
		tools:     make(map[string]Tool),
		version:   version,
	}

	s.registerTools()
	s.registerPrompts()

	return s
}

func (s *Server) registerTools() {
	ruleKindProp := map[string]interface{}{
		"type":        "string",
		"description": "Rule kind to compare: 'SNAT' or 'LRP'",
	}
	thresholdsProp := map[string]interface{}{
		"type":        "array",
		"description": "Optional: threshold overrides, e.g. {metric, comparator (lt|lte|gt|gte), bound}",
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"metric":     map[string]interface{}{"type": "string"},
				"comparator": map[string]interface{}{"type": "string"},
				"bound":      map[string]interface{}{"type": "number"},
			},
			"required": []string{"metric", "comparator", "bound"},
		},
	}
	queriesProp := map[string]interface{}{
		"type":        "array",
		"description": "Metric windows to analyze for trends",
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"metric": map[string]interface{}{
					"type":        "string",
					"description": "Metric name, e.g. 'cpu_usage' or 'ovn_rule_count'",
				},
				"labels": map[string]interface{}{
					"type":        "object",
					"description": "Optional: label selector, e.g. {\"node\": \"worker-1\"}",
				},
				"start_time": map[string]interface{}{
					"type":        "integer",
					"description": "Optional: start timestamp (Unix seconds or milliseconds)",
				},
				"end_time": map[string]interface{}{
					"type":        "integer",
					"description": "Optional: end timestamp, exclusive (Unix seconds or milliseconds)",
				},
				"horizon_seconds": map[string]interface{}{
					"type":        "integer",
					"description": "Optional: forecast horizon past the last sample, in seconds",
				},
			},
			"required": []string{"metric"},
		},
	}

	s.registerTool(
		"compare_rule_consistency",
		"Compare OVN rule snapshots across nodes and report missing/extra rules with a consistency score",
		tools.NewCompareConsistencyTool(s.orch),
		map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"rule_kind": ruleKindProp,
				"snapshots": map[string]interface{}{
					"type":        "array",
					"description": "Inline rule snapshots to record before comparing",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"node": map[string]interface{}{
								"type":        "string",
								"description": "Node the snapshot was taken from",
							},
							"captured_at": map[string]interface{}{
								"type":        "integer",
								"description": "Optional: capture timestamp (Unix seconds or milliseconds). Default: now",
							},
							"rules": map[string]interface{}{
								"type":        "array",
								"description": "Rule entries: {match, action, priority}",
								"items": map[string]interface{}{
									"type": "object",
									"properties": map[string]interface{}{
										"match":    map[string]interface{}{"type": "string"},
										"action":   map[string]interface{}{"type": "string"},
										"priority": map[string]interface{}{"type": "integer"},
									},
									"required": []string{"match", "action"},
								},
							},
						},
						"required": []string{"node", "rules"},
					},
				},
				"nodes": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Optional: nodes with previously recorded snapshots to include",
				},
			},
			"required": []string{"rule_kind"},
		},
	)

	s.registerTool(
		"analyze_metric_trends",
		"Fit trends over stored metric windows, classify direction, and evaluate thresholds",
		tools.NewAnalyzeTrendsTool(s.orch),
		map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"queries":    queriesProp,
				"thresholds": thresholdsProp,
			},
			"required": []string{"queries"},
		},
	)

	s.registerTool(
		"find_bottlenecks",
		"Correlate rule inconsistencies with threshold breaches in metric trends and rank bottleneck candidates",
		tools.NewFindBottlenecksTool(s.orch),
		map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"rule_kind": ruleKindProp,
				"nodes": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Nodes whose latest snapshots participate in the comparison (min 2)",
				},
				"queries":    queriesProp,
				"thresholds": thresholdsProp,
				"window_seconds": map[string]interface{}{
					"type":        "integer",
					"description": "Optional: max seconds between rule change and metric breach to count as co-occurring (default 300)",
				},
			},
			"required": []string{"rule_kind", "nodes", "queries"},
		},
	)

	s.registerTool(
		"assess_rule_stability",
		"Assess how often one node's rule set changed across its recorded snapshot history",
		tools.NewAssessStabilityTool(s.orch),
		map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"node": map[string]interface{}{
					"type":        "string",
					"description": "Node to assess",
				},
				"rule_kind": ruleKindProp,
			},
			"required": []string{"node", "rule_kind"},
		},
	)

	s.registerTool(
		"record_test_result",
		"Persist the outcome of an externally executed performance test run",
		tools.NewRecordTestResultTool(s.orch),
		map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"test": map[string]interface{}{
					"type":        "string",
					"description": "Test name",
				},
				"passed": map[string]interface{}{
					"type":        "boolean",
					"description": "Whether the test passed",
				},
				"duration_seconds": map[string]interface{}{
					"type":        "number",
					"description": "Test duration in seconds",
				},
				"timestamp": map[string]interface{}{
					"type":        "integer",
					"description": "Optional: completion timestamp (Unix seconds or milliseconds). Default: now",
				},
			},
			"required": []string{"test", "passed", "duration_seconds"},
		},
	)

	s.registerTool(
		"store_summary",
		"List stored metric series with point counts and latest values",
		tools.NewStoreSummaryTool(s.orch),
		map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
	)
}

func (s *Server) registerTool(name, description string, tool Tool, inputSchema map[string]interface{}) {
	s.tools[name] = tool

	schemaJSON, err := json.Marshal(inputSchema)
	if err != nil {
		// This should never happen with well-formed schemas
		panic(fmt.Sprintf("Failed to marshal schema for tool %s: %v", name, err))
	}

	mcpTool := mcp.NewToolWithRawSchema(name, description, schemaJSON)
	s.mcpServer.AddTool(mcpTool, s.createToolHandler(tool))
}

func (s *Server) createToolHandler(tool Tool) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := json.Marshal(request.Params.Arguments)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}

		result, err := tool.Execute(ctx, args)
		if err != nil {
			// The error kind tells the caller whether to fix the input,
			// gather more data, or report a bug.
			return mcp.NewToolResultError(fmt.Sprintf("%s: %v", models.ErrorKind(err), err)), nil
		}

		resultJSON, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to format result: %v", err)), nil
		}

		return mcp.NewToolResultText(string(resultJSON)), nil
	}
}

func (s *Server) registerPrompts() {
	driftPrompt := mcp.Prompt{
		Name:        "egressip_drift_investigation",
		Description: "Investigate EgressIP rule drift across cluster nodes and its performance impact",
		Arguments: []mcp.PromptArgument{
			{Name: "rule_kind", Description: "Rule kind to investigate (SNAT or LRP)", Required: true},
			{Name: "nodes", Description: "Comma-separated node names", Required: true},
			{Name: "suspect_metric", Description: "Optional metric suspected to degrade (e.g. cpu_usage)", Required: false},
		},
	}

	s.mcpServer.AddPrompt(driftPrompt, func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		ruleKind := request.Params.Arguments["rule_kind"]
		nodes := request.Params.Arguments["nodes"]
		suspectMetric := request.Params.Arguments["suspect_metric"]

		text := fmt.Sprintf("Investigate %s rule drift across nodes %s. Start with compare_rule_consistency, then assess_rule_stability for any node with missing or extra rules.", ruleKind, nodes)
		if suspectMetric != "" {
			text += fmt.Sprintf(" Correlate with %s using find_bottlenecks.", suspectMetric)
		}

		messages := []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: text,
				},
			},
		}

		return &mcp.GetPromptResult{
			Description: "EgressIP rule drift investigation workflow",
			Messages:    messages,
		}, nil
	})
}

// GetMCPServer returns the underlying mcp-go server for transport setup
func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}
