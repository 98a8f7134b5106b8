// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/polltrend/polltrend/internal/contract"
)

// NewMCPServer initializes and configures the Polltrend MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Polltrend Aggregation Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: aggregate_polls ---
	s.AddTool(mcp.NewTool("aggregate_polls",
		mcp.WithDescription("Aggregate sparse poll observations into a regular smoothed time series."),
		mcp.WithString("source_url", mcp.Description("URL of the poll table to scrape (defaults to the configured source).")),
		mcp.WithString("input", mcp.Description("Path to a local raw polls CSV; takes precedence over the URL.")),
		mcp.WithString("from", mcp.Description("Start date in YYYY-MM-DD form (defaults to the earliest date in the data).")),
		mcp.WithString("to", mcp.Description("End date in YYYY-MM-DD form (defaults to the latest date in the data).")),
		mcp.WithString("agg_type", mcp.Description("Statistic used per window (mean, median). Defaults to 'mean'."), mcp.Enum("mean", "median")),
		mcp.WithString("interpolation", mcp.Description("Lookback pooling policy (never, if_missing, always). Defaults to 'if_missing'."), mcp.Enum("never", "if_missing", "always")),
		mcp.WithNumber("lead_time", mcp.Description("Lookback window length in days.")),
		mcp.WithNumber("increment_days", mcp.Description("Days between evaluation dates.")),
		mcp.WithString("candidates", mcp.Description("Comma-separated candidate filter (defaults to all candidates in the source).")),
	), h.handleAggregatePolls)

	// --- 2. Tool: list_candidates ---
	s.AddTool(mcp.NewTool("list_candidates",
		mcp.WithDescription("List the candidates found in the poll source."),
		mcp.WithString("source_url", mcp.Description("URL of the poll table to scrape.")),
		mcp.WithString("input", mcp.Description("Path to a local raw polls CSV.")),
	), h.handleListCandidates)

	return s
}

// StartMCPServer starts the Polltrend MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
