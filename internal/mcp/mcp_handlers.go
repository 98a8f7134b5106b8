package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/polltrend/polltrend/core"
	"github.com/polltrend/polltrend/internal/contract"
	"github.com/polltrend/polltrend/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// applySourceParams copies the shared source parameters onto the config.
func applySourceParams(cfg *contract.Config, request mcp.CallToolRequest) {
	if u := request.GetString("source_url", ""); u != "" {
		cfg.SourceURL = u
	}
	if f := request.GetString("input", ""); f != "" {
		cfg.InputFile = f
	}
}

func (h *toolHandler) handleAggregatePolls(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	applySourceParams(cfg, request)

	if a := request.GetString("agg_type", ""); a != "" {
		cfg.AggType = schema.AggType(a)
		if _, ok := schema.ValidAggTypes[cfg.AggType]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid agg_type %q: must be mean or median", a)), nil
		}
	}
	if i := request.GetString("interpolation", ""); i != "" {
		cfg.Interpolation = schema.Interpolation(i)
		if _, ok := schema.ValidInterpolations[cfg.Interpolation]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid interpolation %q: must be never, if_missing or always", i)), nil
		}
	}
	if from := request.GetString("from", ""); from != "" {
		t, err := contract.ParseDate(from)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid from date: %v", err)), nil
		}
		cfg.FromDate = t
	}
	if to := request.GetString("to", ""); to != "" {
		t, err := contract.ParseDate(to)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid to date: %v", err)), nil
		}
		cfg.ToDate = t
	}
	if lead := request.GetInt("lead_time", cfg.LeadTime); lead != cfg.LeadTime {
		if lead < 0 {
			return mcp.NewToolResultError(fmt.Sprintf("lead_time cannot be negative (received %d)", lead)), nil
		}
		cfg.LeadTime = lead
	}
	if inc := request.GetInt("increment_days", cfg.IncrementDays); inc != cfg.IncrementDays {
		if inc < 1 {
			return mcp.NewToolResultError(fmt.Sprintf("increment_days must be at least 1 (received %d)", inc)), nil
		}
		cfg.IncrementDays = inc
	}
	if c := request.GetString("candidates", ""); c != "" {
		cfg.Candidates = contract.SplitList(c)
	}

	src := core.NewPollSource(cfg, h.mgr)
	result, err := core.GetTrendResults(core.WithSuppressHeader(ctx), cfg, src, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("aggregation failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListCandidates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	applySourceParams(cfg, request)

	src := core.NewPollSource(cfg, h.mgr)
	polls, err := core.GetPollResults(core.WithSuppressHeader(ctx), cfg, src)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("retrieval failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(polls.Candidates, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
