package mcp

import (
	"context"
	"encoding/json"
	"runtime"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/sce/internal/types"
	"github.com/standardbeagle/sce/internal/version"
	"github.com/standardbeagle/sce/pkg/pathutil"
)

// SelectContextParams are the arguments for the select_context tool.
type SelectContextParams struct {
	Prompt      string `json:"prompt"`
	Root        string `json:"root"`
	MaxTokens   int    `json:"max_tokens"`
	Sensitivity string `json:"sensitivity"`
}

// FindMatchesParams are the arguments for the find_matches tool.
type FindMatchesParams struct {
	Prompt string `json:"prompt"`
	Root   string `json:"root"`
	Limit  int    `json:"limit"`
}

// ComplexityParams are the arguments for estimate_complexity and optimize_edit.
type ComplexityParams struct {
	Prompt string `json:"prompt"`
	File   string `json:"file"`
}

// ValidateParams are the arguments for the validate_edit tool.
type ValidateParams struct {
	Original string `json:"original"`
	Edited   string `json:"edited"`
	File     string `json:"file"`
	Level    string `json:"level"`
}

// GraphStatsParams are the arguments for the graph_stats tool.
type GraphStatsParams struct {
	Root string `json:"root"`
}

func (s *Server) handleSelectContext(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.recoverFromPanic("select_context", func() (*mcp.CallToolResult, error) {
		var params SelectContextParams
		if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
			return createErrorResponse("select_context", "invalid parameters: "+err.Error())
		}
		if params.Prompt == "" {
			return createErrorResponse("select_context", "prompt is required")
		}

		root := s.resolveRoot(params.Root)

		// Overrides apply to this request only; the shared config stays
		// untouched so concurrent requests cannot leak budgets into each
		// other.
		ccfg := s.engine.ContextConfig()
		if params.MaxTokens > 0 {
			ccfg.MaxTokens = params.MaxTokens
		}
		if params.Sensitivity != "" {
			ccfg.Sensitivity = types.Sensitivity(params.Sensitivity)
		}

		result := s.engine.SelectContextWith(ctx, params.Prompt, root, ccfg)
		return createJSONResponse(map[string]interface{}{
			"success":         true,
			"selected_files":  pathutil.ToRelativeAll(result.SelectedFiles, root),
			"total_tokens":    result.TotalTokens,
			"relevance_ratio": result.RelevanceRatio,
		})
	})
}

func (s *Server) handleFindMatches(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.recoverFromPanic("find_matches", func() (*mcp.CallToolResult, error) {
		var params FindMatchesParams
		if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
			return createErrorResponse("find_matches", "invalid parameters: "+err.Error())
		}
		if params.Prompt == "" {
			return createErrorResponse("find_matches", "prompt is required")
		}

		root := s.resolveRoot(params.Root)
		matches, err := s.engine.FindMatches(ctx, params.Prompt, root)
		if err != nil {
			return createErrorResponse("find_matches", err.Error())
		}
		if params.Limit > 0 && len(matches) > params.Limit {
			matches = matches[:params.Limit]
		}
		matches = pathutil.ToRelativeMatches(matches, root)

		out := make([]map[string]interface{}, len(matches))
		for i, m := range matches {
			out[i] = map[string]interface{}{
				"file_path":          m.FilePath,
				"relevance_score":    m.RelevanceScore,
				"matched_entities":   m.MatchedEntities,
				"context_importance": m.ContextImportance,
				"match_type":         string(m.MatchType),
			}
		}
		return createJSONResponse(map[string]interface{}{
			"success": true,
			"matches": out,
		})
	})
}

func (s *Server) handleEstimateComplexity(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.recoverFromPanic("estimate_complexity", func() (*mcp.CallToolResult, error) {
		var params ComplexityParams
		if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
			return createErrorResponse("estimate_complexity", "invalid parameters: "+err.Error())
		}
		if params.Prompt == "" {
			return createErrorResponse("estimate_complexity", "prompt is required")
		}

		analysis := s.engine.EstimateComplexity(params.Prompt, params.File)
		return createJSONResponse(map[string]interface{}{
			"success":            true,
			"complexity":         analysis.Complexity.String(),
			"confidence":         analysis.Confidence,
			"estimated_tokens":   analysis.EstimatedTokens,
			"reasoning":          analysis.Reasoning,
			"suggested_strategy": strategyJSON(analysis.SuggestedStrategy),
		})
	})
}

func (s *Server) handleOptimizeEdit(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.recoverFromPanic("optimize_edit", func() (*mcp.CallToolResult, error) {
		var params ComplexityParams
		if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
			return createErrorResponse("optimize_edit", "invalid parameters: "+err.Error())
		}
		if params.Prompt == "" {
			return createErrorResponse("optimize_edit", "prompt is required")
		}

		edit := s.engine.OptimizeEdit(params.Prompt, params.File)
		return createJSONResponse(map[string]interface{}{
			"success":                true,
			"strategy":               strategyJSON(edit.Strategy),
			"optimized_prompt":       edit.OptimizedPrompt,
			"expected_output_format": edit.ExpectedOutputFormat,
			"validation_rules":       edit.ValidationRules,
			"processing_hints":       edit.ProcessingHints,
		})
	})
}

func (s *Server) handleValidateEdit(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.recoverFromPanic("validate_edit", func() (*mcp.CallToolResult, error) {
		var params ValidateParams
		if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
			return createErrorResponse("validate_edit", "invalid parameters: "+err.Error())
		}

		result := s.engine.ValidateEdit(params.Original, params.Edited, params.File, parseLevel(params.Level))
		return createJSONResponse(map[string]interface{}{
			"success":            true,
			"syntax_valid":       result.SyntaxValid,
			"structure_intact":   result.StructureIntact,
			"potential_issues":   result.PotentialIssues,
			"confidence":         result.Confidence,
			"validation_level":   result.ValidationLevel.String(),
			"processing_time_ms": result.ProcessingTimeMs,
		})
	})
}

func (s *Server) handleGraphStats(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.recoverFromPanic("graph_stats", func() (*mcp.CallToolResult, error) {
		var params GraphStatsParams
		if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
			return createErrorResponse("graph_stats", "invalid parameters: "+err.Error())
		}

		g, err := s.engine.Graph(ctx, s.resolveRoot(params.Root))
		if err != nil {
			return createErrorResponse("graph_stats", err.Error())
		}
		stats := g.Stats()
		return createJSONResponse(map[string]interface{}{
			"success":        true,
			"node_count":     stats.NodeCount,
			"edge_count":     stats.EdgeCount,
			"max_in_degree":  stats.MaxInDegree,
			"avg_out_degree": stats.AvgOutDegree,
			"cycles":         g.DetectCycles(),
		})
	})
}

func (s *Server) handleInfo(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.recoverFromPanic("info", func() (*mcp.CallToolResult, error) {
		return createJSONResponse(map[string]interface{}{
			"server_name":    "sce-mcp-server",
			"server_version": version.FullInfo(),
			"go_version":     runtime.Version(),
			"platform":       runtime.GOOS + "/" + runtime.GOARCH,
			"project_root":   s.cfg.Project.Root,
			"sensitivity":    s.cfg.Context.Sensitivity,
			"max_tokens":     s.cfg.Context.MaxTokens,
			"cache_stats":    s.engine.CacheStats(),
			"capabilities": []string{
				"stdio_transport",
				"dependency_graph",
				"semantic_matching",
				"token_budget_selection",
				"complexity_classification",
				"edit_validation",
			},
		})
	})
}

func (s *Server) resolveRoot(root string) string {
	if root != "" {
		return root
	}
	return s.cfg.Project.Root
}

func parseLevel(level string) types.ValidationLevel {
	switch level {
	case "enhanced":
		return types.ValidationEnhanced
	case "strict":
		return types.ValidationStrict
	}
	return types.ValidationBasic
}

func strategyJSON(strategy types.EditStrategy) map[string]interface{} {
	return map[string]interface{}{
		"model_selection":  string(strategy.ModelSelection),
		"max_tokens":       strategy.MaxTokens,
		"validation_level": strategy.ValidationLevel.String(),
		"retry_policy": map[string]interface{}{
			"max_attempts":       strategy.RetryPolicy.MaxAttempts,
			"backoff_multiplier": strategy.RetryPolicy.BackoffMultiplier,
			"initial_delay_ms":   strategy.RetryPolicy.InitialDelayMs,
		},
	}
}
