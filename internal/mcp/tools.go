package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/talentsift/assessrec/internal/embedder"
	"github.com/talentsift/assessrec/internal/ranker"
	"github.com/talentsift/assessrec/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams  = -32602 // Invalid method parameters
	ErrorCodeInternalError  = -32603 // Internal JSON-RPC error
	ErrorCodeEmptyQuery     = -32001 // Query parameter is empty
	ErrorCodeProviderFailed = -32002 // Embedding provider call failed
	ErrorCodeNotConfigured  = -32003 // Embedding provider is not configured
	ErrorCodeEmptyEmbedding = -32004 // Provider returned an empty query vector
)

const (
	minTopK = 1
	maxTopK = 50
)

// handleRecommendAssessments handles the recommend_assessments tool invocation
func (s *Server) handleRecommendAssessments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, err := extractQuery(args)
	if err != nil {
		return nil, err
	}

	topK, err := extractTopK(args)
	if err != nil {
		return nil, err
	}

	semWeight := getFloatDefault(args, "semantic_weight", ranker.DefaultSemanticWeight)
	keyWeight := getFloatDefault(args, "keyword_weight", ranker.DefaultKeywordWeight)
	if semWeight < 0 || semWeight > 1 {
		return nil, newMCPError(ErrorCodeInvalidParams, "semantic_weight must be between 0 and 1", map[string]interface{}{
			"param": "semantic_weight",
			"value": semWeight,
		})
	}
	if keyWeight < 0 || keyWeight > 1 {
		return nil, newMCPError(ErrorCodeInvalidParams, "keyword_weight must be between 0 and 1", map[string]interface{}{
			"param": "keyword_weight",
			"value": keyWeight,
		})
	}
	if semWeight == 0 && keyWeight == 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "at least one weight must be positive", nil)
	}

	resp, err := s.ranker.Rank(ctx, ranker.Request{
		Query:          query,
		TopK:           topK,
		Mode:           ranker.ModeHybrid,
		SemanticWeight: semWeight,
		KeywordWeight:  keyWeight,
	})
	if err != nil {
		return nil, rankErrorToMCP(err)
	}

	return mcp.NewToolResultText(formatJSON(rankResponse(resp))), nil
}

// handleSimilarAssessments handles the similar_assessments tool invocation
func (s *Server) handleSimilarAssessments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, err := extractQuery(args)
	if err != nil {
		return nil, err
	}

	topK, err := extractTopK(args)
	if err != nil {
		return nil, err
	}

	minSimilarity := getFloatDefault(args, "min_similarity", 0)
	if minSimilarity < -1 || minSimilarity > 1 {
		return nil, newMCPError(ErrorCodeInvalidParams, "min_similarity must be between -1 and 1", map[string]interface{}{
			"param": "min_similarity",
			"value": minSimilarity,
		})
	}

	resp, err := s.ranker.Rank(ctx, ranker.Request{
		Query:         query,
		TopK:          topK,
		Mode:          ranker.ModeVector,
		MinSimilarity: minSimilarity,
	})
	if err != nil {
		return nil, rankErrorToMCP(err)
	}

	return mcp.NewToolResultText(formatJSON(rankResponse(resp))), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.store.Status(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get catalog status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"total_items":    status.TotalItems,
		"embedded_items": status.EmbeddedItems,
		"ready":          status.TotalItems > 0 && status.EmbeddedItems == status.TotalItems,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// extractQuery reads and validates the query parameter
func extractQuery(args map[string]interface{}) (string, error) {
	query, ok := args["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		return "", newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}
	return query, nil
}

// extractTopK reads top_k, applying the default and range check
func extractTopK(args map[string]interface{}) (int, error) {
	topK := getIntDefault(args, "top_k", ranker.DefaultTopK)
	if topK < minTopK || topK > maxTopK {
		return 0, newMCPError(ErrorCodeInvalidParams,
			fmt.Sprintf("top_k must be between %d and %d", minTopK, maxTopK),
			map[string]interface{}{
				"param": "top_k",
				"value": topK,
			})
	}
	return topK, nil
}

// rankErrorToMCP maps pipeline errors onto MCP error codes
func rankErrorToMCP(err error) error {
	switch {
	case errors.Is(err, ranker.ErrEmptyQuery):
		return newMCPError(ErrorCodeEmptyQuery, "query cannot be empty", nil)
	case errors.Is(err, ranker.ErrQueryTooLong):
		return newMCPError(ErrorCodeInvalidParams, "query is too long", map[string]interface{}{
			"error": err.Error(),
		})
	case errors.Is(err, ranker.ErrEmptyEmbedding), errors.Is(err, embedder.ErrEmptyEmbedding):
		return newMCPError(ErrorCodeEmptyEmbedding, "embedding provider returned an empty vector", nil)
	case errors.Is(err, embedder.ErrProviderUnavailable), errors.Is(err, embedder.ErrModelNotConfigured):
		return newMCPError(ErrorCodeNotConfigured, "embedding provider is not configured", map[string]interface{}{
			"error": err.Error(),
		})
	case errors.Is(err, embedder.ErrProviderFailed):
		return newMCPError(ErrorCodeProviderFailed, "embedding provider call failed", map[string]interface{}{
			"error": err.Error(),
		})
	default:
		return newMCPError(ErrorCodeInternalError, "recommendation failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// rankResponse converts a ranker response into the wire shape
func rankResponse(resp *ranker.Response) map[string]interface{} {
	results := make([]map[string]interface{}, 0, len(resp.Results))
	for i := range resp.Results {
		results = append(results, itemResponse(&resp.Results[i]))
	}

	return map[string]interface{}{
		"results":      results,
		"total_scored": resp.TotalScored,
		"skipped":      resp.Skipped,
		"duration_ms":  resp.Duration.Milliseconds(),
	}
}

// itemResponse flattens one scored item for the wire
func itemResponse(scored *types.ScoredItem) map[string]interface{} {
	item := &scored.Item
	out := map[string]interface{}{
		"name":           item.Name,
		"url":            item.URL,
		"description":    item.Description,
		"test_type":      item.TestTypeCodes,
		"job_levels":     item.JobLevels,
		"languages":      item.Languages,
		"duration":       item.DurationText,
		"semantic_score": scored.SemanticScore,
		"keyword_score":  scored.KeywordScore,
		"combined_score": scored.CombinedScore,
	}
	if item.RemoteTesting != nil {
		out["remote_testing"] = *item.RemoteTesting
	}
	if item.AdaptiveSupport != nil {
		out["adaptive_irt"] = *item.AdaptiveSupport
	}
	return out
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getFloatDefault extracts a number parameter with a default value
func getFloatDefault(args map[string]interface{}, key string, defaultValue float64) float64 {
	if val, ok := args[key].(float64); ok {
		return val
	}
	if val, ok := args[key].(int); ok {
		return float64(val)
	}
	return defaultValue
}
