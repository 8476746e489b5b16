package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// recommendAssessmentsTool returns the tool definition for recommend_assessments
func recommendAssessmentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "recommend_assessments",
		Description: "Recommend assessment products for a job description or hiring query using blended semantic and keyword ranking",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Job description or natural-language hiring query",
				},
				"top_k": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of recommendations to return (1-50)",
					"default":     10,
					"minimum":     1,
					"maximum":     50,
				},
				"semantic_weight": map[string]interface{}{
					"type":        "number",
					"description": "Weight applied to the semantic similarity score",
					"default":     0.6,
					"minimum":     0.0,
					"maximum":     1.0,
				},
				"keyword_weight": map[string]interface{}{
					"type":        "number",
					"description": "Weight applied to the keyword match score",
					"default":     0.4,
					"minimum":     0.0,
					"maximum":     1.0,
				},
			},
			Required: []string{"query"},
		},
	}
}

// similarAssessmentsTool returns the tool definition for similar_assessments
func similarAssessmentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "similar_assessments",
		Description: "Find assessment products by vector similarity alone, without keyword blending",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Text to match against the catalog",
				},
				"top_k": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-50)",
					"default":     10,
					"minimum":     1,
					"maximum":     50,
				},
				"min_similarity": map[string]interface{}{
					"type":        "number",
					"description": "Minimum cosine similarity threshold (-1.0 to 1.0); items below it are excluded",
					"default":     0.0,
					"minimum":     -1.0,
					"maximum":     1.0,
				},
			},
			Required: []string{"query"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report catalog size and embedding coverage",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
