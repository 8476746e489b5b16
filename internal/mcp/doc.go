// Package mcp implements the Model Context Protocol (MCP) server surface for
// the assessment recommendation engine.
//
// The server exposes three tools to MCP clients:
//   - recommend_assessments: rank the catalog against a free-text query using
//     blended semantic and keyword scoring
//   - similar_assessments: rank by vector similarity alone, with an optional
//     minimum-similarity cutoff
//   - get_status: report catalog size and embedding coverage
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport. The server listens on
// stdin for protocol messages and writes responses to stdout, so all logging
// goes to stderr.
package mcp
