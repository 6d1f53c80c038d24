package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/northbuild/necbquery/internal/corpus"
	"github.com/northbuild/necbquery/internal/search"
)

const (
	sectionPreviewLen = 500
	snippetLen        = 200
)

// handleLookupSection lists sections matching the given patterns.
func (s *Server) handleLookupSection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	vintage, err := request.RequireString("vintage")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: vintage"), nil
	}

	sections, err := s.store.LookupSections(ctx,
		vintage,
		request.GetString("section_pattern", ""),
		request.GetString("title_pattern", ""),
		request.GetInt("limit", 20),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("section lookup failed: %v", err)), nil
	}
	if len(sections) == 0 {
		return mcp.NewToolResultText("No matching sections."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d section(s) in vintage %s:\n", len(sections), vintage)
	for _, sec := range sections {
		fmt.Fprintf(&sb, "\nSection %s: %s (page %d)\n", sec.SectionNumber, sec.Title, sec.PageNumber)
		sb.WriteString(truncate(sec.Content, sectionPreviewLen))
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleLookupTable fetches one table by its (loosely formatted) number.
func (s *Server) handleLookupTable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	vintage, err := request.RequireString("vintage")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: vintage"), nil
	}
	tableNumber, err := request.RequireString("table_number")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: table_number"), nil
	}

	tbl, err := s.store.LookupTable(ctx, vintage, tableNumber)
	if err != nil {
		if errors.Is(err, corpus.ErrNotFound) {
			return mcp.NewToolResultText(fmt.Sprintf(
				"Table %q not found in vintage %s.", tableNumber, vintage)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("table lookup failed: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Table %s: %s (vintage %s, page %d)\n\n", tbl.TableNumber, tbl.Title, tbl.Vintage, tbl.PageNumber)
	sb.WriteString(strings.Join(tbl.Headers, " | "))
	sb.WriteString("\n")
	for _, row := range tbl.Rows {
		sb.WriteString(strings.Join(row, " | "))
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleLookupRequirements lists extracted requirements.
func (s *Server) handleLookupRequirements(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reqs, err := s.store.LookupRequirements(ctx,
		request.GetString("requirement_type", ""),
		request.GetString("vintage", ""),
		request.GetString("section", ""),
		request.GetInt("limit", 50),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("requirements lookup failed: %v", err)), nil
	}
	if len(reqs) == 0 {
		return mcp.NewToolResultText("No matching requirements."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d requirement(s):\n", len(reqs))
	for _, r := range reqs {
		fmt.Fprintf(&sb, "\n[%s] %s section %s: %s", r.RequirementType, r.Vintage, r.Section, r.Description)
		if r.Value != "" {
			fmt.Fprintf(&sb, " = %s %s", r.Value, r.Unit)
		}
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleKeywordQuery runs the pure full-text path.
func (s *Server) handleKeywordQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	hits, err := s.store.KeywordSearch(ctx,
		query,
		request.GetString("vintage", ""),
		corpus.Kind(request.GetString("content_type", "")),
		request.GetInt("limit", 20),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("keyword search failed: %v", err)), nil
	}
	if len(hits) == 0 {
		return mcp.NewToolResultText("No results found."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d result(s):\n", len(hits))
	for _, h := range hits {
		fmt.Fprintf(&sb, "\n%d. [%s] %s (vintage %s)\n", h.Rank, h.Kind, h.Title, h.Vintage)
		sb.WriteString(truncate(h.Content, snippetLen))
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleSemanticQuery runs the full hybrid path.
func (s *Server) handleSemanticQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}
	vintage, err := request.RequireString("vintage")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: vintage"), nil
	}

	resp, err := s.engine.Search(ctx,
		vintage,
		query,
		request.GetInt("top_k", 10),
		request.GetBool("use_query_understanding", true),
	)
	if err != nil {
		if errors.Is(err, search.ErrSemanticIndexUnavailable) {
			return mcp.NewToolResultText(fmt.Sprintf(
				"Semantic index not initialized for vintage %s. Run `necbquery index --vintage %s` to build it, or use keyword_query.",
				vintage, vintage)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	return mcp.NewToolResultText(formatSearchResponse(resp)), nil
}

// handleCompareRequirements groups one requirement type across vintages.
func (s *Server) handleCompareRequirements(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reqType, err := request.RequireString("requirement_type")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: requirement_type"), nil
	}

	var vintages []string
	if raw := request.GetString("vintages", ""); raw != "" {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				vintages = append(vintages, v)
			}
		}
	}

	comparison, err := s.store.CompareRequirements(ctx, reqType, vintages)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}

	if len(vintages) == 0 {
		vintages = corpus.KnownVintages
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Requirement %q across vintages:\n", reqType)
	for _, v := range vintages {
		reqs := comparison[v]
		fmt.Fprintf(&sb, "\n%s (%d):\n", v, len(reqs))
		for _, r := range reqs {
			fmt.Fprintf(&sb, "  - %s", r.Description)
			if r.Value != "" {
				fmt.Fprintf(&sb, " = %s %s", r.Value, r.Unit)
			}
			sb.WriteString("\n")
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// formatSearchResponse renders a hybrid search response for AI agent
// consumption, including which ranking signals actually contributed.
func formatSearchResponse(resp *search.Response) string {
	var sb strings.Builder

	if resp.Mode == search.ModeKeywordOnly {
		fmt.Fprintf(&sb, "Note: semantic ranking unavailable for this query (%s); results are keyword-only.\n", resp.DegradedCause)
	}
	if resp.Entities != nil {
		if resp.Entities.Location != "" {
			fmt.Fprintf(&sb, "Recognized location: %s (Zone %s, %d HDD)\n",
				resp.Entities.Location, resp.Entities.ClimateZone, resp.Entities.HDD)
		}
		if resp.Entities.BuildingType != "" {
			fmt.Fprintf(&sb, "Recognized building type: %s\n", resp.Entities.BuildingType)
		}
		if len(resp.Entities.Concepts) > 0 {
			fmt.Fprintf(&sb, "Recognized concepts: %s\n", strings.Join(resp.Entities.Concepts, ", "))
		}
	}

	if len(resp.Results) == 0 {
		sb.WriteString("No results found.\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "Found %d result(s):\n", len(resp.Results))
	for i, r := range resp.Results {
		fmt.Fprintf(&sb, "\n--- Result %d (score %.4f) ---\n", i+1, r.Score)
		fmt.Fprintf(&sb, "[%s] %s", r.Kind, r.Title)
		if r.Locator != "" {
			fmt.Fprintf(&sb, " (%s)", r.Locator)
		}
		fmt.Fprintf(&sb, "\nVintage: %s, page %d\n", r.Vintage, r.Page)
		if r.KeywordRank > 0 {
			fmt.Fprintf(&sb, "Keyword rank: %d\n", r.KeywordRank)
		}
		if r.SemanticRank > 0 {
			fmt.Fprintf(&sb, "Semantic rank: %d (similarity %.4f)\n", r.SemanticRank, r.Similarity)
		}
		sb.WriteString(truncate(r.Content, sectionPreviewLen))
		sb.WriteString("\n")
	}
	return sb.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// Back up to a rune boundary so units like "²" are never split.
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
