package mcp

import "github.com/mark3labs/mcp-go/mcp"

// lookupSectionTool defines the lookup_section MCP tool.
var lookupSectionTool = mcp.NewTool("lookup_section",
	mcp.WithDescription("Look up code sections by vintage, section number pattern, or title pattern."),
	mcp.WithString("vintage",
		mcp.Required(),
		mcp.Description("Code vintage"),
		mcp.Enum("2011", "2015", "2017", "2020"),
	),
	mcp.WithString("section_pattern",
		mcp.Description("Section number pattern, e.g. \"3.2\" or \"3.2.1\""),
	),
	mcp.WithString("title_pattern",
		mcp.Description("Title search pattern"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum results (default 20)"),
	),
)

// lookupTableTool defines the lookup_table MCP tool.
var lookupTableTool = mcp.NewTool("lookup_table",
	mcp.WithDescription("Fetch one code table with all rows by exact table number. Accepts loose formats: \"3.2.2.2\", \"Table 3.2.2.2\", or \"Table 3.2.2.2.\"."),
	mcp.WithString("vintage",
		mcp.Required(),
		mcp.Description("Code vintage"),
		mcp.Enum("2011", "2015", "2017", "2020"),
	),
	mcp.WithString("table_number",
		mcp.Required(),
		mcp.Description("Table number"),
	),
)

// lookupRequirementsTool defines the lookup_requirements MCP tool.
var lookupRequirementsTool = mcp.NewTool("lookup_requirements",
	mcp.WithDescription("Search extracted requirements by type, vintage, or section."),
	mcp.WithString("requirement_type",
		mcp.Description("Requirement type, e.g. \"u_value\", \"envelope\", \"lighting_power_density\""),
	),
	mcp.WithString("vintage",
		mcp.Description("Filter by vintage"),
		mcp.Enum("2011", "2015", "2017", "2020"),
	),
	mcp.WithString("section",
		mcp.Description("Filter by section number"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum results (default 50)"),
	),
)

// keywordQueryTool defines the keyword_query MCP tool.
var keywordQueryTool = mcp.NewTool("keyword_query",
	mcp.WithDescription("Full-text keyword search across all code content. Fast; no embedding call."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Search query (keywords or natural language)"),
	),
	mcp.WithString("vintage",
		mcp.Description("Filter by vintage"),
		mcp.Enum("2011", "2015", "2017", "2020"),
	),
	mcp.WithString("content_type",
		mcp.Description("Filter by content type"),
		mcp.Enum("section", "table", "requirement"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum results (default 20)"),
	),
)

// semanticQueryTool defines the semantic_query MCP tool.
var semanticQueryTool = mcp.NewTool("semantic_query",
	mcp.WithDescription("Hybrid search combining keyword and semantic ranking via Reciprocal Rank Fusion. Requires a built vector index for the vintage."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language query"),
	),
	mcp.WithString("vintage",
		mcp.Required(),
		mcp.Description("Code vintage to search"),
		mcp.Enum("2011", "2015", "2017", "2020"),
	),
	mcp.WithNumber("top_k",
		mcp.Description("Number of results to return (default 10)"),
	),
	mcp.WithBoolean("use_query_understanding",
		mcp.Description("Expand the query with recognized locations, building types, and terminology (default true)"),
	),
)

// compareRequirementsTool defines the compare_requirements MCP tool.
var compareRequirementsTool = mcp.NewTool("compare_requirements",
	mcp.WithDescription("Compare one requirement type across code vintages."),
	mcp.WithString("requirement_type",
		mcp.Required(),
		mcp.Description("Requirement type to compare"),
	),
	mcp.WithString("vintages",
		mcp.Description("Comma-separated vintages to compare (default: all)"),
	),
)
