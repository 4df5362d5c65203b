package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var imagesToolDef = mcp.NewTool("record_images",
	mcp.WithDescription("Extract every image a record references, both attached via image fields and embedded in rich-text HTML, resolved to public URLs and MIME types."),
	mcp.WithString("record_id",
		mcp.Required(),
		mcp.Description("ID of the record to extract images from"),
	),
)

var fetchToolDef = mcp.NewTool("record_fetch",
	mcp.WithDescription("Fetch a record by ID with its field values."),
	mcp.WithString("record_id",
		mcp.Required(),
		mcp.Description("ID of the record to fetch"),
	),
)

var listToolDef = mcp.NewTool("record_list",
	mcp.WithDescription("List record summaries, newest first."),
)

var resolveToolDef = mcp.NewTool("file_resolve",
	mcp.WithDescription("Resolve a UUID to the entity it addresses and report whether it is a file or a record."),
	mcp.WithString("uuid",
		mcp.Required(),
		mcp.Description("UUID to resolve"),
	),
)
