package mcp

// Tool input schemas. Kept as plain maps so the definitions marshal
// straight into tools/list responses.

func objectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func integerProp(description string) map[string]any {
	return map[string]any{"type": "integer", "description": description}
}

func booleanProp(description string) map[string]any {
	return map[string]any{"type": "boolean", "description": description}
}

func stringArrayProp(description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": description,
	}
}

// fieldsProp accepts either a preset name or an explicit field list.
func fieldsProp() map[string]any {
	return map[string]any{
		"description": "Field selector: a preset name (minimal, basic, standard, media, organization, metadata), a JSON array of field names, or omitted for the full payload. An empty array returns envelope metadata only.",
		"oneOf": []map[string]any{
			{"type": "string"},
			{"type": "array", "items": map[string]any{"type": "string"}},
		},
	}
}

func minimalProp() map[string]any {
	return booleanProp("Return a fixed acknowledgement instead of the full payload.")
}

func toolDefinitions() []map[string]any {
	return []map[string]any{
		{
			"name":        "raindrop.collections.list",
			"description": "List collections. Root collections by default; pass root:false for nested ones.",
			"inputSchema": objectSchema(map[string]any{
				"root":   booleanProp("List root collections (default true) or nested children (false)."),
				"fields": fieldsProp(),
			}),
		},
		{
			"name":        "raindrop.collections.get",
			"description": "Fetch one collection by ID. System IDs: 0 all, -1 unsorted, -99 trash.",
			"inputSchema": objectSchema(map[string]any{
				"id":     integerProp("Collection ID."),
				"fields": fieldsProp(),
			}, "id"),
		},
		{
			"name":        "raindrop.collections.create",
			"description": "Create a collection.",
			"inputSchema": objectSchema(map[string]any{
				"title":       stringProp("Collection title."),
				"description": stringProp("Optional description."),
				"view":        stringProp("View mode: list, simple, grid or masonry."),
				"public":      booleanProp("Make the collection publicly visible."),
				"parent":      integerProp("Parent collection ID for nesting."),
				"cover":       stringArrayProp("Cover image URLs."),
				"minimal":     minimalProp(),
			}, "title"),
		},
		{
			"name":        "raindrop.collections.update",
			"description": "Update a collection. Only the provided fields change.",
			"inputSchema": objectSchema(map[string]any{
				"id":          integerProp("Collection ID."),
				"title":       stringProp("New title."),
				"description": stringProp("New description."),
				"view":        stringProp("View mode: list, simple, grid or masonry."),
				"public":      booleanProp("Toggle public visibility."),
				"parent":      integerProp("New parent collection ID."),
				"cover":       stringArrayProp("Cover image URLs."),
				"minimal":     minimalProp(),
			}, "id"),
		},
		{
			"name":        "raindrop.collections.delete",
			"description": "Delete a collection. Its bookmarks move to trash.",
			"inputSchema": objectSchema(map[string]any{
				"id":      integerProp("Collection ID."),
				"minimal": minimalProp(),
			}, "id"),
		},
		{
			"name":        "raindrop.collections.watch",
			"description": "Poll a collection for bookmarks created since the previous watch. The first watch establishes a baseline and reports zero items.",
			"inputSchema": objectSchema(map[string]any{
				"collection": integerProp("Collection ID to watch. 0 watches everything."),
				"since":      stringProp("Override the stored cursor with an RFC 3339 timestamp or YYYY-MM-DD date."),
				"resetWatch": booleanProp("Discard the stored cursor and re-baseline to now."),
			}, "collection"),
		},
		{
			"name":        "raindrop.bookmarks.list",
			"description": "List bookmarks in a collection with optional search, sort and pagination. Collection 0 spans all bookmarks.",
			"inputSchema": objectSchema(map[string]any{
				"collection": integerProp("Collection ID (default 0, all bookmarks)."),
				"search":     stringProp("Search query."),
				"sort":       stringProp("Sort order: -created, created, score, -sort, title, -title, domain, -domain."),
				"page":       integerProp("Zero-based page number."),
				"perpage":    integerProp("Page size, 1-50 (default 25)."),
				"fields":     fieldsProp(),
			}),
		},
		{
			"name":        "raindrop.bookmarks.get",
			"description": "Fetch one bookmark by ID.",
			"inputSchema": objectSchema(map[string]any{
				"id":     integerProp("Bookmark ID."),
				"fields": fieldsProp(),
			}, "id"),
		},
		{
			"name":        "raindrop.bookmarks.create",
			"description": "Create a bookmark from a link.",
			"inputSchema": objectSchema(map[string]any{
				"link":       stringProp("URL to bookmark."),
				"title":      stringProp("Title override."),
				"excerpt":    stringProp("Excerpt text."),
				"note":       stringProp("Private note."),
				"tags":       stringArrayProp("Tags to apply."),
				"type":       stringProp("Bookmark type, e.g. link, article, image, video, document, audio."),
				"collection": integerProp("Destination collection ID (default unsorted)."),
				"important":  booleanProp("Mark as favorite."),
				"reminder":   stringProp("Reminder date: RFC 3339 timestamp or YYYY-MM-DD."),
				"minimal":    minimalProp(),
			}, "link"),
		},
		{
			"name":        "raindrop.bookmarks.create_many",
			"description": "Create up to 50 bookmarks sequentially, preserving order. Stops on the first failure unless continueOnError is set.",
			"inputSchema": objectSchema(map[string]any{
				"items": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "object"},
					"description": "Bookmark payloads, each with at least a link. 1-50 entries.",
				},
				"delayMs":         integerProp("Delay in milliseconds before each request after the first."),
				"continueOnError": booleanProp("Keep going past per-item failures."),
				"minimal":         minimalProp(),
			}, "items"),
		},
		{
			"name":        "raindrop.bookmarks.update",
			"description": "Update a bookmark. Only the provided fields change; tags replace the whole tag list.",
			"inputSchema": objectSchema(map[string]any{
				"id":         integerProp("Bookmark ID."),
				"link":       stringProp("New URL."),
				"title":      stringProp("New title."),
				"excerpt":    stringProp("New excerpt."),
				"note":       stringProp("New note."),
				"tags":       stringArrayProp("Replacement tag list."),
				"type":       stringProp("New bookmark type."),
				"collection": integerProp("Move to this collection ID."),
				"important":  booleanProp("Set or clear the favorite flag."),
				"reminder":   stringProp("Reminder date: RFC 3339 timestamp or YYYY-MM-DD."),
				"minimal":    minimalProp(),
			}, "id"),
		},
		{
			"name":        "raindrop.bookmarks.delete",
			"description": "Delete a bookmark. A bookmark outside the trash moves to trash; one already in the trash is removed permanently.",
			"inputSchema": objectSchema(map[string]any{
				"id":      integerProp("Bookmark ID."),
				"minimal": minimalProp(),
			}, "id"),
		},
		{
			"name":        "raindrop.bookmarks.trash",
			"description": "Move a bookmark to the trash collection.",
			"inputSchema": objectSchema(map[string]any{
				"id":      integerProp("Bookmark ID."),
				"minimal": minimalProp(),
			}, "id"),
		},
		{
			"name":        "raindrop.bookmarks.restore",
			"description": "Restore a trashed bookmark into a collection (unsorted by default).",
			"inputSchema": objectSchema(map[string]any{
				"id":         integerProp("Bookmark ID."),
				"collection": integerProp("Destination collection ID (default -1, unsorted)."),
				"minimal":    minimalProp(),
			}, "id"),
		},
		{
			"name":        "raindrop.bookmarks.empty_trash",
			"description": "Permanently delete everything in the trash. Requires confirm:true.",
			"inputSchema": objectSchema(map[string]any{
				"confirm": booleanProp("Must be true; emptying the trash cannot be undone."),
				"minimal": minimalProp(),
			}, "confirm"),
		},
		{
			"name":        "raindrop.tags.list",
			"description": "List tags, account-wide or scoped to a collection.",
			"inputSchema": objectSchema(map[string]any{
				"collection": integerProp("Collection ID to scope to; omit for all tags."),
				"fields":     fieldsProp(),
			}),
		},
		{
			"name":        "raindrop.tags.merge",
			"description": "Rename or merge tags into one tag.",
			"inputSchema": objectSchema(map[string]any{
				"tags":       stringArrayProp("Tags to merge."),
				"into":       stringProp("Resulting tag name."),
				"collection": integerProp("Collection ID to scope to; omit for account-wide."),
				"minimal":    minimalProp(),
			}, "tags", "into"),
		},
		{
			"name":        "raindrop.tags.delete",
			"description": "Remove tags from every bookmark carrying them.",
			"inputSchema": objectSchema(map[string]any{
				"tags":       stringArrayProp("Tags to delete."),
				"collection": integerProp("Collection ID to scope to; omit for account-wide."),
				"minimal":    minimalProp(),
			}, "tags"),
		},
		{
			"name":        "raindrop.highlights.list",
			"description": "List highlights account-wide, per collection, or for a single bookmark.",
			"inputSchema": objectSchema(map[string]any{
				"collection": integerProp("Collection ID to scope to."),
				"bookmark":   integerProp("Bookmark ID; takes precedence over collection."),
				"page":       integerProp("Zero-based page number."),
				"perpage":    integerProp("Page size, 1-50."),
				"fields":     fieldsProp(),
			}),
		},
		{
			"name":        "raindrop.highlights.create",
			"description": "Add a highlight to a bookmark.",
			"inputSchema": objectSchema(map[string]any{
				"bookmark": integerProp("Bookmark ID."),
				"text":     stringProp("Highlighted text (required)."),
				"note":     stringProp("Optional note."),
				"color":    stringProp("Highlight color (default yellow)."),
				"minimal":  minimalProp(),
			}, "bookmark", "text"),
		},
		{
			"name":        "raindrop.highlights.update",
			"description": "Update a highlight's text, note or color.",
			"inputSchema": objectSchema(map[string]any{
				"bookmark":  integerProp("Bookmark ID."),
				"highlight": stringProp("Highlight ID."),
				"text":      stringProp("New highlighted text."),
				"note":      stringProp("New note."),
				"color":     stringProp("New color."),
				"minimal":   minimalProp(),
			}, "bookmark", "highlight"),
		},
		{
			"name":        "raindrop.highlights.delete",
			"description": "Delete a highlight from a bookmark.",
			"inputSchema": objectSchema(map[string]any{
				"bookmark":  integerProp("Bookmark ID."),
				"highlight": stringProp("Highlight ID."),
				"minimal":   minimalProp(),
			}, "bookmark", "highlight"),
		},
		{
			"name":        "raindrop.import.parse_url",
			"description": "Parse a URL and return its metadata (title, excerpt, cover) without creating a bookmark.",
			"inputSchema": objectSchema(map[string]any{
				"url": stringProp("URL to parse."),
			}, "url"),
		},
		{
			"name":        "raindrop.import.check_urls",
			"description": "Check which of the given URLs already exist as bookmarks.",
			"inputSchema": objectSchema(map[string]any{
				"urls": stringArrayProp("URLs to check."),
			}, "urls"),
		},
		{
			"name":        "raindrop.import.file",
			"description": "Import bookmarks from a local HTML or CSV export file.",
			"inputSchema": objectSchema(map[string]any{
				"path":       stringProp("Path to the export file on the server host."),
				"collection": integerProp("Destination collection ID."),
				"minimal":    minimalProp(),
			}, "path"),
		},
		{
			"name":        "raindrop.export",
			"description": "Export a collection's bookmarks as csv or html text.",
			"inputSchema": objectSchema(map[string]any{
				"collection": integerProp("Collection ID. 0 exports everything."),
				"format":     stringProp("Export format: csv or html."),
			}, "collection", "format"),
		},
		{
			"name":        "raindrop.files.upload",
			"description": "Upload a local file (max 10 MiB) as a new bookmark.",
			"inputSchema": objectSchema(map[string]any{
				"path":       stringProp("Path to the file on the server host."),
				"collection": integerProp("Destination collection ID."),
				"minimal":    minimalProp(),
			}, "path"),
		},
		{
			"name":        "raindrop.cache.url",
			"description": "Resolve the permanent-cache download URL of a bookmark. Fails if the cache is not ready.",
			"inputSchema": objectSchema(map[string]any{
				"id": integerProp("Bookmark ID."),
			}, "id"),
		},
	}
}
