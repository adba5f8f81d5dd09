package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/raindrop-contrib/raindrop-mcp/internal/raindrop"
)

// ackResult is the fixed acknowledgement every mutating tool returns when
// the caller asks for a minimal response. It replaces the payload, not
// errors: failures always surface in full.
func ackResult(op string) map[string]any {
	return map[string]any{"result": true, "operation": op}
}

func shaped(result any, minimal bool, op string) any {
	if minimal {
		return ackResult(op)
	}
	return result
}

// project applies the caller's field selector to a read result.
func (s *Server) project(env map[string]any, selector any) (map[string]any, error) {
	fields, ok, err := s.presets.Resolve(selector)
	if err != nil {
		return nil, err
	}
	if !ok {
		return env, nil
	}
	return raindrop.ProjectEnvelope(env, fields), nil
}

func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (any, error) {
	switch name {

	case "raindrop.collections.list":
		var in struct {
			Root   *bool `json:"root"`
			Fields any   `json:"fields"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		root := true
		if in.Root != nil {
			root = *in.Root
		}
		env, err := s.client.ListCollections(ctx, root)
		if err != nil {
			return nil, err
		}
		return s.project(env, in.Fields)

	case "raindrop.collections.get":
		var in struct {
			ID     int64 `json:"id"`
			Fields any   `json:"fields"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		env, err := s.client.GetCollection(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		return s.project(env, in.Fields)

	case "raindrop.collections.create":
		var in struct {
			Title       string   `json:"title"`
			Description string   `json:"description"`
			View        string   `json:"view"`
			Public      *bool    `json:"public"`
			Parent      *int64   `json:"parent"`
			Cover       []string `json:"cover"`
			Minimal     bool     `json:"minimal"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		if strings.TrimSpace(in.Title) == "" {
			return nil, &raindrop.ValidationError{Message: "title is required"}
		}
		fields, err := collectionFields(in.Title, in.Description, in.View, in.Public, in.Parent, in.Cover)
		if err != nil {
			return nil, err
		}
		env, err := s.client.CreateCollection(ctx, fields)
		if err != nil {
			return nil, err
		}
		return shaped(env, in.Minimal, "collection created"), nil

	case "raindrop.collections.update":
		var in struct {
			ID          int64    `json:"id"`
			Title       string   `json:"title"`
			Description string   `json:"description"`
			View        string   `json:"view"`
			Public      *bool    `json:"public"`
			Parent      *int64   `json:"parent"`
			Cover       []string `json:"cover"`
			Minimal     bool     `json:"minimal"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		fields, err := collectionFields(in.Title, in.Description, in.View, in.Public, in.Parent, in.Cover)
		if err != nil {
			return nil, err
		}
		if len(fields) == 0 {
			return nil, &raindrop.ValidationError{Message: "nothing to update"}
		}
		env, err := s.client.UpdateCollection(ctx, in.ID, fields)
		if err != nil {
			return nil, err
		}
		return shaped(env, in.Minimal, "collection updated"), nil

	case "raindrop.collections.delete":
		var in struct {
			ID      int64 `json:"id"`
			Minimal bool  `json:"minimal"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		env, err := s.client.DeleteCollection(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		return shaped(env, in.Minimal, "collection deleted"), nil

	case "raindrop.bookmarks.list":
		var in struct {
			Collection *int64 `json:"collection"`
			Search     string `json:"search"`
			Sort       string `json:"sort"`
			Page       int    `json:"page"`
			PerPage    int    `json:"perpage"`
			Fields     any    `json:"fields"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		if err := validateSort(in.Sort); err != nil {
			return nil, err
		}
		collectionID := raindrop.CollectionAll
		if in.Collection != nil {
			collectionID = *in.Collection
		}
		env, err := s.client.ListRaindrops(ctx, collectionID, raindrop.ListOptions{
			Search:  in.Search,
			Sort:    in.Sort,
			Page:    in.Page,
			PerPage: in.PerPage,
		})
		if err != nil {
			return nil, err
		}
		return s.project(env, in.Fields)

	case "raindrop.bookmarks.get":
		var in struct {
			ID     int64 `json:"id"`
			Fields any   `json:"fields"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		env, err := s.client.GetRaindrop(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		return s.project(env, in.Fields)

	case "raindrop.bookmarks.create":
		var in struct {
			bookmarkArgs
			Minimal bool `json:"minimal"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		if strings.TrimSpace(in.Link) == "" {
			return nil, &raindrop.ValidationError{Message: "link is required"}
		}
		fields, err := in.bookmarkArgs.fields()
		if err != nil {
			return nil, err
		}
		env, err := s.client.CreateRaindrop(ctx, fields)
		if err != nil {
			return nil, err
		}
		return shaped(env, in.Minimal, "bookmark created"), nil

	case "raindrop.bookmarks.update":
		var in struct {
			ID int64 `json:"id"`
			bookmarkArgs
			Minimal bool `json:"minimal"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		fields, err := in.bookmarkArgs.fields()
		if err != nil {
			return nil, err
		}
		if len(fields) == 0 {
			return nil, &raindrop.ValidationError{Message: "nothing to update"}
		}
		env, err := s.client.UpdateRaindrop(ctx, in.ID, fields)
		if err != nil {
			return nil, err
		}
		return shaped(env, in.Minimal, "bookmark updated"), nil

	case "raindrop.bookmarks.delete":
		var in struct {
			ID      int64 `json:"id"`
			Minimal bool  `json:"minimal"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		env, err := s.client.DeleteRaindrop(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		return shaped(env, in.Minimal, "bookmark deleted"), nil

	case "raindrop.bookmarks.trash":
		var in struct {
			ID      int64 `json:"id"`
			Minimal bool  `json:"minimal"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		env, err := s.client.TrashRaindrop(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		return shaped(env, in.Minimal, "bookmark moved to trash"), nil

	case "raindrop.bookmarks.restore":
		var in struct {
			ID         int64  `json:"id"`
			Collection *int64 `json:"collection"`
			Minimal    bool   `json:"minimal"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		target := raindrop.CollectionUnsorted
		if in.Collection != nil {
			target = *in.Collection
		}
		env, err := s.client.RestoreRaindrop(ctx, in.ID, target)
		if err != nil {
			return nil, err
		}
		return shaped(env, in.Minimal, "bookmark restored"), nil

	case "raindrop.bookmarks.empty_trash":
		var in struct {
			Confirm bool `json:"confirm"`
			Minimal bool `json:"minimal"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		// Irreversible; an explicit opt-in is required every time.
		if !in.Confirm {
			return nil, &raindrop.ValidationError{Message: "emptying the trash is permanent; pass confirm:true to proceed"}
		}
		env, err := s.client.EmptyTrash(ctx)
		if err != nil {
			return nil, err
		}
		return shaped(env, in.Minimal, "trash emptied"), nil

	case "raindrop.bookmarks.create_many":
		var in struct {
			Items           []map[string]any `json:"items"`
			DelayMs         int              `json:"delayMs"`
			ContinueOnError bool             `json:"continueOnError"`
			Minimal         bool             `json:"minimal"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		if in.DelayMs < 0 {
			return nil, &raindrop.ValidationError{Message: "delayMs must be >= 0"}
		}
		result, err := s.client.CreateRaindrops(ctx, in.Items, raindrop.BulkOptions{
			Delay:           time.Duration(in.DelayMs) * time.Millisecond,
			ContinueOnError: in.ContinueOnError,
		})
		if err != nil {
			return nil, err
		}
		if in.Minimal {
			// Compact digest: counts and failures, no created-item detail.
			result.Items = nil
		}
		return result, nil

	case "raindrop.tags.list":
		var in struct {
			Collection *int64 `json:"collection"`
			Fields     any    `json:"fields"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		env, err := s.client.ListTags(ctx, in.Collection)
		if err != nil {
			return nil, err
		}
		return s.project(env, in.Fields)

	case "raindrop.tags.merge":
		var in struct {
			Tags       []string `json:"tags"`
			Into       string   `json:"into"`
			Collection *int64   `json:"collection"`
			Minimal    bool     `json:"minimal"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		env, err := s.client.MergeTags(ctx, in.Collection, in.Tags, in.Into)
		if err != nil {
			return nil, err
		}
		return shaped(env, in.Minimal, "tags merged"), nil

	case "raindrop.tags.delete":
		var in struct {
			Tags       []string `json:"tags"`
			Collection *int64   `json:"collection"`
			Minimal    bool     `json:"minimal"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		env, err := s.client.DeleteTags(ctx, in.Collection, in.Tags)
		if err != nil {
			return nil, err
		}
		return shaped(env, in.Minimal, "tags deleted"), nil

	case "raindrop.highlights.list":
		var in struct {
			Collection *int64 `json:"collection"`
			Bookmark   *int64 `json:"bookmark"`
			Page       int    `json:"page"`
			PerPage    int    `json:"perpage"`
			Fields     any    `json:"fields"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		if in.Bookmark != nil {
			env, err := s.client.GetRaindrop(ctx, *in.Bookmark)
			if err != nil {
				return nil, err
			}
			item, _ := raindrop.Item(env)
			highlights, _ := item["highlights"].([]any)
			if highlights == nil {
				highlights = []any{}
			}
			scoped := map[string]any{"result": true, "items": highlights, "count": len(highlights)}
			return s.project(scoped, in.Fields)
		}
		env, err := s.client.ListHighlights(ctx, in.Collection, raindrop.ListOptions{Page: in.Page, PerPage: in.PerPage})
		if err != nil {
			return nil, err
		}
		return s.project(env, in.Fields)

	case "raindrop.highlights.create":
		var in struct {
			Bookmark int64  `json:"bookmark"`
			Text     string `json:"text"`
			Note     string `json:"note"`
			Color    string `json:"color"`
			Minimal  bool   `json:"minimal"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		if err := validateColor(in.Color); err != nil {
			return nil, err
		}
		env, err := s.client.CreateHighlight(ctx, in.Bookmark, in.Text, in.Note, in.Color)
		if err != nil {
			return nil, err
		}
		return shaped(env, in.Minimal, "highlight created"), nil

	case "raindrop.highlights.update":
		var in struct {
			Bookmark  int64   `json:"bookmark"`
			Highlight string  `json:"highlight"`
			Text      *string `json:"text"`
			Note      *string `json:"note"`
			Color     *string `json:"color"`
			Minimal   bool    `json:"minimal"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		if strings.TrimSpace(in.Highlight) == "" {
			return nil, &raindrop.ValidationError{Message: "highlight id is required"}
		}
		if in.Text == nil && in.Note == nil && in.Color == nil {
			return nil, &raindrop.ValidationError{Message: "nothing to update"}
		}
		if in.Color != nil {
			if err := validateColor(*in.Color); err != nil {
				return nil, err
			}
		}
		env, err := s.client.UpdateHighlight(ctx, in.Bookmark, in.Highlight, raindrop.HighlightPatch{
			Text:  in.Text,
			Note:  in.Note,
			Color: in.Color,
		})
		if err != nil {
			return nil, err
		}
		return shaped(env, in.Minimal, "highlight updated"), nil

	case "raindrop.highlights.delete":
		var in struct {
			Bookmark  int64  `json:"bookmark"`
			Highlight string `json:"highlight"`
			Minimal   bool   `json:"minimal"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		if strings.TrimSpace(in.Highlight) == "" {
			return nil, &raindrop.ValidationError{Message: "highlight id is required"}
		}
		env, err := s.client.DeleteHighlight(ctx, in.Bookmark, in.Highlight)
		if err != nil {
			return nil, err
		}
		return shaped(env, in.Minimal, "highlight deleted"), nil

	case "raindrop.import.parse_url":
		var in struct {
			URL string `json:"url"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		return s.client.ParseURL(ctx, in.URL)

	case "raindrop.import.check_urls":
		var in struct {
			URLs []string `json:"urls"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		return s.client.CheckURLsExist(ctx, in.URLs)

	case "raindrop.import.file":
		var in struct {
			Path       string `json:"path"`
			Collection *int64 `json:"collection"`
			Minimal    bool   `json:"minimal"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		if strings.TrimSpace(in.Path) == "" {
			return nil, &raindrop.ValidationError{Message: "path is required"}
		}
		env, err := s.client.ImportFile(ctx, in.Path, in.Collection)
		if err != nil {
			return nil, err
		}
		return shaped(env, in.Minimal, "import started"), nil

	case "raindrop.export":
		var in struct {
			Collection int64  `json:"collection"`
			Format     string `json:"format"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		content, err := s.client.Export(ctx, in.Collection, in.Format)
		if err != nil {
			return nil, err
		}
		return map[string]any{"format": in.Format, "content": content}, nil

	case "raindrop.files.upload":
		var in struct {
			Path       string `json:"path"`
			Collection *int64 `json:"collection"`
			Minimal    bool   `json:"minimal"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		if strings.TrimSpace(in.Path) == "" {
			return nil, &raindrop.ValidationError{Message: "path is required"}
		}
		env, err := s.client.UploadFile(ctx, in.Path, in.Collection)
		if err != nil {
			return nil, err
		}
		return shaped(env, in.Minimal, "file uploaded"), nil

	case "raindrop.cache.url":
		var in struct {
			ID int64 `json:"id"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		location, err := s.client.ResolveCacheURL(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"id": in.ID, "url": location}, nil

	case "raindrop.collections.watch":
		var in struct {
			Collection int64  `json:"collection"`
			Since      string `json:"since"`
			ResetWatch bool   `json:"resetWatch"`
		}
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		opts := raindrop.WatchOptions{Reset: in.ResetWatch}
		if strings.TrimSpace(in.Since) != "" {
			since, ok := parseSince(in.Since)
			if !ok {
				return nil, &raindrop.InvalidDateError{Raw: in.Since}
			}
			opts.Since = &since
		}
		return s.watcher.Watch(ctx, in.Collection, opts)

	default:
		return nil, &raindrop.ValidationError{Message: "unknown tool: " + name}
	}
}

// bookmarkArgs is the shared field surface of bookmark create/update.
// Pointer fields distinguish "absent" from zero values; tags are a full
// replacement when present.
type bookmarkArgs struct {
	Link       string   `json:"link"`
	Title      *string  `json:"title"`
	Excerpt    *string  `json:"excerpt"`
	Note       *string  `json:"note"`
	Tags       []string `json:"tags"`
	Type       *string  `json:"type"`
	Collection *int64   `json:"collection"`
	Important  *bool    `json:"important"`
	Reminder   string   `json:"reminder"`
}

func (a bookmarkArgs) fields() (map[string]any, error) {
	fields := map[string]any{}
	if strings.TrimSpace(a.Link) != "" {
		fields["link"] = a.Link
	}
	if a.Title != nil {
		fields["title"] = *a.Title
	}
	if a.Excerpt != nil {
		fields["excerpt"] = *a.Excerpt
	}
	if a.Note != nil {
		fields["note"] = *a.Note
	}
	if a.Tags != nil {
		fields["tags"] = a.Tags
	}
	if a.Type != nil {
		fields["type"] = *a.Type
	}
	if a.Collection != nil {
		fields["collection"] = map[string]any{"$id": *a.Collection}
	}
	if a.Important != nil {
		fields["important"] = *a.Important
	}
	if strings.TrimSpace(a.Reminder) != "" {
		date, err := raindrop.ParseDate(a.Reminder)
		if err != nil {
			return nil, err
		}
		fields["reminder"] = map[string]any{"date": date}
	}
	return fields, nil
}

func collectionFields(title, description, view string, public *bool, parent *int64, cover []string) (map[string]any, error) {
	fields := map[string]any{}
	if strings.TrimSpace(title) != "" {
		fields["title"] = title
	}
	if description != "" {
		fields["description"] = description
	}
	if view != "" {
		if err := validateView(view); err != nil {
			return nil, err
		}
		fields["view"] = view
	}
	if public != nil {
		fields["public"] = *public
	}
	if parent != nil {
		fields["parent"] = map[string]any{"$id": *parent}
	}
	if cover != nil {
		fields["cover"] = cover
	}
	return fields, nil
}

func validateView(view string) error {
	for _, v := range raindrop.ViewModes {
		if v == view {
			return nil
		}
	}
	return &raindrop.ValidationError{Message: "view must be one of list, simple, grid, masonry"}
}

func validateSort(sort string) error {
	if sort == "" {
		return nil
	}
	for _, s := range raindrop.SortModes {
		if s == sort {
			return nil
		}
	}
	return &raindrop.ValidationError{Message: "unsupported sort order: " + sort}
}

func validateColor(color string) error {
	if color == "" {
		return nil
	}
	for _, c := range raindrop.HighlightColors {
		if c == color {
			return nil
		}
	}
	return &raindrop.ValidationError{Message: "unknown highlight color: " + color}
}

func parseSince(raw string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
