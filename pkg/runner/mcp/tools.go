package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/journal/pkg/api"
	"tableflip.dev/journal/pkg/entry"
)

var moodEnum = mcp.Enum("happy", "sad", "angry", "anxious")

func registerTools(srv *server.MCPServer, svc *Service) {
	registerCreateEntryTool(srv, svc)
	registerUpdateEntryTool(srv, svc)
	registerDeleteEntryTool(srv, svc)
	registerListEntriesTool(srv, svc)
	registerSearchEntriesTool(srv, svc)
	registerGetEntryTool(srv, svc)
	registerMoodSummaryTool(srv, svc)
}

func registerCreateEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"create_entry",
		mcp.WithDescription("Write a new journal entry."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Short title of the entry."),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Body of the entry."),
		),
		mcp.WithString("mood",
			mcp.Description("Mood of the entry, defaults to happy."),
			moodEnum,
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Title   string `json:"title"`
			Content string `json:"content"`
			Mood    string `json:"mood"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		mood, err := ParseMood(args.Mood, entry.DefaultSentiment)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.AddEntry(ctx, AddEntryOptions{Title: args.Title, Content: args.Content, Mood: mood})
		if err != nil {
			return toolError(err), nil
		}
		return toJSONResult(dto)
	})
}

func registerUpdateEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"update_entry",
		mcp.WithDescription("Change the title, content or mood of an entry. Omitted fields keep their value."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Entry identifier to update."),
		),
		mcp.WithString("title",
			mcp.Description("New title."),
		),
		mcp.WithString("content",
			mcp.Description("New content."),
		),
		mcp.WithString("mood",
			mcp.Description("New mood."),
			moodEnum,
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			ID      string  `json:"id"`
			Title   *string `json:"title"`
			Content *string `json:"content"`
			Mood    *string `json:"mood"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if strings.TrimSpace(args.ID) == "" {
			return mcp.NewToolResultError("id is required"), nil
		}

		opts := UpdateEntryOptions{ID: args.ID, Title: args.Title, Content: args.Content}
		if args.Mood != nil {
			mood, err := ParseMood(*args.Mood, "")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if mood != "" {
				opts.Mood = &mood
			}
		}

		dto, err := svc.UpdateEntry(ctx, opts)
		if err != nil {
			return toolError(err), nil
		}
		return toJSONResult(dto)
	})
}

func registerDeleteEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"delete_entry",
		mcp.WithDescription("Permanently delete an entry. Set confirm to true once the user agreed."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Entry identifier to delete."),
		),
		mcp.WithBoolean("confirm",
			mcp.Required(),
			mcp.Description("Must be true, the deletion cannot be undone."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			ID      string `json:"id"`
			Confirm bool   `json:"confirm"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if strings.TrimSpace(args.ID) == "" {
			return mcp.NewToolResultError("id is required"), nil
		}

		if err := svc.DeleteEntry(ctx, args.ID, args.Confirm); err != nil {
			return toolError(err), nil
		}
		return toJSONResult(map[string]any{
			"id":      args.ID,
			"deleted": true,
		})
	})
}

func registerListEntriesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_entries",
		mcp.WithDescription("List journal entries, newest first."),
		mcp.WithString("mood",
			mcp.Description("Optional mood filter."),
			moodEnum,
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of entries to return."),
			mcp.Min(1),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		mood, err := ParseMood(request.GetString("mood", ""), "")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		limit := request.GetInt("limit", 0)

		results, err := svc.ListEntries(ctx, mood, limit)
		if err != nil {
			return toolError(err), nil
		}
		return toJSONResult(map[string]any{
			"mood":    string(mood),
			"entries": results,
			"count":   len(results),
		})
	})
}

func registerSearchEntriesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"search_entries",
		mcp.WithDescription("Search entries by substring match across titles and content."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Case-insensitive search text."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of entries to return (default 20)."),
			mcp.Min(1),
			mcp.Max(100),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		limit := request.GetInt("limit", 20)

		results, err := svc.SearchEntries(ctx, query, limit)
		if err != nil {
			return toolError(err), nil
		}
		return toJSONResult(map[string]any{
			"query":   query,
			"limit":   limit,
			"results": results,
			"count":   len(results),
		})
	})
}

func registerGetEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_entry",
		mcp.WithDescription("Fetch a single entry by identifier."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Entry identifier to fetch."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.EntryByID(ctx, id)
		if err != nil {
			return toolError(err), nil
		}
		return toJSONResult(dto)
	})
}

func registerMoodSummaryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"mood_summary",
		mcp.WithDescription("Count entries per mood."),
	)

	srv.AddTool(tool, func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		summaries, err := svc.Moods(ctx)
		if err != nil {
			return toolError(err), nil
		}
		return toJSONResult(map[string]any{
			"moods": summaries,
		})
	})
}

// toolError reports err to the client in one line, preferring the backend's
// own message.
func toolError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(api.Message(err, err.Error()))
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
