package mcp

import (
	"context"

	"github.com/rpggio/pairs/internal/domain/round"
	"github.com/rpggio/pairs/internal/game"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type roundCommand func(ctx context.Context, playerID string) (*game.Result, error)

func registerTools(server *sdkmcp.Server, h *Handler) {
	// Round lifecycle
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "start_round",
		Description: "Deal a new round, replacing any round in progress",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in StartRoundParams) (*sdkmcp.CallToolResult, game.Result, error) {
		return resultOf(h.StartRound(ctx, getPlayerID(ctx), in))
	})
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "resume_round",
		Description: "Resume the saved round from a previous session",
	}, commandTool(h.ResumeRound))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "restart",
		Description: "Deal the current level again with full lives",
	}, commandTool(h.Restart))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_round",
		Description: "Get the round in progress. Face-down tokens hide their symbol.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, round.View, error) {
		view, err := h.GetRound(ctx, getPlayerID(ctx))
		if err != nil {
			return nil, round.View{}, err
		}
		return nil, *view, nil
	})

	// Play
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "flip",
		Description: "Turn a token face up. Ignored tokens return accepted=false.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in FlipParams) (*sdkmcp.CallToolResult, game.Result, error) {
		return resultOf(h.Flip(ctx, getPlayerID(ctx), in))
	})
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "tick",
		Description: "Advance the countdown by one second when the server does not tick on its own",
	}, commandTool(h.Tick))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "pause",
		Description: "Pause the round: flips and the countdown are suspended",
	}, commandTool(h.Pause))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "resume",
		Description: "Resume a paused round",
	}, commandTool(h.Resume))

	// Progress
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_progress",
		Description: "Get the current level and best stars per completed level",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, ProgressResponse, error) {
		return nil, h.GetProgress(ctx, getPlayerID(ctx)), nil
	})
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "reset_progress",
		Description: "Forget all progress and start again from level 1",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, ProgressResponse, error) {
		return nil, h.ResetProgress(ctx, getPlayerID(ctx)), nil
	})
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_levels",
		Description: "List the level-select grid with unlock state and stars",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListLevelsParams) (*sdkmcp.CallToolResult, LevelsResponse, error) {
		return nil, h.ListLevels(ctx, getPlayerID(ctx), in), nil
	})
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_history",
		Description: "List finished rounds, newest first",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetHistoryParams) (*sdkmcp.CallToolResult, HistoryResponse, error) {
		resp, err := h.GetHistory(ctx, getPlayerID(ctx), in)
		return nil, resp, err
	})
}

func commandTool(cmd roundCommand) sdkmcp.ToolHandlerFor[EmptyParams, game.Result] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, game.Result, error) {
		return resultOf(cmd(ctx, getPlayerID(ctx)))
	}
}

func resultOf(res *game.Result, err error) (*sdkmcp.CallToolResult, game.Result, error) {
	if err != nil {
		return nil, game.Result{}, err
	}
	return nil, *res, nil
}
