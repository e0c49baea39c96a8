package runtime

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/inkwell-ai/inkwell/internal/inkwell/entity"
	"github.com/inkwell-ai/inkwell/internal/inkwell/pkg/errno"
	"github.com/inkwell-ai/inkwell/pkg/logger"
)

// loopResult carries everything one tool-call loop produced: the turns
// to persist, the final text, usage counters and per-call summaries.
// On error the fields hold whatever was produced before the failure.
type loopResult struct {
	Turns     []*entity.Turn
	Output    string
	Usage     entity.Usage
	ToolCalls []*entity.ToolCallRecord
}

// runLoop drives the model/tool exchange: generate, execute requested
// tools, feed observations back, repeat. The model may initiate at most
// maxRounds tool rounds; a request beyond that halts the loop with
// errno.ErrMaxRoundsReached. Tool failures are not fatal: the error
// text goes back to the model as the observation and the loop goes on.
func runLoop(ctx context.Context, chatModel model.ToolCallingChatModel, history []*schema.Message, einoTools []tool.BaseTool, maxRounds int, retry Retrier) (*loopResult, error) {
	res := &loopResult{}

	infos := make([]*schema.ToolInfo, 0, len(einoTools))
	invokers := make(map[string]tool.InvokableTool, len(einoTools))
	for _, t := range einoTools {
		info, err := t.Info(ctx)
		if err != nil {
			return res, fmt.Errorf("describe tool: %w", err)
		}
		infos = append(infos, info)
		if inv, ok := t.(tool.InvokableTool); ok {
			invokers[info.Name] = inv
		}
	}

	if len(infos) > 0 {
		bound, err := chatModel.WithTools(infos)
		if err != nil {
			return res, fmt.Errorf("bind tools: %w", err)
		}
		chatModel = bound
	}

	messages := make([]*schema.Message, len(history))
	copy(messages, history)

	for round := 0; ; round++ {
		var resp *schema.Message
		err := retry.Do(ctx, func(ctx context.Context) error {
			var genErr error
			resp, genErr = chatModel.Generate(ctx, messages)
			return genErr
		})
		if err != nil {
			return res, fmt.Errorf("model generate: %w", err)
		}

		res.Usage.Requests++
		if resp.ResponseMeta != nil && resp.ResponseMeta.Usage != nil {
			res.Usage.PromptTokens += int64(resp.ResponseMeta.Usage.PromptTokens)
			res.Usage.CompletionTokens += int64(resp.ResponseMeta.Usage.CompletionTokens)
			res.Usage.TotalTokens += int64(resp.ResponseMeta.Usage.TotalTokens)
		}

		messages = append(messages, resp)
		res.Turns = append(res.Turns, FromSchemaMessage(resp))

		if len(resp.ToolCalls) == 0 {
			res.Output = resp.Content
			return res, nil
		}

		if round >= maxRounds {
			return res, fmt.Errorf("model requested tools after %d rounds: %w",
				maxRounds, errno.ErrMaxRoundsReached)
		}

		for _, tc := range resp.ToolCalls {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return res, ctxErr
			}

			record := &entity.ToolCallRecord{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			}
			res.ToolCalls = append(res.ToolCalls, record)

			observation, err := executeToolCall(ctx, invokers, tc)
			if err != nil {
				if ctx.Err() != nil {
					return res, ctx.Err()
				}
				record.Failed = true
				record.Error = err.Error()
				observation = fmt.Sprintf("tool error: %v", err)
				logger.WarnX("runtime", "tool %q failed: %v", tc.Function.Name, err)
			} else {
				record.Result = observation
			}

			messages = append(messages, &schema.Message{
				Role:       schema.Tool,
				Content:    observation,
				Name:       tc.Function.Name,
				ToolCallID: tc.ID,
			})
			res.Turns = append(res.Turns, entity.NewToolTurn(tc.ID, tc.Function.Name, observation))
		}
	}
}

func executeToolCall(ctx context.Context, invokers map[string]tool.InvokableTool, tc schema.ToolCall) (string, error) {
	inv, ok := invokers[tc.Function.Name]
	if !ok {
		return "", fmt.Errorf("tool %q is not available", tc.Function.Name)
	}
	return inv.InvokableRun(ctx, tc.Function.Arguments)
}
