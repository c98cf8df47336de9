package agenda

import (
	"context"
	"fmt"

	"github.com/minutesflow/minutes-flow/internal/provider"
)

const agendaInstruction = "あなたはプロのファシリテーターです。" +
	"会議の文字起こし（および前回議事録）が与えられます。" +
	"次回の会議に向けた『次回アジェンダ案』と『宿題・タスク』を日本語 Markdown で整理してください。\n" +
	"- 見出し: ## 次回アジェンダ / ## 宿題・タスク\n" +
	"- 箇条書きは 5〜10 項目程度\n" +
	"- 宿題は担当者・期日を含める"

// Next generates the next-meeting agenda in a single model call. An empty
// priorMinutes is the normal first-meeting state, not an error.
func (g *implGenerator) Next(ctx context.Context, transcript, priorMinutes string) (string, error) {
	if priorMinutes == "" {
		g.logger.Debug(ctx, "No prior minutes, generating agenda from transcript only")
	}

	out, err := g.provider.Complete(ctx, provider.CompleteRequest{
		Instruction:  agendaInstruction,
		Content:      transcript,
		PriorContext: priorMinutes,
	})
	if err != nil {
		return "", fmt.Errorf("generate agenda: %w", err)
	}

	return out, nil
}
