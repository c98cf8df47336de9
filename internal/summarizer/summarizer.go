package summarizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minutesflow/minutes-flow/internal/provider"
)

const (
	mapInstruction = "あなたは日本語の議事録作成アシスタントです。" +
		"以下の会議文字起こしを 3〜7 行の箇条書きで簡潔に要約してください。"

	reduceInstruction = "先ほど生成した複数の要約を統合し、重複を除外して " +
		"3〜7 行の箇条書きに再整理してください。"
)

// Summarize reduces the transcript with a two-stage map-reduce. The map
// stage summarizes each chunk independently with its (idx, total) position
// for ordering context; the reduce stage merges the partial summaries in a
// single call. A lone chunk skips the reduce stage and its summary is
// returned unchanged. Any failed model call aborts the whole summarization.
func (s *implSummarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	chunks := chunkText(transcript, s.chunkChars)
	s.logger.Info(ctx, "Summarizing transcript in %d chunk(s)", len(chunks))

	partial := make([]string, 0, len(chunks))
	for idx, chunk := range chunks {
		out, err := s.provider.Complete(ctx, provider.CompleteRequest{
			Instruction: mapInstruction,
			Content:     fmt.Sprintf("【Part %d/%d】\n%s", idx+1, len(chunks), chunk),
		})
		if err != nil {
			return "", fmt.Errorf("summarize chunk %d/%d: %w", idx+1, len(chunks), err)
		}
		partial = append(partial, strings.TrimSpace(out))
	}

	if len(partial) == 1 {
		return partial[0], nil
	}

	merged, err := s.provider.Complete(ctx, provider.CompleteRequest{
		Instruction: reduceInstruction,
		Content:     strings.Join(partial, "\n"),
	})
	if err != nil {
		return "", fmt.Errorf("merge partial summaries: %w", err)
	}

	return strings.TrimSpace(merged), nil
}

// GenerateMinutes embeds the summary into a minutes document with a
// generation timestamp.
func (s *implSummarizer) GenerateMinutes(ctx context.Context, title, transcript string) (string, error) {
	summary, err := s.Summarize(ctx, transcript)
	if err != nil {
		return "", err
	}

	md := fmt.Sprintf("# %s\n\n_%s_\n\n## 議事要約\n\n%s\n",
		title,
		time.Now().Format("2006-01-02 15:04"),
		summary,
	)
	return md, nil
}

// chunkText cuts text into consecutive rune slices of at most budget runes.
// The cut is purely positional; reassembling the chunks reproduces the
// input exactly.
func chunkText(text string, budget int) []string {
	runes := []rune(text)
	if len(runes) <= budget {
		return []string{text}
	}

	var chunks []string
	for start := 0; start < len(runes); start += budget {
		end := start + budget
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
