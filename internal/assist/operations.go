package assist

import (
	"context"
	"fmt"
)

func invokeAs[T Result](ctx context.Context, g *Gateway, req Request) (T, error) {
	var zero T
	res, err := g.Invoke(ctx, req)
	if err != nil {
		return zero, err
	}
	v, ok := res.(T)
	if !ok {
		return zero, newError(MalformedReply, OpParse, fmt.Errorf("unexpected result %T", res))
	}
	return v, nil
}

func (g *Gateway) Generate(ctx context.Context, instruction string) (string, error) {
	t, err := invokeAs[Text](ctx, g, Freeform{Instruction: instruction})
	return string(t), err
}

func (g *Gateway) ImproveAccessibility(ctx context.Context, text string) (string, error) {
	t, err := invokeAs[Text](ctx, g, AccessibilityRewrite{Text: text})
	return string(t), err
}

// SuggestWarnings возвращает пустой список, если модель считает, что предупреждения не нужны.
func (g *Gateway) SuggestWarnings(ctx context.Context, text string) ([]string, error) {
	l, err := invokeAs[List](ctx, g, WarningSuggestion{Text: text})
	return l, err
}

// DescribeImage загружает ref и возвращает для неё alt-текст.
func (g *Gateway) DescribeImage(ctx context.Context, ref string) (string, error) {
	t, err := invokeAs[Text](ctx, g, ImageDescription{Ref: ref})
	return string(t), err
}

func (g *Gateway) Translate(ctx context.Context, text string, target Language) (string, error) {
	t, err := invokeAs[Text](ctx, g, Translation{Text: text, Target: target})
	return string(t), err
}

func (g *Gateway) AnalyzePost(ctx context.Context, title, content string) (PostAnalysis, error) {
	return invokeAs[PostAnalysis](ctx, g, AnalyzePostRequest(title, content))
}

func (g *Gateway) SuggestIdeas(ctx context.Context, category string) ([]string, error) {
	l, err := invokeAs[List](ctx, g, SuggestIdeasRequest(category))
	return l, err
}
