package assist

import (
	"errors"
	"slices"
)

// IdeaFallbackWarning сопровождает DefaultIdeas, когда идеи модели не подошли.
const IdeaFallbackWarning = "Response format issue - showing default suggestions"

// DefaultIdeas показываются, если ответ с идеями использовать нельзя.
var DefaultIdeas = []string{
	"Quick fitness routine for beginners",
	"Healthy meal prep ideas",
	"Wellness tips for daily life",
}

// IdeasWithFallback применяет политику ленты к результату SuggestIdeas: негодный ответ
// заменяется на DefaultIdeas с предупреждением, ошибки транспорта и провайдера возвращаются как есть.
func IdeasWithFallback(ideas []string, err error) ([]string, string, error) {
	if err == nil {
		return ideas, "", nil
	}
	var e *Error
	if !errors.As(err, &e) {
		return nil, "", err
	}
	if e.Kind == MalformedReply || (e.Kind == ValidationFailed && e.Op == OpParse) {
		return slices.Clone(DefaultIdeas), IdeaFallbackWarning, nil
	}
	return nil, "", err
}
