package assist

import (
	"encoding/json"
	"fmt"
	"strings"
)

const noneSentinel = "none"

// ideaNoise вырезается из ответа с идеями перед разбором.
var ideaNoise = strings.NewReplacer("\r", "", "\n", "", "\t", "")

// ParseText обрезает пробелы по краям.
func ParseText(reply string) Text {
	return Text(strings.TrimSpace(reply))
}

// ParseWarnings режет ответ по запятым. "none" в начале (в любом регистре) значит "предупреждений нет".
// Пустые и повторяющиеся элементы сохраняются.
func ParseWarnings(reply string) List {
	segments := strings.Split(reply, ",")
	out := make(List, 0, len(segments))
	for _, s := range segments {
		out = append(out, strings.TrimSpace(s))
	}
	if strings.EqualFold(out[0], noneSentinel) {
		return List{}
	}
	return out
}

// ParseStructured разбирает ответ заданной формы.
func ParseStructured(shape Shape, reply string) (Result, error) {
	switch shape {
	case ShapePostAnalysis:
		analysis, err := ParsePostAnalysis(reply)
		if err != nil {
			return nil, err
		}
		return analysis, nil
	case ShapeIdeaList:
		ideas, err := ParseIdeas(reply)
		if err != nil {
			return nil, err
		}
		return ideas, nil
	default:
		return nil, validationf(OpParse, "unknown reply shape %d", int(shape))
	}
}

func ParsePostAnalysis(reply string) (PostAnalysis, error) {
	var raw any
	if err := json.Unmarshal([]byte(stripFence(reply)), &raw); err != nil {
		return PostAnalysis{}, newError(MalformedReply, OpParse, fmt.Errorf("decode post analysis: %w", err))
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return PostAnalysis{}, validationf(OpParse, "post analysis must be an object, got %s", jsonType(raw))
	}
	isFake, ok := obj["isFake"].(bool)
	if !ok {
		return PostAnalysis{}, validationf(OpParse, "isFake must be a boolean, got %s", jsonType(obj["isFake"]))
	}
	confidence, ok := obj["confidence"].(float64)
	if !ok {
		return PostAnalysis{}, validationf(OpParse, "confidence must be a number, got %s", jsonType(obj["confidence"]))
	}
	if confidence < 0 || confidence > 1 {
		return PostAnalysis{}, validationf(OpParse, "confidence %v is outside [0, 1]", confidence)
	}
	explanation, ok := obj["explanation"].(string)
	if !ok {
		return PostAnalysis{}, validationf(OpParse, "explanation must be a string, got %s", jsonType(obj["explanation"]))
	}
	if strings.TrimSpace(explanation) == "" {
		return PostAnalysis{}, validationf(OpParse, "explanation is empty")
	}

	return PostAnalysis{IsFake: isFake, Confidence: confidence, Explanation: explanation}, nil
}

func ParseIdeas(reply string) (List, error) {
	body := ideaNoise.Replace(stripFence(reply))

	var raw any
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, newError(MalformedReply, OpParse, fmt.Errorf("decode ideas: %w", err))
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, validationf(OpParse, "ideas must be an array, got %s", jsonType(raw))
	}
	if len(items) != ideaCount {
		return nil, validationf(OpParse, "expected %d ideas, got %d", ideaCount, len(items))
	}

	out := make(List, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, validationf(OpParse, "idea %d must be a string, got %s", i, jsonType(item))
		}
		if strings.TrimSpace(s) == "" {
			return nil, validationf(OpParse, "idea %d is empty", i)
		}
		out = append(out, s)
	}
	return out, nil
}

// stripFence убирает пробелы по краям и обрамление ``` или ```json.
func stripFence(reply string) string {
	s := strings.TrimSpace(reply)
	if len(s) < 6 || !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") {
		return s
	}
	s = s[3 : len(s)-3]
	for _, tag := range []string{"json", "JSON"} {
		if rest, ok := strings.CutPrefix(s, tag); ok {
			s = rest
			break
		}
	}
	return strings.TrimSpace(s)
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
