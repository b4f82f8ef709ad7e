package assist

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"
)

// Shape JSON-форма, которой должен соответствовать ответ StructuredGenerate.
type Shape int

const (
	// ShapePostAnalysis: {"isFake": bool, "confidence": 0..1, "explanation": string}.
	ShapePostAnalysis Shape = iota + 1
	// ShapeIdeaList: массив ровно из трёх непустых строк.
	ShapeIdeaList
)

const ideaCount = 3

func (s Shape) String() string {
	switch s {
	case ShapePostAnalysis:
		return "post_analysis"
	case ShapeIdeaList:
		return "idea_list"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

func (s Shape) valid() bool {
	return s == ShapePostAnalysis || s == ShapeIdeaList
}

// Schema возвращает JSON-схему для провайдеров со структурированным выводом.
// Для массивов схемы нет: такие провайдеры принимают только объект в корне.
func (s Shape) Schema() (name string, schema map[string]any) {
	if s == ShapePostAnalysis {
		return "post_analysis", postAnalysisSchema()
	}
	return "", nil
}

var postAnalysisSchema = sync.OnceValue(func() map[string]any {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	raw, err := json.Marshal(r.Reflect(&PostAnalysis{}))
	if err != nil {
		panic(fmt.Sprintf("marshal post analysis schema: %v", err))
	}
	var schema map[string]any
	if err := json.Unmarshal(raw, &schema); err != nil {
		panic(fmt.Sprintf("unmarshal post analysis schema: %v", err))
	}
	delete(schema, "$schema")
	delete(schema, "$id")
	return schema
})
