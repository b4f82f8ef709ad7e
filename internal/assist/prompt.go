package assist

import (
	"fmt"
	"strings"
	"text/template"
)

// Поля подставляются как есть, text/template ничего не экранирует.
var (
	accessibilityTmpl = template.Must(template.New("accessibility").Parse(
		`Make this social media post more accessible and inclusive, while maintaining its original meaning: "{{.Text}}"`))

	warningsTmpl = template.Must(template.New("warnings").Parse(
		`Analyze this content and suggest appropriate content warnings if needed. ` +
			`Return only the warnings as a comma-separated list, or return "none" if no warnings are needed: "{{.Text}}"`))

	translationTmpl = template.Must(template.New("translation").Parse(
		`Translate the following text to {{.Language}}, maintaining its original meaning and context: "{{.Text}}"`))

	analyzePostTmpl = template.Must(template.New("analyze-post").Parse(`Analyze the following post for truthfulness and credibility:

Title: {{.Title}}
Content: {{.Content}}

Provide your analysis in the following JSON format:
{
  "isFake": boolean (true if likely fake, false if likely true),
  "confidence": number (between 0 and 1),
  "explanation": string (brief explanation of your analysis)
}`))

	suggestIdeasTmpl = template.Must(template.New("suggest-ideas").Parse(`Generate exactly 3 content ideas for the "{{.Category}}" category.
Return them in this exact JSON format:
["idea 1", "idea 2", "idea 3"]
Keep each idea under 10 words. Return only the JSON array, nothing else.`))
)

const imageDescriptionPrompt = "Generate a detailed, accessible description of this image for visually impaired users. " +
	"Focus on key elements, context, and any text present in the image."

// BuildPrompt собирает промпт для req. Одинаковые запросы всегда дают одинаковый промпт.
func BuildPrompt(req Request) (string, error) {
	switch r := req.(type) {
	case Freeform:
		return r.Instruction, nil
	case AccessibilityRewrite:
		return render(accessibilityTmpl, r)
	case WarningSuggestion:
		return render(warningsTmpl, r)
	case ImageDescription:
		return imageDescriptionPrompt, nil
	case Translation:
		name := r.Target.Name()
		if name == "" {
			return "", fmt.Errorf("unsupported target language %q", string(r.Target))
		}
		return render(translationTmpl, struct{ Text, Language string }{r.Text, name})
	case StructuredGenerate:
		return r.Instruction, nil
	default:
		return "", fmt.Errorf("unsupported request %T", req)
	}
}

func render(t *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", t.Name(), err)
	}
	return b.String(), nil
}

// mustRender только для шаблонов над строковыми полями, они не падают при выполнении.
func mustRender(t *template.Template, data any) string {
	s, err := render(t, data)
	if err != nil {
		panic(err)
	}
	return s
}
