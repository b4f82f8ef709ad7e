package assist

import "strings"

// Kind имя варианта запроса в логах и спанах.
type Kind string

const (
	KindFreeform             Kind = "freeform"
	KindAccessibilityRewrite Kind = "accessibility_rewrite"
	KindWarningSuggestion    Kind = "warning_suggestion"
	KindImageDescription     Kind = "image_description"
	KindTranslation          Kind = "translation"
	KindStructuredGenerate   Kind = "structured_generate"
)

// Request реализуют только варианты из этого файла.
type Request interface {
	Kind() Kind
	validate() error
}

// Freeform отправляет инструкцию как весь промпт.
type Freeform struct {
	Instruction string
}

// AccessibilityRewrite просит более доступную и инклюзивную версию поста.
type AccessibilityRewrite struct {
	Text string
}

// WarningSuggestion спрашивает, какие предупреждения о контенте нужны тексту.
type WarningSuggestion struct {
	Text string
}

// ImageDescription просит alt-текст. Если заданы и Image, и Ref, берётся Image.
type ImageDescription struct {
	Image    []byte
	MIMEType string
	Ref      string // URL, data: URL или локальный путь
}

type Translation struct {
	Text   string
	Target Language
}

// StructuredGenerate ждёт JSON-ответ заданной формы.
type StructuredGenerate struct {
	Instruction string
	Shape       Shape
}

func (Freeform) Kind() Kind             { return KindFreeform }
func (AccessibilityRewrite) Kind() Kind { return KindAccessibilityRewrite }
func (WarningSuggestion) Kind() Kind    { return KindWarningSuggestion }
func (ImageDescription) Kind() Kind     { return KindImageDescription }
func (Translation) Kind() Kind          { return KindTranslation }
func (StructuredGenerate) Kind() Kind   { return KindStructuredGenerate }

func (r Freeform) validate() error {
	return requireText("instruction", r.Instruction)
}

func (r AccessibilityRewrite) validate() error {
	return requireText("text", r.Text)
}

func (r WarningSuggestion) validate() error {
	return requireText("text", r.Text)
}

func (r ImageDescription) validate() error {
	if len(r.Image) == 0 && strings.TrimSpace(r.Ref) == "" {
		return validationf(OpValidate, "image description needs image bytes or a reference")
	}
	return nil
}

func (r Translation) validate() error {
	if err := requireText("text", r.Text); err != nil {
		return err
	}
	if !r.Target.Valid() {
		return validationf(OpValidate, "unsupported target language %q", string(r.Target))
	}
	return nil
}

func (r StructuredGenerate) validate() error {
	if err := requireText("instruction", r.Instruction); err != nil {
		return err
	}
	if !r.Shape.valid() {
		return validationf(OpValidate, "unknown reply shape %d", int(r.Shape))
	}
	return nil
}

func requireText(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return validationf(OpValidate, "%s is empty", field)
	}
	return nil
}

// AnalyzePostRequest собирает проверку достоверности для детектора фейков.
func AnalyzePostRequest(title, content string) StructuredGenerate {
	return StructuredGenerate{
		Instruction: mustRender(analyzePostTmpl, struct{ Title, Content string }{title, content}),
		Shape:       ShapePostAnalysis,
	}
}

// SuggestIdeasRequest собирает запрос трёх идей для категории ленты.
func SuggestIdeasRequest(category string) StructuredGenerate {
	return StructuredGenerate{
		Instruction: mustRender(suggestIdeasTmpl, struct{ Category string }{category}),
		Shape:       ShapeIdeaList,
	}
}
