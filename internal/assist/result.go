package assist

// Result это Text, List или PostAnalysis.
type Result interface {
	isResult()
}

// Text текстовый ответ без пробелов по краям.
type Text string

// List упорядоченный ответ (предупреждения, идеи).
type List []string

// PostAnalysis вердикт о достоверности поста.
type PostAnalysis struct {
	IsFake      bool    `json:"isFake"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

func (Text) isResult()         {}
func (List) isResult()         {}
func (PostAnalysis) isResult() {}
