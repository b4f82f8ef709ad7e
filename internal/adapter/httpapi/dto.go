package httpapi

type GenerateRequest struct {
	Instruction string `json:"instruction"`
}

type TextRequest struct {
	Text string `json:"text"`
}

type TranslateRequest struct {
	Text   string `json:"text"`
	Target string `json:"target"` // en|es|fr|ar|zh
}

// DescribeImageRequest принимает либо URL (http(s) или data:), либо байты в base64.
type DescribeImageRequest struct {
	ImageURL    string `json:"imageUrl"`
	ImageBase64 string `json:"imageBase64"`
	MimeType    string `json:"mimeType"`
}

type AnalyzePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type IdeasRequest struct {
	Category string `json:"category"`
}

type TextResponse struct {
	Text string `json:"text"`
}

type ListResponse struct {
	Items   []string `json:"items"`
	Warning string   `json:"warning,omitempty"`
}

type AnalysisResponse struct {
	IsFake      bool    `json:"isFake"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Retry bool   `json:"retry"`
}
