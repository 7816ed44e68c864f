package domain

// Prediction is the result of a sentiment inference call.
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
	Text  string  `json:"text"`
}

// ModelInfo describes the predictor behind the inference endpoint.
type ModelInfo struct {
	Name   string   `json:"name"`
	Task   string   `json:"task"`
	Labels []string `json:"labels"`
	Loaded bool     `json:"loaded"`
}
