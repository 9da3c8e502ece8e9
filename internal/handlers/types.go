package handlers

const Greeting = "Hello and welcome to plant disease classification!"

type ErrorResponse struct {
	Error string `json:"error"`
}

type TopPrediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

type PredictionResponse struct {
	Prediction TopPrediction `json:"prediction"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// Terminal states of a /predict request, used as the metrics outcome label.
const (
	OutcomeMissingFile    = "missing_file"
	OutcomeEmptyFilename  = "empty_filename"
	OutcomeInvalidImage   = "invalid_image"
	OutcomeInferenceError = "inference_error"
	OutcomeNoPrediction   = "no_prediction"
	OutcomeSucceeded      = "succeeded"
)
