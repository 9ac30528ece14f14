package dto

import "time"

type ClassifyUploadQuery struct {
	Raw bool `query:"raw"`
}

type ClassificationResult struct {
	Species       string    `json:"species"`
	Confidence    float64   `json:"confidence"`
	Predicted     string    `json:"predicted"`
	LowConfidence bool      `json:"low_confidence"`
	Threshold     float64   `json:"threshold"`
	Policy        string    `json:"policy"`
	ClassifiedAt  time.Time `json:"classified_at"`
}

type SessionClassificationResponse struct {
	Success        bool                 `json:"success"`
	FolderName     string               `json:"folder_name"`
	FolderID       string               `json:"folder_id"`
	SpectrogramID  string               `json:"spectrogram_id"`
	SpectrogramURL string               `json:"spectrogram_url"`
	Classification ClassificationResult `json:"classification"`
}
