package dto

type ClassifierStatus struct {
	Ready         bool    `json:"ready"`
	Error         string  `json:"error,omitempty"`
	Labels        int     `json:"labels,omitempty"`
	Threshold     float64 `json:"threshold,omitempty"`
	DefaultPolicy string  `json:"default_policy"`
}

type HealthResponse struct {
	Success    bool             `json:"success"`
	Message    string           `json:"message"`
	Timestamp  string           `json:"timestamp"`
	Store      string           `json:"store"`
	Classifier ClassifierStatus `json:"classifier"`
}
