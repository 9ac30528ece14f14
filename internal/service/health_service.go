package service

import (
	"time"

	"bat-monitor-be/internal/dto"
)

type IHealthService interface {
	Check() dto.HealthResponse
}

type healthService struct {
	storeProvider string
	species       ISpeciesService
}

func NewHealthService(storeProvider string, species ISpeciesService) IHealthService {
	return &healthService{storeProvider: storeProvider, species: species}
}

// Check always succeeds; a disabled classifier is reported, not fatal.
func (s *healthService) Check() dto.HealthResponse {
	return dto.HealthResponse{
		Success:    true,
		Message:    "Backend service is running",
		Timestamp:  time.Now().Format(time.RFC3339),
		Store:      s.storeProvider,
		Classifier: s.species.Status(),
	}
}
