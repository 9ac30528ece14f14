package bootstrap

import (
	"context"
	"fmt"

	"bat-monitor-be/internal/config"
	"bat-monitor-be/internal/pkg/logger"
	"bat-monitor-be/pkg/classifier"
	"bat-monitor-be/pkg/classifier/onnx"
	"bat-monitor-be/pkg/classifier/remote"
)

// LoadClassifier loads labels and model once. A failure is logged and
// returned inside a disabled Service, so the server still starts and
// reports the cause on /api/health.
func LoadClassifier(ctx context.Context, cfg config.ClassifierConfig, log logger.ILogger) *classifier.Service {
	state, err := initClassifier(ctx, cfg, log)
	if err != nil {
		log.Error("BOOTSTRAP", "Failed to load species classifier, classification disabled", map[string]interface{}{
			"backend": cfg.Backend,
			"error":   err.Error(),
		})
		return classifier.NewService(nil, err)
	}

	log.Info("BOOTSTRAP", "Species classifier loaded", map[string]interface{}{
		"backend":   cfg.Backend,
		"classes":   len(state.Labels()),
		"threshold": state.Threshold(),
	})
	return classifier.NewService(state, nil)
}

func initClassifier(ctx context.Context, cfg config.ClassifierConfig, log logger.ILogger) (*classifier.State, error) {
	labels, err := classifier.LoadLabels(cfg.LabelsPath)
	if err != nil {
		return nil, err
	}

	model, err := openModel(ctx, cfg, len(labels))
	if err != nil {
		return nil, err
	}

	state, err := classifier.Initialize(ctx, model, labels, classifier.Options{
		Threshold: cfg.ConfidenceThreshold,
		Logger:    log,
		WarmUp:    cfg.WarmUp,
	})
	if err != nil {
		_ = model.Close()
		return nil, err
	}
	return state, nil
}

func openModel(ctx context.Context, cfg config.ClassifierConfig, numClasses int) (classifier.Model, error) {
	switch cfg.Backend {
	case "onnx", "":
		return onnx.Open(onnx.Config{
			ModelPath:  cfg.ModelPath,
			LibPath:    cfg.OnnxRuntimeLib,
			InputName:  cfg.InputName,
			OutputName: cfg.OutputName,
			NumClasses: numClasses,
		})
	case "remote":
		m := remote.NewModel(cfg.InferenceURL, cfg.InferenceModel, cfg.InputName, cfg.OutputName)
		if err := m.Ready(ctx); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown MODEL_BACKEND %q", cfg.Backend)
	}
}
