package bootstrap

import (
	"context"

	"bat-monitor-be/internal/config"
	"bat-monitor-be/internal/controller"
	"bat-monitor-be/internal/metrics"
	"bat-monitor-be/internal/pkg/logger"
	"bat-monitor-be/internal/repository/memory"
	"bat-monitor-be/internal/service"
	internalWS "bat-monitor-be/internal/websocket"
	"bat-monitor-be/pkg/classifier"
	"bat-monitor-be/pkg/events"
)

type Container struct {
	Logger logger.ILogger

	// Controllers
	HealthController    controller.IHealthController
	BatController       controller.IBatController
	ClassifyController  controller.IClassifyController
	FileController      controller.IFileController
	DebugController     controller.IDebugController
	DriveAuthController controller.IDriveAuthController
	EventsController    controller.IEventsController

	classifier *classifier.Service
	closeBus   func()
	stopHub    context.CancelFunc
}

func NewContainer(ctx context.Context, cfg *config.Config, sysLogger logger.ILogger) (*Container, error) {
	// 1. Infrastructure
	stores, err := NewStore(ctx, cfg, sysLogger)
	if err != nil {
		return nil, err
	}
	bus, closeBus := NewPublisher(cfg.Events.NatsURL, sysLogger)
	hub := internalWS.NewHub(sysLogger)
	hubCtx, stopHub := context.WithCancel(ctx)
	go hub.Run(hubCtx)
	publisher := events.Multi(bus, hub)
	collector := metrics.NewCollector()

	// 2. Classifier, loaded before the server listens
	cls := LoadClassifier(ctx, cfg.Classifier, sysLogger)

	// 3. Services
	var authorizer service.DriveAuthorizer
	if stores.Authorizer != nil {
		authorizer = stores.Authorizer
	}

	speciesService := service.NewSpeciesService(cls, publisher, collector, sysLogger)
	batService := service.NewBatService(stores.Store, speciesService, publisher, collector, sysLogger)
	fileService := service.NewFileService(stores.Store, sysLogger)
	debugService := service.NewDebugService(
		stores.Store,
		cfg.App.DownloadDir,
		cfg.App.SampleSensorPath,
		publisher,
		collector,
		sysLogger,
	)
	healthService := service.NewHealthService(stores.Provider, speciesService)
	driveAuthService := service.NewDriveAuthService(authorizer, stores.AuthMode, memory.NewOAuthStateRepository(), sysLogger)

	// 4. Controllers
	defaults := controller.SessionDefaults{
		Server: cfg.App.DefaultServerNumber,
		Client: cfg.App.DefaultClientNumber,
	}

	return &Container{
		Logger:              sysLogger,
		HealthController:    controller.NewHealthController(healthService),
		BatController:       controller.NewBatController(batService, defaults),
		ClassifyController:  controller.NewClassifyController(speciesService),
		FileController:      controller.NewFileController(fileService),
		DebugController:     controller.NewDebugController(debugService, defaults, cfg.App.JwtSecret),
		DriveAuthController: controller.NewDriveAuthController(driveAuthService),
		EventsController:    controller.NewEventsController(hub, cfg.App.JwtSecret, sysLogger),

		classifier: cls,
		closeBus:   closeBus,
		stopHub:    stopHub,
	}, nil
}

// Close stops the event feed and releases the model and the NATS connection.
func (c *Container) Close() {
	c.stopHub()
	c.closeBus()
	if err := c.classifier.Close(); err != nil {
		c.Logger.Warn("BOOTSTRAP", "Failed to release model", map[string]interface{}{
			"error": err.Error(),
		})
	}
	_ = c.Logger.Sync()
}
