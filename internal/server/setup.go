package server

import (
	"log/slog"
	"os"

	"github.com/ekrsw/knowledge-app-sub001/internal/config"
	"github.com/ekrsw/knowledge-app-sub001/internal/notify"
	"github.com/ekrsw/knowledge-app-sub001/internal/storage"
	"github.com/ekrsw/knowledge-app-sub001/knowledge/service"
)

// Setup initializes the application and returns the App instance.
func Setup() *App {
	conf := config.SetupConfig()

	database, err := storage.Open(conf.DatabaseFile)
	if err != nil {
		slog.Error("failed to open database", "error", err, "file", conf.DatabaseFile)
		os.Exit(1)
	}

	notifier := notify.NewLogNotifier()

	workflowService := service.NewWorkflowService(database, notifier)
	queueService := service.NewQueueService(database)
	userService := service.NewUserService(database)

	return &App{
		Workflow: workflowService,
		Queue:    queueService,
		Users:    userService,
		Config:   conf,
	}
}
