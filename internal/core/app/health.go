package app

import (
	"context"
	"fmt"
	"time"

	"litscan/internal/shared/util"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}

	if s.app.parser != nil {
		status.Components["parser"] = fmt.Sprintf("ok (%d extensions)", len(s.app.parser.SupportedExtensions()))
	} else {
		status.Status = "degraded"
		status.Components["parser"] = "missing"
	}

	if s.app.pipeline != nil {
		status.Components["pipeline"] = fmt.Sprintf("ok (%d jobs scheduled)", s.app.pipeline.Scheduled())
	} else {
		status.Status = "degraded"
		status.Components["pipeline"] = "missing"
	}

	if s.app.journal != nil {
		if _, err := s.app.journal.Summary(ctx); err != nil {
			status.Status = "degraded"
			status.Components["journal"] = "error: " + err.Error()
		} else {
			status.Components["journal"] = "ok"
		}
	} else if s.app.Config.Journal.Enabled {
		status.Status = "degraded"
		status.Components["journal"] = "missing but enabled in config"
	}

	status.Components["heap"] = fmt.Sprintf("%d MB", util.HeapAllocMB())
	return status
}
