package output

import (
	"time"

	"dataset-assistant/internal/domain/entity"
)

type MetricsPort interface {
	ObserveTask(task entity.TaskName, outcome string, duration time.Duration)
}
