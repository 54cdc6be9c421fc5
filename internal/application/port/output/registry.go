package output

import (
	"dataset-assistant/internal/application/port/input"
	"dataset-assistant/internal/domain/entity"
)

type TaskRegistry interface {
	Register(task input.TaskInvoker) error
	Get(name entity.TaskName) (input.TaskInvoker, bool)
	List() []input.TaskInfo
}
