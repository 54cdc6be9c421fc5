package service

import (
	"fmt"
	"sort"
	"sync"

	"dataset-assistant/internal/application/port/input"
	"dataset-assistant/internal/application/port/output"
	"dataset-assistant/internal/domain/entity"
)

var _ output.TaskRegistry = (*TaskRegistryImpl)(nil)

// TaskRegistryImpl holds task definitions by name. It only stores and hands them out.
type TaskRegistryImpl struct {
	mu    sync.RWMutex
	tasks map[entity.TaskName]input.TaskInvoker
}

func NewTaskRegistry() *TaskRegistryImpl {
	return &TaskRegistryImpl{
		tasks: make(map[entity.TaskName]input.TaskInvoker),
	}
}

func (r *TaskRegistryImpl) Register(task input.TaskInvoker) error {
	name := task.Info().Name

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[name]; exists {
		return fmt.Errorf("task %q already registered", name)
	}
	r.tasks[name] = task
	return nil
}

func (r *TaskRegistryImpl) Get(name entity.TaskName) (input.TaskInvoker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[name]
	return task, ok
}

func (r *TaskRegistryImpl) List() []input.TaskInfo {
	r.mu.RLock()
	result := make([]input.TaskInfo, 0, len(r.tasks))
	for _, task := range r.tasks {
		result = append(result, task.Info())
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}
