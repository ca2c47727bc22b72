// pkg/registry/registry.go
package registry

import (
	"fmt"
	"time"
)

// New returns an empty registry stamped with version and the current time.
func New(version string) *ActivityRegistry {
	return &ActivityRegistry{
		Version:     version,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		Activities:  []Activity{},
	}
}

// Add appends a, rejecting a task type that is already registered.
func (r *ActivityRegistry) Add(a Activity) error {
	if a.TaskType == "" {
		return fmt.Errorf("activity %q has no task type", a.ID)
	}
	if _, ok := r.Find(a.TaskType); ok {
		return fmt.Errorf("task type %q already registered", a.TaskType)
	}
	if a.ID == "" {
		a.ID = a.TaskType
	}
	r.Activities = append(r.Activities, a)
	return nil
}

func (r *ActivityRegistry) Find(taskType string) (Activity, bool) {
	for _, a := range r.Activities {
		if a.TaskType == taskType {
			return a, true
		}
	}
	return Activity{}, false
}
