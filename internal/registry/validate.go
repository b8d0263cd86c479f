package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/fitconf/internal/ctxlog"
)

// ValidateRegistry checks that every factory builds a non-nil objective whose
// Name matches the name it was registered under.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, name := range r.Names() {
		obj := r.objectives[name]()
		if obj == nil {
			errs = append(errs, fmt.Sprintf("objective '%s': factory returned nil", name))
			continue
		}
		if obj.Name() != name {
			errs = append(errs, fmt.Sprintf("objective '%s': factory builds an objective named '%s'", name, obj.Name()))
			continue
		}
		logger.Debug("Objective function validated.", "name", name)
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
