package logger

import (
	"go.uber.org/zap"
)

// Named returns a child of the global logger for one component. Before Init
// it returns a no-op logger so packages can be used without logging set up.
func Named(component string) *zap.Logger {
	if Logger == nil {
		return zap.NewNop()
	}
	return Logger.Named(component)
}
