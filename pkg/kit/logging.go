package kit

import "go.uber.org/zap"

// NewLogger builds the production JSON logger shared by every binary.
// The service name rides along on each entry.
func NewLogger(service string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.InitialFields = map[string]any{"service": service}

	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
