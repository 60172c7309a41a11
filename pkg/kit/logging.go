package kit

import "go.uber.org/zap"

// NewLogger builds the service logger. Debug mode switches to the
// human-readable development encoder at debug level.
func NewLogger(service string, debug bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.InitialFields = map[string]any{"service": service}

	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
