package monolearn

import "go.uber.org/zap"

// NewLogger builds a development-mode zap logger suitable for passing
// to WithLogger/WithKnowledgeLogger/WithLearnLogger/etc. Callers that
// already have a *zap.Logger from elsewhere in their process should
// use its .Sugar() directly instead of this helper.
func NewLogger() (*zap.SugaredLogger, error) {
	l, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// NewNopLogger returns a logger that discards everything, the default
// used throughout this package when no logger option is supplied.
func NewNopLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
