package agenda

import (
	"github.com/minutesflow/minutes-flow/internal/logger"
	"github.com/minutesflow/minutes-flow/internal/provider"
)

type implGenerator struct {
	provider provider.Provider
	logger   logger.Logger
}

// New creates an agenda Generator
func New(p provider.Provider, log logger.Logger) Generator {
	return &implGenerator{
		provider: p,
		logger:   log,
	}
}
