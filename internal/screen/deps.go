package screen

import (
	"go.uber.org/zap"

	"github.com/abhisek/pymaster/internal/curriculum"
	"github.com/abhisek/pymaster/internal/session"
	"github.com/abhisek/pymaster/internal/tutor"
)

// Deps are the services screens are built from. Tutor is nil when no model
// provider is configured.
type Deps struct {
	Catalog *curriculum.Catalog
	Session *session.Service
	Tutor   *tutor.Service
	Logger  *zap.Logger
}
