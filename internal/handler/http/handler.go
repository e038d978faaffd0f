package http

import (
	"github.com/MKhiriev/go-note-vault/internal/logger"
	"github.com/MKhiriev/go-note-vault/internal/service"
	"github.com/MKhiriev/go-note-vault/models"
)

// maxItemSize bounds a PUT body.
const maxItemSize = 16 << 20

type Handler struct {
	persistence service.PersistenceService
	buildInfo   models.AppBuildInfo

	logger *logger.Logger
}

func NewHandler(services *service.Services, buildInfo models.AppBuildInfo, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		persistence: services.PersistenceService,
		buildInfo:   buildInfo,
		logger:      logger,
	}
}
