package handlers

import (
	"log/slog"

	"github.com/ghiemer/qr-redirector/internal/config"
	"github.com/ghiemer/qr-redirector/internal/services"
)

type Handler struct {
	cfg          config.Config
	logger       *slog.Logger
	resolver     *services.Resolver
	routeService *services.RouteService
	auditLogger  *services.AuditLogger
	qrService    *services.QRService
}

func NewHandler(
	cfg config.Config,
	logger *slog.Logger,
	resolver *services.Resolver,
	routeService *services.RouteService,
	auditLogger *services.AuditLogger,
	qrService *services.QRService,
) *Handler {
	return &Handler{
		cfg:          cfg,
		logger:       logger,
		resolver:     resolver,
		routeService: routeService,
		auditLogger:  auditLogger,
		qrService:    qrService,
	}
}
