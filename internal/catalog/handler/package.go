package handler

import (
	"net/http"

	"doctortravel/internal/catalog/service"
	httputil "doctortravel/pkg/http"
	"doctortravel/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type PackageHandler struct {
	service service.CatalogService
	log     *logger.Logger
}

func NewPackageHandler(service service.CatalogService, log *logger.Logger) *PackageHandler {
	return &PackageHandler{
		service: service,
		log:     log,
	}
}

func (h *PackageHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	packages, err := h.service.List(r.Context(), httputil.QueryString(r, "q"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteList(w, packages, len(packages)); err != nil {
		h.log.Error("failed to write list response", "handler", "List", "operation", "WriteList", "error", err)
	}
}

func (h *PackageHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	isLocal, err := httputil.ParsePackageKind(ps.ByName("kind"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	pkg, err := h.service.Get(r.Context(), ps.ByName("id"), isLocal)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, pkg); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PackageHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/packages", h.List)
	router.GET("/api/v1/packages/:kind/:id", h.Get)
}
