package handler

import (
	"net/http"
	"strconv"

	favoritesvalidator "doctortravel/internal/favorites/validator"
	loginservice "doctortravel/internal/login/service"
	"doctortravel/internal/session"
	apperrors "doctortravel/pkg/errors"
	httputil "doctortravel/pkg/http"
	"doctortravel/pkg/logger"
	"doctortravel/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type SessionHandler struct {
	sessions  *session.Manager
	validator *favoritesvalidator.PackageValidator
	log       *logger.Logger
}

func NewSessionHandler(sessions *session.Manager, validator *favoritesvalidator.PackageValidator, log *logger.Logger) *SessionHandler {
	return &SessionHandler{
		sessions:  sessions,
		validator: validator,
		log:       log,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Code string `json:"code"`
}

type federatedRequest struct {
	IDToken string `json:"id_token"`
}

type tabRequest struct {
	Tab string `json:"tab"`
}

type favoriteRequest struct {
	Package model.Package `json:"package"`
}

type stateResponse struct {
	State loginservice.State `json:"state"`
}

type favoriteResponse struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Favorite bool   `json:"favorite"`
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s := h.sessions.Create()
	h.writeCreated(w, "Create", s.Snapshot())
}

func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.sessions.End(r.Context(), ps.ByName("sid")); err != nil {
		h.writeError(w, "End", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *SessionHandler) State(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s, ok := h.session(w, "State", ps)
	if !ok {
		return
	}
	h.writeSuccess(w, "State", s.Snapshot())
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s, ok := h.session(w, "Login", ps)
	if !ok {
		return
	}

	var req credentialsRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Login", err)
		return
	}

	result, err := s.Login.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, "Login", withState(err, s.Login.State()))
		return
	}
	h.writeSuccess(w, "Login", result)
}

func (h *SessionHandler) Verify(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s, ok := h.session(w, "Verify", ps)
	if !ok {
		return
	}

	var req verifyRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Verify", err)
		return
	}

	state, err := s.Login.Verify(r.Context(), req.Code)
	if err != nil {
		h.writeError(w, "Verify", withState(err, state))
		return
	}
	h.writeSuccess(w, "Verify", stateResponse{State: state})
}

func (h *SessionHandler) Federated(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s, ok := h.session(w, "Federated", ps)
	if !ok {
		return
	}

	var req federatedRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Federated", err)
		return
	}

	state, err := s.Login.SignInWithCredential(r.Context(), req.IDToken)
	if err != nil {
		h.writeError(w, "Federated", withState(err, state))
		return
	}
	h.writeSuccess(w, "Federated", stateResponse{State: state})
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s, ok := h.session(w, "Logout", ps)
	if !ok {
		return
	}

	if err := s.Login.SignOut(r.Context()); err != nil {
		h.writeError(w, "Logout", err)
		return
	}
	h.writeSuccess(w, "Logout", stateResponse{State: s.Login.State()})
}

func (h *SessionHandler) GetTab(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s, ok := h.session(w, "GetTab", ps)
	if !ok {
		return
	}
	h.writeSuccess(w, "GetTab", tabRequest{Tab: s.Tab()})
}

func (h *SessionHandler) SetTab(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s, ok := h.session(w, "SetTab", ps)
	if !ok {
		return
	}

	var req tabRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "SetTab", err)
		return
	}
	if err := s.SetTab(req.Tab); err != nil {
		h.writeError(w, "SetTab", err)
		return
	}
	h.writeSuccess(w, "SetTab", tabRequest{Tab: s.Tab()})
}

func (h *SessionHandler) ListFavorites(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s, ok := h.authenticated(w, "ListFavorites", ps)
	if !ok {
		return
	}

	favorites := s.Favorites.Favorites()
	if err := httputil.WriteList(w, favorites, len(favorites)); err != nil {
		h.log.Error("failed to write list response", "handler", "ListFavorites", "operation", "WriteList", "error", err)
	}
}

func (h *SessionHandler) AddFavorite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s, ok := h.authenticated(w, "AddFavorite", ps)
	if !ok {
		return
	}

	var req favoriteRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "AddFavorite", err)
		return
	}
	if err := h.validator.Validate(&req.Package); err != nil {
		h.writeError(w, "AddFavorite", apperrors.Validation("Invalid package", map[string]any{"error": err.Error()}))
		return
	}

	s.Favorites.Add(r.Context(), req.Package)
	h.writeAccepted(w, "AddFavorite", favoriteResponse{
		ID:       req.Package.ID,
		Kind:     httputil.PackageKind(req.Package.IsLocal),
		Favorite: s.Favorites.Has(req.Package.Key()),
	})
}

func (h *SessionHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s, ok := h.authenticated(w, "RemoveFavorite", ps)
	if !ok {
		return
	}

	key, err := packageKey(ps)
	if err != nil {
		h.writeError(w, "RemoveFavorite", err)
		return
	}

	s.Favorites.Remove(r.Context(), key.ID, key.IsLocal)
	h.writeAccepted(w, "RemoveFavorite", favoriteResponse{
		ID:       key.ID,
		Kind:     httputil.PackageKind(key.IsLocal),
		Favorite: s.Favorites.Has(key),
	})
}

func (h *SessionHandler) IsFavorite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s, ok := h.authenticated(w, "IsFavorite", ps)
	if !ok {
		return
	}

	key, err := packageKey(ps)
	if err != nil {
		h.writeError(w, "IsFavorite", err)
		return
	}

	h.writeSuccess(w, "IsFavorite", favoriteResponse{
		ID:       key.ID,
		Kind:     httputil.PackageKind(key.IsLocal),
		Favorite: s.Favorites.Has(key),
	})
}

func (h *SessionHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/sessions", h.Create)
	router.DELETE("/api/v1/sessions/:sid", h.End)
	router.GET("/api/v1/sessions/:sid/state", h.State)

	router.POST("/api/v1/sessions/:sid/login", h.Login)
	router.POST("/api/v1/sessions/:sid/login/verify", h.Verify)
	router.POST("/api/v1/sessions/:sid/login/federated", h.Federated)
	router.POST("/api/v1/sessions/:sid/logout", h.Logout)

	router.GET("/api/v1/sessions/:sid/tab", h.GetTab)
	router.PUT("/api/v1/sessions/:sid/tab", h.SetTab)

	router.GET("/api/v1/sessions/:sid/favorites", h.ListFavorites)
	router.POST("/api/v1/sessions/:sid/favorites", h.AddFavorite)
	router.GET("/api/v1/sessions/:sid/favorites/:kind/:id", h.IsFavorite)
	router.DELETE("/api/v1/sessions/:sid/favorites/:kind/:id", h.RemoveFavorite)
}

func (h *SessionHandler) session(w http.ResponseWriter, op string, ps httprouter.Params) (*session.Session, bool) {
	s, err := h.sessions.Get(ps.ByName("sid"))
	if err != nil {
		h.writeError(w, op, err)
		return nil, false
	}
	return s, true
}

// authenticated is session plus a user who completed the login flow,
// including the code step. Favorites are not reachable before that.
func (h *SessionHandler) authenticated(w http.ResponseWriter, op string, ps httprouter.Params) (*session.Session, bool) {
	s, ok := h.session(w, op, ps)
	if !ok {
		return nil, false
	}
	if s.VerifiedUser() == nil {
		h.writeError(w, op, apperrors.Unauthorized("Sign in to manage favorites."))
		return nil, false
	}
	return s, true
}

func packageKey(ps httprouter.Params) (model.PackageKey, error) {
	isLocal, err := httputil.ParsePackageKind(ps.ByName("kind"))
	if err != nil {
		return model.PackageKey{}, err
	}
	id := ps.ByName("id")
	if _, err := strconv.ParseInt(id, 10, 64); err != nil {
		return model.PackageKey{}, apperrors.InvalidInput("package id must be numeric")
	}
	return model.PackageKey{ID: id, IsLocal: isLocal}, nil
}

// withState adds the login state the flow ended in to an error response.
func withState(err error, state loginservice.State) error {
	appErr := apperrors.AsAppError(err)
	details := make(map[string]any, len(appErr.Details)+1)
	for k, v := range appErr.Details {
		details[k] = v
	}
	details["state"] = state
	return &apperrors.AppError{
		Code:       appErr.Code,
		Message:    appErr.Message,
		HTTPStatus: appErr.HTTPStatus,
		Details:    details,
		Err:        appErr.Err,
	}
}

func (h *SessionHandler) writeError(w http.ResponseWriter, op string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", op, "operation", "WriteError", "error", writeErr)
	}
}

func (h *SessionHandler) writeSuccess(w http.ResponseWriter, op string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", op, "operation", "WriteSuccess", "error", err)
	}
}

func (h *SessionHandler) writeCreated(w http.ResponseWriter, op string, data any) {
	if err := httputil.WriteCreated(w, data); err != nil {
		h.log.Error("failed to write created response", "handler", op, "operation", "WriteCreated", "error", err)
	}
}

func (h *SessionHandler) writeAccepted(w http.ResponseWriter, op string, data any) {
	if err := httputil.WriteJSON(w, http.StatusAccepted, httputil.SuccessResponse{Data: data}); err != nil {
		h.log.Error("failed to write accepted response", "handler", op, "operation", "WriteJSON", "error", err)
	}
}
