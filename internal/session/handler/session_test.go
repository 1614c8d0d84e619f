package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	favoritesvalidator "doctortravel/internal/favorites/validator"
	"doctortravel/internal/identity"
	"doctortravel/internal/identity/identitytest"
	"doctortravel/internal/session"
	"doctortravel/internal/session/sessiontest"
	"doctortravel/pkg/logger"
	"doctortravel/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router    *httprouter.Router
	manager   *session.Manager
	favorites *sessiontest.Favorites
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	provider := identitytest.NewFakeProvider()
	provider.AddUser(identity.User{ID: "u1", Email: "ana@example.com", DisplayName: "Ana", EmailVerified: true}, "secret")
	deps, _, _, favorites := sessiontest.Dependencies(provider)

	log := logger.Discard()
	manager := session.NewManager(deps, log)
	t.Cleanup(func() { manager.Shutdown(context.Background()) })

	router := httprouter.New()
	NewSessionHandler(manager, favoritesvalidator.NewPackageValidator(log), log).RegisterRoutes(router)
	return &testServer{router: router, manager: manager, favorites: favorites}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

func (s *testServer) newSession(t *testing.T) string {
	t.Helper()
	status, body := s.do(t, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, "home", data["tab"])
	assert.Equal(t, "idle", data["login_state"])
	return data["id"].(string)
}

func (s *testServer) signIn(t *testing.T, sid string) {
	t.Helper()
	status, body := s.do(t, http.MethodPost, "/api/v1/sessions/"+sid+"/login", map[string]string{
		"email": "ana@example.com", "password": "secret",
	})
	require.Equal(t, http.StatusOK, status, body)
	data := body["data"].(map[string]any)
	assert.Equal(t, "awaiting_code", data["state"])
	assert.Equal(t, "123456", data["code"])

	status, body = s.do(t, http.MethodPost, "/api/v1/sessions/"+sid+"/login/verify", map[string]string{"code": "123456"})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "authenticated", body["data"].(map[string]any)["state"])

	sess, err := s.manager.Get(sid)
	require.NoError(t, err)
	sess.Favorites.Wait()
}

func TestSessionHandler_LoginFlow(t *testing.T) {
	s := newTestServer(t)
	sid := s.newSession(t)

	status, body := s.do(t, http.MethodPost, "/api/v1/sessions/"+sid+"/login", map[string]string{"email": "", "password": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "Please enter both email and password.", body["error"])

	status, body = s.do(t, http.MethodPost, "/api/v1/sessions/"+sid+"/login", map[string]string{
		"email": "ana@example.com", "password": "secret",
	})
	require.Equal(t, http.StatusOK, status)

	status, body = s.do(t, http.MethodPost, "/api/v1/sessions/"+sid+"/login/verify", map[string]string{"code": "000000"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "The code you entered is incorrect.", body["error"])
	assert.Equal(t, "awaiting_code", body["details"].(map[string]any)["state"])

	status, body = s.do(t, http.MethodPost, "/api/v1/sessions/"+sid+"/login/verify", map[string]string{"code": "123456"})
	require.Equal(t, http.StatusOK, status)

	status, body = s.do(t, http.MethodGet, "/api/v1/sessions/"+sid+"/state", nil)
	require.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, "authenticated", data["login_state"])
	assert.Equal(t, "u1", data["user"].(map[string]any)["id"])

	status, body = s.do(t, http.MethodPost, "/api/v1/sessions/"+sid+"/logout", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "idle", body["data"].(map[string]any)["state"])
}

func TestSessionHandler_Favorites(t *testing.T) {
	s := newTestServer(t)
	sid := s.newSession(t)
	base := "/api/v1/sessions/" + sid + "/favorites"

	status, _ := s.do(t, http.MethodPost, base, map[string]any{"package": model.Package{ID: "3", IsLocal: true}})
	assert.Equal(t, http.StatusUnauthorized, status, "favorites need a signed-in user")

	s.signIn(t, sid)

	status, body := s.do(t, http.MethodPost, base, map[string]any{"package": model.Package{ID: "3", Name: "Batanes", IsLocal: true}})
	require.Equal(t, http.StatusAccepted, status, body)
	assert.Equal(t, true, body["data"].(map[string]any)["favorite"])

	sess, err := s.manager.Get(sid)
	require.NoError(t, err)
	sess.Favorites.Wait()
	assert.Equal(t, []model.PackageKey{{ID: "3", IsLocal: true}}, s.favorites.Stored("u1"))

	status, body = s.do(t, http.MethodGet, base+"/local/3", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["data"].(map[string]any)["favorite"])

	status, body = s.do(t, http.MethodGet, base+"/international/3", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["data"].(map[string]any)["favorite"])

	status, body = s.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["total_count"])

	status, _ = s.do(t, http.MethodDelete, base+"/local/3", nil)
	require.Equal(t, http.StatusAccepted, status)
	sess.Favorites.Wait()
	assert.Empty(t, s.favorites.Stored("u1"))

	status, _ = s.do(t, http.MethodGet, base+"/abroad/3", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodPost, base, map[string]any{"package": model.Package{ID: "abc"}})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestSessionHandler_FavoritesNeedSecondFactor(t *testing.T) {
	s := newTestServer(t)
	sid := s.newSession(t)
	base := "/api/v1/sessions/" + sid + "/favorites"

	status, body := s.do(t, http.MethodPost, "/api/v1/sessions/"+sid+"/login", map[string]string{
		"email": "ana@example.com", "password": "secret",
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "awaiting_code", body["data"].(map[string]any)["state"])

	status, body = s.do(t, http.MethodPost, base, map[string]any{"package": model.Package{ID: "3", IsLocal: true}})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Sign in to manage favorites.", body["error"])

	status, _ = s.do(t, http.MethodDelete, base+"/local/3", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(t, http.MethodGet, base+"/local/3", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	sess, err := s.manager.Get(sid)
	require.NoError(t, err)
	sess.Favorites.Wait()
	assert.Empty(t, s.favorites.Stored("u1"))

	user, err := s.manager.SessionUser(sid)
	require.NoError(t, err)
	assert.Nil(t, user, "no user before the code is verified")

	status, body = s.do(t, http.MethodGet, "/api/v1/sessions/"+sid+"/state", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, body["data"].(map[string]any)["user"])

	status, _ = s.do(t, http.MethodPost, "/api/v1/sessions/"+sid+"/login/verify", map[string]string{"code": "123456"})
	require.Equal(t, http.StatusOK, status)
	sess.Favorites.Wait()

	status, _ = s.do(t, http.MethodPost, base, map[string]any{"package": model.Package{ID: "3", IsLocal: true}})
	assert.Equal(t, http.StatusAccepted, status)

	user, err = s.manager.SessionUser(sid)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)
}

func TestSessionHandler_Tab(t *testing.T) {
	s := newTestServer(t)
	sid := s.newSession(t)

	status, body := s.do(t, http.MethodPut, "/api/v1/sessions/"+sid+"/tab", map[string]string{"tab": "flights"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "flights", body["data"].(map[string]any)["tab"])

	status, _ = s.do(t, http.MethodPut, "/api/v1/sessions/"+sid+"/tab", map[string]string{"tab": "settings"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, body = s.do(t, http.MethodGet, "/api/v1/sessions/"+sid+"/tab", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "flights", body["data"].(map[string]any)["tab"])
}

func TestSessionHandler_UnknownSession(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodGet, "/api/v1/sessions/nope/state", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])

	status, _ = s.do(t, http.MethodDelete, "/api/v1/sessions/nope", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSessionHandler_End(t *testing.T) {
	s := newTestServer(t)
	sid := s.newSession(t)
	s.signIn(t, sid)

	status, _ := s.do(t, http.MethodDelete, "/api/v1/sessions/"+sid, nil)
	assert.Equal(t, http.StatusNoContent, status)
	assert.Zero(t, s.manager.Len())
}
