package api

import (
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
)

func (s *apiBase) withBearer(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *TokenSuite) TestIssueAndUseToken() {
	aliceID, alice := s.register("alice")

	w := s.do(http.MethodPost, "/api/v1/tokens", nil, alice)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var issued TokenResponse
	s.decode(w, &issued)
	s.NotEmpty(issued.Token)
	s.EqualValues(3600, issued.ExpiresIn)

	w = s.withBearer(http.MethodGet, "/api/v1/users/1", issued.Token)
	s.Require().Equal(http.StatusOK, w.Code)
	var me UserResponse
	s.decode(w, &me)
	s.Equal(aliceID, me.ID)

	w = s.withBearer(http.MethodPost, "/api/v1/posts", issued.Token)
	s.Equal(http.StatusBadRequest, w.Code) // Authenticated, but no body
}

func (s *TokenSuite) TestIssueTokenNeedsCredentials() {
	s.register("alice")

	w := s.do(http.MethodPost, "/api/v1/tokens", nil, nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal(`Basic realm="Authentication Required"`, w.Header().Get("WWW-Authenticate"))

	w = s.do(http.MethodPost, "/api/v1/tokens", nil, &credentials{"alice", "wrong"})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *TokenSuite) TestTokenOfDeletedUserIsRejected() {
	_, alice := s.register("alice")
	_, bob := s.register("bob")

	w := s.do(http.MethodPost, "/api/v1/tokens", nil, alice)
	s.Require().Equal(http.StatusCreated, w.Code)
	var issued TokenResponse
	s.decode(w, &issued)

	s.Require().Equal(http.StatusNoContent, s.do(http.MethodDelete, "/api/v1/users/1", nil, bob).Code)

	w = s.withBearer(http.MethodGet, "/api/v1/users", issued.Token)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.JSONEq(`{"error":"Unauthorized","message":"Invalid token"}`, w.Body.String())
}

func (s *APISuite) TestTokenRouteNeedsSecret() {
	_, alice := s.register("alice")

	w := s.do(http.MethodPost, "/api/v1/tokens", gin.H{}, alice)
	s.Equal(http.StatusNotFound, w.Code)
}
