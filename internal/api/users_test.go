package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *APISuite) TestCreateUser() {
	w := s.do(http.MethodPost, "/api/v1/users", gin.H{"username": "alice", "email": "a@x.com", "password": "pw"}, nil)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	s.Equal("/api/v1/users/1", w.Header().Get("Location"))

	var body map[string]any
	s.decode(w, &body)
	s.EqualValues(1, body["id"])
	s.Equal("alice", body["username"])
	s.Equal("a@x.com", body["email"])
	s.Regexp(timestampPattern, body["created_at"])
	s.Equal(map[string]any{"self": "/api/v1/users/1"}, body["_links"])
	s.NotContains(body, "password")
	s.NotContains(body, "password_hash")

	// Same username again
	w = s.do(http.MethodPost, "/api/v1/users", gin.H{"username": "alice", "email": "b@x.com", "password": "pw"}, nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.JSONEq(`{"error":"Bad Request","message":"Please use a different username"}`, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/users", gin.H{"username": "bob", "email": "a@x.com", "password": "pw"}, nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.JSONEq(`{"error":"Bad Request","message":"Please use a different email address"}`, w.Body.String())
}

func (s *APISuite) TestCreateUserBadRequests() {
	tests := []struct {
		name string
		body any
		want string
	}{
		{"no body", nil, `{"error":"Bad Request","message":"Must include username, email and password fields"}`},
		{"missing password", gin.H{"username": "a", "email": "a@x.com"}, `{"error":"Bad Request","message":"Must include username, email and password fields"}`},
		{"empty username", gin.H{"username": "", "email": "a@x.com", "password": "pw"}, `{"error":"Bad Request","message":"Must include username, email and password fields"}`},
		{"malformed email", gin.H{"username": "a", "email": "nope", "password": "pw"}, `{"error":"Bad Request","message":"Invalid email address"}`},
		{"malformed json", `{"username":`, `{"error":"Bad Request","message":"Invalid JSON body"}`},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := s.do(http.MethodPost, "/api/v1/users", tt.body, nil)
			s.Equal(http.StatusBadRequest, w.Code)
			s.JSONEq(tt.want, w.Body.String())
		})
	}

	users, err := s.users.List(s.T().Context())
	s.Require().NoError(err)
	s.Empty(users)
}

func (s *APISuite) TestUsersRequireAuth() {
	s.register("alice")

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/users"},
		{http.MethodGet, "/api/v1/users/1"},
		{http.MethodPut, "/api/v1/users/1"},
		{http.MethodDelete, "/api/v1/users/1"},
	} {
		w := s.do(tc.method, tc.path, nil, nil)
		s.Equal(http.StatusUnauthorized, w.Code, tc.method+" "+tc.path)
		s.NotEmpty(w.Header().Get("WWW-Authenticate"))
		var body map[string]string
		s.decode(w, &body)
		s.Equal("Unauthorized", body["error"])
	}

	w := s.do(http.MethodGet, "/api/v1/users", nil, &credentials{"alice", "wrong"})
	s.Equal(http.StatusUnauthorized, w.Code)
	s.JSONEq(`{"error":"Unauthorized","message":"Invalid credentials"}`, w.Body.String())
}

func (s *APISuite) TestListAndGetUsers() {
	_, alice := s.register("alice")
	s.register("bob")

	w := s.do(http.MethodGet, "/api/v1/users", nil, alice)
	s.Require().Equal(http.StatusOK, w.Code)
	var list []UserResponse
	s.decode(w, &list)
	s.Require().Len(list, 2)
	s.Equal("alice", list[0].Username)
	s.Equal("bob", list[1].Username)
	s.Empty(list[0].Links.Users)

	w = s.do(http.MethodGet, "/api/v1/users/2", nil, alice)
	s.Require().Equal(http.StatusOK, w.Code)
	var one UserResponse
	s.decode(w, &one)
	s.Equal("bob", one.Username)
	s.Equal(UserLinks{Self: "/api/v1/users/2", Users: "/api/v1/users"}, one.Links)
}

func (s *APISuite) TestGetUserNotFound() {
	_, alice := s.register("alice")

	w := s.do(http.MethodGet, "/api/v1/users/42", nil, alice)
	s.Equal(http.StatusNotFound, w.Code)
	s.JSONEq(`{"error":"Not Found","message":"User with id 42 not found"}`, w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/users/abc", nil, alice)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APISuite) TestLocationRoundTrip() {
	_, alice := s.register("alice")
	w := s.do(http.MethodPost, "/api/v1/users", gin.H{"username": "carol", "email": "c@x.com", "password": "pw"}, nil)
	s.Require().Equal(http.StatusCreated, w.Code)

	location := w.Header().Get("Location")
	w = s.do(http.MethodGet, location, nil, alice)
	s.Require().Equal(http.StatusOK, w.Code)
	var got UserResponse
	s.decode(w, &got)
	s.Equal("carol", got.Username)
	s.Equal(location, got.Links.Self)
}

func (s *APISuite) TestTokenAuth() {
	s.register("alice")

	w := s.withBearer(http.MethodGet, "/api/v1/users/1", "test-token")
	s.Equal(http.StatusOK, w.Code)

	w = s.withBearer(http.MethodGet, "/api/v1/users/1", "bad")
	s.Equal(http.StatusUnauthorized, w.Code)
	s.JSONEq(`{"error":"Unauthorized","message":"Invalid token"}`, w.Body.String())
}


func (s *APISuite) TestUpdateUser() {
	id, alice := s.register("alice")
	s.register("bob")

	w := s.do(http.MethodPut, "/api/v1/users/1", gin.H{"email": "alice@new.com"}, alice)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var got UserResponse
	s.decode(w, &got)
	s.Equal(id, got.ID)
	s.Equal("alice", got.Username)
	s.Equal("alice@new.com", got.Email)

	w = s.do(http.MethodPut, "/api/v1/users/1", gin.H{"username": "bob"}, alice)
	s.Equal(http.StatusBadRequest, w.Code)
	s.JSONEq(`{"error":"Bad Request","message":"Please use a different username"}`, w.Body.String())

	// Password change takes effect for the next request
	w = s.do(http.MethodPut, "/api/v1/users/1", gin.H{"password": "fresh"}, alice)
	s.Require().Equal(http.StatusOK, w.Code)
	w = s.do(http.MethodGet, "/api/v1/users/1", nil, alice)
	s.Equal(http.StatusUnauthorized, w.Code)
	w = s.do(http.MethodGet, "/api/v1/users/1", nil, &credentials{"alice", "fresh"})
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodPut, "/api/v1/users/99", gin.H{"username": "x"}, &credentials{"alice", "fresh"})
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APISuite) TestDeleteUserCascades() {
	aliceID, alice := s.register("alice")
	bobID, bob := s.register("bob")
	p1 := s.createPost(alice, aliceID, "first")
	s.createPost(alice, aliceID, "second")
	kept := s.createPost(bob, bobID, "third")

	w := s.do(http.MethodDelete, "/api/v1/users/1", nil, bob)
	s.Require().Equal(http.StatusNoContent, w.Code)
	s.Empty(w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/users/1", nil, bob)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, postURL(p1.ID), nil, nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/v1/posts", nil, nil)
	var posts []PostResponse
	s.decode(w, &posts)
	s.Require().Len(posts, 1)
	s.Equal(kept.ID, posts[0].ID)

	w = s.do(http.MethodDelete, "/api/v1/users/1", nil, bob)
	s.Equal(http.StatusNotFound, w.Code)
}
