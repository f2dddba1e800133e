package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *APISuite) TestPostsArePublicToRead() {
	w := s.do(http.MethodGet, "/api/v1/posts", nil, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`[]`, w.Body.String())

	aliceID, alice := s.register("alice")
	post := s.createPost(alice, aliceID, "Hello")

	w = s.do(http.MethodGet, postURL(post.ID), nil, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var got PostResponse
	s.decode(w, &got)
	s.Equal("Hello", got.Title)
	s.Equal("body of Hello", got.Content)
	s.Equal(aliceID, got.UserID)
	s.Regexp(timestampPattern, got.CreatedAt)
	s.Equal(PostLinks{Self: "/api/v1/posts/1", Author: "/api/v1/users/1", Posts: "/api/v1/posts"}, got.Links)
}

func (s *APISuite) TestCreatePost() {
	aliceID, alice := s.register("alice")

	w := s.do(http.MethodPost, "/api/v1/posts", gin.H{"title": "t", "content": "c", "user_id": aliceID}, nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/v1/posts", gin.H{"title": "t", "content": "c", "user_id": aliceID}, alice)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	s.Equal("/api/v1/posts/1", w.Header().Get("Location"))

	var body map[string]any
	s.decode(w, &body)
	s.EqualValues(1, body["id"])
	s.EqualValues(aliceID, body["user_id"])
	s.Equal(map[string]any{"self": "/api/v1/posts/1", "author": "/api/v1/users/1"}, body["_links"])
}

func (s *APISuite) TestCreatePostBadRequests() {
	aliceID, alice := s.register("alice")

	tests := []struct {
		name string
		body any
		want string
	}{
		{"no body", nil, `{"error":"Bad Request","message":"Must include title, content and user_id fields"}`},
		{"missing content", gin.H{"title": "t", "user_id": aliceID}, `{"error":"Bad Request","message":"Must include title, content and user_id fields"}`},
		{"missing user_id", gin.H{"title": "t", "content": "c"}, `{"error":"Bad Request","message":"Must include title, content and user_id fields"}`},
		{"unknown user", gin.H{"title": "t", "content": "c", "user_id": 999}, `{"error":"Bad Request","message":"Invalid user_id"}`},
		{"wrong type", gin.H{"title": "t", "content": "c", "user_id": "one"}, `{"error":"Bad Request","message":"Invalid JSON body"}`},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := s.do(http.MethodPost, "/api/v1/posts", tt.body, alice)
			s.Equal(http.StatusBadRequest, w.Code)
			s.JSONEq(tt.want, w.Body.String())
		})
	}

	w := s.do(http.MethodGet, "/api/v1/posts", nil, nil)
	s.JSONEq(`[]`, w.Body.String())
}

func (s *APISuite) TestUpdatePost() {
	aliceID, alice := s.register("alice")
	post := s.createPost(alice, aliceID, "draft")

	w := s.do(http.MethodPut, postURL(post.ID), gin.H{"title": "final"}, nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPut, postURL(post.ID), gin.H{"title": "final", "user_id": 42}, alice)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var got PostResponse
	s.decode(w, &got)
	s.Equal("final", got.Title)
	s.Equal("body of draft", got.Content)
	s.Equal(aliceID, got.UserID)
	s.Equal(post.CreatedAt, got.CreatedAt)

	w = s.do(http.MethodPut, postURL(post.ID), gin.H{"content": ""}, alice)
	s.Equal(http.StatusBadRequest, w.Code)
	s.JSONEq(`{"error":"Bad Request","message":"content must not be empty"}`, w.Body.String())

	w = s.do(http.MethodPut, "/api/v1/posts/77", gin.H{"title": "x"}, alice)
	s.Equal(http.StatusNotFound, w.Code)
	s.JSONEq(`{"error":"Not Found","message":"Post with id 77 not found"}`, w.Body.String())
}

func (s *APISuite) TestDeletePost() {
	aliceID, alice := s.register("alice")
	post := s.createPost(alice, aliceID, "doomed")

	w := s.do(http.MethodDelete, postURL(post.ID), nil, nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodDelete, postURL(post.ID), nil, alice)
	s.Require().Equal(http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, postURL(post.ID), nil, nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, postURL(post.ID), nil, alice)
	s.Equal(http.StatusNotFound, w.Code)

	// The author survives
	w = s.do(http.MethodGet, "/api/v1/users/1", nil, alice)
	s.Equal(http.StatusOK, w.Code)
}

func (s *APISuite) TestPostIDsAreNotReused() {
	aliceID, alice := s.register("alice")
	first := s.createPost(alice, aliceID, "one")
	s.Require().Equal(http.StatusNoContent, s.do(http.MethodDelete, postURL(first.ID), nil, alice).Code)

	second := s.createPost(alice, aliceID, "two")
	s.Greater(second.ID, first.ID)
}
