package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *OwnershipSuite) TestUsersModifyOnlyThemselves() {
	_, alice := s.register("alice")
	_, bob := s.register("bob")

	w := s.do(http.MethodPut, "/api/v1/users/2", gin.H{"email": "hijack@x.com"}, alice)
	s.Equal(http.StatusForbidden, w.Code)
	s.JSONEq(`{"error":"Forbidden","message":"You do not have permission to modify this user"}`, w.Body.String())

	w = s.do(http.MethodDelete, "/api/v1/users/2", nil, alice)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodPut, "/api/v1/users/2", gin.H{"email": "bob@new.com"}, bob)
	s.Equal(http.StatusOK, w.Code)

	// Reading other users is still allowed
	w = s.do(http.MethodGet, "/api/v1/users/2", nil, alice)
	s.Equal(http.StatusOK, w.Code)
}

func (s *OwnershipSuite) TestPostsMutatedOnlyByAuthor() {
	aliceID, alice := s.register("alice")
	_, bob := s.register("bob")
	post := s.createPost(alice, aliceID, "mine")

	w := s.do(http.MethodPut, postURL(post.ID), gin.H{"title": "stolen"}, bob)
	s.Equal(http.StatusForbidden, w.Code)
	s.JSONEq(`{"error":"Forbidden","message":"You do not have permission to modify this post"}`, w.Body.String())

	w = s.do(http.MethodDelete, postURL(post.ID), nil, bob)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodPut, postURL(post.ID), gin.H{"title": "edited"}, alice)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodDelete, "/api/v1/posts/99", nil, bob)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *OwnershipSuite) TestCannotPostAsAnotherUser() {
	aliceID, _ := s.register("alice")
	_, bob := s.register("bob")

	w := s.do(http.MethodPost, "/api/v1/posts", gin.H{"title": "t", "content": "c", "user_id": aliceID}, bob)
	s.Equal(http.StatusForbidden, w.Code)
	s.JSONEq(`{"error":"Forbidden","message":"You do not have permission to post as another user"}`, w.Body.String())
}

func (s *OwnershipSuite) TestAdminMayActOnAnything() {
	aliceID, alice := s.register("alice")
	admin := s.registerAdmin()
	post := s.createPost(alice, aliceID, "mine")

	s.createPost(admin, aliceID, "on behalf")

	w := s.do(http.MethodPut, postURL(post.ID), gin.H{"content": "moderated"}, admin)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodDelete, "/api/v1/users/1", nil, admin)
	s.Equal(http.StatusNoContent, w.Code)
}
