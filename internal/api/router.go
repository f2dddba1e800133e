package api

import (
	"net/http" // HTTP status codes
	"time"     // Token lifetime

	"blog_system/internal/httperror"  // JSON error responses
	"blog_system/internal/middleware" // Auth gate and request middleware
	"blog_system/internal/repository" // Repositories

	"github.com/gin-gonic/gin"                                // Gin web framework
	"github.com/prometheus/client_golang/prometheus/promhttp" // Metrics exposition
	"github.com/sirupsen/logrus"                              // Logging
)

// RouterConfig holds everything the HTTP surface depends on
type RouterConfig struct {
	Users            *repository.UserRepository // User lifecycle
	Posts            *repository.PostRepository // Post lifecycle
	Strategies       []middleware.Strategy      // Auth strategies guarding protected routes
	EnforceOwnership bool                       // Restrict mutations to owners and admins
	TokenSecret      string                     // Enables POST /tokens when set
	TokenTTL         time.Duration              // Lifetime of issued tokens
}

// NewRouter wires middleware and routes
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New() // Gin router instance
	r.HandleMethodNotAllowed = true
	r.Use(
		middleware.RequestIDMiddleware(), // X-Request-ID
		middleware.LoggerMiddleware(),    // Access log
		middleware.MetricsMiddleware(),   // Prometheus counters
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			logrus.WithFields(logrus.Fields{
				"request_id": c.GetString("requestId"),
				"panic":      recovered,
			}).Error("Handler panicked")
			httperror.Abort(c, http.StatusInternalServerError, "")
		}),
	)
	r.NoRoute(func(c *gin.Context) { httperror.Respond(c, http.StatusNotFound, "") })
	r.NoMethod(func(c *gin.Context) { httperror.Respond(c, http.StatusMethodNotAllowed, "") })

	r.GET("/health", HealthHandler(cfg.Posts))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := middleware.RequireAuth(cfg.Strategies...) // Protected routes
	v1 := r.Group(APIPrefix)

	// User routes
	v1.GET("/users", auth, ListUsersHandler(cfg.Users))
	v1.GET("/users/:id", auth, GetUserHandler(cfg.Users))
	v1.POST("/users", CreateUserHandler(cfg.Users)) // Registration is public
	v1.PUT("/users/:id", guarded(cfg, auth, userOwner, "modify this user", UpdateUserHandler(cfg.Users))...)
	v1.DELETE("/users/:id", guarded(cfg, auth, userOwner, "delete this user", DeleteUserHandler(cfg.Users))...)

	// Post routes
	postOwner := postOwnerFunc(cfg.Posts)
	v1.GET("/posts", ListPostsHandler(cfg.Posts))
	v1.GET("/posts/:id", GetPostHandler(cfg.Posts))
	v1.POST("/posts", auth, CreatePostHandler(cfg.Posts, cfg.EnforceOwnership))
	v1.PUT("/posts/:id", guarded(cfg, auth, postOwner, "modify this post", UpdatePostHandler(cfg.Posts))...)
	v1.DELETE("/posts/:id", guarded(cfg, auth, postOwner, "delete this post", DeletePostHandler(cfg.Posts))...)

	// Login: Basic credentials in, bearer token out
	if cfg.TokenSecret != "" {
		basic := middleware.RequireAuth(middleware.BasicStrategy{Users: cfg.Users})
		v1.POST("/tokens", basic, IssueTokenHandler(cfg.TokenSecret, cfg.TokenTTL))
	}

	return r
}

// guarded builds the handler chain of a mutating route
func guarded(cfg RouterConfig, auth gin.HandlerFunc, owner middleware.OwnerFunc, action string, h gin.HandlerFunc) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{auth}
	if cfg.EnforceOwnership {
		chain = append(chain, middleware.OwnerOrAdmin(owner, action))
	}
	return append(chain, h)
}

// userOwner: a user resource is owned by itself
func userOwner(c *gin.Context) (uint, error) {
	return pathID(c, "User")
}

func postOwnerFunc(posts *repository.PostRepository) middleware.OwnerFunc {
	return func(c *gin.Context) (uint, error) {
		id, err := pathID(c, "Post")
		if err != nil {
			return 0, err
		}
		post, err := posts.Get(c.Request.Context(), id)
		if err != nil {
			return 0, err
		}
		return post.UserID, nil
	}
}
