package db

import (
	"context" // Request scope for repository calls

	"blog_system/internal/repository" // Repositories enforce the usual rules

	"github.com/sirupsen/logrus" // Logging
)

// Seed inserts the sample accounts and posts
func Seed(ctx context.Context, users *repository.UserRepository, posts *repository.PostRepository) error {
	admin, err := users.Create(ctx, repository.CreateUserInput{
		Username: "admin",
		Email:    "admin@example.com",
		Password: "adminpassword",
		IsAdmin:  true,
	})
	if err != nil {
		return err
	}
	if _, err := users.Create(ctx, repository.CreateUserInput{
		Username: "user",
		Email:    "user@example.com",
		Password: "userpassword",
	}); err != nil {
		return err
	}
	samples := []repository.CreatePostInput{
		{
			Title:   "Welcome to the Blog API",
			Content: "This is a sample post to demonstrate the functionality of the application.",
			UserID:  admin.ID,
		},
		{
			Title:   "Getting Started",
			Content: "Create an account with POST /api/v1/users, then use HTTP Basic credentials for protected routes.",
			UserID:  admin.ID,
		},
	}
	for _, in := range samples {
		if _, err := posts.Create(ctx, in); err != nil {
			return err
		}
	}
	logrus.Info("Initialized the database with sample data.")
	return nil
}
