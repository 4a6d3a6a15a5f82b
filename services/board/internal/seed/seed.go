// Package seed fills a board store with users and generated posts.
package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/example/comment-board/services/board/internal/store"
)

type Options struct {
	Users []string
	Posts int
	// Faker makes the generated text reproducible; nil uses a random seed.
	Faker *gofakeit.Faker
}

type Result struct {
	Users []store.User
	Posts []store.Post
}

// Run creates the users (existing names are reused) and opts.Posts posts.
func Run(ctx context.Context, s store.Seeder, opts Options) (Result, error) {
	f := opts.Faker
	if f == nil {
		f = gofakeit.New(0)
	}

	var res Result
	for _, name := range opts.Users {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		u, err := s.CreateUser(ctx, name)
		if err != nil {
			return res, fmt.Errorf("create user %q: %w", name, err)
		}
		res.Users = append(res.Users, u)
	}

	for i := 0; i < opts.Posts; i++ {
		title := strings.TrimSuffix(f.Sentence(f.Number(3, 7)), ".")
		body := f.Paragraph(2, 4, 12, "\n\n")
		p, err := s.CreatePost(ctx, title, body)
		if err != nil {
			return res, fmt.Errorf("create post %d: %w", i+1, err)
		}
		res.Posts = append(res.Posts, p)
	}
	return res, nil
}
