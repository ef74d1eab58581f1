package seed

import (
	"fmt"
	"log"

	"yatube/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the plaintext password of every seeded account.
const DefaultPassword = "yatube-demo-pass"

// Options configures a seeding run.
type Options struct {
	NumUsers       int
	NumGroups      int
	NumPosts       int
	NumComments    int
	FollowsPerUser int
	// MaxDays spreads post dates over this many days back from now.
	MaxDays     int
	ShouldClean bool
	RandSeed    int64
	Password    string
	BcryptCost  int
}

// DefaultOptions returns a small but browsable data set.
func DefaultOptions() Options {
	return Options{
		NumUsers:       12,
		NumGroups:      4,
		NumPosts:       120,
		NumComments:    200,
		FollowsPerUser: 3,
		MaxDays:        90,
		Password:       DefaultPassword,
	}
}

// Summary reports how many rows a seeding run created.
type Summary struct {
	Users    int
	Groups   int
	Posts    int
	Comments int
	Follows  int
}

// Seed fills db with sample users, groups, posts, comments and follows.
func Seed(db *gorm.DB, opts Options) (*Summary, error) {
	if opts.ShouldClean {
		log.Println("Cleaning database...")
		if err := Clean(db); err != nil {
			return nil, fmt.Errorf("clean: %w", err)
		}
	}
	if opts.NumUsers <= 0 {
		return &Summary{}, nil
	}

	password := opts.Password
	if password == "" {
		password = DefaultPassword
	}
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	f := NewFactory(db, opts.RandSeed, string(hash), opts.MaxDays)
	summary := &Summary{}

	log.Printf("Creating %d users...", opts.NumUsers)
	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		u, err := f.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		users = append(users, u)
	}
	summary.Users = len(users)

	log.Printf("Creating %d groups...", opts.NumGroups)
	groups := make([]*models.Group, 0, opts.NumGroups)
	for i := 0; i < opts.NumGroups; i++ {
		g, err := f.CreateGroup()
		if err != nil {
			return nil, fmt.Errorf("create group: %w", err)
		}
		groups = append(groups, g)
	}
	summary.Groups = len(groups)

	log.Printf("Creating %d posts...", opts.NumPosts)
	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[f.faker.Number(0, len(users)-1)]
		// Roughly a third of posts stay outside any group.
		var group *models.Group
		if len(groups) > 0 && f.faker.Number(0, 2) > 0 {
			group = groups[f.faker.Number(0, len(groups)-1)]
		}
		posts = append(posts, f.BuildPost(author, group))
	}
	if err := f.CreatePostsBatch(posts); err != nil {
		return nil, fmt.Errorf("create posts: %w", err)
	}
	summary.Posts = len(posts)

	if len(posts) > 0 {
		log.Printf("Creating %d comments...", opts.NumComments)
		for i := 0; i < opts.NumComments; i++ {
			post := posts[f.faker.Number(0, len(posts)-1)]
			author := users[f.faker.Number(0, len(users)-1)]
			if _, err := f.CreateComment(post, author); err != nil {
				return nil, fmt.Errorf("create comment: %w", err)
			}
			summary.Comments++
		}
	}

	if len(users) > 1 && opts.FollowsPerUser > 0 {
		log.Println("Creating follows...")
		for _, u := range users {
			seen := map[uint]bool{u.ID: true}
			for j := 0; j < opts.FollowsPerUser && len(seen) < len(users); j++ {
				author := users[f.faker.Number(0, len(users)-1)]
				if seen[author.ID] {
					continue
				}
				seen[author.ID] = true
				if err := f.Follow(u, author); err != nil {
					return nil, fmt.Errorf("create follow: %w", err)
				}
				summary.Follows++
			}
		}
	}

	log.Printf("Seeded %d users, %d groups, %d posts, %d comments, %d follows",
		summary.Users, summary.Groups, summary.Posts, summary.Comments, summary.Follows)
	return summary, nil
}

// Clean removes every row created by Seed, children first.
func Clean(db *gorm.DB) error {
	for _, model := range []any{&models.Comment{}, &models.Follow{}, &models.Post{}, &models.Group{}, &models.User{}} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
