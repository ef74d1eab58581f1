// Package seed creates demo data for development databases and tests.
package seed

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"yatube/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by Seed and by tests.
type Factory struct {
	db           *gorm.DB
	faker        *gofakeit.Faker
	passwordHash string
	maxDays      int
	seq          int
}

// NewFactory binds a factory to db. passwordHash is stored on every created user.
func NewFactory(db *gorm.DB, randSeed int64, passwordHash string, maxDays int) *Factory {
	if maxDays <= 0 {
		maxDays = 90
	}
	return &Factory{
		db:           db,
		faker:        gofakeit.New(randSeed),
		passwordHash: passwordHash,
		maxDays:      maxDays,
	}
}

func (f *Factory) next() int {
	f.seq++
	return f.seq
}

// CreateUser persists a sample user. Optional overrides run before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	n := f.next()
	user := &models.User{
		Username:  fmt.Sprintf("%s%d", slugPart(f.faker.Username(), "user"), n),
		Email:     fmt.Sprintf("user%d.%s", n, strings.ToLower(f.faker.Email())),
		Password:  f.passwordHash,
		FirstName: f.faker.FirstName(),
		LastName:  f.faker.LastName(),
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateGroup persists a sample group with a unique slug.
func (f *Factory) CreateGroup(overrides ...func(*models.Group)) (*models.Group, error) {
	n := f.next()
	noun := f.faker.Noun()
	group := &models.Group{
		Title:       strings.TrimSpace("Fans of " + noun),
		Slug:        fmt.Sprintf("%s-%d", slugPart(noun, "group"), n),
		Description: f.faker.Sentence(12),
	}
	for _, override := range overrides {
		override(group)
	}

	if err := f.db.Create(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

// BuildPost constructs a post by author without persisting it. The publication
// date is spread over the factory's window so feeds have a realistic order.
func (f *Factory) BuildPost(author *models.User, group *models.Group, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		Text:      f.faker.Paragraph(1, 3, 12, "\n"),
		AuthorID:  author.ID,
		CreatedAt: f.pastTime(),
	}
	if group != nil {
		post.GroupID = &group.ID
	}
	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePost persists a sample post.
func (f *Factory) CreatePost(author *models.User, group *models.Group, overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(author, group, overrides...)
	if err := f.db.Omit(clause.Associations).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreatePostsBatch persists posts in one statement per batch.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.Omit(clause.Associations).CreateInBatches(posts, 100).Error
}

// CreateComment persists a sample comment on post.
func (f *Factory) CreateComment(post *models.Post, author *models.User) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:    post.ID,
		AuthorID:  author.ID,
		Text:      f.faker.Sentence(f.faker.Number(4, 16)),
		CreatedAt: post.CreatedAt.Add(time.Duration(f.faker.Number(1, 72)) * time.Hour),
	}
	if err := f.db.Omit(clause.Associations).Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// Follow subscribes user to author. Existing edges and self-follows are skipped.
func (f *Factory) Follow(user, author *models.User) error {
	if user.ID == author.ID {
		return nil
	}
	return f.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "author_id"}},
		DoNothing: true,
	}).Omit(clause.Associations).Create(&models.Follow{UserID: user.ID, AuthorID: author.ID}).Error
}

func (f *Factory) pastTime() time.Time {
	back := time.Duration(f.faker.Number(0, f.maxDays*24*60)) * time.Minute
	return time.Now().Add(-back)
}

func slugPart(s, fallback string) string {
	part := strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(s), ""), "-")
	if part == "" {
		return fallback
	}
	return part
}
