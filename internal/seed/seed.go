// Package seed fills a database with demo data: users, the built-in groups,
// posts, comments and follow edges. It is intended for development only.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "password123"

// Options controls how much data the seeder creates.
type Options struct {
	NumUsers      int
	NumPosts      int
	MaxComments   int   // per post
	MaxFollows    int   // per user
	MaxDays       int   // spread of created_at into the past
	Clean         bool  // delete existing rows first
	RandSeed      int64 // 0 picks a time-based seed
	BcryptCost    int
	GroupFixtures []GroupFixture
}

// Summary reports what a run created.
type Summary struct {
	Users    int
	Groups   int
	Posts    int
	Comments int
	Follows  int
}

// Seeder writes fake data through a single GORM handle.
type Seeder struct {
	db    *gorm.DB
	opts  Options
	faker *gofakeit.Faker
}

// NewSeeder applies defaults to opts and binds the seeder to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	if opts.RandSeed == 0 {
		opts.RandSeed = time.Now().UnixNano()
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &Seeder{db: db, opts: opts, faker: gofakeit.New(opts.RandSeed)}
}

// Run seeds everything in dependency order.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	log := middleware.LoggerFromContext(ctx)
	db := s.db.WithContext(ctx)

	if s.opts.Clean {
		if err := ClearAll(db); err != nil {
			return nil, err
		}
		log.Info("existing data cleared")
	}

	fixtures := s.opts.GroupFixtures
	if fixtures == nil {
		var err error
		if fixtures, err = BuiltInGroups(); err != nil {
			return nil, err
		}
	}
	groups, err := Groups(db, fixtures)
	if err != nil {
		return nil, err
	}

	users, err := s.createUsers(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create users: %w", err)
	}

	posts, err := s.createPosts(db, users, groups)
	if err != nil {
		return nil, fmt.Errorf("failed to create posts: %w", err)
	}

	comments, err := s.createComments(db, users, posts)
	if err != nil {
		return nil, fmt.Errorf("failed to create comments: %w", err)
	}

	follows, err := s.createFollows(db, users)
	if err != nil {
		return nil, fmt.Errorf("failed to create follows: %w", err)
	}

	summary := &Summary{
		Users:    len(users),
		Groups:   len(groups),
		Posts:    len(posts),
		Comments: comments,
		Follows:  follows,
	}
	log.Info("seeding complete",
		zap.Int("users", summary.Users),
		zap.Int("groups", summary.Groups),
		zap.Int("posts", summary.Posts),
		zap.Int("comments", summary.Comments),
		zap.Int("follows", summary.Follows),
	)
	return summary, nil
}

// ClearAll removes every seeded table's rows, children first.
func ClearAll(db *gorm.DB) error {
	all := db.Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []any{&models.Follow{}, &models.Comment{}, &models.Post{}, &models.Group{}, &models.User{}} {
		if err := all.Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

func (s *Seeder) createUsers(db *gorm.DB) ([]*models.User, error) {
	if s.opts.NumUsers <= 0 {
		return nil, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), s.opts.BcryptCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, s.opts.NumUsers)
	for i := 0; i < s.opts.NumUsers; i++ {
		// The suffix keeps names unique across one run.
		username := fmt.Sprintf("%s%d", usernameBase(s.faker.Username()), i)
		users = append(users, &models.User{
			Username: username,
			Email:    username + "@example.com",
			Password: string(hash),
		})
	}
	if err := db.CreateInBatches(users, 100).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// usernameBase lowercases a generated name and drops anything outside
// [a-z0-9].
func usernameBase(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}

func (s *Seeder) pastTime() time.Time {
	minutes := s.faker.Number(0, s.opts.MaxDays*24*60)
	return time.Now().UTC().Add(-time.Duration(minutes) * time.Minute)
}

func (s *Seeder) createPosts(db *gorm.DB, users []*models.User, groups []models.Group) ([]*models.Post, error) {
	if len(users) == 0 || s.opts.NumPosts <= 0 {
		return nil, nil
	}

	posts := make([]*models.Post, 0, s.opts.NumPosts)
	for i := 0; i < s.opts.NumPosts; i++ {
		author := users[s.faker.Number(0, len(users)-1)]
		post := &models.Post{
			Text:      s.faker.Paragraph(1, 3, 12, "\n\n"),
			AuthorID:  &author.ID,
			CreatedAt: s.pastTime(),
		}
		// About a third of posts stay ungrouped.
		if len(groups) > 0 && s.faker.Number(0, 2) > 0 {
			group := groups[s.faker.Number(0, len(groups)-1)]
			post.GroupID = &group.ID
		}
		posts = append(posts, post)
	}
	if err := db.Omit(clause.Associations).CreateInBatches(posts, 100).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *Seeder) createComments(db *gorm.DB, users []*models.User, posts []*models.Post) (int, error) {
	if len(users) == 0 || s.opts.MaxComments <= 0 {
		return 0, nil
	}

	var comments []*models.Comment
	for _, post := range posts {
		n := s.faker.Number(0, s.opts.MaxComments)
		for j := 0; j < n; j++ {
			author := users[s.faker.Number(0, len(users)-1)]
			comments = append(comments, &models.Comment{
				PostID:    &post.ID,
				AuthorID:  &author.ID,
				Text:      s.faker.Sentence(s.faker.Number(4, 16)),
				CreatedAt: post.CreatedAt.Add(time.Duration(j+1) * time.Minute),
			})
		}
	}
	if len(comments) == 0 {
		return 0, nil
	}
	if err := db.Omit(clause.Associations).CreateInBatches(comments, 200).Error; err != nil {
		return 0, err
	}
	return len(comments), nil
}

func (s *Seeder) createFollows(db *gorm.DB, users []*models.User) (int, error) {
	if len(users) < 2 || s.opts.MaxFollows <= 0 {
		return 0, nil
	}

	var follows []*models.Follow
	for _, follower := range users {
		picked := make(map[uint]bool)
		n := s.faker.Number(0, s.opts.MaxFollows)
		for j := 0; j < n; j++ {
			author := users[s.faker.Number(0, len(users)-1)]
			if author.ID == follower.ID || picked[author.ID] {
				continue
			}
			picked[author.ID] = true
			follows = append(follows, models.NewFollow(follower.ID, author.ID))
		}
	}
	if len(follows) == 0 {
		return 0, nil
	}

	result := db.Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "author_id"}},
			DoNothing: true,
		}).
		CreateInBatches(follows, 200)
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}
