package seed

import (
	"testing"

	"yatube/internal/models"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func smallOptions() Options {
	return Options{
		NumUsers:       5,
		NumGroups:      2,
		NumPosts:       20,
		NumComments:    10,
		FollowsPerUser: 2,
		RandSeed:       42,
		Password:       "seed-pass",
		BcryptCost:     bcrypt.MinCost,
	}
}

func TestSeed_CreatesRequestedRows(t *testing.T) {
	db := testutil.NewTestDB(t)

	summary, err := Seed(db, smallOptions())
	require.NoError(t, err)

	var users, groups, posts, comments, follows int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Group{}).Count(&groups)
	db.Model(&models.Post{}).Count(&posts)
	db.Model(&models.Comment{}).Count(&comments)
	db.Model(&models.Follow{}).Count(&follows)

	assert.EqualValues(t, 5, users)
	assert.EqualValues(t, 2, groups)
	assert.EqualValues(t, 20, posts)
	assert.EqualValues(t, 10, comments)
	assert.EqualValues(t, summary.Follows, follows)
	assert.Equal(t, 5, summary.Users)
}

func TestSeed_NoSelfFollows(t *testing.T) {
	db := testutil.NewTestDB(t)

	_, err := Seed(db, smallOptions())
	require.NoError(t, err)

	var selfFollows int64
	db.Model(&models.Follow{}).Where("user_id = author_id").Count(&selfFollows)
	assert.Zero(t, selfFollows)
}

func TestSeed_SeededUsersCanLogIn(t *testing.T) {
	db := testutil.NewTestDB(t)

	_, err := Seed(db, smallOptions())
	require.NoError(t, err)

	var user models.User
	require.NoError(t, db.First(&user).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("seed-pass")))
}

func TestSeed_CleanReplacesData(t *testing.T) {
	db := testutil.NewTestDB(t)

	_, err := Seed(db, smallOptions())
	require.NoError(t, err)

	opts := smallOptions()
	opts.ShouldClean = true
	opts.NumPosts = 3
	_, err = Seed(db, opts)
	require.NoError(t, err)

	var posts, users int64
	db.Model(&models.Post{}).Count(&posts)
	db.Model(&models.User{}).Count(&users)
	assert.EqualValues(t, 3, posts)
	assert.EqualValues(t, 5, users)
}

func TestFactory_FollowSkipsSelfAndDuplicates(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := NewFactory(db, 1, "hash", 0)

	a, err := f.CreateUser()
	require.NoError(t, err)
	b, err := f.CreateUser()
	require.NoError(t, err)

	require.NoError(t, f.Follow(a, a))
	require.NoError(t, f.Follow(a, b))
	require.NoError(t, f.Follow(a, b))

	var count int64
	db.Model(&models.Follow{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestFactory_PostDatesAreInThePast(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := NewFactory(db, 7, "hash", 10)

	author, err := f.CreateUser()
	require.NoError(t, err)
	group, err := f.CreateGroup()
	require.NoError(t, err)

	post, err := f.CreatePost(author, group)
	require.NoError(t, err)
	require.NotNil(t, post.GroupID)
	assert.Equal(t, group.ID, *post.GroupID)
	assert.False(t, post.CreatedAt.IsZero())
	assert.NotEmpty(t, group.Slug)
}
