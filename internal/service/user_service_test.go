package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "staffdir/internal/errors"
	"staffdir/internal/model"
)

func strPtr(s string) *string { return &s }

func TestUserService_CreateUser(t *testing.T) {
	input := CreateUserInput{Name: "Ana", Email: "a@x.com", Password: "secret", Role: "staff"}

	tests := []struct {
		name          string
		setupMock     func(*MockUserRepository, *MockListCache)
		expectedError error
	}{
		{
			name: "successful creation",
			setupMock: func(r *MockUserRepository, c *MockListCache) {
				r.On("CountByEmail", mock.Anything, "a@x.com").Return(int64(0), nil)
				r.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
				c.On("Incr", mock.Anything, userListVersionKey).Return()
			},
		},
		{
			name: "email already exists",
			setupMock: func(r *MockUserRepository, c *MockListCache) {
				r.On("CountByEmail", mock.Anything, "a@x.com").Return(int64(1), nil)
			},
			expectedError: apperrors.ErrDuplicateEmail,
		},
		{
			name: "unique index caught a concurrent insert",
			setupMock: func(r *MockUserRepository, c *MockListCache) {
				r.On("CountByEmail", mock.Anything, "a@x.com").Return(int64(0), nil)
				r.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(apperrors.ErrDuplicateEmail)
			},
			expectedError: apperrors.ErrDuplicateEmail,
		},
		{
			name: "count fails",
			setupMock: func(r *MockUserRepository, c *MockListCache) {
				r.On("CountByEmail", mock.Anything, "a@x.com").Return(int64(0), sql.ErrConnDone)
			},
			expectedError: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			cache := new(MockListCache)
			tt.setupMock(repo, cache)

			user, err := NewUserService(repo, cache).CreateUser(context.Background(), input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				_, parseErr := uuid.Parse(user.ID)
				assert.NoError(t, parseErr)
				assert.NotEqual(t, "secret", user.Password)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret")))
				assert.Nil(t, user.Photo)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestUserService_CreateUser_DuplicateDoesNotInsert(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("CountByEmail", mock.Anything, "a@x.com").Return(int64(1), nil)

	_, err := NewUserService(repo, nil).CreateUser(context.Background(), CreateUserInput{Email: "a@x.com", Password: "p"})

	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserService_ListUsers(t *testing.T) {
	users := []model.User{{ID: "u-1", Email: "a@x.com"}}

	t.Run("cache miss loads and stores under current version", func(t *testing.T) {
		repo := new(MockUserRepository)
		cache := new(MockListCache)
		cache.On("Counter", mock.Anything, userListVersionKey).Return(int64(3), true)
		cache.On("GetJSON", mock.Anything, "users:all:3", mock.Anything).Return(false)
		repo.On("List", mock.Anything).Return(users, nil)
		cache.On("SetJSON", mock.Anything, "users:all:3", users, userListCacheTTL).Return()

		got, err := NewUserService(repo, cache).ListUsers(context.Background())
		require.NoError(t, err)
		assert.Equal(t, users, got)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache hit skips database", func(t *testing.T) {
		repo := new(MockUserRepository)
		cache := new(MockListCache)
		cache.On("Counter", mock.Anything, userListVersionKey).Return(int64(0), true)
		cache.On("GetJSON", mock.Anything, "users:all:0", mock.Anything).
			Run(func(args mock.Arguments) {
				*(args.Get(2).(*[]model.User)) = users
			}).
			Return(true)

		got, err := NewUserService(repo, cache).ListUsers(context.Background())
		require.NoError(t, err)
		assert.Equal(t, users, got)
		repo.AssertNotCalled(t, "List", mock.Anything)
	})

	t.Run("redis unavailable reads database without caching", func(t *testing.T) {
		repo := new(MockUserRepository)
		cache := new(MockListCache)
		cache.On("Counter", mock.Anything, userListVersionKey).Return(int64(0), false)
		repo.On("List", mock.Anything).Return(users, nil)

		got, err := NewUserService(repo, cache).ListUsers(context.Background())
		require.NoError(t, err)
		assert.Equal(t, users, got)
		cache.AssertNotCalled(t, "GetJSON", mock.Anything, mock.Anything, mock.Anything)
		cache.AssertNotCalled(t, "SetJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty table", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("List", mock.Anything).Return([]model.User{}, nil)

		got, err := NewUserService(repo, nil).ListUsers(context.Background())
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("database failure", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("List", mock.Anything).Return(nil, sql.ErrConnDone)

		_, err := NewUserService(repo, nil).ListUsers(context.Background())
		assert.ErrorIs(t, err, sql.ErrConnDone)
	})
}

func TestUserService_UpdateUser(t *testing.T) {
	tests := []struct {
		name          string
		patch         model.UserPatch
		setupMock     func(*MockUserRepository, *MockListCache)
		expected      *model.UpdateResult
		expectedError error
	}{
		{
			name:  "role only",
			patch: model.UserPatch{Role: strPtr("manager")},
			setupMock: func(r *MockUserRepository, c *MockListCache) {
				r.On("Update", mock.Anything, "u-1", model.UserPatch{Role: strPtr("manager")}).Return(int64(1), nil)
				c.On("Incr", mock.Anything, userListVersionKey).Return()
			},
			expected: &model.UpdateResult{AffectedRows: 1},
		},
		{
			name:  "unknown id affects nothing",
			patch: model.UserPatch{Name: strPtr("Ana")},
			setupMock: func(r *MockUserRepository, c *MockListCache) {
				r.On("Update", mock.Anything, "u-1", model.UserPatch{Name: strPtr("Ana")}).Return(int64(0), nil)
				c.On("Incr", mock.Anything, userListVersionKey).Return()
			},
			expected: &model.UpdateResult{AffectedRows: 0},
		},
		{
			name:          "no fields",
			patch:         model.UserPatch{},
			setupMock:     func(r *MockUserRepository, c *MockListCache) {},
			expectedError: apperrors.ErrNoFieldsToUpdate,
		},
		{
			name:  "database failure",
			patch: model.UserPatch{Role: strPtr("x")},
			setupMock: func(r *MockUserRepository, c *MockListCache) {
				r.On("Update", mock.Anything, "u-1", mock.Anything).Return(int64(0), sql.ErrConnDone)
			},
			expectedError: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			cache := new(MockListCache)
			tt.setupMock(repo, cache)

			res, err := NewUserService(repo, cache).UpdateUser(context.Background(), "u-1", tt.patch)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, res)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, res)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestUserService_ListRacingWriteIsNotServed(t *testing.T) {
	stale := []model.User{{ID: "u-1", Email: "a@x.com"}}
	fresh := []model.User{}
	cache := newVersionedCache()
	repo := new(MockUserRepository)
	svc := NewUserService(repo, cache)

	// The listing reads the old table, then a delete commits before it caches.
	repo.On("Delete", mock.Anything, "u-1").Return(nil)
	repo.On("List", mock.Anything).Return(stale, nil).Once().Run(func(mock.Arguments) {
		require.NoError(t, svc.DeleteUser(context.Background(), "u-1"))
	})
	got, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stale, got)

	repo.On("List", mock.Anything).Return(fresh, nil).Once()
	got, err = svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got, "the listing cached during the delete must not be served")
	repo.AssertExpectations(t)
}

func TestUserService_DeleteUser(t *testing.T) {
	repo := new(MockUserRepository)
	cache := new(MockListCache)
	repo.On("Delete", mock.Anything, "missing").Return(nil)
	cache.On("Incr", mock.Anything, userListVersionKey).Return()

	assert.NoError(t, NewUserService(repo, cache).DeleteUser(context.Background(), "missing"))
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}
