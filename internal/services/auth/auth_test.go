package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appjwt "github.com/bizsubs/bizsubs/internal/lib/jwt"
	"github.com/bizsubs/bizsubs/internal/lib/password"
	"github.com/bizsubs/bizsubs/internal/models"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}
func (m *UsersMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UsersMock) CreatePreferences(ctx context.Context, p models.Preferences) error {
	return m.Called(ctx, p).Error(0)
}

type MakerMock struct{ mock.Mock }

func (m *MakerMock) GenerateToken(username, role, userUID string) (string, error) {
	args := m.Called(username, role, userUID)
	return args.String(0), args.Error(1)
}
func (m *MakerMock) ParseToken(tokenStr string) (*appjwt.CustomClaims, error) {
	args := m.Called(tokenStr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appjwt.CustomClaims), args.Error(1)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(u *UsersMock)
		wantUID    string
		wantErr    bool
	}{
		{
			name: "success register with default role and preferences",
			setupMocks: func(u *UsersMock) {
				u.On("RegisterUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					if user.Username != "freelancer" || user.Role != "user" || user.Email != "f@example.com" {
						return false
					}
					// Пароль хранится только в виде bcrypt-хэша
					return user.PasswordHash != "secret123" &&
						password.CompareHash(user.PasswordHash, "secret123") == nil
				})).Return("uid-1", nil).Once()
				u.On("CreatePreferences", mock.Anything, mock.MatchedBy(func(p models.Preferences) bool {
					return p.UserUID == "uid-1" && p.FYStartMonth == 1 && p.Currency == "USD"
				})).Return(nil).Once()
			},
			wantUID: "uid-1",
			wantErr: false,
		},
		{
			name: "duplicate username",
			setupMocks: func(u *UsersMock) {
				u.On("RegisterUser", mock.Anything, mock.Anything).Return("", errors.New("username already exists")).Once()
			},
			wantUID: "",
			wantErr: true,
		},
		{
			name: "preferences insert fails",
			setupMocks: func(u *UsersMock) {
				u.On("RegisterUser", mock.Anything, mock.Anything).Return("uid-1", nil).Once()
				u.On("CreatePreferences", mock.Anything, mock.Anything).Return(errors.New("db error")).Once()
			},
			wantUID: "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			maker := new(MakerMock)
			svc := NewAuthService(users, maker)

			tt.setupMocks(users)

			uid, err := svc.Register(context.Background(), "f@example.com", "freelancer", "secret123")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantUID, uid)
			}

			users.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashed, err := password.GetHash("secret123")
	require.NoError(t, err)

	user := &models.User{
		UID:          "uid-1",
		Username:     "freelancer",
		PasswordHash: hashed,
		Role:         "user",
	}

	tests := []struct {
		name       string
		password   string
		setupMocks func(u *UsersMock, m *MakerMock)
		wantToken  string
		wantRole   string
		wantErr    bool
	}{
		{
			name:     "success login",
			password: "secret123",
			setupMocks: func(u *UsersMock, m *MakerMock) {
				u.On("GetUserByUsername", mock.Anything, "freelancer").Return(user, nil).Once()
				m.On("GenerateToken", "freelancer", "user", "uid-1").Return("token-abc", nil).Once()
			},
			wantToken: "token-abc",
			wantRole:  "user",
			wantErr:   false,
		},
		{
			name:     "wrong password",
			password: "wrong",
			setupMocks: func(u *UsersMock, _ *MakerMock) {
				u.On("GetUserByUsername", mock.Anything, "freelancer").Return(user, nil).Once()
			},
			wantErr: true,
		},
		{
			name:     "unknown user",
			password: "secret123",
			setupMocks: func(u *UsersMock, _ *MakerMock) {
				u.On("GetUserByUsername", mock.Anything, "freelancer").Return(nil, errors.New("user not found")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			maker := new(MakerMock)
			svc := NewAuthService(users, maker)

			tt.setupMocks(users, maker)

			token, role, err := svc.Login(context.Background(), "freelancer", tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
				assert.Equal(t, tt.wantRole, role)
			}

			users.AssertExpectations(t)
			maker.AssertExpectations(t)
		})
	}
}
