package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"asset-control/internal/dto"
	"asset-control/internal/entities"
	"asset-control/pkg/config"
	"asset-control/pkg/constants"
	apperrors "asset-control/pkg/errors"
	"asset-control/pkg/service"
	"asset-control/pkg/utils"
)

func newAuthServiceForTest(userRepo *mockUserRepo, jwtSvc *mockJWTService) AuthServiceInterface {
	// Нулевая задержка, чтобы тесты не спали.
	return NewAuthService(userRepo, new(mockEmployeeRepo), &fakeCacheRepo{}, jwtSvc, zap.NewNop(), config.AuthConfig{})
}

func newProfileAuthService(userRepo *mockUserRepo, employeeRepo *mockEmployeeRepo) AuthServiceInterface {
	return NewAuthService(userRepo, employeeRepo, &fakeCacheRepo{}, new(mockJWTService), zap.NewNop(), config.AuthConfig{})
}

func activeUser() *entities.User {
	return &entities.User{
		ID:           1,
		Username:     "admin",
		PasswordHash: utils.HashPassword("admin"),
		RoleID:       constants.RoleAdministrator,
		IsActive:     true,
	}
}

func TestLogin(t *testing.T) {
	t.Run("успешный вход", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		jwtSvc := new(mockJWTService)

		userRepo.On("FindUserByUsername", mock.Anything, "admin").Return(activeUser(), nil)
		userRepo.On("UpdateLastLogin", mock.Anything, uint64(1), mock.Anything).Return(nil)
		jwtSvc.On("GenerateTokens", uint64(1), uint64(constants.RoleAdministrator)).Return("access", "refresh", nil)
		userRepo.On("GetUserInfo", mock.Anything, uint64(1)).Return(&entities.UserInfo{User: *activeUser(), RoleName: "Администратор"}, nil)

		svc := newAuthServiceForTest(userRepo, jwtSvc)
		tokens, info, err := svc.Login(context.Background(), dto.LoginDTO{Username: "admin", Password: "admin"})

		require.NoError(t, err)
		assert.Equal(t, "access", tokens.AccessToken)
		assert.Equal(t, "refresh", tokens.RefreshToken)
		assert.Equal(t, "Администратор", info.RoleName)
		userRepo.AssertExpectations(t)
	})

	t.Run("неверный пароль — то же сообщение, что и для неизвестного логина", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		userRepo.On("FindUserByUsername", mock.Anything, "admin").Return(activeUser(), nil)

		svc := newAuthServiceForTest(userRepo, new(mockJWTService))
		_, _, errWrongPassword := svc.Login(context.Background(), dto.LoginDTO{Username: "admin", Password: "чужой"})

		userRepo2 := new(mockUserRepo)
		userRepo2.On("FindUserByUsername", mock.Anything, "ghost").Return(nil, apperrors.ErrNotFound)

		svc2 := newAuthServiceForTest(userRepo2, new(mockJWTService))
		_, _, errUnknownUser := svc2.Login(context.Background(), dto.LoginDTO{Username: "ghost", Password: "любой"})

		assert.ErrorIs(t, errWrongPassword, apperrors.ErrInvalidCredentials)
		assert.ErrorIs(t, errUnknownUser, apperrors.ErrInvalidCredentials)
	})

	t.Run("выключенная учетная запись не входит даже с верным паролем", func(t *testing.T) {
		blocked := activeUser()
		blocked.IsActive = false

		userRepo := new(mockUserRepo)
		userRepo.On("FindUserByUsername", mock.Anything, "admin").Return(blocked, nil)

		svc := newAuthServiceForTest(userRepo, new(mockJWTService))
		_, _, err := svc.Login(context.Background(), dto.LoginDTO{Username: "admin", Password: "admin"})

		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestRefresh(t *testing.T) {
	t.Run("access-токен не годится для обновления", func(t *testing.T) {
		jwtSvc := new(mockJWTService)
		jwtSvc.On("ValidateToken", "access-token").Return(&service.JwtCustomClaim{UserID: 1, IsRefreshToken: false}, nil)

		svc := newAuthServiceForTest(new(mockUserRepo), jwtSvc)
		_, err := svc.Refresh(context.Background(), "access-token")

		assert.ErrorIs(t, err, apperrors.ErrTokenIsNotRefresh)
	})

	t.Run("выключенный пользователь не обновляет токены", func(t *testing.T) {
		blocked := activeUser()
		blocked.IsActive = false

		jwtSvc := new(mockJWTService)
		jwtSvc.On("ValidateToken", "refresh-token").Return(&service.JwtCustomClaim{UserID: 1, IsRefreshToken: true}, nil)
		userRepo := new(mockUserRepo)
		userRepo.On("FindUser", mock.Anything, uint64(1)).Return(blocked, nil)

		svc := newAuthServiceForTest(userRepo, jwtSvc)
		_, err := svc.Refresh(context.Background(), "refresh-token")

		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("успешное обновление", func(t *testing.T) {
		jwtSvc := new(mockJWTService)
		jwtSvc.On("ValidateToken", "refresh-token").Return(&service.JwtCustomClaim{UserID: 1, RoleID: constants.RoleAdministrator, IsRefreshToken: true}, nil)
		jwtSvc.On("GenerateTokens", uint64(1), uint64(constants.RoleAdministrator)).Return("new-access", "new-refresh", nil)
		userRepo := new(mockUserRepo)
		userRepo.On("FindUser", mock.Anything, uint64(1)).Return(activeUser(), nil)

		svc := newAuthServiceForTest(userRepo, jwtSvc)
		tokens, err := svc.Refresh(context.Background(), "refresh-token")

		require.NoError(t, err)
		assert.Equal(t, "new-access", tokens.AccessToken)
	})
}

func TestMe(t *testing.T) {
	userRepo := new(mockUserRepo)
	userRepo.On("GetUserInfo", mock.Anything, uint64(5)).Return(&entities.UserInfo{User: entities.User{ID: 5}}, nil)

	svc := newAuthServiceForTest(userRepo, new(mockJWTService))
	info, err := svc.Me(utils.WithUserID(context.Background(), 5))

	require.NoError(t, err)
	assert.Equal(t, uint64(5), info.ID)
}

func linkedUser() *entities.User {
	u := activeUser()
	u.EmployeeID = null.Uint64From(10)
	return u
}

func TestUpdateProfile(t *testing.T) {
	t.Run("контакты карточки обновляются", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		employeeRepo := new(mockEmployeeRepo)

		userRepo.On("FindUser", mock.Anything, uint64(1)).Return(linkedUser(), nil)
		employeeRepo.On("EmailExists", mock.Anything, "new@corp.tj", uint64(10)).Return(false, nil)
		employeeRepo.On("UpdateContactInfo", mock.Anything, uint64(10), null.StringFrom("new@corp.tj"), null.StringFrom("+992001122334")).Return(nil)
		userRepo.On("GetUserInfo", mock.Anything, uint64(1)).Return(&entities.UserInfo{User: *linkedUser()}, nil)

		svc := newProfileAuthService(userRepo, employeeRepo)
		info, err := svc.UpdateProfile(utils.WithUserID(context.Background(), 1), dto.UpdateProfileDTO{
			Email: "new@corp.tj",
			Phone: "+992001122334",
		})

		require.NoError(t, err)
		assert.Equal(t, uint64(1), info.ID)
		employeeRepo.AssertExpectations(t)
	})

	t.Run("чужой email отклоняется", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		employeeRepo := new(mockEmployeeRepo)

		userRepo.On("FindUser", mock.Anything, uint64(1)).Return(linkedUser(), nil)
		employeeRepo.On("EmailExists", mock.Anything, "taken@corp.tj", uint64(10)).Return(true, nil)

		svc := newProfileAuthService(userRepo, employeeRepo)
		_, err := svc.UpdateProfile(utils.WithUserID(context.Background(), 1), dto.UpdateProfileDTO{Email: "taken@corp.tj"})

		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusConflict, httpErr.Code)
		employeeRepo.AssertNotCalled(t, "UpdateContactInfo", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("кривой email отклоняется до обращения к базе", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		employeeRepo := new(mockEmployeeRepo)
		userRepo.On("FindUser", mock.Anything, uint64(1)).Return(linkedUser(), nil)

		svc := newProfileAuthService(userRepo, employeeRepo)
		_, err := svc.UpdateProfile(utils.WithUserID(context.Background(), 1), dto.UpdateProfileDTO{Email: "не-адрес"})

		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
		employeeRepo.AssertNotCalled(t, "EmailExists", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("учетная запись без сотрудника", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		userRepo.On("FindUser", mock.Anything, uint64(1)).Return(activeUser(), nil)

		svc := newProfileAuthService(userRepo, new(mockEmployeeRepo))
		_, err := svc.UpdateProfile(utils.WithUserID(context.Background(), 1), dto.UpdateProfileDTO{Email: "x@corp.tj"})

		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}

func TestChangePassword(t *testing.T) {
	ctx := utils.WithUserID(context.Background(), 1)

	t.Run("пароль меняется по верному текущему", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		userRepo.On("FindUser", mock.Anything, uint64(1)).Return(activeUser(), nil)
		userRepo.On("UpdatePassword", mock.Anything, uint64(1), utils.HashPassword("secret7")).Return(nil)

		svc := newProfileAuthService(userRepo, new(mockEmployeeRepo))
		err := svc.ChangePassword(ctx, dto.ChangePasswordDTO{
			CurrentPassword: "admin",
			NewPassword:     "secret7",
			ConfirmPassword: "secret7",
		})

		require.NoError(t, err)
		userRepo.AssertExpectations(t)
	})

	t.Run("неверный текущий пароль", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		userRepo.On("FindUser", mock.Anything, uint64(1)).Return(activeUser(), nil)

		svc := newProfileAuthService(userRepo, new(mockEmployeeRepo))
		err := svc.ChangePassword(ctx, dto.ChangePasswordDTO{
			CurrentPassword: "чужой",
			NewPassword:     "secret7",
			ConfirmPassword: "secret7",
		})

		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, "Неверный текущий пароль", httpErr.Message)
		userRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("подтверждение не совпадает", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		userRepo.On("FindUser", mock.Anything, uint64(1)).Return(activeUser(), nil)

		svc := newProfileAuthService(userRepo, new(mockEmployeeRepo))
		err := svc.ChangePassword(ctx, dto.ChangePasswordDTO{
			CurrentPassword: "admin",
			NewPassword:     "secret7",
			ConfirmPassword: "другой7",
		})

		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("короткий пароль отклоняется", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		userRepo.On("FindUser", mock.Anything, uint64(1)).Return(activeUser(), nil)

		svc := newProfileAuthService(userRepo, new(mockEmployeeRepo))
		err := svc.ChangePassword(ctx, dto.ChangePasswordDTO{
			CurrentPassword: "admin",
			NewPassword:     "12345",
			ConfirmPassword: "12345",
		})

		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
		userRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})
}
