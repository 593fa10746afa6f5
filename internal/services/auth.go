package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"asset-control/internal/dto"
	"asset-control/internal/entities"
	"asset-control/internal/repositories"
	"asset-control/pkg/config"
	"asset-control/pkg/customvalidator"
	apperrors "asset-control/pkg/errors"
	"asset-control/pkg/service"
	"asset-control/pkg/utils"
)

const minPasswordLength = 6

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.TokenPairDTO, *entities.UserInfo, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairDTO, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*entities.UserInfo, error)
	UpdateProfile(ctx context.Context, payload dto.UpdateProfileDTO) (*entities.UserInfo, error)
	ChangePassword(ctx context.Context, payload dto.ChangePasswordDTO) error
}

type AuthService struct {
	userRepo     repositories.UserRepositoryInterface
	employeeRepo repositories.EmployeeRepositoryInterface
	cacheRepo    repositories.CacheRepositoryInterface
	jwtSvc       service.JWTService
	logger       *zap.Logger
	cfg          config.AuthConfig
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	employeeRepo repositories.EmployeeRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	jwtSvc service.JWTService,
	logger *zap.Logger,
	cfg config.AuthConfig,
) AuthServiceInterface {
	return &AuthService{
		userRepo:     userRepo,
		employeeRepo: employeeRepo,
		cacheRepo:    cacheRepo,
		jwtSvc:       jwtSvc,
		logger:       logger,
		cfg:          cfg,
	}
}

// Login проверяет учетные данные и выдает пару токенов.
// Замок в Redis не пускает второй сабмит той же формы, пока жив первый;
// задержка выравнивает время ответа для верного и неверного пароля.
func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.TokenPairDTO, *entities.UserInfo, error) {
	lockKey := fmt.Sprintf("login_lock:%s", payload.Username)
	acquired, err := s.cacheRepo.SetNX(ctx, lockKey, "1", s.cfg.LoginLockTTL)
	if err != nil {
		s.logger.Warn("не удалось взять замок логина", zap.Error(err))
	} else if !acquired {
		return nil, nil, apperrors.ErrLoginInProgress
	}
	defer func() {
		_ = s.cacheRepo.Del(context.Background(), lockKey)
	}()

	time.Sleep(s.cfg.LoginDelay)

	user, err := s.userRepo.FindUserByUsername(ctx, payload.Username)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil, apperrors.ErrInvalidCredentials
		}
		return nil, nil, apperrors.NewPersistenceError(err)
	}

	if !user.IsActive || user.PasswordHash != utils.HashPassword(payload.Password) {
		s.logger.Warn("неудачная попытка входа", zap.String("username", payload.Username))
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		s.logger.Warn("не удалось обновить дату входа", zap.Uint64("userID", user.ID), zap.Error(err))
	}

	accessToken, refreshToken, err := s.jwtSvc.GenerateTokens(user.ID, user.RoleID)
	if err != nil {
		return nil, nil, err
	}

	info, err := s.userRepo.GetUserInfo(ctx, user.ID)
	if err != nil {
		return nil, nil, apperrors.NewPersistenceError(err)
	}

	s.logger.Info("пользователь вошел в систему", zap.Uint64("userID", user.ID), zap.String("username", user.Username))
	return &dto.TokenPairDTO{AccessToken: accessToken, RefreshToken: refreshToken}, info, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairDTO, error) {
	claims, err := s.jwtSvc.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}

	user, err := s.userRepo.FindUser(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return nil, apperrors.ErrUnauthorized
	}

	accessToken, newRefreshToken, err := s.jwtSvc.GenerateTokens(user.ID, user.RoleID)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPairDTO{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

// Logout снимает замок логина пользователя. Сами токены не отзываются:
// клиент просто перестает их использовать.
func (s *AuthService) Logout(ctx context.Context) error {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return err
	}
	info, err := s.userRepo.GetUserInfo(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.cacheRepo.Del(ctx, fmt.Sprintf("login_lock:%s", info.Username)); err != nil {
		s.logger.Warn("не удалось снять замок логина", zap.String("username", info.Username), zap.Error(err))
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context) (*entities.UserInfo, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	return s.userRepo.GetUserInfo(ctx, userID)
}

// UpdateProfile правит контакты собственной карточки сотрудника:
// email с проверкой формата и уникальности среди остальных сотрудников.
func (s *AuthService) UpdateProfile(ctx context.Context, payload dto.UpdateProfileDTO) (*entities.UserInfo, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.EmployeeID.Valid {
		return nil, apperrors.NewValidationError("К учетной записи не привязан сотрудник")
	}
	employeeID := user.EmployeeID.Uint64

	email := strings.TrimSpace(payload.Email)
	if email != "" {
		if !customvalidator.ValidEmail(email) {
			return nil, apperrors.NewFormatError("Введите корректный email")
		}
		exists, err := s.employeeRepo.EmailExists(ctx, email, employeeID)
		if err != nil {
			return nil, apperrors.NewPersistenceError(err)
		}
		if exists {
			return nil, apperrors.NewDuplicateError("Сотрудник с таким email уже существует")
		}
	}

	if err := s.employeeRepo.UpdateContactInfo(ctx, employeeID, nullStringFromForm(payload.Email), nullStringFromForm(payload.Phone)); err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}

	s.logger.Info("профиль обновлен", zap.Uint64("userID", userID))
	return s.userRepo.GetUserInfo(ctx, userID)
}

// ChangePassword меняет пароль самого пользователя: текущий пароль
// сверяется по хешу, новый должен совпасть с подтверждением и быть
// не короче шести символов.
func (s *AuthService) ChangePassword(ctx context.Context, payload dto.ChangePasswordDTO) error {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return err
	}

	user, err := s.userRepo.FindUser(ctx, userID)
	if err != nil {
		return err
	}

	if user.PasswordHash != utils.HashPassword(payload.CurrentPassword) {
		return apperrors.NewValidationError("Неверный текущий пароль")
	}
	if payload.NewPassword != payload.ConfirmPassword {
		return apperrors.NewValidationError("Новый пароль и подтверждение не совпадают")
	}
	if len([]rune(payload.NewPassword)) < minPasswordLength {
		return apperrors.NewValidationError("Пароль должен содержать не менее %d символов", minPasswordLength)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, utils.HashPassword(payload.NewPassword)); err != nil {
		return apperrors.NewPersistenceError(err)
	}

	s.logger.Info("пароль изменен", zap.Uint64("userID", userID))
	return nil
}
