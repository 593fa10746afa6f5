package services

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"asset-control/internal/authz"
	"asset-control/internal/dto"
	"asset-control/internal/entities"
	"asset-control/internal/repositories"
	"asset-control/pkg/customvalidator"
	apperrors "asset-control/pkg/errors"
	"asset-control/pkg/filestorage"
	"asset-control/pkg/types"
	"asset-control/pkg/utils"
)

type EmployeeServiceInterface interface {
	GetEmployees(ctx context.Context, filter types.Filter) ([]entities.EmployeeListItem, uint64, error)
	FindEmployee(ctx context.Context, id uint64) (*entities.Employee, error)
	CreateEmployee(ctx context.Context, payload dto.SaveEmployeeDTO) (*entities.Employee, error)
	UpdateEmployee(ctx context.Context, id uint64, payload dto.SaveEmployeeDTO) (*entities.Employee, error)
	ToggleAccountStatus(ctx context.Context, employeeID uint64) (*dto.ToggleAccountResultDTO, error)
	DeleteEmployee(ctx context.Context, employeeID uint64) error
	SavePhoto(ctx context.Context, employeeID uint64, file io.Reader, fileName string) (string, error)
}

type EmployeeService struct {
	employeeRepo repositories.EmployeeRepositoryInterface
	userRepo     repositories.UserRepositoryInterface
	assetRepo    repositories.AssetRepositoryInterface
	txManager    repositories.TxManagerInterface
	fileStorage  filestorage.FileStorageInterface
	logger       *zap.Logger
}

func NewEmployeeService(
	employeeRepo repositories.EmployeeRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	assetRepo repositories.AssetRepositoryInterface,
	txManager repositories.TxManagerInterface,
	fileStorage filestorage.FileStorageInterface,
	logger *zap.Logger,
) EmployeeServiceInterface {
	return &EmployeeService{
		employeeRepo: employeeRepo,
		userRepo:     userRepo,
		assetRepo:    assetRepo,
		txManager:    txManager,
		fileStorage:  fileStorage,
		logger:       logger,
	}
}

func (s *EmployeeService) GetEmployees(ctx context.Context, filter types.Filter) ([]entities.EmployeeListItem, uint64, error) {
	employees, total, err := s.employeeRepo.GetEmployees(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка при получении списка сотрудников", zap.Error(err))
		return nil, 0, err
	}
	return employees, total, nil
}

func (s *EmployeeService) FindEmployee(ctx context.Context, id uint64) (*entities.Employee, error) {
	return s.employeeRepo.FindEmployee(ctx, id)
}

func validateSaveEmployee(payload dto.SaveEmployeeDTO) error {
	if strings.TrimSpace(payload.LastName) == "" || strings.TrimSpace(payload.FirstName) == "" {
		return apperrors.NewValidationError("Введите фамилию и имя")
	}
	if payload.PositionID == 0 || payload.DepartmentID == 0 {
		return apperrors.NewValidationError("Выберите должность и отдел")
	}
	if email := strings.TrimSpace(payload.Email); email != "" && !customvalidator.ValidEmail(email) {
		return apperrors.NewFormatError("Введите корректный email")
	}
	if payload.Account != nil && strings.TrimSpace(payload.Account.Username) == "" {
		return apperrors.NewValidationError("Укажите логин учетной записи и роль")
	}
	if payload.Account != nil && payload.Account.RoleID == 0 {
		return apperrors.NewValidationError("Укажите логин учетной записи и роль")
	}
	return nil
}

func (s *EmployeeService) checkEmailUnique(ctx context.Context, email string, excludeID uint64) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	exists, err := s.employeeRepo.EmailExists(ctx, email, excludeID)
	if err != nil {
		return apperrors.NewPersistenceError(err)
	}
	if exists {
		return apperrors.NewDuplicateError("Сотрудник с таким email уже существует")
	}
	return nil
}

func (s *EmployeeService) checkUsernameUnique(ctx context.Context, username string, excludeID uint64) error {
	exists, err := s.userRepo.UsernameExists(ctx, strings.TrimSpace(username), excludeID)
	if err != nil {
		return apperrors.NewPersistenceError(err)
	}
	if exists {
		return apperrors.NewDuplicateError("Пользователь с таким логином уже существует")
	}
	return nil
}

func employeeFromPayload(payload dto.SaveEmployeeDTO) entities.Employee {
	hireDate := time.Now()
	if payload.HireDate.Valid {
		hireDate = payload.HireDate.Time
	}
	return entities.Employee{
		LastName:     strings.TrimSpace(payload.LastName),
		FirstName:    strings.TrimSpace(payload.FirstName),
		MiddleName:   nullStringFromForm(payload.MiddleName),
		Email:        nullStringFromForm(payload.Email),
		Phone:        nullStringFromForm(payload.Phone),
		PositionID:   payload.PositionID,
		DepartmentID: payload.DepartmentID,
		HireDate:     hireDate,
		IsActive:     payload.IsActive.Bool || !payload.IsActive.Valid,
	}
}

// CreateEmployee сохраняет сотрудника и, при включенном флажке,
// его учетную запись. Порядок жесткий: сначала фиксируется строка
// сотрудника (нужен сгенерированный id), затем вставляется users —
// обе операции в одной транзакции.
func (s *EmployeeService) CreateEmployee(ctx context.Context, payload dto.SaveEmployeeDTO) (*entities.Employee, error) {
	roleID, err := utils.GetUserRoleIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.CanManageRole(roleID) {
		return nil, apperrors.ErrForbidden
	}

	if err := validateSaveEmployee(payload); err != nil {
		return nil, err
	}
	if err := s.checkEmailUnique(ctx, payload.Email, 0); err != nil {
		return nil, err
	}

	if payload.Account != nil {
		if strings.TrimSpace(payload.Account.Password) == "" {
			return nil, apperrors.NewValidationError("Укажите пароль для новой учетной записи")
		}
		if err := s.checkUsernameUnique(ctx, payload.Account.Username, 0); err != nil {
			return nil, err
		}
	}

	var created *entities.Employee
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		employee, err := s.employeeRepo.CreateEmployeeInTx(ctx, tx, employeeFromPayload(payload))
		if err != nil {
			return err
		}
		created = employee

		if payload.Account == nil {
			return nil
		}

		account := entities.User{
			Username:     strings.TrimSpace(payload.Account.Username),
			PasswordHash: utils.HashPassword(payload.Account.Password),
			RoleID:       payload.Account.RoleID,
			EmployeeID:   null.Uint64From(employee.ID),
			IsActive:     payload.Account.IsActive.Bool || !payload.Account.IsActive.Valid,
			CreatedDate:  time.Now(),
		}
		_, err = s.userRepo.CreateUserInTx(ctx, tx, account)
		return err
	})
	if err != nil {
		s.logger.Error("ошибка при создании сотрудника", zap.Error(err))
		return nil, apperrors.NewPersistenceError(err)
	}

	s.logger.Info("сотрудник создан", zap.Uint64("id", created.ID), zap.Bool("with_account", payload.Account != nil))
	return created, nil
}

func (s *EmployeeService) UpdateEmployee(ctx context.Context, id uint64, payload dto.SaveEmployeeDTO) (*entities.Employee, error) {
	roleID, err := utils.GetUserRoleIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.CanManageRole(roleID) {
		return nil, apperrors.ErrForbidden
	}

	existing, err := s.employeeRepo.FindEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validateSaveEmployee(payload); err != nil {
		return nil, err
	}
	if err := s.checkEmailUnique(ctx, payload.Email, existing.ID); err != nil {
		return nil, err
	}

	account, err := s.userRepo.FindUserByEmployeeID(ctx, existing.ID)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, apperrors.NewPersistenceError(err)
	}

	if payload.Account != nil {
		if account == nil && strings.TrimSpace(payload.Account.Password) == "" {
			return nil, apperrors.NewValidationError("Укажите пароль для новой учетной записи")
		}
		excludeID := uint64(0)
		if account != nil {
			excludeID = account.ID
		}
		if err := s.checkUsernameUnique(ctx, payload.Account.Username, excludeID); err != nil {
			return nil, err
		}
	}

	var updated *entities.Employee
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		employee := employeeFromPayload(payload)
		employee.ID = existing.ID
		saved, err := s.employeeRepo.UpdateEmployeeInTx(ctx, tx, employee)
		if err != nil {
			return err
		}
		updated = saved

		if payload.Account == nil {
			// Флажок снят: учетная запись не удаляется, а выключается.
			return s.userRepo.SetActiveByEmployeeInTx(ctx, tx, existing.ID, false)
		}

		if account == nil {
			newAccount := entities.User{
				Username:     strings.TrimSpace(payload.Account.Username),
				PasswordHash: utils.HashPassword(payload.Account.Password),
				RoleID:       payload.Account.RoleID,
				EmployeeID:   null.Uint64From(existing.ID),
				IsActive:     payload.Account.IsActive.Bool || !payload.Account.IsActive.Valid,
				CreatedDate:  time.Now(),
			}
			_, err = s.userRepo.CreateUserInTx(ctx, tx, newAccount)
			return err
		}

		// Пустой пароль при обновлении оставляет прежний хеш.
		passwordHash := ""
		if strings.TrimSpace(payload.Account.Password) != "" {
			passwordHash = utils.HashPassword(payload.Account.Password)
		}
		changed := entities.User{
			ID:           account.ID,
			Username:     strings.TrimSpace(payload.Account.Username),
			PasswordHash: passwordHash,
			RoleID:       payload.Account.RoleID,
			IsActive:     payload.Account.IsActive.Bool || !payload.Account.IsActive.Valid,
		}
		_, err = s.userRepo.UpdateUserInTx(ctx, tx, changed)
		return err
	})
	if err != nil {
		s.logger.Error("ошибка при обновлении сотрудника", zap.Uint64("id", id), zap.Error(err))
		return nil, apperrors.NewPersistenceError(err)
	}

	s.logger.Info("сотрудник обновлен", zap.Uint64("id", updated.ID))
	return updated, nil
}

// ToggleAccountStatus переключает активность привязанной учетной записи.
// Отсутствие записи — не ошибка, а сообщение в ответе.
func (s *EmployeeService) ToggleAccountStatus(ctx context.Context, employeeID uint64) (*dto.ToggleAccountResultDTO, error) {
	roleID, err := utils.GetUserRoleIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.CanManageRole(roleID) {
		return nil, apperrors.ErrForbidden
	}

	account, err := s.userRepo.FindUserByEmployeeID(ctx, employeeID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return &dto.ToggleAccountResultDTO{
				EmployeeID: employeeID,
				HasAccount: false,
				Message:    "У сотрудника нет учетной записи",
			}, nil
		}
		return nil, apperrors.NewPersistenceError(err)
	}

	newState := !account.IsActive
	if err := s.userRepo.SetActive(ctx, account.ID, newState); err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}

	return &dto.ToggleAccountResultDTO{
		EmployeeID: employeeID,
		HasAccount: true,
		IsActive:   newState,
		Message:    "Статус учетной записи изменен",
	}, nil
}

// DeleteEmployee физически удаляет сотрудника вместе с учетной записью.
// Блокируется, пока за сотрудником числится хотя бы один актив.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, employeeID uint64) error {
	roleID, err := utils.GetUserRoleIDFromCtx(ctx)
	if err != nil {
		return err
	}
	if !authz.CanDeleteHardRole(roleID) {
		return apperrors.ErrForbidden
	}

	if _, err := s.employeeRepo.FindEmployee(ctx, employeeID); err != nil {
		return err
	}

	assetCount, err := s.assetRepo.CountByResponsible(ctx, employeeID)
	if err != nil {
		return apperrors.NewPersistenceError(err)
	}
	if assetCount > 0 {
		return apperrors.NewConflictError("Нельзя удалить сотрудника: за ним числятся активы")
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.userRepo.DeleteByEmployeeIDInTx(ctx, tx, employeeID); err != nil {
			return err
		}
		return s.employeeRepo.DeleteEmployeeInTx(ctx, tx, employeeID)
	})
	if err != nil {
		s.logger.Error("ошибка удаления сотрудника", zap.Uint64("id", employeeID), zap.Error(err))
		return apperrors.NewPersistenceError(err)
	}

	s.logger.Info("сотрудник удален", zap.Uint64("id", employeeID))
	return nil
}

func (s *EmployeeService) SavePhoto(ctx context.Context, employeeID uint64, file io.Reader, fileName string) (string, error) {
	roleID, err := utils.GetUserRoleIDFromCtx(ctx)
	if err != nil {
		return "", err
	}
	if !authz.CanManageRole(roleID) {
		return "", apperrors.ErrForbidden
	}

	if _, err := s.employeeRepo.FindEmployee(ctx, employeeID); err != nil {
		return "", err
	}

	path, err := s.fileStorage.Save(file, fileName, "photos")
	if err != nil {
		return "", apperrors.NewPersistenceError(err)
	}

	if err := s.employeeRepo.SetPhotoPath(ctx, employeeID, path); err != nil {
		return "", apperrors.NewPersistenceError(err)
	}
	return path, nil
}
