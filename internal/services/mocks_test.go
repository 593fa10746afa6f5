package services

import (
	"context"
	"io"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"asset-control/internal/entities"
	"asset-control/internal/repositories"
	"asset-control/pkg/service"
	"asset-control/pkg/types"
)

// Транзакция в юнит-тестах не нужна: fn получает nil-tx, репозитории
// замоканы и к базе не обращаются.
type fakeTxManager struct{}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type mockAssetRepo struct{ mock.Mock }

func (m *mockAssetRepo) GetAssets(ctx context.Context, filter types.Filter) ([]entities.AssetFullInfo, uint64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]entities.AssetFullInfo), args.Get(1).(uint64), args.Error(2)
}

func (m *mockAssetRepo) FindAsset(ctx context.Context, id uint64) (*entities.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Asset), args.Error(1)
}

func (m *mockAssetRepo) ExistsByCode(ctx context.Context, code string, excludeID uint64) (bool, error) {
	args := m.Called(ctx, code, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockAssetRepo) CreateAsset(ctx context.Context, asset entities.Asset) (*entities.Asset, error) {
	args := m.Called(ctx, asset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Asset), args.Error(1)
}

func (m *mockAssetRepo) UpdateAsset(ctx context.Context, asset entities.Asset) (*entities.Asset, error) {
	args := m.Called(ctx, asset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Asset), args.Error(1)
}

func (m *mockAssetRepo) UpdateAssetInTx(ctx context.Context, tx pgx.Tx, asset entities.Asset) (*entities.Asset, error) {
	args := m.Called(ctx, tx, asset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Asset), args.Error(1)
}

func (m *mockAssetRepo) DisposeAssetsInTx(ctx context.Context, tx pgx.Tx, ids []uint64, disposedStatusID, actorID uint64, now time.Time) (int64, error) {
	args := m.Called(ctx, tx, ids, disposedStatusID, actorID, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAssetRepo) DeleteAssetInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *mockAssetRepo) CountByCategory(ctx context.Context, categoryID uint64) (uint64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *mockAssetRepo) CountByResponsible(ctx context.Context, employeeID uint64) (uint64, error) {
	args := m.Called(ctx, employeeID)
	return args.Get(0).(uint64), args.Error(1)
}

type mockMovementRepo struct{ mock.Mock }

func (m *mockMovementRepo) GetByAsset(ctx context.Context, assetID uint64) ([]entities.AssetMovement, error) {
	args := m.Called(ctx, assetID)
	return args.Get(0).([]entities.AssetMovement), args.Error(1)
}

func (m *mockMovementRepo) HasMovements(ctx context.Context, assetID uint64) (bool, error) {
	args := m.Called(ctx, assetID)
	return args.Bool(0), args.Error(1)
}

func (m *mockMovementRepo) Create(ctx context.Context, movement entities.AssetMovement) (*entities.AssetMovement, error) {
	args := m.Called(ctx, movement)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.AssetMovement), args.Error(1)
}

func (m *mockMovementRepo) CreateInTx(ctx context.Context, tx pgx.Tx, movement entities.AssetMovement) (*entities.AssetMovement, error) {
	args := m.Called(ctx, tx, movement)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.AssetMovement), args.Error(1)
}

type mockReferenceRepo struct{ mock.Mock }

func (m *mockReferenceRepo) List(ctx context.Context, table string) ([]repositories.ReferenceItem, error) {
	args := m.Called(ctx, table)
	return args.Get(0).([]repositories.ReferenceItem), args.Error(1)
}

func (m *mockReferenceRepo) Find(ctx context.Context, table string, id uint64) (*repositories.ReferenceItem, error) {
	args := m.Called(ctx, table, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.ReferenceItem), args.Error(1)
}

func (m *mockReferenceRepo) FindByName(ctx context.Context, table string, name string) (*repositories.ReferenceItem, error) {
	args := m.Called(ctx, table, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.ReferenceItem), args.Error(1)
}

func (m *mockReferenceRepo) Create(ctx context.Context, table string, name string) (*repositories.ReferenceItem, error) {
	args := m.Called(ctx, table, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.ReferenceItem), args.Error(1)
}

func (m *mockReferenceRepo) Update(ctx context.Context, table string, id uint64, name string) (*repositories.ReferenceItem, error) {
	args := m.Called(ctx, table, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.ReferenceItem), args.Error(1)
}

func (m *mockReferenceRepo) Delete(ctx context.Context, table string, id uint64) error {
	args := m.Called(ctx, table, id)
	return args.Error(0)
}

func (m *mockReferenceRepo) ListStatuses(ctx context.Context) ([]entities.AssetStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entities.AssetStatus), args.Error(1)
}

// Кэш в юнит-тестах всегда пустой и молча проглатывает записи.
type fakeCacheRepo struct{}

func (c *fakeCacheRepo) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}

func (c *fakeCacheRepo) Get(ctx context.Context, key string) (string, error) {
	return "", context.Canceled
}

func (c *fakeCacheRepo) Del(ctx context.Context, key ...string) error { return nil }

func (c *fakeCacheRepo) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return true, nil
}

type mockEmployeeRepo struct{ mock.Mock }

func (m *mockEmployeeRepo) GetEmployees(ctx context.Context, filter types.Filter) ([]entities.EmployeeListItem, uint64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]entities.EmployeeListItem), args.Get(1).(uint64), args.Error(2)
}

func (m *mockEmployeeRepo) FindEmployee(ctx context.Context, id uint64) (*entities.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Employee), args.Error(1)
}

func (m *mockEmployeeRepo) EmailExists(ctx context.Context, email string, excludeID uint64) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockEmployeeRepo) CreateEmployeeInTx(ctx context.Context, tx pgx.Tx, employee entities.Employee) (*entities.Employee, error) {
	args := m.Called(ctx, tx, employee)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Employee), args.Error(1)
}

func (m *mockEmployeeRepo) UpdateEmployeeInTx(ctx context.Context, tx pgx.Tx, employee entities.Employee) (*entities.Employee, error) {
	args := m.Called(ctx, tx, employee)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Employee), args.Error(1)
}

func (m *mockEmployeeRepo) DeleteEmployeeInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *mockEmployeeRepo) SetPhotoPath(ctx context.Context, id uint64, photoPath string) error {
	args := m.Called(ctx, id, photoPath)
	return args.Error(0)
}

func (m *mockEmployeeRepo) UpdateContactInfo(ctx context.Context, id uint64, email, phone null.String) error {
	args := m.Called(ctx, id, email, phone)
	return args.Error(0)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepo) FindUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepo) FindUserByEmployeeID(ctx context.Context, employeeID uint64) (*entities.User, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepo) GetUserInfo(ctx context.Context, id uint64) (*entities.UserInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserInfo), args.Error(1)
}

func (m *mockUserRepo) UsernameExists(ctx context.Context, username string, excludeID uint64) (bool, error) {
	args := m.Called(ctx, username, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) CreateUserInTx(ctx context.Context, tx pgx.Tx, user entities.User) (*entities.User, error) {
	args := m.Called(ctx, tx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepo) UpdateUserInTx(ctx context.Context, tx pgx.Tx, user entities.User) (*entities.User, error) {
	args := m.Called(ctx, tx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepo) SetActive(ctx context.Context, id uint64, isActive bool) error {
	args := m.Called(ctx, id, isActive)
	return args.Error(0)
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *mockUserRepo) SetActiveByEmployeeInTx(ctx context.Context, tx pgx.Tx, employeeID uint64, isActive bool) error {
	args := m.Called(ctx, tx, employeeID, isActive)
	return args.Error(0)
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id uint64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *mockUserRepo) DeleteByEmployeeIDInTx(ctx context.Context, tx pgx.Tx, employeeID uint64) error {
	args := m.Called(ctx, tx, employeeID)
	return args.Error(0)
}

type mockJWTService struct{ mock.Mock }

func (m *mockJWTService) GenerateTokens(userID, roleID uint64) (string, string, error) {
	args := m.Called(userID, roleID)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockJWTService) ValidateToken(tokenString string) (*service.JwtCustomClaim, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.JwtCustomClaim), args.Error(1)
}

func (m *mockJWTService) GetAccessTokenTTL() time.Duration  { return time.Hour }
func (m *mockJWTService) GetRefreshTokenTTL() time.Duration { return time.Hour }

type fakeFileStorage struct{ savedPath string }

func (f *fakeFileStorage) Save(file io.Reader, originalFileName string, prefix string) (string, error) {
	f.savedPath = "uploads/" + prefix + "/" + originalFileName
	return f.savedPath, nil
}

func (f *fakeFileStorage) Delete(filePath string) error { return nil }
