package inventoryrepo_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/inventoryrepo"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GormInventoryRepositoryTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	repo      *inventoryrepo.GormInventoryRepository
}

func (suite *GormInventoryRepositoryTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&inventoryrepo.UnitDTO{}, &inventoryrepo.TransactionDTO{})
	suite.Require().NoError(err)

	suite.repo = inventoryrepo.NewGormInventoryRepository(db)
}

func (suite *GormInventoryRepositoryTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GormInventoryRepositoryTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE inventory_units, inventory_transactions CASCADE").Error
	suite.Require().NoError(err)
}

func (suite *GormInventoryRepositoryTestSuite) TestAddAndGet_RoundTripsUnit() {
	ctx := context.Background()
	unit, err := inventory.NewUnit("SKU-A", "A-01", 40)
	suite.Require().NoError(err)
	suite.Require().NoError(unit.Reserve(15))

	suite.Require().NoError(suite.repo.Add(ctx, unit))

	loaded, err := suite.repo.Get(ctx, "SKU-A", "A-01")
	suite.Require().NoError(err)
	suite.Equal(40, loaded.Quantity())
	suite.Equal(15, loaded.Reserved())
	suite.Equal(25, loaded.Available())
}

func (suite *GormInventoryRepositoryTestSuite) TestAdd_DuplicatePairConflicts() {
	ctx := context.Background()
	unit, err := inventory.NewUnit("SKU-A", "A-01", 40)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.Add(ctx, unit))

	duplicate, err := inventory.NewUnit("SKU-A", "A-01", 5)
	suite.Require().NoError(err)

	err = suite.repo.Add(ctx, duplicate)
	suite.Require().Error(err)
	var conflict *errs.ConflictError
	suite.Require().ErrorAs(err, &conflict)
	suite.Equal(inventoryrepo.CodeUnitAlreadyExists, conflict.Code)
}

func (suite *GormInventoryRepositoryTestSuite) TestUpdate_WritesZeroValues() {
	ctx := context.Background()
	unit, err := inventory.NewUnit("SKU-A", "A-01", 10)
	suite.Require().NoError(err)
	suite.Require().NoError(unit.Reserve(10))
	suite.Require().NoError(suite.repo.Add(ctx, unit))

	suite.Require().NoError(unit.Release(10))
	suite.Require().NoError(unit.AdjustDown(10))
	suite.Require().NoError(suite.repo.Update(ctx, unit))

	loaded, err := suite.repo.Get(ctx, "SKU-A", "A-01")
	suite.Require().NoError(err)
	suite.Equal(0, loaded.Quantity())
	suite.Equal(0, loaded.Reserved())
}

func (suite *GormInventoryRepositoryTestSuite) TestUpdate_MissingRowReturnsNotFound() {
	unit, err := inventory.NewUnit("SKU-MISSING", "Z-99", 1)
	suite.Require().NoError(err)

	err = suite.repo.Update(context.Background(), unit)
	suite.Require().ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *GormInventoryRepositoryTestSuite) TestGet_NotFound() {
	_, err := suite.repo.Get(context.Background(), "SKU-NONE", "A-01")

	suite.Require().Error(err)
	var notFound *errs.ObjectNotFoundError
	suite.ErrorAs(err, &notFound)
}

func (suite *GormInventoryRepositoryTestSuite) TestGetForUpdate_SerializesConcurrentAdjustments() {
	ctx := context.Background()
	unit, err := inventory.NewUnit("SKU-A", "A-01", 100)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.Add(ctx, unit))

	// Two sequential locked decrements; the lock keeps each read-modify-
	// write atomic so the result is exact.
	for range 2 {
		tx := suite.db.WithContext(ctx).Begin()
		suite.Require().NoError(tx.Error)

		txRepo := inventoryrepo.NewGormInventoryRepository(tx)
		locked, lockErr := txRepo.GetForUpdate(ctx, "SKU-A", "A-01")
		suite.Require().NoError(lockErr)
		suite.Require().NoError(locked.AdjustDown(30))
		suite.Require().NoError(txRepo.Update(ctx, locked))
		suite.Require().NoError(tx.Commit().Error)
	}

	loaded, err := suite.repo.Get(ctx, "SKU-A", "A-01")
	suite.Require().NoError(err)
	suite.Equal(40, loaded.Quantity())
}

func (suite *GormInventoryRepositoryTestSuite) TestAddTransaction_AppendsRecord() {
	ctx := context.Background()
	actorID := kernel.NewUUID()
	txn, err := inventory.NewTransaction(
		kernel.NewUUID(), inventory.TransactionPick, "SKU-A", -4, "A-01",
		actorID, "", time.Now().UTC(),
	)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repo.AddTransaction(ctx, txn))

	var count int64
	err = suite.db.Table("inventory_transactions").Where("sku = ?", "SKU-A").Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(1), count)
}

func TestGormInventoryRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(GormInventoryRepositoryTestSuite))
}
