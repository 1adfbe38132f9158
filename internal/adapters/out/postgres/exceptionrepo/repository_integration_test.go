package exceptionrepo_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/exceptionrepo"
	"fulfillment/internal/core/domain/model/exception"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GormExceptionRepositoryTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	repo      *exceptionrepo.GormExceptionRepository
}

func (suite *GormExceptionRepositoryTestSuite) SetupSuite() {
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

	err = db.AutoMigrate(&exceptionrepo.ExceptionDTO{})
	suite.Require().NoError(err)

	suite.repo = exceptionrepo.NewGormExceptionRepository(db)
}

func (suite *GormExceptionRepositoryTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GormExceptionRepositoryTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE exceptions CASCADE").Error
	suite.Require().NoError(err)
}

func (suite *GormExceptionRepositoryTestSuite) newException(exType exception.Type) *exception.Exception {
	ex, err := exception.NewException(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), "SKU-A",
		exType, 10, 7, "only 7 units in bin", kernel.NewUUID(),
	)
	suite.Require().NoError(err)
	return ex
}

func (suite *GormExceptionRepositoryTestSuite) TestAddAndGet_RoundTripsException() {
	ctx := context.Background()
	ex := suite.newException(exception.ShortPick)

	suite.Require().NoError(suite.repo.Add(ctx, ex))

	loaded, err := suite.repo.Get(ctx, ex.ID())
	suite.Require().NoError(err)

	suite.Equal(exception.Open, loaded.Status())
	suite.Equal(exception.ShortPick, loaded.Type())
	suite.Equal(10, loaded.QuantityExpected())
	suite.Equal(7, loaded.QuantityActual())
	suite.Nil(loaded.Resolution())
	suite.Nil(loaded.ResolvedBy())
}

func (suite *GormExceptionRepositoryTestSuite) TestUpdate_PersistsResolution() {
	ctx := context.Background()
	supervisor := kernel.NewUUID()
	ex := suite.newException(exception.ShortPick)
	suite.Require().NoError(suite.repo.Add(ctx, ex))

	resolvedAt := time.Now().UTC().Truncate(time.Microsecond)
	suite.Require().NoError(ex.Resolve(exception.CancelItem, "out of stock", supervisor, resolvedAt))
	suite.Require().NoError(suite.repo.Update(ctx, ex))

	loaded, err := suite.repo.Get(ctx, ex.ID())
	suite.Require().NoError(err)

	suite.Equal(exception.Resolved, loaded.Status())
	suite.Require().NotNil(loaded.Resolution())
	suite.Equal(exception.CancelItem, *loaded.Resolution())
	suite.Equal("out of stock", loaded.ResolutionNotes())
	suite.Require().NotNil(loaded.ResolvedBy())
	suite.True(supervisor.IsEqual(*loaded.ResolvedBy()))
	suite.Require().NotNil(loaded.ResolvedAt())
	suite.True(resolvedAt.Equal(*loaded.ResolvedAt()))
}

func (suite *GormExceptionRepositoryTestSuite) TestGet_NotFound() {
	_, err := suite.repo.Get(context.Background(), kernel.NewUUID())

	suite.Require().Error(err)
	var notFound *errs.ObjectNotFoundError
	suite.ErrorAs(err, &notFound)
}

func (suite *GormExceptionRepositoryTestSuite) TestGetAllUnresolved_SkipsResolved() {
	ctx := context.Background()

	open := suite.newException(exception.ShortPick)
	suite.Require().NoError(suite.repo.Add(ctx, open))

	// A backorder-driven exception starts in Reviewing and still counts
	// as unresolved.
	reviewing := suite.newException(exception.ShortPickBackorder)
	suite.Require().NoError(suite.repo.Add(ctx, reviewing))

	resolved := suite.newException(exception.Damage)
	suite.Require().NoError(resolved.Resolve(exception.CancelItem, "", kernel.NewUUID(), time.Now().UTC()))
	suite.Require().NoError(suite.repo.Add(ctx, resolved))

	unresolved, err := suite.repo.GetAllUnresolved(ctx)
	suite.Require().NoError(err)
	suite.Len(unresolved, 2)
	for _, ex := range unresolved {
		suite.NotEqual(exception.Resolved, ex.Status())
	}
}

func TestGormExceptionRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(GormExceptionRepositoryTestSuite))
}
