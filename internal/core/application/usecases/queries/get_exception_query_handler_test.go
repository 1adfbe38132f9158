package queries_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/exceptionrepo"
	"fulfillment/internal/core/application/usecases/queries"
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

type GetExceptionQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetExceptionQueryHandler
	repo      *exceptionrepo.GormExceptionRepository
}

func (suite *GetExceptionQueryHandlerTestSuite) SetupSuite() {
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

	suite.handler = queries.NewGetExceptionQueryHandler(db)
	suite.repo = exceptionrepo.NewGormExceptionRepository(db)
}

func (suite *GetExceptionQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetExceptionQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE exceptions CASCADE").Error
	suite.Require().NoError(err)
}

func (suite *GetExceptionQueryHandlerTestSuite) TestHandle_OpenException() {
	ctx := context.Background()
	reporter := kernel.NewUUID()

	ex, err := exception.NewException(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), "SKU-A",
		exception.ShortPick, 10, 7, "only 7 units in bin", reporter,
	)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.Add(ctx, ex))

	query, err := queries.NewGetExceptionQuery(ex.ID())
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.True(ex.ID().IsEqual(result.ID))
	suite.True(ex.OrderID().IsEqual(result.OrderID))
	suite.Equal("SKU-A", result.SKU)
	suite.Equal("ShortPick", result.Type)
	suite.Equal(10, result.QuantityExpected)
	suite.Equal(7, result.QuantityActual)
	suite.True(reporter.IsEqual(result.ReportedBy))
	suite.Equal("Open", result.Status)
	suite.Nil(result.Resolution)
	suite.Nil(result.ResolvedBy)
	suite.Nil(result.ResolvedAt)
}

func (suite *GetExceptionQueryHandlerTestSuite) TestHandle_ResolvedException() {
	ctx := context.Background()
	resolver := kernel.NewUUID()

	ex, err := exception.NewException(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), "SKU-B",
		exception.Damage, 5, 3, "two units crushed", kernel.NewUUID(),
	)
	suite.Require().NoError(err)
	suite.Require().NoError(ex.Resolve(exception.CancelItem, "write off", resolver, time.Now().UTC()))
	suite.Require().NoError(suite.repo.Add(ctx, ex))

	query, err := queries.NewGetExceptionQuery(ex.ID())
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Equal("Resolved", result.Status)
	suite.Require().NotNil(result.Resolution)
	suite.Equal("CancelItem", *result.Resolution)
	suite.Equal("write off", result.ResolutionNotes)
	suite.Require().NotNil(result.ResolvedBy)
	suite.True(resolver.IsEqual(*result.ResolvedBy))
	suite.NotNil(result.ResolvedAt)
}

func (suite *GetExceptionQueryHandlerTestSuite) TestHandle_UnknownException_ReturnsNotFound() {
	query, err := queries.NewGetExceptionQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = suite.handler.Handle(context.Background(), query)
	suite.Require().Error(err)
	var notFound *errs.ObjectNotFoundError
	suite.ErrorAs(err, &notFound)
}

func (suite *GetExceptionQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	_, err := suite.handler.Handle(context.Background(), queries.GetExceptionQuery{})
	suite.Require().Error(err)
	suite.ErrorIs(err, queries.ErrGetExceptionQueryIsNotConstructed)
}

func TestGetExceptionQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetExceptionQueryHandlerTestSuite))
}
