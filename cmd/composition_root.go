package cmd

import (
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/cyclecount"

	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) ledgerUoWFactory() commands.LedgerUoWFactory {
	return FuncLedgerUoWFactory(func() commands.LedgerUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) exceptionUoWFactory() commands.ExceptionUoWFactory {
	return FuncExceptionUoWFactory(func() commands.ExceptionUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) resolutionUoWFactory() commands.ResolutionUoWFactory {
	return FuncResolutionUoWFactory(func() commands.ResolutionUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) countUoWFactory() commands.CountUoWFactory {
	return FuncCountUoWFactory(func() commands.CountUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.ledgerUoWFactory())
}

func (c *CompositionRoot) CreateClaimOrderCommandHandler() commands.ClaimOrderCommandHandler {
	return commands.NewClaimOrderCommandHandler(c.orderUoWFactory(), c.config.MaxActiveOrders)
}

func (c *CompositionRoot) CreateUnclaimOrderCommandHandler() commands.UnclaimOrderCommandHandler {
	return commands.NewUnclaimOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateRecordPickCommandHandler() commands.RecordPickCommandHandler {
	return commands.NewRecordPickCommandHandler(c.ledgerUoWFactory())
}

func (c *CompositionRoot) CreateUndoPickCommandHandler() commands.UndoPickCommandHandler {
	return commands.NewUndoPickCommandHandler(c.ledgerUoWFactory())
}

func (c *CompositionRoot) CreateSkipTaskCommandHandler() commands.SkipTaskCommandHandler {
	return commands.NewSkipTaskCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateRevertSkipCommandHandler() commands.RevertSkipCommandHandler {
	return commands.NewRevertSkipCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateCompletePickingCommandHandler() commands.CompletePickingCommandHandler {
	return commands.NewCompletePickingCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateClaimForPackingCommandHandler() commands.ClaimForPackingCommandHandler {
	return commands.NewClaimForPackingCommandHandler(c.orderUoWFactory(), c.config.MaxActiveOrders)
}

func (c *CompositionRoot) CreateUnclaimPackingCommandHandler() commands.UnclaimPackingCommandHandler {
	return commands.NewUnclaimPackingCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateCompletePackingCommandHandler() commands.CompletePackingCommandHandler {
	return commands.NewCompletePackingCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateShipOrderCommandHandler() commands.ShipOrderCommandHandler {
	return commands.NewShipOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.ledgerUoWFactory())
}

func (c *CompositionRoot) CreateLogExceptionCommandHandler() commands.LogExceptionCommandHandler {
	return commands.NewLogExceptionCommandHandler(c.exceptionUoWFactory())
}

func (c *CompositionRoot) CreateResolveExceptionCommandHandler() commands.ResolveExceptionCommandHandler {
	return commands.NewResolveExceptionCommandHandler(c.resolutionUoWFactory())
}

func (c *CompositionRoot) CreateCreateCountEntryCommandHandler() commands.CreateCountEntryCommandHandler {
	tolerance, err := cyclecount.NewDefaultTolerance(c.config.ToleranceAutoAdjustPct, c.config.ToleranceApprovalPct)
	if err != nil {
		log.Fatalf("Invalid default tolerance configuration: %v", err)
	}
	return commands.NewCreateCountEntryCommandHandler(c.countUoWFactory(), tolerance)
}

func (c *CompositionRoot) CreateUpdateVarianceStatusCommandHandler() commands.UpdateVarianceStatusCommandHandler {
	return commands.NewUpdateVarianceStatusCommandHandler(c.countUoWFactory())
}

func (c *CompositionRoot) CreateReconcilePlanCommandHandler() commands.ReconcilePlanCommandHandler {
	return commands.NewReconcilePlanCommandHandler(c.countUoWFactory())
}

func (c *CompositionRoot) CreateReleaseBackordersCommandHandler() commands.ReleaseBackordersCommandHandler {
	return commands.NewReleaseBackordersCommandHandler(c.ledgerUoWFactory())
}

func (c *CompositionRoot) CreateAdjustApprovedEntriesCommandHandler() commands.AdjustApprovedEntriesCommandHandler {
	return commands.NewAdjustApprovedEntriesCommandHandler(c.countUoWFactory())
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOpenExceptionsQueryHandler() queries.GetOpenExceptionsQueryHandler {
	return queries.NewGetOpenExceptionsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetExceptionQueryHandler() queries.GetExceptionQueryHandler {
	return queries.NewGetExceptionQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCountEntryQueryHandler() queries.GetCountEntryQueryHandler {
	return queries.NewGetCountEntryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPlanEntriesQueryHandler() queries.GetPlanEntriesQueryHandler {
	return queries.NewGetPlanEntriesQueryHandler(c.gormDB)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncLedgerUoWFactory func() commands.LedgerUoW

func (f FuncLedgerUoWFactory) Create() commands.LedgerUoW {
	return f()
}

type FuncExceptionUoWFactory func() commands.ExceptionUoW

func (f FuncExceptionUoWFactory) Create() commands.ExceptionUoW {
	return f()
}

type FuncResolutionUoWFactory func() commands.ResolutionUoW

func (f FuncResolutionUoWFactory) Create() commands.ResolutionUoW {
	return f()
}

type FuncCountUoWFactory func() commands.CountUoW

func (f FuncCountUoWFactory) Create() commands.CountUoW {
	return f()
}
