package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"fulfillment/cmd"
	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres/cyclecountrepo"
	"fulfillment/internal/adapters/out/postgres/exceptionrepo"
	"fulfillment/internal/adapters/out/postgres/inventoryrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	gormDB := openDatabase(configs)
	migrateDatabase(gormDB)

	app := cmd.NewCompositionRoot(configs, gormDB)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	jobManager := jobs.NewJobManager(
		app.CreateReleaseBackordersCommandHandler(),
		app.CreateAdjustApprovedEntriesCommandHandler(),
		logger,
	)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:               goDotEnvVariable("HTTP_PORT"),
		DBHost:                 goDotEnvVariable("DB_HOST"),
		DBPort:                 goDotEnvVariable("DB_PORT"),
		DBUser:                 goDotEnvVariable("DB_USER"),
		DBPassword:             goDotEnvVariable("DB_PASSWORD"),
		DBName:                 goDotEnvVariable("DB_NAME"),
		DBSslMode:              goDotEnvVariable("DB_SSLMODE"),
		MaxActiveOrders:        goDotEnvInt("MAX_ACTIVE_ORDERS"),
		ToleranceAutoAdjustPct: goDotEnvFloat("TOLERANCE_AUTO_ADJUST_PCT"),
		ToleranceApprovalPct:   goDotEnvFloat("TOLERANCE_APPROVAL_PCT"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func goDotEnvInt(key string) int {
	value, err := strconv.Atoi(goDotEnvVariable(key))
	if err != nil {
		log.Fatalf("Invalid integer for %s: %v", key, err)
	}
	return value
}

func goDotEnvFloat(key string) float64 {
	value, err := strconv.ParseFloat(goDotEnvVariable(key), 64)
	if err != nil {
		log.Fatalf("Invalid float for %s: %v", key, err)
	}
	return value
}

func openDatabase(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return gormDB
}

func migrateDatabase(gormDB *gorm.DB) {
	err := gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&orderrepo.PickTaskDTO{},
		&inventoryrepo.UnitDTO{},
		&inventoryrepo.TransactionDTO{},
		&exceptionrepo.ExceptionDTO{},
		&cyclecountrepo.EntryDTO{},
		&cyclecountrepo.ToleranceDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	server := httpin.NewServer(httpin.Handlers{
		CreateOrder:          app.CreateCreateOrderCommandHandler(),
		ClaimOrder:           app.CreateClaimOrderCommandHandler(),
		UnclaimOrder:         app.CreateUnclaimOrderCommandHandler(),
		RecordPick:           app.CreateRecordPickCommandHandler(),
		UndoPick:             app.CreateUndoPickCommandHandler(),
		SkipTask:             app.CreateSkipTaskCommandHandler(),
		RevertSkip:           app.CreateRevertSkipCommandHandler(),
		CompletePicking:      app.CreateCompletePickingCommandHandler(),
		ClaimForPacking:      app.CreateClaimForPackingCommandHandler(),
		UnclaimPacking:       app.CreateUnclaimPackingCommandHandler(),
		CompletePacking:      app.CreateCompletePackingCommandHandler(),
		ShipOrder:            app.CreateShipOrderCommandHandler(),
		CancelOrder:          app.CreateCancelOrderCommandHandler(),
		LogException:         app.CreateLogExceptionCommandHandler(),
		ResolveException:     app.CreateResolveExceptionCommandHandler(),
		CreateCountEntry:     app.CreateCreateCountEntryCommandHandler(),
		UpdateVarianceStatus: app.CreateUpdateVarianceStatusCommandHandler(),
		ReconcilePlan:        app.CreateReconcilePlanCommandHandler(),
		GetOrder:             app.CreateGetOrderQueryHandler(),
		GetActiveOrders:      app.CreateGetActiveOrdersQueryHandler(),
		GetOpenExceptions:    app.CreateGetOpenExceptionsQueryHandler(),
		GetException:         app.CreateGetExceptionQueryHandler(),
		GetCountEntry:        app.CreateGetCountEntryQueryHandler(),
		GetPlanEntries:       app.CreateGetPlanEntriesQueryHandler(),
	})
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
