package controllers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jinzhu/gorm"
	"github.com/labstack/gommon/log"
	"github.com/radhian/booking-reconciliation/config"
	"github.com/radhian/booking-reconciliation/entity"
	"github.com/radhian/booking-reconciliation/handler"
	"github.com/radhian/booking-reconciliation/infra/db"
	"github.com/radhian/booking-reconciliation/infra/db/dao"
	"github.com/radhian/booking-reconciliation/infra/ingest"
	"github.com/radhian/booking-reconciliation/infra/locker"
	"github.com/radhian/booking-reconciliation/middlewares"
	"github.com/radhian/booking-reconciliation/usecase/matching"
	reconciliationUsecase "github.com/radhian/booking-reconciliation/usecase/reconciliation"
	"github.com/radhian/booking-reconciliation/usecase/report"
	"github.com/radhian/booking-reconciliation/utils"
)

type App struct {
	Config  config.Config
	DB      *gorm.DB
	Router  *mux.Router
	Handler *handler.ReconciliationHandler
}

// Initialize connects the booking store, migrates the run log tables and wires the pipeline.
// Console receives run summaries and may be nil.
func (a *App) Initialize(cfg config.Config, console io.Writer) error {
	var err error
	a.Config = cfg

	a.DB, err = db.Open(cfg.DB)
	if err != nil {
		return err
	}
	log.Infof("[App] Connected to %s database", cfg.DB.Driver)

	// a local snapshot carries its own booking tables
	if err := db.Migrate(a.DB, cfg.DB.Driver == db.DriverSQLite); err != nil {
		a.DB.Close()
		return err
	}

	uc, err := NewUsecase(cfg, a.DB, console, locker.New())
	if err != nil {
		a.DB.Close()
		return err
	}
	a.Handler = handler.NewReconciliationHandler(uc, cfg.OutputDir)

	a.Router = mux.NewRouter().StrictSlash(true)
	a.initializeRoutes()
	return nil
}

// NewUsecase builds the reconciliation pipeline from configuration.
func NewUsecase(cfg config.Config, conn *gorm.DB, console io.Writer, lock *locker.Locker) (reconciliationUsecase.ReconciliationUsecase, error) {
	similarity, err := utils.SimilarityByName(cfg.Similarity)
	if err != nil {
		return nil, err
	}

	engineCfg := matching.DefaultEngineConfig()
	engineCfg.Similarity = similarity
	engineCfg.NormalizePhone = utils.PhoneNormalizer(cfg.PhoneRegion)

	reportCfg := report.DefaultConfig()
	reportCfg.Similarity = similarity
	reportCfg.RebookingWindowDays = cfg.RebookingWindowDays
	reportCfg.PriceNotExtractedChannel = entity.Channel(cfg.PriceNotExtractedSrc)

	return reconciliationUsecase.NewReconciliationUsecase(reconciliationUsecase.Dependencies{
		Dao:     dao.NewDaoMethod(conn),
		Engine:  matching.NewEngine(engineCfg),
		Builder: report.NewBuilder(reportCfg),
		Locker:  lock,
		IngestOptions: ingest.Options{
			Sheet:           cfg.Sheet,
			Format:          cfg.InputFormat,
			DefaultCurrency: cfg.DefaultCurrency,
		},
		Console: console,
	}), nil
}

func (a *App) initializeRoutes() {
	a.Router.Use(middlewares.RequestLogMiddleware)
	a.Router.Use(middlewares.SetContentTypeMiddleware)
	RegisterReconciliationRoutes(a.Router, a.Handler)
}

func (a *App) RunServer() error {
	addr := fmt.Sprintf(":%s", a.Config.Port)
	log.Infof("[App] Server starting on port %v", a.Config.Port)
	return http.ListenAndServe(addr, a.Router)
}

func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}
