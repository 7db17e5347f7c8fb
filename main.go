package main

import (
	"context"
	"log"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"ndtreports/cmd"
	"ndtreports/collections"
	"ndtreports/config"
	"ndtreports/handlers"
	"ndtreports/refdata"
	"ndtreports/services"
	"ndtreports/store"
)

func main() {
	app := pocketbase.New()

	var configPath string
	app.RootCmd.PersistentFlags().StringVar(&configPath, "ndtconfig", "", "path to the ndt.yaml settings file")
	// Parsed early so the settings are known before the commands run.
	_ = app.RootCmd.ParseFlags(os.Args[1:])

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	settings, err := config.Load(configPath)
	if err != nil {
		logger.Fatal("load settings", zap.String("path", configPath), zap.Error(err))
	}

	src := refdata.NewSource(settings.Refdata.Source, settings.Refdata.Timeout)
	ctx, cancel := context.WithTimeout(context.Background(), settings.Refdata.Timeout)
	dir := refdata.Load(ctx, src, logger)
	cancel()

	repo := store.NewRecordStore(app)
	svc := services.NewConclusionService(repo, dir, settings.Numbering.Prefix)
	env := handlers.NewEnv(svc, dir, settings, src.String())

	app.RootCmd.AddCommand(cmd.Commands(func() (*services.ConclusionService, *config.Settings, error) {
		collections.Setup(app)
		return svc, settings, nil
	})...)

	// Create collections, backfill ordering and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.MigrateConclusionSequence(app); err != nil {
			log.Printf("Warning: sequence migration failed: %v", err)
		}
		if err := collections.Seed(app, repo); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		logger.Info("conclusions ready",
			zap.String("refdata", src.String()),
			zap.Bool("refdata_empty", dir.Empty()),
			zap.String("export_dir", settings.Export.Dir),
		)
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		se.Router.BindFunc(handlers.LayoutMiddleware(env))

		// ── Conclusions ──────────────────────────────────────────
		se.Router.GET("/conclusions", handlers.HandleConclusionList(env))
		se.Router.GET("/conclusions/new", handlers.HandleConclusionNew(env))
		se.Router.POST("/conclusions", handlers.HandleConclusionCreate(env))
		se.Router.GET("/conclusions/defect-row", handlers.HandleDefectRow(env))
		se.Router.GET("/conclusions/{id}/edit", handlers.HandleConclusionEdit(env))
		se.Router.POST("/conclusions/{id}/save", handlers.HandleConclusionUpdate(env))

		// ── Export ───────────────────────────────────────────────
		se.Router.GET("/conclusions/{id}/export/{format}", handlers.HandleConclusionExport(env))
		se.Router.POST("/conclusions/{id}/export", handlers.HandleConclusionExportAll(env))

		// ── Defect import ────────────────────────────────────────
		se.Router.POST("/conclusions/{id}/defects/import", handlers.HandleDefectImport(env))
		se.Router.GET("/defects/import-template", handlers.HandleDefectTemplate(env))
		se.Router.POST("/defects/import/errors", handlers.HandleDefectErrorReport(env))

		// View (after the specific /conclusions/{id}/* routes)
		se.Router.GET("/conclusions/{id}", handlers.HandleConclusionView(env))

		// ── Templates and reference data ─────────────────────────
		se.Router.GET("/templates", handlers.HandleTemplates(env))
		se.Router.POST("/templates", handlers.HandleTemplateSave(env))
		se.Router.GET("/reference", handlers.HandleReference(env))
		se.Router.POST("/reference/{kind}", handlers.HandleReferenceSave(env))

		se.Router.GET("/", handlers.HandleHome())

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
