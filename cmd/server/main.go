package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/robfig/cron/v3"

	"github.com/opetryk/wheeltrack/internal/analysis"
	"github.com/opetryk/wheeltrack/internal/api"
	"github.com/opetryk/wheeltrack/internal/config"
	"github.com/opetryk/wheeltrack/internal/database"
	"github.com/opetryk/wheeltrack/internal/models"
	"github.com/opetryk/wheeltrack/internal/storage"
	"github.com/opetryk/wheeltrack/internal/timeline"
	"github.com/opetryk/wheeltrack/internal/video"
)

func main() {
	cfg := config.Load()

	dbConfig := database.Config{
		Type:       cfg.DBType,
		Host:       cfg.DBHost,
		Port:       cfg.DBPort,
		User:       cfg.DBUser,
		Password:   cfg.DBPassword,
		Name:       cfg.DBName,
		SQLitePath: cfg.SQLitePath,
	}

	localStorage, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		log.Fatal("Failed to initialize storage:", err)
	}

	db, err := database.NewDB(dbConfig)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "./migrations"
	}
	log.Printf("Running database migrations from %s", migrationsPath)
	if err := db.RunMigrations(migrationsPath); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	recordingRepo := database.NewRecordingRepository(db)
	timelineRepo := database.NewTimelineRepo(db)

	prober, err := video.NewProbe()
	if err != nil {
		log.Fatal("Failed to initialize ffprobe:", err)
	}

	sampler, err := video.NewSampler(cfg.FPSSample, video.ROI{
		X: cfg.ROI[0], Y: cfg.ROI[1], W: cfg.ROI[2], H: cfg.ROI[3],
	})
	if err != nil {
		log.Fatal("Failed to initialize sampler:", err)
	}

	detector, err := timeline.NewThresholdDetector(cfg.MotionThresh, cfg.MinBlob)
	if err != nil {
		log.Fatal("Invalid detection thresholds:", err)
	}

	rollup := api.NewRollup(recordingRepo, timelineRepo)

	analysisService := analysis.NewService(
		sampler,
		prober,
		recordingRepo,
		timelineRepo,
		localStorage,
		analysis.Config{
			Detector:     detector,
			MinStreakSec: cfg.MinStreakSec,
			OnAnalyzed: func(rec *models.Recording) {
				rollup.Invalidate(rec.Condition)
			},
		},
	)

	app := &api.App{
		Storage:       localStorage,
		RecordingRepo: recordingRepo,
		TimelineRepo:  timelineRepo,
		MaxUploadSize: cfg.MaxUploadSize,
	}

	router := api.NewRouter(app,
		api.NewAnalysisHandlers(analysisService),
		api.NewStatsHandlers(rollup, int64(cfg.CurveStepSec)))

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.RollupSchedule, func() {
		log.Printf("[ROLLUP] Nightly rollup starting")
		rollup.RecomputeAll(context.Background())
	}); err != nil {
		log.Fatal("Invalid rollup schedule:", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Printf("Server starting on port %d", cfg.Port)
	log.Printf("Upload directory: %s", cfg.UploadDir)
	log.Printf("Database type: %s", cfg.DBType)
	if cfg.DBType == "postgres" {
		log.Printf("Database connection: %s@%s:%d/%s", cfg.DBUser, cfg.DBHost, cfg.DBPort, cfg.DBName)
	} else {
		log.Printf("Database path: %s", cfg.SQLitePath)
	}
	log.Printf("Sampling: %.2f fps, motion >= %.0f, blob >= %d px, streak >= %.0fs",
		cfg.FPSSample, cfg.MotionThresh, cfg.MinBlob, cfg.MinStreakSec)

	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.Port), router); err != nil {
		log.Fatal(err)
	}
}
