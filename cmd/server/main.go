package main

import (
	"github.com/sirupsen/logrus"

	"placelog/internal/api"
	"placelog/internal/config"
	"placelog/internal/database"
	"placelog/internal/geocoding"
	"placelog/internal/handler"
	"placelog/internal/logger"
	"placelog/internal/places"
	"placelog/internal/service"
	"placelog/internal/store"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg.LogPath)

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		logrus.Fatal("failed to initialize database: ", err)
	}
	defer database.Close()

	db := database.GetDB()
	dailyStore := store.NewDailyStore(store.NewSQLiteKV(db))
	geocoder := geocoding.NewService(db, cfg.NominatimURL, cfg.UserAgent)

	detection, err := service.NewDetectionService(dailyStore, geocoder)
	if err != nil {
		logrus.Fatal("failed to initialize detection pipeline: ", err)
	}

	router := api.SetupRouter(api.Deps{
		Cfg:      cfg,
		Fixes:    handler.NewFixHandler(detection),
		Timeline: handler.NewTimelineHandler(service.NewTimelineService(dailyStore)),
		Places:   handler.NewPlaceHandler(places.NewService(cfg.NominatimURL, cfg.UserAgent)),
		Admin:    handler.NewAdminHandler(detection),
	})

	logrus.Infof("server starting on %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		logrus.Fatal("failed to start server: ", err)
	}
}
