package main

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/izawa-yuka/uruoi/pkg/common"
	"github.com/izawa-yuka/uruoi/pkg/db"
	"github.com/izawa-yuka/uruoi/pkg/device"
	"github.com/izawa-yuka/uruoi/pkg/household"
	uruoiHttp "github.com/izawa-yuka/uruoi/pkg/http"
	"github.com/izawa-yuka/uruoi/pkg/remote"
)

func main() {
	var err error

	err = godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file, copy .env.example to .env first if in development")
	}

	var dialector = db.UseSqliteDialector()
	switch dbType := os.Getenv(common.EnvKeyUruoiDBType); dbType {
	case "file":
		// default
	case "memory":
		dialector = db.UseMemorySqliteDialector()
	default:
		log.Fatal("Unknown URUOI_DB_TYPE: " + dbType)
	}

	dbInstance, err := db.New(dialector)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	httpHostPort := strings.TrimSpace(os.Getenv(common.EnvKeyUruoiHttpHostPort))

	var defaultRate float64
	var defaultBurst int64

	if defaultRate, err = strconv.ParseFloat(os.Getenv(common.EnvKeyUruoiDefaultRate), 64); err != nil {
		log.Fatal("Invalid URUOI_DEFAULT_RATE, or not set in .env, should be a float64 value")
	}

	if defaultBurst, err = strconv.ParseInt(os.Getenv(common.EnvKeyUruoiDefaultBurst), 10, 64); err != nil {
		log.Fatal("Invalid URUOI_DEFAULT_BURST, or not set in .env, should be an int value")
	}

	logger := common.GetLogger()

	// TODO: plug in a cloud-backed remote.Store implementation once the
	// household backend is provisioned; the in-process store only syncs
	// devices talking to this one server.
	core := household.Household{
		Db:     *dbInstance,
		Remote: remote.NewMemoryStore(),
		Device: device.NewFileProvider(""),
	}
	core.WithServices(household.ServiceOpts{
		Container: core.GetIContainer(),
		Record:    core.GetIRecord(),
		Sync:      core.GetISync(),
		Migration: core.GetIMigration(),
		Settings:  core.GetISettings(),
	})

	// resume live sync when a household was configured in a previous run
	if householdID, err := core.Settings.HouseholdID(); err != nil {
		logger.Error("Failed to read persisted household id", zap.Error(err))
	} else if householdID != "" {
		if err := core.Sync.StartSync(householdID); err != nil {
			logger.Error("Failed to resume sync", zap.String("household_id", householdID), zap.Error(err))
		} else {
			logger.Info("Resumed sync", zap.String("household_id", householdID))
		}
	}

	if httpHostPort == "" {
		// fallback to default http port
		httpHostPort = ":1080"
	}

	rs := &uruoiHttp.RestfulServer{
		Server:             gin.Default(),
		Household:          &core,
		DeviceLimiterStore: uruoiHttp.NewDeviceLimiterStore(rate.Limit(defaultRate), int(defaultBurst)),
	}
	rs.Setup()

	logger.Info("http server created with:",
		zap.Float64("default_rate", defaultRate),
		zap.Int64("default_burst", defaultBurst))

	logger.Info("Starting HTTP server on: " + httpHostPort)
	if err := rs.Server.Run(httpHostPort); err != nil {
		log.Fatalf("http server failed to serve: %v", err)
	}
}
