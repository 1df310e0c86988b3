package api

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"cross-country/runflow/internal/common"
	"cross-country/runflow/internal/config"
	"cross-country/runflow/internal/constants"
	"cross-country/runflow/internal/db/repositories"
	"cross-country/runflow/internal/logging"
	"cross-country/runflow/internal/metrics"
	"cross-country/runflow/internal/providers"
	"cross-country/runflow/internal/services"
)

// memoryQueueCapacity bounds pending mirror requests when Redis is off
const memoryQueueCapacity = 256

type Repositories struct {
	Records *repositories.PresenceRecordRepo
	Stats   *repositories.PresenceStatsRepo
	History *repositories.MirrorSyncHistoryRepo
}

type Services struct {
	Cache      common.CacheInterface
	Queue      common.MirrorQueue
	Sessions   *common.SessionService
	URLSigner  *common.URLSignerService
	Clock      *common.TrainingClock
	Sheets     *providers.SheetsProvider
	Roster     *services.RosterService
	Validator  *services.PresenceValidationService
	Attendance *services.AttendanceService
	CheckIn    *services.CheckInService
	Mirror     *services.MirrorService
}

type Dependencies struct {
	Config   *config.Config
	Repo     *Repositories
	Services *Services
	Metrics  *metrics.MetricsRegistry
	SQLX     *sqlx.DB
	Redis    *redis.Client
}

// InitDependencies wires repositories and services. A nil redisClient selects
// the in-memory cache and queue.
func InitDependencies(
	cfg *config.Config,
	orm *gorm.DB,
	sqlxDB *sqlx.DB,
	redisClient *redis.Client,
	metricsReg *metrics.MetricsRegistry,
	clock common.Clock,
) (*Dependencies, error) {
	if len(cfg.Roster) == 0 {
		return nil, fmt.Errorf("roster is empty")
	}

	repos := &Repositories{
		Records: repositories.NewPresenceRecordRepo(orm),
		Stats:   repositories.NewPresenceStatsRepo(sqlxDB),
		History: repositories.NewMirrorSyncHistoryRepo(orm),
	}

	var (
		cache common.CacheInterface
		queue common.MirrorQueue
	)
	if redisClient != nil {
		cache = common.NewRedisCacheService(redisClient)
		queue = common.NewRedisQueueService(redisClient, constants.MirrorStream, constants.MirrorConsumerGroup)
		logging.Info("Using Redis for cache and mirror queue")
	} else {
		cache = common.NewCacheService(600, 60)
		queue = common.NewMemoryQueueService(memoryQueueCapacity)
		logging.Info("Using in-memory cache and mirror queue")
	}

	trainingClock := common.NewTrainingClock(cfg.Training.Location(), clock)
	roster := services.NewRosterService(cfg.Roster)
	validator := services.NewPresenceValidationService(cfg.Training, trainingClock)
	sheets := providers.NewSheetsProvider(cfg.Mirror.WebhookURL, cfg.Mirror.Timeout, cfg.AppEnv != "production")

	attendance := services.NewAttendanceService(repos.Records, repos.Stats, roster, cfg.Training, trainingClock, cache, metricsReg)
	mirror := services.NewMirrorService(repos.Records, repos.History, sheets, queue, metricsReg, cfg.Mirror.MaxAttempts, cfg.Mirror.RetryDelay)
	checkIn := services.NewCheckInService(
		repos.Records,
		validator,
		roster,
		trainingClock,
		services.CheckInServiceConfig{
			BypassCode: cfg.Admin.BypassCode,
			CenterLat:  cfg.Training.CenterLat,
			CenterLng:  cfg.Training.CenterLng,
			ExemptDay:  cfg.Training.ExemptDay,
		},
		mirror,
		attendance,
		metricsReg,
	)

	svcs := &Services{
		Cache:      cache,
		Queue:      queue,
		Sessions:   common.NewSessionService(cache, cfg.Admin.SessionTTL, clock),
		URLSigner:  common.NewURLSignerService([]byte(cfg.Admin.ExportLinkSecret), clock),
		Clock:      trainingClock,
		Sheets:     sheets,
		Roster:     roster,
		Validator:  validator,
		Attendance: attendance,
		CheckIn:    checkIn,
		Mirror:     mirror,
	}

	return &Dependencies{
		Config:   cfg,
		Repo:     repos,
		Services: svcs,
		Metrics:  metricsReg,
		SQLX:     sqlxDB,
		Redis:    redisClient,
	}, nil
}
