package monitoringService

import (
	"math/rand"
	"os"
	"strconv"
	"sync"
	"time"

	"ProjectMonitoring/internal/api/monitoring"
	monitoringRepository "ProjectMonitoring/internal/api/monitoring/repository"
	"ProjectMonitoring/internal/entity"
	"ProjectMonitoring/pkg/camera"
	"ProjectMonitoring/pkg/classifier"
	"ProjectMonitoring/pkg/emotion"
	redisPkg "ProjectMonitoring/pkg/redis"
	"ProjectMonitoring/pkg/utils"
	"ProjectMonitoring/pkg/vision"
	"ProjectMonitoring/pkg/whatsapp"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// Observation is the outcome of one sampling tick: the stored log row
// plus the frame it came from, for stream consumers.
type Observation struct {
	Frame []byte
	Log   entity.DetectionLog
	Mode  entity.MonitoringMode
}

type IMonitoringService interface {
	Sample(ctx context.Context, employeeID string) (Observation, error)
	Observe(ctx context.Context, employeeID string) Observation
	CreateDetection(ctx context.Context, req monitoring.CreateDetectionRequest) (entity.DetectionLog, error)
	GetDetections(ctx context.Context, req monitoring.ListDetectionsQuery) ([]entity.DetectionLog, error)
	GetAnalytics(ctx context.Context, req monitoring.AnalyticsQuery) (entity.AnalyticsSummary, error)
	GetLiveStatus(ctx context.Context, employeeID string) (entity.LiveStatus, error)
	Mode() entity.MonitoringMode
	SamplingInterval() time.Duration
}

type monitoringService struct {
	log                  *logrus.Logger
	monitoringRepository monitoringRepository.Repository
	utils                utils.IUtils
	camera               camera.ICamera
	locator              vision.ILocator
	classifier           classifier.IClassifier
	registry             *emotion.Registry
	redis                redisPkg.IRedis
	whatsapp             whatsapp.IWhatsappSender
	demo                 *camera.DemoGenerator

	interval    time.Duration
	alertPhone  string
	absentLimit int

	mu          sync.Mutex
	absentTicks map[string]int
	alerted     map[string]bool
}

func NewMonitoringService(
	log *logrus.Logger,
	mr monitoringRepository.Repository,
	utils utils.IUtils,
	cam camera.ICamera,
	locator vision.ILocator,
	cls classifier.IClassifier,
	registry *emotion.Registry,
	redis redisPkg.IRedis,
	wa whatsapp.IWhatsappSender,
) IMonitoringService {
	interval := 30 * time.Second
	if raw := os.Getenv("SAMPLING_INTERVAL_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			interval = time.Duration(secs) * time.Second
		}
	}

	absentLimit := 10
	if raw := os.Getenv("ALERT_ABSENT_TICKS"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			absentLimit = n
		}
	}

	return &monitoringService{
		log:                  log,
		monitoringRepository: mr,
		utils:                utils,
		camera:               cam,
		locator:              locator,
		classifier:           cls,
		registry:             registry,
		redis:                redis,
		whatsapp:             wa,
		demo:                 camera.NewDemoGenerator(rand.New(rand.NewSource(time.Now().UnixNano()))),
		interval:             interval,
		alertPhone:           os.Getenv("ALERT_PHONE_NUMBER"),
		absentLimit:          absentLimit,
		absentTicks:          make(map[string]int),
		alerted:              make(map[string]bool),
	}
}

func (s *monitoringService) Mode() entity.MonitoringMode {
	if s.camera != nil && s.camera.Available() && s.locator != nil && s.classifier != nil {
		return entity.ModeLive
	}
	return entity.ModeDemo
}

func (s *monitoringService) SamplingInterval() time.Duration {
	return s.interval
}
