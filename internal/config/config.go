package config

import (
	"bufio"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"cross-country/runflow/internal/constants"
)

// TrainingConfig is the fixed check-in policy. It is immutable after Load.
type TrainingConfig struct {
	CenterLat    float64
	CenterLng    float64
	RadiusMeters float64
	AllowedDays  []time.Weekday
	StartHour    int
	EndHour      int
	ExemptDay    time.Weekday
	Timezone     string

	location *time.Location
}

type AdminConfig struct {
	Username         string
	Password         string
	BypassCode       string
	SessionTTL       time.Duration
	ExportLinkSecret string
	ExportLinkTTL    time.Duration
}

type MirrorConfig struct {
	WebhookURL  string
	Timeout     time.Duration
	Workers     int
	MaxAttempts int
	RetryDelay  time.Duration
	ResyncCron  string
	ResyncEvery time.Duration
}

type DBConfig struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type Config struct {
	AppEnv   string
	Port     string
	Training TrainingConfig
	Roster   []string
	Admin    AdminConfig
	Mirror   MirrorConfig
	DB       DBConfig
	Redis    RedisConfig

	CheckInRatePerSec float64
	CheckInBurst      int

	// TrustedProxies may set X-Forwarded-For; empty means the peer address is the client
	TrustedProxies []*net.IPNet
}

// DefaultTraining returns the team's schedule: Sunday, Tuesday and Thursday, 06h to 12h,
// 300 m around the CECAF track, radius not enforced on Sundays.
func DefaultTraining() TrainingConfig {
	t := TrainingConfig{
		CenterLat:    -15.833625441958903,
		CenterLng:    -47.93758403290985,
		RadiusMeters: 300,
		AllowedDays:  []time.Weekday{time.Sunday, time.Tuesday, time.Thursday},
		StartHour:    6,
		EndHour:      12,
		ExemptDay:    time.Sunday,
		Timezone:     "America/Sao_Paulo",
	}
	t.location, _ = time.LoadLocation(t.Timezone)
	return t
}

// Load reads the process environment, after merging a .env file when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	training := DefaultTraining()
	training.CenterLat = getenvFloat("TRAINING_CENTER_LAT", training.CenterLat)
	training.CenterLng = getenvFloat("TRAINING_CENTER_LNG", training.CenterLng)
	training.RadiusMeters = getenvFloat("TRAINING_RADIUS_METERS", training.RadiusMeters)
	training.StartHour = getenvInt("TRAINING_START_HOUR", training.StartHour)
	training.EndHour = getenvInt("TRAINING_END_HOUR", training.EndHour)
	training.ExemptDay = time.Weekday(getenvInt("TRAINING_EXEMPT_DAY", int(training.ExemptDay)))
	training.Timezone = getenv("TRAINING_TIMEZONE", training.Timezone)
	if raw := os.Getenv("TRAINING_ALLOWED_DAYS"); raw != "" {
		days, err := ParseWeekdays(raw)
		if err != nil {
			return nil, err
		}
		training.AllowedDays = days
	}
	if err := training.Validate(); err != nil {
		return nil, err
	}

	roster := append([]string(nil), constants.DefaultRoster...)
	if path := os.Getenv("ROSTER_FILE"); path != "" {
		loaded, err := LoadRosterFile(path)
		if err != nil {
			return nil, err
		}
		roster = loaded
	}

	cfg := &Config{
		AppEnv:   getenv("APP_ENV", "development"),
		Port:     getenv("PORT", "8080"),
		Training: training,
		Roster:   roster,
		Admin: AdminConfig{
			Username:         getenv("ADMIN_USERNAME", "admin"),
			Password:         getenv("ADMIN_PASSWORD", "senha123"),
			BypassCode:       getenv("ADMIN_BYPASS_CODE", "romos2228"),
			SessionTTL:       getenvDuration("ADMIN_SESSION_TTL", 12*time.Hour),
			ExportLinkSecret: getenv("EXPORT_LINK_SECRET", "change-me-export-secret"),
			ExportLinkTTL:    getenvDuration("EXPORT_LINK_TTL", 15*time.Minute),
		},
		Mirror: MirrorConfig{
			WebhookURL:  os.Getenv("SHEETS_WEBHOOK_URL"),
			Timeout:     getenvDuration("MIRROR_TIMEOUT", 15*time.Second),
			Workers:     getenvInt("MIRROR_WORKERS", 1),
			MaxAttempts: getenvInt("MIRROR_MAX_ATTEMPTS", 1),
			RetryDelay:  getenvDuration("MIRROR_RETRY_DELAY", 2*time.Second),
			ResyncCron:  getenv("MIRROR_RESYNC_CRON", "@every 1h"),
			ResyncEvery: getenvDuration("MIRROR_RESYNC_EVERY", time.Hour),
		},
		DB: DBConfig{
			Driver:     getenv("DB_DRIVER", "postgres"),
			Host:       getenv("PG_HOST", "localhost"),
			Port:       getenv("PG_PORT", "5432"),
			User:       getenv("PG_USER", "postgres"),
			Password:   os.Getenv("PG_PASSWORD"),
			Name:       getenv("PG_DB", "runflow"),
			SSLMode:    getenv("PG_SSLMODE", "disable"),
			SQLitePath: getenv("SQLITE_PATH", "runflow.db"),
		},
		Redis: RedisConfig{
			Enabled:  getenvBool("USE_REDIS", false),
			Host:     getenv("REDIS_HOST", "localhost"),
			Port:     getenv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getenvInt("REDIS_DB", 0),
		},
		CheckInRatePerSec: getenvFloat("CHECKIN_RATE_PER_SEC", 1),
		CheckInBurst:      getenvInt("CHECKIN_BURST", 5),
	}

	proxies, err := parseCIDRs(os.Getenv("TRUSTED_PROXIES"))
	if err != nil {
		return nil, err
	}
	cfg.TrustedProxies = proxies

	if cfg.Mirror.Workers < 1 {
		cfg.Mirror.Workers = 1
	}
	if cfg.Mirror.MaxAttempts < 1 {
		cfg.Mirror.MaxAttempts = 1
	}

	return cfg, nil
}

// Validate rejects policies the validator cannot evaluate consistently.
func (t *TrainingConfig) Validate() error {
	if len(t.AllowedDays) == 0 {
		return fmt.Errorf("training config: no allowed days")
	}
	if t.StartHour < 0 || t.EndHour > 24 || t.StartHour >= t.EndHour {
		return fmt.Errorf("training config: invalid hour window [%d, %d)", t.StartHour, t.EndHour)
	}
	if t.RadiusMeters <= 0 {
		return fmt.Errorf("training config: radius must be positive, got %v", t.RadiusMeters)
	}
	if !t.IsAllowedDay(t.ExemptDay) {
		return fmt.Errorf("training config: exempt day %d is not an allowed day", t.ExemptDay)
	}
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return fmt.Errorf("training config: invalid timezone %q: %w", t.Timezone, err)
	}
	t.location = loc
	return nil
}

// Location returns the configured training timezone.
func (t TrainingConfig) Location() *time.Location {
	if t.location != nil {
		return t.location
	}
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (t TrainingConfig) IsAllowedDay(d time.Weekday) bool {
	for _, allowed := range t.AllowedDays {
		if allowed == d {
			return true
		}
	}
	return false
}

// ParseWeekdays parses a comma separated list of weekday indices (0 = Sunday).
func ParseWeekdays(raw string) ([]time.Weekday, error) {
	var days []time.Weekday
	seen := map[int]bool{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("invalid weekday %q", part)
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		days = append(days, time.Weekday(n))
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("no weekdays in %q", raw)
	}
	return days, nil
}

// LoadRosterFile reads one athlete name per line, skipping blank lines and # comments.
func LoadRosterFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster file: %w", err)
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("roster file %s is empty", path)
	}
	return names, nil
}

// parseCIDRs reads a comma separated list of CIDRs or bare IPs.
func parseCIDRs(raw string) ([]*net.IPNet, error) {
	var nets []*net.IPNet
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.Contains(part, "/") {
			ip := net.ParseIP(part)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", part)
			}
			bits := 32
			if ip.To4() == nil {
				bits = 128
			}
			part = fmt.Sprintf("%s/%d", part, bits)
		}
		_, ipNet, err := net.ParseCIDR(part)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", part, err)
		}
		nets = append(nets, ipNet)
	}
	return nets, nil
}

// DSN builds the postgres connection string from PG_* settings.
// Credentials are escaped, so passwords may contain URL delimiters.
func (c DBConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
