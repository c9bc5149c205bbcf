package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

// ErrInvalidConfig ошибка валидации конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса (config.toml + переменные окружения)
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	UserService   UserServiceConfig   `toml:"user_service"`
	Notifications NotificationsConfig `toml:"notifications"`
	Scheduling    SchedulingConfig    `toml:"scheduling"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`  // секунды
	WriteTimeout    int `toml:"write_timeout"` // секунды
	IdleTimeout     int `toml:"idle_timeout"`  // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	MigrationsPath  string `toml:"migrations_path"`

	// URL полный адрес БД для миграций, перекрывает поля выше (DB_URL)
	URL string `toml:"-"`
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type UserServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// NotificationsConfig очередь уведомлений (asynq поверх Redis) и адреса доставки для воркера
type NotificationsConfig struct {
	Enabled           bool   `toml:"enabled"`
	RedisAddr         string `toml:"redis_addr"`
	RedisPassword     string `toml:"redis_password"`
	RedisDB           int    `toml:"redis_db"`
	CalendarSync      bool   `toml:"calendar_sync"`
	NotificationsURL  string `toml:"notifications_url"`
	CalendarURL       string `toml:"calendar_url"`
	DispatchTimeout   int    `toml:"dispatch_timeout"` // секунды
	WorkerConcurrency int    `toml:"worker_concurrency"`
}

// SchedulingConfig значения по умолчанию для тренеров без собственных настроек
type SchedulingConfig struct {
	BookingWindowDays         int    `toml:"booking_window_days"`
	MinNoticeHours            int    `toml:"min_notice_hours"`
	RenewalReminderThreshold  int    `toml:"renewal_reminder_threshold"`
	SessionDurationMinutes    int    `toml:"session_duration_minutes"`
	CheckinDurationMinutes    int    `toml:"checkin_duration_minutes"`
	TimeZone                  string `toml:"time_zone"`
	CoachCancelBypassesNotice *bool  `toml:"coach_cancel_bypasses_notice"`
}

// Load читает .env (если есть), затем TOML файл, затем переопределения из окружения
func Load(path string) (*Config, error) {
	// .env опционален: в контейнере переменные приходят из окружения
	_ = godotenv.Load()

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv("DB_PASSWORD"); ok {
		c.Database.Password = v
	}
	if v, ok := os.LookupEnv("DB_HOST"); ok {
		c.Database.Host = v
	}
	if v, ok := os.LookupEnv("DB_URL"); ok {
		c.Database.URL = v
	}
	if v, ok := os.LookupEnv("REDIS_ADDR"); ok {
		c.Notifications.RedisAddr = v
	}
	if v, ok := os.LookupEnv("REDIS_PASSWORD"); ok {
		c.Notifications.RedisPassword = v
	}
	if v, ok := os.LookupEnv("HTTP_PORT"); ok {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.HTTPPort = port
		}
	}
}

func (c *Config) setDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
	}

	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Database.MigrationsPath == "" {
		c.Database.MigrationsPath = "migrations"
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "coach-booking-service"
	}

	if c.UserService.Timeout == 0 {
		c.UserService.Timeout = 3
	}

	if c.Notifications.DispatchTimeout == 0 {
		c.Notifications.DispatchTimeout = 5
	}
	if c.Notifications.WorkerConcurrency == 0 {
		c.Notifications.WorkerConcurrency = 10
	}

	s := &c.Scheduling
	if s.BookingWindowDays == 0 {
		s.BookingWindowDays = domain.DefaultBookingWindowDays
	}
	if s.MinNoticeHours == 0 {
		s.MinNoticeHours = domain.DefaultMinNoticeHours
	}
	if s.RenewalReminderThreshold == 0 {
		s.RenewalReminderThreshold = domain.DefaultRenewalReminderThreshold
	}
	if s.SessionDurationMinutes == 0 {
		s.SessionDurationMinutes = domain.DefaultSessionDurationMinutes
	}
	if s.CheckinDurationMinutes == 0 {
		s.CheckinDurationMinutes = domain.DefaultCheckinDurationMinutes
	}
	if s.TimeZone == "" {
		s.TimeZone = domain.DefaultTimeZone
	}
}

// Validate проверяет обязательные поля
// Значения по умолчанию для тренеров дополнительно проверяются сервисом настроек при старте
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port=%d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.URL == "" && (c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "") {
		return fmt.Errorf("%w: database host, dbname and user are required", ErrInvalidConfig)
	}
	if c.UserService.URL == "" {
		return fmt.Errorf("%w: user_service.url is required", ErrInvalidConfig)
	}
	if c.Notifications.Enabled && c.Notifications.RedisAddr == "" {
		return fmt.Errorf("%w: notifications.redis_addr is required when notifications are enabled", ErrInvalidConfig)
	}
	return nil
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// MigrateURL адрес БД в формате URL для golang-migrate
func (d DatabaseConfig) MigrateURL() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

// DefaultSettings настройки бронирования для тренеров без собственных настроек
func (s SchedulingConfig) DefaultSettings() domain.CoachBookingSettings {
	settings := *domain.DefaultSettings(0)
	settings.BookingWindowDays = s.BookingWindowDays
	settings.MinNoticeHours = s.MinNoticeHours
	settings.RenewalReminderThreshold = s.RenewalReminderThreshold
	settings.SessionDurationMinutes = s.SessionDurationMinutes
	settings.CheckinDurationMinutes = s.CheckinDurationMinutes
	settings.TimeZone = s.TimeZone
	if s.CoachCancelBypassesNotice != nil {
		settings.CoachCancelBypassesNotice = *s.CoachCancelBypassesNotice
	}
	return settings
}
