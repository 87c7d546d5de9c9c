package config

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"coachly/pkg/client"
	"coachly/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Availability computation tunables.
	SlotDurationMin     int
	SlotBufferMin       int
	SessionFetchLimit   int
	SessionFetchPadding time.Duration

	DefaultSessionDurationMin int
	DefaultCoachTimeZone      string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		SlotDurationMin:     getEnvNum(EnvSlotDurationMin, DefaultSlotDurationMin),
		SlotBufferMin:       getEnvNum(EnvSlotBufferMin, DefaultSlotBufferMin),
		SessionFetchLimit:   getEnvNum(EnvSessionFetchLimit, DefaultSessionFetchLimit),
		SessionFetchPadding: getEnvDuration(EnvSessionFetchPadding, DefaultSessionFetchPadding),

		DefaultSessionDurationMin: getEnvNum(EnvDefaultSessionDurationMin, DefaultSessionDurationMin),
		DefaultCoachTimeZone:      getEnvStr(EnvDefaultCoachTimeZone, DefaultCoachTimeZone),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errs = append(errs, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errs = append(errs, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		errs = append(errs, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	if cfg.RateLimitRequests <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RateLimitWindow <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errs = append(errs, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if cfg.SlotDurationMin <= 0 {
		errs = append(errs, fmt.Sprintf("SlotDurationMin must be positive, got: %d", cfg.SlotDurationMin))
	}
	if cfg.SlotBufferMin < 0 {
		errs = append(errs, fmt.Sprintf("SlotBufferMin cannot be negative, got: %d", cfg.SlotBufferMin))
	}
	if cfg.SessionFetchLimit <= 0 {
		errs = append(errs, fmt.Sprintf("SessionFetchLimit must be positive, got: %d", cfg.SessionFetchLimit))
	}
	if cfg.SessionFetchPadding < 0 {
		errs = append(errs, fmt.Sprintf("SessionFetchPadding cannot be negative, got: %s", cfg.SessionFetchPadding))
	}
	if cfg.DefaultSessionDurationMin < 15 || cfg.DefaultSessionDurationMin > 240 {
		errs = append(errs, fmt.Sprintf("DefaultSessionDurationMin must be between 15 and 240, got: %d", cfg.DefaultSessionDurationMin))
	}
	if _, err := time.LoadLocation(cfg.DefaultCoachTimeZone); err != nil {
		errs = append(errs, fmt.Sprintf("DefaultCoachTimeZone must be a valid IANA timezone, got: %s", cfg.DefaultCoachTimeZone))
	}

	if len(errs) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, e := range errs {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, e)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"slot_duration_min", cfg.SlotDurationMin,
		"slot_buffer_min", cfg.SlotBufferMin,
		"session_fetch_limit", cfg.SessionFetchLimit,
		"session_fetch_padding", cfg.SessionFetchPadding,
		"default_session_duration_min", cfg.DefaultSessionDurationMin,
		"default_coach_timezone", cfg.DefaultCoachTimeZone,
	)
}

// redactMongoURI strips credentials from a connection string before logging.
func redactMongoURI(uri string) string {
	re := regexp.MustCompile(`(mongodb(?:\+srv)?://)[^@/]+@`)
	return re.ReplaceAllString(uri, "$1***@")
}
