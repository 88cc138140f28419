package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures configuration for the decision HTTP server.
type Server struct {
	Addr      string
	LogLevel  string
	LogFormat string

	Pipeline Pipeline
	Redis    RedisConfig
	Postgres PostgresConfig
	Kafka    KafkaConfig
}

// Pipeline configures one decision run. The CLI builds it from flags; the
// server from the environment.
type Pipeline struct {
	PolicyFile      string
	EligibilityFile string
	// IntakeFile replaces the seeded intake generator with a fixed
	// application_intake_v0_1 document.
	IntakeFile string
	Seed       int64
	Channel    string

	ScorerMode    string // stub, http, command
	ScorerBaseURL string
	ScorerCommand string
	ScorerTimeout time.Duration

	SensorMode    string // STUB, LIVE
	SensorBaseURL string
	SensorTimeout time.Duration
	// EmploymentSpikeThr is the bureau spike score at or above which live
	// employment verification is reported as unverified.
	EmploymentSpikeThr float64

	FraudSignalMode  string // STUB, LIVE
	DeviceHighThr    float64
	TxHighThr        float64
	DoubleHighAction string // REVIEW, BLOCK

	BRMSURL       string
	BRMSStub      string
	NoBRMS        bool
	BRMSTimeout   time.Duration
	BRMSDebugPath string

	EligibilityTimeout time.Duration
	DecisionTTL        time.Duration
}

// RedisConfig configures the optional Redis decision archive.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig configures the optional durable decision archive.
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// KafkaConfig configures the optional audit event sink.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Bridge captures configuration for the rules-engine bridge server.
type Bridge struct {
	Addr        string
	LogLevel    string
	LogFormat   string
	KIEURL      string
	KIEUser     string
	KIEPassword string
	KIETimeout  time.Duration
}

// DefaultPipeline returns the pipeline defaults shared by CLI and server.
func DefaultPipeline() Pipeline {
	return Pipeline{
		PolicyFile:         "config/brms_policy_canonical.json",
		EligibilityFile:    "config/eligibility_canonical.json",
		Seed:               42,
		Channel:            "web",
		ScorerMode:         "stub",
		ScorerTimeout:      5 * time.Second,
		SensorMode:         "STUB",
		SensorBaseURL:      "http://127.0.0.1:9000",
		SensorTimeout:      1200 * time.Millisecond,
		EmploymentSpikeThr: 0.7,
		FraudSignalMode:    "STUB",
		DeviceHighThr:      0.80,
		TxHighThr:          0.80,
		DoubleHighAction:   "REVIEW",
		BRMSTimeout:        10 * time.Second,
		EligibilityTimeout: 5 * time.Second,
		DecisionTTL:        24 * time.Hour,
	}
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	p := DefaultPipeline()
	p.PolicyFile = getEnv("POLICY_FILE", p.PolicyFile)
	p.EligibilityFile = getEnv("ELIGIBILITY_FILE", p.EligibilityFile)
	p.IntakeFile = getEnv("INTAKE_FILE", p.IntakeFile)
	p.Seed = int64(getEnvInt("DECISION_SEED", int(p.Seed)))
	p.Channel = getEnv("DECISION_CHANNEL", p.Channel)
	p.ScorerMode = getEnv("SCORER_MODE", p.ScorerMode)
	p.ScorerBaseURL = getEnv("SCORER_BASE_URL", p.ScorerBaseURL)
	p.ScorerCommand = getEnv("SCORER_COMMAND", p.ScorerCommand)
	p.ScorerTimeout = getEnvDuration("SCORER_TIMEOUT", p.ScorerTimeout)
	p.SensorMode = strings.ToUpper(getEnv("SENSOR_MODE", p.SensorMode))
	p.SensorBaseURL = getEnv("SENSOR_BASE_URL", p.SensorBaseURL)
	p.SensorTimeout = getEnvDuration("SENSOR_TIMEOUT", p.SensorTimeout)
	p.EmploymentSpikeThr = getEnvFloat("EMPLOYMENT_SPIKE_THR", p.EmploymentSpikeThr)
	p.FraudSignalMode = strings.ToUpper(getEnv("FRAUD_SIGNAL_MODE", p.FraudSignalMode))
	p.DeviceHighThr = getEnvFloat("FRAUD_DEVICE_HIGH_THR", p.DeviceHighThr)
	p.TxHighThr = getEnvFloat("FRAUD_TX_HIGH_THR", p.TxHighThr)
	p.DoubleHighAction = strings.ToUpper(getEnv("FRAUD_DOUBLE_HIGH_ACTION", p.DoubleHighAction))
	p.BRMSURL = getEnv("BRMS_URL", p.BRMSURL)
	p.BRMSStub = getEnv("BRMS_STUB", p.BRMSStub)
	p.NoBRMS = os.Getenv("NO_BRMS") == "true"
	p.BRMSTimeout = getEnvDuration("BRMS_TIMEOUT", p.BRMSTimeout)
	p.BRMSDebugPath = getEnv("BRMS_DEBUG_SNAPSHOT", p.BRMSDebugPath)
	p.EligibilityTimeout = getEnvDuration("ELIGIBILITY_TIMEOUT", p.EligibilityTimeout)
	p.DecisionTTL = getEnvDuration("DECISION_TTL", p.DecisionTTL)

	return Server{
		Addr:      getEnv("DECISION_ADDR", ":8080"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		Pipeline:  p,
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			DSN:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_AUDIT_TOPIC", "decision-audit"),
		},
	}
}

// BridgeFromEnv builds the bridge server config.
func BridgeFromEnv() Bridge {
	return Bridge{
		Addr:        getEnv("BRIDGE_ADDR", ":8090"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		KIEURL:      getEnv("KIE_URL", "http://localhost:8082/kie-server/services/rest/server/containers/loan_rules_1_0_9/dmn"),
		KIEUser:     getEnv("KIE_USER", "kieserver"),
		KIEPassword: getEnv("KIE_PASSWORD", ""),
		KIETimeout:  getEnvDuration("KIE_TIMEOUT", 15*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
