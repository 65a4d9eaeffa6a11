package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Warehouse    Warehouse    `mapstructure:",squash"`
	Pacing       Pacing       `mapstructure:",squash"`
	PacingWarmup PacingWarmup `mapstructure:",squash"`
	Billing      Billing      `mapstructure:",squash"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

// Warehouse agrupa a conexão e o comportamento do pool do warehouse analítico
type Warehouse struct {
	Dialect              string `mapstructure:"warehouse_dialect"`
	DSN                  string `mapstructure:"-"`
	URL                  string `mapstructure:"warehouse_url"`
	User                 string `mapstructure:"warehouse_user"`
	Password             string `mapstructure:"warehouse_password"`
	Database             string `mapstructure:"warehouse_database"`
	SSLMode              string `mapstructure:"warehouse_sslmode"`
	DeliveryTable        string `mapstructure:"warehouse_delivery_table"`
	PoolMin              int    `mapstructure:"warehouse_pool_min"`
	PoolMax              int    `mapstructure:"warehouse_pool_max"`
	AcquireTimeoutMs     int    `mapstructure:"warehouse_acquire_timeout_ms"`
	StatementTimeoutSecs int    `mapstructure:"warehouse_statement_timeout_seconds"`
	CancelTimeoutMs      int    `mapstructure:"warehouse_cancel_timeout_ms"`
	Timezone             string `mapstructure:"warehouse_timezone"`
	QueryTag             string `mapstructure:"warehouse_query_tag"`
	MaxRetries           int    `mapstructure:"warehouse_max_retries"`
	BackoffBaseMs        int    `mapstructure:"warehouse_backoff_base_ms"`
}

type Pacing struct {
	CacheTTLSeconds  int     `mapstructure:"pacing_cache_ttl_seconds"`
	MaxIDs           int     `mapstructure:"pacing_max_ids"`
	MaxLookbackDays  int     `mapstructure:"pacing_max_lookback_days"`
	TolerancePercent float64 `mapstructure:"pacing_tolerance_percent"`
}

type PacingWarmup struct {
	CronSchedule      string  `mapstructure:"pacing_warmup_cron"`
	Enabled           bool    `mapstructure:"pacing_warmup_enabled"`
	MaxConcurrentJobs int     `mapstructure:"pacing_warmup_max_concurrent_jobs"`
	RecentHours       int     `mapstructure:"pacing_warmup_recent_hours"`
	RatePerSecond     float64 `mapstructure:"pacing_warmup_rate_per_second"`
}

type Billing struct {
	CurrencySymbol string `mapstructure:"billing_currency_symbol"`
	Locale         string `mapstructure:"billing_locale"`
}

func (w Warehouse) AcquireTimeout() time.Duration {
	return time.Duration(w.AcquireTimeoutMs) * time.Millisecond
}

func (w Warehouse) StatementTimeout() time.Duration {
	return time.Duration(w.StatementTimeoutSecs) * time.Second
}

func (w Warehouse) CancelTimeout() time.Duration {
	return time.Duration(w.CancelTimeoutMs) * time.Millisecond
}

func (w Warehouse) BackoffBase() time.Duration {
	return time.Duration(w.BackoffBaseMs) * time.Millisecond
}

func (p Pacing) CacheTTL() time.Duration {
	return time.Duration(p.CacheTTLSeconds) * time.Second
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("WAREHOUSE_DIALECT", "postgres")
	viper.SetDefault("WAREHOUSE_URL", "localhost:5432")
	viper.SetDefault("WAREHOUSE_USER", "analytics")
	viper.SetDefault("WAREHOUSE_PASSWORD", "root")
	viper.SetDefault("WAREHOUSE_DATABASE", "analytics")
	viper.SetDefault("WAREHOUSE_SSLMODE", "disable")
	viper.SetDefault("WAREHOUSE_DELIVERY_TABLE", "delivery_daily")

	viper.SetDefault("WAREHOUSE_POOL_MIN", 0)
	viper.SetDefault("WAREHOUSE_POOL_MAX", 5)
	viper.SetDefault("WAREHOUSE_ACQUIRE_TIMEOUT_MS", 10000)
	viper.SetDefault("WAREHOUSE_STATEMENT_TIMEOUT_SECONDS", 60)
	viper.SetDefault("WAREHOUSE_CANCEL_TIMEOUT_MS", 5000)
	viper.SetDefault("WAREHOUSE_TIMEZONE", "UTC")
	viper.SetDefault("WAREHOUSE_QUERY_TAG", "media-pacing-api")
	viper.SetDefault("WAREHOUSE_MAX_RETRIES", 3)
	viper.SetDefault("WAREHOUSE_BACKOFF_BASE_MS", 200)

	viper.SetDefault("PACING_CACHE_TTL_SECONDS", 300) // 5 minutos
	viper.SetDefault("PACING_MAX_IDS", 500)
	viper.SetDefault("PACING_MAX_LOOKBACK_DAYS", 180)
	viper.SetDefault("PACING_TOLERANCE_PERCENT", 10)

	// Defaults para o aquecimento do cache de pacing
	viper.SetDefault("PACING_WARMUP_CRON", "*/4 * * * *") // A cada 4 minutos, abaixo do TTL padrão
	viper.SetDefault("PACING_WARMUP_ENABLED", false)
	viper.SetDefault("PACING_WARMUP_MAX_CONCURRENT_JOBS", 3)
	viper.SetDefault("PACING_WARMUP_RECENT_HOURS", 6)
	viper.SetDefault("PACING_WARMUP_RATE_PER_SECOND", 5) // consultas por segundo no warehouse

	viper.SetDefault("BILLING_CURRENCY_SYMBOL", "$")
	viper.SetDefault("BILLING_LOCALE", "en-AU")

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.Warehouse.DSN = buildDSN(config.Warehouse)

	return config, nil
}

// Validate garante limites mínimos coerentes para o pool e para o pacing
func (c *Config) Validate() error {
	if c.Warehouse.PoolMax <= 0 {
		return fmt.Errorf("config: WAREHOUSE_POOL_MAX deve ser maior que zero")
	}

	if c.Warehouse.PoolMin < 0 || c.Warehouse.PoolMin > c.Warehouse.PoolMax {
		return fmt.Errorf("config: WAREHOUSE_POOL_MIN deve estar entre 0 e %d", c.Warehouse.PoolMax)
	}

	if c.Warehouse.MaxRetries < 0 {
		return fmt.Errorf("config: WAREHOUSE_MAX_RETRIES não pode ser negativo")
	}

	if c.Pacing.MaxIDs <= 0 || c.Pacing.MaxLookbackDays <= 0 {
		return fmt.Errorf("config: limites de pacing devem ser positivos")
	}

	return nil
}

// buildDSN monta a URL de conexão; usuário e senha são escapados por url.UserPassword
func buildDSN(w Warehouse) string {
	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(w.User, w.Password),
		Host:   w.URL,
		Path:   "/" + w.Database,
	}

	switch w.Dialect {
	case "clickhouse":
		dsn.Scheme = "clickhouse"
	default:
		dsn.RawQuery = url.Values{"sslmode": []string{w.SSLMode}}.Encode()
	}

	return dsn.String()
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando variáveis de ambiente")
}
