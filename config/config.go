package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	ServerName  string           `mapstructure:"server_name" yaml:"server_name"`
	Version     string           `mapstructure:"version" yaml:"version"`
	Environment string           `mapstructure:"environment" yaml:"environment"`
	Port        int              `mapstructure:"port" yaml:"port"`
	Postgres    PostgresConfig   `mapstructure:"postgres" yaml:"postgres"`
	Redis       RedisConfig      `mapstructure:"redis" yaml:"redis"`
	Consul      ConsulConfig     `mapstructure:"consul" yaml:"consul"`
	Classifier  ClassifierConfig `mapstructure:"classifier" yaml:"classifier"`
	Chat        ChatConfig       `mapstructure:"chat" yaml:"chat"`
	Auth        AuthConfig       `mapstructure:"auth" yaml:"auth"`
}

type PostgresConfig struct {
	Address  string        `mapstructure:"address" yaml:"address"`
	Port     int           `mapstructure:"port" yaml:"port"`
	User     string        `mapstructure:"user" yaml:"user"`
	Password string        `mapstructure:"password" yaml:"password"`
	DBName   string        `mapstructure:"db_name" yaml:"db_name"`
	MaxIdle  int           `mapstructure:"max_idle" yaml:"max_idle"`
	MaxOpen  int           `mapstructure:"max_open" yaml:"max_open"`
	MaxLife  time.Duration `mapstructure:"max_life" yaml:"max_life"`
}

type RedisConfig struct {
	Address      string `mapstructure:"address" yaml:"address"`
	Port         int    `mapstructure:"port" yaml:"port"`
	Password     string `mapstructure:"password" yaml:"password"`
	Database     int    `mapstructure:"database" yaml:"database"`
	RateLimitQPS int    `mapstructure:"rate_limit_qps" yaml:"rate_limit_qps"`
}

type ConsulConfig struct {
	Address    string `mapstructure:"address" yaml:"address"`
	Scheme     string `mapstructure:"scheme" yaml:"scheme"`
	Datacenter string `mapstructure:"datacenter" yaml:"datacenter"`
}

type ClassifierConfig struct {
	BaseURL             string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout             time.Duration `mapstructure:"timeout" yaml:"timeout"`
	ConfidenceThreshold float64       `mapstructure:"confidence_threshold" yaml:"confidence_threshold"`
}

type ChatConfig struct {
	ServerName        string `mapstructure:"server_name" yaml:"server_name"`
	EscalationTrigger string `mapstructure:"escalation_trigger" yaml:"escalation_trigger"`
}

type AuthConfig struct {
	JwtSecret string `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	APIKey    string `mapstructure:"api_key" yaml:"api_key"`
	ExpireH   int    `mapstructure:"expire_h" yaml:"expire_h"`
}

func LoadConfig() (*AppConfig, error) {
	var config AppConfig

	viper.SetConfigFile("config/config.yml")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// the config file is optional, env vars and defaults still apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return &config, err
		}
	}
	if err := viper.Unmarshal(&config); err != nil {
		return &config, err
	}
	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server_name", "chat-service")
	viper.SetDefault("version", "1.0.0")
	viper.SetDefault("environment", "development")
	viper.SetDefault("port", 8001)

	viper.SetDefault("postgres.address", "localhost")
	viper.SetDefault("postgres.port", 5432)
	viper.SetDefault("postgres.user", "chatwidget")
	viper.SetDefault("postgres.password", "chatwidget")
	viper.SetDefault("postgres.db_name", "chatwidget")
	viper.SetDefault("postgres.max_idle", 25)
	viper.SetDefault("postgres.max_open", 25)
	viper.SetDefault("postgres.max_life", 5*time.Minute)

	viper.SetDefault("redis.address", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.database", 0)
	viper.SetDefault("redis.rate_limit_qps", 20)

	viper.SetDefault("consul.scheme", "http")
	viper.SetDefault("consul.datacenter", "dc1")

	viper.SetDefault("classifier.base_url", "http://localhost:8090")
	viper.SetDefault("classifier.timeout", 5*time.Second)
	viper.SetDefault("classifier.confidence_threshold", 0.7)

	viper.SetDefault("chat.server_name", "chat-service")
	viper.SetDefault("chat.escalation_trigger", "human_assistance")

	viper.SetDefault("auth.jwt_secret", "chat_widget_secret")
	viper.SetDefault("auth.api_key", "")
	viper.SetDefault("auth.expire_h", 24)
}
