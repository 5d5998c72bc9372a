package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 PRESTACAO_SERVER_PORT 覆盖 server.port
const EnvPrefix = "PRESTACAO"

// Config 应用配置根节点
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Web      WebConfig      `mapstructure:"web"`
	Report   ReportConfig   `mapstructure:"report"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // debug | release | test
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // sqlite | postgres
	DSN          string `mapstructure:"dsn"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type AuthConfig struct {
	Secret     string        `mapstructure:"secret"`
	AccessTTL  time.Duration `mapstructure:"access_ttl"`
	RefreshTTL time.Duration `mapstructure:"refresh_ttl"`
	BcryptCost int           `mapstructure:"bcrypt_cost"`
}

type WebConfig struct {
	// APIBaseURL 向导访问 REST 接口的地址，通常就是本进程
	APIBaseURL      string        `mapstructure:"api_base_url"`
	ThemeStorageKey string        `mapstructure:"theme_storage_key"`
	DefaultTheme    string        `mapstructure:"default_theme"`
	SessionCookie   string        `mapstructure:"session_cookie"`
	SessionIdle     time.Duration `mapstructure:"session_idle"`
}

type ReportConfig struct {
	Municipio string        `mapstructure:"municipio"`
	Contadora string        `mapstructure:"contadora"`
	Archive   ArchiveConfig `mapstructure:"archive"`
}

type ArchiveConfig struct {
	Driver string `mapstructure:"driver"` // none | local | s3
	Dir    string `mapstructure:"dir"`
	Bucket string `mapstructure:"bucket"`
	Region string `mapstructure:"region"`
	Prefix string `mapstructure:"prefix"`
}

// Load 读取配置：.env -> 默认值 -> 配置文件 -> 环境变量
// path 为空时只使用默认值和环境变量
func Load(path string) (*Config, error) {
	// 1. .env 可选
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	// 2. 配置文件
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	// 3. 环境变量覆盖
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "prestacao.db")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 10)

	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.access_ttl", time.Hour)
	v.SetDefault("auth.refresh_ttl", 30*24*time.Hour)
	v.SetDefault("auth.bcrypt_cost", 12)

	v.SetDefault("web.api_base_url", "http://127.0.0.1:5000/api")
	v.SetDefault("web.theme_storage_key", "prestacao-contas-theme")
	v.SetDefault("web.default_theme", "dark")
	v.SetDefault("web.session_cookie", "prestacao_session")
	v.SetDefault("web.session_idle", 12*time.Hour)

	v.SetDefault("report.municipio", "Município Exemplo")
	v.SetDefault("report.contadora", "Etiane Acosta Alves")
	v.SetDefault("report.archive.driver", "none")
	v.SetDefault("report.archive.dir", "relatorios")
	v.SetDefault("report.archive.bucket", "")
	v.SetDefault("report.archive.region", "")
	v.SetDefault("report.archive.prefix", "prestacoes/")
}

// Validate 启动前的快速失败检查
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}
	if c.Server.Mode == "release" && len(c.Auth.Secret) < 32 {
		return errors.New("auth.secret must have at least 32 bytes in release mode")
	}
	switch c.Web.DefaultTheme {
	case "light", "dark", "system":
	default:
		return fmt.Errorf("web.default_theme must be light, dark or system, got %q", c.Web.DefaultTheme)
	}
	switch c.Report.Archive.Driver {
	case "none", "local":
	case "s3":
		if c.Report.Archive.Bucket == "" {
			return errors.New("report.archive.bucket is required for the s3 archive")
		}
	default:
		return fmt.Errorf("report.archive.driver must be none, local or s3, got %q", c.Report.Archive.Driver)
	}
	return nil
}
