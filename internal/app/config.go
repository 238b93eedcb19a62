package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/minicms-backend/internal/platform/envutil"
)

const (
	StoreModeGitHub = "github"
	StoreModeMemory = "memory"
)

type Config struct {
	Port    string
	LogMode string

	DataRepo        string
	DataBranch      string
	ConfigPath      string
	CollectionsRoot string
	StoreMode       string
	MemorySeedDir   string

	GitHubAPIURL     string
	GitHubToken      string
	GitHubTimeout    time.Duration
	GitHubMaxRetries int
	CommitterName    string
	CommitterEmail   string

	AllowedOrigins []string

	DBDriver string
	DBDSN    string

	RedisAddr    string
	RedisChannel string
}

func LoadConfig() Config {
	return Config{
		Port:    envutil.String("PORT", "8080"),
		LogMode: envutil.String("LOG_MODE", "development"),

		DataRepo:        envutil.String("DATA_REPO", ""),
		DataBranch:      envutil.String("DATA_BRANCH", ""),
		ConfigPath:      envutil.String("CONFIG_PATH", "config.yml"),
		CollectionsRoot: envutil.String("COLLECTIONS_ROOT", "data/collections"),
		StoreMode:       strings.ToLower(envutil.String("STORE_MODE", StoreModeGitHub)),
		MemorySeedDir:   envutil.String("MEMORY_SEED_DIR", ""),

		GitHubAPIURL:     envutil.String("GITHUB_API_URL", "https://api.github.com"),
		GitHubToken:      envutil.String("GITHUB_TOKEN", ""),
		GitHubTimeout:    envutil.Seconds("GITHUB_TIMEOUT_SECONDS", 30*time.Second),
		GitHubMaxRetries: envutil.Int("GITHUB_MAX_RETRIES", 3),
		CommitterName:    envutil.String("COMMITTER_NAME", ""),
		CommitterEmail:   envutil.String("COMMITTER_EMAIL", ""),

		AllowedOrigins: envutil.List("CORS_ALLOWED_ORIGINS", nil),

		DBDriver: strings.ToLower(envutil.String("DB_DRIVER", "none")),
		DBDSN:    envutil.String("DB_DSN", ""),

		RedisAddr:    envutil.String("REDIS_ADDR", ""),
		RedisChannel: envutil.String("REDIS_CHANNEL", "minicms.records"),
	}
}

func (c Config) Validate() error {
	switch c.StoreMode {
	case StoreModeGitHub:
		if !strings.Contains(c.DataRepo, "/") {
			return fmt.Errorf("DATA_REPO must be owner/repo, got %q", c.DataRepo)
		}
	case StoreModeMemory:
	default:
		return fmt.Errorf("unknown STORE_MODE %q", c.StoreMode)
	}
	if c.GitHubMaxRetries < 0 {
		return fmt.Errorf("GITHUB_MAX_RETRIES must be >= 0")
	}
	return nil
}
