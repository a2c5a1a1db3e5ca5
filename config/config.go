package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/wyg1997/ActionsBot/pkg/logger"
)

type Config struct {
	// Server configuration
	Server ServerConfig

	// Telegram bot configuration
	Telegram TelegramConfig

	// GitHub Actions configuration
	GitHub GitHubConfig

	// Optional Feishu audit mirror
	Feishu FeishuConfig

	// Command table override
	CommandsFile string

	LogLevel string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  int    // seconds
	WriteTimeout int    // seconds
	SecretPath   string // prefix for admin endpoints, empty disables them
}

type TelegramConfig struct {
	BotToken       string
	AllowedUserIDs string // comma-separated
	APIBaseURL     string
	ClientTimeout  time.Duration
}

type GitHubConfig struct {
	Token         string
	Repo          string // owner/name
	WorkflowName  string // workflow file name
	Branch        string
	TunnelToken   string // optional Cloudflare tunnel token
	APIBaseURL    string
	ClientTimeout time.Duration
}

type FeishuConfig struct {
	AppID       string
	AppSecret   string
	AuditChatID string
}

// Enabled reports whether the Feishu audit mirror is configured
func (c FeishuConfig) Enabled() bool {
	return c.AppID != "" && c.AppSecret != "" && c.AuditChatID != ""
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	// Try to load .env file before reading config
	if err := LoadDefaultEnvFile(); err != nil {
		logger.GetLogger().Warn("Failed to load .env file: %v", err)
	}

	clientTimeout := time.Duration(getEnvAsInt("HTTP_CLIENT_TIMEOUT", 15)) * time.Second

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 30),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 30),
			SecretPath:   strings.Trim(getEnv("SECRET_PATH", ""), "/"),
		},
		Telegram: TelegramConfig{
			BotToken:       getSecret("TELEGRAM_BOT_TOKEN", KeychainTelegramToken),
			AllowedUserIDs: getEnv("ALLOWED_USER_IDS", ""),
			APIBaseURL:     getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
			ClientTimeout:  clientTimeout,
		},
		GitHub: GitHubConfig{
			Token:         getSecret("GITHUB_TOKEN", KeychainGitHubToken),
			Repo:          getEnv("GITHUB_REPO", "dikeckaan/neko-actions"),
			WorkflowName:  getEnv("WORKFLOW_NAME", "telegram-bot.yml"),
			Branch:        getEnv("GITHUB_BRANCH", "improvements"),
			TunnelToken:   getEnv("CLOUDFLARE_TUNNEL_TOKEN", ""),
			APIBaseURL:    getEnv("GITHUB_API_URL", "https://api.github.com"),
			ClientTimeout: clientTimeout,
		},
		Feishu: FeishuConfig{
			AppID:       getEnv("FEISHU_APP_ID", ""),
			AppSecret:   getEnv("FEISHU_APP_SECRET", ""),
			AuditChatID: getEnv("FEISHU_AUDIT_CHAT_ID", ""),
		},
		CommandsFile: getEnv("COMMANDS_FILE", ""),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// IsValid checks if the configuration is valid
func (c *Config) IsValid() error {
	if c.Telegram.BotToken == "" {
		return &ConfigError{Field: "telegram", Message: "TELEGRAM_BOT_TOKEN is required"}
	}
	if c.GitHub.Token == "" {
		return &ConfigError{Field: "github", Message: "GITHUB_TOKEN is required"}
	}
	if strings.TrimSpace(c.Telegram.AllowedUserIDs) == "" {
		return &ConfigError{Field: "telegram", Message: "ALLOWED_USER_IDS is required"}
	}
	if c.GitHub.Repo == "" || !strings.Contains(c.GitHub.Repo, "/") {
		return &ConfigError{Field: "github", Message: "GITHUB_REPO must be owner/name"}
	}
	if c.GitHub.WorkflowName == "" || c.GitHub.Branch == "" {
		return &ConfigError{Field: "github", Message: "WORKFLOW_NAME and GITHUB_BRANCH are required"}
	}
	if _, ok := logger.ParseLevel(c.LogLevel); !ok {
		return &ConfigError{Field: "log", Message: "unknown LOG_LEVEL " + c.LogLevel}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
