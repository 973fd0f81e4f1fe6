package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"minidxo/internal/agent"
)

type Server struct {
	Port          string
	RelayToken    string
	Gateway       Gateway
	DatabaseURL   string
	MigrationsDir string
	Telegram      Telegram
	ReportFont    string
	Log           Log
}

type Gateway struct {
	URL    string
	APIKey string
	Model  string
}

type Telegram struct {
	Token        string
	DoctorChatID int64
}

type Log struct {
	Level  string
	Format string
}

type Client struct {
	RelayURL   string
	RelayToken string
	Log        Log
}

// LoadServer reads the relay server settings from .env and the environment.
// A missing gateway credential is not an error here: the relay reports it per
// request.
func LoadServer() *Server {
	_ = godotenv.Load()

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}
	chatID, _ := strconv.ParseInt(strings.TrimSpace(os.Getenv("DOCTOR_CHAT_ID")), 10, 64)

	return &Server{
		Port:       port,
		RelayToken: strings.TrimSpace(os.Getenv("RELAY_TOKEN")),
		Gateway: Gateway{
			URL:    firstNonEmpty(os.Getenv("GATEWAY_URL"), agent.DefaultGatewayURL),
			APIKey: firstNonEmpty(os.Getenv("GATEWAY_API_KEY"), os.Getenv("LOVABLE_API_KEY")),
			Model:  firstNonEmpty(os.Getenv("GATEWAY_MODEL"), agent.DefaultModel),
		},
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		MigrationsDir: firstNonEmpty(os.Getenv("MIGRATIONS_DIR"), "migrations"),
		Telegram: Telegram{
			Token:        strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
			DoctorChatID: chatID,
		},
		ReportFont: strings.TrimSpace(os.Getenv("REPORT_FONT")),
		Log:        loadLog(),
	}
}

// LoadClient reads the terminal client settings.
func LoadClient() *Client {
	_ = godotenv.Load()

	return &Client{
		RelayURL:   firstNonEmpty(os.Getenv("RELAY_URL"), "http://localhost:8080"),
		RelayToken: strings.TrimSpace(os.Getenv("RELAY_TOKEN")),
		Log:        loadLog(),
	}
}

func loadLog() Log {
	return Log{
		Level:  firstNonEmpty(os.Getenv("LOG_LEVEL"), "info"),
		Format: firstNonEmpty(os.Getenv("LOG_FORMAT"), "text"),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
