package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/vladimiradmaev/carb-calculator/internal/config"
)

func main() {
	fmt.Println("🔍 Checking configuration...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  .env file not found: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Invalid configuration:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Configuration is valid!")
	fmt.Printf("📋 Details:\n")
	fmt.Printf("  - Telegram Token: %s\n", maskToken(cfg.TelegramToken))
	fmt.Printf("  - Owner Telegram ID: %s\n", ownerLabel(cfg.OwnerTelegramID))
	fmt.Printf("  - Gemini API Key: %s\n", maskToken(cfg.GeminiAPIKey))
	fmt.Printf("  - OpenAI API Key: %s\n", maskToken(cfg.OpenAIAPIKey))
	fmt.Printf("  - Storage Driver: %s\n", cfg.Storage.Driver)
	fmt.Printf("  - Storage Namespace: %s\n", cfg.Storage.Namespace)

	switch cfg.Storage.Driver {
	case config.DriverSQLite, config.DriverBadger:
		fmt.Printf("  - Storage Path: %s\n", cfg.Storage.Path)
	case config.DriverPostgres:
		fmt.Printf("  - DB Host: %s\n", cfg.DB.Host)
		fmt.Printf("  - DB Port: %s\n", cfg.DB.Port)
		fmt.Printf("  - DB User: %s\n", cfg.DB.User)
		fmt.Printf("  - DB Name: %s\n", cfg.DB.DBName)
	case config.DriverRedis:
		fmt.Printf("  - Redis Addr: %s:%s\n", cfg.Redis.Host, cfg.Redis.Port)
		fmt.Printf("  - Redis DB: %d\n", cfg.Redis.DB)
	}

	fmt.Printf("  - Log Level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  - Log Format: %s\n", cfg.Logger.Format)

	if err := cfg.ValidateBot(); err != nil {
		fmt.Printf("⚠️  The bot will not start: %v\n", err)
	}
}

func maskToken(token string) string {
	if token == "" {
		return "<not set>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func ownerLabel(id int64) string {
	if id == 0 {
		return "<anyone>"
	}
	return fmt.Sprintf("%d", id)
}
