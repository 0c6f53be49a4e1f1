// ABOUTME: Entry point for relay-telegram bot
// ABOUTME: Connects Telegram chats to the relay gateway API

package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
)

const banner = `
    ╭──────────────────────────────────────╮
    │                                      │
    │   ┏━┓┏━╸╻  ┏━┓╻ ╻   ┏┓ ┏━┓╺┳╸       │
    │   ┣┳┛┣╸ ┃  ┣━┫┗┳┛   ┣┻┓┃ ┃ ┃        │
    │   ╹┗╸┗━╸┗━╸╹ ╹ ╹    ┗━┛┗━┛ ╹        │
    │                                      │
    │        relay-telegram bridge         │
    │                                      │
    ╰──────────────────────────────────────╯
`

// getConfigPath returns the path to the telegram bot config file.
// Priority: RELAY_TELEGRAM_CONFIG env var > XDG_CONFIG_HOME/chat-relay/telegram-bot.toml > ~/.config/chat-relay/telegram-bot.toml
func getConfigPath() string {
	if envPath := os.Getenv("RELAY_TELEGRAM_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "telegram-bot.toml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "chat-relay", "telegram-bot.toml")
}

func main() {
	// Check for init command
	if len(os.Args) > 1 && os.Args[1] == "init" {
		if err := runInit(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Print banner
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	configPath := getConfigPath()

	// Load config
	cfg, err := Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config from %s: %w", configPath, err)
	}

	// Setup logger
	logger := setupLogger(cfg.Logging.Level)

	// Print startup info
	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config:  %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("Gateway: %s\n", cfg.Gateway.URL)
	if len(cfg.Bridge.AllowedChats) > 0 {
		green.Print("    ▶ ")
		fmt.Printf("Chats:   %d allowed\n", len(cfg.Bridge.AllowedChats))
	}
	fmt.Println()

	// Create bot
	bot, err := NewBot(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating bot: %w", err)
	}

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Run bot
	logger.Info("starting bot")
	return bot.Run(ctx)
}

func runInit() error {
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println("    Interactive Setup")
	fmt.Println("    -----------------")
	fmt.Println()

	configPath := getConfigPath()

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		yellow.Printf("    Config already exists at %s\n", configPath)
		fmt.Print("    Overwrite? [y/N]: ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("    Aborted.")
			return nil
		}
		fmt.Println()
	}

	reader := bufio.NewReader(os.Stdin)

	// Gather config values
	green.Print("    ▶ ")
	fmt.Print("Bot token (from @BotFather, or ${TELEGRAM_BOT_TOKEN}): ")
	token, _ := reader.ReadString('\n')
	token = strings.TrimSpace(token)
	if token == "" {
		token = "${TELEGRAM_BOT_TOKEN}"
	}

	green.Print("    ▶ ")
	fmt.Print("Bot username (optional): ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)

	green.Print("    ▶ ")
	fmt.Print("Gateway URL [http://localhost:8080]: ")
	gatewayURL, _ := reader.ReadString('\n')
	gatewayURL = strings.TrimSpace(gatewayURL)
	if gatewayURL == "" {
		gatewayURL = "http://localhost:8080"
	}

	green.Print("    ▶ ")
	fmt.Print("Send typing indicator while waiting? [Y/n]: ")
	typing, _ := reader.ReadString('\n')
	typingIndicator := strings.ToLower(strings.TrimSpace(typing)) != "n"

	green.Print("    ▶ ")
	fmt.Print("Log level (debug/info/warn/error) [info]: ")
	logLevel, _ := reader.ReadString('\n')
	logLevel = strings.TrimSpace(logLevel)
	if logLevel == "" {
		logLevel = "info"
	}

	config := renderConfig(token, username, gatewayURL, typingIndicator, logLevel)

	// Ensure config directory exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Write config file
	if err := os.WriteFile(configPath, []byte(config), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Println()
	green.Printf("    ✓ Config written to %s\n", configPath)
	fmt.Println()
	fmt.Println("    Next steps:")
	fmt.Println("    1. Run: relay-telegram")
	fmt.Println()

	return nil
}

// renderConfig produces the TOML written by init. Kept separate so the
// output can be verified against Load.
func renderConfig(token, username, gatewayURL string, typingIndicator bool, logLevel string) string {
	config := fmt.Sprintf(`# relay-telegram bot configuration
# Generated by relay-telegram init

[telegram]
token = "%s"
`, token)

	if username != "" {
		config += fmt.Sprintf("username = \"%s\"\n", username)
	}

	config += fmt.Sprintf(`
[gateway]
url = "%s"

[bridge]
# Only respond in these chats (empty = all chats)
allowed_chats = []
# Send typing indicator while waiting for the gateway
typing_indicator = %t

[logging]
level = "%s"
`, gatewayURL, typingIndicator, logLevel)

	return config
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
