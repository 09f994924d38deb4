package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/quadrant-labs/StrategyPipe/internal/api"
	"github.com/quadrant-labs/StrategyPipe/internal/enrich"
	"github.com/quadrant-labs/StrategyPipe/internal/flow"
	"github.com/quadrant-labs/StrategyPipe/internal/genai"
	"github.com/quadrant-labs/StrategyPipe/internal/store"
	"github.com/quadrant-labs/StrategyPipe/internal/util"
)

// Config holds environment configuration
type Config struct {
	OpenAIKey      string        `env:"OPENAI_API_KEY"`
	OpenAIEndpoint string        `env:"OPENAI_ENDPOINT"`
	OpenAIModel    string        `env:"OPENAI_MODEL"`
	APIAddr        string        `env:"API_ADDR"`
	APIToken       string        `env:"API_TOKEN"`
	AuthDisabled   bool          `env:"AUTH_DISABLED"`
	SessionTTL     time.Duration `env:"SESSION_TTL"`
	PromptDelay    time.Duration `env:"PROMPT_DELAY"`
	RestartDelay   time.Duration `env:"RESTART_DELAY"`
}

// Flags holds command line flag values
type Flags struct {
	openaiKey      *string
	openaiEndpoint *string
	openaiModel    *string
	apiAddr        *string
	apiToken       *string
	authDisabled   *bool
}

func main() {
	// Initialize structured logger
	initializeLogger()

	// Load environment configuration
	config, err := loadEnvironmentConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Parse command line flags
	flags := parseCommandLineFlags(config)

	// The catalog is static; a broken catalog is a programming error caught
	// at startup rather than mid-conversation.
	catalog := flow.DefaultCatalog()
	if err := catalog.Validate(); err != nil {
		slog.Error("Question catalog is invalid", "error", err)
		os.Exit(1)
	}

	// Build the model client. A missing credential is fatal here, before any
	// session can reach an enrichment call.
	genaiClient, err := genai.NewClient(buildGenAIOptions(flags)...)
	if err != nil {
		slog.Error("Failed to create GenAI client", "error", err)
		os.Exit(1)
	}

	gateway := enrich.NewGateway(genaiClient)
	engine := flow.NewEngine(catalog, gateway, buildEngineOptions(config)...)
	defer engine.Stop()
	sessions := store.NewSessionStore(config.SessionTTL)

	server := api.NewServer(engine, sessions, buildAPIOptions(flags)...)

	slog.Info("Bootstrapping StrategyPipe", "questions", len(catalog), "sections", catalog.TotalSections())
	if err := server.Run(); err != nil {
		slog.Error("StrategyPipe failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("StrategyPipe exited successfully")
}

// initializeLogger sets up structured logging. Debug level is opt-in via
// LOG_DEBUG.
func initializeLogger() {
	level := slog.LevelInfo
	if util.ParseBoolEnv("LOG_DEBUG", false) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	var config Config
	if err := env.Parse(&config); err != nil {
		return Config{}, err
	}

	slog.Debug("environment variables loaded",
		"OPENAI_API_KEY_SET", config.OpenAIKey != "",
		"OPENAI_ENDPOINT", config.OpenAIEndpoint,
		"OPENAI_MODEL", config.OpenAIModel,
		"API_ADDR", config.APIAddr,
		"API_TOKEN_SET", config.APIToken != "",
		"AUTH_DISABLED", config.AuthDisabled,
		"SESSION_TTL", config.SessionTTL,
		"PROMPT_DELAY", config.PromptDelay,
		"RESTART_DELAY", config.RestartDelay)

	return config, nil
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		openaiKey:      flag.String("openai-api-key", config.OpenAIKey, "OpenAI API key (overrides $OPENAI_API_KEY)"),
		openaiEndpoint: flag.String("openai-endpoint", config.OpenAIEndpoint, "Azure OpenAI endpoint (overrides $OPENAI_ENDPOINT)"),
		openaiModel:    flag.String("openai-model", config.OpenAIModel, "model or deployment name (overrides $OPENAI_MODEL)"),
		apiAddr:        flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
		apiToken:       flag.String("api-token", config.APIToken, "bearer token for API auth (overrides $API_TOKEN)"),
		authDisabled:   flag.Bool("auth-disabled", config.AuthDisabled, "disable API auth for local development (overrides $AUTH_DISABLED)"),
	}

	flag.Parse()

	slog.Debug("flags parsed",
		"openaiKeySet", *flags.openaiKey != "",
		"openaiEndpoint", *flags.openaiEndpoint,
		"openaiModel", *flags.openaiModel,
		"apiAddr", *flags.apiAddr,
		"apiTokenSet", *flags.apiToken != "",
		"authDisabled", *flags.authDisabled)

	return flags
}

// buildGenAIOptions constructs GenAI configuration options
func buildGenAIOptions(flags Flags) []genai.Option {
	var genaiOpts []genai.Option
	if *flags.openaiKey != "" {
		genaiOpts = append(genaiOpts, genai.WithAPIKey(*flags.openaiKey))
	}
	if *flags.openaiEndpoint != "" {
		genaiOpts = append(genaiOpts, genai.WithEndpoint(*flags.openaiEndpoint))
	}
	if *flags.openaiModel != "" {
		genaiOpts = append(genaiOpts, genai.WithModel(*flags.openaiModel))
	}
	return genaiOpts
}

// buildEngineOptions constructs flow engine configuration options
func buildEngineOptions(config Config) []flow.EngineOption {
	var engineOpts []flow.EngineOption
	if config.PromptDelay > 0 {
		engineOpts = append(engineOpts, flow.WithPromptDelay(config.PromptDelay))
	}
	if config.RestartDelay > 0 {
		engineOpts = append(engineOpts, flow.WithRestartDelay(config.RestartDelay))
	}
	return engineOpts
}

// buildAPIOptions constructs API server configuration options
func buildAPIOptions(flags Flags) []api.Option {
	var apiOpts []api.Option
	if *flags.apiAddr != "" {
		apiOpts = append(apiOpts, api.WithAddr(*flags.apiAddr))
	}
	if *flags.apiToken != "" {
		apiOpts = append(apiOpts, api.WithAuthToken(*flags.apiToken))
	}
	if *flags.authDisabled {
		apiOpts = append(apiOpts, api.WithAuthDisabled(true))
	}
	return apiOpts
}
