package config

import (
	"log"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

// EligibilityAuthority selects who decides candidate eligibility: the
// generation model's self-reported "apto" field, or the local rule set
// evaluated over the collected answers.
type EligibilityAuthority string

const (
	AuthorityModel EligibilityAuthority = "model"
	AuthorityRules EligibilityAuthority = "rules"
)

type SessionBackend string

const (
	SessionMemory SessionBackend = "memory"
	SessionSQLite SessionBackend = "sqlite"
)

type Config struct {
	Port        int    `env:"PORT" envDefault:"10000"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"filtro-candidatos"`

	// LLM settings: primary collaborator plus a cheaper fallback.
	LLMProvider         LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	FallbackLLMProvider LLMProvider `env:"FALLBACK_LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey        string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL       string      `env:"OPENAI_BASE_URL"`
	OpenAIModel         string      `env:"OPENAI_MODEL" envDefault:"gpt-4o"`
	OpenAIFallbackModel string      `env:"OPENAI_FALLBACK_MODEL" envDefault:"gpt-4o-mini"`
	YandexOAuthToken    string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID      string      `env:"YANDEX_FOLDER_ID"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Retry attempts after the first failure, per collaborator.
	GenerationRetries  uint64 `env:"GENERATION_RETRIES" envDefault:"0"`
	PersistenceRetries uint64 `env:"PERSISTENCE_RETRIES" envDefault:"1"`

	// Prompts
	SystemPromptPath string `env:"SYSTEM_PROMPT_PATH" envDefault:"prompts/system_prompt.txt"`

	// Turn audit trail (optional, JSONL)
	LogFilePath string `env:"LOG_FILE_PATH" envDefault:"logs/log.jsonl"`

	// Eligibility
	EligibilityAuthority EligibilityAuthority `env:"ELIGIBILITY_AUTHORITY" envDefault:"model"`

	// Sessions
	SessionBackend SessionBackend `env:"SESSION_BACKEND" envDefault:"memory"`
	SessionDBPath  string         `env:"SESSION_DB_PATH" envDefault:"data/sessions.db"`

	// Google Sheets persistence
	GoogleCredentialsJSON string `env:"GOOGLE_CREDENTIALS"`
	SheetID               string `env:"SHEET_ID"`
	EligibleSheet         string `env:"ELIGIBLE_SHEET" envDefault:"Candidatos APTOS"`
	IneligibleSheet       string `env:"INELIGIBLE_SHEET" envDefault:"Candidatos NO APTOS"`
	DocenteColumn         bool   `env:"DOCENTE_COLUMN" envDefault:"false"`

	// Telegram transport (optional second frontend)
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`

	// Daily operations summary
	DailySummary     bool   `env:"DAILY_SUMMARY" envDefault:"true"`
	DailySummarySpec string `env:"DAILY_SUMMARY_SPEC" envDefault:"0 21 * * *"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
