package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
	Game     GameConfig     `mapstructure:"game"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
	// Token lifetimes in minutes.
	TokenLifetimeMinutes        int `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	// EvaluatorModel scores parent responses; ResponderModel voices the child.
	EvaluatorModel    string `mapstructure:"evaluator_model" validate:"required"`
	ResponderModel    string `mapstructure:"responder_model" validate:"required"`
	MaxRetries        int    `mapstructure:"max_retries"         validate:"gte=0"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0"`
}

// GameConfig contains the roleplay engine's scoring and progression policy.
type GameConfig struct {
	// PassThreshold is the default total score required to pass a round.
	PassThreshold int `mapstructure:"pass_threshold" validate:"required,gt=0"`
	// MaxRoundAttempts bounds retries within a round for scenarios that do
	// not set their own limit.
	MaxRoundAttempts int `mapstructure:"max_round_attempts" validate:"required,gt=0"`
	// MasteryScoreThreshold is the overall score that earns the
	// expert_communicator badge.
	MasteryScoreThreshold float64 `mapstructure:"mastery_score_threshold" validate:"required,gt=0"`
	// ConsumeAttemptOnEvaluationFailure controls whether a failed evaluator
	// call still uses up a round attempt. Enabled by default so a flaky
	// dependency cannot be used to bypass the attempt limit.
	ConsumeAttemptOnEvaluationFailure bool `mapstructure:"consume_attempt_on_evaluation_failure"`
	// CriteriaMaxScores overrides per-criterion score ceilings; unlisted
	// criteria default to 3.
	CriteriaMaxScores map[string]int `mapstructure:"criteria_max_scores"`
	// ScenariosDir is the directory scenario YAML files are loaded from.
	ScenariosDir string `mapstructure:"scenarios_dir" validate:"required"`
}
