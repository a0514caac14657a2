package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Logging  LoggingConfig  `toml:"logging"`
	Report   ReportConfig   `toml:"report"`
	Stories  StoriesConfig  `toml:"stories"`
	Analysis AnalysisConfig `toml:"analysis"`
	HTML     HTMLConfig     `toml:"html"`
	Generate GenerateConfig `toml:"generate"`
	LLM      LLMConfig      `toml:"llm"`
	OpenAI   OpenAIConfig   `toml:"openai"`
	Claude   ClaudeConfig   `toml:"claude"`
	Gemini   GeminiConfig   `toml:"gemini"`
	Audit    AuditConfig    `toml:"audit"`
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=debug info warn error"`
	Output []string `toml:"output" validate:"dive,oneof=stdout console file"` // "stdout", "file"
	File   string   `toml:"file"`                                             // Log file path when "file" output is enabled
}

// ReportConfig locates the Playwright JSON report
type ReportConfig struct {
	Path string `toml:"path" validate:"required"`
}

// StoriesConfig locates the markdown user stories
type StoriesConfig struct {
	Dir       string `toml:"dir" validate:"required"`
	Extension string `toml:"extension" validate:"required,startswith=."`
}

// AnalysisConfig controls the failure analysis run
type AnalysisConfig struct {
	Model          string `toml:"model"`                             // Completion model (provider prefix optional)
	AppURL         string `toml:"app_url" validate:"omitempty,url"`  // Application under test, quoted in the prompt
	Output         string `toml:"output" validate:"required"`        // Analysis document path
	Format         string `toml:"format" validate:"oneof=json yaml"` // Analysis document format
	Checkpoint     bool   `toml:"checkpoint"`                        // Rewrite the document after every analysed test
	MarkdownOutput string `toml:"markdown_output"`                   // Optional markdown export of all analyses
}

// HTMLConfig controls the dashboard renderer
type HTMLConfig struct {
	Enabled        bool   `toml:"enabled"`
	Output         string `toml:"output" validate:"required"`
	Stylesheet     string `toml:"stylesheet" validate:"required"` // Written next to the dashboard and linked relatively
	Title          string `toml:"title"`
	Open           bool   `toml:"open"`            // Open the dashboard in the default browser
	RenderMarkdown bool   `toml:"render_markdown"` // Render markdown fragments returned by the model
	Sanitize       bool   `toml:"sanitize"`        // Strip scripts and event handlers from fragments
	PDF            string `toml:"pdf"`             // Optional PDF export path (requires Chrome)
}

// GenerateConfig controls Playwright test synthesis
type GenerateConfig struct {
	Model    string `toml:"model"`
	TestsDir string `toml:"tests_dir" validate:"required"`
	Suffix   string `toml:"suffix" validate:"required"`
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderOpenAI uses the OpenAI API
	LLMProviderOpenAI LLMProvider = "openai"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
)

// LLMConfig contains configuration shared by all providers
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider" validate:"oneof=openai claude gemini"`
}

// OpenAIConfig contains OpenAI API configuration
type OpenAIConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	BaseURL     string  `toml:"base_url" validate:"omitempty,url"` // Optional compatible endpoint
	Temperature float32 `toml:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `toml:"max_tokens" validate:"gte=0"`
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	MaxTokens   int     `toml:"max_tokens" validate:"gt=0"`
	Temperature float32 `toml:"temperature" validate:"gte=0,lte=1"`
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Temperature float32 `toml:"temperature" validate:"gte=0,lte=2"`
}

// AuditConfig controls the completion audit trail
type AuditConfig struct {
	Enabled    bool   `toml:"enabled"`
	Path       string `toml:"path" validate:"required_if=Enabled true"`
	LogPrompts bool   `toml:"log_prompts"` // Store prompt and response text with each entry
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
			File:   "./logs/testpilot.log",
		},
		Report: ReportConfig{
			Path: "playwright-report.json",
		},
		Stories: StoriesConfig{
			Dir:       "./stories",
			Extension: ".md",
		},
		Analysis: AnalysisConfig{
			Model:  "gpt-4.1",
			AppURL: "https://the-internet.herokuapp.com",
			Output: "ai-analysis.json",
			Format: "json",
		},
		HTML: HTMLConfig{
			Output:         "ai-report.html",
			Stylesheet:     "ai-report.css",
			Title:          "AI Playwright Failure Analysis",
			RenderMarkdown: true,
			Sanitize:       true,
		},
		Generate: GenerateConfig{
			Model:    "gpt-4.1-mini",
			TestsDir: "./tests",
			Suffix:   ".spec.js",
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderOpenAI,
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4.1",
		},
		Claude: ClaudeConfig{
			Model:     "claude-sonnet-4-20250514",
			MaxTokens: 8192,
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash",
		},
		Audit: AuditConfig{
			Path:       "./data/audit",
			LogPrompts: true,
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority: default -> file1 -> file2 -> ... -> env
// Later files override earlier files. CLI flags are applied afterwards with ApplyFlagOverrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if level := os.Getenv("TESTPILOT_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("TESTPILOT_LOG_OUTPUT"); output != "" {
		config.Logging.Output = splitList(output)
	}

	if path := os.Getenv("TESTPILOT_REPORT_PATH"); path != "" {
		config.Report.Path = path
	}
	if dir := os.Getenv("TESTPILOT_STORIES_DIR"); dir != "" {
		config.Stories.Dir = dir
	}

	if model := os.Getenv("TESTPILOT_ANALYSIS_MODEL"); model != "" {
		config.Analysis.Model = model
	}
	if appURL := os.Getenv("TESTPILOT_APP_URL"); appURL != "" {
		config.Analysis.AppURL = appURL
	}
	if output := os.Getenv("TESTPILOT_ANALYSIS_OUTPUT"); output != "" {
		config.Analysis.Output = output
	}
	if checkpoint := os.Getenv("TESTPILOT_ANALYSIS_CHECKPOINT"); checkpoint != "" {
		if c, err := strconv.ParseBool(checkpoint); err == nil {
			config.Analysis.Checkpoint = c
		}
	}

	if model := os.Getenv("TESTPILOT_GENERATE_MODEL"); model != "" {
		config.Generate.Model = model
	}
	if dir := os.Getenv("TESTPILOT_TESTS_DIR"); dir != "" {
		config.Generate.TestsDir = dir
	}

	if provider := os.Getenv("TESTPILOT_LLM_DEFAULT_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}

	// Provider keys: the vendor's standard variable first, TESTPILOT_ prefix takes priority
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	}
	if apiKey := os.Getenv("TESTPILOT_OPENAI_API_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	}
	if baseURL := os.Getenv("TESTPILOT_OPENAI_BASE_URL"); baseURL != "" {
		config.OpenAI.BaseURL = baseURL
	}
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("TESTPILOT_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if model := os.Getenv("TESTPILOT_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if apiKey := os.Getenv("TESTPILOT_GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("TESTPILOT_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}

	if enabled := os.Getenv("TESTPILOT_AUDIT_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Audit.Enabled = e
		}
	}
	if path := os.Getenv("TESTPILOT_AUDIT_PATH"); path != "" {
		config.Audit.Path = path
	}
}

// FlagOverrides holds command-line values that take precedence over every other source.
// Zero values leave the config untouched.
type FlagOverrides struct {
	LogLevel      string
	ReportPath    string
	StoriesDir    string
	Output        string
	AnalysisModel string
	GenerateModel string
	TestsDir      string
	HTML          bool
	Open          bool
	Checkpoint    bool
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, flags FlagOverrides) {
	if flags.LogLevel != "" {
		config.Logging.Level = flags.LogLevel
	}
	if flags.ReportPath != "" {
		config.Report.Path = flags.ReportPath
	}
	if flags.StoriesDir != "" {
		config.Stories.Dir = flags.StoriesDir
	}
	if flags.Output != "" {
		config.Analysis.Output = flags.Output
	}
	if flags.AnalysisModel != "" {
		config.Analysis.Model = flags.AnalysisModel
	}
	if flags.GenerateModel != "" {
		config.Generate.Model = flags.GenerateModel
	}
	if flags.TestsDir != "" {
		config.Generate.TestsDir = flags.TestsDir
	}
	if flags.HTML {
		config.HTML.Enabled = true
	}
	if flags.Open {
		config.HTML.Enabled = true
		config.HTML.Open = true
	}
	if flags.Checkpoint {
		config.Analysis.Checkpoint = true
	}
}

// Validate checks the resolved configuration
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ResolveAPIKey returns the configured key for a provider or an error naming
// the variables that can supply it. Environment overrides are already merged
// into the config by LoadFromFiles.
func ResolveAPIKey(provider LLMProvider, configured string) (string, error) {
	if key := strings.TrimSpace(configured); key != "" {
		return key, nil
	}

	switch provider {
	case LLMProviderOpenAI:
		return "", fmt.Errorf("OpenAI API key not configured (set OPENAI_API_KEY, TESTPILOT_OPENAI_API_KEY or openai.api_key)")
	case LLMProviderClaude:
		return "", fmt.Errorf("Anthropic API key not configured (set ANTHROPIC_API_KEY, TESTPILOT_CLAUDE_API_KEY or claude.api_key)")
	case LLMProviderGemini:
		return "", fmt.Errorf("Gemini API key not configured (set GEMINI_API_KEY, TESTPILOT_GEMINI_API_KEY or gemini.api_key)")
	default:
		return "", fmt.Errorf("API key not configured for provider %q", provider)
	}
}

// splitList splits a comma-separated value, dropping empty entries
func splitList(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
