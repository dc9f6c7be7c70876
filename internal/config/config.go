// Package config loads service settings from the environment and an optional
// JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jonathan/cv-perfecto/internal/extraction"
	"github.com/jonathan/cv-perfecto/internal/llm"
	"github.com/jonathan/cv-perfecto/internal/logger"
	"github.com/jonathan/cv-perfecto/internal/schemas"
	"github.com/jonathan/cv-perfecto/internal/storage"
)

// Artifact store backends.
const (
	StoreLocal = "local"
	StoreMinIO = "minio"
)

// AppConfig is everything the serve and optimize commands need.
type AppConfig struct {
	Port           int
	DatabaseURL    string
	AllowedOrigins string

	LLM llm.Config

	TemplatePath  string
	OutputDir     string
	UploadsDir    string
	OutputMaxAge  time.Duration
	ArtifactStore string
	MinIO         storage.MinIOConfig

	Log logger.Config

	ConfidenceThreshold int
	Garble              extraction.GarbleThresholds
}

// FromEnv builds an AppConfig from environment variables.
func FromEnv() (*AppConfig, error) {
	port, err := envInt("PORT", 5000)
	if err != nil {
		return nil, err
	}
	maxAgeHours, err := envInt("OUTPUT_MAX_AGE_HOURS", int(storage.DefaultMaxAge/time.Hour))
	if err != nil {
		return nil, err
	}
	threshold, err := envInt("EXTRACTION_CONFIDENCE_THRESHOLD", extraction.ConfidenceThreshold)
	if err != nil {
		return nil, err
	}
	garble := extraction.DefaultGarbleThresholds()
	if garble.MinLength, err = envInt("GARBLE_MIN_LENGTH", garble.MinLength); err != nil {
		return nil, err
	}
	if garble.MinPrintableRatio, err = envFloat("GARBLE_MIN_PRINTABLE_RATIO", garble.MinPrintableRatio); err != nil {
		return nil, err
	}
	if garble.MaxBinaryPatterns, err = envInt("GARBLE_MAX_BINARY_PATTERNS", garble.MaxBinaryPatterns); err != nil {
		return nil, err
	}

	provider, err := llm.ParseProvider(envString("LLM_PROVIDER", string(llm.ProviderPerplexity)))
	if err != nil {
		return nil, err
	}
	llmCfg := llm.Config{Provider: provider, Models: llm.SplitModels(os.Getenv("LLM_MODELS"))}
	switch provider {
	case llm.ProviderGemini:
		llmCfg.APIKey = envString("GEMINI_API_KEY", "")
		if len(llmCfg.Models) == 0 {
			llmCfg.Models = append([]string(nil), llm.DefaultGeminiModels...)
		}
	default:
		llmCfg.APIKey = envString("PERPLEXITY_API_KEY", "")
		llmCfg.BaseURL = envString("PERPLEXITY_BASE_URL", llm.DefaultPerplexityBaseURL)
		if len(llmCfg.Models) == 0 {
			llmCfg.Models = append([]string(nil), llm.DefaultPerplexityModels...)
		}
	}

	return &AppConfig{
		Port:           port,
		DatabaseURL:    envString("DATABASE_URL", ""),
		AllowedOrigins: envString("CORS_ALLOWED_ORIGINS", "*"),
		LLM:            llmCfg,
		TemplatePath:   envString("TEMPLATE_PATH", "templates/resume_template.ltx"),
		OutputDir:      envString("OUTPUT_DIR", "output"),
		UploadsDir:     envString("UPLOADS_DIR", "uploads"),
		OutputMaxAge:   time.Duration(maxAgeHours) * time.Hour,
		ArtifactStore:  envString("ARTIFACT_STORE", StoreLocal),
		MinIO: storage.MinIOConfig{
			Endpoint:        envString("MINIO_ENDPOINT", ""),
			AccessKeyID:     envString("MINIO_ACCESS_KEY", ""),
			SecretAccessKey: envString("MINIO_SECRET_KEY", ""),
			Bucket:          envString("MINIO_BUCKET", "resumes"),
			Location:        envString("MINIO_LOCATION", ""),
			UseSSL:          envBool("MINIO_USE_SSL", false),
		},
		Log: logger.Config{
			Level:  envString("LOG_LEVEL", "info"),
			Format: envString("LOG_FORMAT", "json"),
		},
		ConfidenceThreshold: threshold,
		Garble:              garble,
	}, nil
}

// Validate checks settings that would otherwise fail late at request time.
func (c *AppConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.OutputMaxAge <= 0 {
		return fmt.Errorf("output max age must be positive")
	}
	if c.ConfidenceThreshold < 0 {
		return fmt.Errorf("confidence threshold must be non-negative")
	}
	if c.Garble.MinPrintableRatio < 0 || c.Garble.MinPrintableRatio > 1 {
		return fmt.Errorf("min printable ratio must be between 0 and 1, got %v", c.Garble.MinPrintableRatio)
	}
	if len(c.LLM.Models) == 0 {
		return fmt.Errorf("at least one LLM model is required")
	}
	switch c.ArtifactStore {
	case StoreLocal:
	case StoreMinIO:
		if c.MinIO.Endpoint == "" {
			return fmt.Errorf("MINIO_ENDPOINT is required when ARTIFACT_STORE=minio")
		}
	default:
		return fmt.Errorf("unknown artifact store %q", c.ArtifactStore)
	}
	return nil
}

// FileConfig is the optional JSON file passed with --config. Zero values
// leave the environment setting in place.
type FileConfig struct {
	Port              int    `json:"port,omitempty"`
	DatabaseURL       string `json:"database_url,omitempty"`
	AllowedOrigins    string `json:"allowed_origins,omitempty"`
	TemplatePath      string `json:"template_path,omitempty"`
	OutputDir         string `json:"output_dir,omitempty"`
	UploadsDir        string `json:"uploads_dir,omitempty"`
	OutputMaxAgeHours int    `json:"output_max_age_hours,omitempty"`
	ArtifactStore     string `json:"artifact_store,omitempty"`

	LLM struct {
		Provider string   `json:"provider,omitempty"`
		BaseURL  string   `json:"base_url,omitempty"`
		Models   []string `json:"models,omitempty"`
	} `json:"llm"`

	MinIO struct {
		Endpoint string `json:"endpoint,omitempty"`
		Bucket   string `json:"bucket,omitempty"`
		Location string `json:"location,omitempty"`
		UseSSL   *bool  `json:"use_ssl,omitempty"`
	} `json:"minio"`

	Log struct {
		Level  string `json:"level,omitempty"`
		Format string `json:"format,omitempty"`
	} `json:"log"`

	Extraction struct {
		ConfidenceThreshold *int     `json:"confidence_threshold,omitempty"`
		MinLength           *int     `json:"min_length,omitempty"`
		MinPrintableRatio   *float64 `json:"min_printable_ratio,omitempty"`
		MaxBinaryPatterns   *int     `json:"max_binary_patterns,omitempty"`
	} `json:"extraction"`
}

// LoadFile reads and schema-checks a config file.
func LoadFile(path string) (*FileConfig, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := schemas.ValidateConfig(data); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	var fc FileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return &fc, nil
}

// MergeWithDefaults returns a copy of defaults with every value set in the
// file applied on top.
func (f *FileConfig) MergeWithDefaults(defaults *AppConfig) (*AppConfig, error) {
	merged := *defaults
	merged.LLM.Models = append([]string(nil), defaults.LLM.Models...)

	setInt(&merged.Port, f.Port)
	setString(&merged.DatabaseURL, f.DatabaseURL)
	setString(&merged.AllowedOrigins, f.AllowedOrigins)
	setString(&merged.TemplatePath, f.TemplatePath)
	setString(&merged.OutputDir, f.OutputDir)
	setString(&merged.UploadsDir, f.UploadsDir)
	setString(&merged.ArtifactStore, f.ArtifactStore)
	if f.OutputMaxAgeHours > 0 {
		merged.OutputMaxAge = time.Duration(f.OutputMaxAgeHours) * time.Hour
	}

	if f.LLM.Provider != "" {
		p, err := llm.ParseProvider(f.LLM.Provider)
		if err != nil {
			return nil, err
		}
		merged.LLM.Provider = p
	}
	setString(&merged.LLM.BaseURL, f.LLM.BaseURL)
	if len(f.LLM.Models) > 0 {
		merged.LLM.Models = append([]string(nil), f.LLM.Models...)
	}

	setString(&merged.MinIO.Endpoint, f.MinIO.Endpoint)
	setString(&merged.MinIO.Bucket, f.MinIO.Bucket)
	setString(&merged.MinIO.Location, f.MinIO.Location)
	if f.MinIO.UseSSL != nil {
		merged.MinIO.UseSSL = *f.MinIO.UseSSL
	}

	setString(&merged.Log.Level, f.Log.Level)
	setString(&merged.Log.Format, f.Log.Format)

	if v := f.Extraction.ConfidenceThreshold; v != nil {
		merged.ConfidenceThreshold = *v
	}
	if v := f.Extraction.MinLength; v != nil {
		merged.Garble.MinLength = *v
	}
	if v := f.Extraction.MinPrintableRatio; v != nil {
		merged.Garble.MinPrintableRatio = *v
	}
	if v := f.Extraction.MaxBinaryPatterns; v != nil {
		merged.Garble.MaxBinaryPatterns = *v
	}
	return &merged, nil
}

// Load reads the environment and, when path is set, merges the file over it.
func Load(path string) (*AppConfig, error) {
	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}
	if path != "" {
		fc, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		if cfg, err = fc.MergeWithDefaults(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
