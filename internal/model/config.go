package model

import "time"

// Config is the complete legajo configuration
type Config struct {
	OCR        OCRConfig        `yaml:"ocr" mapstructure:"ocr"`
	Indicators IndicatorConfig  `yaml:"indicators" mapstructure:"indicators"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	LLM        LLMConfig        `yaml:"llm" mapstructure:"llm"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
	Extraction ExtractionConfig `yaml:"extraction" mapstructure:"extraction"`
}

// OCRConfig controls the Tesseract engine and the page scanner
type OCRConfig struct {
	Languages []string `yaml:"languages" mapstructure:"languages"` // Tesseract language hints
	DPI       int      `yaml:"dpi" mapstructure:"dpi"`
	Workers   int      `yaml:"workers" mapstructure:"workers"` // Concurrent page OCR jobs
}

// IndicatorConfig holds the ordered indicator phrase lists per category.
// Phrases must be lowercase ASCII; they are matched as substrings of the
// normalized page text.
type IndicatorConfig struct {
	History  []string `yaml:"history" mapstructure:"history"`
	Identity []string `yaml:"identity" mapstructure:"identity"`
	Bill     []string `yaml:"bill" mapstructure:"bill"`
}

// CacheConfig controls the OCR text cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"` // Disk cache directory ("" = memory only)
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// LLMConfig configures optional review-note generation.
// The LLM never affects classification or record assembly.
type LLMConfig struct {
	Provider          string  `yaml:"provider" mapstructure:"provider"` // "openai", "ollama", "" = disabled
	Model             string  `yaml:"model" mapstructure:"model"`
	APIKey            string  `yaml:"-" mapstructure:"-"`
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSeconds    int     `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	MaxTokens         int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	RequestsPerMinute float64 `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
	HTTPProxy         string  `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy        string  `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy           string  `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose     bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeText bool `yaml:"include_text" mapstructure:"include_text"` // Keep full OCR text in JSON reports
}

// ExtractionConfig controls per-patient folder output
type ExtractionConfig struct {
	ReviewPrefix string `yaml:"review_prefix" mapstructure:"review_prefix"` // Prepended to folders needing review
}

// DefaultConfig returns the built-in defaults, including the indicator
// phrase lists tuned for Colombian veterinary bundles.
func DefaultConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			Languages: []string{"spa"},
			DPI:       300,
			Workers:   4,
		},
		Indicators: IndicatorConfig{
			History: []string{
				"proceso salud", "historia clinica", "caninas", "datos del paciente",
				"origen y procedencia", "de la fauna",
			},
			Identity: []string{
				"cedula de", "de colombia", "nacionalidad", "nuip",
				"indice derecho", "registraduria civil", "de expedicion", "nacional",
			},
			Bill: []string{
				"enel", "consumo", "de la cuenta", "factura", "suspension", "pago",
				"oportuno", "vanti", "referencia", "cuenta", "contrato",
				"para pagos", "predio", "comportamiento", "valor", "periodo", "medidor",
				"corresponsal bancario", "lectura", "servicio",
			},
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 1 * time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		LLM: LLMConfig{
			Provider:          "",
			TimeoutSeconds:    30,
			MaxTokens:         500,
			RequestsPerMinute: 20,
		},
		Output: OutputConfig{
			Verbose:     false,
			IncludeText: false,
		},
		Extraction: ExtractionConfig{
			ReviewPrefix: "REVIEW - ",
		},
	}
}
