package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Settings collects every tuneable knob for one pipeline run. All values
// come from the environment so a cron entry and a local shell behave the same.
type Settings struct {
	// Google Sheets
	SpreadsheetID   string
	IStockTab       string
	UStockTab       string
	LogTab          string
	HeaderRow       int // 1-indexed row holding the column names
	CredentialsFile string

	// Gemini
	GeminiAPIKey     string
	BatchSize        int
	MaxRetries       int
	BatchCooldown    time.Duration
	DefaultRetryWait time.Duration

	// Email
	SenderEmail    string
	RecipientEmail string
	SMTPHost       string
	SMTPPort       int
	SMTPPassword   string

	// News fetching and filtering
	NewsDaysBack       int
	MaxArticles        int
	MaxWordsPerArticle int
	SummaryMaxWords    int
	FuzzyThreshold     int
	DedupThreshold     int
	RequestTimeout     time.Duration
	RequestDelay       time.Duration

	// Scheduler priority boost for NSE/BSE holdings at near-equal investment
	MarketBoost float64

	// Paths
	FeedsFile string
	OutputDir string
}

// Load reads settings from the environment, applying defaults for everything
// except the credentials that have no sane default.
func Load() (*Settings, error) {
	s := &Settings{
		SpreadsheetID:   os.Getenv("SPREADSHEET_ID"),
		IStockTab:       getEnvStr("ISTOCK_TAB_NAME", "iStocks"),
		UStockTab:       getEnvStr("USTOCK_TAB_NAME", "uStocks"),
		LogTab:          getEnvStr("LOG_TAB_NAME", "DailyLog"),
		HeaderRow:       getEnvInt("SHEET_HEADER_ROW", 3),
		CredentialsFile: getEnvStr("GOOGLE_CREDENTIALS_FILE", "credentials.json"),

		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		BatchSize:        getEnvInt("GEMINI_BATCH_SIZE", 5),
		MaxRetries:       getEnvInt("GEMINI_MAX_RETRIES", 3),
		BatchCooldown:    getEnvDuration("GEMINI_BATCH_COOLDOWN", 6*time.Second),
		DefaultRetryWait: getEnvDuration("GEMINI_DEFAULT_RETRY_WAIT", 60*time.Second),

		SenderEmail:    os.Getenv("SENDER_EMAIL"),
		RecipientEmail: os.Getenv("RECIPIENT_EMAIL"),
		SMTPHost:       getEnvStr("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       getEnvInt("SMTP_PORT", 587),
		SMTPPassword:   os.Getenv("SMTP_APP_PASSWORD"),

		NewsDaysBack:       getEnvInt("NEWS_DAYS_BACK", 1),
		MaxArticles:        getEnvInt("MAX_ARTICLES_PER_STOCK", 5),
		MaxWordsPerArticle: getEnvInt("MAX_WORDS_PER_ARTICLE", 300),
		SummaryMaxWords:    getEnvInt("SUMMARY_MAX_WORDS", 150),
		FuzzyThreshold:     getEnvInt("FUZZY_MATCH_THRESHOLD", 70),
		DedupThreshold:     getEnvInt("DEDUP_THRESHOLD", 70),
		RequestTimeout:     getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
		RequestDelay:       getEnvDuration("REQUEST_DELAY", 500*time.Millisecond),

		MarketBoost: getEnvFloat("INDIA_MARKET_BOOST", 1.1),

		FeedsFile: getEnvStr("FEEDS_FILE", "config/feeds.yaml"),
		OutputDir: getEnvStr("OUTPUT_DIR", "output"),
	}

	if s.BatchSize < 1 {
		return nil, errors.New("GEMINI_BATCH_SIZE must be at least 1")
	}

	return s, nil
}

func getEnvStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
