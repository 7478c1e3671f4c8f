package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Defaults holds the process-wide values every tenant document shares:
// shared secrets, platform endpoints and install paths. It is built
// once at startup and never mutated afterwards.
type Defaults struct {
	Environment     string
	SecretKey       string
	LogLevel        string
	SessionLifetime int

	SaaSURL             string
	SaaSAPIKey          string
	SaaSActivatePath    string
	StripeAnnouncerHost string

	StripeLivePublishableKey string
	StripeLiveSecretKey      string
	StripeTestPublishableKey string
	StripeTestSecretKey      string

	EmailLoginFrom   string
	EmailQueueFolder string

	RepoDirectory string
	ModulesPath   string
	ThemeName     string

	MaxContentLength    string
	Domain              string
	SitesPath           string
	SupportedCurrencies []string

	PrivateKeyPath string
	PublicKeyPath  string

	TelegramToken  string
	TelegramChatID string
}

// DefaultsFromEnv assembles the process-wide defaults from the
// environment in one pass. This is the only place the settings layer
// reads the environment; everything downstream works from the returned
// struct.
func DefaultsFromEnv() Defaults {
	lifetime, _ := strconv.Atoi(os.Getenv("PERMANENT_SESSION_LIFETIME"))
	return Defaults{
		Environment:     os.Getenv("APP_ENV"),
		SecretKey:       os.Getenv("SECRET_KEY"),
		LogLevel:        os.Getenv("LOG_LEVEL"),
		SessionLifetime: lifetime,

		SaaSURL:             os.Getenv("SAAS_URL"),
		SaaSAPIKey:          os.Getenv("SAAS_API_KEY"),
		SaaSActivatePath:    os.Getenv("SAAS_ACTIVATE_ACCOUNT_PATH"),
		StripeAnnouncerHost: os.Getenv("STRIPE_CONNECT_ACCOUNT_ANNOUNCER_HOST"),

		StripeLivePublishableKey: os.Getenv("STRIPE_LIVE_PUBLISHABLE_KEY"),
		StripeLiveSecretKey:      os.Getenv("STRIPE_LIVE_SECRET_KEY"),
		StripeTestPublishableKey: os.Getenv("STRIPE_TEST_PUBLISHABLE_KEY"),
		StripeTestSecretKey:      os.Getenv("STRIPE_TEST_SECRET_KEY"),

		EmailLoginFrom:   os.Getenv("EMAIL_LOGIN_FROM"),
		EmailQueueFolder: os.Getenv("EMAIL_QUEUE_FOLDER"),

		RepoDirectory: os.Getenv("SHOP_REPO_DIRECTORY"),
		ModulesPath:   os.Getenv("MODULES_PATH"),
		ThemeName:     os.Getenv("THEME_NAME"),

		MaxContentLength:    os.Getenv("MAX_CONTENT_LENGTH"),
		Domain:              os.Getenv("SHOP_DOMAIN"),
		SitesPath:           os.Getenv("PATH_TO_SITES"),
		SupportedCurrencies: splitCurrencies(os.Getenv("SUPPORTED_CURRENCIES")),

		PrivateKeyPath: os.Getenv("PRIVATE_KEY"),
		PublicKeyPath:  os.Getenv("PUBLIC_KEY"),

		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		TelegramChatID: os.Getenv("TELEGRAM_CHAT_ID"),
	}
}

func splitCurrencies(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Tenant carries the per-tenant inputs to synthesis.
type Tenant struct {
	// Address is the fully-qualified tenant address, used as the server
	// name and in derived redirect URLs.
	Address string

	// SiteDir is the tenant's allocated site directory.
	SiteDir string

	// DatabaseFile is the name of the tenant database inside SiteDir.
	DatabaseFile string
}

// Synthesize merges the process-wide defaults with tenant-specific
// derived values into a complete settings document. It performs no I/O
// and does not validate; callers validate before persisting.
func Synthesize(d Defaults, t Tenant) *Settings {
	dbPath := filepath.Join(t.SiteDir, t.DatabaseFile)
	return &Settings{
		Environment:     d.Environment,
		SecretKey:       d.SecretKey,
		LogLevel:        d.LogLevel,
		SessionLifetime: d.SessionLifetime,

		SaaSURL:             d.SaaSURL,
		SaaSAPIKey:          d.SaaSAPIKey,
		SaaSActivatePath:    d.SaaSActivatePath,
		StripeAnnouncerHost: d.StripeAnnouncerHost,

		StripeLivePublishableKey: d.StripeLivePublishableKey,
		StripeLiveSecretKey:      d.StripeLiveSecretKey,
		StripeTestPublishableKey: d.StripeTestPublishableKey,
		StripeTestSecretKey:      d.StripeTestSecretKey,

		EmailLoginFrom:    d.EmailLoginFrom,
		MailDefaultSender: d.EmailLoginFrom,
		EmailQueueFolder:  d.EmailQueueFolder,

		ServerName:         t.Address,
		DatabaseURI:        fmt.Sprintf("sqlite:///%s", dbPath),
		DatabasePath:       dbPath,
		CustomPagesPath:    filepath.Join(t.SiteDir, "custom_pages"),
		UploadedImagesDest: filepath.Join(t.SiteDir, "uploads"),
		UploadedFilesDest:  filepath.Join(t.SiteDir, "uploads"),
		SuccessRedirectURL: "https://" + t.Address + "/complete_mandate",
		ThankyouURL:        "https://" + t.Address + "/thankyou",

		RepoDirectory:   d.RepoDirectory,
		ModulesPath:     d.ModulesPath,
		TemplateBaseDir: filepath.Join(d.RepoDirectory, "themes"),
		ThemeName:       d.ThemeName,

		MaxContentLength:    d.MaxContentLength,
		Domain:              d.Domain,
		SitesPath:           d.SitesPath,
		SupportedCurrencies: d.SupportedCurrencies,

		PrivateKeyPath: d.PrivateKeyPath,
		PublicKeyPath:  d.PublicKeyPath,

		TelegramToken:  d.TelegramToken,
		TelegramChatID: d.TelegramChatID,
	}
}
