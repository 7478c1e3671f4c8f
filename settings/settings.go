package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/shopfront/provisioner/api"
)

// Settings is the complete per-tenant configuration document written to
// the site directory as settings.yaml. Every field is required; the
// validate tags encode the schema each value must satisfy. The tenant
// application consumes this artifact verbatim, so key names are part of
// the contract.
type Settings struct {
	Environment     string `yaml:"APP_ENV" validate:"required"`
	SecretKey       string `yaml:"SECRET_KEY" validate:"required"`
	LogLevel        string `yaml:"LOG_LEVEL" validate:"required,oneof=DEBUG INFO WARNING ERROR"`
	SessionLifetime int    `yaml:"PERMANENT_SESSION_LIFETIME" validate:"required,gt=0"`

	// Platform endpoints shared by every tenant.
	SaaSURL             string `yaml:"SAAS_URL" validate:"required,url"`
	SaaSAPIKey          string `yaml:"SAAS_API_KEY" validate:"required"`
	SaaSActivatePath    string `yaml:"SAAS_ACTIVATE_ACCOUNT_PATH" validate:"required"`
	StripeAnnouncerHost string `yaml:"STRIPE_CONNECT_ACCOUNT_ANNOUNCER_HOST" validate:"required,url"`

	// Payment provider keys, shared process-wide. The prefix rules catch
	// swapped live/test keys before they reach a tenant.
	StripeLivePublishableKey string `yaml:"STRIPE_LIVE_PUBLISHABLE_KEY" validate:"required,startswith=pk_live_"`
	StripeLiveSecretKey      string `yaml:"STRIPE_LIVE_SECRET_KEY" validate:"required,startswith=sk_live_"`
	StripeTestPublishableKey string `yaml:"STRIPE_TEST_PUBLISHABLE_KEY" validate:"required,startswith=pk_test_"`
	StripeTestSecretKey      string `yaml:"STRIPE_TEST_SECRET_KEY" validate:"required,startswith=sk_test_"`

	// Mail collaborator configuration.
	EmailLoginFrom    string `yaml:"EMAIL_LOGIN_FROM" validate:"required,email"`
	MailDefaultSender string `yaml:"MAIL_DEFAULT_SENDER" validate:"required,email"`
	EmailQueueFolder  string `yaml:"EMAIL_QUEUE_FOLDER" validate:"required"`

	// Tenant-specific derived values.
	ServerName         string `yaml:"SERVER_NAME" validate:"required,fqdn"`
	DatabaseURI        string `yaml:"DATABASE_URI" validate:"required,startswith=sqlite:///"`
	DatabasePath       string `yaml:"DB_FULL_PATH" validate:"required,filepath"`
	CustomPagesPath    string `yaml:"CUSTOM_PAGES_PATH" validate:"required"`
	UploadedImagesDest string `yaml:"UPLOADED_IMAGES_DEST" validate:"required"`
	UploadedFilesDest  string `yaml:"UPLOADED_FILES_DEST" validate:"required"`
	SuccessRedirectURL string `yaml:"SUCCESS_REDIRECT_URL" validate:"required,url"`
	ThankyouURL        string `yaml:"THANKYOU_URL" validate:"required,url"`

	// Shared application install paths and theme.
	RepoDirectory   string `yaml:"SHOP_REPO_DIRECTORY" validate:"required"`
	ModulesPath     string `yaml:"MODULES_PATH" validate:"required"`
	TemplateBaseDir string `yaml:"TEMPLATE_BASE_DIR" validate:"required"`
	ThemeName       string `yaml:"THEME_NAME" validate:"required"`

	// Platform-wide limits and locale data.
	MaxContentLength    string   `yaml:"MAX_CONTENT_LENGTH" validate:"required"`
	Domain              string   `yaml:"SHOP_DOMAIN" validate:"required"`
	SitesPath           string   `yaml:"PATH_TO_SITES" validate:"required"`
	SupportedCurrencies []string `yaml:"SUPPORTED_CURRENCIES" validate:"required,min=1,dive,len=3"`

	// Signing keys referenced by the tenant application.
	PrivateKeyPath string `yaml:"PRIVATE_KEY" validate:"required"`
	PublicKeyPath  string `yaml:"PUBLIC_KEY" validate:"required"`

	// Operational alerting hooks.
	TelegramToken  string `yaml:"TELEGRAM_TOKEN" validate:"required"`
	TelegramChatID string `yaml:"TELEGRAM_CHAT_ID" validate:"required"`
}

var validate = validator.New()

// Validate checks the document against the schema encoded in the
// validate tags. It reports every offending key so a misconfigured
// deployment surfaces all problems at once.
func (s *Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &api.ConfigValidationError{Err: err}
	}
	failed := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		failed = append(failed, fmt.Sprintf("%s (%s)", yamlKey(fe.StructField()), fe.Tag()))
	}
	return &api.ConfigValidationError{Err: fmt.Errorf("invalid keys: %v", failed)}
}

// Audit logs every key and its value at debug level, giving the same
// observe-every-key-set trail the settings writer historically had,
// as one explicit pass instead of instrumented writes.
func (s *Settings) Audit(log *slog.Logger) {
	v := reflect.ValueOf(*s)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		key := t.Field(i).Tag.Get("yaml")
		log.Debug("Setting key", slog.String("key", key), slog.Any("value", v.Field(i).Interface()))
	}
}

// yamlKey maps a struct field name back to its yaml key for error
// reporting.
func yamlKey(field string) string {
	t := reflect.TypeOf(Settings{})
	if f, ok := t.FieldByName(field); ok {
		return f.Tag.Get("yaml")
	}
	return field
}
