package provisioner

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"

	"github.com/shopfront/provisioner/api"
	"github.com/shopfront/provisioner/routing"
	"github.com/shopfront/provisioner/settings"
	"github.com/shopfront/provisioner/site"
	"github.com/shopfront/provisioner/tenantdb"
)

// Config is the immutable process-wide configuration. It is assembled
// once at startup and passed by reference into every component.
type Config struct {
	// SitesRoot is the directory tenant sites are allocated under.
	SitesRoot string

	// Domain is the suffix tenant addresses are formed with.
	Domain string

	// TemplateDBPath is the canonical empty-schema database file.
	TemplateDBPath string

	// SkeletonPath is the routing skeleton template file.
	SkeletonPath string

	// RouterSocket is the backend socket tenant routes point at.
	RouterSocket string

	// AppEnvDir is the runtime environment directory substituted into
	// the routing fragment.
	AppEnvDir string

	// AppRepoDir is the shared application install directory.
	AppRepoDir string

	// EntryPoint is the application entry-point file substituted into
	// the routing fragment.
	EntryPoint string

	// Defaults are the process-wide settings merged into every tenant
	// settings document.
	Defaults settings.Defaults
}

// Provisioner runs the provisioning sequence for inbound requests.
// Each request is an independent, short-lived unit of work; the only
// shared state is the read-only configuration.
type Provisioner struct {
	cfg       *Config
	allocator *site.Allocator
	seeder    *tenantdb.Seeder
	publisher *routing.Publisher
	log       *slog.Logger
}

// New creates a provisioner from the process configuration.
func New(cfg *Config, log *slog.Logger) *Provisioner {
	return &Provisioner{
		cfg:       cfg,
		allocator: site.NewAllocator(cfg.SitesRoot, log),
		seeder:    tenantdb.NewSeeder(cfg.TemplateDBPath, log),
		publisher: routing.NewPublisher(cfg.SkeletonPath, log),
		log:       log,
	}
}

// step is one unit of the provisioning sequence. Fatal steps abort the
// whole operation and trigger rollback of the allocated directory;
// advisory steps only log. The policy lives in this table, not in
// control flow.
type step struct {
	name  string
	fatal bool
	run   func(ctx context.Context) error
}

// Provision turns one request into a running tenant and returns the
// owner login URL.
//
// The sequence: derive identity, resolve locale, claim the site
// directory (the idempotency guard), then run the fatal step table:
// settings synthesis, database seeding, routing publication. A
// duplicate address returns api.DuplicateSiteError with zero writes.
// Any fatal step failure releases the claimed directory so a retry
// starts clean.
func (p *Provisioner) Provision(ctx context.Context, req api.ProvisionRequest) (string, error) {
	p.log.Info("New site request received", slog.String("company", req.Company.Name))

	identity, err := site.DeriveIdentity(req.Company.Name, p.cfg.Domain)
	if err != nil {
		return "", err
	}
	log := p.log.With(slog.String("address", identity.Address))

	seed := tenantdb.Seed{
		Password:    req.Password,
		LoginToken:  req.LoginToken,
		CompanyName: req.Company.Name,
		Plans:       req.Plans,
	}
	if len(req.Users) > 0 {
		seed.Email = req.Users[0]
	}
	if err := seed.Validate(); err != nil {
		log.Warn("Rejecting malformed provisioning payload", "err", err)
		return "", err
	}

	seed.CountryCode, seed.Currency = site.ResolveLocale(req.CountryCode, log)

	if err := p.allocator.Allocate(identity); err != nil {
		return "", err
	}

	siteDir := p.allocator.SiteDir(identity)
	steps := []step{
		{name: "synthesize settings", fatal: true, run: func(ctx context.Context) error {
			return p.writeSettings(identity, siteDir)
		}},
		{name: "seed database", fatal: true, run: func(ctx context.Context) error {
			return p.seeder.Seed(ctx, filepath.Join(siteDir, tenantdb.DatabaseFile), seed)
		}},
		{name: "publish routing", fatal: true, run: func(ctx context.Context) error {
			dest := filepath.Join(siteDir, identity.Address+".ini")
			return p.publisher.Publish(dest, p.routingRules(identity.Address))
		}},
	}

	for _, st := range steps {
		if err := st.run(ctx); err != nil {
			if !st.fatal {
				log.Warn("Advisory provisioning step failed", slog.String("step", st.name), "err", err)
				continue
			}
			log.Error("Fatal provisioning step failed", slog.String("step", st.name), "err", err)
			if rerr := p.allocator.Release(identity); rerr != nil {
				log.Error("Rollback of site directory failed", "err", rerr)
			}
			return "", fmt.Errorf("%s: %w", st.name, err)
		}
		log.Debug("Provisioning step completed", slog.String("step", st.name))
	}

	log.Info("Tenant provisioned", slog.String("site_dir", siteDir))
	return api.LoginURL(identity.Address, req.LoginToken), nil
}

func (p *Provisioner) writeSettings(identity site.Identity, siteDir string) error {
	doc := settings.Synthesize(p.cfg.Defaults, settings.Tenant{
		Address:      identity.Address,
		SiteDir:      siteDir,
		DatabaseFile: tenantdb.DatabaseFile,
	})
	doc.Audit(p.log)
	if err := doc.Validate(); err != nil {
		return err
	}
	return doc.WriteFile(siteDir)
}

var (
	routePattern      = regexp.MustCompile(`^route\b`)
	announcePattern   = regexp.MustCompile(`announce-stripe-connect`)
	refreshPattern    = regexp.MustCompile(`refresh-subscription-statuses`)
	runtimeDirPattern = regexp.MustCompile(`^runtime-dir\b`)
	envPattern        = regexp.MustCompile(`^env\b`)
	entryPointPattern = regexp.MustCompile(`^entry-point\b`)
)

// routingRules builds the ordered substitution set for one tenant. The
// announce and refresh jobs point the router's scheduler at the
// tenant's own admin endpoints.
func (p *Provisioner) routingRules(address string) []routing.Rule {
	return []routing.Rule{
		{Pattern: routePattern, Line: fmt.Sprintf("route = %s:%s", p.cfg.RouterSocket, address)},
		{Pattern: announcePattern, Line: fmt.Sprintf("cron = minute=-1 curl -L %s/admin/announce-stripe-connect", address)},
		{Pattern: refreshPattern, Line: fmt.Sprintf("cron = minute=-10 curl -L %s/admin/refresh-subscription-statuses", address)},
		{Pattern: runtimeDirPattern, Line: "runtime-dir = " + p.cfg.AppEnvDir},
		{Pattern: envPattern, Line: "env = APP_REPO_DIR=" + p.cfg.AppRepoDir},
		{Pattern: entryPointPattern, Line: "entry-point = " + p.cfg.EntryPoint},
	}
}
