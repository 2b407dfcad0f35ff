package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"example.com/loja/internal/config"
	domcart "example.com/loja/internal/domain/cart"
	domprice "example.com/loja/internal/domain/pricing"
	"example.com/loja/internal/infra/apiclient"
	"example.com/loja/internal/infra/cartstore"
	"example.com/loja/internal/logging"
	cartuc "example.com/loja/internal/usecase/cart"
	cataloguc "example.com/loja/internal/usecase/catalog"
	"example.com/loja/internal/usecase/storefront"
)

// app carries what every command needs once the root command has run its
// pre-run hook.
type app struct {
	out io.Writer
	in  io.Reader

	configPath string
	verbose    bool
	apiURL     string
	cartStore  string
	cartPath   string

	cfg     *config.Config
	log     *zap.Logger
	closers []func() error
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.Storefront.APIBaseURL = a.apiURL
	}
	if a.cartStore != "" {
		cfg.Storefront.CartStore = a.cartStore
	}
	if a.cartPath != "" {
		cfg.Storefront.CartPath = a.cartPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.Log.Level
	if a.verbose {
		level = "debug"
	}
	// zap writes to stderr, so rendered output stays clean.
	log, err := logging.New(level, cfg.Log.Format)
	if err != nil {
		return err
	}
	a.log = log
	return nil
}

func (a *app) openCartStore() (domcart.Store, error) {
	sf := a.cfg.Storefront
	switch sf.CartStore {
	case "sqlite":
		if err := os.MkdirAll(sf.CartPath, 0o755); err != nil {
			return nil, fmt.Errorf("create cart dir: %w", err)
		}
		store, err := cartstore.OpenSQLite(filepath.Join(sf.CartPath, "cart.db"), sf.Namespace)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	case "redis":
		store, err := cartstore.NewRedisStore(sf.RedisURL, sf.Namespace)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	default:
		return cartstore.NewFileStore(sf.CartPath, sf.Namespace), nil
	}
}

// controller wires the storefront and runs the page-load sequence.
func (a *app) controller(ctx context.Context) (*storefront.Controller, error) {
	sf := a.cfg.Storefront

	store, err := a.openCartStore()
	if err != nil {
		return nil, err
	}

	lang, err := language.Parse(sf.Locale)
	if err != nil {
		a.log.Warn("unknown locale, using pt-BR", zap.String("locale", sf.Locale))
		lang = language.BrazilianPortuguese
	}

	client := apiclient.New(sf.APIBaseURL, sf.Timeout)
	catalog := cataloguc.NewService(client, a.log)
	cart := cartuc.NewService(store, catalog, client, a.log)

	c := storefront.New(catalog, cart, storefront.Options{
		Quiescence: sf.Debounce,
		Language:   lang,
		Money:      domprice.NewMoneyFormatter(lang, sf.Currency),
		Logger:     a.log,
	})
	a.closers = append(a.closers, func() error {
		c.Close()
		return nil
	})

	if err := c.Load(ctx); err != nil {
		a.log.Debug("initial catalog load failed", zap.Error(err))
	}
	return c, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && a.log != nil {
			a.log.Warn("close", zap.Error(err))
		}
	}
	a.closers = nil
	if a.log != nil {
		_ = a.log.Sync()
	}
}
