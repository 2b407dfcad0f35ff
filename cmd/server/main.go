package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"example.com/loja/internal/config"
	domorder "example.com/loja/internal/domain/order"
	domprice "example.com/loja/internal/domain/pricing"
	domproduct "example.com/loja/internal/domain/product"
	"example.com/loja/internal/infra/mail"
	"example.com/loja/internal/infra/persistence/memory"
	"example.com/loja/internal/infra/persistence/mysql"
	"example.com/loja/internal/infra/persistence/postgres"
	api "example.com/loja/internal/interface/http"
	"example.com/loja/internal/logging"
	checkoutuc "example.com/loja/internal/usecase/checkout"
	orderuc "example.com/loja/internal/usecase/order"
	productuc "example.com/loja/internal/usecase/product"
)

func main() {
	os.Exit(serve())
}

// serve returns the exit code so deferred log flushing runs before exit.
func serve() int {
	cfg, err := config.Load(getenv("LOJA_CONFIG", "loja.yaml"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", zap.Error(err))
		return 1
	}
	return 0
}

type stores struct {
	products domproduct.Repository
	orders   domorder.Repository
	health   map[string]api.HealthCheck
	// background work tied to the server's lifetime, e.g. catalog reload
	watch func(ctx context.Context) error
	close func()
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg.Server, log)
	if err != nil {
		return err
	}
	defer st.close()

	var notifier checkoutuc.Notifier
	if cfg.Server.SMTP.Addr != "" {
		lang, err := language.Parse(cfg.Storefront.Locale)
		if err != nil {
			lang = language.BrazilianPortuguese
		}
		money := domprice.NewMoneyFormatter(lang, cfg.Storefront.Currency)
		notifier = mail.NewNotifier(mail.Config{
			Addr:     cfg.Server.SMTP.Addr,
			From:     cfg.Server.SMTP.From,
			Username: cfg.Server.SMTP.Username,
			Password: cfg.Server.SMTP.Password,
		}, money.Format)
		log.Info("order confirmation email enabled", zap.String("smtp", cfg.Server.SMTP.Addr))
	}

	handler := api.NewAPI(api.Dependencies{
		ProductService:  productuc.NewService(st.products),
		CheckoutService: checkoutuc.NewService(st.orders, notifier, log.Named("checkout")),
		OrderService:    orderuc.NewService(st.orders),
		HealthChecks:    st.health,
		ExposeOrderList: cfg.Server.ExposeOrderList,
		Logger:          log.Named("http"),
	}).Router()

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server starting", zap.String("addr", cfg.Server.Addr), zap.String("store", cfg.Server.Store))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if st.watch != nil {
		g.Go(func() error {
			return st.watch(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("bye")
	return nil
}

func openStores(ctx context.Context, cfg config.ServerConfig, log *zap.Logger) (*stores, error) {
	switch cfg.Store {
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, fmt.Errorf("mysql open: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			db.Close()
			return nil, fmt.Errorf("mysql ping: %w", err)
		}
		if cfg.Migrate {
			if err := mysql.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, err
			}
		}
		return &stores{
			products: mysql.NewProductRepository(db),
			orders:   mysql.NewOrderRepository(db),
			health:   map[string]api.HealthCheck{"mysql": db.PingContext},
			close:    func() { db.Close() },
		}, nil

	case "postgres":
		pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if cfg.Migrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return &stores{
			products: postgres.NewProductRepository(pool),
			orders:   postgres.NewOrderRepository(pool),
			health:   map[string]api.HealthCheck{"postgres": pool.Ping},
			close:    pool.Close,
		}, nil

	default:
		products, err := memory.LoadProductFile(cfg.CatalogFile)
		if err != nil {
			return nil, err
		}
		repo := memory.NewProductRepository(products).WithLogger(log.Named("catalog"))
		st := &stores{
			products: repo,
			orders:   memory.NewOrderRepository(repo),
			close:    func() {},
		}
		if cfg.WatchCatalog {
			st.watch = func(ctx context.Context) error {
				return repo.Watch(ctx, cfg.CatalogFile)
			}
		}
		log.Info("catalog loaded", zap.String("path", cfg.CatalogFile), zap.Int("products", len(products)))
		return st, nil
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
