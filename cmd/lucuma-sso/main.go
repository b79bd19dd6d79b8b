// Command lucuma-sso serves the ORCID single sign-on endpoints.
package main

import (
	"context"
	"encoding/base64"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cloudspanner "cloud.google.com/go/spanner"
	sso "github.com/armanbilge/lucuma-sso"
	"github.com/armanbilge/lucuma-sso/orcid"
	"github.com/armanbilge/lucuma-sso/storage"
	"github.com/armanbilge/lucuma-sso/storage/postgres"
	"github.com/armanbilge/lucuma-sso/storage/spanner"
	"github.com/armanbilge/lucuma-sso/token"
	"github.com/armanbilge/lucuma-sso/user"
	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/errors/v5"
	"github.com/gorilla/securecookie"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

type appConfig struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	StorageDriver   string        `env:"SSO_STORAGE_DRIVER" envDefault:"postgres"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	SpannerDatabase string        `env:"SPANNER_DATABASE"`
	TokenKey        string        `env:"SSO_TOKEN_KEY,required"`
	TokenTTL        time.Duration `env:"SSO_TOKEN_TTL" envDefault:"24h"`
	CookieName      string        `env:"SSO_COOKIE_NAME"`
	CookieDomain    string        `env:"SSO_COOKIE_DOMAIN"`
	CookieHashKey   string        `env:"SSO_COOKIE_HASH_KEY,required"`
	CookieBlockKey  string        `env:"SSO_COOKIE_BLOCK_KEY"`
	InsecureCookies bool          `env:"SSO_INSECURE_COOKIES" envDefault:"false"`

	OrcidIssuerURL    string `env:"ORCID_ISSUER_URL" envDefault:"https://orcid.org"`
	OrcidClientID     string `env:"ORCID_CLIENT_ID,required"`
	OrcidClientSecret string `env:"ORCID_CLIENT_SECRET,required"`
	OrcidRedirectURL  string `env:"ORCID_REDIRECT_URL,required"`
	LoginURL          string `env:"SSO_LOGIN_URL"`
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("lucuma-sso: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// .env is for local development only
	_ = godotenv.Load()

	cfg := appConfig{}
	if err := env.Parse(&cfg); err != nil {
		return errors.Wrap(err, "env.Parse()")
	}

	tokenKey, err := base64.StdEncoding.DecodeString(cfg.TokenKey)
	if err != nil {
		return errors.Wrap(err, "decoding SSO_TOKEN_KEY")
	}
	codec, err := token.New(tokenKey, cfg.TokenTTL)
	if err != nil {
		return errors.Wrap(err, "token.New()")
	}

	store, cleanup, err := newUserStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	sc, err := newSecureCookie(cfg)
	if err != nil {
		return err
	}

	orcidOpts := []orcid.Option{}
	if cfg.LoginURL != "" {
		orcidOpts = append(orcidOpts, orcid.WithLoginURL(cfg.LoginURL))
	}
	ssoOpts := []sso.Option{sso.WithCookieDomain(cfg.CookieDomain)}
	if cfg.CookieName != "" {
		ssoOpts = append(ssoOpts, sso.WithCookieName(cfg.CookieName))
	}
	if cfg.InsecureCookies {
		orcidOpts = append(orcidOpts, orcid.WithInsecureCookies())
		ssoOpts = append(ssoOpts, sso.WithInsecureCookies())
	}

	authenticator, err := orcid.New(ctx, sc, cfg.OrcidIssuerURL, cfg.OrcidClientID, cfg.OrcidClientSecret, cfg.OrcidRedirectURL, orcidOpts...)
	if err != nil {
		return errors.Wrap(err, "orcid.New()")
	}

	svc := sso.New(authenticator, codec, store, ssoOpts...)

	r := chi.NewRouter()
	r.Route("/auth/v1", func(r chi.Router) {
		r.Get("/login", svc.Login())
		r.Get("/callback", svc.Callback())
		r.Get("/authenticated", svc.Authenticated())
		r.Post("/guest", svc.Guest())
		r.Post("/logout", svc.Logout())
		r.Get("/whoami", svc.Whoami())
		r.Post("/assume-role", svc.AssumeRole())
	})
	// standard or better is required beyond this point
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(svc.WithUser)
		r.Use(svc.RequireAccess(user.AccessStandard))
		r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	log.Printf("lucuma-sso: listening on %s", server.Addr)

	select {
	case err := <-errCh:
		return errors.Wrap(err, "http.Server.ListenAndServe()")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "http.Server.Shutdown()")
	}

	return nil
}

func newUserStore(ctx context.Context, cfg appConfig) (storage.UserStore, func(), error) {
	switch cfg.StorageDriver {
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, nil, errors.New("DATABASE_URL is required for the postgres driver")
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, errors.Wrap(err, "pgxpool.New()")
		}

		return postgres.NewUserStorageDriver(pool), pool.Close, nil
	case "spanner":
		if cfg.SpannerDatabase == "" {
			return nil, nil, errors.New("SPANNER_DATABASE is required for the spanner driver")
		}
		client, err := cloudspanner.NewClient(ctx, cfg.SpannerDatabase)
		if err != nil {
			return nil, nil, errors.Wrap(err, "spanner.NewClient()")
		}

		return spanner.NewUserStorageDriver(client), client.Close, nil
	default:
		return nil, nil, errors.Newf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func newSecureCookie(cfg appConfig) (*securecookie.SecureCookie, error) {
	hashKey, err := base64.StdEncoding.DecodeString(cfg.CookieHashKey)
	if err != nil {
		return nil, errors.Wrap(err, "decoding SSO_COOKIE_HASH_KEY")
	}

	var blockKey []byte
	if cfg.CookieBlockKey != "" {
		blockKey, err = base64.StdEncoding.DecodeString(cfg.CookieBlockKey)
		if err != nil {
			return nil, errors.Wrap(err, "decoding SSO_COOKIE_BLOCK_KEY")
		}
	}

	return securecookie.New(hashKey, blockKey), nil
}
