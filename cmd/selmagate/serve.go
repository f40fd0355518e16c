package main

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	selmaGate "github.com/MrEthical07/selmaGate"
	"github.com/MrEthical07/selmaGate/internal/logattr"
	"github.com/MrEthical07/selmaGate/jwt"
	"github.com/MrEthical07/selmaGate/metrics/export/prometheus"
	"github.com/MrEthical07/selmaGate/middleware"
	"github.com/MrEthical07/selmaGate/session"
)

func runServe(args []string) error {
	var (
		common commonFlags
		listen string
	)
	fs := newFlagSet("serve", &common)
	fs.StringVar(&listen, "listen", "", "listen address (default SELMAGATE_LISTEN)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	g, cfg, closeAll, err := openGate(common, true)
	if err != nil {
		return err
	}
	defer closeAll()

	logger := cfg.logger()
	if listen == "" {
		listen = cfg.Listen
	}
	signingKey := cfg.SigningKey
	if signingKey == "" {
		signingKey = uuid.NewString()
		logger.Warn("SELMAGATE_SIGNING_KEY unset, using an ephemeral development key")
	}
	manager, err := jwt.NewManager(jwt.Config{
		TTL:           cfg.TokenTTL,
		SigningMethod: jwt.MethodHS256,
		PrivateKey:    []byte(signingKey),
		Issuer:        "selmagate",
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              listen,
		Handler:           newDashboard(g, manager, logger).routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", listen))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// dashboard is a stand-in for the city dashboard: a menu of feature pages
// behind the session gate plus a development login form.
type dashboard struct {
	gate    *selmaGate.Gate
	tokens  *jwt.Manager
	logger  *slog.Logger
	metrics *prometheus.Exporter
}

func newDashboard(g *selmaGate.Gate, tokens *jwt.Manager, logger *slog.Logger) *dashboard {
	return &dashboard{
		gate:    g,
		tokens:  tokens,
		logger:  logger,
		metrics: prometheus.New(g),
	}
}

func (d *dashboard) routes() http.Handler {
	guarded := func(h http.Handler) http.Handler {
		return middleware.RequireSession(d.gate)(middleware.TrackActivity(d.gate)(h))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.Handle("GET /metrics", d.metrics.Handler())
	mux.HandleFunc("GET /login", d.loginForm)
	mux.HandleFunc("POST /login", d.login)
	mux.HandleFunc("POST /logout", d.logout)
	mux.Handle("GET /{$}", guarded(http.HandlerFunc(d.home)))
	for _, feature := range d.gate.Config().Permission.Features {
		page := middleware.RequireFeature(d.gate, feature)(http.HandlerFunc(d.featurePage(feature)))
		mux.Handle("GET /"+feature, guarded(page))
	}

	return middleware.ClientScope(middleware.DefaultClientCookie)(mux)
}

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<title>City of Selma</title>
{{if .Login}}
<form method="post" action="/login">
  <input type="hidden" name="next" value="{{.Next}}">
  <label>Role <input name="role" value="editor"></label>
  {{range .Features}}<label><input type="checkbox" name="perm" value="{{.}}"> {{.}}</label>{{end}}
  <button>Sign in</button>
</form>
{{else}}
<p>Role: {{.Role}}. Session expires {{.Expires}}.</p>
<ul>{{range .Features}}<li><a href="/{{.}}">{{.}}</a></li>{{end}}</ul>
{{if .Feature}}<h1>{{.Feature}}</h1>{{end}}
<form method="post" action="/logout"><button>Sign out</button></form>
{{end}}
`))

type pageData struct {
	Login    bool
	Next     string
	Role     string
	Expires  string
	Feature  string
	Features []string
}

func (d *dashboard) loginForm(w http.ResponseWriter, r *http.Request) {
	d.render(w, pageData{
		Login:    true,
		Next:     r.URL.Query().Get(d.gate.Config().Navigation.ReturnParam),
		Features: d.gate.Config().Permission.Features,
	})
}

func (d *dashboard) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	role := r.PostForm.Get("role")
	grants := make(map[string]bool)
	for _, feature := range r.PostForm["perm"] {
		grants[feature] = true
	}

	token, err := d.tokens.Issue(uuid.NewString(), role)
	if err != nil {
		http.Error(w, "token issue failed", http.StatusInternalServerError)
		return
	}
	rec, err := session.NewRecord(token, role, grants)
	if err == nil {
		err = d.gate.Establish(r.Context(), rec)
	}
	if err != nil {
		d.logger.ErrorContext(r.Context(), "login failed", logattr.Error(err))
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, returnTarget(r.PostForm.Get("next")), http.StatusSeeOther)
}

func (d *dashboard) logout(w http.ResponseWriter, r *http.Request) {
	if err := d.gate.Logout(r.Context()); err != nil {
		http.Error(w, "logout failed", http.StatusServiceUnavailable)
		return
	}
	http.Redirect(w, r, d.gate.LoginURL(""), http.StatusSeeOther)
}

func (d *dashboard) home(w http.ResponseWriter, r *http.Request) {
	d.render(w, d.menu(r, ""))
}

func (d *dashboard) featurePage(feature string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.render(w, d.menu(r, feature))
	}
}

func (d *dashboard) menu(r *http.Request, feature string) pageData {
	data := pageData{
		Feature:  feature,
		Features: d.gate.GrantedFeatures(r.Context()),
	}
	if decision, ok := middleware.DecisionFromContext(r.Context()); ok {
		data.Expires = decision.ExpiresAt.UTC().Format(time.RFC3339)
	}
	data.Role = d.gate.Role(r.Context())
	return data
}

func (d *dashboard) render(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := pageTemplate.Execute(w, data); err != nil {
		d.logger.Error("render page", logattr.Error(err))
	}
}

// returnTarget accepts only same-site paths.
func returnTarget(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return "/"
	}
	return next
}
