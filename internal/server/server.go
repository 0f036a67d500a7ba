// Package server exposes the report engine over HTTP for the dashboard.
// Every endpoint reads a fresh ledger snapshot from the store, applies the
// query-string filters, and serializes a report table as JSON. Report
// responses are cached briefly; any import flushes the cache.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/labstack/gommon/log"
	"github.com/patrickmn/go-cache"

	"github.com/tallybook-dev/tallybook/internal/analytics"
	"github.com/tallybook-dev/tallybook/internal/config"
	"github.com/tallybook-dev/tallybook/internal/ingest"
	"github.com/tallybook-dev/tallybook/internal/store"
)

// Server wires the store, the report engine, and the HTTP routes together.
type Server struct {
	store  *store.Store
	cfg    *config.Config
	cache  *cache.Cache
	router *mux.Router
	now    func() time.Time // injectable reference clock for aging
}

// New creates a Server around an open store.
func New(st *store.Store, cfg *config.Config) *Server {
	ttl := time.Duration(cfg.Server.CacheSeconds) * time.Second
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	s := &Server{
		store: st,
		cfg:   cfg,
		cache: cache.New(ttl, 2*ttl),
		now:   time.Now,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter().StrictSlash(true)
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/facets", s.handleFacets).Methods(http.MethodGet)
	api.HandleFunc("/entries", s.handleEntries).Methods(http.MethodGet)
	api.HandleFunc("/reports/trial-balance", s.cached(s.trialBalance)).Methods(http.MethodGet)
	api.HandleFunc("/reports/income-statement", s.cached(s.incomeStatement)).Methods(http.MethodGet)
	api.HandleFunc("/reports/balance-sheet", s.cached(s.balanceSheet)).Methods(http.MethodGet)
	api.HandleFunc("/reports/cash-flow", s.cached(s.cashFlow)).Methods(http.MethodGet)
	api.HandleFunc("/reports/aging", s.cached(s.aging)).Methods(http.MethodGet)
	api.HandleFunc("/checks", s.cached(s.checks)).Methods(http.MethodGet)
	api.HandleFunc("/imports", s.handleImportHistory).Methods(http.MethodGet)
	api.HandleFunc("/import", s.handleImport).Methods(http.MethodPost)
	api.HandleFunc("/export", s.handleExport).Methods(http.MethodGet)

	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run blocks serving the API on addr.
func (s *Server) Run(addr string) error {
	log.Infof("tallybook API listening on %s (db: %s)", addr, s.store.Path())
	return http.ListenAndServe(addr, s.router)
}

// ledger loads all stored rows and applies the request's filters.
func (s *Server) ledger(r *http.Request) (analytics.Ledger, error) {
	rows, err := s.store.FetchAll()
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}
	return analytics.Ledger(rows).Filter(queryFromRequest(r)), nil
}

// reportFunc computes one report table from a filtered ledger snapshot.
type reportFunc func(r *http.Request, l analytics.Ledger) (any, error)

// cached wraps a report computation with the response cache, keyed by the
// full request URI so every filter combination caches separately.
func (s *Server) cached(fn reportFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.RequestURI()
		if data, ok := s.cache.Get(key); ok {
			writeJSONBytes(w, data.([]byte))
			return
		}

		l, err := s.ledger(r)
		if err != nil {
			s.error(w, http.StatusInternalServerError, err)
			return
		}
		v, err := fn(r, l)
		if err != nil {
			s.error(w, http.StatusBadRequest, err)
			return
		}
		data, err := json.Marshal(v)
		if err != nil {
			s.error(w, http.StatusInternalServerError, fmt.Errorf("encoding response: %w", err))
			return
		}
		s.cache.SetDefault(key, data)
		writeJSONBytes(w, data)
	}
}

func (s *Server) trialBalance(_ *http.Request, l analytics.Ledger) (any, error) {
	return l.TrialBalance(), nil
}

func (s *Server) incomeStatement(_ *http.Request, l analytics.Ledger) (any, error) {
	return l.IncomeStatement(), nil
}

func (s *Server) balanceSheet(_ *http.Request, l analytics.Ledger) (any, error) {
	return l.BalanceSheet(), nil
}

func (s *Server) cashFlow(_ *http.Request, l analytics.Ledger) (any, error) {
	return l.CashFlow(), nil
}

func (s *Server) aging(r *http.Request, l analytics.Ledger) (any, error) {
	account := r.URL.Query().Get("account")
	if account == "" {
		account = s.cfg.Reports.AgingAccount
	}
	asOf := s.now()
	if v := r.URL.Query().Get("as_of"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, fmt.Errorf("invalid as_of %q: %w", v, err)
		}
		asOf = t
	}
	return l.AgingReport(account, asOf), nil
}

func (s *Server) checks(_ *http.Request, l analytics.Ledger) (any, error) {
	return l.ErrorChecks(), nil
}

func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.FetchAll()
	if err != nil {
		s.error(w, http.StatusInternalServerError, err)
		return
	}
	s.json(w, analytics.Ledger(rows).Facets())
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	l, err := s.ledger(r)
	if err != nil {
		s.error(w, http.StatusInternalServerError, err)
		return
	}
	s.json(w, l.Rows())
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var body io.Reader = r.Body
	name := "upload.csv"

	// Accept either a multipart form with a "file" part or a raw CSV body.
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			s.error(w, http.StatusBadRequest, fmt.Errorf("reading upload: %w", err))
			return
		}
		defer f.Close()
		body = f
		name = hdr.Filename
	}

	rows, err := ingest.ReadRows(body)
	if err != nil {
		s.error(w, http.StatusBadRequest, err)
		return
	}
	inserted, err := s.store.InsertRows(rows)
	if err != nil {
		s.error(w, http.StatusInternalServerError, err)
		return
	}
	if err := s.store.RecordImport(name, inserted, s.now()); err != nil {
		s.error(w, http.StatusInternalServerError, err)
		return
	}

	// Stored data changed; cached report tables are stale.
	s.cache.Flush()
	log.Infof("imported %d rows (%d duplicates skipped) from %s", inserted, len(rows)-inserted, name)

	s.json(w, map[string]int{
		"imported": inserted,
		"skipped":  len(rows) - inserted,
	})
}

func (s *Server) handleImportHistory(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.Imports()
	if err != nil {
		s.error(w, http.StatusInternalServerError, err)
		return
	}
	s.json(w, recs)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	l, err := s.ledger(r)
	if err != nil {
		s.error(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="journal_entries.csv"`)
	if err := ingest.WriteRows(w, l.Rows()); err != nil {
		log.Errorf("writing CSV export: %v", err)
	}
}

// queryFromRequest maps query-string parameters onto a filter Query.
// Set-valued parameters repeat: ?account=Cash&account=Revenue.
func queryFromRequest(r *http.Request) analytics.Query {
	params := r.URL.Query()
	q := analytics.Query{
		Accounts:       params["account"],
		Customers:      params["customer"],
		TxnTypes:       params["txn_type"],
		PaymentMethods: params["payment_method"],
	}
	if v := params.Get("start"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			q.Start = t
		}
	}
	if v := params.Get("end"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			q.End = t
		}
	}
	return q
}

func (s *Server) json(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.error(w, http.StatusInternalServerError, fmt.Errorf("encoding response: %w", err))
		return
	}
	writeJSONBytes(w, data)
}

func writeJSONBytes(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) error(w http.ResponseWriter, status int, err error) {
	log.Errorf("request failed: %v", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
