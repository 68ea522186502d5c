// Command server exposes the meaning-vector engine as a JSON REST API.
//
// Endpoints:
//
//	GET /tdv/similar?term=<t>[&pos=<p>][&ctx=a,b][&rev=true][&count=20]
//	GET /tdv/definition?def=<free text>[&count=20]
//	GET /tdv/repr?term=<t>[&pos=<p>][&ctx=a,b][&human=true]
//	GET /tdv/similarity?term1=<t>&pos1=<p>&term2=<t>&pos2=<p>[&scale=1]
//	GET /tdv/features?term1=<t>&pos1=<p>&term2=<t>&pos2=<p>
//	GET /tdv/wiktdef?term=<t>
//	GET /tdv/disambig?term=<t>&sent=<sentence>[&pos=<p>]
//	GET /tdv/inflections?stem=<t>
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/lexvec/tdv"
)

const defaultCount = 20

// ---- JSON response types ------------------------------------------------

type matchJSON struct {
	Similarity float64 `json:"sim"`
	Term       string  `json:"term"`
	POS        string  `json:"pos"`
	Descr      string  `json:"descr"`
}

type senseJSON struct {
	ID       uint64        `json:"id"`
	Term     string        `json:"term"`
	POS      string        `json:"pos"`
	Lang     string        `json:"lang"`
	Descr    string        `json:"descr"`
	Examples []tdv.Example `json:"examples,omitempty"`
}

type similarityResponse struct {
	Similarity float64 `json:"similarity"`
}

type featuresResponse struct {
	Features [8]bool `json:"features"`
	SVM      string  `json:"svm"`
}

type inflectionsResponse struct {
	Stem  string   `json:"stem"`
	Forms []string `json:"forms"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// ---- helpers ------------------------------------------------------------

type ctxKey struct{}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, RequestID: requestID(r)})
}

func toMatches(eng *tdv.Engine, neighbors []tdv.Neighbor) []matchJSON {
	out := make([]matchJSON, 0, len(neighbors))
	for _, m := range eng.Resolve(neighbors) {
		out = append(out, matchJSON{Similarity: m.Similarity, Term: m.Term, POS: m.POS, Descr: m.Gloss})
	}
	return out
}

func toSenseJSON(s *tdv.Sense) senseJSON {
	return senseJSON{ID: s.ID, Term: s.Term, POS: s.POS, Lang: s.Lang, Descr: s.Gloss, Examples: s.Examples}
}

// contextWords splits a comma-separated ctx parameter.
func contextWords(r *http.Request) []string {
	var ctx []string
	for _, w := range strings.Split(r.URL.Query().Get("ctx"), ",") {
		if w = strings.TrimSpace(w); w != "" {
			ctx = append(ctx, w)
		}
	}
	return ctx
}

func countParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("count"))
	if err != nil || n <= 0 {
		return defaultCount
	}
	return n
}

func requireGET(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "GET required")
		return false
	}
	return true
}

// ---- handlers -----------------------------------------------------------

func handleSimilar(eng *tdv.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireGET(w, r) {
			return
		}
		q := r.URL.Query()
		term := q.Get("term")
		if term == "" {
			writeError(w, r, http.StatusBadRequest, "missing 'term' query parameter")
			return
		}
		if !eng.Lexicon().Exists(term) {
			writeError(w, r, http.StatusNotFound, fmt.Sprintf("term %q not found", term))
			return
		}
		reversed, _ := strconv.ParseBool(q.Get("rev"))
		neighbors := eng.Similar(term, q.Get("pos"), contextWords(r), countParam(r), reversed)
		writeJSON(w, http.StatusOK, toMatches(eng, neighbors))
	}
}

func handleDefinition(eng *tdv.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireGET(w, r) {
			return
		}
		def := r.URL.Query().Get("def")
		if strings.TrimSpace(def) == "" {
			writeError(w, r, http.StatusBadRequest, "missing 'def' query parameter")
			return
		}
		writeJSON(w, http.StatusOK, toMatches(eng, eng.ReverseLookup(def, countParam(r))))
	}
}

func handleRepr(eng *tdv.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireGET(w, r) {
			return
		}
		q := r.URL.Query()
		term := q.Get("term")
		if term == "" {
			writeError(w, r, http.StatusBadRequest, "missing 'term' query parameter")
			return
		}
		vec := eng.Vector(term, q.Get("pos"), contextWords(r))
		if human, _ := strconv.ParseBool(q.Get("human")); human {
			writeJSON(w, http.StatusOK, eng.Lexicon().Named(vec))
			return
		}
		writeJSON(w, http.StatusOK, vec)
	}
}

func handleSimilarity(eng *tdv.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireGET(w, r) {
			return
		}
		q := r.URL.Query()
		scale, err := strconv.ParseFloat(q.Get("scale"), 64)
		if err != nil || scale < 0.001 {
			scale = 1
		}
		sim := eng.PairwiseSimilarity(q.Get("term1"), q.Get("pos1"), q.Get("term2"), q.Get("pos2"), scale)
		writeJSON(w, http.StatusOK, similarityResponse{Similarity: sim})
	}
}

func handleFeatures(eng *tdv.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireGET(w, r) {
			return
		}
		q := r.URL.Query()
		f := eng.Features(q.Get("term1"), q.Get("pos1"), q.Get("term2"), q.Get("pos2"))
		writeJSON(w, http.StatusOK, featuresResponse{Features: f, SVM: f.String()})
	}
}

func handleWiktdef(eng *tdv.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireGET(w, r) {
			return
		}
		term := r.URL.Query().Get("term")
		doc, err := eng.Lookup(term)
		if err != nil {
			writeError(w, r, http.StatusNotFound, fmt.Sprintf("term %q not found", term))
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

func handleDisambig(eng *tdv.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireGET(w, r) {
			return
		}
		q := r.URL.Query()
		term, sent := q.Get("term"), q.Get("sent")
		if term == "" || sent == "" {
			writeError(w, r, http.StatusBadRequest, "'term' and 'sent' query parameters are required")
			return
		}
		sense, err := eng.DisambiguateSentence(term, q.Get("pos"), sent)
		if errors.Is(err, tdv.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, err.Error())
			return
		}
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, []senseJSON{toSenseJSON(sense)})
	}
}

func handleInflections(eng *tdv.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireGET(w, r) {
			return
		}
		stem := r.URL.Query().Get("stem")
		if !eng.Lexicon().Exists(stem) {
			writeError(w, r, http.StatusNotFound, fmt.Sprintf("term %q not found", stem))
			return
		}
		forms := eng.Inflections(stem)
		if forms == nil {
			forms = []string{}
		}
		writeJSON(w, http.StatusOK, inflectionsResponse{Stem: stem, Forms: forms})
	}
}

// ---- middleware ---------------------------------------------------------

// withRequestLog tags every request with an id and logs its outcome.
func withRequestLog(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		start := time.Now()
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
		logger.Info("request", "id", id, "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery, "took", time.Since(start))
	})
}

// withRateLimit rejects requests beyond the limiter's budget.
func withRateLimit(limiter *rate.Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func newHandler(eng *tdv.Engine, logger *slog.Logger, limiter *rate.Limiter) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/tdv/similar", handleSimilar(eng))
	mux.HandleFunc("/tdv/definition", handleDefinition(eng))
	mux.HandleFunc("/tdv/repr", handleRepr(eng))
	mux.HandleFunc("/tdv/similarity", handleSimilarity(eng))
	mux.HandleFunc("/tdv/features", handleFeatures(eng))
	mux.HandleFunc("/tdv/wiktdef", handleWiktdef(eng))
	mux.HandleFunc("/tdv/disambig", handleDisambig(eng))
	mux.HandleFunc("/tdv/inflections", handleInflections(eng))

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet},
		AllowCredentials: true,
	})
	return withRequestLog(logger, c.Handler(withRateLimit(limiter, mux)))
}

// ---- main ---------------------------------------------------------------

func main() {
	configPath := flag.String("config", "config.yaml", "path to the engine configuration")
	addr := flag.String("addr", ":8080", "listen address")
	rps := flag.Float64("rps", 50, "sustained requests per second")
	burst := flag.Int("burst", 100, "request burst size")
	rebuild := flag.Bool("rebuild", false, "ignore the configured snapshot and rebuild vectors")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := tdv.LoadConfig(*configPath)
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}

	logger.Info("loading dictionary", "path", cfg.DictPath)
	eng, err := tdv.New(context.Background(), cfg, tdv.Options{Logger: logger, Rebuild: *rebuild})
	if err != nil {
		logger.Error("start engine", "err", err)
		os.Exit(1)
	}

	limiter := rate.NewLimiter(rate.Limit(*rps), *burst)
	srv := &http.Server{
		Addr:              *addr,
		Handler:           newHandler(eng, logger, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("listening", "addr", *addr)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
