// Package main is the talentmatch CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/talentmatch/internal/analysis"
	"github.com/hyperjump/talentmatch/internal/cli"
	"github.com/hyperjump/talentmatch/internal/config"
	"github.com/hyperjump/talentmatch/internal/extract"
	"github.com/hyperjump/talentmatch/internal/ingest"
	"github.com/hyperjump/talentmatch/internal/keyword"
	"github.com/hyperjump/talentmatch/internal/models"
	"github.com/hyperjump/talentmatch/internal/ranking"
	"github.com/hyperjump/talentmatch/internal/server"
	"github.com/hyperjump/talentmatch/internal/skills"
	"github.com/hyperjump/talentmatch/internal/storage"
	"github.com/hyperjump/talentmatch/internal/watcher"
	"github.com/hyperjump/talentmatch/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/talentmatch/config.yaml"
	defaultServerURL  = "http://localhost:8080"
)

// stdout receives command output; tests replace it.
var stdout io.Writer = os.Stdout

var httpClient = &http.Client{Timeout: 60 * time.Second}

// loadConfig loads config from path. When path is the default and a config.yaml
// exists in the working directory, that file is used instead. It returns the
// config and the path actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, err := os.Getwd(); err == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command, args := os.Args[1], os.Args[2:]
	var err error
	switch command {
	case "server":
		err = runServer(args)
	case "match":
		err = runMatch(args)
	case "search":
		err = runSearch(args)
	case "ingest":
		err = runIngest(args)
	case "list":
		err = runList(args)
	case "delete":
		err = runDelete(args)
	case "seed":
		err = runSeed(args)
	case "skills":
		err = runSkills(args)
	case "analyze":
		err = runAnalyze(args)
	case "status":
		err = runStatus(args)
	case "watch":
		err = runWatch(args)
	case "version", "--version", "-v":
		fmt.Fprintf(stdout, "talentmatch version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", command, err)
		os.Exit(1)
	}
}

// argsReorder moves flags that follow positional arguments to the front so
// that "talentmatch match senior go engineer -limit 3" parses -limit.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// joinArgs joins positional args so multi-word text works with or without quotes.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// textFromArgsOrFile returns the text of file when set, otherwise the joined args.
func textFromArgsOrFile(args []string, file string) (string, error) {
	if file == "" {
		return joinArgs(args), nil
	}
	text, err := extract.NewExtractor().Extract(file)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", file, err)
	}
	return strings.TrimSpace(text), nil
}

func runServer(args []string) error {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (requests, resume ingestion, ranking)")
	_ = fs.Parse(args)

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()
	logger.Info("config loaded", zap.String("config_path", resolvedConfigPath), zap.Bool("debug", debugMode))

	components, err := initializeComponents(cfg, logger, debugMode)
	if err != nil {
		return err
	}
	defer components.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	watchSvc := watcher.New(components.Ingester, cfg.Watch.Directories, cfg.Watch.Extensions,
		cfg.Watch.RecursiveOrDefault(), watcher.WithLogger(logger))
	if err := watchSvc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watchSvc.Stop()
	go watchSvc.SyncExisting()

	srv := server.NewServer(cfg, components.Storage, components.Ranker, components.Ingester,
		server.WithLogger(logger),
		server.WithKeywordIndex(components.KeywordIndex),
		server.WithWatch(watchSvc, resolvedConfigPath),
	)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return srv.Stop(shutdownCtx)
}

func printMatchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: talentmatch match [flags] <job description>\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  talentmatch match Senior Python developer with Django and PostgreSQL
  talentmatch match -file job.pdf -limit 5
  talentmatch match -server "" -output json "DevOps engineer, Kubernetes and AWS"
`)
}

func runMatch(args []string) error {
	fs := flag.NewFlagSet("match", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (direct mode)")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = rank directly from storage)")
	limit := fs.Int("limit", 0, "number of candidates (0 = configured default)")
	file := fs.String("file", "", "read the job description from a file")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	fs.Usage = func() { printMatchUsage(fs) }
	_ = fs.Parse(argsReorder(args))

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		return err
	}
	description, err := textFromArgsOrFile(fs.Args(), *file)
	if err != nil {
		return err
	}
	if description == "" {
		printMatchUsage(fs)
		return errors.New("job description is required")
	}
	req := &models.FindRequest{JobDescription: description}
	if *limit != 0 {
		req.Limit = limit
	}

	var resp *models.FindResponse
	if *serverURL != "" {
		resp, err = matchViaHTTP(*serverURL, req)
	} else {
		resp, err = matchDirect(*configPath, req)
	}
	if err != nil {
		return err
	}
	return cli.WriteFindResults(stdout, resp, format)
}

func matchViaHTTP(serverURL string, req *models.FindRequest) (*models.FindResponse, error) {
	var resp models.FindResponse
	if err := doJSON(http.MethodPost, serverURL+"/api/v1/candidates/find", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func matchDirect(configPath string, req *models.FindRequest) (*models.FindResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, errors.New(models.ValidationMessage(err))
	}
	components, cfg, err := openComponents(configPath)
	if err != nil {
		return nil, err
	}
	defer components.Close()

	if minLen := cfg.Matching.MinDescriptionLengthOrDefault(); minLen > 0 &&
		len([]rune(strings.TrimSpace(req.JobDescription))) < minLen {
		return nil, fmt.Errorf("job description must be at least %d characters long", minLen)
	}

	start := time.Now()
	ctx := context.Background()
	pool, err := components.Storage.AllCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}
	query := req.JobQuery(cfg.Matching.DefaultLimit, cfg.Matching.MaxLimit)
	required, results, err := components.Ranker.Rank(ctx, query, pool)
	if err != nil {
		return nil, err
	}
	return ranking.NewFindResponse(query, required, results, len(pool), time.Since(start)), nil
}

func runSearch(args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (direct mode)")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = search the local index directly)")
	limit := fs.Int("limit", 10, "number of results")
	skillFilter := fs.String("skills", "", "comma-separated skills every hit must have")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(argsReorder(args))

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		return err
	}
	query := joinArgs(fs.Args())
	if query == "" && *skillFilter == "" {
		return errors.New("usage: talentmatch search [flags] <query>")
	}

	var resp *models.SearchResponse
	if *serverURL != "" {
		params := url.Values{}
		params.Set("q", query)
		params.Set("limit", strconv.Itoa(*limit))
		if *skillFilter != "" {
			params.Set("skills", *skillFilter)
		}
		var out models.SearchResponse
		if err := doJSON(http.MethodGet, *serverURL+"/api/v1/candidates/search?"+params.Encode(), nil, &out); err != nil {
			return err
		}
		resp = &out
	} else {
		resp, err = searchDirect(*configPath, query, *limit, *skillFilter)
		if err != nil {
			return err
		}
	}
	return cli.WriteSearchResults(stdout, resp, format)
}

func searchDirect(configPath, query string, limit int, skillFilter string) (*models.SearchResponse, error) {
	components, _, err := openComponents(configPath)
	if err != nil {
		return nil, err
	}
	defer components.Close()

	start := time.Now()
	ctx := context.Background()
	var filter []string
	for _, s := range strings.Split(skillFilter, ",") {
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		if canonical, ok := components.Extractor.Vocabulary().Lookup(s); ok {
			s = canonical
		}
		filter = append(filter, s)
	}
	hits, err := components.KeywordIndex.Search(ctx, query, limit, &keyword.SearchOptions{
		NameBoost:    2,
		Skills:       filter,
		FuzzyEnabled: true,
	})
	if err != nil {
		return nil, err
	}
	resp := &models.SearchResponse{Query: query, Hits: []*models.SearchHit{}}
	for _, h := range hits {
		c, err := components.Storage.GetCandidate(ctx, h.ID)
		if err != nil {
			continue
		}
		resp.Hits = append(resp.Hits, &models.SearchHit{Candidate: c, Score: h.Score, Rank: len(resp.Hits) + 1})
	}
	resp.Total = len(resp.Hits)
	resp.QueryTime = time.Since(start).Milliseconds()
	return resp, nil
}

func runIngest(args []string) error {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(argsReorder(args))
	if fs.NArg() < 1 {
		return errors.New("usage: talentmatch ingest [flags] <file-or-directory>")
	}
	components, cfg, err := openComponents(*configPath)
	if err != nil {
		return err
	}
	defer components.Close()

	ctx := context.Background()
	total := 0
	for _, path := range fs.Args() {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if info.IsDir() {
			n, err := components.Ingester.IngestDirectory(ctx, path, cfg.Watch.Extensions, true)
			total += n
			if err != nil {
				return fmt.Errorf("ingest directory %s: %w", path, err)
			}
			fmt.Fprintf(stdout, "Ingested %d resume(s) from %s\n", n, path)
			continue
		}
		// A file named explicitly is ingested whatever its extension.
		c, err := components.Ingester.IngestFile(ctx, path, nil)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", path, err)
		}
		total++
		fmt.Fprintf(stdout, "Ingested %s as %s (%d skills)\n", c.Name, c.ID, len(c.Skills))
	}
	if len(fs.Args()) > 1 {
		fmt.Fprintf(stdout, "Ingested %d resume(s) in total\n", total)
	}
	return nil
}

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	offset := fs.Int("offset", 0, "number of candidates to skip")
	limit := fs.Int("limit", 50, "number of candidates to show")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(args)

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		return err
	}
	components, _, err := openComponents(*configPath)
	if err != nil {
		return err
	}
	defer components.Close()

	ctx := context.Background()
	candidates, err := components.Storage.ListCandidates(ctx, *offset, *limit)
	if err != nil {
		return err
	}
	total, err := components.Storage.CountCandidates(ctx)
	if err != nil {
		return err
	}
	return cli.WriteCandidates(stdout, &models.CandidateList{
		Candidates: candidates,
		Total:      int(total),
		Offset:     *offset,
		Limit:      *limit,
	}, format)
}

func runDelete(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(argsReorder(args))
	if fs.NArg() < 1 {
		return errors.New("usage: talentmatch delete [flags] <candidate-id>")
	}
	components, _, err := openComponents(*configPath)
	if err != nil {
		return err
	}
	defer components.Close()

	for _, id := range fs.Args() {
		if err := components.Ingester.DeleteCandidate(context.Background(), id); err != nil {
			return fmt.Errorf("delete %s: %w", id, err)
		}
		fmt.Fprintf(stdout, "Candidate deleted: %s\n", id)
	}
	return nil
}

func runSeed(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(args)

	components, _, err := openComponents(*configPath)
	if err != nil {
		return err
	}
	defer components.Close()

	n, err := components.Ingester.Seed(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Seeded %d sample candidate(s)\n", n)
	return nil
}

// loadExtractor builds a skill extractor from the vocabulary named in the config,
// or the built-in vocabulary when no config can be loaded.
func loadExtractor(configPath string) (*skills.Extractor, error) {
	cfg, _, err := loadConfig(configPath)
	if err != nil || cfg.Matching.VocabularyPath == "" {
		return skills.NewExtractor(nil), nil
	}
	vocab, err := skills.LoadVocabulary(cfg.Matching.VocabularyPath)
	if err != nil {
		return nil, err
	}
	return skills.NewExtractor(vocab), nil
}

func runSkills(args []string) error {
	fs := flag.NewFlagSet("skills", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for a custom vocabulary)")
	file := fs.String("file", "", "read text from a file")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(argsReorder(args))

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		return err
	}
	text, err := textFromArgsOrFile(fs.Args(), *file)
	if err != nil {
		return err
	}
	extractor, err := loadExtractor(*configPath)
	if err != nil {
		return err
	}
	return cli.WriteSkills(stdout, extractor.Extract(text).Sorted(), format)
}

func runAnalyze(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for a custom vocabulary)")
	title := fs.String("title", "", "target job title")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(argsReorder(args))
	if fs.NArg() < 1 {
		return errors.New("usage: talentmatch analyze [flags] <resume-file>")
	}

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		return err
	}
	text, err := textFromArgsOrFile(nil, fs.Arg(0))
	if err != nil {
		return err
	}
	extractor, err := loadExtractor(*configPath)
	if err != nil {
		return err
	}
	result, err := analysis.NewAnalyzer(extractor).Analyze(text, *title)
	if err != nil {
		return err
	}
	return cli.WriteAnalysis(stdout, result, format)
}

// statusResponse is the subset of GET /api/v1/status printed by the status command.
type statusResponse struct {
	Candidates        int64  `json:"candidates"`
	IndexedCandidates uint64 `json:"indexed_candidates"`
	SkillsKnown       int    `json:"skills_known"`
	DiskUsageBytes    *int64 `json:"disk_usage_bytes,omitempty"`
	Watch             *struct {
		Directories []string       `json:"directories"`
		Stats       *watcher.Stats `json:"stats,omitempty"`
	} `json:"watch,omitempty"`
}

func runStatus(args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (direct mode)")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = read storage directly)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(args)

	var status statusResponse
	if *serverURL != "" {
		if err := doJSON(http.MethodGet, *serverURL+"/api/v1/status", nil, &status); err != nil {
			return err
		}
	} else {
		components, cfg, err := openComponents(*configPath)
		if err != nil {
			return err
		}
		defer components.Close()
		count, err := components.Storage.CountCandidates(context.Background())
		if err != nil {
			return err
		}
		status.Candidates = count
		status.SkillsKnown = components.Extractor.Vocabulary().Len()
		if n, err := components.KeywordIndex.DocCount(); err == nil {
			status.IndexedCandidates = n
		}
		if size, err := storage.DiskUsageBytes(cfg.Storage.DatabasePath, cfg.Storage.IndexPath); err == nil {
			status.DiskUsageBytes = &size
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	case "text":
		fmt.Fprintf(stdout, "candidates:          %d\n", status.Candidates)
		fmt.Fprintf(stdout, "indexed_candidates:  %d\n", status.IndexedCandidates)
		fmt.Fprintf(stdout, "skills_known:        %d\n", status.SkillsKnown)
		if status.DiskUsageBytes != nil {
			fmt.Fprintf(stdout, "disk_usage_bytes:    %d\n", *status.DiskUsageBytes)
		}
		if status.Watch != nil {
			fmt.Fprintf(stdout, "watch_directories:   %s\n", strings.Join(status.Watch.Directories, ", "))
			if st := status.Watch.Stats; st != nil {
				fmt.Fprintf(stdout, "watch_ingested:      %d\n", st.Ingested)
				fmt.Fprintf(stdout, "watch_removed:       %d\n", st.Removed)
				fmt.Fprintf(stdout, "watch_failed:        %d\n", st.Failed)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q; use text or json", *outputFormat)
	}
}

func runWatch(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: talentmatch watch <add|remove|list> [path]")
	}
	sub := args[0]
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	_ = fs.Parse(argsReorder(args[1:]))
	endpoint := *serverURL + "/api/v1/watch/directories"

	switch sub {
	case "list":
		var out struct {
			Directories []string `json:"directories"`
		}
		if err := doJSON(http.MethodGet, endpoint, nil, &out); err != nil {
			return err
		}
		for _, d := range out.Directories {
			fmt.Fprintln(stdout, d)
		}
		return nil
	case "add", "remove":
		if fs.NArg() < 1 {
			return fmt.Errorf("usage: talentmatch watch %s <path>", sub)
		}
		path, err := filepath.Abs(fs.Arg(0))
		if err != nil {
			return err
		}
		var out map[string]string
		if sub == "add" {
			err = doJSON(http.MethodPost, endpoint, map[string]interface{}{"path": path, "sync": true}, &out)
		} else {
			err = doJSON(http.MethodDelete, endpoint+"?path="+url.QueryEscape(path), nil, &out)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s: %s\n", out["status"], out["path"])
		return nil
	default:
		return fmt.Errorf("unknown watch command %q", sub)
	}
}

// doJSON sends in (if non-nil) as JSON and decodes a 2xx JSON response into out.
// Error responses surface the server's error message.
func doJSON(method, endpoint string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, endpoint, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed (is the server running? use -server \"\" for direct mode): %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		b, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(b, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Components holds initialized services.
type Components struct {
	Storage      storage.Storage
	KeywordIndex keyword.KeywordIndex
	Extractor    *skills.Extractor
	Ranker       *ranking.Ranker
	Ingester     *ingest.Ingester
}

// Close releases storage and index handles.
func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.KeywordIndex != nil {
		_ = c.KeywordIndex.Close()
	}
}

// openComponents loads the config at path and initializes components with a
// logger that only reports debug output when the config enables it.
func openComponents(configPath string) (*Components, *config.Config, error) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		return nil, nil, err
	}
	return components, cfg, nil
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debug bool) (*Components, error) {
	vocab := skills.DefaultVocabulary()
	if cfg.Matching.VocabularyPath != "" {
		loaded, err := skills.LoadVocabulary(cfg.Matching.VocabularyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load vocabulary: %w", err)
		}
		vocab = loaded
		logger.Info("vocabulary loaded", zap.String("path", cfg.Matching.VocabularyPath), zap.Int("skills", vocab.Len()))
	}
	extractor := skills.NewExtractor(vocab)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	keywordIndex, err := keyword.NewBleveIndex(cfg.Storage.IndexPath)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize keyword index: %w", err)
	}

	componentLogger := zap.NewNop()
	if debug {
		componentLogger = logger
	}
	ranker := ranking.NewRanker(&ranking.Config{
		SkillWeight: cfg.Matching.SkillWeight,
		TextWeight:  cfg.Matching.TextWeight,
		Workers:     cfg.Matching.Workers,
	}, ranking.WithExtractor(extractor), ranking.WithLogger(componentLogger))
	ingester := ingest.NewIngester(store, keywordIndex, extractor, ingest.WithLogger(componentLogger))

	components := &Components{
		Storage:      store,
		KeywordIndex: keywordIndex,
		Extractor:    extractor,
		Ranker:       ranker,
		Ingester:     ingester,
	}

	// A missing or rebuilt index directory leaves the index behind the store.
	ctx := context.Background()
	stored, err := store.CountCandidates(ctx)
	if err != nil {
		components.Close()
		return nil, fmt.Errorf("failed to count candidates: %w", err)
	}
	if indexed, err := keywordIndex.DocCount(); err == nil && indexed < uint64(stored) {
		n, err := ingester.Reindex(ctx)
		if err != nil {
			logger.Warn("keyword reindex failed", zap.Error(err))
		} else {
			logger.Info("keyword index rebuilt", zap.Int("candidates", n))
		}
	}
	return components, nil
}

func printUsage() {
	fmt.Fprintln(stdout, `talentmatch - Candidate matching by skills and resume similarity

Usage:
  talentmatch server [flags]                  Start the HTTP server and resume watcher
  talentmatch match [flags] <description>     Rank candidates for a job description
  talentmatch search [flags] <query>          Keyword search over candidates
  talentmatch ingest [flags] <path>...        Ingest resume files or directories
  talentmatch list [flags]                    List stored candidates
  talentmatch delete [flags] <id>...          Delete candidates
  talentmatch seed [flags]                    Load the sample candidates
  talentmatch skills [flags] <text>           Extract skills from text
  talentmatch analyze [flags] <resume-file>   Analyze a resume
  talentmatch status [flags]                  Show pool and index status
  talentmatch watch <add|remove|list> [path]  Manage watched resume directories
  talentmatch version                         Show version
  talentmatch help                            Show this help

Common Flags:
  --config string    Config file path (default: /usr/local/etc/talentmatch/config.yaml,
                     or ./config.yaml when present)
  --server string    Server URL for match, search, status, watch (default: http://localhost:8080).
                     Use --server "" to work on local storage directly.
  --output string    Output format: text, compact, or json (default: text)

Match Flags:
  --limit int        Number of candidates (default: configured default_limit)
  --file string      Read the job description from a file (.txt, .md, .pdf, .docx, ...)

Examples:
  talentmatch seed
  talentmatch server --debug
  talentmatch match "Senior Python developer with Django, PostgreSQL and Docker"
  talentmatch match --server "" --limit 3 --output json "React and Node.js engineer"
  talentmatch ingest ~/resumes
  talentmatch skills "golang, k8s and machine learning"
  talentmatch analyze --title "Backend Engineer" resume.pdf
  talentmatch watch add ~/resumes`)
}
