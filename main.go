package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"legiscraper/config"
	"legiscraper/db"
	"legiscraper/export"
	"legiscraper/manager"
	"legiscraper/query"
	"legiscraper/scheduler"
	"legiscraper/scraper"

	"go.uber.org/zap"
)

func main() {
	var (
		sourceName = flag.String("source", "", "source to scrape: "+strings.Join(manager.Names(), ", "))
		pesquisa   = flag.String("pesquisa", "", "comma-separated search terms (supports OU/E expressions)")
		paginas    = flag.String("paginas", "", "page range, e.g. \"1-5\" or \"3\" (default: all pages)")
		outPath    = flag.String("out", "resultados.csv", "output file (.csv or .xlsx)")
		ano        = flag.String("ano", "", "filter by year (camara and senado)")
		tipo       = flag.String("tipo", "", "filter by norm type (camara and senado)")
		dataInicio = flag.String("data-inicio", "", "start date YYYY-MM-DD (cnj)")
		dataFim    = flag.String("data-fim", "", "end date YYYY-MM-DD (cnj)")
		configPath = flag.String("config", "", "path to config file")
		monitor    = flag.Bool("monitor", false, "run configured watches on a schedule")
		verbose    = flag.Bool("verbose", false, "enable debug logging")
	)
	flag.Parse()

	logger, err := newLogger(*verbose)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	cfg := config.GetDefaultConfig()
	if *configPath != "" {
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			logger.Fatal("failed to load config", zap.Error(err))
		}
	}

	if *monitor {
		runMonitor(cfg, logger)
		return
	}

	if *sourceName == "" || *pesquisa == "" {
		flag.Usage()
		os.Exit(2)
	}

	pages, err := parsePageRange(*paginas)
	if err != nil {
		logger.Fatal("invalid -paginas", zap.Error(err))
	}

	engine, err := manager.Get(*sourceName, manager.Options{
		Logger:      logger,
		PageDelay:   cfg.PageDelay(),
		Retries:     cfg.Scraper.Retries,
		Timeout:     cfg.Timeout(),
		Ano:         *ano,
		TipoMateria: *tipo,
		DataInicio:  *dataInicio,
		DataFim:     *dataFim,
	})
	if err != nil {
		logger.Fatal("unknown source", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	terms := splitTerms(*pesquisa)
	result, err := engine.Scrape(ctx, query.Terms(terms...), pages)
	if err != nil {
		logger.Fatal("scrape failed", zap.Error(err))
	}
	if result.Abandoned() {
		logger.Warn("some terms were abandoned before exhausting their pages")
	}

	if err := export.Save(*outPath, result); err != nil {
		logger.Fatal("failed to save results", zap.Error(err))
	}
	logger.Info("done",
		zap.String("out", *outPath),
		zap.Int("rows", len(result.Rows)),
		zap.Int("terms", len(result.Terms)))
}

func runMonitor(cfg *config.Config, logger *zap.Logger) {
	if len(cfg.Watches) == 0 {
		logger.Fatal("monitor mode requires at least one watch in the config file")
	}

	database, err := db.NewDB(cfg.Database.URL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	var notifier scheduler.Notifier
	if cfg.Telegram.Token != "" {
		notifier, err = scheduler.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			logger.Fatal("failed to create telegram notifier", zap.Error(err))
		}
	}

	sched := scheduler.NewScheduler(cfg, database, notifier, logger)
	sched.Start()
	logger.Info("monitor started", zap.Int("watches", len(cfg.Watches)))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	sched.Stop()
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	return cfg.Build()
}

// parsePageRange parses "first-last" or a single page number. An empty
// string means no bound.
func parsePageRange(s string) (*scraper.PageRange, error) {
	if s == "" {
		return nil, nil
	}
	first, last, found := strings.Cut(s, "-")
	if !found {
		last = first
	}
	f, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return nil, fmt.Errorf("invalid page %q: %w", first, err)
	}
	l, err := strconv.Atoi(strings.TrimSpace(last))
	if err != nil {
		return nil, fmt.Errorf("invalid page %q: %w", last, err)
	}
	return scraper.Pages(f, l), nil
}

func splitTerms(s string) []string {
	parts := strings.Split(s, ",")
	terms := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}
