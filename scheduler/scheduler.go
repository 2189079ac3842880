// Package scheduler re-runs configured searches on an interval and reports
// records that were not seen before.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"legiscraper/config"
	"legiscraper/db"
	"legiscraper/manager"
	"legiscraper/models"
	"legiscraper/query"
	"legiscraper/scraper"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Notifier delivers new-record alerts.
type Notifier interface {
	Notify(text string) error
}

// TelegramNotifier sends alerts to a Telegram chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier creates a notifier for a bot token and chat.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

// Notify implements the Notifier interface.
func (n *TelegramNotifier) Notify(text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	_, err := n.bot.Send(msg)
	return err
}

// SeenStore persists which records a watch has already produced. Satisfied
// by db.DB.
type SeenStore interface {
	MarkSeen(watch, source, recordKey string) (bool, error)
	SeenCount(watch string) (int, error)
	RecordRun(watch, source string, started, finished time.Time, totalRows, newRows int, abandoned bool) error
}

var _ SeenStore = (*db.DB)(nil)

// Scheduler runs every configured watch on its own interval.
type Scheduler struct {
	cfg      *config.Config
	db       SeenStore
	notifier Notifier // optional
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler; notifier may be nil to only log.
func NewScheduler(cfg *config.Config, database SeenStore, notifier Notifier, logger *zap.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cfg:      cfg,
		db:       database,
		notifier: notifier,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches one watch loop per configured watch.
func (s *Scheduler) Start() {
	for _, w := range s.cfg.Watches {
		s.wg.Add(1)
		go s.runWatch(w)
	}
}

// Stop stops all watch loops and waits for in-flight runs.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) runWatch(w config.WatchConfig) {
	defer s.wg.Done()

	ticker := time.NewTicker(w.Interval())
	defer ticker.Stop()

	s.processWatch(w)
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.processWatch(w)
		}
	}
}

// processWatch runs one watch once: scrape, diff against the seen-set,
// notify about new rows.
func (s *Scheduler) processWatch(w config.WatchConfig) {
	name := watchName(w)
	started := time.Now()

	engine, err := manager.Get(w.Source, manager.Options{
		Logger:    s.logger,
		PageDelay: s.cfg.PageDelay(),
		Retries:   s.cfg.Scraper.Retries,
		Timeout:   s.cfg.Timeout(),
	})
	if err != nil {
		s.logger.Error("watch misconfigured", zap.String("watch", name), zap.Error(err))
		return
	}

	var pages *scraper.PageRange
	if w.Pages > 0 {
		pages = scraper.Pages(1, w.Pages)
	}

	result, err := engine.Scrape(s.ctx, query.Terms(w.Terms...), pages)
	if err != nil {
		s.logger.Error("watch scrape failed", zap.String("watch", name), zap.Error(err))
		return
	}

	newRecords, err := s.diffNew(name, w, result)
	if err != nil {
		s.logger.Error("failed to diff results", zap.String("watch", name), zap.Error(err))
		return
	}

	if err := s.db.RecordRun(name, w.Source, started, time.Now(),
		len(result.Rows), len(newRecords), result.Abandoned()); err != nil {
		s.logger.Warn("failed to log watch run", zap.String("watch", name), zap.Error(err))
	}

	seenTotal, err := s.db.SeenCount(name)
	if err != nil {
		s.logger.Warn("failed to count seen records", zap.String("watch", name), zap.Error(err))
	}

	s.logger.Info("watch run finished",
		zap.String("watch", name),
		zap.Int("rows", len(result.Rows)),
		zap.Int("new", len(newRecords)),
		zap.Int("seen_total", seenTotal),
		zap.Bool("abandoned", result.Abandoned()))

	if len(newRecords) > 0 && s.notifier != nil {
		if err := s.notifier.Notify(formatAlert(w, newRecords, seenTotal)); err != nil {
			s.logger.Warn("failed to send alert", zap.String("watch", name), zap.Error(err))
		}
	}
}

// diffNew marks every scraped record as seen and returns the ones this watch
// had never produced before. Records without the key column are kept out of
// the seen-set but reported once per run.
func (s *Scheduler) diffNew(name string, w config.WatchConfig, result *models.ResultSet) ([]models.Record, error) {
	var fresh []models.Record
	for _, rec := range result.Rows {
		key := rec[w.Key()]
		if key == "" {
			continue
		}
		isNew, err := s.db.MarkSeen(name, w.Source, key)
		if err != nil {
			return nil, err
		}
		if isNew {
			fresh = append(fresh, rec)
		}
	}
	return fresh, nil
}

func watchName(w config.WatchConfig) string {
	return w.Source + ":" + strings.Join(w.Terms, ",")
}

// formatAlert builds the notification text for a batch of new records.
func formatAlert(w config.WatchConfig, records []models.Record, seenTotal int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔎 %d novo(s) resultado(s) em %s para %s\n",
		len(records), w.Source, strings.Join(w.Terms, ", "))

	const maxListed = 10
	for i, rec := range records {
		if i == maxListed {
			fmt.Fprintf(&b, "… e mais %d\n", len(records)-maxListed)
			break
		}
		title := rec["titulo"]
		if title == "" {
			title = rec["nome"]
		}
		if title == "" {
			title = rec[w.Key()]
		}
		fmt.Fprintf(&b, "• %s\n%s\n", title, rec[w.Key()])
	}
	if seenTotal > 0 {
		fmt.Fprintf(&b, "Total acompanhado: %d\n", seenTotal)
	}
	return b.String()
}
