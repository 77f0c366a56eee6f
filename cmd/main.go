package main

import (
	"context"
	"fmt"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/boss-scraper/internal/clients/boss"
	"github.com/maxaizer/boss-scraper/internal/config"
	"github.com/maxaizer/boss-scraper/internal/cookies"
	"github.com/maxaizer/boss-scraper/internal/logger"
	"github.com/maxaizer/boss-scraper/internal/metrics"
	"github.com/maxaizer/boss-scraper/internal/notifier"
	"github.com/maxaizer/boss-scraper/internal/repositories"
	"github.com/maxaizer/boss-scraper/internal/services"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"os"
	"os/signal"
	"syscall"
)

type options struct {
	configFile string
	setCookie  string
	setupDB    bool
	importJSON bool
}

var opts options

var rootCmd = &cobra.Command{
	Use:           "boss-scraper",
	Short:         "Scrapes BOSS Zhipin job listings into a relational database.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&opts.configFile, "config", config.DefaultFile, "path to the config file")
	flags.StringVar(&opts.setCookie, "set-cookie", "", "cookie jar to store, as a JSON object or a path to a JSON file")
	flags.BoolVar(&opts.setupDB, "setup-db", false, "create the tables and exit")
	flags.BoolVar(&opts.importJSON, "import-json", false, "import saved responses instead of scraping")

	flags.String("log", "", "log file path")
	flags.Bool("backup", false, "save every fetched page as JSON")
	flags.Int("max-pages", 0, "stop after this page, 0 means no limit")
	flags.String("query", "", "search term")
	flags.String("city", "", "city code")
	flags.String("json-dir", "", "directory with saved responses for --import-json")
	flags.String("schedule", "", "cron expression to repeat the scrape on")
}

func run(cmd *cobra.Command, _ []string) error {

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(opts.configFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metrics.StartMetricsServer(cfg.Metrics.Address)

	cookieStore := cookies.NewStore(cfg.Scraper.CookieFile)
	if opts.setCookie != "" {
		jar, err := cookies.ParseInjected(opts.setCookie)
		if err != nil {
			return fmt.Errorf("can't parse cookies: %w", err)
		}
		if err = cookieStore.Save(jar); err != nil {
			return fmt.Errorf("can't save cookies: %w", err)
		}
		log.Infof("saved %d cookies to %s", len(jar), cookieStore.Path())
	}

	dbContext, err := repositories.NewDbContext(cfg.DB)
	if err != nil {
		return fmt.Errorf("can't create db context: %w", err)
	}
	defer dbContext.Close()

	if err = dbContext.Migrate(); err != nil {
		return fmt.Errorf("can't migrate db context: %w", err)
	}
	if opts.setupDB {
		log.Info("database is set up")
		return nil
	}

	bus := EventBus.New()
	if err = subscribeSummary(bus, os.Stdout); err != nil {
		return err
	}

	if cfg.Notifier.Enabled() {
		if _, err = notifier.NewTelegram(cfg.Notifier.TelegramToken, cfg.Notifier.TelegramChatID, bus); err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeTgApi).Errorf("can't create notifier: %v", err)
		}
	}

	jobs := repositories.NewCachedJobs(repositories.NewJobsRepository(dbContext.DB))
	normalizer := services.NewNormalizer(jobs)

	if opts.importJSON {
		_, err = services.NewImporter(bus, normalizer, cfg.Importer).ImportDirectory(ctx, cfg.Importer.JSONDir)
		return err
	}

	return runScraper(ctx, cfg, bus, cookieStore, dbContext, normalizer)
}

func runScraper(ctx context.Context, cfg *config.Config, bus EventBus.Bus, cookieStore *cookies.Store,
	dbContext *repositories.DbContext, normalizer *services.Normalizer) error {

	if cfg.Scraper.Backup {
		if _, err := services.NewBackupWriter(bus, cfg.Scraper.BackupDir); err != nil {
			return err
		}
	}

	client := boss.NewClient(cfg.Scraper, cookieStore, repositories.NewRequestLogsRepository(dbContext.DB))
	scraper := services.NewScraper(bus, client, cookieStore, normalizer, cfg.Scraper)

	params := boss.SearchParameters{
		Query:    cfg.Scraper.Query,
		City:     cfg.Scraper.City,
		Scene:    cfg.Scraper.Scene,
		Page:     1,
		PageSize: cfg.Scraper.PageSize,
	}

	if cfg.Scraper.Schedule == "" {
		return scraper.Run(ctx, params)
	}

	scheduler, err := services.NewScheduler(ctx, scraper, params, cfg.Scraper.Schedule)
	if err != nil {
		return err
	}
	scheduler.Start()

	<-ctx.Done()

	log.Info("Shutting down scheduler...")
	scheduler.Stop()
	log.Info("Scheduler stopped.")
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
