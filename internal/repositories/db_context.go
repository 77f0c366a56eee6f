package repositories

import (
	"fmt"
	"github.com/glebarez/sqlite"
	"github.com/maxaizer/boss-scraper/internal/config"
	"github.com/maxaizer/boss-scraper/internal/entities"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
	"reflect"
)

type DbContext struct {
	DB *gorm.DB
}

func NewDbContext(cfg config.DBConfig) (*DbContext, error) {

	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		NamingStrategy: newTableNamer(cfg.TablePrefix),
	})
	if err != nil {
		return nil, err
	}

	if cfg.Driver == config.DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	}

	return &DbContext{DB: db}, nil
}

func dialectorFor(cfg config.DBConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		return sqlite.Open(cfg.DSN()), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DriverMySQL:
		return mysql.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}

// Migrate creates or updates all tables.
func (c *DbContext) Migrate() error {
	for _, model := range entities.Models() {
		if err := c.DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %s entity: %w", reflect.TypeOf(model).Elem().Name(), err)
		}
	}
	return nil
}

func (c *DbContext) Close() error {
	db, err := c.DB.DB()
	if err != nil {
		return err
	}

	return db.Close()
}

// tableNamer prefixes every table and keeps the two historically singular table names.
type tableNamer struct {
	schema.NamingStrategy
}

var singularTables = map[string]string{
	"CompanyWelfare":      "company_welfare",
	"JobCompanyRecruiter": "job_company_recruiter",
}

func newTableNamer(prefix string) tableNamer {
	return tableNamer{NamingStrategy: schema.NamingStrategy{TablePrefix: prefix}}
}

func (n tableNamer) TableName(str string) string {
	if name, ok := singularTables[str]; ok {
		return n.NamingStrategy.TablePrefix + name
	}
	return n.NamingStrategy.TableName(str)
}
