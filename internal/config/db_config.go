package config

import (
	"fmt"
	"github.com/spf13/viper"
	"strings"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

const defaultSQLiteFile = "boss.db"

type DBConfig struct {
	Driver           string `mapstructure:"driver"`
	ConnectionString string `mapstructure:"connection_string"`
	TablePrefix      string `mapstructure:"table_prefix"`
	Host             string `mapstructure:"host"`
	Port             int    `mapstructure:"port"`
	User             string `mapstructure:"user"`
	Password         string `mapstructure:"password"`
	Name             string `mapstructure:"name"`
	Charset          string `mapstructure:"charset"`
	Collation        string `mapstructure:"collation"`
}

// DSN returns the connection string, assembling it from the discrete
// host/user/name settings when no explicit one is configured.
func (config DBConfig) DSN() string {
	if config.ConnectionString != "" {
		return config.ConnectionString
	}

	switch config.Driver {
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&collation=%s&parseTime=True&loc=Local",
			config.User, config.Password, config.Host, config.Port, config.Name, config.Charset, config.Collation)
	case DriverPostgres:
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			config.Host, config.Port, config.User, config.Password, config.Name)
	default:
		if config.Name != "" {
			return config.Name
		}
		return defaultSQLiteFile
	}
}

func (config DBConfig) validate() error {
	var missingFields []string

	switch config.Driver {
	case DriverSQLite:
		return nil
	case DriverPostgres, DriverMySQL:
	default:
		return fmt.Errorf("unsupported driver: %q", config.Driver)
	}

	if config.ConnectionString != "" {
		return nil
	}

	if config.Host == "" {
		missingFields = append(missingFields, "host")
	}
	if config.Name == "" {
		missingFields = append(missingFields, "name")
	}
	if config.Port <= 0 {
		missingFields = append(missingFields, "port")
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing connection_string or variables: %s", strings.Join(missingFields, ", "))
	}

	return nil
}

func (config DBConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.connection_string", "")
	v.SetDefault("db.table_prefix", "boss_")
	v.SetDefault("db.host", "")
	v.SetDefault("db.port", 0)
	v.SetDefault("db.user", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "")
	v.SetDefault("db.charset", "utf8mb4")
	v.SetDefault("db.collation", "utf8mb4_unicode_ci")
}

func (config DBConfig) bindEnvironmentVariables(v *viper.Viper) error {
	var errs []error

	bindings := map[string]string{
		"db.connection_string": "DB_CONNECTION_STRING",
		"db.driver":            "DB_DRIVER",
		"db.table_prefix":      "TABLE_PREFIX",
		"db.host":              "DB_HOST",
		"db.port":              "DB_PORT",
		"db.user":              "DB_USER",
		"db.password":          "DB_PASSWORD",
		"db.name":              "DB_NAME",
		"db.charset":           "DB_CHARSET",
		"db.collation":         "DB_COLLATION",
	}

	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
