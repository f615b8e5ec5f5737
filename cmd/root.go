package cmd

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	dsn        string
	cfgFile    string
	DB         *sql.DB
	DriverName string
	SchemaName string // schema to introspect; resolved per driver when empty
)

var RootCmd = &cobra.Command{
	Use:   "synthcheck",
	Short: "Sensitivity-aware synthetic data generator",
	Long: `
 ____             _   _      ____ _               _
/ ___| _   _ _ __ | |_| |__  / ___| |__   ___  ___| | __
\___ \| | | | '_ \| __| '_ \| |   | '_ \ / _ \/ __| |/ /
 ___) | |_| | | | | |_| | | | |___| | | |  __/ (__|   <
|____/ \__, |_| |_|\__|_| |_|\____|_| |_|\___|\___|_|\_\
       |___/

SynthCheck - PII-aware synthetic tabular data generator
`,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// connect opens the database lazily so schema-file workflows never touch
// a live database. Resolution order: active config entry > --dsn flag >
// viper default.
func connect() error {
	if DB != nil {
		return nil
	}

	connStr := viper.GetString("database.dsn")
	driver := viper.GetString("database.driver")

	if active, err := GetActiveDBConfig(); err == nil {
		connStr = active.DSN
		driver = active.Driver
		if active.Schema != "" && SchemaName == "" {
			SchemaName = active.Schema
		}
	}
	if dsn != "" {
		connStr = dsn
	}
	if connStr == "" {
		return fmt.Errorf("database.dsn is required (via flag or config)")
	}

	if driver != "" {
		DriverName = driver
	} else {
		DriverName = detectDriver(connStr)
	}

	var err error
	DB, err = sql.Open(DriverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	if err := DB.Ping(); err != nil {
		return fmt.Errorf("failed to connect to db: %w", err)
	}

	if SchemaName == "" && DriverName == "mysql" {
		if err := DB.QueryRow("SELECT DATABASE()").Scan(&SchemaName); err != nil {
			return fmt.Errorf("failed to get database name: %w", err)
		}
		if SchemaName == "" {
			return fmt.Errorf("no database selected in DSN")
		}
	}
	return nil
}

func detectDriver(connStr string) string {
	switch {
	case strings.HasPrefix(connStr, "sqlserver://"):
		return "sqlserver"
	case strings.HasPrefix(connStr, "oracle://"):
		return "oracle"
	case strings.Contains(connStr, "postgres") || strings.Contains(connStr, "sslmode"):
		return "postgres"
	default:
		return "mysql"
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./synthcheck.yaml)")
	RootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Database Source Name (DSN)")
	RootCmd.PersistentFlags().StringVar(&SchemaName, "schema-name", "", "database schema to introspect")

	viper.BindPFlag("database.dsn", RootCmd.PersistentFlags().Lookup("dsn"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Executable directory first, then current directory.
		if ex, err := os.Executable(); err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}
		viper.AddConfigPath(".")

		viper.SetConfigName("synthcheck")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
