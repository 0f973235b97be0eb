package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/nkiryanov/movierater/internal/logger"
)

const (
	defaultListenAddr        = "localhost:8000"
	defaultLoggingLevel      = logger.LevelInfo
	defaultEnvironment       = logger.EnvProd
	defaultPasswordMinLength = 6
	defaultAuthRatePerMinute = 10
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the server will be run
	ListenAddr string

	// Database to connect to
	DatabaseDSN string

	// Secret key
	// Some internal parts (like signing JWT tokens) uses symmetric encryption, so this key is used for that purpose
	SecretKey string

	// Environment: dev or prod
	Environment string

	// Origins allowed to call API from browser
	CORSOrigins []string

	// Minimum length of user password
	PasswordMinLength int

	// Login and registration attempts per minute from one IP, zero disables limit
	AuthRatePerMinute int
}

func NewConfig() *Config {
	return &Config{
		LogLevel:          defaultLoggingLevel,
		ListenAddr:        defaultListenAddr,
		Environment:       defaultEnvironment,
		PasswordMinLength: defaultPasswordMinLength,
		AuthRatePerMinute: defaultAuthRatePerMinute,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		return c.LoadEnv(func(key string) string {
			return envMap[key]
		})
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) error {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) error {
		return func(value string) error {
			if value != "" {
				*o = value
			}
			return nil
		}
	}
	setInt := func(o *int) func(value string) error {
		return func(value string) error {
			if value == "" {
				return nil
			}
			n, err := strconv.Atoi(value)
			if err != nil {
				return err
			}
			*o = n
			return nil
		}
	}
	setList := func(o *[]string) func(value string) error {
		return func(value string) error {
			if value == "" {
				return nil
			}
			*o = (*o)[:0]
			for _, item := range strings.Split(value, ",") {
				if item = strings.TrimSpace(item); item != "" {
					*o = append(*o, item)
				}
			}
			return nil
		}
	}

	envMap := map[string]func(string) error{
		"RUN_ADDRESS":         setString(&c.ListenAddr),
		"DATABASE_URI":        setString(&c.DatabaseDSN),
		"SECRET_KEY":          setString(&c.SecretKey),
		"LOG_LEVEL":           setString(&c.LogLevel),
		"ENVIRONMENT":         setString(&c.Environment),
		"CORS_ORIGINS":        setList(&c.CORSOrigins),
		"PASSWORD_MIN_LENGTH": setInt(&c.PasswordMinLength),
		"AUTH_RATE_LIMIT":     setInt(&c.AuthRatePerMinute),
	}

	for key, parseFn := range envMap {
		if err := parseFn(getenv(key)); err != nil {
			return fmt.Errorf("invalid %s value. Err: %w", key, err)
		}
	}

	return nil
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("movierater", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.SecretKey, "secret-key", "s", c.SecretKey, "Secret key")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")
	fs.StringSliceVar(&c.CORSOrigins, "cors-origins", c.CORSOrigins, "Origins allowed to call API, comma separated")
	fs.IntVar(&c.PasswordMinLength, "password-min-length", c.PasswordMinLength, "Minimum user password length")
	fs.IntVar(&c.AuthRatePerMinute, "auth-rate-limit", c.AuthRatePerMinute, "Login and registration attempts per minute from one IP, 0 is unlimited")

	return fs.Parse(args)
}

// Check config is ready to start server with
func (c *Config) Validate() error {
	switch {
	case c.DatabaseDSN == "":
		return errors.New("database connection string must be set")
	case c.SecretKey == "":
		return errors.New("secret key must be set")
	case c.PasswordMinLength < 1:
		return errors.New("password min length must be positive")
	case c.AuthRatePerMinute < 0:
		return errors.New("auth rate limit must not be negative")
	default:
		return nil
	}
}
