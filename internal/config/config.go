package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"

	PolicyRedirect = "redirect"
	PolicyForbid   = "forbid"
)

// Config is built once at start-up and passed explicitly to the components
// that need it. Nothing mutates it afterwards.
type Config struct {
	Env  string `yaml:"env"`
	Port string `yaml:"port"`

	DBDriver string `yaml:"db_driver"`
	DBDSN    string `yaml:"db_dsn"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	JWTSecret string        `yaml:"jwt_secret"`
	JWTTTL    time.Duration `yaml:"jwt_ttl"`

	PostsPerPage  int           `yaml:"posts_per_page"`
	UploadDir     string        `yaml:"posts_upload_to"`
	LoginURL      string        `yaml:"login_url"`
	IndexCacheTTL time.Duration `yaml:"index_cache_ttl"`

	// IndexWarmInterval > 0 rebuilds the first IndexWarmPages cached index
	// pages on that interval.
	IndexWarmInterval time.Duration `yaml:"index_warm_interval"`
	IndexWarmPages    int           `yaml:"index_warm_pages"`

	// CORSAllowedOrigins lists browser origins allowed to call the API with
	// credentials. Empty disables CORS handling.
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`

	// EditForbiddenPolicy decides what a non-author gets from the edit page:
	// a redirect to the post (default) or a plain 403.
	EditForbiddenPolicy string `yaml:"edit_forbidden_policy"`
}

// Default returns the configuration used when nothing overrides a key.
func Default() Config {
	return Config{
		Env:                 "development",
		Port:                "8000",
		DBDriver:            DriverMySQL,
		JWTTTL:              24 * time.Hour,
		PostsPerPage:        10,
		UploadDir:           "media/posts",
		LoginURL:            "/auth/login/",
		IndexCacheTTL:       20 * time.Second,
		IndexWarmPages:      1,
		EditForbiddenPolicy: PolicyRedirect,
	}
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// CacheEnabled reports whether the index page cache should be wired.
func (c Config) CacheEnabled() bool {
	return c.RedisAddr != "" && c.IndexCacheTTL > 0
}

// WarmerEnabled reports whether the index warmer should run.
func (c Config) WarmerEnabled() bool {
	return c.CacheEnabled() && c.IndexWarmInterval > 0
}

// Validate reports every missing or invalid key at once.
func (c Config) Validate() error {
	var problems []string
	if c.DBDSN == "" {
		problems = append(problems, "DB_DSN is not set")
	}
	if c.DBDriver != DriverMySQL && c.DBDriver != DriverPostgres {
		problems = append(problems, fmt.Sprintf("DB_DRIVER %q is not supported", c.DBDriver))
	}
	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is not set")
	}
	if c.JWTTTL <= 0 {
		problems = append(problems, "JWT_TTL must be positive")
	}
	if c.PostsPerPage <= 0 {
		problems = append(problems, "POSTS_PER_PAGE must be positive")
	}
	if c.IndexWarmInterval < 0 || c.IndexWarmPages < 1 {
		problems = append(problems, "INDEX_WARM_INTERVAL must not be negative and INDEX_WARM_PAGES must be positive")
	}
	if !strings.HasPrefix(c.LoginURL, "/") {
		problems = append(problems, "LOGIN_URL must be an absolute path")
	}
	if c.EditForbiddenPolicy != PolicyRedirect && c.EditForbiddenPolicy != PolicyForbid {
		problems = append(problems, fmt.Sprintf("EDIT_FORBIDDEN_POLICY %q is not supported", c.EditForbiddenPolicy))
	}
	if len(problems) > 0 {
		return errors.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}
