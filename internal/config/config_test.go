package config

import "testing"

func validConfig() Config {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Driver: DriverPostgres, DSN: "postgres://localhost/talentdex"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Driver = "mysql"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
	expected := `database.driver must be "postgres" or "sqlite", got "mysql"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_PostgresRequiresDSN(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{Port: 8080}, Database: DatabaseConfig{Driver: DriverPostgres}}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing dsn")
	}
}

func TestValidate_RedisCacheRequiresAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Driver = CacheRedis

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing cache addrs")
	}
	cfg.Cache.Addrs = []string{"localhost:6379"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_NegativeCacheDurations(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.LocalCacheSec = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative local_cache_sec")
	}

	cfg = validConfig()
	cfg.Cache.NegativeTTLHours = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative negative_ttl_hours")
	}
}

func TestValidate_CacheDrivers(t *testing.T) {
	for _, driver := range []string{CacheStore, CacheFile, CacheMemory} {
		t.Run("driver="+driver, func(t *testing.T) {
			cfg := validConfig()
			cfg.Cache.Driver = driver
			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for driver %q: %v", driver, err)
			}
		})
	}

	cfg := validConfig()
	cfg.Cache.Driver = "memcached"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown cache driver")
	}
}

func TestValidate_SpatialMode(t *testing.T) {
	cfg := validConfig()
	cfg.Spatial.Mode = "sometimes"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown spatial mode")
	}

	cfg = Config{HTTP: HTTPConfig{Port: 8080}, Spatial: SpatialConfig{Mode: SpatialOn}}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for spatial on without postgres")
	}
}

func TestValidate_SearchBounds(t *testing.T) {
	cfg := validConfig()
	cfg.Search.MaxPageSize = 10
	cfg.Search.DefaultPageSize = 20
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for max_page_size < default_page_size")
	}

	cfg = validConfig()
	cfg.Search.MaxRadiusMiles = 5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for max_radius_miles < default_radius_miles")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.Driver != DriverSQLite || cfg.Database.DSN != "talentdex.db" {
		t.Errorf("expected sqlite talentdex.db, got %s %q", cfg.Database.Driver, cfg.Database.DSN)
	}
	if cfg.Cache.Driver != CacheStore {
		t.Errorf("expected cache driver store, got %q", cfg.Cache.Driver)
	}
	if cfg.Cache.KeyPrefix != "talentdex:zip:" {
		t.Errorf("expected KeyPrefix='talentdex:zip:', got %q", cfg.Cache.KeyPrefix)
	}
	if cfg.Cache.NegativeTTLHours != 0 {
		t.Errorf("expected NegativeTTLHours=0, got %d", cfg.Cache.NegativeTTLHours)
	}
	if cfg.Search.DefaultPageSize != 20 || cfg.Search.MaxPageSize != 100 {
		t.Errorf("expected page sizes 20/100, got %d/%d", cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize)
	}
	if cfg.Search.DefaultRadiusMiles != 25 || cfg.Search.MaxRadiusMiles != 500 {
		t.Errorf("expected radius 25/500, got %g/%g", cfg.Search.DefaultRadiusMiles, cfg.Search.MaxRadiusMiles)
	}
	if cfg.Search.CandidateConcurrency != 8 {
		t.Errorf("expected CandidateConcurrency=8, got %d", cfg.Search.CandidateConcurrency)
	}
	if cfg.Spatial.Mode != SpatialAuto {
		t.Errorf("expected spatial mode auto, got %q", cfg.Spatial.Mode)
	}
	if cfg.Geocoding.ZipURL != "https://api.zippopotam.us" {
		t.Errorf("unexpected ZipURL %q", cfg.Geocoding.ZipURL)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database: DatabaseConfig{ReadinessTimeout: 15},
		Cache:    CacheConfig{Driver: CacheFile, FilePath: "/tmp/zips.json", KeyPrefix: "custom:"},
		Search:   SearchConfig{DefaultPageSize: 50, MaxPageSize: 500, DefaultRadiusMiles: 10},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Cache.FilePath != "/tmp/zips.json" || cfg.Cache.KeyPrefix != "custom:" {
		t.Errorf("cache settings overridden: %+v", cfg.Cache)
	}
	if cfg.Search.DefaultPageSize != 50 || cfg.Search.DefaultRadiusMiles != 10 {
		t.Errorf("search settings overridden: %+v", cfg.Search)
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("TALENTDEX_TEST_DSN", "postgres://db/talentdex")

	cfg, err := parse([]byte(`
http:
  port: ${TALENTDEX_TEST_PORT:-9090}
database:
  driver: postgres
  dsn: ${TALENTDEX_TEST_DSN}
offices:
  Midwest: midwest@example.com
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Database.DSN != "postgres://db/talentdex" {
		t.Errorf("unexpected dsn %q", cfg.Database.DSN)
	}
	if cfg.Offices["Midwest"] != "midwest@example.com" {
		t.Errorf("unexpected offices %v", cfg.Offices)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := parse([]byte("http: [")); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := parse([]byte("http:\n  port: 0\n")); err == nil {
		t.Fatal("expected validation error")
	}
}
