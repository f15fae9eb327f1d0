package main

import (
	"strconv"

	"github.com/alqudimi/deepdoc"
	"github.com/alqudimi/deepdoc/yaml"
)

// envOverrides maps environment variables onto configuration fields. They
// are applied after the configuration file and before command flags.
var envOverrides = []struct {
	name  string
	apply func(c *deepdoc.Config, v string) error
}{
	{"DEEPDOC_BACKEND", stringEnv(func(c *deepdoc.Config) *string { return &c.Backend })},
	{"DEEPDOC_BASE_URL", stringEnv(func(c *deepdoc.Config) *string { return &c.BaseURL })},
	{"DEEPDOC_MODEL", stringEnv(func(c *deepdoc.Config) *string { return &c.Model })},
	{"DEEPDOC_TEMPERATURE", floatEnv(func(c *deepdoc.Config) *float64 { return &c.Temperature })},
	{"DEEPDOC_TIMEOUT_SECONDS", intEnv(func(c *deepdoc.Config) *int { return &c.TimeoutSeconds })},
	{"DEEPDOC_RETRY_ATTEMPTS", intEnv(func(c *deepdoc.Config) *int { return &c.RetryAttempts })},
	{"DEEPDOC_MAX_CONCURRENT_REQUESTS", intEnv(func(c *deepdoc.Config) *int { return &c.MaxConcurrentRequests })},
	{"DEEPDOC_REQUESTS_PER_SECOND", floatEnv(func(c *deepdoc.Config) *float64 { return &c.RequestsPerSecond })},
	{"DEEPDOC_CACHE_ENABLED", boolEnv(func(c *deepdoc.Config) *bool { return &c.CacheEnabled })},
	{"DEEPDOC_CACHE_TTL_HOURS", intEnv(func(c *deepdoc.Config) *int { return &c.CacheTTLHours })},
	{"DEEPDOC_OUTPUT_DIR", stringEnv(func(c *deepdoc.Config) *string { return &c.Output.Directory })},
	{"DEEPDOC_NOTIFY", boolEnv(func(c *deepdoc.Config) *bool { return &c.Notifications.CompletionMessage })},
}

// LoadConfig reads the configuration file at path and applies environment
// overrides. A missing file falls back to the defaults unless the path was
// given explicitly. The result is not validated.
func LoadConfig(path string, explicit bool, getenv func(string) string) (deepdoc.Config, error) {
	cfg, err := yaml.LoadConfig(path)
	if deepdoc.ErrorCode(err) == deepdoc.ENOTFOUND && !explicit {
		cfg, err = deepdoc.DefaultConfig(), nil
	}
	if err != nil {
		return deepdoc.Config{}, err
	}

	if err := applyEnv(&cfg, getenv); err != nil {
		return deepdoc.Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *deepdoc.Config, getenv func(string) string) error {
	for _, o := range envOverrides {
		v := getenv(o.name)
		if v == "" {
			continue
		}
		if err := o.apply(cfg, v); err != nil {
			return deepdoc.Errorf(deepdoc.EINVALID, "%s: invalid value %q", o.name, v)
		}
	}
	return nil
}

func stringEnv(field func(*deepdoc.Config) *string) func(*deepdoc.Config, string) error {
	return func(c *deepdoc.Config, v string) error {
		*field(c) = v
		return nil
	}
}

func intEnv(field func(*deepdoc.Config) *int) func(*deepdoc.Config, string) error {
	return func(c *deepdoc.Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func floatEnv(field func(*deepdoc.Config) *float64) func(*deepdoc.Config, string) error {
	return func(c *deepdoc.Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*field(c) = f
		return nil
	}
}

func boolEnv(field func(*deepdoc.Config) *bool) func(*deepdoc.Config, string) error {
	return func(c *deepdoc.Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*field(c) = b
		return nil
	}
}
