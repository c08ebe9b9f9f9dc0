// Package config provides configuration for the countdemo tooling.
//
// Values come from the process environment; a .env file in the working
// directory is loaded automatically. Lookups are typed through MustEnv and
// the M accessors, and nested values can be reached with dot notation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	_ "github.com/joho/godotenv/autoload"
)

// Environment keys read by Load.
const (
	KeyAppName  = "APP_NAME"
	KeyLogLevel = "LOG_LEVEL"
	KeyUpdates  = "COUNTDEMO_UPDATES"
	KeyDisplays = "COUNTDEMO_DISPLAYS"
)

// M is a map of settings with typed accessors. Each accessor returns the
// first default when the key is missing or holds another type.
type M map[string]any

func (m M) String(key string, defaultVal ...string) string {
	if val, ok := m[key].(string); ok {
		return val
	}
	return first(defaultVal)
}

func (m M) Int(key string, defaultVal ...int) int {
	if val, ok := m[key].(int); ok {
		return val
	}
	return first(defaultVal)
}

func (m M) Bool(key string, defaultVal ...bool) bool {
	if val, ok := m[key].(bool); ok {
		return val
	}
	return first(defaultVal)
}

func first[T any](vals []T) T {
	var zero T
	if len(vals) == 0 {
		return zero
	}
	return vals[0]
}

// Config is a thread-safe nested settings map.
type Config struct {
	mu sync.RWMutex
	m  M
}

func New() *Config {
	return &Config{m: make(M)}
}

// Load reads the known environment keys into a new Config:
//
//	app.name       APP_NAME            (countdemo)
//	log.level      LOG_LEVEL           (info)
//	demo.updates   COUNTDEMO_UPDATES   (3)
//	demo.displays  COUNTDEMO_DISPLAYS  (2)
//
// It panics if a numeric key holds something that does not parse.
func Load() *Config {
	c := New()
	c.Set("app.name", MustEnv(KeyAppName, "countdemo"))
	c.Set("log.level", MustEnv(KeyLogLevel, "info"))
	c.Set("demo.updates", MustEnv(KeyUpdates, 3))
	c.Set("demo.displays", MustEnv(KeyDisplays, 2))
	return c
}

// Set stores value under key. Dots in key create nested maps.
func (c *Config) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := strings.Split(key, ".")
	current := c.m
	for _, k := range keys[:len(keys)-1] {
		next, ok := current[k].(M)
		if !ok {
			next = make(M)
			current[k] = next
		}
		current = next
	}
	current[keys[len(keys)-1]] = value
}

// Get returns the value under key, or fallback[0] when it is missing.
func (c *Config) Get(key string, fallback ...any) any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := strings.Split(key, ".")
	current := c.m
	for _, k := range keys[:len(keys)-1] {
		next, ok := current[k].(M)
		if !ok {
			return first(fallback)
		}
		current = next
	}
	if v, ok := current[keys[len(keys)-1]]; ok {
		return v
	}
	return first(fallback)
}

// Section returns a copy of the nested map under key, or an empty M.
func (c *Config) Section(key string) M {
	c.mu.RLock()
	defer c.mu.RUnlock()

	current := c.m
	for _, k := range strings.Split(key, ".") {
		next, ok := current[k].(M)
		if !ok {
			return M{}
		}
		current = next
	}
	return deepCopy(current)
}

func deepCopy(in M) M {
	out := make(M, len(in))
	for k, v := range in {
		if nested, ok := v.(M); ok {
			out[k] = deepCopy(nested)
		} else {
			out[k] = v
		}
	}
	return out
}

// MustEnv retrieves an environment variable converted to the type of
// fallback, returning fallback when it is unset. It panics on values that
// do not convert.
func MustEnv[T any](key string, fallback T) T {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}

	var result T
	var err error

	switch any(fallback).(type) {
	case int:
		var i int
		i, err = strconv.Atoi(value)
		result = any(i).(T)
	case bool:
		var b bool
		b, err = strconv.ParseBool(value)
		result = any(b).(T)
	case string:
		result = any(value).(T)
	default:
		panic(fmt.Sprintf("unsupported type for environment variable %s", key))
	}

	if err != nil {
		panic(fmt.Errorf("environment variable %s: %w", key, err))
	}

	return result
}
