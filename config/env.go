package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// envValue returns the trimmed value of key; blank values count as unset.
func envValue(key string) (string, bool) {
	raw, ok := os.LookupEnv(key)
	raw = strings.TrimSpace(raw)
	return raw, ok && raw != ""
}

// fromEnv parses key with parse and falls back to def when the variable is
// unset or unparsable.
func fromEnv[T any](key string, def T, parse func(string) (T, error)) T {
	raw, ok := envValue(key)
	if !ok {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}

func getEnvAsString(key, def string) string {
	return fromEnv(key, def, func(s string) (string, error) { return s, nil })
}

func getEnvAsInt(key string, def int) int {
	return fromEnv(key, def, strconv.Atoi)
}

func getEnvAsBool(key string, def bool) bool {
	return fromEnv(key, def, strconv.ParseBool)
}

// getEnvAsTimeDuration takes "15s"/"2h" style values or bare seconds.
func getEnvAsTimeDuration(key string, def time.Duration) time.Duration {
	return fromEnv(key, def, func(s string) (time.Duration, error) {
		if d, err := time.ParseDuration(s); err == nil {
			return d, nil
		}
		secs, err := strconv.Atoi(s)
		return time.Duration(secs) * time.Second, err
	})
}

// getEnvAsSlice reads a comma separated list, dropping empty entries.
func getEnvAsSlice(key string, def []string) []string {
	return fromEnv(key, def, func(s string) ([]string, error) {
		var out []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	})
}
