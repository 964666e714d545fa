package env

import (
	"os"
	"slices"
	"strings"
)

func lookup(key string) (string, bool) {
	key = strings.ToLower(key)
	for _, kv := range os.Environ() {
		k, v, found := strings.Cut(kv, "=")
		if found && strings.ToLower(k) == key {
			return v, true
		}
	}
	return "", false
}

// Val returns the trimmed value of an environment variable, or defaultVal if it's unset or blank.
// Keys are compared case-insensitive.
func Val(key string, defaultVal string) string {
	val, ok := lookup(key)
	if !ok {
		return defaultVal
	}
	val = strings.TrimSpace(val)
	if len(val) == 0 {
		return defaultVal
	}
	return val
}

// BoolIf translates an environment variable to a boolean with the given translation map, comparing case-insensitive.
// The defaultVal is returned if the variable isn't set, is blank, or matches neither list.
func BoolIf(key string, defaultVal bool, translation map[bool][]string) bool {
	sval := strings.ToLower(Val(key, ""))
	if len(sval) == 0 || translation == nil {
		return defaultVal
	}
	matches := func(candidate string) bool {
		return strings.ToLower(candidate) == sval
	}
	if slices.ContainsFunc(translation[true], matches) {
		return true
	}
	if slices.ContainsFunc(translation[false], matches) {
		return false
	}
	return defaultVal
}

var (
	DefaultTrue  = []string{"1", "yes", "true", "on"}  // DefaultTrue are the values considered "true" by [Bool].
	DefaultFalse = []string{"0", "no", "false", "off"} // DefaultFalse are the values considered "false" by [Bool].
)

// Bool interprets an environment variable as a boolean using [DefaultTrue] and [DefaultFalse].
func Bool(key string, defaultVal bool) bool {
	return BoolIf(key, defaultVal, map[bool][]string{
		true:  DefaultTrue,
		false: DefaultFalse,
	})
}

// OneOf returns the lower-cased value of an environment variable if it's one of allowed, and defaultVal otherwise.
func OneOf(key string, defaultVal string, allowed ...string) string {
	val := strings.ToLower(Val(key, ""))
	if slices.Contains(allowed, val) {
		return val
	}
	return defaultVal
}
