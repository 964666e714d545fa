// Package env reads the environment variables that configure diagnostics, see [LoadSettings].
package env
