// Package config loads the server configuration from a YAML file and
// THINGS3_MCP_* environment variables using viper.
package config
