// Package config loads service configuration with Viper.
//
// LoadConfig reads config.yml (searched in cmd/<service>/, config/ and the
// working directory unless given explicitly), loads a .env file with
// godotenv, then overlays the process environment. Environment variables map
// onto nested keys by splitting on underscores, so SERVER_PORT sets
// server.port. Variables that do not follow that convention can be mapped
// with WithEnvAlias.
//
//	var cfg AppConfig
//	err := config.LoadConfig("mediascribe", &cfg,
//	    config.WithEnvAlias("OPENAI_API_KEY", "transcription.api_key"))
package config
