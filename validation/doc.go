// Package validation validates configuration structs with go-playground
// validator tags. Field names in errors follow the mapstructure keys, so a
// failure reads like the YAML path that caused it ("server.port is required").
//
//	type ServerConfig struct {
//	    Port int `mapstructure:"port" validate:"gt=0,max=65535"`
//	}
//	err := validation.Validate(cfg)
package validation
