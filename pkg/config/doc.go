// Package config loads typed configuration structs from environment
// variables.
//
// Every component in the module declares its own Config struct with `env:`
// and `envDefault:` tags, loads it once at process start via Load or
// MustLoad, and receives it through its constructor. Nothing reads the
// environment after startup, so configuration is effectively immutable for
// the process lifetime.
//
// # Usage
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//
//	client, err := mongo.New(ctx, cfg)
//
// A .env file in the working directory is honored in development; real
// environments set variables directly.
package config
