/*
Copyright © 2025 reyyanxjanbaz
*/
package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose bool          `mapstructure:"verbose"`
	Config  string        `mapstructure:"config"`
	Project ProjectConfig `mapstructure:"project" validate:"required"`
	Data    DataConfig    `mapstructure:"data" validate:"required"`
}

// ProjectConfig holds project-related settings
type ProjectConfig struct {
	RootDir  string `mapstructure:"rootDir" validate:"required"`
	TasksDir string `mapstructure:"tasksDir" validate:"required"`
}

// DataConfig holds data storage configuration
type DataConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=file sqlite"`
	File    string `mapstructure:"file" validate:"required"`
	Format  string `mapstructure:"format" validate:"required,oneof=json yaml toml"`
}
