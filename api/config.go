package api

// Config holds the HTTP API settings.
type Config struct {
	// UploadDir is where accepted source files are stored until the
	// pipeline consumes them.
	UploadDir string `mapstructure:"upload_dir" yaml:"upload_dir"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.UploadDir == "" {
		c.UploadDir = "uploads"
	}
}
