package verify

// Config holds the environment-driven settings of a Registry.
type Config struct {
	MaxDepth int `env:"VERIFY_MAX_DEPTH" envDefault:"32"`
}
