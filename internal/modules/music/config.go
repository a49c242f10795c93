package music

// Config holds the music module configuration.
type Config struct {
	LavalinkAddress  string `env:"LAVALINK_ADDRESS,notEmpty"`
	LavalinkPassword string `env:"LAVALINK_PASSWORD,notEmpty"`
	ConfigPath       string `env:"CONFIG_PATH" envDefault:"servers.json"`
	LyricsAPIURL     string `env:"LYRICS_API_URL" envDefault:"https://api.lyrics.ovh"`
}
