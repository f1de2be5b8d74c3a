package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer

	Database  Database  `envPrefix:"DB_"`
	Auth      Auth      `envPrefix:"AUTH_"`
	Downloads Downloads `envPrefix:"DOWNLOADS_"`
	Admin     Admin     `envPrefix:"ADMIN_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

type Database struct {
	// Driver is "mysql" or "sqlite".
	Driver string `env:"DRIVER" envDefault:"sqlite"`
	DSN    string `env:"DSN" envDefault:"digistore.db"`
}

type Auth struct {
	JWTSecret string        `env:"JWT_SECRET,required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
}

type Downloads struct {
	TokenSecret string        `env:"TOKEN_SECRET,required"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"15m"`
	GrantTTL    time.Duration `env:"GRANT_TTL" envDefault:"720h"`
}

// Admin seeds the administrator account on startup. Seeding is skipped
// when either field is empty.
type Admin struct {
	Email    string `env:"EMAIL"`
	Password string `env:"PASSWORD"`
}
