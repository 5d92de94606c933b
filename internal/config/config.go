package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string   `env:"BASE_URL"`
	Database    Database `envPrefix:"DB_"`

	Razorpay Razorpay `envPrefix:"RAZORPAY_"`
	Mailer   Mailer   `envPrefix:"MAILER_"`
	Split    Split    `envPrefix:"SPLIT_"`
	Link     Link     `envPrefix:"LINK_"`
}

type Database struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"` // sqlite, mysql
	URL    string `env:"URL" envDefault:"emoscreen.db"`
}

type Razorpay struct {
	BaseApiURL string `env:"BASE_API_URL" envDefault:"https://api.razorpay.com"`
	Mode       string `env:"MODE" envDefault:"test"` // live, test

	LiveKeyID         string `env:"LIVE_KEY_ID"`
	LiveKeySecret     string `env:"LIVE_KEY_SECRET"`
	LiveWebhookSecret string `env:"LIVE_WEBHOOK_SECRET"`

	TestKeyID         string `env:"TEST_KEY_ID"`
	TestKeySecret     string `env:"TEST_KEY_SECRET"`
	TestWebhookSecret string `env:"TEST_WEBHOOK_SECRET"`
}

// Credentials is the resolved live/test pair. Resolution happens once, at
// wiring time; verification code only ever sees the resolved secrets.
type Credentials struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
}

func (r *Razorpay) Credentials() Credentials {
	if r.Mode == "live" {
		return Credentials{
			KeyID:         r.LiveKeyID,
			KeySecret:     r.LiveKeySecret,
			WebhookSecret: r.LiveWebhookSecret,
		}
	}
	return Credentials{
		KeyID:         r.TestKeyID,
		KeySecret:     r.TestKeySecret,
		WebhookSecret: r.TestWebhookSecret,
	}
}

type Mailer struct {
	BaseApiURL string `env:"BASE_API_URL"`
	APIKey     string `env:"API_KEY"`
	FromEmail  string `env:"FROM_EMAIL" envDefault:"reports@emoscreen.in"`
}

type Split struct {
	// percent of every captured payment that goes to the first party
	FirstPartyPercent string `env:"FIRST_PARTY_PERCENT" envDefault:"50"`
}

type Link struct {
	Secret  string `env:"SECRET"`
	TTLDays int    `env:"TTL_DAYS" envDefault:"7"`
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
