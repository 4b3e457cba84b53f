package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env           string
	Port          string
	DatabaseURL   string
	RedisURL      string
	SessionSecret string

	// Cloudinary (remote asset store for listing photos).
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string

	// SMTP for the contact form.
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
	ContactEmail string // inbox receiving contact-form inquiries

	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	smtpPort := viper.GetInt("SMTP_PORT")
	if smtpPort == 0 {
		smtpPort = 587
	}

	folder := viper.GetString("CLOUDINARY_UPLOAD_FOLDER")
	if folder == "" {
		folder = "listings"
	}

	return &Config{
		Env:           env,
		Port:          port,
		DatabaseURL:   viper.GetString("DATABASE_URL"),
		RedisURL:      viper.GetString("REDIS_URL"),
		SessionSecret: viper.GetString("SESSION_SECRET"),

		CloudinaryCloudName:    viper.GetString("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:       viper.GetString("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret:    viper.GetString("CLOUDINARY_API_SECRET"),
		CloudinaryUploadFolder: folder,

		SMTPHost:     viper.GetString("SMTP_HOST"),
		SMTPPort:     smtpPort,
		SMTPUser:     viper.GetString("SMTP_USER"),
		SMTPPass:     viper.GetString("SMTP_PASS"),
		ContactEmail: viper.GetString("CONTACT_EMAIL"),

		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
	}, nil
}
