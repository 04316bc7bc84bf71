package config

import (
	"os"
	"strings"
)

// Environment variable names recognized by the server.
const (
	RunAddress       = "RUN_ADDRESS"
	UploadDir        = "UPLOAD_DIR"
	GmailUser        = "GMAIL_USER"
	GmailAppPassword = "GMAIL_APP_PASSWORD"
	TestEmail        = "TEST_EMAIL"
	AdminEmails      = "ADMIN_EMAILS"
	SlackBotToken    = "SLACK_BOT_TOKEN"
	SlackChannelID   = "SLACK_CHANNEL_ID"
	PublicBaseURL    = "PUBLIC_BASE_URL"
	OrdersTable      = "ORDERS_TABLE"
	AWSRegion        = "AWS_REGION"
)

const (
	defaultRunAddress    = ":8080"
	defaultUploadDir     = "uploads"
	defaultPublicBaseURL = "http://localhost:8080"
	defaultAWSRegion     = "us-east-1"
)

// Config holds everything the server reads from the environment.
type Config struct {
	RunAddress string
	UploadDir  string

	// Email channel. Unset credentials disable the channel.
	GmailUser        string
	GmailAppPassword string
	// TestEmail, when set, overrides the recipient of every outbound
	// message. Useful in staging so real customers never get test mail.
	TestEmail   string
	AdminEmails []string

	// Slack channel. Unset credentials disable the channel.
	SlackBotToken  string
	SlackChannelID string

	// PublicBaseURL builds the deep link back to the admin view in
	// outbound notifications.
	PublicBaseURL string

	// OrdersTable selects the DynamoDB store backing when non-empty;
	// otherwise orders live in process memory and vanish on restart.
	OrdersTable string
	// AWSRegion is the region of the DynamoDB table.
	AWSRegion string
}

// New reads the configuration from the environment.
func New() *Config {
	return &Config{
		RunAddress:       envOrDefault(RunAddress, defaultRunAddress),
		UploadDir:        envOrDefault(UploadDir, defaultUploadDir),
		GmailUser:        os.Getenv(GmailUser),
		GmailAppPassword: os.Getenv(GmailAppPassword),
		TestEmail:        os.Getenv(TestEmail),
		AdminEmails:      splitList(os.Getenv(AdminEmails)),
		SlackBotToken:    os.Getenv(SlackBotToken),
		SlackChannelID:   os.Getenv(SlackChannelID),
		PublicBaseURL:    envOrDefault(PublicBaseURL, defaultPublicBaseURL),
		OrdersTable:      os.Getenv(OrdersTable),
		AWSRegion:        envOrDefault(AWSRegion, defaultAWSRegion),
	}
}

func envOrDefault(env, def string) string {
	res, ok := os.LookupEnv(env)
	if !ok || res == "" {
		res = def
	}
	return res
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
