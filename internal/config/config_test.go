package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	for _, env := range []string{RunAddress, UploadDir, GmailUser, GmailAppPassword, TestEmail, AdminEmails, SlackBotToken, SlackChannelID, PublicBaseURL, OrdersTable, AWSRegion} {
		t.Setenv(env, "")
	}

	cfg := New()
	require.Equal(t, defaultRunAddress, cfg.RunAddress)
	require.Equal(t, defaultUploadDir, cfg.UploadDir)
	require.Equal(t, defaultPublicBaseURL, cfg.PublicBaseURL)
	require.Equal(t, defaultAWSRegion, cfg.AWSRegion)
	require.Empty(t, cfg.GmailUser)
	require.Empty(t, cfg.AdminEmails)
	require.Empty(t, cfg.OrdersTable)
}

func TestNew_AdminEmailsAreSplitAndTrimmed(t *testing.T) {
	t.Setenv(AdminEmails, " ops@nexflow.ge, sales@nexflow.ge ,,")

	cfg := New()
	require.Equal(t, []string{"ops@nexflow.ge", "sales@nexflow.ge"}, cfg.AdminEmails)
}

func TestNew_ExplicitValuesWin(t *testing.T) {
	t.Setenv(RunAddress, ":9999")
	t.Setenv(OrdersTable, "nexflow-orders")
	t.Setenv(AWSRegion, "eu-central-1")

	cfg := New()
	require.Equal(t, ":9999", cfg.RunAddress)
	require.Equal(t, "nexflow-orders", cfg.OrdersTable)
	require.Equal(t, "eu-central-1", cfg.AWSRegion)
}
