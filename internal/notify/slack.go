package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/nexflow/nexflow-server/internal/orders"
)

// slackAPI is the subset of the Slack client used by the channel.
type slackAPI interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackChannel posts an order summary to a configured Slack channel.
// Without a bot token and channel id every post is a logged no-op.
type SlackChannel struct {
	api       slackAPI
	channelID string
	adminURL  string
	log       *zap.Logger
}

func NewSlackChannel(botToken, channelID, adminURL string, log *zap.Logger) *SlackChannel {
	ch := &SlackChannel{
		channelID: channelID,
		adminURL:  adminURL,
		log:       log,
	}
	if botToken == "" || channelID == "" {
		log.Warn("slack credentials not provided, slack notifications disabled")
		return ch
	}
	ch.api = slack.New(botToken)
	return ch
}

func (s *SlackChannel) Name() string { return "slack" }

func (s *SlackChannel) NotifyOrderCreated(ctx context.Context, o *orders.Order) error {
	if s.api == nil {
		s.log.Warn("slack channel not available, skipping post",
			zap.String("orderId", o.OrderID))
		return nil
	}

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Order ID:*\n%s", o.OrderID), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Customer:*\n%s", o.FullName), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Email:*\n%s", o.Email), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Project:*\n%s", o.ProjectName), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Type:*\n%s", o.AutomationType), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Created:*\n%s", o.CreatedAt.Format("2006-01-02 15:04:05")), false, false),
	}

	button := slack.NewButtonBlockElement("view_admin", o.OrderID,
		slack.NewTextBlockObject(slack.PlainTextType, "View in Admin", false, false))
	button.URL = s.adminURL

	blocks := []slack.Block{
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, "*🆕 New Order Received*", false, false), nil, nil),
		slack.NewSectionBlock(nil, fields, nil),
		slack.NewActionBlock("order_actions", button),
	}

	_, _, err := s.api.PostMessageContext(ctx, s.channelID, slack.MsgOptionBlocks(blocks...))
	if err != nil {
		return fmt.Errorf("post slack message: %w", err)
	}
	return nil
}
