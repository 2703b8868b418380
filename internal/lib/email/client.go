// Package email sends notification emails.
//
// It uses Resend (resend-go) as the provider and renders HTML bodies from
// templates embedded in the binary. Without an API key the client runs in
// dry-run mode and only logs what it would have sent.
package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/deppfellow/campus-manager/internal/config"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(
	template.New("emails").Funcs(sprig.FuncMap()).ParseFS(templateFS, "templates/*.html"),
)

// Client wraps the Resend client and a logger.
type Client struct {
	// client is nil in dry-run mode.
	client *resend.Client
	from   string
	logger *zerolog.Logger
}

func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	c := &Client{
		from:   fmt.Sprintf("%s <%s>", cfg.Integration.MailFromName, cfg.Integration.MailFrom),
		logger: logger,
	}
	if cfg.Integration.ResendAPIKey != "" {
		c.client = resend.NewClient(cfg.Integration.ResendAPIKey)
	}
	return c
}

// DryRun reports whether emails are only logged.
func (c *Client) DryRun() bool {
	return c.client == nil
}

// Render executes the named template with data.
func Render(name Template, data map[string]string) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, name.File(), data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", name)
	}
	return body.String(), nil
}

// SendEmail renders templateName with data and sends it to a single
// recipient.
func (c *Client) SendEmail(ctx context.Context, to, subject string, templateName Template, data map[string]string) error {
	html, err := Render(templateName, data)
	if err != nil {
		return err
	}

	if c.DryRun() {
		c.logger.Info().
			Str("to", to).
			Str("subject", subject).
			Str("template", string(templateName)).
			Msg("email dry run, not sent")
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	if _, err := c.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
