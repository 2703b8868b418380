package email

import (
	"context"
	"testing"

	"github.com/deppfellow/campus-manager/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreview_AllTemplates(t *testing.T) {
	for _, name := range Templates {
		t.Run(string(name), func(t *testing.T) {
			require.Contains(t, PreviewData, name)

			html, err := Preview(name)
			require.NoError(t, err)
			assert.Contains(t, html, "<html>")
		})
	}
}

func TestRender_SprigFuncs(t *testing.T) {
	html, err := Preview(TemplateExamResult)
	require.NoError(t, err)
	assert.Contains(t, html, "CS101 results are out")

	html, err = Render(TemplatePaymentReceipt, map[string]string{"Purpose": "TUITION"})
	require.NoError(t, err)
	assert.Contains(t, html, "Tuition")

	html, err = Render(TemplateEventRegistration, map[string]string{})
	require.NoError(t, err)
	assert.Contains(t, html, "Hi there")
}

func TestClient_DryRun(t *testing.T) {
	cfg := &config.Config{Integration: config.IntegrationConfig{
		MailFrom:     "noreply@campus.local",
		MailFromName: "Campus Office",
	}}
	log := zerolog.Nop()

	c := NewClient(cfg, &log)
	assert.True(t, c.DryRun())
	assert.Equal(t, "Campus Office <noreply@campus.local>", c.from)

	err := c.SendPaymentReceipt(context.Background(), "student@example.com", PaymentReceipt{
		StudentID: "S-1",
		Amount:    "10.00",
		Currency:  "USD",
		Reference: "R-1",
	})
	assert.NoError(t, err)
}
