package email

import (
	"context"
	"fmt"
)

type EventRegistration struct {
	StudentName string
	EventTitle  string
	Venue       string
	StartsAt    string
}

// SendEventRegistration confirms a seat at an event.
func (c *Client) SendEventRegistration(ctx context.Context, to string, d EventRegistration) error {
	// Data keys must match what the HTML template expects.
	data := map[string]string{
		"StudentName": d.StudentName,
		"EventTitle":  d.EventTitle,
		"Venue":       d.Venue,
		"StartsAt":    d.StartsAt,
	}

	return c.SendEmail(ctx, to, fmt.Sprintf("You're registered: %s", d.EventTitle), TemplateEventRegistration, data)
}

type ExamResult struct {
	StudentID  string
	CourseCode string
	ExamTitle  string
	Marks      string
	MaxMarks   string
	Grade      string
	Passed     bool
}

func (c *Client) SendExamResult(ctx context.Context, to string, d ExamResult) error {
	outcome := "Not passed"
	if d.Passed {
		outcome = "Passed"
	}

	data := map[string]string{
		"StudentID":  d.StudentID,
		"CourseCode": d.CourseCode,
		"ExamTitle":  d.ExamTitle,
		"Marks":      d.Marks,
		"MaxMarks":   d.MaxMarks,
		"Grade":      d.Grade,
		"Outcome":    outcome,
	}

	return c.SendEmail(ctx, to, fmt.Sprintf("Results published: %s", d.CourseCode), TemplateExamResult, data)
}

type PaymentReceipt struct {
	StudentID string
	Amount    string
	Currency  string
	Purpose   string
	Reference string
	PaidAt    string
}

func (c *Client) SendPaymentReceipt(ctx context.Context, to string, d PaymentReceipt) error {
	data := map[string]string{
		"StudentID": d.StudentID,
		"Amount":    d.Amount,
		"Currency":  d.Currency,
		"Purpose":   d.Purpose,
		"Reference": d.Reference,
		"PaidAt":    d.PaidAt,
	}

	return c.SendEmail(ctx, to, "Payment receipt "+d.Reference, TemplatePaymentReceipt, data)
}

type ReportReady struct {
	Title    string
	ReportID string
}

func (c *Client) SendReportReady(ctx context.Context, to string, d ReportReady) error {
	data := map[string]string{
		"Title":    d.Title,
		"ReportID": d.ReportID,
	}

	return c.SendEmail(ctx, to, "Report ready: "+d.Title, TemplateReportReady, data)
}
