package email

// Template is a string-based enum naming email templates.
type Template string

const (
	// TemplateEventRegistration corresponds to templates/event_registration.html
	TemplateEventRegistration Template = "event_registration"
	TemplateExamResult        Template = "exam_result"
	TemplatePaymentReceipt    Template = "payment_receipt"
	TemplateReportReady       Template = "report_ready"
)

// Templates lists every template, in preview order.
var Templates = []Template{
	TemplateEventRegistration,
	TemplateExamResult,
	TemplatePaymentReceipt,
	TemplateReportReady,
}

// File is the embedded file name of the template.
func (t Template) File() string {
	return string(t) + ".html"
}
