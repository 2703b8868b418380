package email

// PreviewData contains sample template data for local preview.
//
//	PreviewData["exam_result"]["Grade"] == "B"
var PreviewData = map[Template]map[string]string{
	TemplateEventRegistration: {
		"StudentName": "Ada Lovelace",
		"EventTitle":  "Robotics Workshop",
		"Venue":       "Hall B",
		"StartsAt":    "Mon, 02 Mar 2026 10:00 UTC",
	},
	TemplateExamResult: {
		"StudentID":  "S-1024",
		"CourseCode": "cs101",
		"ExamTitle":  "Introduction to Programming",
		"Marks":      "84",
		"MaxMarks":   "100",
		"Grade":      "B",
		"Outcome":    "Passed",
	},
	TemplatePaymentReceipt: {
		"StudentID": "S-1024",
		"Amount":    "1250.00",
		"Currency":  "USD",
		"Purpose":   "TUITION",
		"Reference": "TXN-88123",
		"PaidAt":    "Mon, 02 Mar 2026 09:15 UTC",
	},
	TemplateReportReady: {
		"Title":    "Hostel Occupancy",
		"ReportID": "4f7a1c9e-0d2b-4e55-9a61-7b3f4c2d9e10",
	},
}

// Preview renders a template with its sample data.
func Preview(name Template) (string, error) {
	return Render(name, PreviewData[name])
}
