package email

// PreviewData contains sample template data for local preview/testing,
// keyed as templateName -> (variableName -> exampleValue).
var PreviewData = map[string]map[string]string{
	"submission_received": {
		"ClientName":   "John Doe",
		"BusinessName": "Test Business Inc",
	},
}
