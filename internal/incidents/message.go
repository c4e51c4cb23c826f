package incidents

import "fmt"

// Subject is the notification subject line.
func Subject(inc *Incident) string {
	return fmt.Sprintf("DevOps Incident Alert (%s)", inc.Severity)
}

// Message is the plaintext notification body.
func Message(inc *Incident) string {
	return fmt.Sprintf("Incident ID: %s\nSeverity: %s\nSummary: %s\nRecommendation: %s\n",
		inc.IncidentID, inc.Severity, inc.Summary, inc.Recommendation)
}
