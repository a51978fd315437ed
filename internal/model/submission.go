// Package model defines the domain entities shared across layers.
package model

import "time"

// Submission is a stored client intake form record.
//
// Email is optional; the record carries no email key in JSON when the
// submitter left the field blank. Timestamp is set server-side at creation.
type Submission struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	BusinessName  string    `json:"business_name"`
	MobileNumber  string    `json:"mobile_number"`
	Email         string    `json:"email,omitempty"`
	AgreedToTerms bool      `json:"agreed_to_terms"`
	Timestamp     time.Time `json:"timestamp"`
}
