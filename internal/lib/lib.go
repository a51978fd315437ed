// Package lib acts as a library for modules that do not fit strictly into
// other layers.
//
// It contains background job processing (Redis/Asynq) and the email client
// integration (Resend).
package lib
