package services

import (
	"errors"

	"workshop-feedback/pkg/render"
)

var (
	// ErrInvalidCode covers wrong, expired and never-issued codes alike.
	ErrInvalidCode = errors.New("invalid otp")

	ErrMissingField     = render.ErrMissingField
	ErrDelivery         = errors.New("delivery failed")
	ErrPublish          = errors.New("certificate upload failed")
	ErrNotVerified      = errors.New("phone and email must both be verified")
	ErrWorkshopNotFound = errors.New("workshop not found")
	ErrWorkshopClosed   = errors.New("workshop is not accepting submissions")
	ErrForeignURL       = errors.New("certificate url is not hosted by the configured image host")
)
