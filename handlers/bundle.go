package handlers

import (
	"maideasy/middleware"
)

// HandlerBundle groups the endpoint handlers for route registration.
type HandlerBundle struct {
	// Sessions validates bearer tokens for protected routes.
	Sessions middleware.SessionValidator

	Auth     *AuthHandler
	Profile  *ProfileHandler
	Catalog  *CatalogHandler
	Booking  *BookingHandler
	Tracking *TrackingHandler
}
