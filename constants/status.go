package constants

import "time"

// Roles
const (
	RoleUser       = "usuario"
	RoleSuperAdmin = "superadmin"
)

// Payment status
const (
	PaymentPending   = "pendiente"
	PaymentCompleted = "completado"
	PaymentRejected  = "rechazado"
)

// Chat message roles
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
	ChatRoleSystem    = "system"
)

const DateLayout = "2006-01-02"

const (
	AccessTokenTTL  = 12 * time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour

	DefaultAvailabilityWindow = 90 // days
	AvailabilityCacheTTL      = time.Minute
	ChatContextTTL            = 30 * time.Minute
	ChatArchiveAfter          = 30 * 24 * time.Hour
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)
