package constants

import "time"

// Context keys set by the auth middleware.
const (
	ContextKeyUserID  = "user_id"
	ContextKeyClaims  = "claims"
	ContextKeyParamID = "param_id"
)

// Roles carried in the token's role claim.
const (
	RoleUser  = "usuario"
	RoleAdmin = "admin"
)

// Field limits.
const (
	MinUserNameLength    = 2
	MinProjectNameLength = 3
	MinTaskTitleLength   = 3
	// bcrypt only hashes the first 72 bytes and rejects anything longer.
	MaxPasswordBytes = 72
)

// Task defaults.
const (
	DefaultTaskStatus   = "pendente"
	DefaultTaskPriority = "media"
	TaskStatusDone      = "concluida"
	TaskStatusUrgent    = "urgente"
	TaskPriorityHigh    = "alta"
)

// Project statuses.
var ProjectStatuses = []string{"pendente", "andamento", "concluido"}

// Pagination.
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Token defaults.
const (
	DefaultTokenTTL      = 60 * 24 * time.Hour
	DefaultTokenIssuer   = "http://localhost"
	DefaultTokenAudience = "http://localhost"
	TokenSubject         = "acesso_sistema"
)

const DateLayout = "2006-01-02"
