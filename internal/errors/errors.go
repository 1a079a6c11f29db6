package errors

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind classifies an AppError and decides its HTTP status.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindAuthentication
	KindAuthorization
	KindTooManyRequests
	KindInternal
	KindUnavailable
)

var kindStatus = map[Kind]int{
	KindValidation:      http.StatusBadRequest,
	KindNotFound:        http.StatusNotFound,
	KindConflict:        http.StatusBadRequest,
	KindAuthentication:  http.StatusUnauthorized,
	KindAuthorization:   http.StatusForbidden,
	KindTooManyRequests: http.StatusTooManyRequests,
	KindInternal:        http.StatusInternalServerError,
	KindUnavailable:     http.StatusServiceUnavailable,
}

// Default client-facing messages.
const (
	MsgUnauthorized    = "Token de autenticação não fornecido"
	MsgInvalidToken    = "Token inválido ou expirado"
	MsgForbidden       = "Acesso não autorizado para este recurso"
	MsgNotFound        = "Recurso não encontrado"
	MsgInvalidInput    = "Dados inválidos"
	MsgTooManyRequests = "Muitas requisições, tente novamente mais tarde"
	MsgInternalError   = "Erro interno do servidor"
	MsgUnavailable     = "Serviço temporariamente indisponível"
)

// AppError is the typed error family returned by services and middleware.
type AppError struct {
	Kind    Kind
	Message string
	Details interface{}
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on kind and message so copies carrying details still compare
// equal to the sentinel they were derived from.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

// Status returns the HTTP status for the error's kind.
func (e *AppError) Status() int {
	if s, ok := kindStatus[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// WithDetails returns a copy of e carrying details.
func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Validation(message string, details interface{}) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Details: details}
}

func NotFound(message string) *AppError {
	return New(KindNotFound, message)
}

func Conflict(message string) *AppError {
	return New(KindConflict, message)
}

func Authentication(message string) *AppError {
	return New(KindAuthentication, message)
}

func Authorization(message string) *AppError {
	return New(KindAuthorization, message)
}

// Internal wraps err; only MsgInternalError reaches the client.
func Internal(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: MsgInternalError, Err: err}
}

// Body is the "error" member of the envelope.
type Body struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

// Envelope is the full error response.
type Envelope struct {
	Success bool `json:"success"`
	Error   Body `json:"error"`
}

// Respond writes err as the error envelope. Errors outside the AppError
// family are logged and reported as a generic 500.
func Respond(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = Internal(err)
	}

	status := appErr.Status()
	if status >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	body := Body{Message: appErr.Message, Code: status, Details: appErr.Details}
	if appErr.Kind == KindInternal {
		body.Details = nil
	}
	c.JSON(status, Envelope{Success: false, Error: body})
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, message string, details interface{}) {
	c.JSON(statusCode, Envelope{
		Success: false,
		Error:   Body{Message: message, Code: statusCode, Details: details},
	})
}

// Helper functions for common error responses

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = MsgUnauthorized
	}
	RespondWithError(c, http.StatusUnauthorized, message, nil)
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = MsgForbidden
	}
	RespondWithError(c, http.StatusForbidden, message, nil)
}

// NotFoundResponse sends a 404 response
func NotFoundResponse(c *gin.Context, message string) {
	if message == "" {
		message = MsgNotFound
	}
	RespondWithError(c, http.StatusNotFound, message, nil)
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = MsgInvalidInput
	}
	RespondWithError(c, http.StatusBadRequest, message, nil)
}

// TooManyRequests sends a 429 response
func TooManyRequests(c *gin.Context) {
	RespondWithError(c, http.StatusTooManyRequests, MsgTooManyRequests, nil)
}

// InternalError sends a 500 response
func InternalError(c *gin.Context) {
	RespondWithError(c, http.StatusInternalServerError, MsgInternalError, nil)
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *gin.Context, details interface{}) {
	RespondWithError(c, http.StatusServiceUnavailable, MsgUnavailable, details)
}
