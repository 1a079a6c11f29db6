package services

import (
	"errors"
	"fmt"

	apierrors "github.com/yukikurage/project-task-api/internal/errors"
	"github.com/yukikurage/project-task-api/internal/validation"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound        = apierrors.NotFound("Usuário não encontrado")
	ErrProjectNotFound     = apierrors.NotFound("Projeto não encontrado")
	ErrTaskNotFound        = apierrors.NotFound("Tarefa não encontrada")
	ErrEmailTaken          = apierrors.Conflict("Email já cadastrado")
	ErrCredentialsRequired = apierrors.Validation("Email e senha são obrigatórios", nil)
	ErrInvalidCredentials  = apierrors.Authentication("Email ou senha incorretos")
	ErrInvalidResetToken   = apierrors.Validation("Token inválido ou expirado", nil)
	ErrEmptyPayload        = apierrors.Validation("Nenhum dado informado", nil)
)

// invalid surfaces a validator failure as a 400 naming the field.
func invalid(err error) error {
	var fe *validation.FieldError
	if errors.As(err, &fe) {
		return apierrors.Validation(fe.Message, map[string]interface{}{"campo": fe.Field})
	}
	return err
}

// missingReference reports a foreign id that does not resolve.
func missingReference(entity, field string, id uint64) error {
	return apierrors.Validation(
		fmt.Sprintf("%s com ID %d não existe", entity, id),
		map[string]interface{}{"campo": field, "id": id},
	)
}

// notFound maps gorm.ErrRecordNotFound to the typed 404 and wraps anything else.
func notFound(err error, typed error, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return typed
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
