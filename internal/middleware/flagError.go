package middleware

import (
	"errors"

	"github.com/wpsix/breakdance-icon-fix/internal/errs"
	"github.com/wpsix/breakdance-icon-fix/internal/logger"
)

var ErrLogged = errors.New("already logged")

func FlagComboError(code errs.Code, a ...any) error {
	msg := errs.Msg(code, a...)
	logger.LogError("%s", msg)
	return ErrLogged
}
