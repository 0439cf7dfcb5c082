package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var (
	ErrInternal = errors.New("internal server error")
	ErrTimeout  = errors.New("service is busy, please try again later")

	ErrUserAlreadyExists        = errors.New("user already exists")
	ErrPhoneNumberAlreadyExists = errors.New("phone_number already exists")
	ErrUserNotFound             = errors.New("user does not exist")
	ErrPostNotFound             = errors.New("post does not exist")
	ErrInvalidCredentials       = errors.New("incorrect password")
	ErrSamePassword             = errors.New("new password must differ from the old one")
	ErrTokenExpiredOrInvalid    = errors.New("password reset token is invalid or has expired")
	ErrInvalidMedia             = errors.New("only image uploads are allowed")
	ErrBlankText                = errors.New("text must not be blank")
	ErrInvalidRelationship      = errors.New("unknown relationship status")

	ErrSelfFollow       = errors.New("you can't follow yourself")
	ErrSelfUnfollow     = errors.New("you can't unfollow yourself")
	ErrAlreadyFollowing = errors.New("user already followed")
	ErrNotFollowing     = errors.New("user hasn't been followed")
)

const (
	uniqueViolation       = "23505"
	emailUniqueConstraint = "users_email_key"
	phoneUniqueConstraint = "users_phone_number_key"
)

// conflictError maps a unique violation on users to its domain error.
func conflictError(err error) (error, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return nil, false
	}

	switch pgErr.ConstraintName {
	case emailUniqueConstraint:
		return ErrUserAlreadyExists, true
	case phoneUniqueConstraint:
		return ErrPhoneNumberAlreadyExists, true
	}
	return nil, false
}

// internalError logs err and hides it from the caller. Deadline and
// cancellation are reported as ErrTimeout so clients know to retry.
func internalError(logger *zap.Logger, err error, format string, args ...interface{}) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		logger.Sugar().Warnf(format+": %s", append(args, err.Error())...)
		return ErrTimeout
	}

	logger.Sugar().Errorf(format+": %s", append(args, err.Error())...)
	return ErrInternal
}
