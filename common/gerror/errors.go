package gerror

import (
	"errors"
	"net/http"
)

const (
	ErrCodeInternal              Code = "Internal"
	ErrCodeValidationFailed      Code = "ValidationFailed"
	ErrCodeInvalidQueryParameter Code = "InvalidQueryParameter"
	ErrCodeNotFound              Code = "NotFound"
	ErrCodeUnauthorized          Code = "Unauthorized"
	ErrCodeAlreadyExists         Code = "AlreadyExists"
	ErrCodeOptimisticLockFailed  Code = "OptimisticLockFailed"
	ErrCodeTimeout               Code = "Timeout"
	ErrCodeDirectoryFetchFailed  Code = "DirectoryFetchFailed"
	ErrCodeInvalidPayload        Code = "InvalidPayload"
	ErrCodeSyncNotConfigured     Code = "SyncNotConfigured"
)

// ToError locates an Error in the provided error chain and returns it if it
// matches the provided code. Otherwise, returns nil.
func ToError(err error, code Code) *Error {
	if err == nil {
		return nil
	}
	var gErr Error
	if errors.As(err, &gErr) && gErr.Code() == code {
		return &gErr
	}
	return nil
}

func NewErrInternal() Error {
	return NewError(
		"An internal server error occurred",
		AudienceExternal,
		ErrCodeInternal,
		http.StatusInternalServerError,
		nil,
	)
}

func ToInternal(err error) *Error {
	return ToError(err, ErrCodeInternal)
}

func IsInternal(err error) bool {
	return ToInternal(err) != nil
}

func NewErrValidationFailed(message string) Error {
	return NewError(message, AudienceExternal, ErrCodeValidationFailed, http.StatusBadRequest, nil)
}

func ToValidationFailed(err error) *Error {
	return ToError(err, ErrCodeValidationFailed)
}

func IsValidationFailed(err error) bool {
	return ToValidationFailed(err) != nil
}

func NewErrInvalidQueryParameter(message string) Error {
	return NewError(message, AudienceExternal, ErrCodeInvalidQueryParameter, http.StatusBadRequest, nil)
}

func ToInvalidQueryParameter(err error) *Error {
	return ToError(err, ErrCodeInvalidQueryParameter)
}

func IsInvalidQueryParameter(err error) bool {
	return ToInvalidQueryParameter(err) != nil
}

func NewErrNotFound(message string) Error {
	return NewError(message, AudienceExternal, ErrCodeNotFound, http.StatusNotFound, nil)
}

func ToNotFound(err error) *Error {
	return ToError(err, ErrCodeNotFound)
}

func IsNotFound(err error) bool {
	return ToNotFound(err) != nil
}

func NewErrUnauthorized(message string) Error {
	return NewError(message, AudienceExternal, ErrCodeUnauthorized, http.StatusUnauthorized, nil)
}

func ToUnauthorized(err error) *Error {
	return ToError(err, ErrCodeUnauthorized)
}

func IsUnauthorized(err error) bool {
	return ToUnauthorized(err) != nil
}

func NewErrAlreadyExists(message string) Error {
	return NewError(message, AudienceExternal, ErrCodeAlreadyExists, http.StatusBadRequest, nil)
}

func ToAlreadyExists(err error) *Error {
	return ToError(err, ErrCodeAlreadyExists)
}

func IsAlreadyExists(err error) bool {
	return ToAlreadyExists(err) != nil
}

func NewErrOptimisticLockFailed(message string) Error {
	return NewError(message, AudienceExternal, ErrCodeOptimisticLockFailed, http.StatusPreconditionFailed, nil)
}
func ToOptimisticLockFailed(err error) *Error {
	return ToError(err, ErrCodeOptimisticLockFailed)
}

func IsOptimisticLockFailed(err error) bool {
	return ToOptimisticLockFailed(err) != nil
}

func NewErrTimeout(description string) Error {
	return NewError("Timeout: "+description, AudienceInternal, ErrCodeTimeout, http.StatusInternalServerError, nil)
}
func ToTimeout(err error) *Error {
	return ToError(err, ErrCodeTimeout)
}

func IsTimeout(err error) bool {
	return ToTimeout(err) != nil
}

// NewErrDirectoryFetchFailed is returned when the external directory cannot be
// reached or returns an unexpected status. The entire sync run is aborted before
// any mutation is made.
func NewErrDirectoryFetchFailed(message string, err error) Error {
	return NewError(message, AudienceInternal, ErrCodeDirectoryFetchFailed, http.StatusBadGateway, err)
}

func ToDirectoryFetchFailed(err error) *Error {
	return ToError(err, ErrCodeDirectoryFetchFailed)
}

func IsDirectoryFetchFailed(err error) bool {
	return ToDirectoryFetchFailed(err) != nil
}

// NewErrInvalidPayload is returned when an external payload fails to decode or
// a record is missing the mandatory remote key field. Treated the same as a
// fetch failure: the run aborts before any mutation.
func NewErrInvalidPayload(message string, err error) Error {
	return NewError(message, AudienceInternal, ErrCodeInvalidPayload, http.StatusBadGateway, err)
}

func ToInvalidPayload(err error) *Error {
	return ToError(err, ErrCodeInvalidPayload)
}

func IsInvalidPayload(err error) bool {
	return ToInvalidPayload(err) != nil
}

func NewErrSyncNotConfigured(message string) Error {
	return NewError(message, AudienceInternal, ErrCodeSyncNotConfigured, http.StatusConflict, nil)
}

func ToSyncNotConfigured(err error) *Error {
	return ToError(err, ErrCodeSyncNotConfigured)
}

func IsSyncNotConfigured(err error) bool {
	return ToSyncNotConfigured(err) != nil
}
