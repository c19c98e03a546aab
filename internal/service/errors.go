package service

import (
	"errors"

	"ai-coding-assistant-be/internal/constant"
)

var (
	ErrUnauthenticated     = errors.New(constant.ErrMsgNotAuthenticated)
	ErrAccessDenied        = errors.New(constant.ErrMsgAdminRequired)
	ErrNotFound            = errors.New(constant.ErrMsgConversationNotFound)
	ErrUserNotFound        = errors.New(constant.ErrMsgUserNotFound)
	ErrInvalidRole         = errors.New(constant.ErrMsgInvalidMessageRole)
	ErrInvalidCredentials  = errors.New(constant.ErrMsgInvalidCredentials)
	ErrEmailTaken          = errors.New(constant.ErrMsgEmailTaken)
	ErrInvalidRefreshToken = errors.New(constant.ErrMsgInvalidRefreshToken)
)
