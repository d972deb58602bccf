package util

import "errors"

var (
	ErrUserNotFound        = errors.New("用户不存在")
	ErrEmailRegistered     = errors.New("该邮箱已被注册")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrTopicNotFound       = errors.New("topic not found")
	ErrTopicNotEnrolled    = errors.New("topic not enrolled")
	ErrBookNotFound        = errors.New("book not found")
	ErrInvalidStatus       = errors.New("invalid progress status")
	ErrInvalidSkillLevel   = errors.New("invalid skill level")
	ErrAIUnavailable       = errors.New("AI service unavailable")
	ErrMalformedAIResponse = errors.New("malformed AI response")
	ErrBooksUpstream       = errors.New("book catalog service unavailable")
)
