package notifier

import "errors"

var (
	// ErrBuildTask возвращается при ошибке сборки задачи
	ErrBuildTask = errors.New("notifier: failed to build task")

	// ErrInvalidPayload возвращается, если payload задачи не разбирается
	ErrInvalidPayload = errors.New("notifier: invalid task payload")

	// ErrDispatch возвращается при ошибке доставки события
	ErrDispatch = errors.New("notifier: dispatch failed")
)
