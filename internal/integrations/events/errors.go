package events

import "errors"

var (
	// ErrInternal возвращается при ошибках сериализации события
	ErrInternal = errors.New("events publisher: internal error")

	// ErrPublish возвращается, если брокер не принял сообщение
	ErrPublish = errors.New("events publisher: failed to publish")

	// ErrClosed возвращается при публикации после Close
	ErrClosed = errors.New("events publisher: closed")
)
