package domain

import "io"

// Object описывает объект, который загружается в S3
type Object struct {
	Bucket    string
	ObjectKey string
	Body      io.Reader
	// Передайте -1 в Size, если размер потока неизвестен
	// (внимание: при передаче -1 клиент буферизует большой объём памяти).
	Size        int64
	ContentType string
}

func NewObject(bucket, objectKey string, body io.Reader, size int64, contentType string) *Object {
	return &Object{
		Bucket:      bucket,
		ObjectKey:   objectKey,
		Body:        body,
		Size:        size,
		ContentType: contentType,
	}
}
