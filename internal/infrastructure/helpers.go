package infrastructure

import (
	"mime"
	"path"
	"strings"
)

const defaultContentType = "application/octet-stream"

// ObjectContentType возвращает Content-Type объекта для хранилища.
// Тип, определённый по содержимому, важнее расширения; общий octet-stream уточняется по имени файла.
func ObjectContentType(detected, name string) string {
	detected = strings.TrimSpace(detected)
	if detected != "" && detected != defaultContentType {
		return detected
	}

	if byExt := mime.TypeByExtension(path.Ext(name)); byExt != "" {
		return byExt
	}

	return defaultContentType
}
