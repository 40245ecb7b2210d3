package usecase

import "context"

// URLSigner — примитив провайдера для подписи временных ссылок на скачивание.
type URLSigner interface {
	PresignGet(ctx context.Context, req *PresignReq) (string, error)
}

type ObjectsInfra interface {
	UploadObjects(ctx context.Context, req *UploadObjectsReq) (*UploadObjectsRes, error)
	CleanupObjects(keys []string)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}
