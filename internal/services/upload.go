package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"

	"castboard_backend/internal/imageprocessor"
	"castboard_backend/internal/logger"
	"castboard_backend/internal/storage"
	"castboard_backend/pkg/apperrors"

	"github.com/google/uuid"
)

// storedImage - ключи оригинала и миниатюры в хранилище.
type storedImage struct {
	Key          string
	ThumbnailKey string
	Info         imageprocessor.Info
}

// readImage читает файл из формы и проверяет размер и формат до сохранения.
func readImage(file *multipart.FileHeader, proc *imageprocessor.Processor) ([]byte, imageprocessor.Info, error) {
	if file == nil {
		return nil, imageprocessor.Info{}, apperrors.FieldError("image", "No file was submitted.")
	}
	if file.Size > proc.MaxSize() {
		return nil, imageprocessor.Info{}, apperrors.ErrInvalidImage(
			fmt.Sprintf("Image too large (max %dMB).", proc.MaxSize()>>20))
	}

	src, err := file.Open()
	if err != nil {
		return nil, imageprocessor.Info{}, apperrors.InternalError(err)
	}
	defer src.Close()

	// +1 байт, чтобы заметить файл больше лимита при неверном file.Size
	data, err := io.ReadAll(io.LimitReader(src, proc.MaxSize()+1))
	if err != nil {
		return nil, imageprocessor.Info{}, apperrors.InternalError(err)
	}

	info, err := proc.Inspect(data)
	if err != nil {
		switch {
		case errors.Is(err, imageprocessor.ErrImageTooLarge):
			return nil, info, apperrors.ErrInvalidImage(
				fmt.Sprintf("Image too large (max %dMB).", proc.MaxSize()>>20)).WithError(err)
		case errors.Is(err, imageprocessor.ErrEmptyImage):
			return nil, info, apperrors.ErrInvalidImage("The submitted file is empty.").WithError(err)
		default:
			return nil, info, apperrors.ErrInvalidImage(
				"Invalid image file. Supported formats: JPEG, PNG, GIF.").WithError(err)
		}
	}
	return data, info, nil
}

// saveImage сохраняет оригинал и миниатюру под префиксом dir.
// Если миниатюру построить не удалось, сохраняется только оригинал.
func saveImage(ctx context.Context, store storage.Storage, proc *imageprocessor.Processor, dir string, data []byte, info imageprocessor.Info) (*storedImage, error) {
	name := uuid.NewString()
	key := path.Join(dir, name+info.Extension())

	if err := store.Save(ctx, key, bytes.NewReader(data), info.ContentType); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeExternalServiceError, "storage", "Failed to store the image.", http.StatusBadGateway)
	}

	out := &storedImage{Key: key, Info: info}

	thumb, thumbType, err := proc.Thumbnail(data)
	if err != nil {
		logger.CtxWithError(ctx, "failed to build thumbnail", err, "key", key)
		return out, nil
	}
	ext := ".jpg"
	if thumbType == "image/png" {
		ext = ".png"
	}
	thumbKey := path.Join(dir, "thumbs", name+ext)
	if err := store.Save(ctx, thumbKey, bytes.NewReader(thumb), thumbType); err != nil {
		logger.CtxWithError(ctx, "failed to store thumbnail", err, "key", thumbKey)
		return out, nil
	}
	out.ThumbnailKey = thumbKey
	return out, nil
}

// removeObjects удаляет файлы без возврата ошибки: хранилище вторично
// по отношению к базе.
func removeObjects(ctx context.Context, store storage.Storage, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := store.Delete(ctx, key); err != nil {
			logger.CtxWithError(ctx, "failed to delete stored object", err, "key", key)
		}
	}
}

// objectURL возвращает публичный URL или nil, если ключа нет.
func objectURL(ctx context.Context, store storage.Storage, key string) *string {
	if key == "" || store == nil {
		return nil
	}
	url, err := store.GetURL(ctx, key)
	if err != nil {
		logger.CtxWithError(ctx, "failed to build object url", err, "key", key)
		return nil
	}
	return &url
}
