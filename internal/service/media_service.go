package service

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"aviation_exam_backend/internal/model"
	"aviation_exam_backend/internal/repository"
	"aviation_exam_backend/internal/util"
)

// MediaService 题目媒体上传。音频入库前用 ffmpeg 探测时长，探测失败不阻断上传。
type MediaService struct {
	MediaRepo *repository.MediaRepository
	Storage   *StorageService
	Logger    *zap.Logger
}

func NewMediaService(mediaRepo *repository.MediaRepository, storage *StorageService, logger *zap.Logger) *MediaService {
	return &MediaService{MediaRepo: mediaRepo, Storage: storage, Logger: logger}
}

func extensionAllowed(fileName string, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}

// UploadAudio 上传音频。先落临时文件做 MIME 深度校验与时长探测，再推送到存储后端。
func (s *MediaService) UploadAudio(ctx context.Context, fileName string, reader io.Reader) (*model.MediaAsset, error) {
	if !extensionAllowed(fileName, util.AllowedAudioExtensions) {
		return nil, util.ValidationErrorf("unsupported audio extension %q", filepath.Ext(fileName))
	}

	tmp, err := os.CreateTemp("", "avex-audio-*"+filepath.Ext(fileName))
	if err != nil {
		return nil, err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, reader)
	tmp.Close()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		return nil, err
	}
	mimeType, err := util.ValidateMimeType(f, []string{util.MimeAudio, "application/ogg", util.MimeOctetStream})
	f.Close()
	if err != nil {
		return nil, util.ValidationErrorf("audio content rejected: %v", err)
	}

	// 嗅探结果为 octet-stream 的容器格式不送探测，时长留空
	var durationMs *int
	if util.IsAudio(mimeType) {
		if info, err := util.GetAudioInfo(tmpPath); err == nil {
			ms := int(info.Duration * 1000)
			durationMs = &ms
		} else if s.Logger != nil {
			s.Logger.Warn("audio duration probe failed", zap.String("file", fileName), zap.Error(err))
		}
	}

	objectKey := "audio/" + uuid.NewString() + strings.ToLower(filepath.Ext(fileName))
	url, err := s.Storage.SaveFile(ctx, objectKey, tmpPath, mimeType)
	if err != nil {
		return nil, err
	}

	asset := &model.MediaAsset{
		Kind:        model.MediaAudio,
		FileName:    fileName,
		ObjectKey:   objectKey,
		URL:         url,
		ContentType: mimeType,
		SizeBytes:   size,
		DurationMs:  durationMs,
	}
	if err := s.MediaRepo.Create(asset); err != nil {
		return nil, util.TranslateDBError(err)
	}
	return asset, nil
}

// UploadImage 上传题目插图
func (s *MediaService) UploadImage(ctx context.Context, fileName string, reader io.Reader) (*model.MediaAsset, error) {
	if !extensionAllowed(fileName, util.AllowedImageExtensions) {
		return nil, util.ValidationErrorf("unsupported image extension %q", filepath.Ext(fileName))
	}

	tmp, err := os.CreateTemp("", "avex-image-*"+filepath.Ext(fileName))
	if err != nil {
		return nil, err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, reader)
	tmp.Close()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		return nil, err
	}
	mimeType, err := util.ValidateMimeType(f, []string{util.MimeImage})
	f.Close()
	if err != nil {
		return nil, util.ValidationErrorf("image content rejected: %v", err)
	}

	objectKey := "image/" + uuid.NewString() + strings.ToLower(filepath.Ext(fileName))
	url, err := s.Storage.SaveFile(ctx, objectKey, tmpPath, mimeType)
	if err != nil {
		return nil, err
	}

	asset := &model.MediaAsset{
		Kind:        model.MediaImage,
		FileName:    fileName,
		ObjectKey:   objectKey,
		URL:         url,
		ContentType: mimeType,
		SizeBytes:   size,
	}
	if err := s.MediaRepo.Create(asset); err != nil {
		return nil, util.TranslateDBError(err)
	}
	return asset, nil
}

func (s *MediaService) GetAsset(id uint) (*model.MediaAsset, error) {
	asset, err := s.MediaRepo.FindByID(id)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	return asset, nil
}

func (s *MediaService) ListAssets(kind model.MediaAssetKind, page, limit int) ([]model.MediaAsset, int64, error) {
	return s.MediaRepo.List(kind, page, limit)
}

// DeleteAsset 删除库记录并尽力删除存储对象，对象删除失败只告警
func (s *MediaService) DeleteAsset(ctx context.Context, id uint) error {
	asset, err := s.MediaRepo.FindByID(id)
	if err != nil {
		return util.TranslateDBError(err)
	}
	if err := s.MediaRepo.Delete(id); err != nil {
		return err
	}
	if err := s.Storage.Remove(ctx, asset.ObjectKey); err != nil && s.Logger != nil {
		s.Logger.Warn("storage object removal failed",
			zap.String("objectKey", asset.ObjectKey), zap.Error(err))
	}
	return nil
}
