package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStorage stores documents as Cloudinary assets. Keys have the
// form "<resourceType>:<publicID>" because destroying an asset needs both.
type CloudinaryStorage struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStorage connects with API credentials
func NewCloudinaryStorage(cloudName, apiKey, apiSecret, folder string) (*CloudinaryStorage, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &CloudinaryStorage{cld: cld, folder: folder}, nil
}

func (s *CloudinaryStorage) Name() string { return "cloudinary" }

// Save uploads r; the extension is stripped from key to form the public ID
func (s *CloudinaryStorage) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*StoredFile, error) {
	publicID := strings.TrimSuffix(key, path.Ext(key))
	result, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID:     publicID,
		Folder:       s.folder,
		ResourceType: "auto",
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if result.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload: %s", result.Error.Message)
	}

	return &StoredFile{
		Key:  CloudinaryKey(result.ResourceType, result.PublicID),
		Path: result.PublicID,
		URL:  result.SecureURL,
	}, nil
}

// Delete destroys the asset named by key
func (s *CloudinaryStorage) Delete(ctx context.Context, key string) error {
	resourceType, publicID, err := ParseCloudinaryKey(key)
	if err != nil {
		return err
	}
	result, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if result.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy: %s", result.Error.Message)
	}
	switch result.Result {
	case "ok", "not found":
		return nil
	default:
		return fmt.Errorf("cloudinary destroy: unexpected result %q", result.Result)
	}
}

// CloudinaryKey joins a resource type and public ID into a storage key
func CloudinaryKey(resourceType, publicID string) string {
	if resourceType == "" {
		resourceType = "image"
	}
	return resourceType + ":" + publicID
}

// ParseCloudinaryKey splits a key produced by CloudinaryKey
func ParseCloudinaryKey(key string) (resourceType, publicID string, err error) {
	resourceType, publicID, ok := strings.Cut(key, ":")
	if !ok || resourceType == "" || publicID == "" {
		return "", "", fmt.Errorf("invalid cloudinary key %q", key)
	}
	return resourceType, publicID, nil
}
