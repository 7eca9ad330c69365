// Package objstore is the boundary to the S3-compatible object store holding
// uploaded attachments. Every object key is namespaced by the uploading
// user's id; the store-side access policy trusts that prefix, so all calls
// here require a resolved user identity.
package objstore

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/avorobjovs/taskdeck/internal/common"
	"github.com/avorobjovs/taskdeck/internal/models"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in, optFns...)
	}

	// now is a test seam for generated file names.
	now = time.Now
)

// Config holds connection settings for the object store.
type Config struct {
	RootUser     string
	RootPassword string
	Bucket       string
	Region       string
	BaseEndpoint string
}

// Store uploads and deletes attachment objects and resolves their public
// URLs. The zero value is not usable; construct with New.
type Store struct {
	cfg Config
}

func New(cfg Config) *Store {
	return &Store{cfg: cfg}
}

func (s *Store) client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.RootUser,
			s.cfg.RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.cfg.BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// placeholderName reports whether the browser/OS gave us a useless source
// name (pasted screenshots arrive as "image.png" or "blob").
func placeholderName(name string) bool {
	l := strings.ToLower(name)
	return l == "" || l == "blob" || strings.HasPrefix(l, "image")
}

// extensionFor derives the stored extension: from the file name when it has
// one, else from the MIME subtype, defaulting to png.
func extensionFor(fileName, mimeType string) string {
	if ext := strings.TrimPrefix(path.Ext(fileName), "."); ext != "" {
		return strings.ToLower(ext)
	}
	if _, sub, ok := strings.Cut(mimeType, "/"); ok && sub != "" {
		return strings.ToLower(sub)
	}
	return "png"
}

// displayNameFor keeps a real original name verbatim and generates
// screenshot-<timestamp>.<ext> for placeholders.
func displayNameFor(fileName, ext string) string {
	if !placeholderName(fileName) {
		return fileName
	}
	return fmt.Sprintf("screenshot-%s.%s", now().Format("20060102150405"), ext)
}

// Upload writes data under a fresh key <ownerID>/<uuid>.<ext> and returns
// the resulting reference. The put is non-overwriting: a key collision is an
// invariant violation (ids are minted per call) and fails the upload rather
// than silently replacing an object. No reference is returned on failure.
func (s *Store) Upload(ctx context.Context, data []byte, fileName, mimeType, ownerID string) (*models.AttachmentRef, error) {
	if ownerID == "" {
		return nil, common.ErrAuthRequired
	}

	ext := extensionFor(fileName, mimeType)
	key := fmt.Sprintf("%s/%s.%s", ownerID, uuid.New(), ext)

	client, err := s.client(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorageWrite, err)
	}

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
		IfNoneMatch: aws.String("*"),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorageWrite, err)
	}

	return &models.AttachmentRef{
		URL:         s.PublicURL(key),
		DisplayName: displayNameFor(fileName, ext),
		SizeBytes:   int64(len(data)),
		MimeType:    mimeType,
	}, nil
}

// Remove deletes the object the url points at, recomputing the key from the
// url's trailing path segment and the owner's id. Deleting a key that does
// not exist is not an error.
func (s *Store) Remove(ctx context.Context, rawURL, ownerID string) error {
	if ownerID == "" {
		return common.ErrAuthRequired
	}

	key, err := s.keyFromURL(rawURL, ownerID)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorageDelete, err)
	}

	client, err := s.client(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorageDelete, err)
	}

	_, err = deleteObject(client, ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorageDelete, err)
	}
	return nil
}

// PublicURL resolves a storage key to its stable public URL. The bucket name
// appears as a path segment, which is what makes IsAttachmentURL work.
func (s *Store) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s",
		strings.TrimRight(s.cfg.BaseEndpoint, "/"), s.cfg.Bucket, key)
}

func (s *Store) keyFromURL(rawURL, ownerID string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("no object name in url %q", rawURL)
	}
	return ownerID + "/" + name, nil
}
