package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"scannamer/internal/config"
	"scannamer/internal/domain"
	"scannamer/internal/port"
)

type s3Store struct {
	client   *s3.Client
	bucket   string
	pageSize int32
}

// NewS3Store creates a new S3-backed FileStore implementation.
func NewS3Store(ctx context.Context, cfg *config.StoreConfig) (port.FileStore, error) {
	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return &s3Store{
		client:   s3.NewFromConfig(awsCfg, s3Opts...),
		bucket:   cfg.Bucket,
		pageSize: cfg.PageSize,
	}, nil
}

func (s *s3Store) List(ctx context.Context, prefix, pageToken string) (*port.DocumentPage, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}
	if pageToken != "" {
		input.ContinuationToken = aws.String(pageToken)
	}
	if s.pageSize > 0 {
		input.MaxKeys = aws.Int32(s.pageSize)
	}

	result, err := s.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("s3 list: %w", err)
	}

	page := &port.DocumentPage{}
	for _, obj := range result.Contents {
		key := aws.ToString(obj.Key)
		if strings.HasSuffix(key, "/") {
			continue
		}
		if !strings.EqualFold(path.Ext(key), ".pdf") {
			continue
		}
		doc := domain.Document{
			ID:   key,
			Name: path.Base(key),
		}
		if obj.Size != nil {
			doc.SizeBytes = *obj.Size
		}
		if obj.LastModified != nil {
			doc.ModifiedTime = *obj.LastModified
		}
		page.Documents = append(page.Documents, doc)
	}
	if result.IsTruncated != nil && *result.IsTruncated {
		page.NextToken = aws.ToString(result.NextContinuationToken)
	}
	return page, nil
}

func (s *s3Store) Download(ctx context.Context, id string) ([]byte, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 download: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 download read: %w", err)
	}
	return data, nil
}

// Rename copies the object to a key with the new base name in the same
// directory, then deletes the original. A delete failure after a successful
// copy is reported so both keys can be reconciled by hand.
func (s *s3Store) Rename(ctx context.Context, id, newName string) error {
	newKey := newName
	if dir := path.Dir(id); dir != "." {
		newKey = dir + "/" + newName
	}
	if newKey == id {
		return nil
	}

	copySource := s.bucket + "/" + id
	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		Key:        aws.String(newKey),
		CopySource: aws.String(url.PathEscape(copySource)),
	})
	if err != nil {
		return fmt.Errorf("s3 copy %s: %w", id, err)
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id),
	})
	if err != nil {
		return fmt.Errorf("s3 delete after copy %s: %w", id, err)
	}
	return nil
}
