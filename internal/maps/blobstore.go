package maps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/jason-s-yu/halo/internal/models"
)

// DataStore keeps the forge payload of each map, keyed by map id.
type DataStore interface {
	Put(ctx context.Context, id string, data models.MapData) error
	Get(ctx context.Context, id string) (models.MapData, error)
}

// MemoryStore is the default DataStore when no bucket is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Put(_ context.Context, id string, data models.MapData) error {
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal map data: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[id] = b
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (models.MapData, error) {
	m.mu.RLock()
	b, ok := m.data[id]
	m.mu.RUnlock()
	if !ok {
		return models.MapData{}, fmt.Errorf("map data %q: %w", id, models.ErrNotFound)
	}
	var out models.MapData
	if err := json.Unmarshal(b, &out); err != nil {
		return models.MapData{}, fmt.Errorf("failed to decode map data %q: %w", id, err)
	}
	return out, nil
}

// S3Config points the blob store at an S3 compatible bucket (AWS, R2, MinIO).
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	Prefix          string
}

// S3Store keeps each map's data as a JSON object under Prefix/<id>.json.
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	region := cfg.Region
	if region == "" {
		region = "auto"
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.AccessKeySecret, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "maps"
	}
	return &S3Store{client: client, bucket: cfg.Bucket, prefix: prefix}, nil
}

func (s *S3Store) key(id string) string {
	return s.prefix + "/" + id + ".json"
}

func (s *S3Store) Put(ctx context.Context, id string, data models.MapData) error {
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal map data: %w", err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(id)),
		Body:        bytes.NewReader(b),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload map %q: %w", id, err)
	}
	return nil
}

func (s *S3Store) Get(ctx context.Context, id string) (models.MapData, error) {
	obj, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return models.MapData{}, fmt.Errorf("map data %q: %w", id, models.ErrNotFound)
		}
		return models.MapData{}, fmt.Errorf("failed to fetch map %q: %w", id, err)
	}
	defer obj.Body.Close()

	var out models.MapData
	if err := json.NewDecoder(obj.Body).Decode(&out); err != nil {
		return models.MapData{}, fmt.Errorf("failed to decode map data %q: %w", id, err)
	}
	return out, nil
}
