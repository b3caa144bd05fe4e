// Package archive copies saved sessions to an S3-compatible bucket.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"warehouse-backend/internal/config"
	"warehouse-backend/internal/reconcile"
)

// Document is the archived form of one saved session.
type Document struct {
	Workflow    string                 `json:"workflow"`
	ReferenceID string                 `json:"referenceId"`
	SessionID   string                 `json:"sessionId"`
	Name        string                 `json:"name"`
	SavedAt     time.Time              `json:"savedAt"`
	Records     []reconcile.SaveRecord `json:"records"`
}

type Archiver struct {
	client *s3.Client
	bucket string
	prefix string
}

// New builds an archiver from cfg. It returns nil when archiving is
// disabled; a nil *Archiver accepts and drops every document.
func New(ctx context.Context, cfg *config.Config) (*Archiver, error) {
	if !cfg.Archive.Enabled {
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Archive.AccessKey,
			cfg.Archive.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Archive.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("configure archive client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Archive.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Archive.Endpoint)
		}
		o.UsePathStyle = true
	})

	return &Archiver{client: client, bucket: cfg.Archive.Bucket, prefix: cfg.Archive.Prefix}, nil
}

// ObjectKey is <prefix>/<workflow>/<reference>/<session>.json.
func ObjectKey(prefix, workflow, referenceID, sessionID string) string {
	return path.Join(prefix, workflow, referenceID, sessionID+".json")
}

func (a *Archiver) Archive(ctx context.Context, doc Document) error {
	if a == nil || a.client == nil {
		return nil
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(ObjectKey(a.prefix, doc.Workflow, doc.ReferenceID, doc.SessionID)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	return err
}

// Remove deletes the archived copy of a session.
func (a *Archiver) Remove(ctx context.Context, workflow, referenceID, sessionID string) error {
	if a == nil || a.client == nil {
		return nil
	}
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(ObjectKey(a.prefix, workflow, referenceID, sessionID)),
	})
	return err
}
