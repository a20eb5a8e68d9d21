/*
Package storage moves report inputs and outputs through the object store.
Extract workbooks are downloaded from the bucket before a run, and each
rendered report is compressed and archived after a successful send.
*/
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

type Store struct {
	client *s3.Client
	bucket string
}

func NewStore(ctx context.Context, region string, bucket string) (store *Store, e *xerr.Error) {
	awsCfg, cfgErr := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if cfgErr != nil {
		e = xerr.NewError(cfgErr, "load aws configuration", bucket)
		return nil, e
	}

	store = &Store{
		client: s3.NewFromConfig(awsCfg),
		bucket: bucket,
	}
	return store, e
}

/*
DownloadRequiredFiles fetches every listed object key into destinationDir,
keeping the key's base name. It returns the local paths in the same order
as the keys.
*/
func (s *Store) DownloadRequiredFiles(ctx context.Context, keys []string, destinationDir string) (localPaths []string, e *xerr.Error) {
	mkdirErr := os.MkdirAll(destinationDir, 0o755)
	if mkdirErr != nil {
		e = xerr.NewError(mkdirErr, "create download directory", destinationDir)
		return nil, e
	}

	for _, key := range keys {
		localPath := filepath.Join(destinationDir, filepath.Base(key))

		output, getErr := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if getErr != nil {
			e = xerr.NewErrorEC(getErr, "download extract", "key", key, true)
			return nil, e
		}

		body, readErr := io.ReadAll(output.Body)
		output.Body.Close()
		if readErr != nil {
			e = xerr.NewErrorEC(readErr, "read extract body", "key", key, true)
			return nil, e
		}

		writeErr := os.WriteFile(localPath, body, 0o644)
		if writeErr != nil {
			e = xerr.NewError(writeErr, "write extract file", localPath)
			return nil, e
		}

		tl.Log(tl.Info, palette.Green, "Downloaded s3://%s/%s (%d bytes)", s.bucket, key, len(body))
		localPaths = append(localPaths, localPath)
	}

	return localPaths, e
}

/*
ArchiveReport stores a brotli-compressed copy of the rendered report HTML
under reports/<date>/<name>.html.br and returns the object key.
*/
func (s *Store) ArchiveReport(ctx context.Context, name string, reportDate time.Time, htmlBody string) (key string, e *xerr.Error) {
	var compressed bytes.Buffer
	writer := brotli.NewWriterLevel(&compressed, brotli.BestCompression)
	_, writeErr := writer.Write([]byte(htmlBody))
	if writeErr == nil {
		writeErr = writer.Close()
	}
	if writeErr != nil {
		e = xerr.NewError(writeErr, "compress report", name)
		return "", e
	}

	key = fmt.Sprintf("reports/%s/%s.html.br", reportDate.Format("2006-01-02"), name)
	_, putErr := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:          aws.String(s.bucket),
		Key:             aws.String(key),
		Body:            bytes.NewReader(compressed.Bytes()),
		ContentType:     aws.String("text/html"),
		ContentEncoding: aws.String("br"),
	})
	if putErr != nil {
		e = xerr.NewErrorEC(putErr, "archive report", "key", key, true)
		return "", e
	}

	tl.Log(
		tl.Info, palette.Green, "Archived report to s3://%s/%s (%d -> %d bytes)",
		s.bucket, key, len(htmlBody), compressed.Len(),
	)

	return key, e
}
