// Package artifact packages a handler binary as a Lambda deployment archive
// and uploads it to the code location of the stack.
package artifact

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dustin/go-humanize"
)

// EntryName is the archive entry the provided runtimes execute.
const EntryName = "bootstrap"

// Archive is a zipped deployment package.
type Archive struct {
	Data []byte
	// SHA256 is the base64 digest Lambda reports as CodeSha256.
	SHA256 string
}

// Size returns the archive size, e.g. "4.2 MB".
func (a *Archive) Size() string {
	return humanize.Bytes(uint64(len(a.Data)))
}

// Zip reads the binary at path and packs it as an executable bootstrap
// entry.
func Zip(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	return ZipReader(f, info.ModTime())
}

// ZipReader packs r as the bootstrap entry.
func ZipReader(r io.Reader, modified time.Time) (*Archive, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	header := &zip.FileHeader{Name: EntryName, Method: zip.Deflate, Modified: modified}
	header.SetMode(0o755)

	entry, err := w.CreateHeader(header)
	if err != nil {
		return nil, fmt.Errorf("creating archive entry: %w", err)
	}
	if _, err := io.Copy(entry, r); err != nil {
		return nil, fmt.Errorf("writing archive entry: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}

	sum := sha256.Sum256(buf.Bytes())
	return &Archive{
		Data:   buf.Bytes(),
		SHA256: base64.StdEncoding.EncodeToString(sum[:]),
	}, nil
}

// PutObjectAPI is the subset of the S3 client used by Publish.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Published describes an uploaded archive.
type Published struct {
	Bucket string
	Key    string
	Size   string
	ETag   string
}

// Publish uploads the archive to bucket/key.
func Publish(ctx context.Context, client PutObjectAPI, a *Archive, bucket, key string) (*Published, error) {
	out, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(a.Data),
		ContentType: aws.String("application/zip"),
	})
	if err != nil {
		return nil, fmt.Errorf("uploading s3://%s/%s: %w", bucket, key, err)
	}

	return &Published{
		Bucket: bucket,
		Key:    key,
		Size:   a.Size(),
		ETag:   aws.ToString(out.ETag),
	}, nil
}
