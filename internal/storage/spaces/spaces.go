// Package spaces implements image storage on DigitalOcean Spaces, or any other S3 compatible service
package spaces

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/DMarby/image-pipeline/internal/storage"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// Provider implements a spaces based image storage
type Provider struct {
	spaces *s3.S3
	space  string
}

// New returns a new Provider instance, checking that the space is reachable
func New(ctx context.Context, space, endpoint, accessKey, secretKey string, forcePathStyle bool) (*Provider, error) {
	spacesSession, err := session.NewSession(&aws.Config{
		Credentials:      credentials.NewStaticCredentials(accessKey, secretKey, ""),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String("us-east-1"), // Needs to be us-east-1 for Spaces, or it'll fail
		S3ForcePathStyle: aws.Bool(forcePathStyle),
	})
	if err != nil {
		return nil, err
	}

	p := &Provider{
		spaces: s3.New(spacesSession),
		space:  space,
	}

	if err := p.Ping(ctx); err != nil {
		return nil, err
	}

	return p, nil
}

// Ping checks that the space exists and is readable
func (p *Provider) Ping(ctx context.Context) error {
	_, err := p.spaces.HeadBucketWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(p.space),
	})
	return err
}

// Get returns the image data for an image id, trying every known extension in order
func (p *Provider) Get(ctx context.Context, id string) ([]byte, error) {
	for _, extension := range storage.Extensions {
		data, err := p.get(ctx, id+extension)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}

		return data, err
	}

	return nil, storage.ErrNotFound
}

func (p *Provider) get(ctx context.Context, key string) ([]byte, error) {
	output, err := p.spaces.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.space),
		Key:    aws.String(key),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, storage.ErrNotFound
		}

		return nil, err
	}
	defer output.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, output.Body); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
