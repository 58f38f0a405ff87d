package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "requestlogs/a.json", want: "requestlogs/a.json"},
		{name: "simple prefix", prefix: "root", key: "requestlogs/a.json", want: "root/requestlogs/a.json"},
		{name: "prefix trailing slash", prefix: "root/", key: "requestlogs/a.json", want: "root/requestlogs/a.json"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/requestlogs/a.json", want: "root/requestlogs/a.json"},
		{name: "empty key", prefix: "root", key: "", want: "root"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

type fakeS3 struct {
	put     *s3.PutObjectInput
	body    []byte
	objects map[string][]byte
	putErr  error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.put = params
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[aws.ToString(params.Key)] = body
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func TestPutUsesPrefixAndEncryption(t *testing.T) {
	fake := &fakeS3{}
	store := NewWithClient(fake, "bucket", "/logs/", "")

	n, err := store.Put(context.Background(), "requestlogs/a.json", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if n != 2 {
		t.Fatalf("size = %d", n)
	}
	if aws.ToString(fake.put.Key) != "logs/requestlogs/a.json" || aws.ToString(fake.put.Bucket) != "bucket" {
		t.Fatalf("unexpected put input: %+v", fake.put)
	}
	if fake.put.ServerSideEncryption != s3types.ServerSideEncryptionAes256 {
		t.Fatalf("sse = %v", fake.put.ServerSideEncryption)
	}

	rc, err := store.Open(context.Background(), "requestlogs/a.json")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	if string(got) != "{}" {
		t.Fatalf("body = %q", got)
	}
}

func TestPutWithKMSKey(t *testing.T) {
	fake := &fakeS3{}
	store := NewWithClient(fake, "bucket", "", "kms-123")
	if _, err := store.Put(context.Background(), "k", "text/plain", strings.NewReader("x")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if fake.put.ServerSideEncryption != s3types.ServerSideEncryptionAwsKms || aws.ToString(fake.put.SSEKMSKeyId) != "kms-123" {
		t.Fatalf("unexpected kms settings: %+v", fake.put)
	}
}

func TestPutWrapsError(t *testing.T) {
	store := NewWithClient(&fakeS3{putErr: errors.New("denied")}, "bucket", "", "")
	_, err := store.Put(context.Background(), "k", "", strings.NewReader("x"))
	if err == nil || !strings.Contains(err.Error(), "bucket=bucket key=k") {
		t.Fatalf("err = %v", err)
	}
}
