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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-matcher/internal/shared/storage/object"
	"resume-matcher/internal/shared/util"
)

type fakeS3 struct {
	objects map[string][]byte
	puts    []*s3.PutObjectInput
	putErr  error
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: map[string][]byte{}} }

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.puts = append(f.puts, in)
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestSaveOpenDeleteUnderPrefix(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	store := newStore(fake, "resumes", "/uploads/", "", false)

	key, size, mime, err := store.Save(ctx, "user-1", "cv.txt", strings.NewReader("Jane Doe, Go engineer"))
	require.NoError(t, err)
	assert.EqualValues(t, 21, size)
	assert.True(t, strings.HasPrefix(mime, "text/plain"), mime)
	assert.True(t, strings.HasPrefix(key, util.HashUserKey("user-1")+"/"), key)

	require.Len(t, fake.puts, 1)
	put := fake.puts[0]
	assert.Equal(t, "resumes", aws.ToString(put.Bucket))
	assert.Equal(t, "uploads/"+key, aws.ToString(put.Key))
	assert.EqualValues(t, 21, aws.ToInt64(put.ContentLength))
	assert.Equal(t, s3types.ServerSideEncryptionAes256, put.ServerSideEncryption)

	rc, err := store.Open(ctx, key)
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "Jane Doe, Go engineer", string(body))

	require.NoError(t, store.Delete(ctx, key))
	_, err = store.Open(ctx, key)
	var missing *s3types.NoSuchKey
	assert.ErrorAs(t, err, &missing)
}

func TestSaveWrapsPutError(t *testing.T) {
	fake := newFakeS3()
	fake.putErr = errors.New("access denied")
	store := newStore(fake, "resumes", "", "", false)

	_, _, _, err := store.Save(context.Background(), "user-1", "cv.pdf", strings.NewReader("%PDF-1.4"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")

	_, _, _, err = store.Save(context.Background(), "user-1", "..", strings.NewReader("x"))
	assert.ErrorIs(t, err, util.ErrInvalidFileName)
}

func TestRejectsTraversalKeys(t *testing.T) {
	store := newStore(newFakeS3(), "resumes", "", "", false)
	for _, key := range []string{"", "..", "../other/file", "a/../../b"} {
		_, err := store.Open(context.Background(), key)
		assert.ErrorIs(t, err, object.ErrInvalidKey, key)
		assert.ErrorIs(t, store.Delete(context.Background(), key), object.ErrInvalidKey, key)
	}
}

func TestApplyPrefix(t *testing.T) {
	for _, tt := range []struct{ prefix, key, want string }{
		{"", "user/file.pdf", "user/file.pdf"},
		{"root", "user/file.pdf", "root/user/file.pdf"},
		{"root/", "/user/file.pdf", "root/user/file.pdf"},
		{"root/sub", "user/file.pdf", "root/sub/user/file.pdf"},
		{"root", "", "root"},
	} {
		assert.Equal(t, tt.want, applyPrefix(tt.prefix, tt.key), "%q + %q", tt.prefix, tt.key)
	}
}

func TestApplyEncryption(t *testing.T) {
	in := &s3.PutObjectInput{}
	newStore(nil, "b", "", "key-1", false).applyEncryption(in)
	assert.Equal(t, s3types.ServerSideEncryptionAwsKms, in.ServerSideEncryption)
	assert.Equal(t, "key-1", aws.ToString(in.SSEKMSKeyId))

	in = &s3.PutObjectInput{}
	newStore(nil, "b", "", "", false).applyEncryption(in)
	assert.Equal(t, s3types.ServerSideEncryptionAes256, in.ServerSideEncryption)

	in = &s3.PutObjectInput{}
	newStore(nil, "b", "", "", true).applyEncryption(in)
	assert.Empty(t, in.ServerSideEncryption)
}
