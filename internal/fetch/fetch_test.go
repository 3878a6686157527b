package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/apperr"
)

type fakeS3 struct {
	bucket, key string
	body        string
	err         error
}

func (f *fakeS3) GetObjectWithContext(_ aws.Context, input *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	f.bucket, f.key = aws.StringValue(input.Bucket), aws.StringValue(input.Key)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestFetchHTTPFollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old.pdf", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/doc.pdf", http.StatusFound)
	})
	mux.HandleFunc("/doc.pdf", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("%PDF-1.4 body"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := New(0, "", nil)
	data, err := f.Fetch(context.Background(), srv.URL+"/old.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 body", string(data))
}

func TestFetchHTTPNonSuccess(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := New(0, "", nil).Fetch(context.Background(), srv.URL+"/missing.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.Fetch)
	assert.Contains(t, err.Error(), "404")
}

func TestFetchUnsupportedScheme(t *testing.T) {
	_, err := New(0, "", nil).Fetch(context.Background(), "ftp://host/doc.pdf")
	assert.ErrorIs(t, err, apperr.Fetch)

	_, err = New(0, "", nil).Fetch(context.Background(), "doc.pdf")
	assert.ErrorIs(t, err, apperr.Fetch)
}

func TestFetchS3(t *testing.T) {
	getter := &fakeS3{body: "%PDF from s3"}
	f := New(0, "ap-northeast-2", nil, WithObjectGetter(getter))

	data, err := f.Fetch(context.Background(), "s3://lectures/2024/os/week1.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF from s3", string(data))
	assert.Equal(t, "lectures", getter.bucket)
	assert.Equal(t, "2024/os/week1.pdf", getter.key)
}

func TestFetchS3Errors(t *testing.T) {
	f := New(0, "", nil, WithObjectGetter(&fakeS3{err: errors.New("NoSuchKey")}))

	_, err := f.Fetch(context.Background(), "s3://lectures/missing.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.Fetch)
	assert.Contains(t, err.Error(), "NoSuchKey")

	_, err = f.Fetch(context.Background(), "s3://lectures/")
	assert.ErrorIs(t, err, apperr.Fetch)
}
