package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPutter struct{ mock.Mock }

func (m *mockPutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.PutObjectOutput)
	return out, args.Error(1)
}

func TestS3Store_PutUsaPrefijoYDevuelveUbicacion(t *testing.T) {
	putter := new(mockPutter)
	putter.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		body, _ := io.ReadAll(in.Body)
		return aws.ToString(in.Bucket) == "crm-docs" &&
			aws.ToString(in.Key) == "invoices/c1/INV-0001.pdf" &&
			aws.ToString(in.ContentType) == "application/pdf" &&
			string(body) == "%PDF-1.4"
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	store := newS3Store(putter, "crm-docs", "invoices")
	loc, err := store.Put(context.Background(), "c1/INV-0001.pdf", "application/pdf", []byte("%PDF-1.4"))

	require.NoError(t, err)
	assert.Equal(t, "s3://crm-docs/invoices/c1/INV-0001.pdf", loc)
	putter.AssertExpectations(t)
}

func TestS3Store_PutPropagaError(t *testing.T) {
	putter := new(mockPutter)
	putter.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	_, err := newS3Store(putter, "crm-docs", "").Put(context.Background(), "k.pdf", "application/pdf", nil)
	assert.ErrorContains(t, err, "access denied")
}
