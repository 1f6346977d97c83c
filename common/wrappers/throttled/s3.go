// The MIT License (MIT)

// Copyright (c) 2017-2020 Uber Technologies Inc.

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package throttled

//go:generate mockgen -package $GOPACKAGE -source $GOFILE -destination s3_mock.go -self_package github.com/uber/throttler/common/wrappers/throttled

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/uber/throttler/common/throttle"
)

type (
	// S3API is the part of s3iface.S3API that goes through admission control
	S3API interface {
		HeadBucketWithContext(ctx aws.Context, input *s3.HeadBucketInput, opts ...request.Option) (*s3.HeadBucketOutput, error)
		HeadObjectWithContext(ctx aws.Context, input *s3.HeadObjectInput, opts ...request.Option) (*s3.HeadObjectOutput, error)
		GetObjectWithContext(ctx aws.Context, input *s3.GetObjectInput, opts ...request.Option) (*s3.GetObjectOutput, error)
		PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error)
		DeleteObjectWithContext(ctx aws.Context, input *s3.DeleteObjectInput, opts ...request.Option) (*s3.DeleteObjectOutput, error)
		ListObjectsV2WithContext(ctx aws.Context, input *s3.ListObjectsV2Input, opts ...request.Option) (*s3.ListObjectsV2Output, error)
		GetObjectTaggingWithContext(ctx aws.Context, input *s3.GetObjectTaggingInput, opts ...request.Option) (*s3.GetObjectTaggingOutput, error)
	}

	s3Client struct {
		s3cli    S3API
		resolver throttle.Resolver
	}
)

var _ S3API = (s3iface.S3API)(nil)

// NewS3Client wraps s3cli so that every call is admitted by the controller
// resolver picks for its method name
func NewS3Client(
	s3cli S3API,
	resolver throttle.Resolver,
) S3API {
	return &s3Client{
		s3cli:    s3cli,
		resolver: resolver,
	}
}

func (c *s3Client) HeadBucketWithContext(
	ctx aws.Context,
	input *s3.HeadBucketInput,
	opts ...request.Option,
) (*s3.HeadBucketOutput, error) {
	return call(ctx, c.resolver, "HeadBucket", func() (*s3.HeadBucketOutput, error) {
		return c.s3cli.HeadBucketWithContext(ctx, input, opts...)
	})
}

func (c *s3Client) HeadObjectWithContext(
	ctx aws.Context,
	input *s3.HeadObjectInput,
	opts ...request.Option,
) (*s3.HeadObjectOutput, error) {
	return call(ctx, c.resolver, "HeadObject", func() (*s3.HeadObjectOutput, error) {
		return c.s3cli.HeadObjectWithContext(ctx, input, opts...)
	})
}

func (c *s3Client) GetObjectWithContext(
	ctx aws.Context,
	input *s3.GetObjectInput,
	opts ...request.Option,
) (*s3.GetObjectOutput, error) {
	return call(ctx, c.resolver, "GetObject", func() (*s3.GetObjectOutput, error) {
		return c.s3cli.GetObjectWithContext(ctx, input, opts...)
	})
}

func (c *s3Client) PutObjectWithContext(
	ctx aws.Context,
	input *s3.PutObjectInput,
	opts ...request.Option,
) (*s3.PutObjectOutput, error) {
	return call(ctx, c.resolver, "PutObject", func() (*s3.PutObjectOutput, error) {
		return c.s3cli.PutObjectWithContext(ctx, input, opts...)
	})
}

func (c *s3Client) DeleteObjectWithContext(
	ctx aws.Context,
	input *s3.DeleteObjectInput,
	opts ...request.Option,
) (*s3.DeleteObjectOutput, error) {
	return call(ctx, c.resolver, "DeleteObject", func() (*s3.DeleteObjectOutput, error) {
		return c.s3cli.DeleteObjectWithContext(ctx, input, opts...)
	})
}

func (c *s3Client) ListObjectsV2WithContext(
	ctx aws.Context,
	input *s3.ListObjectsV2Input,
	opts ...request.Option,
) (*s3.ListObjectsV2Output, error) {
	return call(ctx, c.resolver, "ListObjectsV2", func() (*s3.ListObjectsV2Output, error) {
		return c.s3cli.ListObjectsV2WithContext(ctx, input, opts...)
	})
}

func (c *s3Client) GetObjectTaggingWithContext(
	ctx aws.Context,
	input *s3.GetObjectTaggingInput,
	opts ...request.Option,
) (*s3.GetObjectTaggingOutput, error) {
	return call(ctx, c.resolver, "GetObjectTagging", func() (*s3.GetObjectTaggingOutput, error) {
		return c.s3cli.GetObjectTaggingWithContext(ctx, input, opts...)
	})
}

func call[T any](ctx context.Context, resolver throttle.Resolver, method string, fn func() (T, error)) (T, error) {
	return throttle.Call(ctx, resolver.For(method), method, fn)
}
