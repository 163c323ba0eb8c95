package objects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		path   string
		bucket string
		key    string
	}{
		{"s3://this-is-the-bucket/here-is/the-key", "this-is-the-bucket", "here-is/the-key"},
		{"s3a://this-is-the-bucket/here-is/the-key", "this-is-the-bucket", "here-is/the-key"},
		{"s3n://this-is-the-bucket/here-is/the-key", "this-is-the-bucket", "here-is/the-key"},
		{"s3://this_is_the_bucket/here_is/the_key", "this_is_the_bucket", "here_is/the_key"},
		{"s3://this_is_the_bucket/", "this_is_the_bucket", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			loc, err := ParseLocation(tt.path)
			require.NoError(t, err)
			assert.Equal(t, Location{Bucket: tt.bucket, Key: tt.key}, loc)
		})
	}
}

func TestParseLocationInvalid(t *testing.T) {
	for _, p := range []string{
		"s://this-is-the-bucket/",
		"s3://this-is-the-bucket",
		"s3d://this-is-the-bucket/here-is/the-key",
		"",
	} {
		_, err := ParseLocation(p)
		assert.EqualError(t, err, "No results!", p)
	}

	_, err := ParseLocation("s3://a/b\ns3://c/d")
	assert.EqualError(t, err, "Too many results!")
}

func TestLocationString(t *testing.T) {
	loc, err := ParseLocation("s3a://bucket/some/prefix")
	require.NoError(t, err)
	assert.Equal(t, "s3://bucket/some/prefix", loc.String())
}
