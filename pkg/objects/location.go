package objects

import (
	"regexp"

	"github.com/pkg/errors"
)

var locationRegexp = regexp.MustCompile(`s3[an]?://(?P<bucket>[^/]+)/(?P<key>.*)`)

// Location is a bucket and a key (or key prefix) inside it
type Location struct {
	Bucket string
	Key    string
}

// ParseLocation parses locations such as s3://bucket/key.
// s3a and s3n schemes are accepted too. The key may be empty but the bucket must be followed by a slash.
func ParseLocation(path string) (Location, error) {
	matches := locationRegexp.FindAllStringSubmatch(path, -1)
	switch len(matches) {
	case 0:
		return Location{}, errors.New("No results!")
	case 1:
		return Location{Bucket: matches[0][1], Key: matches[0][2]}, nil
	default:
		return Location{}, errors.New("Too many results!")
	}
}

func (l Location) String() string {
	return "s3://" + l.Bucket + "/" + l.Key
}
