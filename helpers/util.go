package helpers

import (
	"errors"
	"net/url"
	"strings"
)

func GetSplitPart(target string, separate string, index int) (string, error) {
	parts := strings.Split(target, separate)
	if index >= len(parts) {
		return "", errors.New("index out of range")
	}
	return parts[index], nil
}

// LastPathSegment returns the final path segment of a URL with query
// string and fragment removed, for deriving product ids from links
func LastPathSegment(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", err
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return "", errors.New("no path segments")
	}
	parts := strings.Split(path, "/")
	return parts[len(parts)-1], nil
}
