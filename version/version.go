package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/metafates/gache"
	"github.com/ythdp/ythdp/constant"
	"github.com/ythdp/ythdp/filesystem"
	"github.com/ythdp/ythdp/network"
	"github.com/ythdp/ythdp/util"
	"github.com/ythdp/ythdp/where"
)

// manifestLimit caps how much of a manifest is read.
const manifestLimit = 1 << 20

var versionPattern = regexp.MustCompile(`@version\s+([\w.-]+)`)

// ErrNoVersion means the manifest was fetched but carries no version.
var ErrNoVersion = errors.New("could not determine remote version")

// Current returns the running version.
func Current() string {
	return constant.Version
}

func newCacher() *gache.Cache[string] {
	return gache.New[string](&gache.Options{
		Path:       where.Version(),
		Lifetime:   time.Hour * 24 * 2,
		FileSystem: &filesystem.GacheFs{},
	})
}

// Latest fetches the version published at manifestURL, bypassing every cache.
func Latest(ctx context.Context, manifestURL string) (string, error) {
	u, err := url.Parse(manifestURL)
	if err != nil {
		return "", fmt.Errorf("manifest url: %w", err)
	}

	q := u.Query()
	q.Set("_", strconv.FormatInt(time.Now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("User-Agent", constant.UserAgent)

	resp, err := network.Client.Do(req)
	if err != nil {
		return "", err
	}

	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetching manifest: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, manifestLimit))
	if err != nil {
		return "", err
	}

	return parseManifest(body)
}

// Cached is Latest with the result kept for two days.
func Cached(ctx context.Context, manifestURL string) (string, error) {
	cacher := newCacher()

	if ver, expired, err := cacher.Get(); err == nil && !expired && ver != "" {
		return ver, nil
	}

	ver, err := Latest(ctx, manifestURL)
	if err != nil {
		return "", err
	}

	_ = cacher.Set(ver)
	return ver, nil
}

// parseManifest accepts a GitHub release object or a script header with an @version line.
func parseManifest(body []byte) (string, error) {
	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.Unmarshal(body, &release); err == nil && release.TagName != "" {
		return strings.TrimPrefix(release.TagName, "v"), nil
	}

	if m := versionPattern.FindSubmatch(body); m != nil {
		return strings.TrimSpace(string(m[1])), nil
	}

	return "", ErrNoVersion
}
