package render

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

const maxAssetBytes = 32 << 20

// assetCache fetches image assets referenced by templates and keeps them
// for the lifetime of a batch, so a shared asset is fetched once rather
// than once per recipient.
type assetCache struct {
	store  *cache.Cache
	client *http.Client
}

func newAssetCache() *assetCache {
	return &assetCache{
		store:  cache.New(30*time.Minute, time.Hour),
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// fetch resolves an asset reference to raw bytes. Data URIs are decoded
// inline; http(s) references are fetched and cached; anything else is
// treated as a local file path.
func (a *assetCache) fetch(ref string) ([]byte, error) {
	if strings.HasPrefix(ref, "data:") {
		return decodeDataURI(ref)
	}

	if data, ok := a.store.Get(ref); ok {
		return data.([]byte), nil
	}

	var data []byte
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		resp, err := a.client.Get(ref)
		if err != nil {
			return nil, fmt.Errorf("%w: fetching %s: %v", ErrBadAsset, ref, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: fetching %s: status %d", ErrBadAsset, ref, resp.StatusCode)
		}
		var err2 error
		data, err2 = io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes))
		if err2 != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrBadAsset, ref, err2)
		}
	} else {
		var err error
		data, err = os.ReadFile(ref)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadAsset, err)
		}
	}

	a.store.SetDefault(ref, data)
	return data, nil
}

func (a *assetCache) flush() {
	a.store.Flush()
}

// decodeDataURI decodes a base64 data URI of the form
// data:<mime>;base64,<payload>.
func decodeDataURI(uri string) ([]byte, error) {
	idx := strings.Index(uri, ",")
	if idx < 0 {
		return nil, fmt.Errorf("%w: data URI has no payload", ErrBadAsset)
	}
	meta, payload := uri[:idx], uri[idx+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("%w: only base64 data URIs are supported", ErrBadAsset)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding data URI: %v", ErrBadAsset, err)
	}
	return data, nil
}
