//go:build js

package main

import (
	"net/url"
	"strings"
	"syscall/js"

	"github.com/oliverbestmann/rtcylinder/loader"
)

// assetSource resolves asset paths against base, which itself is resolved
// against the location of the page.
func assetSource(base string) (loader.Source, error) {
	page, err := url.Parse(js.Global().Get("location").Get("href").String())
	if err != nil {
		return nil, err
	}

	ref, err := url.Parse(base)
	if err != nil {
		return nil, err
	}

	// base names a directory, keep its last segment when resolving assets
	if !strings.HasSuffix(ref.Path, "/") {
		ref.Path += "/"
	}

	return loader.HTTPSource{BaseURL: page.ResolveReference(ref)}, nil
}
