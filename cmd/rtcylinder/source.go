//go:build !js

package main

import (
	"fmt"
	"os"

	"github.com/oliverbestmann/rtcylinder/loader"
)

func assetSource(dir string) (loader.Source, error) {
	stat, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}

	if !stat.IsDir() {
		return nil, fmt.Errorf("%q is not a directory", dir)
	}

	return loader.DirSource{FS: os.DirFS(dir)}, nil
}
