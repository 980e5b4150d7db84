//go:build !jack
// +build !jack

package main

import (
	"errors"

	"github.com/sketchpadaudio/midirouter/graph"
)

// Without the jack build tag there is no graph to sit on; the daemon can
// only report how to get one.
func openClient(clientName string) (graph.Client, func(process func(uint32) int) error, func(), error) {
	return nil, nil, nil, errors.New("built without JACK support; rebuild with -tags jack")
}
