//go:build jack
// +build jack

package main

import (
	"github.com/sketchpadaudio/midirouter/graph"
)

// openClient connects to the JACK server. The returned activate function
// installs the process callback and starts the graph; shutdown tears the
// client down.
func openClient(clientName string) (graph.Client, func(process func(uint32) int) error, func(), error) {
	client, err := graph.OpenJack(clientName)
	if err != nil {
		return nil, nil, nil, err
	}
	activate := func(process func(uint32) int) error {
		if err := client.SetProcessCallback(process); err != nil {
			return err
		}
		return client.Activate()
	}
	shutdown := func() {
		_ = client.Close()
	}
	return client, activate, shutdown, nil
}
