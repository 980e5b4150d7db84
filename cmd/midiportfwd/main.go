// Command midiportfwd is a bench utility: it lists the system's MIDI ports,
// or forwards one input port to one output port, printing each message as it
// passes. Useful for exercising the router's ports without a full setup.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

func main() {
	list := pflag.BoolP("list", "l", false, "list available MIDI ports and exit")
	inputName := pflag.StringP("in", "i", "", "input port to forward from")
	outputName := pflag.StringP("out", "o", "", "output port to forward to")
	quiet := pflag.BoolP("quiet", "q", false, "do not print forwarded messages")
	pflag.Parse()

	defer gomidi.CloseDriver()

	if *list {
		fmt.Println("Inputs:")
		for _, port := range gomidi.GetInPorts() {
			fmt.Printf("  %s\n", port)
		}
		fmt.Println("Outputs:")
		for _, port := range gomidi.GetOutPorts() {
			fmt.Printf("  %s\n", port)
		}
		return
	}

	if *inputName == "" || *outputName == "" {
		fmt.Fprintln(os.Stderr, "both --in and --out are required (or use --list)")
		os.Exit(2)
	}

	input, err := findInPort(*inputName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	output, err := findOutPort(*outputName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	send, err := gomidi.SendTo(output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open output %q: %v\n", output, err)
		os.Exit(1)
	}

	stop, err := gomidi.ListenTo(input, func(msg gomidi.Message, timestampms int32) {
		if !*quiet {
			fmt.Printf("%8dms %s\n", timestampms, msg)
		}
		if err := send(msg); err != nil {
			fmt.Fprintf(os.Stderr, "failed to forward message: %v\n", err)
		}
	}, gomidi.UseSysEx())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to listen on %q: %v\n", input, err)
		os.Exit(1)
	}
	defer stop()

	fmt.Printf("Forwarding %q to %q, press ctrl-c to stop\n", input, output)
	interrupted := make(chan os.Signal, 1)
	signal.Notify(interrupted, syscall.SIGINT, syscall.SIGTERM)
	<-interrupted
}

func findInPort(name string) (drivers.In, error) {
	for _, port := range gomidi.GetInPorts() {
		if port.String() == name {
			return port, nil
		}
	}
	return nil, fmt.Errorf("input port %q not found", name)
}

func findOutPort(name string) (drivers.Out, error) {
	for _, port := range gomidi.GetOutPorts() {
		if port.String() == name {
			return port, nil
		}
	}
	return nil, fmt.Errorf("output port %q not found", name)
}
