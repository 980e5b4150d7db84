// Command midirouter is the realtime MIDI routing daemon: it sits on the
// audio graph, routes and rewrites events between the configured devices,
// and hands UI action commands to whatever is driving the appliance.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/sketchpadaudio/midirouter/config"
	"github.com/sketchpadaudio/midirouter/cuia"
	"github.com/sketchpadaudio/midirouter/logging"
	"github.com/sketchpadaudio/midirouter/router"
	"github.com/sketchpadaudio/midirouter/sketchpad"
)

func main() {
	configPath := pflag.StringP("config", "c", "midirouter.yaml", "path to the device and filter configuration")
	oscControl := pflag.Bool("osc-control", false, "start the OSC server for runtime log level control")
	pflag.Parse()

	appLog := logging.Get(logging.APP)

	if *oscControl {
		logging.StartControlServer()
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		appLog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	client, activate, shutdown, err := openClient(cfg.ClientName)
	if err != nil {
		appLog.Error("Failed to open audio graph client", "error", err)
		os.Exit(1)
	}

	engine := router.New(client, router.NopSyncTimer{})
	engine.SetGlobalMasterChannel(cfg.GlobalMasterChannel)
	engine.SetCurrentTrack(sketchpad.Track(cfg.CurrentTrack))
	if err := applyConfig(engine, cfg); err != nil {
		appLog.Error("Failed to apply configuration", "error", err)
		os.Exit(1)
	}

	if err := activate(engine.Process); err != nil {
		appLog.Error("Failed to activate audio graph client", "error", err)
		os.Exit(1)
	}
	appLog.Info("Router running", "client", cfg.ClientName, "devices", len(engine.Devices()))

	// The UI loop: service the non-realtime side of every device, and drain
	// the raised UI actions.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			appLog.Info("Shutting down")
			for _, device := range engine.Devices() {
				engine.RemoveDevice(device)
			}
			shutdown()
			return
		case <-ticker.C:
			engine.HandlePostponedEvents()
			for _, device := range engine.Devices() {
				for {
					command, ok := device.CommandRing.Read()
					if !ok {
						break
					}
					appLog.Info("UI action raised",
						"command", command.Event.Command(),
						"origin", command.OriginID,
						"track", command.Track.Label(),
						"slot", command.Slot.Label(),
						"value", command.Value)
					engine.CommandFeedback(command.Event, command.OriginID, command.Track, command.Slot, command.Value)
				}
			}
		}
	}
}

func applyConfig(engine *router.Router, cfg *config.Config) error {
	trackDevices := map[sketchpad.Track][]*router.Device{}
	for deviceIndex, deviceCfg := range cfg.Devices {
		device := engine.AddDevice()
		device.SetHardwareID(deviceCfg.HardwareID)
		device.SetExternalID(deviceCfg.ExternalID)
		device.SetHumanReadableName(deviceCfg.HumanName)
		device.SetInputPortName(deviceCfg.InputPort)
		device.SetOutputPortName(deviceCfg.OutputPort)
		device.SetInputEnabled(deviceCfg.InputEnabled)
		device.SetOutputEnabled(deviceCfg.OutputEnabled)
		device.SetSendTimecode(deviceCfg.SendTimecode)
		device.SetSendBeatClock(deviceCfg.SendBeatClock)
		device.SetTransposeAmount(deviceCfg.Transpose)
		if deviceCfg.TimecodeGenerator {
			device.SetDeviceType(router.TimeCodeGeneratorType, true)
		}
		if deviceCfg.MasterChannel != nil {
			device.SetMasterChannel(-1, *deviceCfg.MasterChannel)
		}
		for channel, track := range deviceCfg.ChannelTargetTracks {
			device.SetMidiChannelTargetTrack(channel, sketchpad.Track(track))
		}
		for _, track := range deviceCfg.Tracks {
			trackDevices[sketchpad.Track(track)] = append(trackDevices[sketchpad.Track(track)], device)
		}
		if err := applyFilter(device.InputEventFilter(), deviceCfg.InputFilter); err != nil {
			return fmt.Errorf("device %d input filter: %w", deviceIndex, err)
		}
		if err := applyFilter(device.OutputEventFilter(), deviceCfg.OutputFilter); err != nil {
			return fmt.Errorf("device %d output filter: %w", deviceIndex, err)
		}
	}
	for track, devices := range trackDevices {
		engine.SetTrackDevices(track, devices)
	}
	return nil
}

func applyFilter(filter *router.Filter, entries []config.FilterEntry) error {
	for entryIndex, entryCfg := range entries {
		entry := filter.CreateEntry(-1)
		if filter.Direction() == router.InputDirection {
			if entryCfg.RequiredBytes > 0 {
				entry.SetRequiredBytes(entryCfg.RequiredBytes)
			}
			entry.SetRequireRange(entryCfg.RequireRange)
			entry.SetByte1Minimum(entryCfg.Byte1Min)
			if entryCfg.RequireRange {
				entry.SetByte1Maximum(entryCfg.Byte1Max)
			}
			entry.SetByte2Minimum(entryCfg.Byte2Min)
			if entryCfg.RequireRange {
				entry.SetByte2Maximum(entryCfg.Byte2Max)
			}
			entry.SetByte3Minimum(entryCfg.Byte3Min)
			if entryCfg.RequireRange {
				entry.SetByte3Maximum(entryCfg.Byte3Max)
			}
			entry.SetTargetTrack(sketchpad.Track(entryCfg.TargetTrack))
		} else {
			entry.SetCuiaEvent(cuia.EventForCommand(entryCfg.CuiaCommand))
			entry.SetOriginTrack(sketchpad.Track(entryCfg.OriginTrack))
			entry.SetOriginSlot(sketchpad.Slot(entryCfg.OriginSlot))
			entry.SetValueMinimum(entryCfg.ValueMin)
			entry.SetValueMaximum(entryCfg.ValueMax)
		}
		for ruleIndex, ruleCfg := range entryCfg.Rules {
			rule := entry.AddRewriteRule(-1)
			if err := applyRule(rule, ruleCfg); err != nil {
				return fmt.Errorf("entry %d rule %d: %w", entryIndex, ruleIndex, err)
			}
		}
	}
	return nil
}

func applyRule(rule *router.RewriteRule, ruleCfg config.RewriteRule) error {
	if ruleCfg.Type == "ui" {
		rule.SetType(router.UIRule)
		rule.SetCuiaEvent(cuia.EventForCommand(ruleCfg.CuiaCommand))
		rule.SetCuiaTrack(sketchpad.Track(ruleCfg.CuiaTrack))
		rule.SetCuiaSlot(sketchpad.Slot(ruleCfg.CuiaSlot))
		value, err := parseValueSource(ruleCfg.CuiaValue)
		if err != nil {
			return err
		}
		return rule.SetCuiaValue(value)
	}
	rule.SetType(router.TrackRule)
	if ruleCfg.ByteSize != 0 {
		rule.SetByteSize(router.EventSize(ruleCfg.ByteSize))
	}
	for index, source := range ruleCfg.Bytes {
		if index > 2 {
			break
		}
		parsed, err := parseByteSource(source)
		if err != nil {
			return err
		}
		if err := rule.SetByte(index, parsed); err != nil {
			return err
		}
	}
	for index, addChannel := range ruleCfg.BytesAddChannel {
		if index > 2 {
			break
		}
		rule.SetByteAddChannel(index, addChannel)
	}
	return nil
}

func parseByteSource(source string) (router.EventByte, error) {
	switch source {
	case "original1":
		return router.OriginalByte1, nil
	case "original2":
		return router.OriginalByte2, nil
	case "original3":
		return router.OriginalByte3, nil
	}
	value, err := strconv.ParseInt(source, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid byte source %q: %w", source, err)
	}
	return router.EventByte(value), nil
}

func parseValueSource(source string) (router.ValueSpecifier, error) {
	switch source {
	case "byte1":
		return router.ValueByte1, nil
	case "byte2":
		return router.ValueByte2, nil
	case "byte3":
		return router.ValueByte3, nil
	case "channel":
		return router.ValueEventChannel, nil
	case "":
		return router.ValueByte3, nil
	}
	value, err := strconv.ParseInt(source, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid value source %q: %w", source, err)
	}
	return router.ValueSpecifier(value), nil
}
